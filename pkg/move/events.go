package move

import "github.com/dshills/gomove/pkg/graph"

// Events holds the session lifecycle callbacks the engine emits to the
// host. Every field is optional; nil callbacks are skipped. Callbacks run
// synchronously on the host's event loop and must not call back into the
// controller.
type Events struct {
	// SessionStarted fires after a session enters an active state
	SessionStarted func(session *Session)
	// CandidateChanged fires whenever the best candidate changes,
	// including to nil
	CandidateChanged func(candidate *Candidate)
	// SessionCommitted fires after a commit; final is the neighbour
	// connection the node attached to, or nil for a disconnected drop
	SessionCommitted func(session *Session, final *graph.Connection)
	// SessionCancelled fires after a cancel restored the origin state
	SessionCancelled func(session *Session)
}

func (e Events) sessionStarted(s *Session) {
	if e.SessionStarted != nil {
		e.SessionStarted(s)
	}
}

func (e Events) candidateChanged(c *Candidate) {
	if e.CandidateChanged != nil {
		e.CandidateChanged(c)
	}
}

func (e Events) sessionCommitted(s *Session, final *graph.Connection) {
	if e.SessionCommitted != nil {
		e.SessionCommitted(s, final)
	}
}

func (e Events) sessionCancelled(s *Session) {
	if e.SessionCancelled != nil {
		e.SessionCancelled(s)
	}
}
