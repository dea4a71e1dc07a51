package storage

import (
	"log"
	"time"

	"github.com/dshills/gomove/pkg/graph"
	"github.com/dshills/gomove/pkg/move"
)

// Recorder adapts the history repository to the engine's session events.
// Recording failures are logged and never fed back into the session
// lifecycle.
type Recorder struct {
	repo *SQLiteHistoryRepository
	now  func() time.Time
}

// NewRecorder creates a recorder writing to the given repository
func NewRecorder(repo *SQLiteHistoryRepository) *Recorder {
	return &Recorder{repo: repo, now: time.Now}
}

// Events returns engine event hooks that record finished sessions and then
// chain to next
func (r *Recorder) Events(next move.Events) move.Events {
	return move.Events{
		SessionStarted:   next.SessionStarted,
		CandidateChanged: next.CandidateChanged,
		SessionCommitted: func(session *move.Session, final *graph.Connection) {
			rec := r.record(session, OutcomeCommitted)
			rec.FinalX = session.Node.Position.X
			rec.FinalY = session.Node.Position.Y
			if final != nil {
				rec.ConnectionID = final.ID
			}
			if err := r.repo.Record(rec); err != nil {
				log.Printf("history: failed to record commit: %v", err)
			}
			if next.SessionCommitted != nil {
				next.SessionCommitted(session, final)
			}
		},
		SessionCancelled: func(session *move.Session) {
			rec := r.record(session, OutcomeCancelled)
			rec.FinalX = session.OriginPosition.X
			rec.FinalY = session.OriginPosition.Y
			if err := r.repo.Record(rec); err != nil {
				log.Printf("history: failed to record cancel: %v", err)
			}
			if next.SessionCancelled != nil {
				next.SessionCancelled(session)
			}
		},
	}
}

// record builds the shared part of a session record
func (r *Recorder) record(session *move.Session, outcome string) *SessionRecord {
	return &SessionRecord{
		ID:         session.ID,
		NodeID:     session.Node.ID,
		Modality:   session.Modality.String(),
		Outcome:    outcome,
		OriginX:    session.OriginPosition.X,
		OriginY:    session.OriginPosition.Y,
		StartedAt:  session.StartedAt,
		FinishedAt: r.now(),
	}
}
