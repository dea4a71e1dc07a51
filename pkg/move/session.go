package move

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/gomove/pkg/geometry"
	"github.com/dshills/gomove/pkg/graph"
)

// State represents the move session lifecycle state
type State int

const (
	// StateInactive is the initial and terminal state
	StateInactive State = iota
	// StateActiveFollow tracks the pointer or touch position continuously
	StateActiveFollow
	// StateActiveStep moves in discrete keyboard-driven steps
	StateActiveStep
	// StateCommitting is the transient commit transition
	StateCommitting
	// StateCancelling is the transient cancel transition
	StateCancelling
)

// String returns a readable state name
func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateActiveFollow:
		return "active_follow"
	case StateActiveStep:
		return "active_step"
	case StateCommitting:
		return "committing"
	case StateCancelling:
		return "cancelling"
	default:
		return "unknown"
	}
}

// Active reports whether the session is in either active state
func (s State) Active() bool {
	return s == StateActiveFollow || s == StateActiveStep
}

// Modality is the input method driving a session
type Modality int

const (
	// ModalityPointer is mouse click-and-hold
	ModalityPointer Modality = iota
	// ModalityTouch is touch double-tap-and-stick
	ModalityTouch
	// ModalityKeyboard is discrete step and cycle moves
	ModalityKeyboard
)

// String returns a readable modality name
func (m Modality) String() string {
	switch m {
	case ModalityPointer:
		return "pointer"
	case ModalityTouch:
		return "touch"
	case ModalityKeyboard:
		return "keyboard"
	default:
		return "unknown"
	}
}

// connectionLink snapshots one link so cancellation can restore it exactly
type connectionLink struct {
	local *graph.Connection
	peer  *graph.Connection
}

// Session is the lifetime of one active move operation. It is created on
// session start, mutated only by the Controller, and reset on commit,
// cancel, dispose or watchdog timeout. All geometry is canvas space.
type Session struct {
	// ID uniquely identifies the session in events and history
	ID string
	// Node is the node being moved
	Node *graph.Node
	// Modality is the input method that started the session
	Modality Modality
	// State is the current lifecycle state
	State State
	// OriginPosition is the node position at session start
	OriginPosition geometry.Point
	// GrabOffset is the offset from the grab point to the node position,
	// kept so the node does not jump under the pointer
	GrabOffset geometry.Point
	// Candidate is the currently best snap target, nil when none
	Candidate *Candidate
	// StartedAt is the session start time
	StartedAt time.Time

	// originLinks is the immutable snapshot of the node's connections at
	// session start; the unique source of truth for cancellation
	originLinks []connectionLink
}

// newSession snapshots the node's position and connections and returns an
// inactive session ready to be activated by the controller
func newSession(node *graph.Node, modality Modality, grab geometry.Point, now time.Time) *Session {
	links := make([]connectionLink, 0, len(node.Connections))
	for _, conn := range node.Connections {
		if conn.Occupied() {
			links = append(links, connectionLink{local: conn, peer: conn.Target})
		}
	}

	return &Session{
		ID:             uuid.NewString(),
		Node:           node,
		Modality:       modality,
		State:          StateInactive,
		OriginPosition: node.Position,
		GrabOffset:     node.Position.Sub(grab),
		StartedAt:      now,
		originLinks:    links,
	}
}

// OriginLinkCount returns how many links the origin snapshot holds
func (s *Session) OriginLinkCount() int {
	return len(s.originLinks)
}
