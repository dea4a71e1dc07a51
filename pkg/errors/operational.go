package errors

import (
	"fmt"
	"time"
)

// SessionError wraps an engine failure with the move-session context a
// host needs when it reports the error long after the session ended:
// which operation, which session, which node, and when.
type SessionError struct {
	Operation  string
	SessionID  string
	NodeID     string // empty when no single node is involved
	Timestamp  time.Time
	Attributes map[string]interface{} // optional extra context
	Cause      error
}

// NewSessionError wraps cause with session context. Returns nil when
// cause is nil so call sites can wrap unconditionally.
func NewSessionError(operation, sessionID, nodeID string, cause error) *SessionError {
	return NewSessionErrorWithAttrs(operation, sessionID, nodeID, cause, nil)
}

// NewSessionErrorWithAttrs is NewSessionError with additional key/value
// context attached, such as the node type a policy rule was keyed on.
func NewSessionErrorWithAttrs(operation, sessionID, nodeID string, cause error, attrs map[string]interface{}) *SessionError {
	if cause == nil {
		return nil
	}
	return &SessionError{
		Operation:  operation,
		SessionID:  sessionID,
		NodeID:     nodeID,
		Timestamp:  time.Now(),
		Attributes: attrs,
		Cause:      cause,
	}
}

// Error formats as "[timestamp] operation: session={id} node={id}: cause",
// omitting the node segment when NodeID is empty.
func (e *SessionError) Error() string {
	if e == nil {
		return "<nil SessionError>"
	}
	ts := e.Timestamp.Format(time.RFC3339)
	if e.NodeID == "" {
		return fmt.Sprintf("[%s] %s: session=%s: %v", ts, e.Operation, e.SessionID, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: session=%s node=%s: %v", ts, e.Operation, e.SessionID, e.NodeID, e.Cause)
}

// Unwrap exposes the cause for errors.Is and errors.As.
func (e *SessionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}
