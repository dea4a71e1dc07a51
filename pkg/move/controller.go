package move

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dshills/gomove/pkg/config"
	serrors "github.com/dshills/gomove/pkg/errors"
	"github.com/dshills/gomove/pkg/geometry"
	"github.com/dshills/gomove/pkg/graph"
)

// Sentinel errors returned by the controller's public entry points
var (
	// ErrSessionActive indicates a start was rejected because another
	// session is active; the caller must cancel first
	ErrSessionActive = errors.New("a move session is already active")
	// ErrNotMovable indicates the policy rejected the node
	ErrNotMovable = errors.New("node is not movable")
	// ErrNilNode indicates a start with no node
	ErrNilNode = errors.New("cannot start a session on a nil node")
	// ErrDisposed indicates the controller was disposed
	ErrDisposed = errors.New("controller is disposed")
)

// MovablePredicate decides whether a node may be moved
type MovablePredicate func(node *graph.Node) (bool, error)

// Controller is the top-level move state machine. It owns the single
// Session per workspace, routes normalized pointer/touch/keyboard input,
// drives the transformer, finder, overlay and keyboard strategy, and talks
// to the host exclusively through the capability contract.
//
// All work happens synchronously inside the host's event callbacks. Every
// normal exit path performs its own cleanup; the watchdog is a safety net
// that correct operation never exercises.
type Controller struct {
	mu sync.Mutex

	host        graph.Capabilities
	cfg         *config.Config
	transformer *geometry.Transformer
	finder      *Finder
	overlay     *Overlay
	keyboard    *KeyboardStrategy
	events      Events
	movable     MovablePredicate

	session  *Session
	throttle *throttle
	watchdog *time.Timer
	// watchdogFired records that the safety net was the exit path; tests
	// assert it stays false under normal operation
	watchdogFired bool

	// deleteRegion is the canvas-space deletion target, nil when disabled
	deleteRegion *geometry.BoundingBox

	disposed bool
	now      func() time.Time
}

// NewController validates the host contract and builds a controller.
// A missing required capability fails here, never mid-session. A nil
// config uses the defaults; a nil renderer disables visual markers.
func NewController(host graph.Capabilities, cfg *config.Config, renderer MarkerRenderer) (*Controller, error) {
	if err := host.Validate(); err != nil {
		return nil, fmt.Errorf("move controller: %w", err)
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("move controller: %w", err)
	}
	if renderer == nil {
		renderer = noopRenderer{}
	}

	return &Controller{
		host:        host,
		cfg:         cfg,
		transformer: geometry.NewTransformer(),
		finder:      NewFinder(host.ConnectionsCompatible, cfg.SnapDistance),
		overlay:     NewOverlay(renderer),
		keyboard:    newKeyboardStrategy(cfg.StepSize),
		throttle:    newThrottle(cfg.ThrottleInterval()),
		now:         time.Now,
	}, nil
}

// noopRenderer is the marker backend for headless hosts
type noopRenderer struct{}

func (noopRenderer) ShowMarker(*Candidate) {}
func (noopRenderer) HideMarker(*Candidate) {}

// SetEvents installs the session lifecycle callbacks. Call before the
// first session starts.
func (c *Controller) SetEvents(events Events) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = events
}

// SetMovablePredicate installs a movability policy checked at session
// start. Without one every node is movable.
func (c *Controller) SetMovablePredicate(pred MovablePredicate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.movable = pred
}

// SetDeleteRegion designates a canvas-space deletion target. A pointer
// release inside it while a session is active deletes the node instead of
// committing. Requires the DeleteNode capability.
func (c *Controller) SetDeleteRegion(region geometry.BoundingBox) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleteRegion = &region
}

// ClearDeleteRegion disables the deletion target
func (c *Controller) ClearDeleteRegion() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleteRegion = nil
}

// StartSession begins a move session for the node. The origin is the
// device-space point of the originating event. Starting while another
// session is active is rejected with ErrSessionActive; the caller must
// cancel first. Nothing is mutated on rejection.
func (c *Controller) StartSession(node *graph.Node, origin geometry.Point, modality Modality) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return ErrDisposed
	}
	if node == nil {
		return ErrNilNode
	}
	if c.session != nil {
		return ErrSessionActive
	}

	if c.movable != nil {
		ok, err := c.movable(node)
		if err != nil {
			return serrors.NewSessionErrorWithAttrs("starting session", "", node.ID, err, map[string]interface{}{
				"node_type": node.Type,
				"modality":  modality.String(),
			})
		}
		if !ok {
			return fmt.Errorf("node %s: %w", node.ID, ErrNotMovable)
		}
	}

	grab := c.transformer.ScreenToCanvas(origin, c.host.Viewport())
	session := newSession(node, modality, grab, c.now())

	// Snapshot happens inside newSession; only now is the node detached
	// for preview purposes.
	c.host.DisconnectAll(node)

	if modality == ModalityKeyboard {
		session.State = StateActiveStep
	} else {
		session.State = StateActiveFollow
	}
	c.session = session
	c.throttle.reset()
	c.keyboard.reset()
	c.watchdogFired = false
	c.watchdog = time.AfterFunc(c.cfg.WatchdogTimeout(), c.watchdogExpire)

	c.events.sessionStarted(session)
	c.evaluateLocked(node.Position)
	return nil
}

// UpdateSession processes a device-space pointer position during an
// active-follow session. Updates are throttled to the configured interval;
// an event arriving inside a closed window is retained and delivered by
// the next update, FlushPending, or the commit path, so the final position
// is always evaluated exactly.
func (c *Controller) UpdateSession(device geometry.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil || c.session.State != StateActiveFollow {
		return
	}
	p, ok := c.throttle.admit(device, c.now())
	if !ok {
		return
	}
	c.applyPointerLocked(p)
}

// FlushPending delivers a pointer event retained by the throttle, if any.
// Hosts with a frame loop call this once per frame for the guaranteed
// trailing update.
func (c *Controller) FlushPending() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flushPendingLocked()
}

func (c *Controller) flushPendingLocked() {
	if c.session == nil || c.session.State != StateActiveFollow {
		return
	}
	if p, ok := c.throttle.flush(); ok {
		c.applyPointerLocked(p)
	}
}

// applyPointerLocked converts a device point, repositions the node preview
// and re-evaluates the candidate. Device-space values are converted
// immediately and never stored.
func (c *Controller) applyPointerLocked(device geometry.Point) {
	canvas := c.transformer.ScreenToCanvas(device, c.host.Viewport())
	target := canvas.Add(c.session.GrabOffset)
	c.host.MoveNodeTo(c.session.Node, target)
	c.keyboard.invalidate()
	c.evaluateLocked(target)
}

// evaluateLocked recomputes the best candidate for the node at the given
// canvas position and forwards changes to the overlay and the host
func (c *Controller) evaluateLocked(position geometry.Point) {
	others := c.host.OtherConnections(c.session.Node)
	best := c.finder.Best(c.session.Node, position, others)
	if best.Same(c.session.Candidate) {
		return
	}
	c.session.Candidate = best
	c.overlay.SetCandidate(best)
	c.events.candidateChanged(best)
}

// HandlePointer routes a normalized pointer/touch event. Moves update an
// active-follow session; a release over the deletion target deletes the
// node, any other release commits at that position. Events outside an
// active session are ignored.
func (c *Controller) HandlePointer(ev PointerEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil || !c.session.State.Active() {
		return
	}

	switch ev.Action {
	case PointerMove:
		if c.session.State != StateActiveFollow {
			return
		}
		when := ev.Time
		if when.IsZero() {
			when = c.now()
		}
		if p, ok := c.throttle.admit(ev.Position, when); ok {
			c.applyPointerLocked(p)
		}
	case PointerUp:
		if c.insideDeleteRegionLocked(ev.Position) {
			c.deleteLocked()
			return
		}
		if c.session.State == StateActiveFollow {
			// Release position is the final move; never dropped.
			c.applyPointerLocked(ev.Position)
			c.throttle.reset()
		}
		c.commitLocked()
	case PointerDown:
		// Presses start sessions through StartSession; nothing to do here.
	}
}

// HandleKey routes a normalized keyboard event. Enter commits, Escape
// cancels, arrows drive the keyboard strategy during an active-step
// session. Events outside an active session are ignored.
func (c *Controller) HandleKey(ev KeyEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil || !c.session.State.Active() {
		return
	}

	switch ev.Key {
	case KeyEnter:
		c.commitLocked()
	case KeyEscape:
		c.cancelLocked()
	default:
		dir, ok := ev.Key.direction()
		if !ok || c.session.State != StateActiveStep {
			return
		}
		c.handleArrowLocked(dir, ev.Modified)
	}
}

// handleArrowLocked performs one keyboard action: a modifier+arrow steps
// the node freely and clears the candidate, a plain arrow cycles the
// angle-ordered candidate list with wraparound
func (c *Controller) handleArrowLocked(dir Direction, modified bool) {
	session := c.session
	if modified {
		target := session.Node.Position.Add(c.keyboard.stepOffset(dir))
		c.host.MoveNodeTo(session.Node, target)
		c.keyboard.invalidate()
		if session.Candidate != nil {
			session.Candidate = nil
			c.overlay.Clear()
			c.events.candidateChanged(nil)
		}
		return
	}

	others := c.host.OtherConnections(session.Node)
	c.keyboard.ensure(c.finder, session.Node, session.Node.Position, others, session.Candidate)
	forward := dir == DirDown || dir == DirRight
	next := c.keyboard.cycle(forward)
	if next == nil || next.Same(session.Candidate) {
		return
	}
	session.Candidate = next
	c.overlay.SetCandidate(next)
	c.events.candidateChanged(next)
}

// HandleBlur cancels any active session when the host loses focus
func (c *Controller) HandleBlur() {
	c.CancelSession()
}

// CommitSession finishes the active session, connecting to the current
// candidate when one exists or leaving the node disconnected at its last
// position. Idempotent: calling while inactive is a no-op.
func (c *Controller) CommitSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commitLocked()
}

func (c *Controller) commitLocked() {
	if c.session == nil || !c.session.State.Active() {
		return
	}
	session := c.session

	// Deliver any retained trailing move before deciding the outcome.
	c.flushPendingLocked()

	session.State = StateCommitting

	var final *graph.Connection
	if candidate := session.Candidate; candidate != nil {
		if c.commitConflictLocked(candidate) {
			// The neighbour changed under us between highlight time and
			// commit time. Fall back to a disconnected drop.
		} else if err := c.host.Connect(candidate.Local, candidate.Neighbour); err == nil {
			final = candidate.Neighbour
		}
	}

	c.overlay.Clear()
	c.cleanupLocked()
	c.events.sessionCommitted(session, final)
}

// commitConflictLocked re-validates a candidate against host-side
// concurrent mutation
func (c *Controller) commitConflictLocked(candidate *Candidate) bool {
	if candidate.Neighbour.Occupied() && !candidate.Neighbour.Replaceable {
		return true
	}
	return !c.host.ConnectionsCompatible(candidate.Local.Type, candidate.Neighbour.Type)
}

// CancelSession restores the origin position and connections exactly,
// discarding all preview state. Idempotent: calling while inactive is a
// no-op.
func (c *Controller) CancelSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
}

func (c *Controller) cancelLocked() {
	if c.session == nil || !c.session.State.Active() {
		return
	}
	session := c.session
	session.State = StateCancelling

	// In-flight throttled moves are discarded, not delivered.
	c.throttle.reset()

	c.host.DisconnectAll(session.Node)
	c.host.MoveNodeTo(session.Node, session.OriginPosition)
	for _, link := range session.originLinks {
		// Restoration from the immutable snapshot is best effort per
		// link; a failed link must not abort the rest.
		_ = c.host.Connect(link.local, link.peer)
	}

	c.overlay.Clear()
	c.cleanupLocked()
	c.events.sessionCancelled(session)
}

// deleteLocked removes the node via the host primitive and goes straight
// to inactive, skipping the committing state
func (c *Controller) deleteLocked() {
	if c.host.DeleteNode == nil {
		c.commitLocked()
		return
	}
	node := c.session.Node
	c.overlay.Clear()
	c.cleanupLocked()
	c.host.DeleteNode(node)
}

// cleanupLocked is the single cleanup path shared by every exit
// transition: watchdog stopped, throttle and keyboard state cleared,
// session destroyed, transformer fallback reset
func (c *Controller) cleanupLocked() {
	if c.watchdog != nil {
		c.watchdog.Stop()
		c.watchdog = nil
	}
	c.throttle.reset()
	c.keyboard.reset()
	if c.session != nil {
		c.session.State = StateInactive
		c.session.Candidate = nil
		c.session = nil
	}
	c.transformer.Reset()
}

// watchdogExpire force-cancels a session that exceeded the maximum
// duration. An absolute last resort; every normal exit path cleans up
// synchronously before this can fire.
func (c *Controller) watchdogExpire() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil || !c.session.State.Active() {
		return
	}
	c.watchdogFired = true
	c.cancelLocked()
}

// Dispose cancels any active session, releases the overlay and makes the
// controller unusable. Guaranteed not to leak visual elements.
func (c *Controller) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelLocked()
	c.overlay.Dispose()
	c.disposed = true
}

// State returns the current session state, StateInactive when no session
// exists
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return StateInactive
	}
	return c.session.State
}

// ActiveNode returns the node of the active session, nil when inactive
func (c *Controller) ActiveNode() *graph.Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	return c.session.Node
}

// CurrentCandidate returns the active session's best candidate, nil when
// none or inactive
func (c *Controller) CurrentCandidate() *Candidate {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	return c.session.Candidate
}

// OverlayCount returns the number of rendered highlight markers
func (c *Controller) OverlayCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overlay.Count()
}

// WatchdogFired reports whether the safety-net cancel was ever the actual
// exit path. Stays false in correct operation.
func (c *Controller) WatchdogFired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.watchdogFired
}

// insideDeleteRegionLocked converts a device point and tests it against
// the deletion target
func (c *Controller) insideDeleteRegionLocked(device geometry.Point) bool {
	if c.deleteRegion == nil {
		return false
	}
	canvas := c.transformer.ScreenToCanvas(device, c.host.Viewport())
	return c.deleteRegion.Contains(canvas)
}
