package move

import (
	"errors"
	"testing"
	"time"

	"github.com/dshills/gomove/internal/testutil"
	"github.com/dshills/gomove/pkg/config"
	serrors "github.com/dshills/gomove/pkg/errors"
	"github.com/dshills/gomove/pkg/geometry"
	"github.com/dshills/gomove/pkg/graph"
)

// testConfig disables throttling so pointer moves apply immediately
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.ThrottleIntervalMS = 0
	return cfg
}

// eventLog records the lifecycle callbacks in order
type eventLog struct {
	entries   []string
	committed *graph.Connection
}

func (l *eventLog) hooks() Events {
	return Events{
		SessionStarted: func(s *Session) {
			l.entries = append(l.entries, "started:"+s.Node.ID)
		},
		CandidateChanged: func(c *Candidate) {
			if c == nil {
				l.entries = append(l.entries, "candidate:none")
				return
			}
			l.entries = append(l.entries, "candidate:"+c.Neighbour.ID)
		},
		SessionCommitted: func(s *Session, final *graph.Connection) {
			l.committed = final
			l.entries = append(l.entries, "committed:"+s.Node.ID)
		},
		SessionCancelled: func(s *Session) {
			l.entries = append(l.entries, "cancelled:"+s.Node.ID)
		},
	}
}

func newTestController(t *testing.T, ws *graph.Workspace, cfg *config.Config) *Controller {
	t.Helper()
	c, err := NewController(ws.Capabilities(), cfg, nil)
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	return c
}

func TestController_PointerMoveAndCommitConnects(t *testing.T) {
	ws, a, b := testutil.TwoNodeWorkspace()
	c := newTestController(t, ws, testConfig())
	log := &eventLog{}
	c.SetEvents(log.hooks())

	if err := c.StartSession(a, a.Position, ModalityPointer); err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if c.State() != StateActiveFollow {
		t.Fatalf("State = %v, want active_follow", c.State())
	}

	// Anchors out of range: no candidate yet
	c.HandlePointer(PointerEvent{Action: PointerMove, Position: geometry.Point{X: 100, Y: 120}})
	if c.CurrentCandidate() != nil {
		t.Fatal("candidate appeared out of snap range")
	}

	// Local anchor lands 5 units from b's previous anchor
	c.HandlePointer(PointerEvent{Action: PointerMove, Position: geometry.Point{X: 100, Y: 145}})
	candidate := c.CurrentCandidate()
	if candidate == nil {
		t.Fatal("expected a candidate inside snap range")
	}
	if candidate.Neighbour.ID != "b-prev" {
		t.Errorf("candidate = %s, want b-prev", candidate.Neighbour.ID)
	}
	if c.OverlayCount() != 1 {
		t.Errorf("OverlayCount = %d, want 1", c.OverlayCount())
	}

	c.HandlePointer(PointerEvent{Action: PointerUp, Position: geometry.Point{X: 100, Y: 145}})

	if a.Position != (geometry.Point{X: 100, Y: 145}) {
		t.Errorf("node position = %v, want (100, 145)", a.Position)
	}
	aNext := a.Connections[0]
	bPrev := b.Connections[0]
	if aNext.Target != bPrev || bPrev.Target != aNext {
		t.Error("commit did not connect the candidate pair")
	}
	if c.State() != StateInactive {
		t.Errorf("State = %v, want inactive", c.State())
	}
	if c.OverlayCount() != 0 {
		t.Errorf("OverlayCount = %d after commit, want 0", c.OverlayCount())
	}
	if c.CurrentCandidate() != nil {
		t.Error("candidate survived the commit")
	}
	if c.WatchdogFired() {
		t.Error("watchdog fired during normal operation")
	}
	if log.committed != bPrev {
		t.Errorf("committed event final = %v, want b-prev", log.committed)
	}

	wantLog := []string{"started:a", "candidate:b-prev", "committed:a"}
	if len(log.entries) != len(wantLog) {
		t.Fatalf("event log = %v, want %v", log.entries, wantLog)
	}
	for i, want := range wantLog {
		if log.entries[i] != want {
			t.Errorf("event[%d] = %s, want %s", i, log.entries[i], want)
		}
	}
}

func TestController_GrabOffsetPreserved(t *testing.T) {
	ws, a, _ := testutil.TwoNodeWorkspace()
	c := newTestController(t, ws, testConfig())

	// Grab 10 units inside the node body; the node must not jump under the
	// pointer
	if err := c.StartSession(a, geometry.Point{X: 110, Y: 110}, ModalityPointer); err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	c.HandlePointer(PointerEvent{Action: PointerMove, Position: geometry.Point{X: 210, Y: 110}})

	if a.Position != (geometry.Point{X: 200, Y: 100}) {
		t.Errorf("node position = %v, want (200, 100)", a.Position)
	}
	c.CancelSession()
}

func TestController_ZoomedViewport(t *testing.T) {
	ws, a, _ := testutil.TwoNodeWorkspace()
	ws.SetViewport(geometry.Viewport{Zoom: 2})
	c := newTestController(t, ws, testConfig())

	// Device (200, 200) is canvas (100, 100) under 2x zoom
	if err := c.StartSession(a, geometry.Point{X: 200, Y: 200}, ModalityPointer); err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	c.HandlePointer(PointerEvent{Action: PointerMove, Position: geometry.Point{X: 200, Y: 290}})

	if a.Position != (geometry.Point{X: 100, Y: 145}) {
		t.Errorf("node position = %v, want canvas (100, 145)", a.Position)
	}
	if c.CurrentCandidate() == nil {
		t.Error("expected a candidate after the zoomed move")
	}
	c.CancelSession()
}

func TestController_ReleaseWithoutCandidateDropsDisconnected(t *testing.T) {
	ws, a, b := testutil.TwoNodeWorkspace()
	c := newTestController(t, ws, testConfig())
	log := &eventLog{}
	c.SetEvents(log.hooks())

	_ = c.StartSession(a, a.Position, ModalityPointer)
	c.HandlePointer(PointerEvent{Action: PointerUp, Position: geometry.Point{X: 400, Y: 400}})

	if a.Position != (geometry.Point{X: 400, Y: 400}) {
		t.Errorf("node position = %v, want (400, 400)", a.Position)
	}
	if a.Connections[0].Occupied() || b.Connections[0].Occupied() {
		t.Error("disconnected drop created a link")
	}
	if log.committed != nil {
		t.Errorf("committed event final = %v, want nil", log.committed)
	}
	if c.State() != StateInactive {
		t.Errorf("State = %v, want inactive", c.State())
	}
}

func TestController_CancelRestoresOriginExactly(t *testing.T) {
	ws, a, b, _ := testutil.ChainWorkspace()
	c := newTestController(t, ws, testConfig())
	log := &eventLog{}
	c.SetEvents(log.hooks())

	aNext := a.Connections[0]
	bPrev := b.Connections[0]
	origin := a.Position

	_ = c.StartSession(a, a.Position, ModalityPointer)

	// The session detaches the node for preview
	if aNext.Occupied() {
		t.Fatal("node still linked during preview")
	}

	// Local anchor (400, 390) lands on node c's previous anchor
	c.HandlePointer(PointerEvent{Action: PointerMove, Position: geometry.Point{X: 400, Y: 350}})
	if c.CurrentCandidate() == nil {
		t.Fatal("expected a candidate near node c")
	}

	c.CancelSession()

	if a.Position != origin {
		t.Errorf("position = %v, want origin %v", a.Position, origin)
	}
	if aNext.Target != bPrev || bPrev.Target != aNext {
		t.Error("original link not restored")
	}
	if c.OverlayCount() != 0 {
		t.Error("overlay not cleared on cancel")
	}
	if c.State() != StateInactive {
		t.Errorf("State = %v, want inactive", c.State())
	}
	if last := log.entries[len(log.entries)-1]; last != "cancelled:a" {
		t.Errorf("last event = %s, want cancelled:a", last)
	}
}

func TestController_SecondSessionRejected(t *testing.T) {
	ws, a, b := testutil.TwoNodeWorkspace()
	c := newTestController(t, ws, testConfig())

	if err := c.StartSession(a, a.Position, ModalityPointer); err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	err := c.StartSession(b, b.Position, ModalityPointer)
	if !errors.Is(err, ErrSessionActive) {
		t.Errorf("second start error = %v, want ErrSessionActive", err)
	}
	// The active session is untouched by the rejection
	if c.ActiveNode() != a {
		t.Error("rejected start disturbed the active session")
	}

	c.CancelSession()
	if err := c.StartSession(b, b.Position, ModalityPointer); err != nil {
		t.Errorf("start after cancel failed: %v", err)
	}
	c.CancelSession()
}

func TestController_StartSessionValidation(t *testing.T) {
	ws, a, _ := testutil.TwoNodeWorkspace()
	c := newTestController(t, ws, testConfig())

	if err := c.StartSession(nil, geometry.Point{}, ModalityPointer); !errors.Is(err, ErrNilNode) {
		t.Errorf("nil node error = %v, want ErrNilNode", err)
	}

	c.Dispose()
	if err := c.StartSession(a, a.Position, ModalityPointer); !errors.Is(err, ErrDisposed) {
		t.Errorf("disposed error = %v, want ErrDisposed", err)
	}
}

func TestController_MovablePredicate(t *testing.T) {
	ws, a, _ := testutil.TwoNodeWorkspace()
	c := newTestController(t, ws, testConfig())

	c.SetMovablePredicate(func(node *graph.Node) (bool, error) {
		return node.ID != "a", nil
	})
	if err := c.StartSession(a, a.Position, ModalityPointer); !errors.Is(err, ErrNotMovable) {
		t.Errorf("error = %v, want ErrNotMovable", err)
	}
	if c.State() != StateInactive {
		t.Error("rejected start left a session behind")
	}

	cause := errors.New("policy backend down")
	c.SetMovablePredicate(func(node *graph.Node) (bool, error) {
		return false, cause
	})
	err := c.StartSession(a, a.Position, ModalityPointer)
	if !errors.Is(err, cause) {
		t.Errorf("error = %v, want wrapped cause", err)
	}
	var sErr *serrors.SessionError
	if !errors.As(err, &sErr) {
		t.Fatalf("error = %T, want SessionError", err)
	}
	if sErr.Attributes["node_type"] != "step" {
		t.Errorf("node_type attribute = %v, want step", sErr.Attributes["node_type"])
	}
	if sErr.Attributes["modality"] != "pointer" {
		t.Errorf("modality attribute = %v, want pointer", sErr.Attributes["modality"])
	}
}

func TestController_KeyboardCycleWraparound(t *testing.T) {
	// Three compatible neighbours at equal distance around the mover
	mover := testutil.NewNode("m", "step", 0, 0)
	testutil.AddConnection(mover, "m-next", graph.ConnectionNext, 0, 0)
	east := testutil.NewNode("east", "step", 5, 0)
	testutil.AddConnection(east, "east-prev", graph.ConnectionPrevious, 0, 0)
	south := testutil.NewNode("south", "step", 0, 5)
	testutil.AddConnection(south, "south-prev", graph.ConnectionPrevious, 0, 0)
	west := testutil.NewNode("west", "step", -5, 0)
	testutil.AddConnection(west, "west-prev", graph.ConnectionPrevious, 0, 0)

	ws := graph.NewWorkspace()
	for _, n := range []*graph.Node{mover, east, south, west} {
		if err := ws.AddNode(n); err != nil {
			t.Fatalf("AddNode failed: %v", err)
		}
	}

	c := newTestController(t, ws, testConfig())
	if err := c.StartSession(mover, mover.Position, ModalityKeyboard); err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if c.State() != StateActiveStep {
		t.Fatalf("State = %v, want active_step", c.State())
	}

	// Equal distances tie-break to the lowest node ID
	if got := c.CurrentCandidate().Neighbour.Node.ID; got != "east" {
		t.Fatalf("initial candidate = %s, want east", got)
	}

	// Angle order is east, south, west; three forward cycles return to the
	// starting candidate
	want := []string{"south", "west", "east"}
	for i, id := range want {
		c.HandleKey(KeyEvent{Key: KeyRight})
		if got := c.CurrentCandidate().Neighbour.Node.ID; got != id {
			t.Fatalf("cycle %d candidate = %s, want %s", i+1, got, id)
		}
	}

	// Backward cycling reverses the order
	c.HandleKey(KeyEvent{Key: KeyLeft})
	if got := c.CurrentCandidate().Neighbour.Node.ID; got != "west" {
		t.Errorf("backward cycle candidate = %s, want west", got)
	}

	c.HandleKey(KeyEvent{Key: KeyEnter})
	if !mover.Connections[0].Occupied() {
		t.Error("Enter did not commit the selected candidate")
	}
	if target := mover.Connections[0].Target; target.Node.ID != "west" {
		t.Errorf("committed to %s, want west", target.Node.ID)
	}
}

func TestController_ModifiedArrowStepsFreely(t *testing.T) {
	mover := testutil.NewNode("m", "step", 0, 0)
	testutil.AddConnection(mover, "m-next", graph.ConnectionNext, 0, 0)
	near := testutil.NewNode("n", "step", 0, 5)
	testutil.AddConnection(near, "n-prev", graph.ConnectionPrevious, 0, 0)

	ws := graph.NewWorkspace()
	_ = ws.AddNode(mover)
	_ = ws.AddNode(near)

	c := newTestController(t, ws, testConfig())
	_ = c.StartSession(mover, mover.Position, ModalityKeyboard)

	if c.CurrentCandidate() == nil {
		t.Fatal("expected an initial candidate")
	}

	// One modified step moves by the configured step size and clears the
	// selection
	c.HandleKey(KeyEvent{Key: KeyRight, Modified: true})
	if mover.Position != (geometry.Point{X: 20, Y: 0}) {
		t.Errorf("position = %v, want (20, 0)", mover.Position)
	}
	if c.CurrentCandidate() != nil {
		t.Error("step move kept the candidate selection")
	}

	c.HandleKey(KeyEvent{Key: KeyUp, Modified: true})
	if mover.Position != (geometry.Point{X: 20, Y: -20}) {
		t.Errorf("position = %v, want (20, -20)", mover.Position)
	}

	// Escape restores the origin after any number of steps
	c.HandleKey(KeyEvent{Key: KeyEscape})
	if mover.Position != (geometry.Point{X: 0, Y: 0}) {
		t.Errorf("position after escape = %v, want origin", mover.Position)
	}
}

func TestController_ArrowsIgnoredInFollowState(t *testing.T) {
	ws, a, _ := testutil.TwoNodeWorkspace()
	c := newTestController(t, ws, testConfig())

	_ = c.StartSession(a, a.Position, ModalityPointer)
	pos := a.Position
	c.HandleKey(KeyEvent{Key: KeyRight, Modified: true})
	if a.Position != pos {
		t.Error("arrow key moved a pointer-driven session")
	}
	c.CancelSession()
}

func TestController_CommitConflictFallsBackToDrop(t *testing.T) {
	ws, a, b := testutil.TwoNodeWorkspace()
	other := testutil.NewNode("z", "step", 300, 300)
	zNext := testutil.AddConnection(other, "z-next", graph.ConnectionNext, 0, 0)
	_ = ws.AddNode(other)

	c := newTestController(t, ws, testConfig())
	log := &eventLog{}
	c.SetEvents(log.hooks())

	_ = c.StartSession(a, a.Position, ModalityPointer)
	c.HandlePointer(PointerEvent{Action: PointerMove, Position: geometry.Point{X: 100, Y: 145}})
	if c.CurrentCandidate() == nil {
		t.Fatal("expected a candidate")
	}

	// The host mutates concurrently: b's connection is taken between
	// highlight and commit
	bPrev := b.Connections[0]
	if err := ws.Connect(zNext, bPrev); err != nil {
		t.Fatalf("setup connect failed: %v", err)
	}

	c.CommitSession()

	if a.Connections[0].Occupied() {
		t.Error("conflicted commit still connected the node")
	}
	if bPrev.Target != zNext {
		t.Error("conflicting link was disturbed")
	}
	if log.committed != nil {
		t.Errorf("committed event final = %v, want nil", log.committed)
	}
	if c.State() != StateInactive {
		t.Errorf("State = %v, want inactive", c.State())
	}
}

func TestController_CommitAndCancelIdempotent(t *testing.T) {
	ws, a, _ := testutil.TwoNodeWorkspace()
	c := newTestController(t, ws, testConfig())
	log := &eventLog{}
	c.SetEvents(log.hooks())

	// No session: both are safe no-ops
	c.CommitSession()
	c.CancelSession()
	if len(log.entries) != 0 {
		t.Fatalf("no-op commit/cancel emitted events: %v", log.entries)
	}

	_ = c.StartSession(a, a.Position, ModalityPointer)
	c.CommitSession()
	c.CommitSession()
	c.CancelSession()

	commits := 0
	for _, e := range log.entries {
		if e == "committed:a" {
			commits++
		}
	}
	if commits != 1 {
		t.Errorf("commit fired %d times, want 1", commits)
	}
}

func TestController_ThrottleRetainsTrailingMove(t *testing.T) {
	ws, a, _ := testutil.TwoNodeWorkspace()
	cfg := config.Default() // 16ms throttle
	c := newTestController(t, ws, cfg)

	base := time.Now()
	_ = c.StartSession(a, a.Position, ModalityPointer)

	c.HandlePointer(PointerEvent{Action: PointerMove, Position: geometry.Point{X: 100, Y: 110}, Time: base})
	if a.Position != (geometry.Point{X: 100, Y: 110}) {
		t.Fatalf("first move not applied: %v", a.Position)
	}

	// Inside the closed window: retained, not applied
	c.HandlePointer(PointerEvent{Action: PointerMove, Position: geometry.Point{X: 100, Y: 120}, Time: base.Add(5 * time.Millisecond)})
	if a.Position != (geometry.Point{X: 100, Y: 110}) {
		t.Fatalf("throttled move applied early: %v", a.Position)
	}

	// The host frame loop flushes the trailing update
	c.FlushPending()
	if a.Position != (geometry.Point{X: 100, Y: 120}) {
		t.Errorf("trailing move lost: %v", a.Position)
	}
	c.CancelSession()
}

func TestController_CommitFlushesPendingMove(t *testing.T) {
	ws, a, _ := testutil.TwoNodeWorkspace()
	cfg := config.Default()
	c := newTestController(t, ws, cfg)

	base := time.Now()
	_ = c.StartSession(a, a.Position, ModalityPointer)
	c.HandlePointer(PointerEvent{Action: PointerMove, Position: geometry.Point{X: 100, Y: 110}, Time: base})
	c.HandlePointer(PointerEvent{Action: PointerMove, Position: geometry.Point{X: 100, Y: 145}, Time: base.Add(5 * time.Millisecond)})

	// Commit without a release event must still evaluate the retained
	// position before deciding the outcome
	c.CommitSession()

	if a.Position != (geometry.Point{X: 100, Y: 145}) {
		t.Errorf("position = %v, want the retained (100, 145)", a.Position)
	}
	if !a.Connections[0].Occupied() {
		t.Error("retained move's candidate not committed")
	}
}

func TestController_CancelDiscardsPendingMove(t *testing.T) {
	ws, a, _ := testutil.TwoNodeWorkspace()
	cfg := config.Default()
	c := newTestController(t, ws, cfg)

	base := time.Now()
	origin := a.Position
	_ = c.StartSession(a, a.Position, ModalityPointer)
	c.HandlePointer(PointerEvent{Action: PointerMove, Position: geometry.Point{X: 100, Y: 110}, Time: base})
	c.HandlePointer(PointerEvent{Action: PointerMove, Position: geometry.Point{X: 100, Y: 145}, Time: base.Add(5 * time.Millisecond)})

	c.CancelSession()

	if a.Position != origin {
		t.Errorf("position = %v, want origin %v", a.Position, origin)
	}
	if a.Connections[0].Occupied() {
		t.Error("cancel created a link from a discarded move")
	}
}

func TestController_DeleteRegion(t *testing.T) {
	ws, a, _ := testutil.TwoNodeWorkspace()
	c := newTestController(t, ws, testConfig())

	c.SetDeleteRegion(geometry.BoundingBox{
		TopLeft: geometry.Point{X: 500, Y: 500},
		Size:    geometry.Size{Width: 100, Height: 100},
	})

	_ = c.StartSession(a, a.Position, ModalityPointer)
	c.HandlePointer(PointerEvent{Action: PointerUp, Position: geometry.Point{X: 550, Y: 550}})

	if _, ok := ws.Node("a"); ok {
		t.Error("release over the deletion target did not remove the node")
	}
	if c.State() != StateInactive {
		t.Errorf("State = %v, want inactive", c.State())
	}
}

func TestController_DeleteRegionWithoutCapabilityCommits(t *testing.T) {
	ws, a, _ := testutil.TwoNodeWorkspace()
	caps := ws.Capabilities()
	caps.DeleteNode = nil
	c, err := NewController(caps, testConfig(), nil)
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}

	c.SetDeleteRegion(geometry.BoundingBox{
		TopLeft: geometry.Point{X: 500, Y: 500},
		Size:    geometry.Size{Width: 100, Height: 100},
	})

	_ = c.StartSession(a, a.Position, ModalityPointer)
	c.HandlePointer(PointerEvent{Action: PointerUp, Position: geometry.Point{X: 550, Y: 550}})

	if _, ok := ws.Node("a"); !ok {
		t.Error("node deleted without the DeleteNode capability")
	}
	if c.State() != StateInactive {
		t.Errorf("State = %v, want inactive", c.State())
	}
}

func TestController_HandleBlurCancels(t *testing.T) {
	ws, a, _ := testutil.TwoNodeWorkspace()
	c := newTestController(t, ws, testConfig())
	origin := a.Position

	_ = c.StartSession(a, a.Position, ModalityPointer)
	c.HandlePointer(PointerEvent{Action: PointerMove, Position: geometry.Point{X: 300, Y: 300}})
	c.HandleBlur()

	if a.Position != origin {
		t.Errorf("position after blur = %v, want origin", a.Position)
	}
	if c.State() != StateInactive {
		t.Errorf("State = %v, want inactive", c.State())
	}
}

func TestController_WatchdogCancelsAbandonedSession(t *testing.T) {
	ws, a, _ := testutil.TwoNodeWorkspace()
	cfg := testConfig()
	cfg.WatchdogTimeoutMS = 20
	c := newTestController(t, ws, cfg)
	origin := a.Position

	cancelled := make(chan struct{})
	c.SetEvents(Events{
		SessionCancelled: func(s *Session) { close(cancelled) },
	})

	_ = c.StartSession(a, a.Position, ModalityPointer)
	c.HandlePointer(PointerEvent{Action: PointerMove, Position: geometry.Point{X: 300, Y: 300}})

	// The session is abandoned here; only the watchdog can clean it up
	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("watchdog did not cancel the abandoned session")
	}

	if !c.WatchdogFired() {
		t.Error("WatchdogFired() = false after expiry")
	}
	if c.State() != StateInactive {
		t.Errorf("State = %v, want inactive", c.State())
	}
	if a.Position != origin {
		t.Errorf("position after watchdog cancel = %v, want origin", a.Position)
	}
	if c.OverlayCount() != 0 {
		t.Error("watchdog cancel leaked overlay markers")
	}

	// The slot is free again for a normal session
	c.SetEvents(Events{})
	if err := c.StartSession(a, a.Position, ModalityPointer); err != nil {
		t.Fatalf("StartSession after watchdog cancel failed: %v", err)
	}
	c.CancelSession()
}

func TestController_DisposeCancelsAndClears(t *testing.T) {
	ws, a, b, _ := testutil.ChainWorkspace()
	c := newTestController(t, ws, testConfig())

	_ = c.StartSession(a, a.Position, ModalityPointer)
	c.HandlePointer(PointerEvent{Action: PointerMove, Position: geometry.Point{X: 400, Y: 350}})

	c.Dispose()

	if c.State() != StateInactive {
		t.Errorf("State = %v, want inactive", c.State())
	}
	if c.OverlayCount() != 0 {
		t.Error("Dispose leaked overlay markers")
	}
	if a.Connections[0].Target != b.Connections[0] {
		t.Error("Dispose did not restore the origin link")
	}
}

func TestController_EventsIgnoredWhenInactive(t *testing.T) {
	ws, a, _ := testutil.TwoNodeWorkspace()
	c := newTestController(t, ws, testConfig())
	pos := a.Position

	c.HandlePointer(PointerEvent{Action: PointerMove, Position: geometry.Point{X: 300, Y: 300}})
	c.HandleKey(KeyEvent{Key: KeyRight})
	c.UpdateSession(geometry.Point{X: 300, Y: 300})

	if a.Position != pos {
		t.Error("input outside a session moved the node")
	}
}

func TestNewController_RequiresCapabilities(t *testing.T) {
	ws, _, _ := testutil.TwoNodeWorkspace()
	caps := ws.Capabilities()
	caps.Viewport = nil

	_, err := NewController(caps, testConfig(), nil)
	if err == nil {
		t.Fatal("NewController accepted a missing required capability")
	}
	var missing *graph.MissingCapabilityError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %T, want MissingCapabilityError", err)
	}
	if missing.Capability != "Viewport" {
		t.Errorf("Capability = %q, want Viewport", missing.Capability)
	}
}

func TestNewController_RejectsInvalidConfig(t *testing.T) {
	ws, _, _ := testutil.TwoNodeWorkspace()
	cfg := config.Default()
	cfg.SnapDistance = -1

	if _, err := NewController(ws.Capabilities(), cfg, nil); err == nil {
		t.Error("NewController accepted an invalid config")
	}
}
