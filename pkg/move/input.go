package move

import (
	"time"

	"github.com/dshills/gomove/pkg/geometry"
)

// Mouse and touch input are normalized into one pointer-event
// representation at this boundary; the state machine has a single code path
// regardless of modality, with only the keyboard strategy diverging.

// PointerAction is what the pointer did
type PointerAction int

const (
	// PointerDown is a press or touch start
	PointerDown PointerAction = iota
	// PointerMove is movement while tracking
	PointerMove
	// PointerUp is a release or touch end
	PointerUp
)

// PointerEvent is the normalized pointer/touch event consumed by the
// controller. Position is in device space; the controller converts it
// immediately and never stores it.
type PointerEvent struct {
	Action   PointerAction
	Position geometry.Point
	Time     time.Time
}

// Key identifies a keyboard key the engine reacts to
type Key int

const (
	// KeyNone is an unrecognized key
	KeyNone Key = iota
	// KeyUp is the up arrow
	KeyUp
	// KeyDown is the down arrow
	KeyDown
	// KeyLeft is the left arrow
	KeyLeft
	// KeyRight is the right arrow
	KeyRight
	// KeyEnter confirms
	KeyEnter
	// KeyEscape cancels
	KeyEscape
)

// KeyEvent is the normalized keyboard event consumed by the controller
type KeyEvent struct {
	Key Key
	// Modified is true when a step-move modifier (Alt/Ctrl) is held
	Modified bool
	Time     time.Time
}

// Direction is a movement direction for keyboard steps
type Direction int

const (
	// DirUp moves toward negative Y
	DirUp Direction = iota
	// DirDown moves toward positive Y
	DirDown
	// DirLeft moves toward negative X
	DirLeft
	// DirRight moves toward positive X
	DirRight
)

// direction maps arrow keys to movement directions
func (k Key) direction() (Direction, bool) {
	switch k {
	case KeyUp:
		return DirUp, true
	case KeyDown:
		return DirDown, true
	case KeyLeft:
		return DirLeft, true
	case KeyRight:
		return DirRight, true
	default:
		return 0, false
	}
}

// offset returns the canvas-space offset for one step of the given size
func (d Direction) offset(step float64) geometry.Point {
	switch d {
	case DirUp:
		return geometry.Point{Y: -step}
	case DirDown:
		return geometry.Point{Y: step}
	case DirLeft:
		return geometry.Point{X: -step}
	case DirRight:
		return geometry.Point{X: step}
	default:
		return geometry.Point{}
	}
}

// TapTracker detects touch double taps for the double-tap-and-stick
// gesture. Host adapters feed it raw taps and start a session when it
// reports a double tap.
type TapTracker struct {
	// window is the maximum gap between taps
	window time.Duration
	// tolerance is the maximum device-space distance between taps
	tolerance float64
	lastTap   time.Time
	lastPos   geometry.Point
	haveTap   bool
}

// NewTapTracker creates a tracker with the given double-tap window and a
// positional tolerance in device units
func NewTapTracker(window time.Duration, tolerance float64) *TapTracker {
	return &TapTracker{window: window, tolerance: tolerance}
}

// Tap records a tap and reports whether it completed a double tap
func (t *TapTracker) Tap(pos geometry.Point, at time.Time) bool {
	if t.haveTap &&
		at.Sub(t.lastTap) <= t.window &&
		pos.DistanceTo(t.lastPos) <= t.tolerance {
		t.haveTap = false
		return true
	}
	t.lastTap = at
	t.lastPos = pos
	t.haveTap = true
	return false
}

// Reset forgets any pending tap
func (t *TapTracker) Reset() {
	t.haveTap = false
}
