package move

import (
	"time"

	"github.com/dshills/gomove/pkg/geometry"
)

// throttle rate-limits pointer-move evaluation to one update per interval.
// Events inside a closed window are not dropped: the most recent one is
// retained and delivered either when the window reopens or when the
// controller flushes before commit, so the final position before release is
// always evaluated exactly.
type throttle struct {
	interval time.Duration
	last     time.Time
	pending  geometry.Point
	hasPending bool
}

func newThrottle(interval time.Duration) *throttle {
	return &throttle{interval: interval}
}

// admit offers a device point. The returned point should be processed now
// when ok is true; otherwise the point was retained as pending.
func (t *throttle) admit(p geometry.Point, now time.Time) (geometry.Point, bool) {
	if t.interval <= 0 || t.last.IsZero() || now.Sub(t.last) >= t.interval {
		t.last = now
		t.hasPending = false
		return p, true
	}
	t.pending = p
	t.hasPending = true
	return geometry.Point{}, false
}

// flush returns the retained trailing point, if any, and clears it. The
// window timestamp is kept; a flush delivers the pending point without
// granting the next move a free pass through the throttle.
func (t *throttle) flush() (geometry.Point, bool) {
	if !t.hasPending {
		return geometry.Point{}, false
	}
	p := t.pending
	t.hasPending = false
	return p, true
}

// reset clears all throttle state between sessions
func (t *throttle) reset() {
	t.last = time.Time{}
	t.hasPending = false
}
