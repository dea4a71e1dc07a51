package move

import (
	"github.com/dshills/gomove/pkg/geometry"
	"github.com/dshills/gomove/pkg/graph"
)

// KeyboardStrategy implements keyboard-specific movement: discrete
// unconstrained step moves and cycling through the angle-ordered candidate
// list. It operates only while the session modality is keyboard and the
// state is active step.
type KeyboardStrategy struct {
	// stepSize is the canvas-space distance of one unconstrained step
	stepSize float64
	// list is the angle-ordered candidate list being cycled
	list []*Candidate
	// index is the current position in list, -1 before the first cycle
	index int
	// valid is false when the node's unconstrained position has changed
	// since the list was computed
	valid bool
}

// newKeyboardStrategy creates a strategy with the configured step size
func newKeyboardStrategy(stepSize float64) *KeyboardStrategy {
	return &KeyboardStrategy{stepSize: stepSize, index: -1}
}

// reset clears all cycling state between sessions
func (k *KeyboardStrategy) reset() {
	k.list = nil
	k.index = -1
	k.valid = false
}

// invalidate marks the candidate list stale. Called whenever the node's
// unconstrained position changes; the list is not recomputed on every
// cycle step.
func (k *KeyboardStrategy) invalidate() {
	k.valid = false
}

// stepOffset returns the canvas offset of one step in the direction
func (k *KeyboardStrategy) stepOffset(dir Direction) geometry.Point {
	return dir.offset(k.stepSize)
}

// ensure recomputes the candidate list if it is stale and aligns the cycle
// index with the currently selected candidate
func (k *KeyboardStrategy) ensure(finder *Finder, node *graph.Node, position geometry.Point, others []*graph.Connection, current *Candidate) {
	if k.valid {
		return
	}
	k.list = finder.Ordered(node, position, others)
	k.index = -1
	for i, c := range k.list {
		if c.Same(current) {
			k.index = i
			break
		}
	}
	k.valid = true
}

// cycle advances through the candidate list with wraparound and returns
// the newly selected candidate, or nil when the list is empty
func (k *KeyboardStrategy) cycle(forward bool) *Candidate {
	n := len(k.list)
	if n == 0 {
		return nil
	}
	switch {
	case k.index < 0 && forward:
		k.index = 0
	case k.index < 0:
		k.index = n - 1
	case forward:
		k.index = (k.index + 1) % n
	default:
		k.index = (k.index - 1 + n) % n
	}
	return k.list[k.index]
}

// Candidates returns the current cycling list, mainly for tests and help
// displays
func (k *KeyboardStrategy) Candidates() []*Candidate {
	return k.list
}
