package move

// MarkerRenderer is the visual backend the overlay drives. Implementations
// draw or remove a highlight marker for one candidate pair; the demo TUI
// and test doubles implement it.
type MarkerRenderer interface {
	ShowMarker(c *Candidate)
	HideMarker(c *Candidate)
}

// Overlay manages the highlight markers for the current candidate set.
//
// SetCandidates diffs the new set against the previously rendered one and
// issues only the minimal show/hide operations. A full teardown-and-rebuild
// per update is deliberately not implemented: it caused visible flicker and
// dropped highlights during rapid recomputation.
type Overlay struct {
	renderer MarkerRenderer
	// visible maps candidate pair keys to their rendered candidates
	visible  map[string]*Candidate
	disposed bool
}

// NewOverlay creates an empty overlay on the given renderer
func NewOverlay(renderer MarkerRenderer) *Overlay {
	return &Overlay{
		renderer: renderer,
		visible:  make(map[string]*Candidate),
	}
}

// SetCandidates updates the rendered markers to exactly the given set.
// Unchanged pairs are left untouched.
func (o *Overlay) SetCandidates(candidates []*Candidate) {
	if o.disposed {
		return
	}

	next := make(map[string]*Candidate, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		next[c.key()] = c
	}

	for key, prev := range o.visible {
		if _, keep := next[key]; !keep {
			o.renderer.HideMarker(prev)
			delete(o.visible, key)
		}
	}

	for key, c := range next {
		if _, shown := o.visible[key]; !shown {
			o.renderer.ShowMarker(c)
			o.visible[key] = c
		}
	}
}

// SetCandidate is a convenience for the single-candidate case; a nil
// candidate clears the overlay
func (o *Overlay) SetCandidate(c *Candidate) {
	if c == nil {
		o.Clear()
		return
	}
	o.SetCandidates([]*Candidate{c})
}

// Clear removes every marker. Idempotent and safe to call when already
// empty.
func (o *Overlay) Clear() {
	for key, c := range o.visible {
		o.renderer.HideMarker(c)
		delete(o.visible, key)
	}
}

// Dispose clears unconditionally and marks the overlay unusable, so no
// visual element can leak even when the owning session ends abnormally
func (o *Overlay) Dispose() {
	o.Clear()
	o.disposed = true
}

// Count returns the number of currently rendered markers
func (o *Overlay) Count() int {
	return len(o.visible)
}
