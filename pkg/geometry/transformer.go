package geometry

// Transformer converts between device (screen) coordinates and canvas
// coordinates. It is the only place in the engine where either conversion
// occurs; everything downstream works in canvas space exclusively.
//
// A degenerate viewport (zero or non-finite scale or pan) is recoverable:
// ScreenToCanvas falls back to the last successfully converted canvas point
// rather than producing NaN or Infinity.
type Transformer struct {
	// lastGood is the most recent successfully converted canvas point
	lastGood Point
	// converted indicates lastGood holds a real conversion result
	converted bool
}

// NewTransformer creates a transformer with the origin as fallback point
func NewTransformer() *Transformer {
	return &Transformer{}
}

// ScreenToCanvas converts a device-space point to canvas space.
// First the zoom scaling is reversed, then the pan offset is removed.
// On a degenerate viewport the last known-good canvas point is returned.
func (t *Transformer) ScreenToCanvas(device Point, viewport Viewport) Point {
	if !viewport.Valid() {
		return t.lastGood
	}

	canvas := Point{
		X: device.X/viewport.Zoom + viewport.PanX,
		Y: device.Y/viewport.Zoom + viewport.PanY,
	}

	t.lastGood = canvas
	t.converted = true
	return canvas
}

// CanvasToScreen converts a canvas-space point to device space.
// Exact inverse of ScreenToCanvas: pan is applied first, then zoom scaling.
// On a degenerate viewport the input point is returned unchanged so the
// caller never sees NaN or Infinity.
func (t *Transformer) CanvasToScreen(canvas Point, viewport Viewport) Point {
	if !viewport.Valid() {
		return canvas
	}

	return Point{
		X: (canvas.X - viewport.PanX) * viewport.Zoom,
		Y: (canvas.Y - viewport.PanY) * viewport.Zoom,
	}
}

// LastKnownGood returns the fallback canvas point and whether a successful
// conversion has occurred yet
func (t *Transformer) LastKnownGood() (Point, bool) {
	return t.lastGood, t.converted
}

// Reset clears the last known-good point, typically between sessions
func (t *Transformer) Reset() {
	t.lastGood = Point{}
	t.converted = false
}
