package geometry

import "math"

// Point represents a coordinate in canvas space
type Point struct {
	X float64
	Y float64
}

// Size represents the dimensions of a rectangular area
type Size struct {
	Width  float64
	Height float64
}

// BoundingBox represents a rectangular area on the canvas
type BoundingBox struct {
	TopLeft Point
	Size    Size
}

// NewPoint creates a new point
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the point translated by the given offset
func (p Point) Add(offset Point) Point {
	return Point{X: p.X + offset.X, Y: p.Y + offset.Y}
}

// Sub returns the offset from other to this point
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// DistanceTo returns the Euclidean distance to another point
func (p Point) DistanceTo(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Hypot(dx, dy)
}

// AngleTo returns the angle in radians from this point to another,
// measured counterclockwise from the positive X axis in (-Pi, Pi]
func (p Point) AngleTo(other Point) float64 {
	return math.Atan2(other.Y-p.Y, other.X-p.X)
}

// Equals compares two points within the given tolerance
func (p Point) Equals(other Point, tolerance float64) bool {
	return math.Abs(p.X-other.X) <= tolerance &&
		math.Abs(p.Y-other.Y) <= tolerance
}

// Contains checks if a point is within the bounding box
func (bb BoundingBox) Contains(pos Point) bool {
	return pos.X >= bb.TopLeft.X &&
		pos.X < bb.TopLeft.X+bb.Size.Width &&
		pos.Y >= bb.TopLeft.Y &&
		pos.Y < bb.TopLeft.Y+bb.Size.Height
}

// Center returns the center point of the bounding box
func (bb BoundingBox) Center() Point {
	return Point{
		X: bb.TopLeft.X + bb.Size.Width/2,
		Y: bb.TopLeft.Y + bb.Size.Height/2,
	}
}

// Intersects checks if two bounding boxes overlap
func (bb BoundingBox) Intersects(other BoundingBox) bool {
	if bb.TopLeft.X >= other.TopLeft.X+other.Size.Width ||
		other.TopLeft.X >= bb.TopLeft.X+bb.Size.Width {
		return false
	}
	if bb.TopLeft.Y >= other.TopLeft.Y+other.Size.Height ||
		other.TopLeft.Y >= bb.TopLeft.Y+bb.Size.Height {
		return false
	}
	return true
}

// Viewport describes the pan offset and zoom scale mapping canvas space
// to device space. Supplied by the host; read-only to the engine.
type Viewport struct {
	PanX float64
	PanY float64
	Zoom float64
}

// Valid reports whether the viewport can be inverted.
// A zero or non-finite zoom makes the mapping degenerate.
func (v Viewport) Valid() bool {
	if v.Zoom == 0 || math.IsNaN(v.Zoom) || math.IsInf(v.Zoom, 0) {
		return false
	}
	if math.IsNaN(v.PanX) || math.IsInf(v.PanX, 0) {
		return false
	}
	if math.IsNaN(v.PanY) || math.IsInf(v.PanY, 0) {
		return false
	}
	return true
}
