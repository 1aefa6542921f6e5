// Package vector provides the planar vector value type shared by the layout
// engine. It is a thin layer over gonum's r2.Vec that adds the guarded
// operations force calculation needs (safe unit vectors, length clamps and
// finiteness checks).
package vector

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vector2 is a 2D floating-point vector. It is a value type and is copied freely.
type Vector2 struct {
	X, Y float64
}

// Zero is the zero vector.
var Zero = Vector2{}

func New(x, y float64) Vector2 { return Vector2{X: x, Y: y} }

func fromR2(v r2.Vec) Vector2 { return Vector2{X: v.X, Y: v.Y} }

func (v Vector2) r2() r2.Vec { return r2.Vec{X: v.X, Y: v.Y} }

func (v Vector2) Add(o Vector2) Vector2 { return fromR2(r2.Add(v.r2(), o.r2())) }

func (v Vector2) Sub(o Vector2) Vector2 { return fromR2(r2.Sub(v.r2(), o.r2())) }

func (v Vector2) Scale(f float64) Vector2 { return fromR2(r2.Scale(f, v.r2())) }

func (v Vector2) Neg() Vector2 { return Vector2{X: -v.X, Y: -v.Y} }

func (v Vector2) Dot(o Vector2) float64 { return r2.Dot(v.r2(), o.r2()) }

// Len returns the Euclidean length.
func (v Vector2) Len() float64 { return r2.Norm(v.r2()) }

// LenSq returns the squared Euclidean length.
func (v Vector2) LenSq() float64 { return r2.Norm2(v.r2()) }

// Dist returns the distance between two points.
func (v Vector2) Dist(o Vector2) float64 { return v.Sub(o).Len() }

// Unit returns v scaled to length 1, or the zero vector when v has no
// direction.
func (v Vector2) Unit() Vector2 {
	l := v.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return Zero
	}
	return v.Scale(1 / l)
}

// ClampLen limits the length of v to max while keeping its direction.
// A non-positive max leaves v unchanged.
func (v Vector2) ClampLen(max float64) Vector2 {
	if max <= 0 {
		return v
	}
	l := v.Len()
	if l <= max {
		return v
	}
	return v.Scale(max / l)
}

// IsFinite reports whether both components are neither NaN nor infinite.
func (v Vector2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// IsZero reports whether v is exactly the zero vector.
func (v Vector2) IsZero() bool { return v.X == 0 && v.Y == 0 }
