package sliderpath

import (
	"fmt"
	"math"
)

// Vec is a 2D offset on the playfield.
type Vec struct {
	X, Y float64
}

func (v Vec) Add(o Vec) Vec          { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec          { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Scale(s float64) Vec    { return Vec{v.X * s, v.Y * s} }
func (v Vec) Dot(o Vec) float64      { return v.X*o.X + v.Y*o.Y }
func (v Vec) Cross(o Vec) float64    { return v.X*o.Y - v.Y*o.X }
func (v Vec) Len() float64           { return math.Hypot(v.X, v.Y) }
func (v Vec) Distance(o Vec) float64 { return math.Hypot(v.X-o.X, v.Y-o.Y) }

// Normalize returns v scaled to unit length, or the zero vector if v has no length.
func (v Vec) Normalize() Vec {
	l := v.Len()
	if l == 0 {
		return Vec{}
	}
	return Vec{v.X / l, v.Y / l}
}

func (v Vec) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

func almostEqVec(a, b Vec) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}
