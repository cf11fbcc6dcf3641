package physics

// Lightweight 2D vector and transform types shared by the collision code.
// Values are plain structs passed by copy; no operation mutates its receiver.

import (
	"fmt"
	"math"
)

// Vec2 is a 2D vector with IEEE-754 double components.
type Vec2 struct{ X, Y float64 }

// V2 is shorthand for Vec2{X: x, Y: y}.
func V2(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2         { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2         { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2    { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Div(s float64) Vec2      { return Vec2{v.X / s, v.Y / s} }
func (v Vec2) Negate() Vec2            { return Vec2{-v.X, -v.Y} }
func (v Vec2) Dot(o Vec2) float64      { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Cross(o Vec2) float64    { return v.X*o.Y - v.Y*o.X }
func (v Vec2) LenSq() float64          { return v.X*v.X + v.Y*v.Y }
func (v Vec2) Len() float64            { return math.Sqrt(v.LenSq()) }
func (v Vec2) Middle(o Vec2) Vec2      { return Vec2{(v.X + o.X) / 2, (v.Y + o.Y) / 2} }
func (v Vec2) Distance(o Vec2) float64 { return math.Hypot(v.X-o.X, v.Y-o.Y) }

// Perp returns v rotated a quarter turn counter-clockwise: (x, y) -> (-y, x).
func (v Vec2) Perp() Vec2 { return Vec2{-v.Y, v.X} }

// Normalize divides v by its length. The zero vector yields NaN components.
func (v Vec2) Normalize() Vec2 { return v.Div(v.Len()) }

// Project returns the projection of v onto o.
func (v Vec2) Project(o Vec2) Vec2 { return o.Scale(v.Dot(o) / o.Dot(o)) }

// Lerp interpolates linearly from v to o; t=0 gives v, t=1 gives o.
func (v Vec2) Lerp(o Vec2, t float64) Vec2 { return v.Add(o.Sub(v).Scale(t)) }

// Nlerp is Lerp followed by Normalize.
func (v Vec2) Nlerp(o Vec2, t float64) Vec2 { return v.Lerp(o, t).Normalize() }

// Slerp interpolates along the arc between two unit vectors.
func (v Vec2) Slerp(o Vec2, t float64) Vec2 {
	dot := Clamp(v.Dot(o), -1, 1)
	theta := math.Acos(dot) * t
	relative := o.Sub(v.Scale(dot)).Normalize()
	return v.Scale(math.Cos(theta)).Add(relative.Scale(math.Sin(theta)))
}

// NearestPointOnLine returns the point on the infinite line through a and b closest to v.
func (v Vec2) NearestPointOnLine(a, b Vec2) Vec2 {
	return v.Sub(a).Project(b.Sub(a)).Add(a)
}

// NearestPointOnSegment is like NearestPointOnLine but clamped to the segment [a, b].
func (v Vec2) NearestPointOnSegment(a, b Vec2) Vec2 {
	ab := b.Sub(a)
	denom := ab.LenSq()
	if denom == 0 {
		return a
	}
	t := Clamp(v.Sub(a).Dot(ab)/denom, 0, 1)
	return a.Add(ab.Scale(t))
}

func (v Vec2) String() string {
	return fmt.Sprintf("{%g, %g}", v.X, v.Y)
}

// Clamp limits value to [lo, hi].
func Clamp(value, lo, hi float64) float64 {
	if value > hi {
		return hi
	}
	if value < lo {
		return lo
	}
	return value
}

// Transform2D places local-space geometry in the world: rotate by Rotation
// radians around the origin, then translate by Pos.
type Transform2D struct {
	Pos      Vec2
	Rotation float64
}

// Identity is the transform that leaves points unchanged.
var Identity = Transform2D{}

func (t Transform2D) Apply(p Vec2) Vec2 {
	if t.Rotation == 0 {
		return p.Add(t.Pos)
	}
	sin, cos := math.Sincos(t.Rotation)
	return Vec2{p.X*cos - p.Y*sin + t.Pos.X, p.X*sin + p.Y*cos + t.Pos.Y}
}

// Distance2 computes Euclidean distance between two 2D points.
func Distance2(x1, y1, x2, y2 float64) float64 { return math.Hypot(x2-x1, y2-y1) }

// DistanceT computes distance between the origins of two transforms.
func DistanceT(a, b Transform2D) float64 { return a.Pos.Distance(b.Pos) }
