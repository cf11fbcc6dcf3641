package sat

import (
	"fmt"

	"github.com/zeusync/collide/internal/core/systems/physics"
)

// Shape is anything that exposes an ordered, closed loop of vertices.
// Vertex i connects to vertex i+1 and the last vertex connects back to the first.
type Shape interface {
	Vertices() []physics.Vec2
}

var _ Shape = Polygon(nil)

// Polygon is a convex polygon given by its boundary in a consistent winding order.
type Polygon []physics.Vec2

// NewPolygon copies the given vertices and checks that there are at least three.
func NewPolygon(vertices ...physics.Vec2) (Polygon, error) {
	p := make(Polygon, len(vertices))
	copy(p, vertices)
	if err := Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Rect returns the axis-aligned rectangle spanning min..max, counter-clockwise.
func Rect(min, max physics.Vec2) Polygon {
	return Polygon{
		min,
		{X: max.X, Y: min.Y},
		max,
		{X: min.X, Y: max.Y},
	}
}

// Box returns an axis-aligned w by h rectangle centered on center.
func Box(center physics.Vec2, w, h float64) Polygon {
	half := physics.V2(w/2, h/2)
	return Rect(center.Sub(half), center.Add(half))
}

func (p Polygon) Vertices() []physics.Vec2 { return p }

// Centroid returns the area centroid. Degenerate polygons with zero area fall
// back to the vertex average.
func (p Polygon) Centroid() physics.Vec2 {
	if len(p) == 0 {
		return physics.Vec2{}
	}
	var area float64
	var c physics.Vec2
	for i := range p {
		a, b := p[i], p[(i+1)%len(p)]
		cross := a.Cross(b)
		area += cross
		c = c.Add(a.Add(b).Scale(cross))
	}
	if area == 0 {
		var sum physics.Vec2
		for _, v := range p {
			sum = sum.Add(v)
		}
		return sum.Div(float64(len(p)))
	}
	return c.Div(3 * area)
}

// Translate returns a copy of p moved by d.
func (p Polygon) Translate(d physics.Vec2) Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[i] = v.Add(d)
	}
	return out
}

// Transform returns a copy of p mapped through t.
func (p Polygon) Transform(t physics.Transform2D) Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[i] = t.Apply(v)
	}
	return out
}

func (p Polygon) String() string {
	return fmt.Sprintf("Polygon%v", []physics.Vec2(p))
}

// Validate returns an error wrapping ErrInvalidShape unless s has at least
// three vertices.
func Validate(s Shape) error {
	if s == nil {
		return fmt.Errorf("%w: nil shape", ErrInvalidShape)
	}
	if n := len(s.Vertices()); n < 3 {
		return fmt.Errorf("%w: got %d", ErrInvalidShape, n)
	}
	return nil
}
