// Package sat implements the Separating Axis Theorem for convex polygons:
// an exact overlap test plus the minimum translation vector search, with an
// optional correction for projections that fully contain one another.
//
// Axes are the edge perpendiculars of both shapes and are not normalized
// unless the Engine is built WithNormalizedAxes. Unnormalized axes leave every
// overlap decision unchanged but scale each overlap amount by its axis length,
// so amounts on different axes are not in common units. Degenerate geometry
// (duplicate vertices, zero-length axes) is not special-cased and surfaces as
// NaN or Inf in the results.
package sat

import "github.com/zeusync/collide/internal/core/systems/physics"

// MTV is the minimum translation vector: the axis of least penetration and
// the overlap measured along it. The axis is not oriented; callers decide
// which way to push.
type MTV struct {
	Axis    physics.Vec2
	Overlap float64
}

// Vector returns Axis scaled so that its length equals Overlap.
func (m MTV) Vector() physics.Vec2 {
	return m.Axis.Normalize().Scale(m.Overlap)
}

// Axes returns one candidate separating axis per edge of shape, in edge order.
func Axes(shape Shape) ([]physics.Vec2, error) {
	if err := Validate(shape); err != nil {
		return nil, err
	}
	return appendAxes(nil, shape.Vertices(), false), nil
}

// Project returns the interval shape occupies along axis.
func Project(shape Shape, axis physics.Vec2) Interval {
	vertices := shape.Vertices()
	if len(vertices) == 0 {
		return Interval{}
	}
	min := axis.Dot(vertices[0])
	max := min
	for _, v := range vertices[1:] {
		p := axis.Dot(v)
		if p < min {
			min = p
		} else if p > max {
			max = p
		}
	}
	return Interval{Min: min, Max: max}
}

func appendAxes(dst []physics.Vec2, vertices []physics.Vec2, normalize bool) []physics.Vec2 {
	for i, p1 := range vertices {
		p2 := vertices[(i+1)%len(vertices)]
		axis := p1.Sub(p2).Perp()
		if normalize {
			axis = axis.Normalize()
		}
		dst = append(dst, axis)
	}
	return dst
}
