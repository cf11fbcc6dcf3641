package sat

import (
	"math"

	"github.com/zeusync/collide/internal/core/systems/physics"
)

// Option configures an Engine.
type Option func(*Engine)

// WithNormalizedAxes makes the engine normalize every axis before projecting.
// Overlap results stay the same; overlap amounts become Euclidean distances.
func WithNormalizedAxes(normalize bool) Option {
	return func(e *Engine) { e.normalize = normalize }
}

// Engine runs SAT queries. The zero value uses unnormalized axes. An Engine is
// immutable and safe for concurrent use.
type Engine struct {
	normalize bool
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NormalizesAxes reports whether the engine normalizes axes.
func (e *Engine) NormalizesAxes() bool { return e.normalize }

// Overlap reports whether the two convex shapes intersect. It returns at the
// first separating axis found.
func (e *Engine) Overlap(a, b Shape) (bool, error) {
	axes, err := e.axes(a, b)
	if err != nil {
		return false, err
	}
	for _, axis := range axes {
		if !Project(a, axis).Overlaps(Project(b, axis)) {
			return false, nil
		}
	}
	return true, nil
}

// MinimumTranslationVector returns the axis with the smallest overlap and the
// overlap along it. ok is false when a separating axis exists.
func (e *Engine) MinimumTranslationVector(a, b Shape) (mtv MTV, ok bool, err error) {
	return e.search(a, b, false)
}

// MinimumTranslationVectorWithContainment is MinimumTranslationVector, except
// that when one projection contains the other the overlap on that axis grows
// by the smaller of the two endpoint gaps. The axis direction is left as is.
func (e *Engine) MinimumTranslationVectorWithContainment(a, b Shape) (mtv MTV, ok bool, err error) {
	return e.search(a, b, true)
}

func (e *Engine) search(a, b Shape, containment bool) (MTV, bool, error) {
	axes, err := e.axes(a, b)
	if err != nil {
		return MTV{}, false, err
	}

	overlap := math.Inf(1)
	var smallest physics.Vec2
	for _, axis := range axes {
		p1 := Project(a, axis)
		p2 := Project(b, axis)
		if !p1.Overlaps(p2) {
			return MTV{}, false, nil
		}

		o := p1.Overlap(p2)
		if containment && (p1.Contains(p2) || p2.Contains(p1)) {
			mins := math.Abs(p1.Min - p2.Min)
			maxs := math.Abs(p1.Max - p2.Max)
			if mins < maxs {
				o += mins
			} else {
				o += maxs
			}
		}

		// strict: on ties the earlier axis stays
		if o < overlap {
			overlap = o
			smallest = axis
		}
	}
	return MTV{Axis: smallest, Overlap: overlap}, true, nil
}

// axes validates both shapes and returns the axes of a followed by those of b.
func (e *Engine) axes(a, b Shape) ([]physics.Vec2, error) {
	if err := Validate(a); err != nil {
		return nil, err
	}
	if err := Validate(b); err != nil {
		return nil, err
	}
	va, vb := a.Vertices(), b.Vertices()
	axes := make([]physics.Vec2, 0, len(va)+len(vb))
	axes = appendAxes(axes, va, e.normalize)
	return appendAxes(axes, vb, e.normalize), nil
}
