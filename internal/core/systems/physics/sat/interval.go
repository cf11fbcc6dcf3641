package sat

import "math"

// Interval is the closed range [Min, Max] a shape occupies along an axis.
type Interval struct {
	Min float64
	Max float64
}

// Overlaps reports whether the two ranges intersect. Touching endpoints count.
func (i Interval) Overlaps(o Interval) bool {
	return !(i.Min > o.Max || o.Min > i.Max)
}

// Overlap returns the length of the intersection of the two ranges, or 0 when
// they are disjoint.
func (i Interval) Overlap(o Interval) float64 {
	if !i.Overlaps(o) {
		return 0
	}
	return math.Abs(math.Max(i.Min, o.Min) - math.Min(i.Max, o.Max))
}

// Contains reports whether i fully covers o.
func (i Interval) Contains(o Interval) bool {
	return i.Min <= o.Min && i.Max >= o.Max
}

func (i Interval) Length() float64 { return i.Max - i.Min }
