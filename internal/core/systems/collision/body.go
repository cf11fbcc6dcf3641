package collision

import (
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/zeusync/collide/internal/core/systems/physics"
	"github.com/zeusync/collide/internal/core/systems/physics/sat"
)

// Body is a convex shape placed in the world. Shape is in local space and is
// mapped through Transform before every check.
type Body struct {
	ID        uuid.UUID
	Name      string
	Shape     sat.Shape
	Transform physics.Transform2D
}

// WorldShape returns the body's shape in world space.
func (b Body) WorldShape() sat.Polygon {
	return sat.Polygon(b.Shape.Vertices()).Transform(b.Transform)
}

type entry struct {
	body Body
	seq  uint64
}

// pairKey identifies an unordered pair. a must be the earlier registered body.
func pairKey(a, b uuid.UUID) uint64 {
	var buf [32]byte
	copy(buf[:16], a[:])
	copy(buf[16:], b[:])
	return xxhash.Sum64(buf[:])
}
