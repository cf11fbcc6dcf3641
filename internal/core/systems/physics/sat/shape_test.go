package sat

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/collide/internal/core/systems/physics"
)

func TestNewPolygon(t *testing.T) {
	src := []physics.Vec2{physics.V2(0, 0), physics.V2(1, 0), physics.V2(0, 1)}
	p, err := NewPolygon(src...)
	require.NoError(t, err)
	assert.Equal(t, src, p.Vertices())

	src[0] = physics.V2(9, 9)
	assert.Equal(t, physics.V2(0, 0), p[0], "polygon must own its vertices")

	_, err = NewPolygon(physics.V2(0, 0), physics.V2(1, 0))
	assert.True(t, errors.Is(err, ErrInvalidShape))
}

func TestRectAndBox(t *testing.T) {
	r := Rect(physics.V2(0, 0), physics.V2(2, 1))
	assert.Equal(t, Polygon{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 0, Y: 1}}, r)
	assert.Equal(t, r, Box(physics.V2(1, 0.5), 2, 1))
}

func TestPolygonCentroid(t *testing.T) {
	c := Rect(physics.V2(0, 0), physics.V2(2, 2)).Centroid()
	assert.InDelta(t, 1.0, c.X, 1e-12)
	assert.InDelta(t, 1.0, c.Y, 1e-12)

	c = Polygon{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 0, Y: 3}}.Centroid()
	assert.InDelta(t, 1.0, c.X, 1e-12)
	assert.InDelta(t, 1.0, c.Y, 1e-12)

	// collinear points have no area
	c = Polygon{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}.Centroid()
	assert.Equal(t, physics.V2(1, 0), c)

	assert.Equal(t, physics.Vec2{}, Polygon(nil).Centroid())
}

func TestPolygonTranslateAndTransform(t *testing.T) {
	p := Rect(physics.V2(0, 0), physics.V2(1, 1))

	moved := p.Translate(physics.V2(2, 3))
	assert.Equal(t, Polygon{{X: 2, Y: 3}, {X: 3, Y: 3}, {X: 3, Y: 4}, {X: 2, Y: 4}}, moved)
	assert.Equal(t, physics.V2(0, 0), p[0])

	turned := p.Transform(physics.Transform2D{Pos: physics.V2(5, 0), Rotation: math.Pi})
	require.Len(t, turned, 4)
	assert.InDelta(t, 4.0, turned[1].X, 1e-12)
	assert.InDelta(t, 0.0, turned[1].Y, 1e-12)
}
