package collision

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/collide/internal/config"
	"github.com/zeusync/collide/internal/core/events/contact"
	"github.com/zeusync/collide/internal/core/observability/log"
	"github.com/zeusync/collide/internal/core/systems"
	"github.com/zeusync/collide/internal/core/systems/physics"
	"github.com/zeusync/collide/internal/core/systems/physics/sat"
)

var unit = sat.Rect(physics.V2(0, 0), physics.V2(1, 1))

type recorder struct {
	mu     sync.Mutex
	events []contact.Event
}

func (r *recorder) handle(e contact.Event) error {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	return nil
}

func (r *recorder) kinds() []contact.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]contact.Kind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

func newRunning(t *testing.T, opts ...Option) (*System, *recorder) {
	t.Helper()
	rec := &recorder{}
	d := contact.New()
	_, err := d.SubscribeAll(rec.handle)
	require.NoError(t, err)

	s := New(append([]Option{WithDispatcher(d), WithWorkers(2)}, opts...)...)
	require.NoError(t, s.Initialize(context.Background()))
	return s, rec
}

func at(x, y float64) physics.Transform2D {
	return physics.Transform2D{Pos: physics.V2(x, y)}
}

func TestLifecycle(t *testing.T) {
	s := New()
	assert.Equal(t, "collision", s.Name())
	assert.Equal(t, systems.PhaseFixedUpdate, s.ExecutionPhase())
	assert.Equal(t, systems.PriorityHigh, s.Priority())
	assert.False(t, s.IsInitialized())

	_, err := s.Step(context.Background())
	assert.ErrorIs(t, err, ErrSystemNotInitialized)

	require.NoError(t, s.Initialize(context.Background()))
	require.NoError(t, s.Initialize(context.Background()))
	assert.True(t, s.IsInitialized())

	require.NoError(t, s.Shutdown(context.Background()))
	require.NoError(t, s.Shutdown(context.Background()))
	assert.Equal(t, systems.StateShutdown, s.GetState())

	_, err = s.Step(context.Background())
	assert.ErrorIs(t, err, ErrSystemShutdown)
	assert.ErrorIs(t, s.Initialize(context.Background()), ErrSystemShutdown)
}

func TestAddValidation(t *testing.T) {
	s := New()

	_, err := s.Add(Body{Name: "line", Shape: sat.Polygon{{X: 0, Y: 0}, {X: 1, Y: 0}}})
	assert.ErrorIs(t, err, sat.ErrInvalidShape)

	id, err := s.Add(Body{Name: "box", Shape: unit})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	_, err = s.Add(Body{ID: id, Shape: unit})
	assert.ErrorIs(t, err, ErrBodyExists)

	b, ok := s.Body(id)
	require.True(t, ok)
	assert.Equal(t, "box", b.Name)
	assert.Equal(t, 1, s.Len())

	assert.ErrorIs(t, s.Remove(uuid.New()), ErrBodyNotFound)
	assert.ErrorIs(t, s.SetTransform(uuid.New(), at(1, 1)), ErrBodyNotFound)
}

func TestContactLifecycle(t *testing.T) {
	s, rec := newRunning(t)
	ctx := context.Background()

	a, err := s.Add(Body{Name: "a", Shape: unit})
	require.NoError(t, err)
	b, err := s.Add(Body{Name: "b", Shape: unit, Transform: at(0.5, 0)})
	require.NoError(t, err)

	contacts, err := s.Step(ctx)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	c := contacts[0]
	assert.Equal(t, a, c.A)
	assert.Equal(t, b, c.B)
	assert.Equal(t, uint64(1), c.Step)
	assert.Equal(t, 0.5, c.MTV.Overlap)
	// a sits left of b, so the push-out axis points in -x
	assert.Equal(t, physics.V2(-1, 0), c.MTV.Axis)

	_, err = s.Step(ctx)
	require.NoError(t, err)
	assert.Equal(t, []contact.Kind{contact.Begin, contact.Persist}, rec.kinds())

	require.NoError(t, s.SetTransform(b, at(5, 0)))
	contacts, err = s.Step(ctx)
	require.NoError(t, err)
	assert.Empty(t, contacts)
	assert.Empty(t, s.Contacts())
	assert.Equal(t, []contact.Kind{contact.Begin, contact.Persist, contact.End}, rec.kinds())

	m := s.GetMetrics()
	assert.Equal(t, uint64(3), m.ExecutionCount)
	assert.Equal(t, uint64(6), m.EntitiesProcessed)
	assert.Zero(t, m.ErrorCount)
}

func TestRemoveEndsContacts(t *testing.T) {
	s, rec := newRunning(t)

	a, _ := s.Add(Body{Shape: unit})
	_, _ = s.Add(Body{Shape: unit, Transform: at(0.5, 0.5)})
	_, err := s.Step(context.Background())
	require.NoError(t, err)
	require.Len(t, s.Contacts(), 1)

	require.NoError(t, s.Remove(a))
	assert.Empty(t, s.Contacts())
	assert.Equal(t, []contact.Kind{contact.Begin, contact.End}, rec.kinds())

	contacts, err := s.Step(context.Background())
	require.NoError(t, err)
	assert.Empty(t, contacts)
	assert.Len(t, rec.kinds(), 2)
}

func TestShutdownEndsContacts(t *testing.T) {
	s, rec := newRunning(t)
	_, _ = s.Add(Body{Shape: unit})
	_, _ = s.Add(Body{Shape: unit, Transform: at(0.25, 0)})
	_, err := s.Step(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.Shutdown(context.Background()))
	assert.Equal(t, []contact.Kind{contact.Begin, contact.End}, rec.kinds())
}

func TestStepManyBodies(t *testing.T) {
	s, _ := newRunning(t, WithWorkers(3))

	ids := make([]uuid.UUID, 5)
	for i := range ids {
		id, err := s.Add(Body{Shape: unit, Transform: at(0.9*float64(i), 0)})
		require.NoError(t, err)
		ids[i] = id
	}

	contacts, err := s.Step(context.Background())
	require.NoError(t, err)
	require.Len(t, contacts, 4)
	for i, c := range contacts {
		assert.Equal(t, ids[i], c.A)
		assert.Equal(t, ids[i+1], c.B)
		assert.InDelta(t, 0.1, c.MTV.Overlap, 1e-9)
	}
}

func TestQuery(t *testing.T) {
	s := New()
	a, _ := s.Add(Body{Shape: unit})
	b, _ := s.Add(Body{Shape: unit, Transform: at(0, 0.75)})
	far, _ := s.Add(Body{Shape: unit, Transform: at(10, 10)})

	c, ok, err := s.Query(b, a)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, a, c.A, "query orders the pair by registration")
	assert.Equal(t, physics.V2(0, -1), c.MTV.Axis)
	assert.InDelta(t, 0.25, c.MTV.Overlap, 1e-12)

	_, ok, err = s.Query(a, far)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = s.Query(a, uuid.New())
	assert.ErrorIs(t, err, ErrBodyNotFound)
}

func TestModes(t *testing.T) {
	outer := sat.Rect(physics.V2(0, 0), physics.V2(4, 4))
	inner := sat.Rect(physics.V2(1, 1), physics.V2(3, 3))

	overlapFor := func(mode config.Mode) float64 {
		cfg := config.Default()
		cfg.Engine.Mode = mode
		cfg.Engine.NormalizeAxes = true
		s := NewFromConfig(cfg, log.NewNop(), nil)
		a, _ := s.Add(Body{Shape: outer})
		b, _ := s.Add(Body{Shape: inner})
		c, ok, err := s.Query(a, b)
		require.NoError(t, err)
		require.True(t, ok)
		return c.MTV.Overlap
	}

	assert.Equal(t, 2.0, overlapFor(config.ModePlain))
	assert.Equal(t, 3.0, overlapFor(config.ModeContainment))
}

func TestHandlerErrorsDoNotStopStepping(t *testing.T) {
	d := contact.New()
	boom := errors.New("boom")
	_, _ = d.Subscribe(contact.Begin, func(contact.Event) error { return boom })

	s := New(WithDispatcher(d))
	require.NoError(t, s.Initialize(context.Background()))
	_, _ = s.Add(Body{Shape: unit})
	_, _ = s.Add(Body{Shape: unit, Transform: at(0.5, 0)})

	contacts, err := s.Step(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Len(t, contacts, 1)
	assert.Len(t, s.Contacts(), 1)
	assert.Equal(t, uint64(1), s.GetMetrics().ErrorCount)

	_, err = s.Step(context.Background())
	assert.NoError(t, err)
}

func TestStepCanceled(t *testing.T) {
	s, _ := newRunning(t)
	_, _ = s.Add(Body{Shape: unit})
	_, _ = s.Add(Body{Shape: unit, Transform: at(0.5, 0)})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Step(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, s.Contacts())
}

func TestFixedUpdate(t *testing.T) {
	s, rec := newRunning(t)
	_, _ = s.Add(Body{Shape: unit})
	_, _ = s.Add(Body{Shape: unit, Transform: at(0.5, 0)})

	require.NoError(t, s.FixedUpdate(context.Background(), 1.0/60))
	assert.Equal(t, []contact.Kind{contact.Begin}, rec.kinds())
}

func TestLogsInitialization(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := New(WithLogger(log.NewFromZap(zap.New(core), log.LevelInfo)), WithMode(config.ModePlain))
	require.NoError(t, s.Initialize(context.Background()))

	entries := logs.FilterMessage("collision system initialized").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "collision", entries[0].LoggerName)
	assert.Equal(t, "plain", entries[0].ContextMap()["mode"])
}

func TestPairKeyIsOrdered(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	assert.Equal(t, pairKey(a, b), pairKey(a, b))
	assert.NotEqual(t, pairKey(a, b), pairKey(b, a))
}
