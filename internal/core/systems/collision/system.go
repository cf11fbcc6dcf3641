// Package collision runs the narrow phase for a set of convex bodies: every
// pair is tested with the separating axis engine on each step, and contact
// begin, persist and end events are dispatched as pairs start and stop
// overlapping. There is no broad phase; all pairs are checked.
package collision

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/google/uuid"

	"github.com/zeusync/collide/internal/config"
	"github.com/zeusync/collide/internal/core/events/contact"
	"github.com/zeusync/collide/internal/core/observability/log"
	"github.com/zeusync/collide/internal/core/systems"
	"github.com/zeusync/collide/internal/core/systems/physics"
	"github.com/zeusync/collide/internal/core/systems/physics/sat"
)

var _ systems.System = (*System)(nil)

type Option func(*System)

func WithLogger(l log.Log) Option {
	return func(s *System) { s.logger = l }
}

func WithEngine(e *sat.Engine) Option {
	return func(s *System) { s.engine = e }
}

func WithMode(m config.Mode) Option {
	return func(s *System) { s.mode = m }
}

// WithWorkers bounds concurrent pair checks. n <= 0 means one per CPU.
func WithWorkers(n int) Option {
	return func(s *System) { s.workers = n }
}

func WithDispatcher(d contact.Dispatcher) Option {
	return func(s *System) { s.dispatcher = d }
}

type System struct {
	engine     *sat.Engine
	mode       config.Mode
	workers    int
	logger     log.Log
	dispatcher contact.Dispatcher

	mu     sync.RWMutex
	bodies map[uuid.UUID]*entry
	order  []uuid.UUID
	seq    uint64
	state  systems.StateIdentity

	// guarded by stepMu
	stepMu      sync.Mutex
	step        uint64
	active      map[uint64]contact.Contact
	activeOrder []uint64

	metricsMu sync.Mutex
	metrics   systems.Metrics
}

func New(opts ...Option) *System {
	s := &System{
		engine:     sat.NewEngine(),
		mode:       config.ModeContainment,
		logger:     log.NewNop(),
		dispatcher: contact.New(),
		bodies:     make(map[uuid.UUID]*entry),
		active:     make(map[uint64]contact.Contact),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.workers <= 0 {
		s.workers = runtime.GOMAXPROCS(0)
	}
	if s.logger == nil {
		s.logger = log.NewNop()
	}
	if s.engine == nil {
		s.engine = sat.NewEngine()
	}
	s.logger = s.logger.Named("collision")
	return s
}

// NewFromConfig builds a System from the engine and collision sections of cfg.
func NewFromConfig(cfg *config.Config, logger log.Log, dispatcher contact.Dispatcher) *System {
	return New(
		WithEngine(sat.NewEngine(sat.WithNormalizedAxes(cfg.Engine.NormalizeAxes))),
		WithMode(cfg.Engine.Mode),
		WithWorkers(cfg.Collision.Workers),
		WithLogger(logger),
		WithDispatcher(dispatcher),
	)
}

func (s *System) Name() string                           { return "collision" }
func (s *System) Priority() systems.Priority             { return systems.PriorityHigh }
func (s *System) ExecutionPhase() systems.ExecutionPhase { return systems.PhaseFixedUpdate }
func (s *System) Dispatcher() contact.Dispatcher         { return s.dispatcher }

func (s *System) Initialize(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case systems.StateRunning:
		return nil
	case systems.StateShutdown:
		return ErrSystemShutdown
	}
	s.state = systems.StateRunning
	s.logger.Info("collision system initialized",
		log.String("mode", string(s.mode)),
		log.Bool("normalize_axes", s.engine.NormalizesAxes()),
		log.Int("workers", s.workers),
	)
	return nil
}

// Shutdown ends every active contact and stops the system.
func (s *System) Shutdown(_ context.Context) error {
	s.stepMu.Lock()
	defer s.stepMu.Unlock()

	s.mu.Lock()
	if s.state == systems.StateShutdown {
		s.mu.Unlock()
		return nil
	}
	s.state = systems.StateShutdown
	s.mu.Unlock()

	events := make([]contact.Event, 0, len(s.activeOrder))
	for _, key := range s.activeOrder {
		events = append(events, contact.NewEvent(contact.End, s.active[key]))
	}
	s.active = make(map[uint64]contact.Contact)
	s.activeOrder = nil

	s.logger.Info("collision system shut down", log.Int("ended_contacts", len(events)))
	return s.publish(events)
}

func (s *System) IsInitialized() bool {
	return s.GetState() == systems.StateRunning
}

func (s *System) GetState() systems.StateIdentity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *System) GetMetrics() systems.Metrics {
	s.metricsMu.Lock()
	defer s.metricsMu.Unlock()
	return s.metrics
}

// Add registers a body. A zero ID is replaced by a random one; the ID in use
// is returned.
func (s *System) Add(body Body) (uuid.UUID, error) {
	if err := sat.Validate(body.Shape); err != nil {
		return uuid.Nil, fmt.Errorf("body %q: %w", body.Name, err)
	}
	if body.ID == uuid.Nil {
		body.ID = uuid.New()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bodies[body.ID]; ok {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrBodyExists, body.ID)
	}
	s.seq++
	s.bodies[body.ID] = &entry{body: body, seq: s.seq}
	s.order = append(s.order, body.ID)

	s.logger.Debug("body added", log.Stringer("id", body.ID), log.String("name", body.Name))
	return body.ID, nil
}

// Remove unregisters a body and ends its active contacts immediately.
func (s *System) Remove(id uuid.UUID) error {
	s.stepMu.Lock()
	defer s.stepMu.Unlock()

	s.mu.Lock()
	if _, ok := s.bodies[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrBodyNotFound, id)
	}
	delete(s.bodies, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	var events []contact.Event
	kept := s.activeOrder[:0]
	for _, key := range s.activeOrder {
		c := s.active[key]
		if c.A == id || c.B == id {
			events = append(events, contact.NewEvent(contact.End, c))
			delete(s.active, key)
			continue
		}
		kept = append(kept, key)
	}
	s.activeOrder = kept

	s.logger.Debug("body removed", log.Stringer("id", id), log.Int("ended_contacts", len(events)))
	return s.publish(events)
}

// SetTransform moves a registered body.
func (s *System) SetTransform(id uuid.UUID, t physics.Transform2D) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.bodies[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrBodyNotFound, id)
	}
	e.body.Transform = t
	return nil
}

func (s *System) Body(id uuid.UUID) (Body, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.bodies[id]
	if !ok {
		return Body{}, false
	}
	return e.body, true
}

func (s *System) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Contacts returns the contacts found by the last step, in pair order.
func (s *System) Contacts() []contact.Contact {
	s.stepMu.Lock()
	defer s.stepMu.Unlock()
	out := make([]contact.Contact, 0, len(s.activeOrder))
	for _, key := range s.activeOrder {
		out = append(out, s.active[key])
	}
	return out
}

// Query tests two registered bodies directly, without touching contact state.
func (s *System) Query(a, b uuid.UUID) (contact.Contact, bool, error) {
	s.mu.RLock()
	ea, okA := s.bodies[a]
	eb, okB := s.bodies[b]
	s.mu.RUnlock()
	if !okA {
		return contact.Contact{}, false, fmt.Errorf("%w: %s", ErrBodyNotFound, a)
	}
	if !okB {
		return contact.Contact{}, false, fmt.Errorf("%w: %s", ErrBodyNotFound, b)
	}
	if eb.seq < ea.seq {
		ea, eb = eb, ea
	}
	return s.check(worldBody{id: ea.body.ID, shape: ea.body.WorldShape()}, worldBody{id: eb.body.ID, shape: eb.body.WorldShape()})
}

func (s *System) FixedUpdate(ctx context.Context, _ float64) error {
	_, err := s.Step(ctx)
	return err
}
