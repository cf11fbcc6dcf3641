package collision

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/collide/internal/config"
	"github.com/zeusync/collide/internal/core/events/contact"
	"github.com/zeusync/collide/internal/core/observability/log"
	"github.com/zeusync/collide/internal/core/systems"
	"github.com/zeusync/collide/internal/core/systems/physics/sat"
)

type worldBody struct {
	id    uuid.UUID
	shape sat.Polygon
}

type pairResult struct {
	contact contact.Contact
	hit     bool
}

// Step tests every pair of bodies once and dispatches contact events. It
// returns the contacts of this step in registration pair order.
func (s *System) Step(ctx context.Context) ([]contact.Contact, error) {
	s.stepMu.Lock()
	defer s.stepMu.Unlock()

	start := time.Now()
	bodies, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	s.step++
	step := s.step

	results, err := s.checkPairs(ctx, bodies)
	if err != nil {
		s.observe(start, len(bodies), err)
		s.logger.Warn("collision step failed", log.Uint64("step", step), log.Error(err))
		return nil, err
	}

	active := make(map[uint64]contact.Contact, len(s.active))
	activeOrder := make([]uint64, 0, len(s.activeOrder))
	contacts := make([]contact.Contact, 0, len(results))
	events := make([]contact.Event, 0, len(results)+len(s.activeOrder))
	for _, r := range results {
		if !r.hit {
			continue
		}
		c := r.contact
		c.Step = step
		key := pairKey(c.A, c.B)
		kind := contact.Begin
		if _, ok := s.active[key]; ok {
			kind = contact.Persist
		}
		active[key] = c
		activeOrder = append(activeOrder, key)
		contacts = append(contacts, c)
		events = append(events, contact.NewEvent(kind, c))
	}
	for _, key := range s.activeOrder {
		if _, ok := active[key]; ok {
			continue
		}
		c := s.active[key]
		c.Step = step
		events = append(events, contact.NewEvent(contact.End, c))
	}
	s.active = active
	s.activeOrder = activeOrder

	err = s.publish(events)
	s.observe(start, len(bodies), err)
	s.logger.Debug("collision step",
		log.Uint64("step", step),
		log.Int("bodies", len(bodies)),
		log.Int("pairs", len(results)),
		log.Int("contacts", len(contacts)),
		log.Duration("took", time.Since(start)),
	)
	return contacts, err
}

func (s *System) snapshot() ([]worldBody, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch s.state {
	case systems.StateRunning:
	case systems.StateShutdown:
		return nil, ErrSystemShutdown
	default:
		return nil, ErrSystemNotInitialized
	}
	bodies := make([]worldBody, len(s.order))
	for i, id := range s.order {
		b := s.bodies[id].body
		bodies[i] = worldBody{id: id, shape: b.WorldShape()}
	}
	return bodies, nil
}

// checkPairs tests all i<j pairs on a bounded errgroup. Results keep pair order.
func (s *System) checkPairs(ctx context.Context, bodies []worldBody) ([]pairResult, error) {
	n := len(bodies)
	results := make([]pairResult, n*(n-1)/2)
	if len(results) == 0 {
		return results, ctx.Err()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	idx := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			slot := idx
			a, b := bodies[i], bodies[j]
			idx++
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				c, hit, err := s.check(a, b)
				if err != nil {
					return err
				}
				results[slot] = pairResult{contact: c, hit: hit}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// check runs the configured search and orients the axis from b towards a.
func (s *System) check(a, b worldBody) (contact.Contact, bool, error) {
	var (
		mtv sat.MTV
		ok  bool
		err error
	)
	if s.mode == config.ModePlain {
		mtv, ok, err = s.engine.MinimumTranslationVector(a.shape, b.shape)
	} else {
		mtv, ok, err = s.engine.MinimumTranslationVectorWithContainment(a.shape, b.shape)
	}
	if err != nil {
		return contact.Contact{}, false, fmt.Errorf("pair %s/%s: %w", a.id, b.id, err)
	}
	if !ok {
		return contact.Contact{}, false, nil
	}
	if mtv.Axis.Dot(a.shape.Centroid().Sub(b.shape.Centroid())) < 0 {
		mtv.Axis = mtv.Axis.Negate()
	}
	return contact.Contact{A: a.id, B: b.id, MTV: mtv}, true, nil
}

func (s *System) publish(events []contact.Event) error {
	if s.dispatcher == nil || len(events) == 0 {
		return nil
	}
	if err := s.dispatcher.Publish(events...); err != nil {
		s.logger.Warn("contact handlers failed", log.Int("events", len(events)), log.Error(err))
		return fmt.Errorf("dispatch contacts: %w", err)
	}
	return nil
}

func (s *System) observe(start time.Time, entities int, err error) {
	s.metricsMu.Lock()
	s.metrics.Observe(start, time.Since(start), entities, err)
	s.metricsMu.Unlock()
}
