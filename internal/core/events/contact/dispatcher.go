package contact

import (
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var ErrNilHandler = errors.New("contact: nil handler")

type subscription struct {
	id      string
	kinds   []Kind
	handler Handler
	active  atomic.Bool
	cancel  func()
}

func (s *subscription) ID() string     { return s.id }
func (s *subscription) Kinds() []Kind  { return slices.Clone(s.kinds) }
func (s *subscription) IsActive() bool { return s.active.Load() }
func (s *subscription) Cancel() error {
	if s.active.CompareAndSwap(true, false) && s.cancel != nil {
		s.cancel()
	}
	return nil
}

type dispatcher struct {
	mu        sync.RWMutex
	handlers  map[Kind][]*subscription
	observers map[Observer]struct{}
	metrics   Metrics
}

// New creates an empty Dispatcher.
func New() Dispatcher {
	return &dispatcher{
		handlers:  make(map[Kind][]*subscription),
		observers: make(map[Observer]struct{}),
	}
}

func (d *dispatcher) Subscribe(kind Kind, handler Handler) (Subscription, error) {
	return d.subscribe([]Kind{kind}, handler)
}

func (d *dispatcher) SubscribeAll(handler Handler) (Subscription, error) {
	return d.subscribe(kinds[:], handler)
}

func (d *dispatcher) subscribe(ks []Kind, handler Handler) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	s := &subscription{id: uuid.NewString(), kinds: slices.Clone(ks), handler: handler}
	s.active.Store(true)
	s.cancel = func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		for _, k := range s.kinds {
			d.handlers[k] = slices.DeleteFunc(d.handlers[k], func(o *subscription) bool { return o == s })
		}
	}

	d.mu.Lock()
	for _, k := range s.kinds {
		d.handlers[k] = append(d.handlers[k], s)
	}
	d.mu.Unlock()
	return s, nil
}

func (d *dispatcher) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return nil
	}
	return sub.Cancel()
}

func (d *dispatcher) Publish(events ...Event) error {
	var all error
	for _, e := range events {
		if err := d.deliver(e); err != nil {
			all = errors.Join(all, err)
		}
	}
	return all
}

func (d *dispatcher) PublishWithFilters(event Event, filters ...Filter) error {
	for _, f := range filters {
		if !f(event) {
			d.mu.Lock()
			if len(d.observers) > 0 {
				d.metrics.DroppedByFilters++
			}
			d.mu.Unlock()
			return nil
		}
	}
	return d.deliver(event)
}

func (d *dispatcher) PublishAsync(events ...Event) <-chan error {
	ch := make(chan error, 1)
	go func() {
		ch <- d.Publish(events...)
		close(ch)
	}()
	return ch
}

func (d *dispatcher) AddObserver(obs Observer) {
	d.mu.Lock()
	d.observers[obs] = struct{}{}
	d.mu.Unlock()
}

func (d *dispatcher) RemoveObserver(obs Observer) {
	d.mu.Lock()
	delete(d.observers, obs)
	d.mu.Unlock()
}

func (d *dispatcher) GetMetrics() Metrics {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.metrics
}

func (d *dispatcher) deliver(event Event) error {
	start := time.Now()
	d.mu.RLock()
	subs := slices.Clone(d.handlers[event.Kind])
	var observers []Observer
	for obs := range d.observers {
		observers = append(observers, obs)
	}
	d.mu.RUnlock()

	for _, obs := range observers {
		obs.OnPublish(event)
	}

	var all error
	delivered := 0
	for _, s := range subs {
		if !s.IsActive() {
			continue
		}
		delivered++
		if err := s.handler(event); err != nil {
			all = errors.Join(all, err)
		}
	}

	if len(observers) == 0 {
		return all
	}
	took := time.Since(start)
	for _, obs := range observers {
		obs.OnDelivered(event, delivered, all, took)
	}

	d.mu.Lock()
	d.metrics.Published++
	d.metrics.DeliveredHandlers += uint64(delivered)
	if all != nil {
		d.metrics.Errors++
	}
	unique := make(map[*subscription]struct{})
	for _, hs := range d.handlers {
		for _, s := range hs {
			unique[s] = struct{}{}
		}
	}
	d.metrics.SubscribersActive = uint64(len(unique))
	d.mu.Unlock()
	return all
}
