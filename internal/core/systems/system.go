package systems

import (
	"context"
	"time"
)

// System is a game logic processor driven by a fixed-step loop.
type System interface {
	// Identity

	Name() string

	// Lifecycle

	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error

	// Execution

	FixedUpdate(ctx context.Context, fixedDeltaTime float64) error

	// Configuration

	Priority() Priority
	ExecutionPhase() ExecutionPhase

	// State management

	IsInitialized() bool
	GetState() StateIdentity

	// Performance monitoring

	GetMetrics() Metrics
}

// Priority defines execution order priority
type Priority uint16

const (
	PriorityLow     Priority = 500
	PriorityNormal  Priority = 600
	PriorityHigh    Priority = 1000
	PriorityHighest Priority = 1300
)

// ExecutionPhase defines when a system runs
type ExecutionPhase uint8

const (
	PhasePreUpdate ExecutionPhase = iota
	PhaseUpdate
	PhasePostUpdate
	PhaseFixedUpdate
	PhaseLateUpdate
)

// StateIdentity represents the current state of a system
type StateIdentity uint8

const (
	StateUninitialized StateIdentity = iota
	StateRunning
	StateShutdown
	StateError
)

func (s StateIdentity) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateShutdown:
		return "shutdown"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Metrics provides runtime metrics for a system
type Metrics struct {
	ExecutionCount       uint64
	TotalExecutionTime   time.Duration
	AverageExecutionTime time.Duration
	MaxExecutionTime     time.Duration
	MinExecutionTime     time.Duration
	ErrorCount           uint64
	LastError            error
	LastExecutionTime    time.Time
	EntitiesProcessed    uint64
}

// Observe folds one execution into m.
func (m *Metrics) Observe(started time.Time, took time.Duration, entities int, err error) {
	m.ExecutionCount++
	m.TotalExecutionTime += took
	m.AverageExecutionTime = m.TotalExecutionTime / time.Duration(m.ExecutionCount)
	if took > m.MaxExecutionTime {
		m.MaxExecutionTime = took
	}
	if m.ExecutionCount == 1 || took < m.MinExecutionTime {
		m.MinExecutionTime = took
	}
	m.LastExecutionTime = started
	m.EntitiesProcessed += uint64(entities)
	if err != nil {
		m.ErrorCount++
		m.LastError = err
	}
}
