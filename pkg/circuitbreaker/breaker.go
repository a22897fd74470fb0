// Package circuitbreaker wraps sony/gobreaker with a named-service listener so outbound calls
// report their state transitions the same way, instead of each caller re-deriving
// Open/HalfOpen/Closed bookkeeping. Its one caller is the Kafka producer
// (eventlog.KafkaPublisher); the gateway reverse proxy does not use it.
package circuitbreaker

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
)

// State mirrors gobreaker.State with brightpath-local names so callers never import gobreaker
// directly.
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func fromGobreaker(s gobreaker.State) State {
	switch s {
	case gobreaker.StateOpen:
		return StateOpen
	case gobreaker.StateHalfOpen:
		return StateHalfOpen
	default:
		return StateClosed
	}
}

// Counts mirrors gobreaker.Counts.
type Counts struct {
	Requests            uint32
	TotalFailures       uint32
	ConsecutiveFailures uint32
}

// StateChangeEvent is emitted to every registered StateListener on a transition.
type StateChangeEvent struct {
	ServiceName string
	FromState   State
	ToState     State
	Counts      Counts
}

// StateListener observes circuit breaker transitions, e.g. to increment a metric or page an
// on-call channel when a dependency trips open.
type StateListener interface {
	OnCircuitBreakerStateChange(event StateChangeEvent)
}

// Config configures a Breaker.
type Config struct {
	ServiceName         string
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
	FailureRatio        float64
	MinRequests         uint32
	Listener            StateListener
}

// Breaker guards a single dependency (the Kafka producer, one gateway upstream target, ...).
type Breaker struct {
	cb   *gobreaker.CircuitBreaker
	name string
}

// New builds a Breaker from cfg, tripping when ConsecutiveFailures is reached or when
// MinRequests have been observed and FailureRatio of them failed.
func New(cfg Config) *Breaker {
	settings := gobreaker.Settings{
		Name:        cfg.ServiceName,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if cfg.ConsecutiveFailures > 0 && counts.ConsecutiveFailures >= cfg.ConsecutiveFailures {
				return true
			}

			if cfg.MinRequests > 0 && counts.Requests >= cfg.MinRequests {
				ratio := float64(counts.TotalFailures) / float64(counts.Requests)
				return ratio >= cfg.FailureRatio
			}

			return false
		},
	}

	if cfg.Listener != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			cfg.Listener.OnCircuitBreakerStateChange(StateChangeEvent{
				ServiceName: name,
				FromState:   fromGobreaker(from),
				ToState:     fromGobreaker(to),
			})
		}
	}

	return &Breaker{cb: gobreaker.NewCircuitBreaker(settings), name: cfg.ServiceName}
}

// Execute runs fn through the breaker, short-circuiting with gobreaker.ErrOpenState when tripped.
func (b *Breaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, fn(ctx)
	})

	return err
}

// Name returns the service name this breaker guards.
func (b *Breaker) Name() string { return b.name }

// IsOpen reports whether the breaker is currently tripped.
func (b *Breaker) IsOpen() bool {
	return b.cb.State() == gobreaker.StateOpen
}
