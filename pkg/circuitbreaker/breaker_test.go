package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordingListener struct {
	mu     sync.Mutex
	events []StateChangeEvent
}

func (l *recordingListener) OnCircuitBreakerStateChange(event StateChangeEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, event)
}

func (l *recordingListener) snapshot() []StateChangeEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]StateChangeEvent, len(l.events))
	copy(out, l.events)

	return out
}

func TestStateChangeEvent_FieldsPreserved(t *testing.T) {
	event := StateChangeEvent{
		ServiceName: "kafka-producer",
		FromState:   StateClosed,
		ToState:     StateOpen,
		Counts:      Counts{Requests: 10, TotalFailures: 5, ConsecutiveFailures: 5},
	}

	assert.Equal(t, "kafka-producer", event.ServiceName)
	assert.Equal(t, StateClosed, event.FromState)
	assert.Equal(t, StateOpen, event.ToState)
	assert.Equal(t, uint32(5), event.Counts.ConsecutiveFailures)
}

func TestBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	listener := &recordingListener{}
	b := New(Config{
		ServiceName:         "test-service",
		ConsecutiveFailures: 3,
		Timeout:             50 * time.Millisecond,
		Listener:            listener,
	})

	failing := func(ctx context.Context) error { return errors.New("boom") }

	for i := 0; i < 3; i++ {
		_ = b.Execute(context.Background(), failing)
	}

	assert.True(t, b.IsOpen())

	err := b.Execute(context.Background(), func(ctx context.Context) error { return nil })
	assert.Error(t, err, "breaker should short-circuit while open")

	events := listener.snapshot()
	assert.NotEmpty(t, events)
	assert.Equal(t, "test-service", events[0].ServiceName)
	assert.Equal(t, StateOpen, events[0].ToState)
}

func TestBreaker_StaysClosedOnSuccess(t *testing.T) {
	b := New(Config{ServiceName: "healthy-service", ConsecutiveFailures: 3})

	for i := 0; i < 10; i++ {
		err := b.Execute(context.Background(), func(ctx context.Context) error { return nil })
		assert.NoError(t, err)
	}

	assert.False(t, b.IsOpen())
}
