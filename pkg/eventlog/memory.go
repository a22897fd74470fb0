package eventlog

import (
	"context"
	"sync"

	"github.com/brightpath/platform/pkg/platformerr"
)

// MemoryLog is an in-process Publisher+Subscriber used by tests and by local development. It
// keeps no queue: Publish delivers each record synchronously to every handler subscribed to the
// topic, so handlers see a topic's records in publish order.
type MemoryLog struct {
	mu          sync.Mutex
	subscribers map[string][]Handler
	published   []publishedRecord
	failNext    map[string]error
}

type publishedRecord struct {
	Topic    string
	Key      string
	Payload  any
	Envelope Envelope
}

// NewMemoryLog constructs an empty MemoryLog.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{
		subscribers: make(map[string][]Handler),
		failNext:    make(map[string]error),
	}
}

// FailNextPublish makes the next Publish call to topic return err, for exercising the
// TransientDependencyError retry path in tests.
func (m *MemoryLog) FailNextPublish(topic string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failNext[topic] = err
}

// Publish implements Publisher by immediately delivering to every registered handler for topic,
// in the order they subscribed.
func (m *MemoryLog) Publish(ctx context.Context, topic, key string, payload any, envelope Envelope) error {
	m.mu.Lock()
	if err := m.failNext[topic]; err != nil {
		delete(m.failNext, topic)
		m.mu.Unlock()

		return platformerr.TransientDependencyError{Dependency: "memory-log", Cause: err}
	}

	value, err := Encode(payload, envelope)
	if err != nil {
		m.mu.Unlock()
		return platformerr.InvalidEvent{Reason: err.Error()}
	}

	m.published = append(m.published, publishedRecord{Topic: topic, Key: key, Payload: payload, Envelope: envelope})
	handlers := append([]Handler(nil), m.subscribers[topic]...)
	m.mu.Unlock()

	raw := RawRecord{Topic: topic, Key: []byte(key), Value: value}

	for _, h := range handlers {
		if err := h(ctx, raw); err != nil {
			return err
		}
	}

	return nil
}

// Close implements Publisher.
func (m *MemoryLog) Close() error { return nil }

// Subscribe implements Subscriber. The returned Runner is a no-op: MemoryLog delivers
// synchronously from Publish, so there is nothing to poll.
func (m *MemoryLog) Subscribe(ctx context.Context, group, topic string, handler Handler) (Runner, error) {
	m.mu.Lock()
	m.subscribers[topic] = append(m.subscribers[topic], handler)
	m.mu.Unlock()

	return noopRunner{}, nil
}

// Published returns every record handed to Publish so far, for test assertions.
func (m *MemoryLog) Published() []publishedRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]publishedRecord, len(m.published))
	copy(out, m.published)

	return out
}

type noopRunner struct{}

func (noopRunner) Run(ctx context.Context) error { <-ctx.Done(); return ctx.Err() }
func (noopRunner) Stop()                         {}
