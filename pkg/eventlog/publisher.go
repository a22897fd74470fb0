package eventlog

import (
	"context"
)

// Publisher publishes events onto a partitioned log, keyed by the producer's chosen business
// key so causally-related events land on the same partition (spec §4.1 "Ordering").
type Publisher interface {
	// Publish writes payload wrapped in envelope to topic, partitioned by key. Returns
	// platformerr.TransientDependencyError for retryable broker failures, or
	// platformerr.InvalidEvent for an oversized/malformed payload.
	Publish(ctx context.Context, topic, key string, payload any, envelope Envelope) error
	Close() error
}

// Handler processes one delivered RawRecord. The runner does not retry or dead-letter a record
// itself: on a non-nil error it logs the error, leaves that record unmarked for commit, and moves
// on. Retry and dead-letter routing live in worker.Runtime.Wrap, which builds a Handler around a
// business handler. Decoding into an EnrichedEvent is the handler's job (via DecodeWire) since a
// decode failure is itself a dead-letter-worthy InvalidEvent.
type Handler func(ctx context.Context, record RawRecord) error

// Runner drives delivery for one subscription until Stop is called or ctx is cancelled.
type Runner interface {
	Run(ctx context.Context) error
	Stop()
}

// Subscriber creates a delivery runner for a consumer group on a topic. Each Subscribe call
// returns one Runner, which handles every partition assigned to it.
type Subscriber interface {
	Subscribe(ctx context.Context, group, topic string, handler Handler) (Runner, error)
	Close() error
}
