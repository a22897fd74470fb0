// Package worker is the C2 Idempotent Worker Runtime: it delivers each RawRecord to a business
// handler at most once in effect, with bounded exponential retry and dead-letter routing on
// exhaustion, per spec §4.2.
package worker

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// LedgerEntry is one row of the idempotency ledger (spec §3 "Idempotency Ledger Entry").
type LedgerEntry struct {
	EventID       string
	CorrelationID string
	EventType     string
	ConsumerName  string
	PayloadDigest string
	ProcessedAt   time.Time
}

// Ledger is the durable "already done" signal the runtime consults before running a handler and
// writes to after it succeeds. Implementations must enforce uniqueness on (EventID, ConsumerName).
type Ledger interface {
	// IsProcessed reports whether (eventID, consumerName) already has a ledger row.
	IsProcessed(ctx context.Context, eventID, consumerName string) (bool, error)
	// MarkProcessed inserts the ledger row. Implementations treat a duplicate-key violation on
	// (EventID, ConsumerName) as success, since the invariant it protects already holds.
	MarkProcessed(ctx context.Context, entry LedgerEntry) error
}

// PayloadDigest returns a stable hash of payload, stored on the ledger row for audit/debugging;
// it is not used for equality checks (eventId+consumerName is the sole authoritative key).
func PayloadDigest(payload json.RawMessage) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
