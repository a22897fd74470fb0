package postgres

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/brightpath/platform/pkg/worker"
)

const ledgerTable = "idempotency_ledger"

// Ledger is a worker.Ledger backed by a unique index on (event_id, consumer_name), matching the
// teacher's squirrel-built query style (the teacher's operation repository, see DESIGN.md) adapted to
// pgx's native pool instead of database/sql.
type Ledger struct {
	pool *Pool
}

// NewLedger returns a worker.Ledger backed by pool. The idempotency_ledger table must already
// exist with a unique index on (event_id, consumer_name).
func NewLedger(pool *Pool) *Ledger {
	return &Ledger{pool: pool}
}

// IsProcessed implements worker.Ledger.
func (l *Ledger) IsProcessed(ctx context.Context, eventID, consumerName string) (bool, error) {
	query, args, err := squirrel.Select("1").
		From(ledgerTable).
		Where(squirrel.Eq{"event_id": eventID, "consumer_name": consumerName}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, err
	}

	var exists int
	err = l.pool.DB().QueryRow(ctx, query, args...).Scan(&exists)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, pgx.ErrNoRows):
		return false, nil
	default:
		return false, err
	}
}

// MarkProcessed implements worker.Ledger. ON CONFLICT DO NOTHING makes the required "duplicate
// key is treated as success" contract hold at the database level rather than in application code.
func (l *Ledger) MarkProcessed(ctx context.Context, entry worker.LedgerEntry) error {
	query, args, err := squirrel.Insert(ledgerTable).
		Columns("event_id", "correlation_id", "event_type", "consumer_name", "payload_digest", "processed_at").
		Values(entry.EventID, entry.CorrelationID, entry.EventType, entry.ConsumerName, entry.PayloadDigest, entry.ProcessedAt).
		Suffix("ON CONFLICT (event_id, consumer_name) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = l.pool.DB().Exec(ctx, query, args...)
	return err
}
