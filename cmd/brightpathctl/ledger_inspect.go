package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/spf13/cobra"
)

var ledgerInspectCmd = &cobra.Command{
	Use:   "ledger-inspect",
	Short: "Look up idempotency ledger rows by event id",
	Long: `Looks up rows in the idempotency_ledger table (spec §4.2's (eventId, consumerName) key)
to answer "was this event already processed, and by which consumer, when".`,
	RunE: runLedgerInspect,
}

func init() {
	ledgerInspectCmd.Flags().String("event-id", "", "Event id to look up (required)")
	ledgerInspectCmd.Flags().String("consumer", "", "Restrict to a single consumer name")
	_ = ledgerInspectCmd.MarkFlagRequired("event-id")
}

type ledgerRow struct {
	EventID       string
	CorrelationID string
	EventType     string
	ConsumerName  string
	PayloadDigest string
	ProcessedAt   time.Time
}

func runLedgerInspect(cmd *cobra.Command, args []string) error {
	eventID, _ := cmd.Flags().GetString("event-id")
	consumer, _ := cmd.Flags().GetString("consumer")

	ctx := context.Background()

	pool, err := connectPool(ctx, cmd)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	builder := squirrel.Select("event_id", "correlation_id", "event_type", "consumer_name", "payload_digest", "processed_at").
		From("idempotency_ledger").
		Where(squirrel.Eq{"event_id": eventID}).
		PlaceholderFormat(squirrel.Dollar)

	if consumer != "" {
		builder = builder.Where(squirrel.Eq{"consumer_name": consumer})
	}

	query, sqlArgs, err := builder.ToSql()
	if err != nil {
		return err
	}

	rows, err := pool.DB().Query(ctx, query, sqlArgs...)
	if err != nil {
		return fmt.Errorf("query ledger: %w", err)
	}
	defer rows.Close()

	var found int

	for rows.Next() {
		var r ledgerRow
		if err := rows.Scan(&r.EventID, &r.CorrelationID, &r.EventType, &r.ConsumerName, &r.PayloadDigest, &r.ProcessedAt); err != nil {
			return err
		}

		found++
		fmt.Printf("eventId:       %s\n", r.EventID)
		fmt.Printf("correlationId: %s\n", r.CorrelationID)
		fmt.Printf("eventType:     %s\n", r.EventType)
		fmt.Printf("consumer:      %s\n", r.ConsumerName)
		fmt.Printf("payloadDigest: %s\n", r.PayloadDigest)
		fmt.Printf("processedAt:   %s\n", r.ProcessedAt.Format(time.RFC3339))
		fmt.Println()
	}

	if err := rows.Err(); err != nil {
		return err
	}

	if found == 0 {
		fmt.Printf("no ledger entry for event %s\n", eventID)
	}

	return nil
}
