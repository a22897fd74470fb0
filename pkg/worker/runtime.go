package worker

import (
	"context"
	"time"

	"github.com/brightpath/platform/pkg/eventlog"
	"github.com/brightpath/platform/pkg/platformerr"
	"github.com/brightpath/platform/pkg/platformlog"
	"github.com/brightpath/platform/pkg/platformmetrics"
	"github.com/brightpath/platform/pkg/retry"
)

// BusinessHandler runs the domain-specific effect for one decoded event. It returns nil on
// success, platformerr.UniquenessConflict or platformerr.BusinessRuleViolation for outcomes the
// runtime treats as success, a platformerr.TransientDependencyError for a retryable failure, or
// any other error (including platformerr.InvalidEvent) for a fatal, non-retryable failure.
type BusinessHandler func(ctx context.Context, event eventlog.EnrichedEvent) error

// Runtime is the C2 idempotent worker runtime (spec §4.2): it wraps a BusinessHandler with
// ledger-backed deduplication, bounded exponential retry, and dead-letter routing on exhaustion.
type Runtime struct {
	ConsumerName string
	Ledger       Ledger
	DeadLetter   DeadLetterPublisher
	Retry        retry.Config
	Logger       platformlog.Logger

	// Now and Sleep are overridable for deterministic tests. Sleep must return promptly with
	// ctx.Err() if ctx is cancelled mid-backoff.
	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error

	// VerifyStillDone is consulted on a ledger hit before skipping, so a consumer whose side
	// effect can be lost independently of its ledger row (spec §4.2's "ledger says processed but
	// no active allocation exists" case) gets a chance to re-run the handler instead of silently
	// skipping. If nil, a ledger hit always skips.
	VerifyStillDone func(ctx context.Context, event eventlog.EnrichedEvent) (bool, error)
}

// New returns a Runtime with defaults filled in (retry.Default, real clock, real sleep, a no-op
// logger), overridable by setting fields on the returned value before use.
func New(consumerName string, ledger Ledger, deadLetter DeadLetterPublisher) *Runtime {
	return &Runtime{
		ConsumerName: consumerName,
		Ledger:       ledger,
		DeadLetter:   deadLetter,
		Retry:        retry.Default(),
		Logger:       platformlog.NewNop(),
		Now:          time.Now,
		Sleep:        sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Wrap adapts handler into an eventlog.Handler, running it through the full RECEIVED →
// LEDGER_CHECK → HANDLER → LEDGER_WRITE / BACKOFF / DLQ state machine (spec §4.2). Handler retries
// happen internally; the returned Handler returns an error only when the runtime could not reach
// a terminal state, which the Subscriber's Runner treats as "do not commit": a ledger or
// dead-letter dependency failed (returned as platformerr.TransientDependencyError) or ctx was
// cancelled mid-backoff (returned as ctx.Err()).
func (r *Runtime) Wrap(handler BusinessHandler) eventlog.Handler {
	return func(ctx context.Context, raw eventlog.RawRecord) error {
		event, err := eventlog.DecodeWire(raw)
		if err != nil {
			return r.deadLetter(ctx, raw, nil, err.Error(), 0)
		}

		processed, err := r.Ledger.IsProcessed(ctx, event.Envelope.EventID, r.ConsumerName)
		if err != nil {
			return platformerr.TransientDependencyError{Dependency: "idempotency-ledger", Cause: err}
		}

		if processed {
			if r.VerifyStillDone == nil {
				r.Logger.Debugf("worker: skipping already-processed event %s for consumer %s", event.Envelope.EventID, r.ConsumerName)
				return nil
			}

			stillDone, err := r.VerifyStillDone(ctx, event)
			if err != nil {
				return platformerr.TransientDependencyError{Dependency: "ledger-recovery-check", Cause: err}
			}

			if stillDone {
				r.Logger.Debugf("worker: skipping already-processed event %s for consumer %s", event.Envelope.EventID, r.ConsumerName)
				return nil
			}

			r.Logger.Warnf("worker: event %s marked processed for consumer %s but side effect missing, re-running", event.Envelope.EventID, r.ConsumerName)
		}

		return r.runWithRetry(ctx, raw, event, handler)
	}
}

func (r *Runtime) runWithRetry(ctx context.Context, raw eventlog.RawRecord, event eventlog.EnrichedEvent, handler BusinessHandler) error {
	maxAttempts := r.Retry.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error

	timer := platformmetrics.NewTimer()

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := handler(ctx, event)

		switch err.(type) {
		case nil:
			timer.ObserveDuration(platformmetrics.HandlerDuration, r.ConsumerName)
			return r.commitSuccess(ctx, event)
		case platformerr.UniquenessConflict, platformerr.BusinessRuleViolation:
			timer.ObserveDuration(platformmetrics.HandlerDuration, r.ConsumerName)
			return r.commitSuccess(ctx, event)
		}

		lastErr = err

		if !platformerr.IsRetryable(err) {
			return r.deadLetter(ctx, raw, &event, err.Error(), attempt)
		}

		if attempt == maxAttempts {
			break
		}

		platformmetrics.RecordsRetriedTotal.WithLabelValues(r.ConsumerName).Inc()
		r.Logger.Warnf("worker: retrying event %s attempt %d/%d after transient error: %v", event.Envelope.EventID, attempt, maxAttempts, err)

		if sleepErr := r.Sleep(ctx, r.Retry.Delay(attempt)); sleepErr != nil {
			return sleepErr
		}
	}

	return r.deadLetter(ctx, raw, &event, lastErr.Error(), maxAttempts)
}

func (r *Runtime) commitSuccess(ctx context.Context, event eventlog.EnrichedEvent) error {
	entry := LedgerEntry{
		EventID:       event.Envelope.EventID,
		CorrelationID: event.Envelope.CorrelationID,
		EventType:     event.Topic,
		ConsumerName:  r.ConsumerName,
		PayloadDigest: PayloadDigest(event.RawPayload()),
		ProcessedAt:   r.Now(),
	}

	if err := r.Ledger.MarkProcessed(ctx, entry); err != nil {
		return platformerr.TransientDependencyError{Dependency: "idempotency-ledger", Cause: err}
	}

	platformmetrics.RecordsProcessedTotal.WithLabelValues(r.ConsumerName, "success").Inc()

	return nil
}

func (r *Runtime) deadLetter(ctx context.Context, raw eventlog.RawRecord, event *eventlog.EnrichedEvent, reason string, attempts int) error {
	record := DeadLetterRecord{
		OriginalTopic:     raw.Topic,
		OriginalPartition: raw.Partition,
		OriginalOffset:    raw.Offset,
		OriginalKey:       raw.Key,
		OriginalValue:     raw.Value,
		ConsumerName:      r.ConsumerName,
		FailureReason:     reason,
		AttemptCount:      attempts,
		FailedAt:          r.Now(),
	}

	if event != nil {
		record.EventID = event.Envelope.EventID
		record.CorrelationID = event.Envelope.CorrelationID
	}

	if err := r.DeadLetter.PublishDeadLetter(ctx, record); err != nil {
		r.Logger.Errorf("worker: failed to publish dead letter for event %s: %v", record.EventID, err)
		return platformerr.TransientDependencyError{Dependency: "dead-letter-queue", Cause: err}
	}

	platformmetrics.RecordsDeadLetteredTotal.WithLabelValues(r.ConsumerName).Inc()
	platformmetrics.RecordsProcessedTotal.WithLabelValues(r.ConsumerName, "dead_letter").Inc()
	r.Logger.Warnf("worker: dead-lettered event %s after %d attempt(s): %s", record.EventID, attempts, reason)

	if event == nil {
		// No eventId to key a ledger row on (the record failed to decode at all); the
		// dead-letter publish is itself the terminal action, so commit the offset.
		return nil
	}

	return r.commitSuccess(ctx, *event)
}
