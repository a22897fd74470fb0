package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath/platform/pkg/eventlog"
	"github.com/brightpath/platform/pkg/platformerr"
)

func noSleep(ctx context.Context, d time.Duration) error { return nil }

func fixedNow() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

func testRuntime(ledger Ledger, dlq DeadLetterPublisher) *Runtime {
	r := New("allocation-worker", ledger, dlq)
	r.Sleep = noSleep
	r.Now = fixedNow
	r.Retry = r.Retry.WithMaxAttempts(3)

	return r
}

func encodeRaw(t *testing.T, eventID string) eventlog.RawRecord {
	t.Helper()

	value, err := eventlog.Encode(map[string]string{"studentId": "S1"}, eventlog.Envelope{EventID: eventID})
	require.NoError(t, err)

	return eventlog.RawRecord{Topic: eventlog.TopicPurchaseCreated, Key: []byte("S1.C1"), Value: value}
}

func TestRuntime_DuplicateDeliveryRunsHandlerOnce(t *testing.T) {
	ledger := NewMemoryLedger()

	calls := 0
	handler := func(ctx context.Context, event eventlog.EnrichedEvent) error {
		calls++
		return nil
	}

	runtime := testRuntime(ledger, &stubDeadLetter{})
	wrapped := runtime.Wrap(handler)

	raw := encodeRaw(t, "evt-1")

	require.NoError(t, wrapped(context.Background(), raw))
	require.NoError(t, wrapped(context.Background(), raw))

	assert.Equal(t, 1, calls, "handler must run exactly once across duplicate deliveries")
	assert.Len(t, ledger.Entries(), 1)
}

func TestRuntime_TransientFailureRetriesThenSucceeds(t *testing.T) {
	ledger := NewMemoryLedger()
	attempts := 0
	handler := func(ctx context.Context, event eventlog.EnrichedEvent) error {
		attempts++
		if attempts < 3 {
			return platformerr.TransientDependencyError{Dependency: "allocation-store"}
		}
		return nil
	}

	runtime := testRuntime(ledger, &stubDeadLetter{})
	wrapped := runtime.Wrap(handler)

	require.NoError(t, wrapped(context.Background(), encodeRaw(t, "evt-2")))
	assert.Equal(t, 3, attempts)
	assert.Len(t, ledger.Entries(), 1)
}

func TestRuntime_ExhaustingRetriesDeadLettersExactlyOnce(t *testing.T) {
	ledger := NewMemoryLedger()
	attempts := 0
	handler := func(ctx context.Context, event eventlog.EnrichedEvent) error {
		attempts++
		return platformerr.TransientDependencyError{Dependency: "allocation-store"}
	}

	dlq := &stubDeadLetter{}
	runtime := testRuntime(ledger, dlq)
	wrapped := runtime.Wrap(handler)

	require.NoError(t, wrapped(context.Background(), encodeRaw(t, "evt-3")))

	assert.Equal(t, 3, attempts, "must stop at MaxAttempts")
	assert.Len(t, dlq.records, 1)
	assert.Equal(t, 3, dlq.records[0].AttemptCount)
	// Dead-lettering commits the offset by recording a ledger entry so a later redelivery of
	// the same eventId is a no-op rather than another dead-letter.
	assert.Len(t, ledger.Entries(), 1)
}

func TestRuntime_FatalErrorDeadLettersWithoutRetrying(t *testing.T) {
	ledger := NewMemoryLedger()
	attempts := 0
	handler := func(ctx context.Context, event eventlog.EnrichedEvent) error {
		attempts++
		return platformerr.InvalidEvent{Reason: "unknown schema version"}
	}

	dlq := &stubDeadLetter{}
	runtime := testRuntime(ledger, dlq)
	wrapped := runtime.Wrap(handler)

	require.NoError(t, wrapped(context.Background(), encodeRaw(t, "evt-4")))

	assert.Equal(t, 1, attempts)
	assert.Len(t, dlq.records, 1)
	assert.Equal(t, 1, dlq.records[0].AttemptCount)
}

func TestRuntime_UniquenessConflictIsTreatedAsSuccess(t *testing.T) {
	ledger := NewMemoryLedger()
	handler := func(ctx context.Context, event eventlog.EnrichedEvent) error {
		return platformerr.UniquenessConflict{Constraint: "allocations_student_course_active"}
	}

	dlq := &stubDeadLetter{}
	runtime := testRuntime(ledger, dlq)
	wrapped := runtime.Wrap(handler)

	require.NoError(t, wrapped(context.Background(), encodeRaw(t, "evt-5")))
	assert.Empty(t, dlq.records)
	assert.Len(t, ledger.Entries(), 1)
}

func TestRuntime_BusinessRuleViolationIsTreatedAsSuccess(t *testing.T) {
	ledger := NewMemoryLedger()
	handler := func(ctx context.Context, event eventlog.EnrichedEvent) error {
		return platformerr.BusinessRuleViolation{Rule: "no-eligible-trainer", Detail: "zone saturated"}
	}

	dlq := &stubDeadLetter{}
	runtime := testRuntime(ledger, dlq)
	wrapped := runtime.Wrap(handler)

	require.NoError(t, wrapped(context.Background(), encodeRaw(t, "evt-6")))
	assert.Empty(t, dlq.records)
	assert.Len(t, ledger.Entries(), 1)
}

func TestRuntime_UndecodableRecordDeadLettersWithoutLedgerEntry(t *testing.T) {
	ledger := NewMemoryLedger()
	dlq := &stubDeadLetter{}
	runtime := testRuntime(ledger, dlq)

	wrapped := runtime.Wrap(func(ctx context.Context, event eventlog.EnrichedEvent) error {
		t.Fatal("handler must not run for an undecodable record")
		return nil
	})

	raw := eventlog.RawRecord{Topic: eventlog.TopicPurchaseCreated, Value: []byte("not json")}
	require.NoError(t, wrapped(context.Background(), raw))

	assert.Len(t, dlq.records, 1)
	assert.Empty(t, ledger.Entries())
}

func TestRuntime_VerifyStillDoneRerunsWhenSideEffectMissing(t *testing.T) {
	ledger := NewMemoryLedger()
	require.NoError(t, ledger.MarkProcessed(context.Background(), LedgerEntry{EventID: "evt-7", ConsumerName: "allocation-worker"}))

	calls := 0
	handler := func(ctx context.Context, event eventlog.EnrichedEvent) error {
		calls++
		return nil
	}

	runtime := testRuntime(ledger, &stubDeadLetter{})
	runtime.VerifyStillDone = func(ctx context.Context, event eventlog.EnrichedEvent) (bool, error) {
		return false, nil
	}
	wrapped := runtime.Wrap(handler)

	require.NoError(t, wrapped(context.Background(), encodeRaw(t, "evt-7")))
	assert.Equal(t, 1, calls, "handler must re-run when VerifyStillDone reports the side effect is missing")
}

func TestRuntime_VerifyStillDoneSkipsWhenSideEffectPresent(t *testing.T) {
	ledger := NewMemoryLedger()
	require.NoError(t, ledger.MarkProcessed(context.Background(), LedgerEntry{EventID: "evt-8", ConsumerName: "allocation-worker"}))

	calls := 0
	handler := func(ctx context.Context, event eventlog.EnrichedEvent) error {
		calls++
		return nil
	}

	runtime := testRuntime(ledger, &stubDeadLetter{})
	runtime.VerifyStillDone = func(ctx context.Context, event eventlog.EnrichedEvent) (bool, error) {
		return true, nil
	}
	wrapped := runtime.Wrap(handler)

	require.NoError(t, wrapped(context.Background(), encodeRaw(t, "evt-8")))
	assert.Equal(t, 0, calls)
}

type stubDeadLetter struct {
	records []DeadLetterRecord
}

func (s *stubDeadLetter) PublishDeadLetter(ctx context.Context, record DeadLetterRecord) error {
	s.records = append(s.records, record)
	return nil
}
