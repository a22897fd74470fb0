package allocengine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath/platform/pkg/eventlog"
	"github.com/brightpath/platform/pkg/worker"
)

func newTestEngine(trainers []Trainer, log *eventlog.MemoryLog, realtime RealtimePublisher) *Engine {
	store := newFakeStore(trainers)
	courses := &fakeCourses{courses: map[string]Course{"C": {ID: "C"}}}
	students := &fakeStudents{students: map[string]Student{"S": {ID: "S", Zone: ZoneUrban}}}

	engine := New(store, courses, students, log, realtime)
	engine.Now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	counter := 0
	engine.NewID = func() string {
		counter++
		return "alloc-" + string(rune('0'+counter))
	}

	return engine
}

func purchaseRaw(t *testing.T, eventID string) eventlog.RawRecord {
	t.Helper()

	payload := PurchaseCreatedPayload{StudentID: "S", CourseID: "C", PurchaseTier: 10}
	value, err := eventlog.Encode(payload, eventlog.Envelope{EventID: eventID, CorrelationID: "corr-1"})
	require.NoError(t, err)

	return eventlog.RawRecord{Topic: eventlog.TopicPurchaseCreated, Key: []byte("S.C"), Value: value}
}

// Scenario 1 (spec §8): delivered twice, exactly one allocation exists, exactly one
// TRAINER_ALLOCATED is published, and the ledger has exactly one row.
func TestEngine_DuplicateDeliveryConvergesToOneAllocation(t *testing.T) {
	trainer := Trainer{ID: "T1", ApprovalStatus: "approved"}
	log := eventlog.NewMemoryLog()
	engine := newTestEngine([]Trainer{trainer}, log, nil)

	ledger := worker.NewMemoryLedger()
	runtime := worker.New("allocation-worker", ledger, &worker.EventLogDeadLetterPublisher{Publisher: log, Source: "allocation-worker"})
	runtime.Sleep = func(ctx context.Context, d time.Duration) error { return nil }
	wrapped := runtime.Wrap(engine.Handle)

	raw := purchaseRaw(t, "p1")

	require.NoError(t, wrapped(context.Background(), raw))
	require.NoError(t, wrapped(context.Background(), raw))

	store := engine.Store.(*fakeStore)
	assert.Len(t, store.allocations, 1)
	assert.Len(t, ledger.Entries(), 1)

	published := log.Published()
	trainerAllocatedCount := 0
	for _, p := range published {
		if p.Topic == eventlog.TopicTrainerAllocated {
			trainerAllocatedCount++
		}
	}
	assert.Equal(t, 1, trainerAllocatedCount)
}

// Scenario 2 (spec §8): no eligible trainer yields a pending allocation with a reason, no
// sessions, and no TRAINER_ALLOCATED with a trainer id.
func TestEngine_NoEligibleTrainerCreatesPendingAllocation(t *testing.T) {
	log := eventlog.NewMemoryLog()
	engine := newTestEngine(nil, log, nil)

	err := engine.Handle(context.Background(), decode(t, purchaseRaw(t, "p2")))
	require.NoError(t, err)

	store := engine.Store.(*fakeStore)
	require.Len(t, store.allocations, 1)
	assert.Equal(t, AllocationPending, store.allocations[0].Status)
	assert.Equal(t, "no eligible trainer", store.allocations[0].Metadata["reason"])
	assert.Empty(t, store.sessions)

	published := log.Published()
	require.Len(t, published, 1)
	payload := published[0].Payload.(TrainerAllocatedPayload)
	assert.Empty(t, payload.TrainerID)
}

// Scenario 3 (spec §8): ledger already has the row but the allocation is missing; the recovery
// path re-creates it and reaches the same state as scenario 1.
func TestEngine_RecoversWhenLedgerProcessedButAllocationMissing(t *testing.T) {
	trainer := Trainer{ID: "T1", ApprovalStatus: "approved"}
	log := eventlog.NewMemoryLog()
	engine := newTestEngine([]Trainer{trainer}, log, nil)

	ledger := worker.NewMemoryLedger()
	require.NoError(t, ledger.MarkProcessed(context.Background(), worker.LedgerEntry{EventID: "p3", ConsumerName: "allocation-worker"}))

	runtime := worker.New("allocation-worker", ledger, &worker.EventLogDeadLetterPublisher{Publisher: log, Source: "allocation-worker"})
	runtime.Sleep = func(ctx context.Context, d time.Duration) error { return nil }
	runtime.VerifyStillDone = func(ctx context.Context, event eventlog.EnrichedEvent) (bool, error) {
		var payload PurchaseCreatedPayload
		if err := event.Decode(&payload); err != nil {
			return false, err
		}

		existing, err := engine.Store.FindActiveAllocation(ctx, payload.StudentID, payload.CourseID)
		return existing != nil, err
	}
	wrapped := runtime.Wrap(engine.Handle)

	require.NoError(t, wrapped(context.Background(), purchaseRaw(t, "p3")))

	store := engine.Store.(*fakeStore)
	require.Len(t, store.allocations, 1)
	assert.Equal(t, AllocationApproved, store.allocations[0].Status)
}

func TestEngine_RealtimeFanoutFailureDoesNotFailHandler(t *testing.T) {
	trainer := Trainer{ID: "T1", ApprovalStatus: "approved"}
	log := eventlog.NewMemoryLog()
	realtime := &fakeRealtime{failNext: true}
	engine := newTestEngine([]Trainer{trainer}, log, realtime)

	err := engine.Handle(context.Background(), decode(t, purchaseRaw(t, "p4")))
	require.NoError(t, err)
}

func decode(t *testing.T, raw eventlog.RawRecord) eventlog.EnrichedEvent {
	t.Helper()

	event, err := eventlog.DecodeWire(raw)
	require.NoError(t, err)

	return event
}
