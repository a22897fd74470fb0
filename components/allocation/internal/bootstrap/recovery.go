package bootstrap

import (
	"context"

	"github.com/brightpath/platform/pkg/allocengine"
	"github.com/brightpath/platform/pkg/eventlog"
)

// verifyAllocationStillDone implements worker.Runtime.VerifyStillDone for the allocation
// consumer: a ledger hit only really means "done" if an active allocation exists for the event's
// (studentId, courseId), closing the gap where the ledger row was written but the allocation
// insert was rolled back by something outside the handler's transaction boundary.
func verifyAllocationStillDone(store allocengine.Store) func(context.Context, eventlog.EnrichedEvent) (bool, error) {
	return func(ctx context.Context, event eventlog.EnrichedEvent) (bool, error) {
		var payload allocengine.PurchaseCreatedPayload
		if err := event.Decode(&payload); err != nil {
			// Can't re-derive the key; trust the ledger rather than fail hard here.
			return true, nil
		}

		existing, err := store.FindActiveAllocation(ctx, payload.StudentID, payload.CourseID)
		if err != nil {
			return false, err
		}

		return existing != nil, nil
	}
}
