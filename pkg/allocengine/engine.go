package allocengine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/brightpath/platform/pkg/eventlog"
	"github.com/brightpath/platform/pkg/platformerr"
	"github.com/brightpath/platform/pkg/platformlog"
	"github.com/brightpath/platform/pkg/platformmetrics"
)

// RealtimePublisher is the best-effort fanout sink the engine notifies after a successful
// allocation. Its failures never fail the handler (spec §4.3 contract item 5).
type RealtimePublisher interface {
	PublishBusinessEvent(ctx context.Context, eventType string, payload any) error
}

// Engine implements the C3 allocation algorithm as a worker.BusinessHandler.
type Engine struct {
	Store    Store
	Courses  CourseCatalog
	Students StudentDirectory
	Events   eventlog.Publisher
	Realtime RealtimePublisher
	Weights  Weights
	Logger   platformlog.Logger
	Now      func() time.Time
	NewID    func() string
}

// New returns an Engine with default weights, clock and id generator.
func New(store Store, courses CourseCatalog, students StudentDirectory, events eventlog.Publisher, realtime RealtimePublisher) *Engine {
	return &Engine{
		Store:    store,
		Courses:  courses,
		Students: students,
		Events:   events,
		Realtime: realtime,
		Weights:  DefaultWeights(),
		Logger:   platformlog.NewNop(),
		Now:      time.Now,
		NewID:    func() string { return uuid.NewString() },
	}
}

// Handle implements worker.BusinessHandler for PURCHASE_CREATED events.
func (e *Engine) Handle(ctx context.Context, event eventlog.EnrichedEvent) error {
	var payload PurchaseCreatedPayload
	if err := event.Decode(&payload); err != nil {
		return platformerr.InvalidEvent{Reason: "malformed PURCHASE_CREATED payload: " + err.Error()}
	}

	if payload.StudentID == "" || payload.CourseID == "" || payload.PurchaseTier <= 0 {
		return platformerr.InvalidEvent{Reason: "purchase event missing studentId, courseId or purchaseTier"}
	}

	// Recovery path (spec §4.3): an existing active allocation for this (student, course) means
	// either a genuine duplicate delivery or the ledger-says-processed-but-row-missing case
	// already resolved itself; either way short-circuit.
	existing, err := e.Store.FindActiveAllocation(ctx, payload.StudentID, payload.CourseID)
	if err != nil {
		return platformerr.TransientDependencyError{Dependency: "allocation-store", Cause: err}
	}

	if existing != nil {
		e.Logger.Debugf("allocation already active for student=%s course=%s, skipping", payload.StudentID, payload.CourseID)
		return nil
	}

	return e.allocate(ctx, payload, event.Envelope.CorrelationID)
}

func (e *Engine) allocate(ctx context.Context, payload PurchaseCreatedPayload, correlationID string) error {
	course, err := e.Courses.GetCourse(ctx, payload.CourseID)
	if err != nil {
		return platformerr.TransientDependencyError{Dependency: "course-catalog", Cause: err}
	}

	student, err := e.Students.GetStudent(ctx, payload.StudentID)
	if err != nil {
		return platformerr.TransientDependencyError{Dependency: "student-directory", Cause: err}
	}

	startDate := ResolveStartDate(payload.Metadata, e.Now())
	dates := GenerateSessionDates(payload.PurchaseTier, startDate)

	trainer, ok, err := e.SelectTrainer(ctx, student, course, dates, payload.Metadata.PreferredSlot)
	if err != nil {
		return platformerr.TransientDependencyError{Dependency: "allocation-store", Cause: err}
	}

	allocationID := e.NewID()
	now := e.Now()

	if !ok {
		allocation := Allocation{
			ID:        allocationID,
			StudentID: payload.StudentID,
			CourseID:  payload.CourseID,
			Status:    AllocationPending,
			Metadata:  map[string]any{"reason": "no eligible trainer"},
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := e.createAllocation(ctx, allocation); err != nil {
			return err
		}

		return e.emitOutcome(ctx, allocation, correlationID, nil)
	}

	allocation := Allocation{
		ID:        allocationID,
		StudentID: payload.StudentID,
		CourseID:  payload.CourseID,
		TrainerID: trainer.ID,
		Status:    AllocationApproved,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := e.createAllocation(ctx, allocation); err != nil {
		return err
	}

	sessions := BuildSessions(allocation.ID, payload.StudentID, trainer.ID, payload.PurchaseTier, payload.Metadata.Mode, dates)
	if err := e.Store.CreateSessions(ctx, sessions); err != nil {
		return platformerr.TransientDependencyError{Dependency: "allocation-store", Cause: err}
	}

	if err := e.emitOutcome(ctx, allocation, correlationID, sessions); err != nil {
		return err
	}

	return nil
}

// createAllocation inserts allocation, treating a uniqueness conflict as success per spec §4.3.
func (e *Engine) createAllocation(ctx context.Context, allocation Allocation) error {
	err := e.Store.CreateAllocation(ctx, allocation)
	if err == nil {
		return nil
	}

	switch err.(type) {
	case platformerr.UniquenessConflict, *platformerr.UniquenessConflict:
		return nil
	default:
		return platformerr.TransientDependencyError{Dependency: "allocation-store", Cause: err}
	}
}

func (e *Engine) emitOutcome(ctx context.Context, allocation Allocation, correlationID string, sessions []Session) error {
	status := string(allocation.Status)

	platformmetrics.AllocationOutcomesTotal.WithLabelValues(status).Inc()

	trainerPayload := TrainerAllocatedPayload{
		AllocationID: allocation.ID,
		StudentID:    allocation.StudentID,
		CourseID:     allocation.CourseID,
		TrainerID:    allocation.TrainerID,
		Status:       status,
	}

	if allocation.Status == AllocationPending {
		if reason, ok := allocation.Metadata["reason"].(string); ok {
			trainerPayload.Reason = reason
		}
	}

	envelope := eventlog.Envelope{
		EventID:       allocation.ID,
		CorrelationID: correlationID,
		Source:        "allocation-engine",
		Version:       "1.0.0",
		ProducedAt:    e.Now(),
	}

	if err := e.Events.Publish(ctx, eventlog.TopicTrainerAllocated, eventlog.JoinKey(allocation.StudentID, allocation.CourseID), trainerPayload, envelope); err != nil {
		return err
	}

	if len(sessions) > 0 {
		sessionIDs := make([]string, len(sessions))
		for i, s := range sessions {
			sessionIDs[i] = s.ID
		}

		sessionsEnvelope := eventlog.Envelope{
			EventID:       eventlog.DeriveEventID(eventlog.TopicSessionLifecycle, allocation.ID, "generated"),
			CorrelationID: correlationID,
			Source:        "allocation-engine",
			Version:       "1.0.0",
			ProducedAt:    e.Now(),
		}

		sessionsPayload := SessionsGeneratedPayload{AllocationID: allocation.ID, SessionIDs: sessionIDs}
		if err := e.Events.Publish(ctx, eventlog.TopicSessionLifecycle, allocation.ID, sessionsPayload, sessionsEnvelope); err != nil {
			return err
		}
	}

	e.fanoutBestEffort(ctx, trainerPayload)

	return nil
}

// fanoutBestEffort notifies the realtime plane. Its failure is logged and swallowed, never
// failing the handler (spec §4.3 contract item 5, §7 "non-critical sidecar emits").
func (e *Engine) fanoutBestEffort(ctx context.Context, payload TrainerAllocatedPayload) {
	if e.Realtime == nil {
		return
	}

	if err := e.Realtime.PublishBusinessEvent(ctx, string(eventlog.EventTrainerAllocated), payload); err != nil {
		e.Logger.Warnf("allocation: realtime fanout failed for allocation %s: %v", payload.AllocationID, err)
	}
}
