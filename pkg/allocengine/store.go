package allocengine

import (
	"context"
	"time"
)

//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/store_mock.go -package=mocks

// Store is the relational persistence boundary the engine depends on, mirroring the teacher's
// per-entity Repository interfaces (e.g. asset.Repository) scoped to what allocation and session
// creation need.
type Store interface {
	// FindActiveAllocation returns the allocation with status in {approved, active} for
	// (studentID, courseID), or nil if none exists.
	FindActiveAllocation(ctx context.Context, studentID, courseID string) (*Allocation, error)

	// CreateAllocation inserts allocation. Implementations return platformerr.UniquenessConflict
	// when the (studentId, courseId) active-status unique index rejects the insert.
	CreateAllocation(ctx context.Context, allocation Allocation) error

	// CreateSessions inserts sessions for an allocation in one batch.
	CreateSessions(ctx context.Context, sessions []Session) error

	// EligibleTrainers returns approved trainers whose specialties satisfy course, before the
	// capacity and geography filters are applied.
	EligibleTrainers(ctx context.Context, course Course) ([]Trainer, error)

	// CountTrainerSessionsOnDate returns how many sessions a trainer already has scheduled on
	// date, for the daily capacity hard filter.
	CountTrainerSessionsOnDate(ctx context.Context, trainerID string, date time.Time) (int, error)

	// CountActiveWorkload returns a trainer's current active allocation count, for the inverse
	// load soft-scoring factor.
	CountActiveWorkload(ctx context.Context, trainerID string) (int, error)

	// HasSlotAvailable reports whether trainerID has availability in the requested time slot, for
	// the slot-preference soft-scoring factor. An empty slot always returns false (no preference
	// to satisfy).
	HasSlotAvailable(ctx context.Context, trainerID, slot string) (bool, error)
}

// CourseCatalog resolves course metadata the engine needs but does not own (course content is an
// external collaborator per spec §1 non-goals).
type CourseCatalog interface {
	GetCourse(ctx context.Context, courseID string) (Course, error)
}

// StudentDirectory resolves student metadata the engine needs but does not own.
type StudentDirectory interface {
	GetStudent(ctx context.Context, studentID string) (Student, error)
}
