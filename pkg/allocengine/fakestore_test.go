package allocengine

import (
	"context"
	"time"

	"github.com/brightpath/platform/pkg/platformerr"
)

type fakeStore struct {
	allocations []Allocation
	sessions    []Session
	trainers    []Trainer
	workload    map[string]int
	slots       map[string]bool
	dailyCounts map[string]int // key: trainerID + date
}

func newFakeStore(trainers []Trainer) *fakeStore {
	return &fakeStore{
		trainers:    trainers,
		workload:    map[string]int{},
		slots:       map[string]bool{},
		dailyCounts: map[string]int{},
	}
}

func (s *fakeStore) FindActiveAllocation(ctx context.Context, studentID, courseID string) (*Allocation, error) {
	for i := range s.allocations {
		a := s.allocations[i]
		if a.StudentID == studentID && a.CourseID == courseID && (a.Status == AllocationApproved || a.Status == AllocationActive) {
			return &a, nil
		}
	}

	return nil, nil
}

func (s *fakeStore) CreateAllocation(ctx context.Context, allocation Allocation) error {
	if allocation.Status == AllocationApproved || allocation.Status == AllocationActive {
		existing, _ := s.FindActiveAllocation(ctx, allocation.StudentID, allocation.CourseID)
		if existing != nil {
			return platformerr.UniquenessConflict{Constraint: "allocations_student_course_active"}
		}
	}

	s.allocations = append(s.allocations, allocation)
	return nil
}

func (s *fakeStore) CreateSessions(ctx context.Context, sessions []Session) error {
	s.sessions = append(s.sessions, sessions...)
	return nil
}

func (s *fakeStore) EligibleTrainers(ctx context.Context, course Course) ([]Trainer, error) {
	return s.trainers, nil
}

func (s *fakeStore) CountTrainerSessionsOnDate(ctx context.Context, trainerID string, date time.Time) (int, error) {
	return s.dailyCounts[trainerID+date.Format("2006-01-02")], nil
}

func (s *fakeStore) CountActiveWorkload(ctx context.Context, trainerID string) (int, error) {
	return s.workload[trainerID], nil
}

func (s *fakeStore) HasSlotAvailable(ctx context.Context, trainerID, slot string) (bool, error) {
	if slot == "" {
		return false, nil
	}

	return s.slots[trainerID+slot], nil
}

type fakeCourses struct {
	courses map[string]Course
}

func (c *fakeCourses) GetCourse(ctx context.Context, courseID string) (Course, error) {
	return c.courses[courseID], nil
}

type fakeStudents struct {
	students map[string]Student
}

func (d *fakeStudents) GetStudent(ctx context.Context, studentID string) (Student, error) {
	return d.students[studentID], nil
}

type fakeRealtime struct {
	published []string
	failNext  bool
}

func (f *fakeRealtime) PublishBusinessEvent(ctx context.Context, eventType string, payload any) error {
	if f.failNext {
		f.failNext = false
		return platformerr.TransientDependencyError{Dependency: "realtime"}
	}

	f.published = append(f.published, eventType)
	return nil
}
