package allocengine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/brightpath/platform/pkg/allocengine/mocks"
	"github.com/brightpath/platform/pkg/eventlog"
	"github.com/brightpath/platform/pkg/platformerr"
)

// TestEngine_CourseCatalogFailureIsTransient exercises the generated mocks against the engine's
// collaborator boundary: a failing CourseCatalog must surface as a TransientDependencyError
// naming "course-catalog" (spec §4.2's dependency-failure-is-retryable contract), not the raw
// collaborator error.
func TestEngine_CourseCatalogFailureIsTransient(t *testing.T) {
	ctrl := gomock.NewController(t)

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().
		FindActiveAllocation(gomock.Any(), "S", "C").
		Return(nil, nil)

	courses := mocks.NewMockCourseCatalog(ctrl)
	courses.EXPECT().
		GetCourse(gomock.Any(), "C").
		Return(Course{}, errors.New("catalog unreachable"))

	students := mocks.NewMockStudentDirectory(ctrl)

	engine := New(store, courses, students, eventlog.NewMemoryLog(), nil)
	engine.Now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	event := decodedPurchaseEvent(t, "p1")

	err := engine.Handle(context.Background(), event)
	require.Error(t, err)

	var transientErr platformerr.TransientDependencyError
	require.True(t, errors.As(err, &transientErr))
	assert.Equal(t, "course-catalog", transientErr.Dependency)
}

// TestEngine_StudentDirectoryFailureIsTransient mirrors the course-catalog case for the student
// collaborator, confirming the mock expectations on Store carry over when GetCourse succeeds but
// GetStudent does not.
func TestEngine_StudentDirectoryFailureIsTransient(t *testing.T) {
	ctrl := gomock.NewController(t)

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().
		FindActiveAllocation(gomock.Any(), "S", "C").
		Return(nil, nil)

	courses := mocks.NewMockCourseCatalog(ctrl)
	courses.EXPECT().
		GetCourse(gomock.Any(), "C").
		Return(Course{ID: "C"}, nil)

	students := mocks.NewMockStudentDirectory(ctrl)
	students.EXPECT().
		GetStudent(gomock.Any(), "S").
		Return(Student{}, errors.New("directory timeout"))

	engine := New(store, courses, students, eventlog.NewMemoryLog(), nil)
	engine.Now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	event := decodedPurchaseEvent(t, "p2")

	err := engine.Handle(context.Background(), event)
	require.Error(t, err)

	var transientErr platformerr.TransientDependencyError
	require.True(t, errors.As(err, &transientErr))
	assert.Equal(t, "student-directory", transientErr.Dependency)
}

func decodedPurchaseEvent(t *testing.T, eventID string) eventlog.EnrichedEvent {
	t.Helper()

	payload := PurchaseCreatedPayload{StudentID: "S", CourseID: "C", PurchaseTier: 10}
	value, err := eventlog.Encode(payload, eventlog.Envelope{EventID: eventID, CorrelationID: "corr-1"})
	require.NoError(t, err)

	raw := eventlog.RawRecord{Topic: eventlog.TopicPurchaseCreated, Key: []byte("S.C"), Value: value}

	event, err := eventlog.DecodeWire(raw)
	require.NoError(t, err)

	return event
}
