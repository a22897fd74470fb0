package allocengine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectTrainer_FiltersBySpecialtyApprovalAndGeography(t *testing.T) {
	student := Student{ID: "S1", Home: Location{Lat: 12.9716, Lng: 77.5946}, Zone: ZoneUrban}
	course := Course{ID: "C1", Specialties: []string{"yoga"}}

	far := Trainer{ID: "far", Specialties: []string{"yoga"}, ApprovalStatus: "approved", Base: Location{Lat: 19.0760, Lng: 72.8777}}
	wrongSpecialty := Trainer{ID: "wrong-specialty", Specialties: []string{"zumba"}, ApprovalStatus: "approved", Base: student.Home}
	notApproved := Trainer{ID: "not-approved", Specialties: []string{"yoga"}, ApprovalStatus: "pending", Base: student.Home}
	eligible := Trainer{ID: "eligible", Specialties: []string{"yoga"}, ApprovalStatus: "approved", Base: student.Home, ApprovedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}

	store := newFakeStore([]Trainer{far, wrongSpecialty, notApproved, eligible})
	engine := New(store, &fakeCourses{}, &fakeStudents{}, nil, nil)

	dates := GenerateSessionDates(5, time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC))

	trainer, ok, err := engine.SelectTrainer(context.Background(), student, course, dates, "")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "eligible", trainer.ID)
}

func TestSelectTrainer_ExcludesTrainersAtDailyCapacity(t *testing.T) {
	student := Student{ID: "S1", Zone: ZoneUrban}
	course := Course{ID: "C1"}

	saturated := Trainer{ID: "saturated", ApprovalStatus: "approved"}
	available := Trainer{ID: "available", ApprovalStatus: "approved"}

	store := newFakeStore([]Trainer{saturated, available})
	dates := GenerateSessionDates(1, time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC))
	store.dailyCounts["saturated"+dates[0].Format("2006-01-02")] = maxDailyCapacity

	engine := New(store, &fakeCourses{}, &fakeStudents{}, nil, nil)

	trainer, ok, err := engine.SelectTrainer(context.Background(), student, course, dates, "")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "available", trainer.ID)
}

func TestSelectTrainer_NoSurvivorsReturnsNotOK(t *testing.T) {
	student := Student{ID: "S1", Zone: ZoneUrban}
	course := Course{ID: "C1"}

	store := newFakeStore(nil)
	engine := New(store, &fakeCourses{}, &fakeStudents{}, nil, nil)

	dates := GenerateSessionDates(1, time.Now())
	_, ok, err := engine.SelectTrainer(context.Background(), student, course, dates, "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSelectTrainer_PrefersHigherScoreThenEarliestApproved(t *testing.T) {
	student := Student{ID: "S1", Zone: ZoneUrban, GenderPreference: "female"}
	course := Course{ID: "C1"}

	matchesGender := Trainer{ID: "gender-match", ApprovalStatus: "approved", Gender: "female", ApprovedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	noMatch := Trainer{ID: "no-match", ApprovalStatus: "approved", Gender: "male", ApprovedAt: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}

	store := newFakeStore([]Trainer{noMatch, matchesGender})
	engine := New(store, &fakeCourses{}, &fakeStudents{}, nil, nil)

	dates := GenerateSessionDates(1, time.Now())
	trainer, ok, err := engine.SelectTrainer(context.Background(), student, course, dates, "")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "gender-match", trainer.ID)
}

func TestSelectTrainer_TieBreaksByEarliestApproved(t *testing.T) {
	student := Student{ID: "S1", Zone: ZoneUrban}
	course := Course{ID: "C1"}

	earlier := Trainer{ID: "earlier", ApprovalStatus: "approved", ApprovedAt: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
	later := Trainer{ID: "later", ApprovalStatus: "approved", ApprovedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	store := newFakeStore([]Trainer{later, earlier})
	engine := New(store, &fakeCourses{}, &fakeStudents{}, nil, nil)

	dates := GenerateSessionDates(1, time.Now())
	trainer, ok, err := engine.SelectTrainer(context.Background(), student, course, dates, "")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "earlier", trainer.ID)
}
