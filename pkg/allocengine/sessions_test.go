package allocengine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSessionDates_SkipsSundays(t *testing.T) {
	// 2026-02-01 is a Sunday.
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	dates := GenerateSessionDates(3, start)

	require := assert.New(t)
	require.Len(dates, 3)

	for _, d := range dates {
		require.NotEqual(time.Sunday, d.Weekday())
	}
}

func TestResolveStartDate_DefaultsToTomorrow(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	got := ResolveStartDate(PurchaseMetadata{}, now)
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), got)
}

func TestResolveStartDate_UsesPreferredWhenSet(t *testing.T) {
	preferred := time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)

	got := ResolveStartDate(PurchaseMetadata{PreferredStartAt: &preferred}, time.Now())
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestSessionTypeFor_NonHybridIsUniform(t *testing.T) {
	for i := 1; i <= 10; i++ {
		assert.Equal(t, SessionOnline, SessionTypeFor(10, ModeOnline, i))
		assert.Equal(t, SessionOffline, SessionTypeFor(10, ModeOffline, i))
	}
}

func TestSessionTypeFor_Tier30HybridProducesExactSplit(t *testing.T) {
	online, offline := 0, 0

	for i := 1; i <= 30; i++ {
		if SessionTypeFor(30, ModeHybrid, i) == SessionOnline {
			online++
		} else {
			offline++
		}
	}

	assert.Equal(t, hybridOnlineSessions, online)
	assert.Equal(t, hybridOfflineSessions, offline)
}

func TestSessionTypeFor_Tier30HybridFirstSixAreOnline(t *testing.T) {
	for i := 1; i <= hybridLeadingOnline; i++ {
		assert.Equal(t, SessionOnline, SessionTypeFor(30, ModeHybrid, i))
	}
}

func TestDeriveSessionID_IsDeterministic(t *testing.T) {
	id1 := DeriveSessionID("alloc-1", 3)
	id2 := DeriveSessionID("alloc-1", 3)
	id3 := DeriveSessionID("alloc-1", 4)

	assert.Equal(t, id1, id2)
	assert.NotEqual(t, id1, id3)
}

func TestBuildSessions_ProducesOneSessionPerDate(t *testing.T) {
	dates := GenerateSessionDates(5, time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC))
	sessions := BuildSessions("alloc-1", "S1", "T1", 5, ModeOnline, dates)

	assert.Len(t, sessions, 5)

	for i, s := range sessions {
		assert.Equal(t, i+1, s.SessionNumber)
		assert.Equal(t, SessionScheduled, s.Status)
	}
}
