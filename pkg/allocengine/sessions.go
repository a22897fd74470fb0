package allocengine

import (
	"crypto/sha1" //nolint:gosec // stable id derivation, not security-sensitive
	"encoding/hex"
	"time"
)

// maxDailyCapacity is the hard cap on students a trainer may be scheduled with on a single day
// (spec §4.3).
const maxDailyCapacity = 8

// hybridOnlineSessions and hybridOfflineSessions are the fixed split for a tier-30 HYBRID
// purchase (spec §4.3: "18 online / 12 offline").
const (
	hybridOnlineSessions  = 18
	hybridOfflineSessions = 12
	hybridLeadingOnline   = 6
)

// GenerateSessionDates returns the consecutive calendar dates (skipping Sundays) for a tier-N
// schedule starting at startDate, independent of which trainer is eventually chosen — the
// capacity hard filter needs these dates before trainer selection happens.
func GenerateSessionDates(tier int, startDate time.Time) []time.Time {
	dates := make([]time.Time, 0, tier)

	d := normalizeDate(startDate)
	for len(dates) < tier {
		if d.Weekday() != time.Sunday {
			dates = append(dates, d)
		}

		d = d.AddDate(0, 0, 1)
	}

	return dates
}

func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ResolveStartDate returns metadata's preferred start date, or tomorrow if absent (spec §4.3).
func ResolveStartDate(metadata PurchaseMetadata, now time.Time) time.Time {
	if metadata.PreferredStartAt != nil {
		return normalizeDate(*metadata.PreferredStartAt)
	}

	return normalizeDate(now.AddDate(0, 0, 1))
}

// SessionTypeFor returns the session type for the sessionNumber-th session (1-indexed) of a
// tier-session schedule. Only a tier-30 HYBRID schedule produces a mix; every other
// tier/mode combination is uniformly online or offline per metadata.Mode.
func SessionTypeFor(tier int, mode ScheduleMode, sessionNumber int) SessionType {
	if tier != 30 || mode != ModeHybrid {
		if mode == ModeOffline {
			return SessionOffline
		}

		return SessionOnline
	}

	if sessionNumber <= hybridLeadingOnline {
		return SessionOnline
	}

	// After the 6 fixed leading online sessions, alternate online/offline for the remainder
	// until the fixed 18-online/12-offline split is reached. Remaining sessions after the lead
	// is tier(30) - hybridLeadingOnline(6) = 24, split evenly online/offline in that tail.
	remainingOnlineBudget := hybridOnlineSessions - hybridLeadingOnline
	posInTail := sessionNumber - hybridLeadingOnline // 1-indexed within the tail

	// Alternate starting with online: odd positions online until the online budget is spent,
	// then the rest offline.
	onlineSoFar := (posInTail + 1) / 2
	if posInTail%2 == 1 && onlineSoFar <= remainingOnlineBudget {
		return SessionOnline
	}

	return SessionOffline
}

// DeriveSessionID returns a deterministic id for the sessionNumber-th session of allocationID, so
// re-running the allocation handler never produces duplicate session rows (spec §4.3, §8).
func DeriveSessionID(allocationID string, sessionNumber int) string {
	h := sha1.New() //nolint:gosec
	h.Write([]byte(allocationID))
	h.Write([]byte{0})
	h.Write([]byte{byte(sessionNumber), byte(sessionNumber >> 8)})

	return hex.EncodeToString(h.Sum(nil))
}

// BuildSessions constructs the Session rows for allocationID given its generated dates, trainer
// and purchase metadata.
func BuildSessions(allocationID, studentID, trainerID string, tier int, mode ScheduleMode, dates []time.Time) []Session {
	sessions := make([]Session, 0, len(dates))

	for i, d := range dates {
		sessionNumber := i + 1

		sessions = append(sessions, Session{
			ID:            DeriveSessionID(allocationID, sessionNumber),
			AllocationID:  allocationID,
			StudentID:     studentID,
			TrainerID:     trainerID,
			ScheduledDate: d,
			Status:        SessionScheduled,
			SessionType:   SessionTypeFor(tier, mode, sessionNumber),
			SessionNumber: sessionNumber,
		})
	}

	return sessions
}
