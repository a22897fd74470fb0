// Package realtime implements the C4 fanout plane: a Redis-backed connection registry, a
// per-instance in-memory socket hub, and a dispatcher that reads the business-events Pub/Sub
// channel and emits to local sockets per the visibility filter (spec §4.4).
package realtime

import "time"

// Role mirrors the three user roles the platform authenticates.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
	RoleTrainer Role = "trainer"
)

// BusinessEvent is the decoded shape of a frame read off the business-events channel. Fields
// beyond Type are optional per event type; zero values mean "not present" for that event.
type BusinessEvent struct {
	Type                string         `json:"type"`
	UserID              string         `json:"userId,omitempty"`
	StudentID           string         `json:"studentId,omitempty"`
	TrainerID           string         `json:"trainerId,omitempty"`
	OriginalTrainerID   string         `json:"originalTrainerId,omitempty"`
	SubstituteTrainerID string         `json:"substituteTrainerId,omitempty"`
	Payload             map[string]any `json:"payload,omitempty"`
	ProducedAt          time.Time      `json:"producedAt,omitempty"`
}

const eventTypeSessionSubstituted = "SESSION_SUBSTITUTED"

// RecipientUserIDs derives the fixed recipient set for e (spec §4.4 dispatch step 2): for most
// events {userId, studentId, trainerId}; for SESSION_SUBSTITUTED, also the two trainer ids
// involved in the substitution. Empty and duplicate ids are dropped.
func RecipientUserIDs(e BusinessEvent) []string {
	seen := make(map[string]struct{}, 4)
	var out []string

	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	add(e.UserID)
	add(e.StudentID)
	add(e.TrainerID)

	if e.Type == eventTypeSessionSubstituted {
		add(e.OriginalTrainerID)
		add(e.SubstituteTrainerID)
	}

	return out
}

// ShouldReceive applies the per-socket visibility filter (spec §4.4 dispatch step 4): admins see
// everything, students see events about themselves, trainers see events naming them directly or,
// for a substitution, either trainer side.
func ShouldReceive(e BusinessEvent, userID string, role Role) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleStudent:
		return e.StudentID == userID
	case RoleTrainer:
		if e.Type == eventTypeSessionSubstituted {
			return e.OriginalTrainerID == userID || e.SubstituteTrainerID == userID
		}
		return e.TrainerID == userID
	default:
		return false
	}
}
