// Package allocengine is the C3 Allocation Engine: on each purchase event it selects a trainer
// satisfying hard constraints and soft preferences, creates the allocation, and generates the
// session schedule for the purchased tier.
package allocengine

import "time"

// AllocationStatus is the closed set of allocation lifecycle states (spec §3).
type AllocationStatus string

const (
	AllocationPending   AllocationStatus = "pending"
	AllocationApproved  AllocationStatus = "approved"
	AllocationActive    AllocationStatus = "active"
	AllocationCancelled AllocationStatus = "cancelled"
	AllocationRejected  AllocationStatus = "rejected"
)

// SessionStatus is the lifecycle state of a generated session.
type SessionStatus string

const (
	SessionScheduled   SessionStatus = "scheduled"
	SessionInProgress  SessionStatus = "in_progress"
	SessionCompleted   SessionStatus = "completed"
	SessionRescheduled SessionStatus = "rescheduled"
	SessionCancelled   SessionStatus = "cancelled"
)

// SessionType distinguishes an online (non-bookable, fixed-time) session from an offline one
// requiring a trainer visit.
type SessionType string

const (
	SessionOnline  SessionType = "online"
	SessionOffline SessionType = "offline"
)

// ScheduleMode is the purchase-level delivery mode, taken from the purchase event's metadata.
type ScheduleMode string

const (
	ModeOnline  ScheduleMode = "ONLINE"
	ModeOffline ScheduleMode = "OFFLINE"
	ModeHybrid  ScheduleMode = "HYBRID"
)

// Zone is the urban density bucket that sets the geographic feasibility radius (spec §4.3).
type Zone string

const (
	ZoneUrban     Zone = "urban"
	ZoneMedium    Zone = "medium"
	ZonePeriphery Zone = "periphery"
)

// RadiusKM returns the feasibility radius for z, defaulting to the periphery's wider radius for
// an unrecognized zone rather than silently admitting zero candidates.
func (z Zone) RadiusKM() float64 {
	switch z {
	case ZoneUrban:
		return 3
	case ZoneMedium:
		return 4
	default:
		return 5
	}
}

// Location is a latitude/longitude pair used for the geographic feasibility filter.
type Location struct {
	Lat float64
	Lng float64
}

// Student is the slice of student data the engine's selection algorithm needs.
type Student struct {
	ID             string
	Home           Location
	Zone           Zone
	GenderPreference string
}

// Course is the slice of course data the engine's selection algorithm needs.
type Course struct {
	ID          string
	Specialties []string
}

// Trainer is the slice of trainer data the engine's selection algorithm needs.
type Trainer struct {
	ID             string
	Specialties    []string
	ApprovalStatus string
	Base           Location
	Gender         string
	ApprovedAt     time.Time
}

// Allocation binds a student and course to at most one trainer (spec §3).
type Allocation struct {
	ID        string
	StudentID string
	CourseID  string
	TrainerID string
	Status    AllocationStatus
	Metadata  map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Session is one scheduled meeting between a student and a trainer, generated by the engine for
// an allocation.
type Session struct {
	ID            string
	AllocationID  string
	StudentID     string
	TrainerID     string
	ScheduledDate time.Time
	Status        SessionStatus
	SessionType   SessionType
	SessionNumber int
}

// PurchaseMetadata carries the scheduling hints the purchase event forwards (spec §4.3).
type PurchaseMetadata struct {
	PreferredSlot     string     `json:"preferredSlot,omitempty"`
	PreferredStartAt  *time.Time `json:"preferredStartDate,omitempty"`
	Mode              ScheduleMode `json:"mode,omitempty"`
}

// PurchaseCreatedPayload is the decoded payload of a PURCHASE_CREATED event.
type PurchaseCreatedPayload struct {
	StudentID    string           `json:"studentId"`
	CourseID     string           `json:"courseId"`
	PurchaseTier int              `json:"purchaseTier"`
	Metadata     PurchaseMetadata `json:"metadata"`
}

// TrainerAllocatedPayload is the payload published on eventlog.TopicTrainerAllocated.
type TrainerAllocatedPayload struct {
	AllocationID string `json:"allocationId"`
	StudentID    string `json:"studentId"`
	CourseID     string `json:"courseId"`
	TrainerID    string `json:"trainerId,omitempty"`
	Status       string `json:"status"`
	Reason       string `json:"reason,omitempty"`
}

// SessionsGeneratedPayload is the payload published alongside session creation.
type SessionsGeneratedPayload struct {
	AllocationID string    `json:"allocationId"`
	SessionIDs   []string  `json:"sessionIds"`
}
