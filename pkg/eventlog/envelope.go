// Package eventlog is the C1 Event Log Adapter: a typed publish/subscribe layer over a
// partitioned durable log (Kafka), hiding the transport behind Publisher/Subscriber so C2/C3/C4
// never import a Kafka client directly.
package eventlog

import (
	"crypto/sha1" //nolint:gosec // used for a stable id, not for security
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var errMissingEventID = errors.New("eventlog: envelope missing eventId")

// EventType is the closed set of domain event discriminators spec §3 names.
type EventType string

const (
	EventPurchaseCreated     EventType = "PURCHASE_CREATED"
	EventTrainerAllocated    EventType = "TRAINER_ALLOCATED"
	EventSessionsGenerated   EventType = "SESSIONS_GENERATED"
	EventNotificationRequest EventType = "NOTIFICATION_REQUESTED"
	EventSessionStarted      EventType = "SESSION_STARTED"
	EventSessionCompleted    EventType = "SESSION_COMPLETED"
	EventSessionRescheduled  EventType = "SESSION_RESCHEDULED"
	EventSessionSubstituted  EventType = "SESSION_SUBSTITUTED"
	EventPayrollRecalculated EventType = "PAYROLL_RECALCULATED"
	EventJourneyLocation     EventType = "JOURNEY_LOCATION_UPDATED"
	EventJourneyEnded        EventType = "JOURNEY_ENDED"
)

// Topics used by the core (spec §6).
const (
	TopicPurchaseCreated      = "purchase-created"
	TopicTrainerAllocated     = "trainer-allocated"
	TopicNotificationRequest  = "notification-requested"
	TopicSessionLifecycle     = "session-lifecycle"
	TopicPayrollRecalculated  = "payroll-recalculated"
	TopicDeadLetter           = "dead-letter-queue"
)

// Envelope carries the metadata every event record is wrapped in (spec §4.1, §6).
type Envelope struct {
	EventID       string    `json:"eventId"`
	CorrelationID string    `json:"correlationId"`
	Source        string    `json:"source"`
	Version       string    `json:"version"`
	ProducedAt    time.Time `json:"producedAt"`
}

// wireRecord is the self-describing on-the-wire shape: {payload, _metadata}.
type wireRecord struct {
	Payload  json.RawMessage `json:"payload"`
	Metadata Envelope        `json:"_metadata"`
}

// Encode serializes payload and envelope into the wire format.
func Encode(payload any, envelope Envelope) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(wireRecord{Payload: raw, Metadata: envelope})
}

// RawRecord is the transport-level record delivered by a Subscriber, before its wire payload has
// been decoded. Every field a dead-letter republish needs (spec §4.2) is present on it.
type RawRecord struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
}

// EnrichedEvent is the payload ∪ envelope composite delivered to handlers (spec §4.1).
type EnrichedEvent struct {
	Topic      string
	Partition  int32
	Offset     int64
	Key        []byte
	Envelope   Envelope
	rawPayload json.RawMessage
}

// Decode unmarshals the event payload into v.
func (e EnrichedEvent) Decode(v any) error {
	return json.Unmarshal(e.rawPayload, v)
}

// RawPayload returns the undecoded payload bytes.
func (e EnrichedEvent) RawPayload() json.RawMessage { return e.rawPayload }

// DecodeWire parses a RawRecord's wire-format value into an EnrichedEvent. It fails when the
// value is not valid JSON or the envelope is missing its eventId — both are InvalidEvent cases
// the worker runtime routes straight to the dead-letter topic rather than retrying.
func DecodeWire(raw RawRecord) (EnrichedEvent, error) {
	var wr wireRecord
	if err := json.Unmarshal(raw.Value, &wr); err != nil {
		return EnrichedEvent{}, err
	}

	if wr.Metadata.EventID == "" {
		return EnrichedEvent{}, errMissingEventID
	}

	return EnrichedEvent{
		Topic:      raw.Topic,
		Partition:  raw.Partition,
		Offset:     raw.Offset,
		Key:        raw.Key,
		Envelope:   wr.Metadata,
		rawPayload: wr.Payload,
	}, nil
}

// DeriveEventID resolves spec §9 open question (a): producers that re-emit on replay must
// derive a stable eventId from the business key so republishing collapses to the same logical
// occurrence, rather than minting a fresh UUID every time. Topics whose events are one-shot,
// non-replayed facts (e.g. a journey location tick) may still pass a random key and get a
// correspondingly random id — DeriveEventID only promises stability for a given (topic, key...).
func DeriveEventID(topic string, businessKey ...string) string {
	h := sha1.New() //nolint:gosec
	h.Write([]byte(topic))

	for _, k := range businessKey {
		h.Write([]byte{0})
		h.Write([]byte(k))
	}

	return hex.EncodeToString(h.Sum(nil))
}

// JoinKey builds a partition key from parts, matching the teacher's "key.WriteString" convention
// for building composite routing keys.
func JoinKey(parts ...string) string {
	return strings.Join(parts, ".")
}
