package worker

import (
	"context"
	"time"

	"github.com/brightpath/platform/pkg/eventlog"
)

// DeadLetterRecord carries everything needed to inspect or replay a record the runtime gave up
// on, per spec §4.2 ("the dead letter carries the original topic, partition, offset, payload,
// failure reason and attempt count").
type DeadLetterRecord struct {
	OriginalTopic     string
	OriginalPartition int32
	OriginalOffset    int64
	OriginalKey       []byte
	OriginalValue     []byte
	EventID           string
	CorrelationID     string
	ConsumerName      string
	FailureReason     string
	AttemptCount      int
	FailedAt          time.Time
}

// DeadLetterPublisher routes a DeadLetterRecord to the dead-letter topic.
type DeadLetterPublisher interface {
	PublishDeadLetter(ctx context.Context, record DeadLetterRecord) error
}

// deadLetterPayload is the wire shape published to eventlog.TopicDeadLetter.
type deadLetterPayload struct {
	OriginalTopic     string `json:"originalTopic"`
	OriginalPartition int32  `json:"originalPartition"`
	OriginalOffset    int64  `json:"originalOffset"`
	OriginalKey       string `json:"originalKey,omitempty"`
	OriginalValue     string `json:"originalValue"`
	ConsumerName      string `json:"consumerName"`
	FailureReason     string `json:"failureReason"`
	AttemptCount      int    `json:"attemptCount"`
}

// EventLogDeadLetterPublisher implements DeadLetterPublisher on top of an eventlog.Publisher,
// writing to eventlog.TopicDeadLetter keyed by the original record's key so replays of the same
// business key still land on one partition.
type EventLogDeadLetterPublisher struct {
	Publisher eventlog.Publisher
	Source    string
}

// PublishDeadLetter implements DeadLetterPublisher.
func (p *EventLogDeadLetterPublisher) PublishDeadLetter(ctx context.Context, record DeadLetterRecord) error {
	payload := deadLetterPayload{
		OriginalTopic:     record.OriginalTopic,
		OriginalPartition: record.OriginalPartition,
		OriginalOffset:    record.OriginalOffset,
		OriginalKey:       string(record.OriginalKey),
		OriginalValue:     string(record.OriginalValue),
		ConsumerName:      record.ConsumerName,
		FailureReason:     record.FailureReason,
		AttemptCount:      record.AttemptCount,
	}

	eventID := record.EventID
	if eventID == "" {
		eventID = eventlog.DeriveEventID(eventlog.TopicDeadLetter, record.OriginalTopic, string(record.OriginalKey), record.FailureReason)
	}

	envelope := eventlog.Envelope{
		EventID:       eventID,
		CorrelationID: record.CorrelationID,
		Source:        p.Source,
		Version:       "1.0.0",
		ProducedAt:    record.FailedAt,
	}

	return p.Publisher.Publish(ctx, eventlog.TopicDeadLetter, string(record.OriginalKey), payload, envelope)
}
