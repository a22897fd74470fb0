package realtime

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/brightpath/platform/pkg/platformerr"
)

// EventPublisher publishes to BusinessEventsChannel, implementing allocengine.RealtimePublisher
// (and any other producer's best-effort fanout sink) over the same Redis client the gateway
// subscribes with.
type EventPublisher struct {
	client *redis.Client
}

// NewEventPublisher returns an EventPublisher bound to client.
func NewEventPublisher(client *redis.Client) *EventPublisher {
	return &EventPublisher{client: client}
}

// PublishBusinessEvent marshals eventType and payload into a BusinessEvent-shaped frame and
// publishes it. When payload encodes to a JSON object, each of its top-level fields is copied
// onto the frame (so userId/studentId/trainerId routing keys reach BusinessEvent) and the whole
// object is also carried under "payload"; any other payload contributes no routing keys.
func (p *EventPublisher) PublishBusinessEvent(ctx context.Context, eventType string, payload any) error {
	envelope := map[string]any{"type": eventType}

	raw, err := json.Marshal(payload)
	if err != nil {
		return platformerr.InvalidEvent{Reason: "encode realtime payload: " + err.Error()}
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err == nil {
		for k, v := range fields {
			envelope[k] = v
		}
	}
	envelope["payload"] = fields

	data, err := json.Marshal(envelope)
	if err != nil {
		return platformerr.InvalidEvent{Reason: "encode realtime envelope: " + err.Error()}
	}

	if err := p.client.Publish(ctx, BusinessEventsChannel, data).Err(); err != nil {
		return platformerr.TransientDependencyError{Dependency: "realtime-publish", Cause: err}
	}

	return nil
}
