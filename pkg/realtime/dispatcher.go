package realtime

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/brightpath/platform/pkg/platformlog"
)

// BusinessEventsChannel is the single broadcast Pub/Sub channel carrying serialized events
// (spec §6 "a single broadcast channel business-events").
const BusinessEventsChannel = "business-events"

// Frame is the WebSocket envelope every server-to-client message carries, discriminated by Type
// (spec §6 WebSocket protocol).
type Frame struct {
	Type  string `json:"type"`
	Event any    `json:"event,omitempty"`
}

const frameTypeBusinessEvent = "business-event"

// Dispatcher subscribes to BusinessEventsChannel and fans out to local sockets per spec §4.4's
// dispatch algorithm. It implements platformserver.Runner.
type Dispatcher struct {
	redis      *redis.Client
	registry   *Registry
	hub        *Hub
	instanceID string
	logger     platformlog.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewDispatcher returns a Dispatcher that reads from redisClient's Pub/Sub, resolves recipients
// through registry, and emits to sockets held by hub that belong to instanceID.
func NewDispatcher(redisClient *redis.Client, registry *Registry, hub *Hub, instanceID string, logger platformlog.Logger) *Dispatcher {
	if logger == nil {
		logger = platformlog.NewNop()
	}

	return &Dispatcher{
		redis:      redisClient,
		registry:   registry,
		hub:        hub,
		instanceID: instanceID,
		logger:     logger,
		stopCh:     make(chan struct{}),
	}
}

// Run subscribes and processes messages until ctx is cancelled or Stop is called (spec §4.4
// "Cancellation": the Pub/Sub subscriber is the first thing to stop on graceful shutdown).
func (d *Dispatcher) Run(ctx context.Context) error {
	sub := d.redis.Subscribe(ctx, BusinessEventsChannel)
	defer sub.Close()

	ch := sub.Channel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-d.stopCh:
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			d.handle(ctx, msg.Payload)
		}
	}
}

// Stop signals Run to return.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() { close(d.stopCh) })
}

func (d *Dispatcher) handle(ctx context.Context, payload string) {
	var event BusinessEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		d.logger.Errorf("realtime: dropping undecodable business event: %v", err)
		return
	}

	for _, userID := range RecipientUserIDs(event) {
		members, err := d.registry.SocketsForUser(ctx, userID)
		if err != nil {
			d.logger.Errorf("realtime: lookup sockets for user %s: %v", userID, err)
			continue
		}

		for _, member := range members {
			socketID := d.localSocketID(member)
			if socketID == "" {
				continue
			}

			socket, ok := d.hub.Get(socketID)
			if !ok {
				continue
			}

			if !ShouldReceive(event, socket.UserID, socket.Role) {
				continue
			}

			if err := socket.Emit(Frame{Type: frameTypeBusinessEvent, Event: event}); err != nil {
				d.logger.Debugf("realtime: emit to socket %s failed, dropping: %v", socket.ID, err)
			}
		}
	}
}

// localSocketID returns the socket id portion of an `instanceId:socketId` member if it belongs
// to this instance, else "".
func (d *Dispatcher) localSocketID(member string) string {
	prefix := d.instanceID + ":"
	if !strings.HasPrefix(member, prefix) {
		return ""
	}

	return strings.TrimPrefix(member, prefix)
}
