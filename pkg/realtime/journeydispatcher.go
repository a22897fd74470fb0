package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/brightpath/platform/pkg/platformlog"
)

// Journey auxiliary Pub/Sub channels (spec §6 "Realtime channel"), separate from the single
// broadcast business-events channel since a journey update only matters to sockets subscribed to
// that journey's room.
const (
	JourneyUpdatesChannel = "journey:updates"
	JourneyEndedChannel   = "journey:ended"
)

const (
	frameTypeJourneyLocation = "journey:location"
	frameTypeJourneyEnded    = "journey:ended"
)

// Location is a point on a journey's route.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// JourneyLocationPayload is both the journey:updates channel payload and the journey:location
// server->client frame body (spec §6).
type JourneyLocationPayload struct {
	JourneyID string    `json:"journeyId"`
	Location  *Location `json:"location,omitempty"`
	Sequence  int       `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
}

// JourneyEndedPayload is both the journey:ended channel payload and its server->client frame body.
type JourneyEndedPayload struct {
	JourneyID string    `json:"journeyId"`
	EndedAt   time.Time `json:"endedAt"`
}

// JourneyDispatcher subscribes to the journey:updates and journey:ended auxiliary channels and
// fans out journey:location/journey:ended frames to local sockets in the matching
// journey:{journeyId} room (spec §4.4 "Subscription topics"). It implements platformserver.Runner,
// same shape as Dispatcher.
type JourneyDispatcher struct {
	redis  *redis.Client
	hub    *Hub
	logger platformlog.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewJourneyDispatcher returns a JourneyDispatcher that reads from redisClient's Pub/Sub and
// emits to sockets held by hub that are subscribed to the relevant journey room.
func NewJourneyDispatcher(redisClient *redis.Client, hub *Hub, logger platformlog.Logger) *JourneyDispatcher {
	if logger == nil {
		logger = platformlog.NewNop()
	}

	return &JourneyDispatcher{
		redis:  redisClient,
		hub:    hub,
		logger: logger,
		stopCh: make(chan struct{}),
	}
}

// Run subscribes and processes messages until ctx is cancelled or Stop is called.
func (d *JourneyDispatcher) Run(ctx context.Context) error {
	sub := d.redis.Subscribe(ctx, JourneyUpdatesChannel, JourneyEndedChannel)
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

			d.handle(msg.Channel, msg.Payload)
		}
	}
}

// Stop signals Run to return.
func (d *JourneyDispatcher) Stop() {
	d.stopOnce.Do(func() { close(d.stopCh) })
}

func (d *JourneyDispatcher) handle(channel, payload string) {
	switch channel {
	case JourneyUpdatesChannel:
		var update JourneyLocationPayload
		if err := json.Unmarshal([]byte(payload), &update); err != nil {
			d.logger.Errorf("realtime: dropping undecodable journey update: %v", err)
			return
		}

		d.fanout(update.JourneyID, Frame{Type: frameTypeJourneyLocation, Event: update})
	case JourneyEndedChannel:
		var ended JourneyEndedPayload
		if err := json.Unmarshal([]byte(payload), &ended); err != nil {
			d.logger.Errorf("realtime: dropping undecodable journey ended: %v", err)
			return
		}

		d.fanout(ended.JourneyID, Frame{Type: frameTypeJourneyEnded, Event: ended})
	}
}

func (d *JourneyDispatcher) fanout(journeyID string, frame Frame) {
	for _, socket := range d.hub.SocketsSubscribedToJourney(journeyID) {
		if err := socket.Emit(frame); err != nil {
			d.logger.Debugf("realtime: emit journey frame to socket %s failed, dropping: %v", socket.ID, err)
		}
	}
}
