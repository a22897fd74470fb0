package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJourneyDispatcher_LocationRoomResolvesOnlySubscribedSockets(t *testing.T) {
	hub := NewHub(nil)

	inRoom := &Socket{ID: "sock-1", UserID: "S1", Role: RoleStudent}
	inRoom.subscribe("J1")
	hub.sockets[inRoom.ID] = inRoom

	elsewhere := &Socket{ID: "sock-2", UserID: "S2", Role: RoleStudent}
	elsewhere.subscribe("J2")
	hub.sockets[elsewhere.ID] = elsewhere

	// Neither socket carries a real conn, so Emit would panic; assert membership resolution
	// instead of fanout delivery (the same split journey_test.go uses for room state).
	members := hub.SocketsSubscribedToJourney("J1")
	require.Len(t, members, 1)
	assert.Equal(t, "sock-1", members[0].ID)
}

func TestJourneyDispatcher_HandleDropsUndecodablePayload(t *testing.T) {
	d := NewJourneyDispatcher(nil, NewHub(nil), nil)

	// Must not panic even though redis/hub wiring is otherwise unused by handle.
	d.handle(JourneyUpdatesChannel, "not-json")
	d.handle(JourneyEndedChannel, "not-json")
	d.handle("journey:unknown", `{"journeyId":"J1"}`)
}

func TestJourneyDispatcher_HandleRoutesByChannel(t *testing.T) {
	hub := NewHub(nil)
	d := NewJourneyDispatcher(nil, hub, nil)

	// No sockets are subscribed to J1, so fanout is a no-op and handle must return cleanly for
	// both channel payloads without reaching Socket.Emit.
	updatePayload, err := json.Marshal(JourneyLocationPayload{JourneyID: "J1", Sequence: 3, Timestamp: time.Unix(0, 0).UTC()})
	require.NoError(t, err)
	d.handle(JourneyUpdatesChannel, string(updatePayload))

	endedPayload, err := json.Marshal(JourneyEndedPayload{JourneyID: "J1", EndedAt: time.Unix(0, 0).UTC()})
	require.NoError(t, err)
	d.handle(JourneyEndedChannel, string(endedPayload))
}

func TestJourneyDispatcher_RunSubscribesBothChannelsAndStopsCleanly(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	d := NewJourneyDispatcher(client, NewHub(nil), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	require.Eventually(t, func() bool {
		counts, err := client.PubSubNumSub(ctx, JourneyUpdatesChannel, JourneyEndedChannel).Result()
		return err == nil && counts[JourneyUpdatesChannel] >= 1 && counts[JourneyEndedChannel] >= 1
	}, time.Second, 10*time.Millisecond, "dispatcher never subscribed to both auxiliary channels")

	// Publishing to both auxiliary channels while Run is live must not block or error; with an
	// empty hub there is nothing to fan out to.
	require.NoError(t, client.Publish(ctx, JourneyUpdatesChannel, `{"journeyId":"J1","sequence":1}`).Err())
	require.NoError(t, client.Publish(ctx, JourneyEndedChannel, `{"journeyId":"J1"}`).Err())

	d.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
}
