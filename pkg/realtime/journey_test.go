package realtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJourneyOwnership struct {
	owners map[string]string
}

func (f *fakeJourneyOwnership) StudentIDForJourney(ctx context.Context, journeyID string) (string, error) {
	return f.owners[journeyID], nil
}

func TestSubscribeJourney_OwnerSucceeds(t *testing.T) {
	ownership := &fakeJourneyOwnership{owners: map[string]string{"J1": "S1"}}
	socket := &Socket{ID: "sock-1", UserID: "S1", Role: RoleStudent}

	frame := SubscribeJourney(context.Background(), ownership, socket, SubscribeJourneyRequest{JourneyID: "J1"})

	assert.Equal(t, frameTypeSubscribeJourneyOK, frame.Type)
	assert.True(t, IsSubscribedToJourney(socket, "J1"))
}

// Scenario 6 (spec §8): a non-owning student's subscribe request is rejected and the socket is
// not added to the room.
func TestSubscribeJourney_NonOwnerIsDenied(t *testing.T) {
	ownership := &fakeJourneyOwnership{owners: map[string]string{"J1": "S1"}}
	socket := &Socket{ID: "sock-2", UserID: "S2", Role: RoleStudent}

	frame := SubscribeJourney(context.Background(), ownership, socket, SubscribeJourneyRequest{JourneyID: "J1"})

	require.Equal(t, frameTypeSubscribeJourneyError, frame.Type)
	payload, ok := frame.Event.(JourneyErrorPayload)
	require.True(t, ok)
	assert.Equal(t, "Access denied to this journey", payload.Message)
	assert.False(t, IsSubscribedToJourney(socket, "J1"))
}

func TestUnsubscribeJourney_RemovesRoom(t *testing.T) {
	ownership := &fakeJourneyOwnership{owners: map[string]string{"J1": "S1"}}
	socket := &Socket{ID: "sock-1", UserID: "S1", Role: RoleStudent}

	SubscribeJourney(context.Background(), ownership, socket, SubscribeJourneyRequest{JourneyID: "J1"})
	UnsubscribeJourney(socket, SubscribeJourneyRequest{JourneyID: "J1"})

	assert.False(t, IsSubscribedToJourney(socket, "J1"))
}
