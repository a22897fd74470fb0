package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHub_SocketsSubscribedToJourney(t *testing.T) {
	hub := NewHub(nil)

	inRoom := &Socket{ID: "sock-1", UserID: "S1", Role: RoleStudent}
	inRoom.subscribe("J1")

	otherRoom := &Socket{ID: "sock-2", UserID: "S2", Role: RoleStudent}
	otherRoom.subscribe("J2")

	notSubscribed := &Socket{ID: "sock-3", UserID: "S3", Role: RoleStudent}

	hub.sockets[inRoom.ID] = inRoom
	hub.sockets[otherRoom.ID] = otherRoom
	hub.sockets[notSubscribed.ID] = notSubscribed

	members := hub.SocketsSubscribedToJourney("J1")

	assert.Len(t, members, 1)
	assert.Equal(t, "sock-1", members[0].ID)
}

func TestHub_SocketsSubscribedToJourney_NoMembers(t *testing.T) {
	hub := NewHub(nil)

	socket := &Socket{ID: "sock-1", UserID: "S1", Role: RoleStudent}
	hub.sockets[socket.ID] = socket

	assert.Empty(t, hub.SocketsSubscribedToJourney("J-nonexistent"))
}
