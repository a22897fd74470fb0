package realtime

import "context"

// JourneyOwnership looks up whether a journey belongs to studentID, the ownership check spec
// §4.4 requires before a socket may join a `journey:{journeyId}` room. It is implemented by an
// external collaborator's read model; this package only consumes it.
type JourneyOwnership interface {
	StudentIDForJourney(ctx context.Context, journeyID string) (string, error)
}

// SubscribeJourneyRequest is the client -> server `subscribe:journey` / `unsubscribe:journey`
// payload (spec §6).
type SubscribeJourneyRequest struct {
	JourneyID string `json:"journeyId"`
}

const (
	frameTypeSubscribeJourneyOK    = "subscribe:journey:ok"
	frameTypeSubscribeJourneyError = "subscribe:journey:error"
)

// JourneyErrorPayload is the body of a subscribe:journey:error frame.
type JourneyErrorPayload struct {
	Message string `json:"message"`
}

// SubscribeJourney validates req against ownership and, on success, records the subscription on
// socket and returns the ok frame to emit; on failure it returns the error frame without
// subscribing the socket (spec §8 scenario 6).
func SubscribeJourney(ctx context.Context, ownership JourneyOwnership, socket *Socket, req SubscribeJourneyRequest) Frame {
	studentID, err := ownership.StudentIDForJourney(ctx, req.JourneyID)
	if err != nil || studentID != socket.UserID {
		return Frame{Type: frameTypeSubscribeJourneyError, Event: JourneyErrorPayload{Message: "Access denied to this journey"}}
	}

	socket.subscribe(req.JourneyID)

	return Frame{Type: frameTypeSubscribeJourneyOK, Event: SubscribeJourneyRequest{JourneyID: req.JourneyID}}
}

// UnsubscribeJourney removes req's journey room from socket, idempotently.
func UnsubscribeJourney(socket *Socket, req SubscribeJourneyRequest) {
	socket.unsubscribe(req.JourneyID)
}

// IsSubscribedToJourney reports whether socket is currently in the given journey's room, for the
// journey-location fanout path to filter recipients.
func IsSubscribedToJourney(socket *Socket, journeyID string) bool {
	return socket.subscribed(journeyID)
}
