package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"

	"github.com/brightpath/platform/pkg/platformlog"
	"github.com/brightpath/platform/pkg/platformmetrics"
)

// CloseServiceRestart is the WebSocket close code used on graceful shutdown (spec §4.4
// "closes local sockets with a protocol code that signals retry later").
const CloseServiceRestart = 1012

const writeWait = 5 * time.Second

// Socket is one local, registered WebSocket connection.
type Socket struct {
	ID     string
	UserID string
	Role   Role
	conn   *websocket.Conn

	mu   sync.Mutex
	subs map[string]struct{}
}

// Emit writes a JSON frame to the socket. Writes are serialized per-socket since
// gofiber/contrib/websocket connections are not safe for concurrent writers.
func (s *Socket) Emit(frame any) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Socket) subscribe(journeyID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs == nil {
		s.subs = make(map[string]struct{})
	}

	s.subs[journeyID] = struct{}{}
}

func (s *Socket) unsubscribe(journeyID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.subs, journeyID)
}

func (s *Socket) subscribed(journeyID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.subs[journeyID]
	return ok
}

// Hub is the per-instance in-memory socket map (spec §4.4 "each instance maintaining only its
// local socket set"). All methods are safe for concurrent use.
type Hub struct {
	logger platformlog.Logger

	mu      sync.RWMutex
	sockets map[string]*Socket
}

// NewHub returns an empty Hub.
func NewHub(logger platformlog.Logger) *Hub {
	if logger == nil {
		logger = platformlog.NewNop()
	}

	return &Hub{logger: logger, sockets: make(map[string]*Socket)}
}

// Add registers a local socket under id.
func (h *Hub) Add(id, userID string, role Role, conn *websocket.Conn) *Socket {
	s := &Socket{ID: id, UserID: userID, Role: role, conn: conn}

	h.mu.Lock()
	h.sockets[id] = s
	h.mu.Unlock()

	platformmetrics.WebsocketConnections.Inc()

	return s
}

// Remove drops the socket registered under id.
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	_, existed := h.sockets[id]
	delete(h.sockets, id)
	h.mu.Unlock()

	if existed {
		platformmetrics.WebsocketConnections.Dec()
	}
}

// Get returns the local socket for id, if any.
func (h *Hub) Get(id string) (*Socket, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s, ok := h.sockets[id]
	return s, ok
}

// SocketsSubscribedToJourney returns the local sockets currently in journeyID's room, for
// JourneyDispatcher's fanout.
func (h *Hub) SocketsSubscribedToJourney(journeyID string) []*Socket {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var out []*Socket

	for _, s := range h.sockets {
		if IsSubscribedToJourney(s, journeyID) {
			out = append(out, s)
		}
	}

	return out
}

// Len reports the current number of local sockets, used for the per-instance connection cap.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.sockets)
}

// CloseAll closes every local socket with CloseServiceRestart, for graceful shutdown (spec §4.4
// "closes local sockets with a protocol code that signals retry later").
func (h *Hub) CloseAll() {
	h.mu.Lock()
	sockets := make([]*Socket, 0, len(h.sockets))
	for _, s := range h.sockets {
		sockets = append(sockets, s)
	}
	h.sockets = make(map[string]*Socket)
	h.mu.Unlock()

	platformmetrics.WebsocketConnections.Sub(float64(len(sockets)))

	for _, s := range sockets {
		closeMsg := websocket.FormatCloseMessage(CloseServiceRestart, "service restart")

		s.mu.Lock()
		_ = s.conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(writeWait))
		_ = s.conn.Close()
		s.mu.Unlock()

		h.logger.Debugf("realtime: closed socket %s for shutdown", s.ID)
	}
}
