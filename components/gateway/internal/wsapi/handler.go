// Package wsapi implements the gateway's WebSocket upgrade endpoint: bearer-token validation,
// connection registration against the shared registry, and message routing for the
// subscribe:journey / unsubscribe:journey protocol (spec §4.4, §6).
package wsapi

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/brightpath/platform/pkg/gatewayproxy"
	"github.com/brightpath/platform/pkg/httpkit"
	"github.com/brightpath/platform/pkg/platformlog"
	"github.com/brightpath/platform/pkg/realtime"
)

const readDeadline = 60 * time.Second

// Server wires the realtime Registry, Hub and ownership check into a fiber route.
type Server struct {
	Registry   *realtime.Registry
	Hub        *realtime.Hub
	Ownership  realtime.JourneyOwnership
	InstanceID string
	MaxConns   int
	JWTSecret  string
	Logger     platformlog.Logger
}

// UpgradeGuard rejects non-upgrade requests and pre-validates the bearer token carried as a query
// parameter (browsers cannot set arbitrary headers on a WebSocket handshake).
func (s *Server) UpgradeGuard(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	claims, err := s.parseToken(c.Query("token"))
	if err != nil {
		return httpkit.Unauthorized(c, "invalid or expired token")
	}

	c.Locals("userId", claims.UserID)
	c.Locals("role", claims.Role)

	return c.Next()
}

func (s *Server) parseToken(tokenString string) (*gatewayproxy.Claims, error) {
	claims := &gatewayproxy.Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}

		return []byte(s.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

// Handle is the websocket.New handler: registers the socket, serves inbound frames, and
// deregisters on disconnect.
func (s *Server) Handle(c *websocket.Conn) {
	userID, _ := c.Locals("userId").(string)
	role, _ := c.Locals("role").(string)

	ctx := context.Background()

	if s.Hub.Len() >= s.MaxConns {
		s.Logger.Warnf("wsapi: instance %s at connection cap, rejecting socket for user %s", s.InstanceID, userID)
		_ = c.Close()

		return
	}

	socketID := uuid.NewString()
	socket := s.Hub.Add(socketID, userID, realtime.Role(role), c)

	conn := realtime.Connection{SocketID: socketID, InstanceID: s.InstanceID, UserID: userID, Role: realtime.Role(role)}
	if err := s.Registry.Register(ctx, conn); err != nil {
		s.Logger.Errorf("wsapi: register socket %s failed: %v", socketID, err)
		s.Hub.Remove(socketID)
		_ = c.Close()

		return
	}

	defer func() {
		s.Hub.Remove(socketID)

		if err := s.Registry.Deregister(context.Background(), conn); err != nil {
			s.Logger.Debugf("wsapi: deregister socket %s: %v", socketID, err)
		}
	}()

	for {
		_ = c.SetReadDeadline(time.Now().Add(readDeadline))

		mt, data, err := c.ReadMessage()
		if err != nil {
			return
		}

		if mt != websocket.TextMessage {
			continue
		}

		s.route(ctx, socket, data)
	}
}

func (s *Server) route(ctx context.Context, socket *realtime.Socket, data []byte) {
	var envelope struct {
		Type string `json:"type"`
	}

	if err := json.Unmarshal(data, &envelope); err != nil {
		return
	}

	switch envelope.Type {
	case "subscribe:journey":
		var req realtime.SubscribeJourneyRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return
		}

		frame := realtime.SubscribeJourney(ctx, s.Ownership, socket, req)
		_ = socket.Emit(frame)
	case "unsubscribe:journey":
		var req realtime.SubscribeJourneyRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return
		}

		realtime.UnsubscribeJourney(socket, req)
	}
}
