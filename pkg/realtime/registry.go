package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/brightpath/platform/pkg/platformerr"
)

// DefaultConnectionTTL is the TTL on a registry entry (spec §4.4 "default 1h").
const DefaultConnectionTTL = time.Hour

// DefaultPerInstanceCap is the default per-instance connection cap (spec §4.4 "default 1000").
const DefaultPerInstanceCap = 1000

func connectionKey(socketID string) string { return "ws:connection:" + socketID }
func userKey(userID string) string         { return "ws:user:" + userID }

// Connection is one registered socket, matching the `(userId, instanceId:socketId, role)` tuple
// spec §4.4 says to register on open.
type Connection struct {
	SocketID   string
	InstanceID string
	UserID     string
	Role       Role
}

// Registry is the shared KV subscription registry (spec §6 "Persisted state owned by the core").
type Registry struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRegistry returns a Registry backed by client, using DefaultConnectionTTL.
func NewRegistry(client *redis.Client) *Registry {
	return &Registry{client: client, ttl: DefaultConnectionTTL}
}

// WithTTL overrides DefaultConnectionTTL.
func (r *Registry) WithTTL(ttl time.Duration) *Registry {
	r.ttl = ttl
	return r
}

// Register adds conn to both the per-socket and per-user keys with TTL. It does not enforce the
// per-instance cap; callers check CountForInstance before calling Register.
func (r *Registry) Register(ctx context.Context, conn Connection) error {
	member := conn.InstanceID + ":" + conn.SocketID

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, connectionKey(conn.SocketID), fmt.Sprintf("%s|%s|%s", conn.UserID, conn.InstanceID, conn.Role), r.ttl)
	pipe.SAdd(ctx, userKey(conn.UserID), member)
	pipe.Expire(ctx, userKey(conn.UserID), r.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return platformerr.TransientDependencyError{Dependency: "realtime-registry", Cause: err}
	}

	return nil
}

// Deregister removes conn's entries. Per spec §4.4 "any failure here is non-fatal (the TTL acts
// as a garbage collector)", callers should log but not fail the disconnect path on error.
func (r *Registry) Deregister(ctx context.Context, conn Connection) error {
	member := conn.InstanceID + ":" + conn.SocketID

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, connectionKey(conn.SocketID))
	pipe.SRem(ctx, userKey(conn.UserID), member)

	_, err := pipe.Exec(ctx)
	return err
}

// SocketsForUser returns the raw `instanceId:socketId` members registered for userID.
func (r *Registry) SocketsForUser(ctx context.Context, userID string) ([]string, error) {
	members, err := r.client.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return nil, platformerr.TransientDependencyError{Dependency: "realtime-registry", Cause: err}
	}

	return members, nil
}

// CountForInstance returns how many of userID's registered sockets belong to instanceID; it is
// used as a cheap proxy to approximate a per-instance connection count during upgrade, but the
// primary cap enforcement is the caller's local Hub size, which is authoritative for "this
// instance" in a way a per-user Redis set is not.
func (r *Registry) CountForInstance(ctx context.Context, userID, instanceID string) (int, error) {
	members, err := r.SocketsForUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	count := 0
	prefix := instanceID + ":"

	for _, m := range members {
		if len(m) >= len(prefix) && m[:len(prefix)] == prefix {
			count++
		}
	}

	return count, nil
}
