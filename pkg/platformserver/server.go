// Package platformserver provides the fluent ServerManager every brightpath component boots
// through, mirroring the teacher's pkg/server.ServerManager (WithHTTPServer/WithGRPCServer
// chaining plus a graceful shutdown sequence) generalized to also manage background runners
// (event subscriptions, the realtime dispatcher) alongside an optional HTTP listener.
package platformserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/brightpath/platform/pkg/platformlog"
)

// DefaultGracePeriod is how long Shutdown waits for the HTTP server's in-flight requests to
// drain before giving up.
const DefaultGracePeriod = 30 * time.Second

// Runner is a long-lived background task with a cooperative stop signal. eventlog.Runner and
// realtime.Dispatcher both satisfy this shape.
type Runner interface {
	Run(ctx context.Context) error
	Stop()
}

// ServerManager owns an optional Fiber HTTP server and a set of background Runners, and
// coordinates starting and gracefully stopping all of them together.
type ServerManager struct {
	logger      platformlog.Logger
	httpApp     *fiber.App
	httpAddr    string
	runners     []Runner
	gracePeriod time.Duration
}

// NewServerManager returns an empty ServerManager. Components are attached with the With*
// methods before calling Start.
func NewServerManager(logger platformlog.Logger) *ServerManager {
	if logger == nil {
		logger = platformlog.NewNop()
	}

	return &ServerManager{logger: logger, gracePeriod: DefaultGracePeriod}
}

// WithHTTPServer attaches a Fiber app to listen on addr.
func (m *ServerManager) WithHTTPServer(app *fiber.App, addr string) *ServerManager {
	m.httpApp = app
	m.httpAddr = addr

	return m
}

// WithRunner attaches a background Runner (an event subscription loop, the realtime dispatcher).
func (m *ServerManager) WithRunner(r Runner) *ServerManager {
	m.runners = append(m.runners, r)
	return m
}

// WithGracePeriod overrides DefaultGracePeriod.
func (m *ServerManager) WithGracePeriod(d time.Duration) *ServerManager {
	m.gracePeriod = d
	return m
}

// Start launches the HTTP server (if any) and every attached runner, each in its own goroutine,
// and returns immediately. Errors are logged, not returned, since a single runner failing should
// not necessarily take the whole process down; callers that need stricter behavior should wrap
// their Runner to report fatal errors through a side channel.
func (m *ServerManager) Start(ctx context.Context) {
	if m.httpApp != nil {
		go func() {
			if err := m.httpApp.Listen(m.httpAddr); err != nil && err != http.ErrServerClosed {
				m.logger.Errorf("platformserver: http server exited: %v", err)
			}
		}()
	}

	for _, r := range m.runners {
		r := r

		go func() {
			if err := r.Run(ctx); err != nil && ctx.Err() == nil {
				m.logger.Errorf("platformserver: runner exited: %v", err)
			}
		}()
	}
}

// Shutdown signals every runner to stop, then shuts down the HTTP server, waiting up to the grace
// period for in-flight HTTP requests. It does not wait for the runners' Run calls to return.
func (m *ServerManager) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, m.gracePeriod)
	defer cancel()

	for _, r := range m.runners {
		r.Stop()
	}

	if m.httpApp != nil {
		if err := m.httpApp.ShutdownWithContext(shutdownCtx); err != nil {
			m.logger.Errorf("platformserver: http shutdown error: %v", err)
			return err
		}
	}

	return nil
}
