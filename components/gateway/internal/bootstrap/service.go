package bootstrap

import (
	"context"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	httpadapters "github.com/brightpath/platform/components/gateway/internal/adapters/httpclient"
	"github.com/brightpath/platform/components/gateway/internal/wsapi"
	"github.com/brightpath/platform/pkg/gatewayproxy"
	"github.com/brightpath/platform/pkg/platformconfig"
	"github.com/brightpath/platform/pkg/platformlog"
	"github.com/brightpath/platform/pkg/platformserver"
	"github.com/brightpath/platform/pkg/realtime"
)

// Service wires C4 (pkg/realtime) and C5 (pkg/gatewayproxy) into a running HTTP+WebSocket
// gateway, mirroring the teacher's ConsumerService application-glue shape.
type Service struct {
	cfg     Config
	logger  platformlog.Logger
	redis   *redis.Client
	manager *platformserver.ServerManager
	hub     *realtime.Hub
}

// Init wires every dependency and returns a ready-to-run Service.
func Init() *Service {
	platformconfig.LoadDotEnvIfLocal()

	cfg := Config{}
	if err := platformconfig.Load(&cfg); err != nil {
		panic(err)
	}

	if cfg.InstanceID == "" {
		cfg.InstanceID = ApplicationName + "-" + uuid.NewString()
	}

	logger, err := platformlog.New(cfg.EnvName, cfg.LogLevel)
	if err != nil {
		panic(err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	registry := realtime.NewRegistry(redisClient)
	hub := realtime.NewHub(logger)
	dispatcher := realtime.NewDispatcher(redisClient, registry, hub, cfg.InstanceID, logger)
	journeyDispatcher := realtime.NewJourneyDispatcher(redisClient, hub, logger)

	ownership := httpadapters.NewJourneyOwnership(cfg.JourneyServiceURL)

	wsServer := &wsapi.Server{
		Registry:   registry,
		Hub:        hub,
		Ownership:  ownership,
		InstanceID: cfg.InstanceID,
		MaxConns:   cfg.MaxConnectionsPerInstance,
		JWTSecret:  cfg.JWTSecret,
		Logger:     logger,
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"instanceId": cfg.InstanceID})
	})

	app.Get("/ready", func(c *fiber.Ctx) error {
		if err := redisClient.Ping(c.UserContext()).Err(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ready": false})
		}

		return c.JSON(fiber.Map{"ready": true})
	})

	app.Get("/ws", wsServer.UpgradeGuard, websocket.New(wsServer.Handle))

	rateLimiter := gatewayproxy.NewRateLimiter(redisClient, gatewayproxy.RateLimitConfig{
		Auth:    gatewayproxy.Budget{Window: time.Duration(cfg.RateLimitAuthWindowSeconds) * time.Second, MaxAttempts: cfg.RateLimitAuthMaxAttempts},
		OTP:     gatewayproxy.Budget{Window: time.Duration(cfg.RateLimitOTPWindowSeconds) * time.Second, MaxAttempts: cfg.RateLimitOTPMaxAttempts},
		Student: gatewayproxy.Budget{Window: time.Duration(cfg.RateLimitStudentWindowSeconds) * time.Second, MaxAttempts: cfg.RateLimitStudentMaxAttempts},
		Trainer: gatewayproxy.Budget{Window: time.Duration(cfg.RateLimitTrainerWindowSeconds) * time.Second, MaxAttempts: cfg.RateLimitTrainerMaxAttempts},
		Admin:   gatewayproxy.Budget{Window: time.Duration(cfg.RateLimitAdminWindowSeconds) * time.Second, MaxAttempts: cfg.RateLimitAdminMaxAttempts},
	})

	routes := gatewayproxy.NewRouteTable([]gatewayproxy.Route{
		{Prefix: "/api/auth", Target: cfg.AuthUpstream},
		{Prefix: "/api/students", Target: cfg.StudentUpstream},
		{Prefix: "/api/trainers", Target: cfg.TrainerUpstream},
		{Prefix: "/api/admin", Target: cfg.AdminUpstream},
	})

	gatewayproxy.Mount(app, gatewayproxy.Config{
		CORS:      gatewayproxy.CORSConfig{AllowOrigins: cfg.CORSAllowOrigins},
		Auth:      gatewayproxy.AuthConfig{Secret: cfg.JWTSecret},
		RateLimit: rateLimiter,
		Routes:    routes,
	})

	manager := platformserver.NewServerManager(logger).
		WithHTTPServer(app, cfg.ListenAddr).
		WithRunner(dispatcher).
		WithRunner(journeyDispatcher)

	return &Service{cfg: cfg, logger: logger, redis: redisClient, manager: manager, hub: hub}
}

// Run starts the gateway and blocks until ctx is cancelled, then drains gracefully: the Pub/Sub
// dispatchers stop and the HTTP listener refuses new upgrades first, then local sockets are
// closed with CloseServiceRestart (spec §4.4 "closes the Pub/Sub subscriber first, then refuses
// new upgrades, then closes local sockets").
func (s *Service) Run(ctx context.Context) {
	s.manager.Start(ctx)

	<-ctx.Done()

	s.logger.Infof("gateway: shutting down")

	if err := s.manager.Shutdown(context.Background()); err != nil {
		s.logger.Errorf("gateway: shutdown error: %v", err)
	}

	s.hub.CloseAll()

	_ = s.redis.Close()
	_ = s.logger.Sync()
}
