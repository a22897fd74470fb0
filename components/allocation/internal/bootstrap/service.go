package bootstrap

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/brightpath/platform/components/allocation/internal/adapters/httpclient"
	"github.com/brightpath/platform/pkg/allocengine"
	"github.com/brightpath/platform/pkg/eventlog"
	"github.com/brightpath/platform/pkg/platformconfig"
	"github.com/brightpath/platform/pkg/platformlog"
	"github.com/brightpath/platform/pkg/platformmetrics"
	"github.com/brightpath/platform/pkg/platformserver"
	"github.com/brightpath/platform/pkg/realtime"
	"github.com/brightpath/platform/pkg/retry"
	"github.com/brightpath/platform/pkg/store/postgres"
	"github.com/brightpath/platform/pkg/worker"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// Service is the application glue wiring C2 (worker.Runtime) and C3 (allocengine.Engine) into a
// running allocation consumer, mirroring the teacher's ConsumerService shape.
type Service struct {
	cfg        Config
	logger     platformlog.Logger
	pool       *postgres.Pool
	subscriber *eventlog.KafkaSubscriber
	publisher  *eventlog.KafkaPublisher
	redis      *redis.Client
	manager    *platformserver.ServerManager
}

// CourseCatalogURL and StudentDirectoryURL locate the two external collaborators C3 depends on
// (spec §1 non-goals: course content and student management are owned elsewhere).
type urlConfig struct {
	CourseCatalogURL    string `env:"COURSE_CATALOG_URL,default=http://course-catalog:8080"`
	StudentDirectoryURL string `env:"STUDENT_DIRECTORY_URL,default=http://student-directory:8080"`
}

// Init wires every dependency and returns a ready-to-run Service. It panics on any failure to
// reach required infrastructure, matching the teacher's InitConsumer fail-fast-at-boot shape.
func Init() *Service {
	platformconfig.LoadDotEnvIfLocal()

	cfg := Config{}
	if err := platformconfig.Load(&cfg); err != nil {
		panic(err)
	}

	urls := urlConfig{}
	if err := platformconfig.Load(&urls); err != nil {
		panic(err)
	}

	logger, err := platformlog.New(cfg.EnvName, cfg.LogLevel)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()

	pool, err := postgres.Connect(ctx, postgres.Config{
		DSN:      cfg.postgresDSN(),
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		panic(err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	kafkaCfg := eventlog.KafkaConfig{Brokers: cfg.kafkaBrokerList(), ClientID: ApplicationName}

	publisher, err := eventlog.NewKafkaPublisher(kafkaCfg, logger)
	if err != nil {
		panic(err)
	}

	subscriber := eventlog.NewKafkaSubscriber(kafkaCfg, logger)

	ledger := postgres.NewLedger(pool)
	deadLetter := &worker.EventLogDeadLetterPublisher{Publisher: publisher, Source: ApplicationName}

	store := postgres.NewAllocationStore(pool)
	courses := httpclient.NewCourseCatalog(urls.CourseCatalogURL)
	students := httpclient.NewStudentDirectory(urls.StudentDirectoryURL)
	realtimePublisher := realtime.NewEventPublisher(redisClient)

	engine := allocengine.New(store, courses, students, publisher, realtimePublisher)
	engine.Logger = logger

	runtime := worker.New(ConsumerName, ledger, deadLetter)
	runtime.Logger = logger
	runtime.Retry = retry.Default().WithMaxAttempts(cfg.RetryMaxAttempts)
	runtime.VerifyStillDone = verifyAllocationStillDone(store)

	handler := runtime.Wrap(engine.Handle)

	runner, err := subscriber.Subscribe(ctx, cfg.ConsumerGroup, eventlog.TopicPurchaseCreated, handler)
	if err != nil {
		panic(err)
	}

	metricsApp := fiber.New(fiber.Config{DisableStartupMessage: true})
	metricsApp.Get("/metrics", adaptor.HTTPHandler(platformmetrics.Handler()))
	metricsApp.Get("/health", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	manager := platformserver.NewServerManager(logger).
		WithHTTPServer(metricsApp, cfg.MetricsAddr).
		WithRunner(runner)

	return &Service{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		subscriber: subscriber,
		publisher:  publisher,
		redis:      redisClient,
		manager:    manager,
	}
}

// Run starts every wired component and blocks until ctx is cancelled, then drains gracefully.
func (s *Service) Run(ctx context.Context) {
	s.manager.Start(ctx)

	<-ctx.Done()

	s.logger.Infof("allocation: shutting down")

	shutdownCtx := context.Background()
	if err := s.manager.Shutdown(shutdownCtx); err != nil {
		s.logger.Errorf("allocation: shutdown error: %v", err)
	}

	_ = s.subscriber.Close()
	_ = s.publisher.Close()
	_ = s.redis.Close()
	s.pool.Close()
	_ = s.logger.Sync()
}
