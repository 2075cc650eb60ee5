package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/Ramsey-B/fern/config"
	"github.com/Ramsey-B/fern/internal/repositories/companyprofile"
	"github.com/Ramsey-B/fern/internal/repositories/disclosure"
	"github.com/Ramsey-B/fern/internal/repositories/financialstatement"
	"github.com/Ramsey-B/fern/internal/repositories/partnercompany"
	"github.com/Ramsey-B/fern/pkg/dart"
	"github.com/Ramsey-B/fern/pkg/database"
	fernkafka "github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/logging"
	fernredis "github.com/Ramsey-B/fern/pkg/redis"
	"github.com/Ramsey-B/fern/pkg/routes/company"
	"github.com/Ramsey-B/fern/pkg/routes/health"
	"github.com/Ramsey-B/fern/pkg/routes/partner"
	"github.com/Ramsey-B/fern/pkg/scheduler"
	"github.com/Ramsey-B/fern/pkg/syncer"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

func main() {
	_ = godotenv.Load()

	var cfg config.Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, flushLogs := logging.New(cfg.AppName, cfg.LogLevel, cfg.PrettyLogs)
	defer flushLogs()

	shutdownTracing := tracing.Init(cfg.AppName)
	defer shutdownTracing(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Error("fern exited with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger ectologger.Logger) error {
	// Database
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DatabaseHost, cfg.DatabasePort, cfg.DatabaseUserName, cfg.DatabasePassword,
		cfg.DatabaseName, cfg.DatabaseSSLMode)

	sqlxDB, err := sqlx.ConnectContext(ctx, cfg.DatabaseDriver, dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer sqlxDB.Close()

	sqlxDB.SetMaxOpenConns(cfg.DatabaseMaxOpenConns)
	sqlxDB.SetMaxIdleConns(cfg.DatabaseMaxIdleConns)
	sqlxDB.SetConnMaxLifetime(cfg.DatabaseConnMaxLifetime)

	driver, err := postgres.WithInstance(sqlxDB.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	migrationService := database.NewMigrationService(logger, &database.MigrationConfig{
		MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
		Version:             uint(cfg.DatabaseMigrationVersion),
		Force:               cfg.DatabaseMigrationForce,
		AutoRollback:        cfg.DatabaseMigrationAutoRollback,
	})
	if err := migrationService.Migrate(cfg.DatabaseName, driver); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	db := database.NewDatabaseInstance(sqlxDB, logger)

	// Redis
	redisClient, err := fernredis.NewClient(fernredis.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()

	locker := fernredis.NewLocker(redisClient, "fern:lock:")

	// Repositories
	partnerRepo := partnercompany.NewRepository(db, logger)
	profileRepo := companyprofile.NewRepository(db, logger)
	disclosureRepo := disclosure.NewRepository(db, logger)
	statementRepo := financialstatement.NewRepository(db, logger)

	// DART client and synchronizers
	dartClient := dart.NewClient(dart.Config{
		BaseURL: cfg.DartBaseURL,
		APIKey:  cfg.DartAPIKey,
		Timeout: cfg.DartTimeout,
	}, logger)

	producer := fernkafka.NewProducer(fernkafka.ProducerConfig{
		Brokers:      cfg.KafkaBrokers,
		Topic:        cfg.KafkaOutputTopic,
		BatchSize:    cfg.KafkaBatchSize,
		BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
		RequiredAcks: cfg.KafkaRequiredAcks,
		Compression:  cfg.KafkaCompression,
	}, logger)
	defer producer.Close()

	profileSyncer := syncer.NewProfileSyncer(profileRepo, dartClient, logger)
	disclosureSyncer := syncer.NewDisclosureSyncer(disclosureRepo, dartClient, logger)
	financialSyncer := syncer.NewFinancialSyncer(statementRepo, dartClient, logger)
	orchestrator := syncer.NewOrchestrator(profileSyncer, disclosureSyncer, financialSyncer, producer, logger)

	// Dependency injection for route handlers
	container, err := ectoinject.NewDIDefaultContainer()
	if err != nil {
		return fmt.Errorf("failed to create DI container: %w", err)
	}
	if err := ectoinject.RegisterInstance[*partnercompany.Repository](container, partnerRepo); err != nil {
		return fmt.Errorf("failed to register partner repository: %w", err)
	}
	if err := ectoinject.RegisterInstance[*companyprofile.Repository](container, profileRepo); err != nil {
		return fmt.Errorf("failed to register profile repository: %w", err)
	}
	if err := ectoinject.RegisterInstance[*disclosure.Repository](container, disclosureRepo); err != nil {
		return fmt.Errorf("failed to register disclosure repository: %w", err)
	}
	if err := ectoinject.RegisterInstance[*financialstatement.Repository](container, statementRepo); err != nil {
		return fmt.Errorf("failed to register statement repository: %w", err)
	}
	if err := ectoinject.RegisterInstance[*syncer.Orchestrator](container, orchestrator); err != nil {
		return fmt.Errorf("failed to register orchestrator: %w", err)
	}

	// Kafka consumer
	var consumer *fernkafka.Consumer
	if cfg.KafkaConsumerEnabled {
		consumer = fernkafka.NewConsumer(fernkafka.ConsumerConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaInputTopic,
			GroupID: cfg.KafkaConsumerGroup,
		}, logger, orchestrator.HandlePartnerEvent)
		if err := consumer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start kafka consumer: %w", err)
		}
		defer consumer.Stop()
	}

	// Periodic refresh
	if cfg.RefreshEnabled {
		refreshScheduler := scheduler.NewScheduler(
			partnerRepo, profileRepo, profileSyncer, disclosureSyncer, financialSyncer, locker,
			scheduler.Config{
				Interval:           cfg.RefreshInterval,
				LockTTL:            cfg.RefreshLockTTL,
				BatchSize:          cfg.RefreshBatchSize,
				RefreshDisclosures: cfg.RefreshDisclosures,
			}, logger)
		if err := refreshScheduler.Start(ctx); err != nil {
			return fmt.Errorf("failed to start refresh scheduler: %w", err)
		}
		defer refreshScheduler.Stop(context.Background())
	}

	// HTTP server
	e := echo.New()
	e.HideBanner = true
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))

	checker := health.NewChecker(sqlxDB, redisPinger{redisClient}, version())
	checker.RegisterRoutes(e)
	checker.SetReady(true)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	partner.Register(api.Group("/partners"))
	company.Register(api.Group("/companies"))

	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second
	e.Server.ReadHeaderTimeout = time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second
	e.Server.MaxHeaderBytes = cfg.MaxHeaderBytes

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("Starting HTTP server on port %d", cfg.Port)
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server failed: %w", err)
	case sig := <-sigCh:
		logger.Infof("Received signal %s, shutting down", sig)
	case <-ctx.Done():
	}

	checker.SetReady(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("HTTP server shutdown failed")
	}
	return nil
}

type redisPinger struct {
	client *fernredis.Client
}

func (p redisPinger) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return p.client.Ping(ctx)
}

func version() string {
	if v := os.Getenv("APP_VERSION"); v != "" {
		return v
	}
	return "dev"
}
