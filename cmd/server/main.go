package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/uptrace/bun/migrate"
	"github.com/voicebridge/payhub/db"
	"github.com/voicebridge/payhub/db/migrations"
	"github.com/voicebridge/payhub/lib/logging"
	"github.com/voicebridge/payhub/lib/service"
	"github.com/voicebridge/payhub/lib/tokens"
	"github.com/voicebridge/payhub/lib/transport"
	"github.com/voicebridge/payhub/provider"
)

func main() {

	c := &service.Config{}

	// Load configuration from environment variables
	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("Failed to load .env file")
	}
	err = envconfig.Process("", c)
	if err != nil {
		log.Fatalf("Error loading environment variables: %v", err)
	}

	// Setup logging to STDOUT or a configured log file
	logger := logging.Logger(c.LogFilePath)

	// Open a DB connection based on the configured DATABASE_URI
	dbConn, err := db.Open(c)
	if err != nil {
		logger.Fatalf("Error initializing db connection: %v", err)
	}

	// Migrate the DB
	startupCtx := context.Background()
	migrator := migrate.NewMigrator(dbConn, migrations.Migrations)
	err = migrator.Init(startupCtx)
	if err != nil {
		logger.Fatalf("Error initializing db migrator: %v", err)
	}
	_, err = migrator.Migrate(startupCtx)
	if err != nil {
		logger.Fatalf("Error migrating database: %v", err)
	}

	// Setup exception tracking with Sentry if configured
	// sentry init needs to happen before the echo middlewares are added
	if c.SentryDSN != "" {
		if err = sentry.Init(sentry.ClientOptions{
			Dsn:              c.SentryDSN,
			IgnoreErrors:     []string{"401"},
			EnableTracing:    c.SentryTracesSampleRate > 0,
			TracesSampleRate: c.SentryTracesSampleRate,
		}); err != nil {
			logger.Errorf("sentry init error: %v", err)
		}
	}

	providerClient := provider.NewClient(
		c.ProviderBaseUrl,
		c.ProviderKeyId,
		c.ProviderKeySecret,
		time.Duration(c.ProviderTimeout)*time.Second,
		logger,
	)

	svc := &service.PayhubService{
		Config:   c,
		DB:       dbConn,
		Logger:   logger,
		Provider: providerClient,
		Ledger:   &service.BunLedger{DB: dbConn},
	}

	// init echo server
	e := transport.InitEcho(c, logger)

	logMw := transport.CreateLoggingMiddleware(logger)
	// strict rate limit for link-issuance requests
	strictRateLimitMiddleware := transport.CreateRateLimitMiddleware(c.StrictRateLimit, c.BurstRateLimit)

	admin := e.Group("", tokens.AdminTokenMiddleware(c.AdminToken), logMw)

	transport.RegisterEndpoints(svc, e, admin, strictRateLimitMiddleware, logMw)

	// Start Prometheus server if necessary
	if svc.Config.EnablePrometheus {
		go transport.StartPrometheusEcho(logger, svc, e)
	}

	// Start server
	go func() {
		if err := e.Start(fmt.Sprintf(":%v", c.Port)); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()

	// All work is request-driven, so shutdown only has to drain in-flight
	// requests. A delivery interrupted mid-credit leaves its CREDITING
	// marker behind for reconciliation, which is the designed posture.
	shutdownCtx, _ := signal.NotifyContext(context.Background(), os.Interrupt)
	<-shutdownCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
	svc.Logger.Info("Payhub exiting gracefully. Goodbye.")
}
