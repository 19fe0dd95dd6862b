package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/teamsync/onboard/internal/api"
	"github.com/teamsync/onboard/internal/cli"
	"github.com/teamsync/onboard/internal/config"
	"github.com/teamsync/onboard/internal/db"
	"github.com/teamsync/onboard/internal/platform"
	"github.com/teamsync/onboard/internal/security"
	"github.com/teamsync/onboard/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	location := mustLoadLocation(cfg.Timezone)
	time.Local = location

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer zapLogger.Sync()

	if len(os.Args) > 1 && os.Args[1] == "digest" {
		if err := cli.RunDigestCommand(context.Background(), cfg, zapLogger); err != nil {
			log.Fatalf("digest failed: %v", err)
		}
		return
	}

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}
	repositories := db.NewRepositories(database)

	platformClient := platform.NewRetryClient(platform.NewHTTPClient(cfg.PlatformBaseURL, cfg.PlatformAuthToken))

	signer, err := security.NewLinkSigner(cfg.LinkSigningKey, cfg.LinkTTL, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("link signer init failed: %v", err)
	}

	onboarding := services.NewOnboardingService(
		platformClient,
		repositories.Journal,
		signer,
		cfg.SupportEmail,
		cfg.EnterpriseSupportEmail,
		zapLogger,
	)
	engagement := services.NewEngagementService(platformClient)
	interventions := services.NewInterventionService(
		platformClient,
		repositories.Journal,
		cfg.SlackEscalationChannel,
		cfg.SlackAccessToken,
		zapLogger,
	)
	milestones := services.NewMilestoneService(platformClient)
	digest := services.NewDigestService(platformClient, repositories.Teams, engagement, zapLogger)

	handler := api.NewHandler(onboarding, engagement, interventions, milestones, digest, zapLogger)

	app := fiber.New(fiber.Config{
		AppName:               "TeamSync Onboard",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	api.RegisterRoutes(app, handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("onboard listening on http://0.0.0.0:%s (db: %s, tz: %s)", cfg.Port, cfg.DBPath, location.String())
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func mustLoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid TZ %q, falling back to UTC", name)
		return time.UTC
	}
	return location
}
