// Package main provides the entry point for the evaluation API server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/CanyenPalmer/Best-Bet-NFL/internal/api"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/cache"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/config"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/database"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/engine"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/evaluation"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/health"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/logger"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/metrics"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/profile"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/provider"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/repository"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/resolver"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/scheduler"
)

// Build information - set via ldflags
var (
	Version = "dev"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"season":      cfg.Provider.Season,
		"version":     Version,
	}).Info("Best Bet NFL evaluation server starting")

	metrics.InitRegistry()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Wire the evaluation pipeline: provider -> resolver -> profiles ->
	// engine -> facade
	httpClient := provider.NewRateLimitedHTTPClient(provider.HTTPClientConfig{
		Timeout:           cfg.ProviderTimeout(),
		MaxRetries:        cfg.Provider.MaxRetries,
		RetryWaitMin:      100 * time.Millisecond,
		RetryWaitMax:      5 * time.Second,
		RateLimit:         cfg.Provider.RateLimit,
		CircuitBreakerMax: 5,
	}, appLog)
	defer httpClient.Close()

	ttl := cfg.CacheTTL()
	caches := &provider.Caches{
		Teams:     cache.NewStore("teams", ttl, cfg.Cache.TeamsMaxSize),
		Rosters:   cache.NewStore("rosters", ttl, cfg.Cache.RostersMaxSize),
		GameLogs:  cache.NewStore("gamelogs", ttl, cfg.Cache.GameLogsMaxSize),
		TeamStats: cache.NewStore("teamstats", ttl, cfg.Cache.TeamStatsMaxSize),
	}

	resolverStore := cache.NewStore("resolver", ttl, cfg.Cache.ResolverMaxSize)
	profileStore := cache.NewStore("profiles", ttl, cfg.Cache.ProfilesMaxSize)

	client := provider.NewClient(httpClient, cfg.Provider.SiteAPIURL, cfg.Provider.WebAPIURL,
		cfg.Provider.APIKey, caches, appLog)
	res := resolver.New(client, resolverStore, appLog)
	builder := profile.NewBuilder(client, res, profileStore, cfg.Provider.Season, appLog)
	predictor := engine.New(builder, appLog)

	stores := &evaluation.Stores{
		Provider: caches,
		Resolver: resolverStore,
		Profiles: profileStore,
	}

	// Optional evaluation history store
	var db *database.DB
	var history repository.EvaluationRepository
	if cfg.Features.HistoryEnabled {
		db, err = database.Initialize(ctx, cfg)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to initialize evaluation history database")
		}
		defer db.Close()
		history = repository.NewPostgresEvaluationRepository(db)
		appLog.Info("Evaluation history store enabled")
	}

	service := evaluation.NewService(predictor, client, stores, history,
		cfg.Provider.Season, logger.NewEvalLogger(appLog))

	// Health server
	healthCfg := health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Logger:      appLog,
		Provider:    client,
	}
	if db != nil {
		healthCfg.DB = db
	}
	healthServer := health.NewServer(healthCfg)
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	// Metrics server
	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle(cfg.Metrics.Path, metrics.Handler())
			addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
			appLog.WithField("addr", addr).Info("Metrics server starting")
			if err := http.ListenAndServe(addr, mux); err != nil {
				appLog.WithError(err).Error("Metrics server error")
			}
		}()
	}

	// Periodic cache refresh
	var sched *scheduler.Scheduler
	if cfg.Features.CacheWarmEnabled {
		sched = scheduler.NewScheduler(service, appLog)
		if err := sched.ScheduleCacheRefresh(cfg.Schedule.CacheRefresh); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule cache refresh")
		}
		if err := sched.Start(); err != nil {
			appLog.WithError(err).Fatal("Failed to start scheduler")
		}
	}

	// Evaluation API server
	apiServer := api.NewServer(service, cfg.Server.Port, cfg.Server.CORSAllowAll, appLog)
	if err := apiServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start API server")
	}

	healthServer.SetReady(true)
	appLog.WithFields(logrus.Fields{
		"port":       cfg.Server.Port,
		"history":    cfg.Features.HistoryEnabled,
		"cache_warm": cfg.Features.CacheWarmEnabled,
		"metrics":    cfg.Metrics.Enabled,
	}).Info("Evaluation server is running")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	cancel()
	if sched != nil {
		if err := sched.Stop(); err != nil {
			appLog.WithError(err).Error("Error stopping scheduler")
		}
	}
	if err := apiServer.Shutdown(); err != nil {
		appLog.WithError(err).Error("Error during API server shutdown")
	}

	time.Sleep(1 * time.Second)
	appLog.Info("Evaluation server shut down successfully")
}
