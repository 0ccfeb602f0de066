// Package main provides a CLI for evaluating wagers from a JSON file
// without running the API server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/CanyenPalmer/Best-Bet-NFL/internal/cache"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/config"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/engine"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/evaluation"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/logger"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/metrics"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/profile"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/provider"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/resolver"
)

var (
	configFile string
	inputFile  string
	timeout    time.Duration

	cfg     *config.Config
	appLog  *logrus.Logger
	service *evaluation.Service
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Path to a JSON file with singles and parlays")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Overall evaluation timeout")
	rootCmd.MarkFlagRequired("input")
}

var rootCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a batch of NFL wagers",
	Long: `Evaluates single bets and parlays from a JSON batch file and prints
the per-item probabilities, payouts and expected values as JSON.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(); err != nil {
			return fmt.Errorf("failed to set up evaluation pipeline: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setup() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	appLog = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	metrics.InitRegistry()

	httpClient := provider.NewRateLimitedHTTPClient(provider.HTTPClientConfig{
		Timeout:           cfg.ProviderTimeout(),
		MaxRetries:        cfg.Provider.MaxRetries,
		RetryWaitMin:      100 * time.Millisecond,
		RetryWaitMax:      5 * time.Second,
		RateLimit:         cfg.Provider.RateLimit,
		CircuitBreakerMax: 5,
	}, appLog)

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

	stores := &evaluation.Stores{Provider: caches, Resolver: resolverStore, Profiles: profileStore}
	service = evaluation.NewService(predictor, client, stores, nil,
		cfg.Provider.Season, logger.NewEvalLogger(appLog))

	return nil
}

func runBatch() error {
	raw, err := os.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	var spec evaluation.BatchSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return fmt.Errorf("failed to parse input file: %w", err)
	}

	if len(spec.Singles) == 0 && len(spec.Parlays) == 0 {
		return fmt.Errorf("input file contains no singles or parlays")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	batch := service.EvaluateBatch(ctx, spec)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(batch)
}
