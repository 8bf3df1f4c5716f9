// Package main provides the entry point for the settlement runner.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/pitchside/internal/config"
	"github.com/yourusername/pitchside/internal/database"
	"github.com/yourusername/pitchside/internal/datasource"
	"github.com/yourusername/pitchside/internal/ledger"
	"github.com/yourusername/pitchside/internal/logger"
	"github.com/yourusername/pitchside/internal/repository"
	"github.com/yourusername/pitchside/internal/settlement"
)

var (
	configFile   string
	strategyName string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&strategyName, "strategy", "B", "", "Strategy name override")
}

var rootCmd = &cobra.Command{
	Use:   "settler",
	Short: "Settle open bets against concluded fixtures",
	Long:  `Fetches final results for every unsettled bet and returns winnings to the league bankrolls.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	cfg, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if strategyName != "" {
		cfg.Strategy.Name = strategyName
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithField("strategy", cfg.Strategy.Name).Info("Settlement run starting")

	store, err := ledger.NewStore(cfg.Strategy.ConfigDir, cfg.Strategy.HistoryDir)
	if err != nil {
		return fmt.Errorf("failed to open strategy store: %w", err)
	}
	led, err := ledger.Open(store, cfg.Strategy.Name, appLog)
	if err != nil {
		return fmt.Errorf("failed to open strategy %q: %w", cfg.Strategy.Name, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	betRepo := repository.NewPostgresBetRepository(db)
	results := datasource.NewFootballAPIClient(&cfg.Results, appLog)
	audit := logger.NewAuditLogger(appLog)

	settler := settlement.New(betRepo, results, led, audit, appLog)
	summary, err := settler.Run(ctx)
	if err != nil {
		return fmt.Errorf("settlement run failed: %w", err)
	}

	aggregate := led.Consolidated()
	appLog.WithFields(logrus.Fields{
		"settled":  summary.Settled,
		"pending":  summary.Pending,
		"wins":     summary.Wins,
		"losses":   summary.Losses,
		"credited": summary.Credited.StringFixed(2),
		"bankroll": aggregate.Bankroll,
	}).Info("Settlement run finished")

	return nil
}
