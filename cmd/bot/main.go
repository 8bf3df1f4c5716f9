// Package main provides the entry point for the wagering bot.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/pitchside/internal/bookmaker"
	"github.com/yourusername/pitchside/internal/bot"
	"github.com/yourusername/pitchside/internal/config"
	"github.com/yourusername/pitchside/internal/database"
	"github.com/yourusername/pitchside/internal/datasource"
	"github.com/yourusername/pitchside/internal/engine"
	"github.com/yourusername/pitchside/internal/health"
	"github.com/yourusername/pitchside/internal/ledger"
	"github.com/yourusername/pitchside/internal/logger"
	"github.com/yourusername/pitchside/internal/metrics"
	"github.com/yourusername/pitchside/internal/repository"
	"github.com/yourusername/pitchside/internal/scheduler"
	"github.com/yourusername/pitchside/internal/settlement"
	"github.com/yourusername/pitchside/internal/staking"
	"github.com/yourusername/pitchside/internal/tracing"
)

// Build information - set via ldflags
var (
	Version = "dev"
)

var (
	configFile   string
	strategyName string
	stakingName  string
	bookieName   string
	runOnce      bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&strategyName, "strategy", "B", "", "Strategy name override")
	rootCmd.PersistentFlags().StringVarP(&stakingName, "staking", "S", "", "Staking method override")
	rootCmd.PersistentFlags().StringVarP(&bookieName, "bookmaker", "K", "", "Bookmaker override")
	rootCmd.PersistentFlags().BoolVar(&runOnce, "once", false, "Run a single placement pass and exit")
}

var rootCmd = &cobra.Command{
	Use:   "pitchside",
	Short: "Fixed-odds wagering bot",
	Long:  `Evaluates upcoming fixtures against league rating models and places value bets.`,
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
	if stakingName != "" {
		cfg.Staking.Method = stakingName
	}
	if bookieName != "" {
		cfg.Bookmaker.Name = bookieName
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"strategy":    cfg.Strategy.Name,
		"staking":     cfg.Staking.Method,
		"bookmaker":   cfg.Bookmaker.Name,
		"version":     Version,
	}).Info("Pitchside starting")

	if err := tracing.Initialize(tracing.Config{
		ServiceName:  cfg.App.Name,
		Enabled:      cfg.Tracing.Enabled,
		SamplingRate: cfg.Tracing.SamplingRate,
		DaemonAddr:   cfg.Tracing.DaemonAddr,
	}, appLog); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	// Fail fast on an unknown strategy or staking method before any
	// external connection is opened.
	store, err := ledger.NewStore(cfg.Strategy.ConfigDir, cfg.Strategy.HistoryDir)
	if err != nil {
		return fmt.Errorf("failed to open strategy store: %w", err)
	}
	led, err := ledger.Open(store, cfg.Strategy.Name, appLog)
	if err != nil {
		return fmt.Errorf("failed to open strategy %q: %w", cfg.Strategy.Name, err)
	}
	policy, err := staking.New(cfg.Staking.Method, staking.Config{
		KellyFraction: cfg.Staking.KellyFraction,
		Percent:       cfg.Staking.Percent,
		LevelAmount:   cfg.Staking.LevelAmount,
		BackableSides: cfg.Staking.BackableSides,
	})
	if err != nil {
		return fmt.Errorf("failed to build staking policy: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	appLog.Info("Database connection established")

	betRepo := repository.NewPostgresBetRepository(db)
	fixtureRepo := repository.NewPostgresFixtureRepository(db)

	book, err := bookmaker.New(&cfg.Bookmaker, appLog)
	if err != nil {
		return fmt.Errorf("failed to build bookmaker client: %w", err)
	}
	defer book.Close()

	if err := book.Login(ctx); err != nil {
		return fmt.Errorf("bookmaker login failed: %w", err)
	}
	appLog.WithField("bookmaker", book.Name()).Info("Bookmaker session established")

	results := datasource.NewFootballAPIClient(&cfg.Results, appLog)
	history := datasource.NewHistoryProvider(appLog)
	audit := logger.NewAuditLogger(appLog)

	pacer := bookmaker.NewPacer(
		time.Duration(cfg.Bookmaker.PaceMinSeconds)*time.Second,
		time.Duration(cfg.Bookmaker.PaceMaxSeconds)*time.Second,
	)
	evaluator := engine.NewEvaluator(policy, appLog)
	eng := engine.New(betRepo, book, led, evaluator, pacer, appLog)
	orchestrator := bot.New(cfg, eng, results, history, fixtureRepo, audit, appLog)
	settler := settlement.New(betRepo, results, led, audit, appLog)

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		healthSrv := health.NewServer(health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Port:        fmt.Sprintf("%d", cfg.Metrics.Port),
			MetricsPath: cfg.Metrics.Path,
			Metrics:     metrics.Handler(),
			Logger:      appLog,
			DB:          db,
		})
		if err := healthSrv.Start(ctx); err != nil {
			return fmt.Errorf("failed to start health server: %w", err)
		}
		healthSrv.SetReady(true)
	}

	if runOnce || !cfg.Scheduler.Enabled {
		summary, err := orchestrator.Run(ctx)
		if err != nil {
			return fmt.Errorf("placement run failed: %w", err)
		}
		appLog.WithFields(logrus.Fields{
			"fixtures": summary.Fixtures(),
			"placed":   summary.Placed(),
		}).Info("Run finished")
		return nil
	}

	sched := scheduler.NewScheduler(appLog)
	if err := sched.SchedulePlacement(cfg.Scheduler.PlacementCron, func(ctx context.Context) error {
		_, err := orchestrator.Run(ctx)
		return err
	}); err != nil {
		return err
	}
	if err := sched.ScheduleSettlement(cfg.Scheduler.SettlementCron, func(ctx context.Context) error {
		_, err := settler.Run(ctx)
		return err
	}); err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}

	appLog.WithField("next_run", sched.GetNextRun()).Info("Scheduler running")
	<-ctx.Done()
	appLog.Info("Shutting down")

	return sched.Stop()
}
