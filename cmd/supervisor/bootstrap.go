package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/xeno347/supervisor-final/internal/api"
	"github.com/xeno347/supervisor-final/internal/cli"
	"github.com/xeno347/supervisor-final/internal/harvest"
	"github.com/xeno347/supervisor-final/internal/harvest/harvestobs"
	"github.com/xeno347/supervisor-final/internal/logger"
	"github.com/xeno347/supervisor-final/internal/notify"
	"github.com/xeno347/supervisor-final/internal/session"
	"github.com/xeno347/supervisor-final/internal/store"
	"github.com/xeno347/supervisor-final/internal/trace"
	"github.com/xeno347/supervisor-final/internal/triplog"
)

// initializeSystem initializes logger and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

// openSession opens the local session store. A failure is logged and the
// commands fall back to the configured identity.
func openSession(ctx context.Context, cfg *store.Config) *session.Store {
	s, err := session.Open(ctx, cfg.Session.Path)
	if err != nil {
		logger.Warn(ctx, "Session store unavailable", "path", cfg.Session.Path, "error", err)
		return nil
	}
	return s
}

// compressOldTrips gzips journal files past the configured retention
func compressOldTrips(ctx context.Context, j *triplog.Journal, days int) {
	if err := j.CompressOlder(days); err != nil {
		logger.Warn(ctx, "Failed to compress old trip logs", "error", err)
	}
}

// wireEnv builds every dependency the commands share
func wireEnv(ctx context.Context, env *cli.Env, configPath string) (cleanup func(), err error) {
	cfg, err := loadConfig(ctx, configPath)
	if err != nil {
		return func() {}, err
	}
	env.Config = cfg

	sess := openSession(ctx, cfg)
	identities := session.FirstOf{session.Static(cfg.Session.SupervisorID)}
	if sess != nil {
		env.Session = sess
		identities = append(identities, sess)
	}
	env.Identity = identities

	client := api.NewClient(
		api.WithBaseURL(cfg.BaseURL),
		api.WithTimeout(cfg.FetchTimeout()),
		api.WithRateLimit(cfg.Fetch.RequestsPerSecond, 1),
		api.WithLogging(logger.IsDebugEnabled()),
	)

	// Wrap with observability middleware
	env.Fetcher = harvestobs.Wrap(harvest.NewFetcher(client, env.Identity))

	if cfg.Notifications.PushURL != "" {
		env.Push = notify.NewPushNotifier(client, cfg.Notifications.PushURL)
	}

	env.Journal = triplog.New(cfg.TripLog.Dir)
	compressOldTrips(ctx, env.Journal, cfg.TripLog.RetentionDays)

	logger.Debug(ctx, "Supervisor client configured",
		"base_url", cfg.BaseURL,
		"stream_path", cfg.Stream.Path,
		"poll_seconds", cfg.Fetch.PollSeconds,
		"push", cfg.Notifications.PushURL != "",
	)

	return func() {
		if sess != nil {
			_ = sess.Close()
		}
	}, nil
}
