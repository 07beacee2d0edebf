package cmd

import (
	"context"
	"fmt"
	"time"

	"mikune/application"
	"mikune/bot"
	"mikune/cache"
	"mikune/config"
	"mikune/database"
	"mikune/events"
	"mikune/observability"
	"mikune/repository"
	"mikune/service"

	log "github.com/sirupsen/logrus"
)

// ConfigureLogging applies the configured level and switches to JSON output
// in production
func ConfigureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("log_level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// storage is the persistence selected by STORAGE_BACKEND
type storage struct {
	uowFactory service.UnitOfWorkFactory
	runs       service.InterestRunRepository
	close      func()
}

func openStorage(ctx context.Context, cfg *config.Config, bus *events.Bus) (*storage, error) {
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		log.Info("Connecting to database...")
		db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Info("Database connection established successfully")
		return &storage{
			uowFactory: repository.NewUnitOfWorkFactory(db, bus),
			runs:       repository.NewInterestRunRepository(db),
			close:      db.Close,
		}, nil

	default:
		log.WithField("data_file", cfg.DataFile).Info("Using JSON snapshot storage")
		return &storage{
			uowFactory: repository.NewLocalUnitOfWorkFactory(repository.NewFileSnapshotStore(cfg.DataFile), bus),
			close:      func() {},
		}, nil
	}
}

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	ConfigureLogging(cfg)

	log.WithFields(log.Fields{
		"environment": cfg.Environment,
		"storage":     cfg.StorageBackend,
	}).Info("Starting mikune...")

	// Metrics
	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	metrics := observability.GetMetrics()

	eventBus := events.NewBus()
	metrics.Attach(eventBus)

	store, err := openStorage(ctx, cfg, eventBus)
	if err != nil {
		return err
	}
	defer store.close()

	// Optional NATS mirror
	var bridge *events.NATSBridge
	if cfg.NATSServers != "" {
		bridge = events.NewNATSBridge(cfg.NATSServers)
		if err := bridge.Connect(); err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		if err := bridge.EnsureStream(); err != nil {
			bridge.Close()
			return fmt.Errorf("failed to ensure NATS stream: %w", err)
		}
		bridge.OnPublished(metrics.RecordNATSMessagePublished)
		bridge.Attach(eventBus)
		log.WithField("servers", cfg.NATSServers).Info("Mirroring economy events to NATS")
	}

	// Optional Redis leaderboard cache. Left as a nil interface when disabled.
	var leaderboardCache service.LeaderboardCache
	var redisCache *cache.LeaderboardCache
	if cfg.RedisURL != "" {
		redisCache, err = cache.NewLeaderboardCache(cfg.RedisURL, cfg.LeaderboardCacheTTL)
		if err != nil {
			return fmt.Errorf("failed to create leaderboard cache: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = redisCache.Ping(pingCtx)
		cancel()
		if err != nil {
			log.WithError(err).Warn("Redis is unreachable, leaderboard cache disabled")
			redisCache.Close()
			redisCache = nil
		} else {
			redisCache.InvalidateOn(eventBus)
			leaderboardCache = redisCache
			log.Info("Leaderboard cache enabled")
		}
	}

	services := bot.Services{
		Accounts:   service.NewAccountService(store.uowFactory, leaderboardCache),
		Ledger:     service.NewLedgerService(store.uowFactory, cfg),
		Loans:      service.NewLoanService(store.uowFactory, cfg),
		Properties: service.NewPropertyService(store.uowFactory, cfg),
		Rewards:    service.NewRewardService(store.uowFactory),
		Shop:       service.NewShopService(store.uowFactory),
	}

	var stopWorker func()
	if cfg.InterestSweepEnabled {
		worker := application.NewInterestWorker(services.Ledger, store.runs, cfg.InterestSweepHour)
		stopWorker = worker.Start(ctx)
	}

	log.Info("Initializing Discord bot...")
	discordBot, err := bot.New(bot.Config{
		Token:   cfg.DiscordToken,
		GuildID: cfg.DiscordGuildID,
	}, cfg, services, metrics)
	if err != nil {
		if stopWorker != nil {
			stopWorker()
		}
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}

	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	log.Info("Shutting down...")

	if err := discordBot.Close(); err != nil {
		log.WithError(err).Error("Error closing Discord bot")
	}
	if stopWorker != nil {
		stopWorker()
	}
	if bridge != nil {
		if err := bridge.Close(); err != nil {
			log.WithError(err).Error("Error closing NATS bridge")
		}
	}
	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			log.WithError(err).Error("Error closing leaderboard cache")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
		log.WithError(err).Error("Error shutting down metrics")
	}

	log.Info("Shutdown completed")
	return nil
}
