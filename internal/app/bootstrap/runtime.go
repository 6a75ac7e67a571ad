package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	cacheadapter "github.com/reelpilot/autopost/internal/adapters/cache"
	eventadapter "github.com/reelpilot/autopost/internal/adapters/events"
	"github.com/reelpilot/autopost/internal/adapters/health"
	"github.com/reelpilot/autopost/internal/adapters/netprobe"
	"github.com/reelpilot/autopost/internal/adapters/postgres"
	"github.com/reelpilot/autopost/internal/adapters/security"
	"github.com/reelpilot/autopost/internal/application"
	"github.com/reelpilot/autopost/internal/ports"
)

type Runtime struct {
	cfg       Config
	logger    *slog.Logger
	service   *application.Service
	outbox    *eventadapter.OutboxWorker
	monitor   *health.Monitor
	cleanupFn func(context.Context)
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	logger.Info("bootstrapping posting worker", "service_id", cfg.ServiceID)

	vault, err := security.NewAESVault(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("init vault: %w", err)
	}

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	sqlDB, err := pool.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm sql db: %w", err)
	}

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	redisClient, err := cacheadapter.Connect(ctx, cfg.RedisURL)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("init redis client: %w", err)
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	repos := postgres.NewRepositories(pool)
	cancellations := cacheadapter.NewRedisCancellationStore(redisClient)
	prober := netprobe.NewHTTPProber(cfg.ProxyProbeURL, cfg.ProxyProbeTimeout)

	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			DefaultDailyPostLimit: cfg.DefaultDailyPostLimit,
			DefaultMaxAttempts:    cfg.DefaultMaxAttempts,
			CancelFlagTTL:         cfg.CancelFlagTTL,
			StuckJobCeiling:       cfg.StuckJobCeiling,
		},
		Accounts:      repos.Accounts,
		Proxies:       repos.Proxies,
		Videos:        repos.Videos,
		Jobs:          repos.Jobs,
		Outbox:        repos.Outbox,
		Cancellations: cancellations,
		Vault:         vault,
		Prober:        prober,
	})

	var publisher ports.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, nil)
		if err != nil {
			_ = sqlDB.Close()
			_ = redisClient.Close()
			return nil, fmt.Errorf("init kafka publisher: %w", err)
		}
		publisher = kafkaPublisher
	} else {
		logger.Warn("no kafka brokers configured; events will only be logged")
		publisher = eventadapter.NewLoggingPublisher(logger)
	}

	outbox := eventadapter.NewOutboxWorker(
		logger,
		repos.Outbox,
		publisher,
		cfg.OutboxPollInterval,
		cfg.OutboxBatchSize,
		cfg.OutboxClaimTTL,
		cfg.OutboxMaxRetries,
	)

	monitor := health.NewMonitor(
		logger,
		svc,
		cfg.ProxyCheckInterval,
		cfg.ProxyCheckMaxAge,
		cfg.ProxyCheckBatch,
	)

	return &Runtime{
		cfg:     cfg,
		logger:  logger,
		service: svc,
		outbox:  outbox,
		monitor: monitor,
		cleanupFn: func(ctx context.Context) {
			_ = redisClient.Close()
			_ = sqlDB.Close()
		},
	}, nil
}

// Service exposes the wired application core to embedding callers (RPC
// surfaces live in other deployables).
func (r *Runtime) Service() *application.Service {
	return r.service
}

// RunWorker runs the outbox publisher and the proxy health monitor until a
// shutdown signal arrives.
func (r *Runtime) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		r.logger.Info("outbox worker started")
		if err := r.outbox.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("outbox worker: %w", err)
		}
	}()
	go func() {
		r.logger.Info("proxy health monitor started")
		if err := r.monitor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("health monitor: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		r.logger.Info("shutdown signal received")
	case err := <-errCh:
		r.logger.Error("worker failure", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r.cleanupFn(shutdownCtx)
	return nil
}
