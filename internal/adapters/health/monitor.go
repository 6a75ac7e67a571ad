// Package health runs the periodic proxy health sweep.
package health

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/reelpilot/autopost/internal/domain"
)

// ProxyService is the slice of the application the monitor drives.
type ProxyService interface {
	ListProxiesDueForCheck(ctx context.Context, maxAge time.Duration, limit int) ([]domain.Proxy, error)
	ProbeProxy(ctx context.Context, proxyID uuid.UUID) (domain.HealthResult, error)
}

// Monitor probes every proxy whose last check has aged out. Proxies are probed
// sequentially within a sweep; the demotion/reset arithmetic is atomic at the
// store, so overlapping sweeps cannot lose counts.
type Monitor struct {
	logger    *slog.Logger
	service   ProxyService
	interval  time.Duration
	maxAge    time.Duration
	batchSize int
}

// NewMonitor constructs the sweep loop with sane defaults.
func NewMonitor(logger *slog.Logger, service ProxyService, interval, maxAge time.Duration, batchSize int) *Monitor {
	if interval <= 0 {
		interval = time.Minute
	}
	if maxAge <= 0 {
		maxAge = 5 * time.Minute
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Monitor{
		logger:    logger,
		service:   service,
		interval:  interval,
		maxAge:    maxAge,
		batchSize: batchSize,
	}
}

// Run executes the periodic health sweep until context cancellation.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		if err := m.sweepOnce(ctx); err != nil {
			m.logger.ErrorContext(ctx, "proxy health sweep failed",
				"module", "health.monitor",
				"layer", "adapter",
				"operation", "sweep_once",
				"outcome", "failure",
				"error", err,
			)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (m *Monitor) sweepOnce(ctx context.Context) error {
	due, err := m.service.ListProxiesDueForCheck(ctx, m.maxAge, m.batchSize)
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}

	healthy := 0
	unhealthy := 0
	for _, px := range due {
		result, err := m.service.ProbeProxy(ctx, px.ProxyID)
		if err != nil {
			m.logger.WarnContext(ctx, "proxy probe errored",
				"module", "health.monitor",
				"layer", "adapter",
				"operation", "probe_proxy",
				"outcome", "failure",
				"proxy_id", px.ProxyID,
				"error", err,
			)
			continue
		}
		if result.Healthy {
			healthy++
		} else {
			unhealthy++
		}
	}
	m.logger.InfoContext(ctx, "proxy health sweep completed",
		"module", "health.monitor",
		"layer", "adapter",
		"operation", "sweep_once",
		"outcome", "success",
		"checked_count", len(due),
		"healthy_count", healthy,
		"unhealthy_count", unhealthy,
	)
	return nil
}
