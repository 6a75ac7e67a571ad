package application

import (
	"time"

	"github.com/reelpilot/autopost/internal/domain"
	"github.com/reelpilot/autopost/internal/ports"
)

// Service implements the posting-automation core: job admission and lifecycle,
// account lifecycle, proxy health transitions, and video bookkeeping. All
// long-running work (actual posting, actual probing) lives with external
// executors that report back through the narrow transition methods here.
type Service struct {
	cfg           Config
	accounts      ports.AccountRepository
	proxies       ports.ProxyRepository
	videos        ports.VideoRepository
	jobs          ports.JobRepository
	outbox        ports.OutboxRepository
	cancellations ports.CancellationStore
	vault         ports.SecretVault
	prober        ports.ProxyProber
	nowFn         func() time.Time
}

type Dependencies struct {
	Config        Config
	Accounts      ports.AccountRepository
	Proxies       ports.ProxyRepository
	Videos        ports.VideoRepository
	Jobs          ports.JobRepository
	Outbox        ports.OutboxRepository
	Cancellations ports.CancellationStore
	Vault         ports.SecretVault
	Prober        ports.ProxyProber
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.DefaultDailyPostLimit <= 0 {
		cfg.DefaultDailyPostLimit = 3
	}
	if cfg.DefaultMaxAttempts <= 0 {
		cfg.DefaultMaxAttempts = domain.DefaultMaxAttempts
	}
	if cfg.CancelFlagTTL <= 0 {
		cfg.CancelFlagTTL = 24 * time.Hour
	}
	if cfg.StuckJobCeiling <= 0 {
		cfg.StuckJobCeiling = 30 * time.Minute
	}
	return &Service{
		cfg:           cfg,
		accounts:      deps.Accounts,
		proxies:       deps.Proxies,
		videos:        deps.Videos,
		jobs:          deps.Jobs,
		outbox:        deps.Outbox,
		cancellations: deps.Cancellations,
		vault:         deps.Vault,
		prober:        deps.Prober,
		nowFn:         func() time.Time { return time.Now().UTC() },
	}
}
