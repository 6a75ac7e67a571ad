package application

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/reelpilot/autopost/internal/domain"
	"github.com/reelpilot/autopost/internal/ports"
)

// CreateProxy registers a pool proxy. Credentials, when provided, are sealed
// before storage. host:port uniqueness is enforced by the store.
func (s *Service) CreateProxy(ctx context.Context, req CreateProxyRequest) (domain.Proxy, error) {
	if req.Host == "" || req.Port <= 0 || req.Port > 65535 {
		return domain.Proxy{}, fmt.Errorf("%w: host and a valid port are required", domain.ErrInvalidRequest)
	}
	switch req.Protocol {
	case domain.ProxyHTTP, domain.ProxyHTTPS, domain.ProxySOCKS5:
	default:
		return domain.Proxy{}, fmt.Errorf("%w: unsupported proxy protocol %q", domain.ErrInvalidRequest, req.Protocol)
	}
	var sealed string
	if req.Password != "" {
		var err error
		sealed, err = s.vault.Seal(req.Password)
		if err != nil {
			return domain.Proxy{}, err
		}
	}
	return s.proxies.Create(ctx, ports.CreateProxyParams{
		Host:           req.Host,
		Port:           req.Port,
		Username:       req.Username,
		SealedPassword: sealed,
		Protocol:       req.Protocol,
		Country:        req.Country,
	})
}

// GetProxy returns one pool proxy.
func (s *Service) GetProxy(ctx context.Context, proxyID uuid.UUID) (domain.Proxy, error) {
	return s.proxies.Get(ctx, proxyID)
}

// ListProxies returns the whole pool.
func (s *Service) ListProxies(ctx context.Context) ([]domain.Proxy, error) {
	return s.proxies.List(ctx)
}

// UpdateProxy applies mutable fields; a new password is sealed here.
func (s *Service) UpdateProxy(ctx context.Context, proxyID uuid.UUID, req UpdateProxyRequest) (domain.Proxy, error) {
	params := ports.UpdateProxyParams{
		Host:     req.Host,
		Port:     req.Port,
		Username: req.Username,
		Protocol: req.Protocol,
		Country:  req.Country,
		IsActive: req.IsActive,
	}
	if req.Port != nil && (*req.Port <= 0 || *req.Port > 65535) {
		return domain.Proxy{}, fmt.Errorf("%w: port out of range", domain.ErrInvalidRequest)
	}
	if req.Password != nil {
		sealed, err := s.vault.Seal(*req.Password)
		if err != nil {
			return domain.Proxy{}, err
		}
		params.SealedPassword = &sealed
	}
	return s.proxies.Update(ctx, proxyID, params, s.nowFn())
}

// DeleteProxy removes a proxy that no account references.
func (s *Service) DeleteProxy(ctx context.Context, proxyID uuid.UUID) error {
	if _, err := s.proxies.Get(ctx, proxyID); err != nil {
		return err
	}
	count, err := s.accounts.CountByProxy(ctx, proxyID)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: proxy is assigned to %d account(s)", domain.ErrInvalidRequest, count)
	}
	return s.proxies.Delete(ctx, proxyID)
}

// ProbeProxy runs one connectivity check and folds the outcome into the
// proxy's health counters: success resets fail_count and reactivates; failure
// increments it, demoting the proxy once the count reaches the threshold.
// A demotion (active -> inactive) emits a proxy.demoted event.
func (s *Service) ProbeProxy(ctx context.Context, proxyID uuid.UUID) (domain.HealthResult, error) {
	proxy, err := s.proxies.Get(ctx, proxyID)
	if err != nil {
		return domain.HealthResult{}, err
	}

	creds := ports.ProxyCredentials{Username: proxy.Username}
	if proxy.SealedPassword != "" {
		password, err := s.vault.Unseal(proxy.SealedPassword)
		if err != nil {
			return domain.HealthResult{}, err
		}
		creds.Password = password
	}

	now := s.nowFn()
	healthy := s.prober.Probe(ctx, proxy, creds) == nil

	updated, err := s.proxies.ApplyProbeResult(ctx, proxyID, healthy, now)
	if err != nil {
		return domain.HealthResult{}, err
	}
	if proxy.IsActive && !updated.IsActive {
		payload, _ := json.Marshal(map[string]any{
			"proxy_id":   updated.ProxyID,
			"host":       updated.Host,
			"port":       updated.Port,
			"fail_count": updated.FailCount,
			"demoted_at": now,
		})
		_ = s.outbox.Enqueue(ctx, ports.OutboxEvent{
			EventID:      uuid.New(),
			EventType:    ports.EventProxyDemoted,
			PartitionKey: updated.ProxyID.String(),
			Payload:      payload,
			OccurredAt:   now,
		})
	}
	return domain.HealthResult{ProxyID: proxyID, Healthy: healthy, CheckedAt: now}, nil
}

// ListProxiesDueForCheck returns proxies whose last check is older than
// maxAge (or never checked), for the health monitor's next sweep.
func (s *Service) ListProxiesDueForCheck(ctx context.Context, maxAge time.Duration, limit int) ([]domain.Proxy, error) {
	return s.proxies.ListDueForCheck(ctx, s.nowFn().Add(-maxAge), limit)
}
