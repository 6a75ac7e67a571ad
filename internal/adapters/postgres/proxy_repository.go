package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/reelpilot/autopost/internal/domain"
	"github.com/reelpilot/autopost/internal/ports"
	"gorm.io/gorm"
)

type proxyRepository struct {
	db *gorm.DB
}

func (r *proxyRepository) Create(ctx context.Context, params ports.CreateProxyParams) (domain.Proxy, error) {
	now := time.Now().UTC()
	rec := proxyModel{
		Host:           params.Host,
		Port:           params.Port,
		Username:       nullableString(params.Username),
		SealedPassword: nullableString(params.SealedPassword),
		Protocol:       string(params.Protocol),
		Country:        nullableString(params.Country),
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Proxy{}, fmt.Errorf("%w: proxy %s:%d already registered", domain.ErrConflict, params.Host, params.Port)
		}
		return domain.Proxy{}, err
	}
	return toDomainProxy(rec), nil
}

func (r *proxyRepository) Get(ctx context.Context, proxyID uuid.UUID) (domain.Proxy, error) {
	var rec proxyModel
	if err := r.db.WithContext(ctx).Where("proxy_id = ?", proxyID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Proxy{}, domain.ErrNotFound
		}
		return domain.Proxy{}, err
	}
	return toDomainProxy(rec), nil
}

func (r *proxyRepository) List(ctx context.Context) ([]domain.Proxy, error) {
	var rows []proxyModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Proxy, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainProxy(row))
	}
	return result, nil
}

func (r *proxyRepository) Update(ctx context.Context, proxyID uuid.UUID, params ports.UpdateProxyParams, updatedAt time.Time) (domain.Proxy, error) {
	changes := map[string]any{"updated_at": updatedAt}
	if params.Host != nil {
		changes["host"] = *params.Host
	}
	if params.Port != nil {
		changes["port"] = *params.Port
	}
	if params.Username != nil {
		changes["username"] = nullableString(*params.Username)
	}
	if params.SealedPassword != nil {
		changes["sealed_password"] = *params.SealedPassword
	}
	if params.Protocol != nil {
		changes["protocol"] = string(*params.Protocol)
	}
	if params.Country != nil {
		changes["country"] = nullableString(*params.Country)
	}
	if params.IsActive != nil {
		changes["is_active"] = *params.IsActive
		// An operator reactivation starts the failure count over.
		if *params.IsActive {
			changes["fail_count"] = 0
		}
	}

	res := r.db.WithContext(ctx).
		Model(&proxyModel{}).
		Where("proxy_id = ?", proxyID).
		Updates(changes)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return domain.Proxy{}, fmt.Errorf("%w: proxy host and port already registered", domain.ErrConflict)
		}
		return domain.Proxy{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Proxy{}, domain.ErrNotFound
	}
	return r.Get(ctx, proxyID)
}

func (r *proxyRepository) Delete(ctx context.Context, proxyID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("proxy_id = ?", proxyID).
		Delete(&proxyModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ApplyProbeResult folds one probe outcome into the health counters with a
// single SQL-side update. Success resets fail_count and reactivates the proxy;
// failure increments fail_count and deactivates once the incremented value
// reaches the threshold. Concurrent probes may reorder but never lose counts.
func (r *proxyRepository) ApplyProbeResult(ctx context.Context, proxyID uuid.UUID, healthy bool, at time.Time) (domain.Proxy, error) {
	changes := map[string]any{
		"last_checked": at,
		"updated_at":   at,
	}
	if healthy {
		changes["fail_count"] = 0
		changes["is_active"] = true
	} else {
		changes["fail_count"] = gorm.Expr("fail_count + 1")
		changes["is_active"] = gorm.Expr("fail_count + 1 < ?", domain.ProxyFailThreshold)
	}

	res := r.db.WithContext(ctx).
		Model(&proxyModel{}).
		Where("proxy_id = ?", proxyID).
		Updates(changes)
	if res.Error != nil {
		return domain.Proxy{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Proxy{}, domain.ErrNotFound
	}
	return r.Get(ctx, proxyID)
}

func (r *proxyRepository) ListDueForCheck(ctx context.Context, cutoff time.Time, limit int) ([]domain.Proxy, error) {
	var rows []proxyModel
	if err := r.db.WithContext(ctx).
		Where("last_checked IS NULL OR last_checked < ?", cutoff).
		Order("last_checked ASC NULLS FIRST").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Proxy, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainProxy(row))
	}
	return result, nil
}
