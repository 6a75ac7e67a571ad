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

type accountRepository struct {
	db *gorm.DB
}

func (r *accountRepository) Create(ctx context.Context, params ports.CreateAccountParams) (domain.Account, error) {
	now := time.Now().UTC()
	rec := accountModel{
		OwnerID:        params.OwnerID,
		Username:       params.Username,
		SealedPassword: params.SealedPassword,
		Email:          nullableString(params.Email),
		PhoneNumber:    nullableString(params.PhoneNumber),
		Status:         string(domain.AccountPending),
		DailyPostLimit: params.DailyPostLimit,
		ProxyID:        params.ProxyID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Account{}, fmt.Errorf("%w: username already registered", domain.ErrConflict)
		}
		return domain.Account{}, err
	}
	return toDomainAccount(rec), nil
}

func (r *accountRepository) Get(ctx context.Context, accountID uuid.UUID) (domain.Account, error) {
	var rec accountModel
	if err := r.db.WithContext(ctx).Where("account_id = ?", accountID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Account{}, domain.ErrNotFound
		}
		return domain.Account{}, err
	}
	return toDomainAccount(rec), nil
}

func (r *accountRepository) GetOwned(ctx context.Context, ownerID, accountID uuid.UUID) (domain.Account, error) {
	var rec accountModel
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Where("owner_id = ?", ownerID).
		Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Account{}, domain.ErrNotFound
		}
		return domain.Account{}, err
	}
	return toDomainAccount(rec), nil
}

func (r *accountRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, status *domain.AccountStatus) ([]domain.Account, error) {
	query := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if status != nil {
		query = query.Where("status = ?", string(*status))
	}
	var rows []accountModel
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Account, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainAccount(row))
	}
	return result, nil
}

func (r *accountRepository) ListOwnedByIDs(ctx context.Context, ownerID uuid.UUID, accountIDs []uuid.UUID) ([]domain.Account, error) {
	if len(accountIDs) == 0 {
		return nil, nil
	}
	var rows []accountModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Where("account_id IN ?", accountIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Account, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainAccount(row))
	}
	return result, nil
}

func (r *accountRepository) Update(ctx context.Context, accountID uuid.UUID, params ports.UpdateAccountParams, updatedAt time.Time) (domain.Account, error) {
	changes := map[string]any{"updated_at": updatedAt}
	if params.Email != nil {
		changes["email"] = nullableString(*params.Email)
	}
	if params.PhoneNumber != nil {
		changes["phone_number"] = nullableString(*params.PhoneNumber)
	}
	if params.ClearProxy {
		changes["proxy_id"] = nil
	} else if params.ProxyID != nil {
		changes["proxy_id"] = *params.ProxyID
	}
	if params.DailyPostLimit != nil {
		changes["daily_post_limit"] = *params.DailyPostLimit
	}
	if params.SealedPassword != nil {
		changes["sealed_password"] = *params.SealedPassword
	}
	if params.IsWarmedUp != nil {
		changes["is_warmed_up"] = *params.IsWarmedUp
	}

	res := r.db.WithContext(ctx).
		Model(&accountModel{}).
		Where("account_id = ?", accountID).
		Updates(changes)
	if res.Error != nil {
		return domain.Account{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Account{}, domain.ErrNotFound
	}
	return r.Get(ctx, accountID)
}

func (r *accountRepository) Delete(ctx context.Context, accountID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Delete(&accountModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *accountRepository) MarkLoggedIn(ctx context.Context, accountID uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&accountModel{}).
		Where("account_id = ?", accountID).
		Updates(map[string]any{
			"status":          string(domain.AccountActive),
			"last_login_at":   at,
			"failed_attempts": 0,
			"updated_at":      at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *accountRepository) BeginWarmup(ctx context.Context, accountID uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&accountModel{}).
		Where("account_id = ?", accountID).
		Where("status = ?", string(domain.AccountActive)).
		Where("is_warmed_up = FALSE").
		Updates(map[string]any{
			"status":     string(domain.AccountWarmingUp),
			"updated_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *accountRepository) CompleteWarmup(ctx context.Context, accountID uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&accountModel{}).
		Where("account_id = ?", accountID).
		Where("status = ?", string(domain.AccountWarmingUp)).
		Updates(map[string]any{
			"status":       string(domain.AccountActive),
			"is_warmed_up": true,
			"updated_at":   at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *accountRepository) MarkBanned(ctx context.Context, accountID uuid.UUID, reason string, at time.Time, event ports.OutboxEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&accountModel{}).
			Where("account_id = ?", accountID).
			Where("is_banned = FALSE").
			Updates(map[string]any{
				"status":     string(domain.AccountBanned),
				"is_banned":  true,
				"ban_reason": nullableString(reason),
				"banned_at":  at,
				"updated_at": at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var exists int64
			if err := tx.Model(&accountModel{}).Where("account_id = ?", accountID).Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return domain.ErrNotFound
			}
			// Already banned; ban is terminal and idempotent, no second event.
			return nil
		}

		outbox := outboxModel{
			OutboxID:     event.EventID,
			EventType:    event.EventType,
			PartitionKey: event.PartitionKey,
			Payload:      string(event.Payload),
			CreatedAt:    event.OccurredAt,
		}
		return tx.Create(&outbox).Error
	})
}

func (r *accountRepository) CountByProxy(ctx context.Context, proxyID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&accountModel{}).
		Where("proxy_id = ?", proxyID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *accountRepository) ResetDailyCounters(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&accountModel{}).
		Where("posts_today > 0").
		Update("posts_today", 0).Error
}
