package application

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/reelpilot/autopost/internal/domain"
	"github.com/reelpilot/autopost/internal/ports"
)

// CreateAccount registers a posting account in PENDING. The password is sealed
// before it reaches storage; an assigned proxy must exist and be active.
func (s *Service) CreateAccount(ctx context.Context, userID uuid.UUID, req CreateAccountRequest) (domain.Account, error) {
	if req.Username == "" || req.Password == "" {
		return domain.Account{}, fmt.Errorf("%w: username and password are required", domain.ErrInvalidRequest)
	}
	if req.ProxyID != nil {
		proxy, err := s.proxies.Get(ctx, *req.ProxyID)
		if err != nil || !domain.ProxyUsable(proxy) {
			return domain.Account{}, fmt.Errorf("%w: proxy not found or inactive", domain.ErrInvalidRequest)
		}
	}
	sealed, err := s.vault.Seal(req.Password)
	if err != nil {
		return domain.Account{}, err
	}
	limit := req.DailyPostLimit
	if limit <= 0 {
		limit = s.cfg.DefaultDailyPostLimit
	}
	return s.accounts.Create(ctx, ports.CreateAccountParams{
		OwnerID:        userID,
		Username:       req.Username,
		SealedPassword: sealed,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		ProxyID:        req.ProxyID,
		DailyPostLimit: limit,
	})
}

// GetAccount returns one account scoped to its owner.
func (s *Service) GetAccount(ctx context.Context, userID, accountID uuid.UUID) (domain.Account, error) {
	return s.accounts.GetOwned(ctx, userID, accountID)
}

// ListAccounts returns the caller's accounts, optionally narrowed by status.
func (s *Service) ListAccounts(ctx context.Context, userID uuid.UUID, status *domain.AccountStatus) ([]domain.Account, error) {
	return s.accounts.ListByOwner(ctx, userID, status)
}

// UpdateAccount applies mutable fields. A new password is sealed here; a new
// proxy assignment is validated against the pool first.
func (s *Service) UpdateAccount(ctx context.Context, userID, accountID uuid.UUID, req UpdateAccountRequest) (domain.Account, error) {
	if _, err := s.accounts.GetOwned(ctx, userID, accountID); err != nil {
		return domain.Account{}, err
	}
	params := ports.UpdateAccountParams{
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		ClearProxy:     req.ClearProxy,
		DailyPostLimit: req.DailyPostLimit,
		IsWarmedUp:     req.IsWarmedUp,
	}
	if req.ProxyID != nil {
		proxy, err := s.proxies.Get(ctx, *req.ProxyID)
		if err != nil || !domain.ProxyUsable(proxy) {
			return domain.Account{}, fmt.Errorf("%w: proxy not found or inactive", domain.ErrInvalidRequest)
		}
		params.ProxyID = req.ProxyID
	}
	if req.Password != nil {
		sealed, err := s.vault.Seal(*req.Password)
		if err != nil {
			return domain.Account{}, err
		}
		params.SealedPassword = &sealed
	}
	return s.accounts.Update(ctx, accountID, params, s.nowFn())
}

// DeleteAccount removes an account record.
func (s *Service) DeleteAccount(ctx context.Context, userID, accountID uuid.UUID) error {
	if _, err := s.accounts.GetOwned(ctx, userID, accountID); err != nil {
		return err
	}
	return s.accounts.Delete(ctx, accountID)
}

// LoginAccount records a successful platform login reported by the executor:
// the account becomes ACTIVE with failed_attempts reset. Banned accounts never
// come back through login.
func (s *Service) LoginAccount(ctx context.Context, userID, accountID uuid.UUID) (domain.Account, error) {
	account, err := s.accounts.GetOwned(ctx, userID, accountID)
	if err != nil {
		return domain.Account{}, err
	}
	if account.IsBanned || account.Status == domain.AccountBanned {
		return domain.Account{}, fmt.Errorf("%w: account is banned", domain.ErrInvalidRequest)
	}
	if err := s.accounts.MarkLoggedIn(ctx, accountID, s.nowFn()); err != nil {
		return domain.Account{}, err
	}
	return s.accounts.GetOwned(ctx, userID, accountID)
}

// StartWarmup moves an ACTIVE, not-yet-warmed account into WARMING_UP. The
// store guards the flip on the current status, so a concurrent ban wins.
func (s *Service) StartWarmup(ctx context.Context, userID, accountID uuid.UUID) (domain.Account, error) {
	account, err := s.accounts.GetOwned(ctx, userID, accountID)
	if err != nil {
		return domain.Account{}, err
	}
	if account.IsWarmedUp {
		return domain.Account{}, fmt.Errorf("%w: account is already warmed up", domain.ErrInvalidRequest)
	}
	if account.Status != domain.AccountActive {
		return domain.Account{}, fmt.Errorf("%w: account must be active to start warmup", domain.ErrInvalidRequest)
	}
	applied, err := s.accounts.BeginWarmup(ctx, accountID, s.nowFn())
	if err != nil {
		return domain.Account{}, err
	}
	if !applied {
		return domain.Account{}, fmt.Errorf("%w: account changed state concurrently", domain.ErrInvalidTransition)
	}
	return s.accounts.GetOwned(ctx, userID, accountID)
}

// CompleteWarmup records executor-reported warmup completion: the account
// returns to ACTIVE with is_warmed_up set.
func (s *Service) CompleteWarmup(ctx context.Context, accountID uuid.UUID) error {
	return s.accounts.CompleteWarmup(ctx, accountID, s.nowFn())
}

// MarkAccountBanned applies the terminal ban transition reported by the
// executor (platform-side ban detection). The ban and its event commit
// together.
func (s *Service) MarkAccountBanned(ctx context.Context, accountID uuid.UUID, reason string) error {
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return err
	}
	now := s.nowFn()
	payload, _ := json.Marshal(map[string]any{
		"account_id": account.AccountID,
		"username":   account.Username,
		"reason":     reason,
		"banned_at":  now,
	})
	return s.accounts.MarkBanned(ctx, accountID, reason, now, ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    ports.EventAccountBanned,
		PartitionKey: account.AccountID.String(),
		Payload:      payload,
		OccurredAt:   now,
	})
}

// ResetDailyCounters zeroes posts_today across all accounts. Driven by the
// external day-boundary trigger.
func (s *Service) ResetDailyCounters(ctx context.Context) error {
	return s.accounts.ResetDailyCounters(ctx)
}
