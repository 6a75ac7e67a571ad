package domain

import (
	"time"

	"github.com/google/uuid"
)

// AccountStatus is the lifecycle state of a posting account.
type AccountStatus string

const (
	AccountPending   AccountStatus = "PENDING"
	AccountActive    AccountStatus = "ACTIVE"
	AccountWarmingUp AccountStatus = "WARMING_UP"
	AccountSuspended AccountStatus = "SUSPENDED"
	AccountBanned    AccountStatus = "BANNED"
	AccountError     AccountStatus = "ERROR"
)

// Account is one target-platform identity the automation posts from.
// The password is stored sealed (vault output), never plaintext.
type Account struct {
	AccountID      uuid.UUID
	OwnerID        uuid.UUID
	Username       string
	SealedPassword string
	Email          string
	PhoneNumber    string
	Status         AccountStatus
	IsBanned       bool
	BanReason      string
	BannedAt       *time.Time
	FailedAttempts int
	DailyPostLimit int
	PostsToday     int
	IsWarmedUp     bool
	ProxyID        *uuid.UUID
	LastLoginAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Blocked reports whether the account may never be a job's target.
// Ban is terminal; suspension is operator-reversible but blocks admission all the same.
func (a Account) Blocked() bool {
	return a.IsBanned || a.Status == AccountBanned || a.Status == AccountSuspended
}
