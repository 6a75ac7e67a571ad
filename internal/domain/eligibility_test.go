package domain

import "testing"

func TestAccountEligibleForJob(t *testing.T) {
	t.Parallel()

	base := Account{Status: AccountActive, DailyPostLimit: 3, PostsToday: 0}
	if !AccountEligibleForJob(base) {
		t.Fatal("active account under its limit should be eligible")
	}

	banned := base
	banned.IsBanned = true
	if AccountEligibleForJob(banned) {
		t.Error("banned account should not be eligible")
	}

	atLimit := base
	atLimit.PostsToday = 3
	if AccountEligibleForJob(atLimit) {
		t.Error("account at its daily limit should not be eligible")
	}

	pending := base
	pending.Status = AccountPending
	if AccountEligibleForJob(pending) {
		t.Error("pending account should not be eligible")
	}

	warming := base
	warming.Status = AccountWarmingUp
	if AccountEligibleForJob(warming) {
		t.Error("warming-up account should not be eligible")
	}
}

func TestAccountEligibleForWarmup(t *testing.T) {
	t.Parallel()

	if !AccountEligibleForWarmup(Account{Status: AccountActive}) {
		t.Error("active, not-warmed account should be warmup-eligible")
	}
	if AccountEligibleForWarmup(Account{Status: AccountActive, IsWarmedUp: true}) {
		t.Error("already warmed account should not be warmup-eligible")
	}
	if AccountEligibleForWarmup(Account{Status: AccountPending}) {
		t.Error("pending account should not be warmup-eligible")
	}
}

func TestAccountBlocked(t *testing.T) {
	t.Parallel()

	if (Account{Status: AccountActive}).Blocked() {
		t.Error("active account should not be blocked")
	}
	if !(Account{Status: AccountSuspended}).Blocked() {
		t.Error("suspended account should be blocked")
	}
	if !(Account{Status: AccountBanned}).Blocked() {
		t.Error("banned-status account should be blocked")
	}
	if !(Account{Status: AccountActive, IsBanned: true}).Blocked() {
		t.Error("is_banned flag alone should block")
	}
}

func TestProxyUsable(t *testing.T) {
	t.Parallel()

	if !ProxyUsable(Proxy{IsActive: true}) {
		t.Error("active proxy should be usable")
	}
	if ProxyUsable(Proxy{IsActive: false, FailCount: ProxyFailThreshold}) {
		t.Error("demoted proxy should not be usable")
	}
}
