package domain

// Eligibility predicates are pure and total: they inspect a snapshot of record
// state and never touch storage. They are evaluated both at admission and again
// immediately before execution starts, because eligibility can change in the
// window between the two.

// AccountEligibleForJob reports whether the account may accept posting work
// right now: active, not banned, and under its daily post limit.
func AccountEligibleForJob(a Account) bool {
	return a.Status == AccountActive && !a.IsBanned && a.PostsToday < a.DailyPostLimit
}

// AccountEligibleForWarmup reports whether the account may enter the warmup
// ramp: active and not yet warmed up.
func AccountEligibleForWarmup(a Account) bool {
	return a.Status == AccountActive && !a.IsWarmedUp
}

// ProxyUsable reports whether the proxy may carry traffic.
func ProxyUsable(p Proxy) bool {
	return p.IsActive
}
