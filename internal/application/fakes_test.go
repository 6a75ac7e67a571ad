package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reelpilot/autopost/internal/domain"
	"github.com/reelpilot/autopost/internal/ports"
)

// In-memory fakes for every port. They reproduce the guard semantics the real
// adapters enforce store-side (status-conditioned updates, atomic counters) so
// the service tests exercise the same race rules.

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]domain.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[uuid.UUID]domain.Account)}
}

func (f *fakeAccountRepo) put(a domain.Account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[a.AccountID] = a
}

func (f *fakeAccountRepo) Create(_ context.Context, params ports.CreateAccountParams) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.Username == params.Username {
			return domain.Account{}, domain.ErrConflict
		}
	}
	a := domain.Account{
		AccountID:      uuid.New(),
		OwnerID:        params.OwnerID,
		Username:       params.Username,
		SealedPassword: params.SealedPassword,
		Email:          params.Email,
		PhoneNumber:    params.PhoneNumber,
		Status:         domain.AccountPending,
		DailyPostLimit: params.DailyPostLimit,
		ProxyID:        params.ProxyID,
	}
	f.accounts[a.AccountID] = a
	return a, nil
}

func (f *fakeAccountRepo) Get(_ context.Context, accountID uuid.UUID) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[accountID]
	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	return a, nil
}

func (f *fakeAccountRepo) GetOwned(_ context.Context, ownerID, accountID uuid.UUID) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[accountID]
	if !ok || a.OwnerID != ownerID {
		return domain.Account{}, domain.ErrNotFound
	}
	return a, nil
}

func (f *fakeAccountRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, status *domain.AccountStatus) ([]domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Account
	for _, a := range f.accounts {
		if a.OwnerID != ownerID {
			continue
		}
		if status != nil && a.Status != *status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAccountRepo) ListOwnedByIDs(_ context.Context, ownerID uuid.UUID, accountIDs []uuid.UUID) ([]domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Account
	for _, id := range accountIDs {
		if a, ok := f.accounts[id]; ok && a.OwnerID == ownerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAccountRepo) Update(_ context.Context, accountID uuid.UUID, params ports.UpdateAccountParams, _ time.Time) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[accountID]
	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	if params.Email != nil {
		a.Email = *params.Email
	}
	if params.PhoneNumber != nil {
		a.PhoneNumber = *params.PhoneNumber
	}
	if params.ClearProxy {
		a.ProxyID = nil
	} else if params.ProxyID != nil {
		a.ProxyID = params.ProxyID
	}
	if params.DailyPostLimit != nil {
		a.DailyPostLimit = *params.DailyPostLimit
	}
	if params.SealedPassword != nil {
		a.SealedPassword = *params.SealedPassword
	}
	if params.IsWarmedUp != nil {
		a.IsWarmedUp = *params.IsWarmedUp
	}
	f.accounts[accountID] = a
	return a, nil
}

func (f *fakeAccountRepo) Delete(_ context.Context, accountID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[accountID]; !ok {
		return domain.ErrNotFound
	}
	delete(f.accounts, accountID)
	return nil
}

func (f *fakeAccountRepo) MarkLoggedIn(_ context.Context, accountID uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[accountID]
	if !ok {
		return domain.ErrNotFound
	}
	a.Status = domain.AccountActive
	a.LastLoginAt = &at
	a.FailedAttempts = 0
	f.accounts[accountID] = a
	return nil
}

func (f *fakeAccountRepo) BeginWarmup(_ context.Context, accountID uuid.UUID, _ time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[accountID]
	if !ok || a.Status != domain.AccountActive || a.IsWarmedUp {
		return false, nil
	}
	a.Status = domain.AccountWarmingUp
	f.accounts[accountID] = a
	return true, nil
}

func (f *fakeAccountRepo) CompleteWarmup(_ context.Context, accountID uuid.UUID, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[accountID]
	if !ok || a.Status != domain.AccountWarmingUp {
		return domain.ErrNotFound
	}
	a.Status = domain.AccountActive
	a.IsWarmedUp = true
	f.accounts[accountID] = a
	return nil
}

func (f *fakeAccountRepo) MarkBanned(_ context.Context, accountID uuid.UUID, reason string, at time.Time, _ ports.OutboxEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[accountID]
	if !ok {
		return domain.ErrNotFound
	}
	if a.IsBanned {
		return nil
	}
	a.Status = domain.AccountBanned
	a.IsBanned = true
	a.BanReason = reason
	a.BannedAt = &at
	f.accounts[accountID] = a
	return nil
}

func (f *fakeAccountRepo) CountByProxy(_ context.Context, proxyID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, a := range f.accounts {
		if a.ProxyID != nil && *a.ProxyID == proxyID {
			n++
		}
	}
	return n, nil
}

func (f *fakeAccountRepo) ResetDailyCounters(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, a := range f.accounts {
		a.PostsToday = 0
		f.accounts[id] = a
	}
	return nil
}

type fakeProxyRepo struct {
	mu      sync.Mutex
	proxies map[uuid.UUID]domain.Proxy
}

func newFakeProxyRepo() *fakeProxyRepo {
	return &fakeProxyRepo{proxies: make(map[uuid.UUID]domain.Proxy)}
}

func (f *fakeProxyRepo) put(p domain.Proxy) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.proxies[p.ProxyID] = p
}

func (f *fakeProxyRepo) Create(_ context.Context, params ports.CreateProxyParams) (domain.Proxy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.proxies {
		if p.Host == params.Host && p.Port == params.Port {
			return domain.Proxy{}, domain.ErrConflict
		}
	}
	p := domain.Proxy{
		ProxyID:        uuid.New(),
		Host:           params.Host,
		Port:           params.Port,
		Username:       params.Username,
		SealedPassword: params.SealedPassword,
		Protocol:       params.Protocol,
		Country:        params.Country,
		IsActive:       true,
	}
	f.proxies[p.ProxyID] = p
	return p, nil
}

func (f *fakeProxyRepo) Get(_ context.Context, proxyID uuid.UUID) (domain.Proxy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.proxies[proxyID]
	if !ok {
		return domain.Proxy{}, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeProxyRepo) List(_ context.Context) ([]domain.Proxy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Proxy, 0, len(f.proxies))
	for _, p := range f.proxies {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProxyRepo) Update(_ context.Context, proxyID uuid.UUID, params ports.UpdateProxyParams, _ time.Time) (domain.Proxy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.proxies[proxyID]
	if !ok {
		return domain.Proxy{}, domain.ErrNotFound
	}
	if params.Host != nil {
		p.Host = *params.Host
	}
	if params.Port != nil {
		p.Port = *params.Port
	}
	if params.Username != nil {
		p.Username = *params.Username
	}
	if params.SealedPassword != nil {
		p.SealedPassword = *params.SealedPassword
	}
	if params.Protocol != nil {
		p.Protocol = *params.Protocol
	}
	if params.Country != nil {
		p.Country = *params.Country
	}
	if params.IsActive != nil {
		p.IsActive = *params.IsActive
		if p.IsActive {
			p.FailCount = 0
		}
	}
	f.proxies[proxyID] = p
	return p, nil
}

func (f *fakeProxyRepo) Delete(_ context.Context, proxyID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.proxies[proxyID]; !ok {
		return domain.ErrNotFound
	}
	delete(f.proxies, proxyID)
	return nil
}

func (f *fakeProxyRepo) ApplyProbeResult(_ context.Context, proxyID uuid.UUID, healthy bool, at time.Time) (domain.Proxy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.proxies[proxyID]
	if !ok {
		return domain.Proxy{}, domain.ErrNotFound
	}
	if healthy {
		p.FailCount = 0
		p.IsActive = true
	} else {
		p.FailCount++
		p.IsActive = p.FailCount < domain.ProxyFailThreshold
	}
	p.LastChecked = &at
	f.proxies[proxyID] = p
	return p, nil
}

func (f *fakeProxyRepo) ListDueForCheck(_ context.Context, cutoff time.Time, limit int) ([]domain.Proxy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Proxy
	for _, p := range f.proxies {
		if p.LastChecked == nil || p.LastChecked.Before(cutoff) {
			out = append(out, p)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

type fakeVideoRepo struct {
	mu     sync.Mutex
	videos map[uuid.UUID]domain.Video
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{videos: make(map[uuid.UUID]domain.Video)}
}

func (f *fakeVideoRepo) put(v domain.Video) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.videos[v.VideoID] = v
}

func (f *fakeVideoRepo) Create(_ context.Context, params ports.CreateVideoParams) (domain.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := domain.Video{
		VideoID:      uuid.New(),
		OwnerID:      params.OwnerID,
		Title:        params.Title,
		Description:  params.Description,
		Tags:         params.Tags,
		OriginalName: params.OriginalName,
		StoragePath:  params.StoragePath,
		MimeType:     params.MimeType,
		SizeBytes:    params.SizeBytes,
		Duration:     params.Duration,
		Status:       domain.VideoUploaded,
	}
	f.videos[v.VideoID] = v
	return v, nil
}

func (f *fakeVideoRepo) GetOwned(_ context.Context, ownerID, videoID uuid.UUID) (domain.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[videoID]
	if !ok || v.OwnerID != ownerID {
		return domain.Video{}, domain.ErrNotFound
	}
	return v, nil
}

func (f *fakeVideoRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, status *domain.VideoStatus) ([]domain.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Video
	for _, v := range f.videos {
		if v.OwnerID != ownerID {
			continue
		}
		if status != nil && v.Status != *status {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeVideoRepo) UpdateMetadata(_ context.Context, videoID uuid.UUID, params ports.UpdateVideoParams, _ time.Time) (domain.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[videoID]
	if !ok {
		return domain.Video{}, domain.ErrNotFound
	}
	if params.Title != nil {
		v.Title = *params.Title
	}
	if params.Description != nil {
		v.Description = *params.Description
	}
	if params.Tags != nil {
		v.Tags = params.Tags
	}
	f.videos[videoID] = v
	return v, nil
}

func (f *fakeVideoRepo) SetStatus(_ context.Context, videoID uuid.UUID, from, to domain.VideoStatus, _ time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[videoID]
	if !ok || v.Status != from {
		return false, nil
	}
	v.Status = to
	f.videos[videoID] = v
	return true, nil
}

type fakeJobRepo struct {
	mu       sync.Mutex
	jobs     map[uuid.UUID]domain.Job
	accounts *fakeAccountRepo
	failNext error
}

func newFakeJobRepo(accounts *fakeAccountRepo) *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[uuid.UUID]domain.Job), accounts: accounts}
}

func (f *fakeJobRepo) put(j domain.Job) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs[j.JobID] = j
}

func (f *fakeJobRepo) CreateBatchTx(_ context.Context, batch []ports.NewJobParams, _ ports.OutboxEvent) ([]domain.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return nil, err
	}
	out := make([]domain.Job, 0, len(batch))
	for _, params := range batch {
		j := domain.Job{
			JobID:        uuid.New(),
			AccountID:    params.AccountID,
			VideoID:      params.VideoID,
			Priority:     params.Priority,
			ScheduledFor: params.ScheduledFor,
			Status:       domain.JobPending,
			MaxAttempts:  params.MaxAttempts,
		}
		f.jobs[j.JobID] = j
		out = append(out, j)
	}
	return out, nil
}

func (f *fakeJobRepo) Get(_ context.Context, jobID uuid.UUID) (domain.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[jobID]
	if !ok {
		return domain.Job{}, domain.ErrNotFound
	}
	return j, nil
}

func (f *fakeJobRepo) GetOwned(ctx context.Context, ownerID, jobID uuid.UUID) (domain.Job, error) {
	f.mu.Lock()
	j, ok := f.jobs[jobID]
	f.mu.Unlock()
	if !ok {
		return domain.Job{}, domain.ErrNotFound
	}
	account, err := f.accounts.Get(ctx, j.AccountID)
	if err != nil || account.OwnerID != ownerID {
		return domain.Job{}, domain.ErrNotFound
	}
	return j, nil
}

func (f *fakeJobRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, filter ports.JobFilter) ([]domain.Job, error) {
	f.mu.Lock()
	jobs := make([]domain.Job, 0, len(f.jobs))
	for _, j := range f.jobs {
		jobs = append(jobs, j)
	}
	f.mu.Unlock()

	var out []domain.Job
	for _, j := range jobs {
		account, err := f.accounts.Get(ctx, j.AccountID)
		if err != nil || account.OwnerID != ownerID {
			continue
		}
		if filter.Status != nil && j.Status != *filter.Status {
			continue
		}
		if filter.AccountID != nil && j.AccountID != *filter.AccountID {
			continue
		}
		out = append(out, j)
	}
	return out, nil
}

func (f *fakeJobRepo) MarkQueued(_ context.Context, jobID uuid.UUID, _ time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[jobID]
	if !ok || (j.Status != domain.JobPending && j.Status != domain.JobRetry) {
		return false, nil
	}
	j.Status = domain.JobQueued
	f.jobs[jobID] = j
	return true, nil
}

func (f *fakeJobRepo) MarkProcessing(_ context.Context, jobID uuid.UUID, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[jobID]
	if !ok {
		return false, nil
	}
	switch j.Status {
	case domain.JobPending, domain.JobQueued, domain.JobRetry:
	default:
		return false, nil
	}
	j.Status = domain.JobProcessing
	j.StartedAt = &at
	j.AttemptCount++
	f.jobs[jobID] = j
	return true, nil
}

func (f *fakeJobRepo) CompleteTx(ctx context.Context, jobID uuid.UUID, at time.Time, _ ports.OutboxEvent) (bool, error) {
	f.mu.Lock()
	j, ok := f.jobs[jobID]
	if !ok || j.Status != domain.JobProcessing {
		f.mu.Unlock()
		return false, nil
	}
	j.Status = domain.JobCompleted
	j.CompletedAt = &at
	j.Error = ""
	j.ErrorStack = ""
	f.jobs[jobID] = j
	f.mu.Unlock()

	f.accounts.mu.Lock()
	if a, ok := f.accounts.accounts[j.AccountID]; ok {
		a.PostsToday++
		f.accounts.accounts[j.AccountID] = a
	}
	f.accounts.mu.Unlock()
	_ = ctx
	return true, nil
}

func (f *fakeJobRepo) MarkFailed(_ context.Context, jobID uuid.UUID, at time.Time, errMsg, errStack string, _ ports.OutboxEvent) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[jobID]
	if !ok || j.Status != domain.JobProcessing {
		return false, nil
	}
	j.Status = domain.JobFailed
	j.FailedAt = &at
	j.Error = errMsg
	j.ErrorStack = errStack
	f.jobs[jobID] = j
	return true, nil
}

func (f *fakeJobRepo) MarkRetried(_ context.Context, jobID uuid.UUID, _ time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[jobID]
	if !ok || j.Status != domain.JobFailed || j.AttemptCount >= j.MaxAttempts {
		return false, nil
	}
	j.Status = domain.JobRetry
	j.Error = ""
	j.ErrorStack = ""
	f.jobs[jobID] = j
	return true, nil
}

func (f *fakeJobRepo) MarkCancelled(_ context.Context, jobID uuid.UUID, _ time.Time, _ ports.OutboxEvent) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[jobID]
	if !ok {
		return false, nil
	}
	cancellable := false
	for _, s := range domain.CancellableStatuses {
		if j.Status == s {
			cancellable = true
			break
		}
	}
	if !cancellable {
		return false, nil
	}
	j.Status = domain.JobCancelled
	f.jobs[jobID] = j
	return true, nil
}

func (f *fakeJobRepo) AppendLog(_ context.Context, jobID uuid.UUID, entry domain.JobLogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	j.Logs = append(j.Logs, entry)
	f.jobs[jobID] = j
	return nil
}

func (f *fakeJobRepo) AddScreenshot(_ context.Context, jobID uuid.UUID, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	j.Screenshots = append(j.Screenshots, ref)
	f.jobs[jobID] = j
	return nil
}

func (f *fakeJobRepo) ListProcessingOlderThan(_ context.Context, cutoff time.Time, limit int) ([]domain.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Job
	for _, j := range f.jobs {
		if j.Status == domain.JobProcessing && j.StartedAt != nil && j.StartedAt.Before(cutoff) {
			out = append(out, j)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

type fakeOutboxRepo struct {
	mu     sync.Mutex
	events []ports.OutboxEvent
}

func (f *fakeOutboxRepo) Enqueue(_ context.Context, event ports.OutboxEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutboxRepo) ClaimUnpublished(context.Context, int, string, time.Time) ([]ports.OutboxRecord, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) MarkPublished(context.Context, uuid.UUID, string, time.Time) error {
	return nil
}

func (f *fakeOutboxRepo) MarkFailed(context.Context, uuid.UUID, string, string, time.Time) error {
	return nil
}

func (f *fakeOutboxRepo) MarkDeadLettered(context.Context, uuid.UUID, string, string, time.Time) error {
	return nil
}

func (f *fakeOutboxRepo) eventTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.EventType)
	}
	return out
}

type fakeCancellationStore struct {
	mu    sync.Mutex
	flags map[uuid.UUID]bool
}

func newFakeCancellationStore() *fakeCancellationStore {
	return &fakeCancellationStore{flags: make(map[uuid.UUID]bool)}
}

func (f *fakeCancellationStore) MarkCancelled(_ context.Context, jobID uuid.UUID, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flags[jobID] = true
	return nil
}

func (f *fakeCancellationStore) IsCancelled(_ context.Context, jobID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.flags[jobID], nil
}

// fakeVault marks plaintext reversibly so tests can assert the service never
// stores raw passwords without real crypto in the loop.
type fakeVault struct{}

func (fakeVault) Seal(plaintext string) (string, error) {
	return "sealed(" + plaintext + ")", nil
}

func (fakeVault) Unseal(sealed string) (string, error) {
	if len(sealed) < 8 || sealed[:7] != "sealed(" || sealed[len(sealed)-1] != ')' {
		return "", domain.ErrMalformedCiphertext
	}
	return sealed[7 : len(sealed)-1], nil
}

type fakeProber struct {
	mu      sync.Mutex
	healthy bool
	probes  int
}

func (f *fakeProber) Probe(context.Context, domain.Proxy, ports.ProxyCredentials) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probes++
	if !f.healthy {
		return errors.New("connection refused")
	}
	return nil
}

type fixture struct {
	svc           *Service
	accounts      *fakeAccountRepo
	proxies       *fakeProxyRepo
	videos        *fakeVideoRepo
	jobs          *fakeJobRepo
	outbox        *fakeOutboxRepo
	cancellations *fakeCancellationStore
	prober        *fakeProber
	now           time.Time
}

func newFixture() *fixture {
	accounts := newFakeAccountRepo()
	proxies := newFakeProxyRepo()
	videos := newFakeVideoRepo()
	jobs := newFakeJobRepo(accounts)
	outbox := &fakeOutboxRepo{}
	cancellations := newFakeCancellationStore()
	prober := &fakeProber{healthy: true}

	svc := NewService(Dependencies{
		Accounts:      accounts,
		Proxies:       proxies,
		Videos:        videos,
		Jobs:          jobs,
		Outbox:        outbox,
		Cancellations: cancellations,
		Vault:         fakeVault{},
		Prober:        prober,
	})
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	svc.nowFn = func() time.Time { return now }

	return &fixture{
		svc:           svc,
		accounts:      accounts,
		proxies:       proxies,
		videos:        videos,
		jobs:          jobs,
		outbox:        outbox,
		cancellations: cancellations,
		prober:        prober,
		now:           now,
	}
}

func (fx *fixture) seedAccount(ownerID uuid.UUID, username string, status domain.AccountStatus) domain.Account {
	a := domain.Account{
		AccountID:      uuid.New(),
		OwnerID:        ownerID,
		Username:       username,
		SealedPassword: "sealed(pw)",
		Status:         status,
		DailyPostLimit: 3,
	}
	fx.accounts.put(a)
	return a
}

func (fx *fixture) seedVideo(ownerID uuid.UUID) domain.Video {
	v := domain.Video{
		VideoID:     uuid.New(),
		OwnerID:     ownerID,
		Title:       fmt.Sprintf("clip-%s", uuid.NewString()[:8]),
		StoragePath: "/videos/clip.mp4",
		Status:      domain.VideoReady,
	}
	fx.videos.put(v)
	return v
}
