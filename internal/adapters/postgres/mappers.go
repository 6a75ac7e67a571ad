package postgres

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/reelpilot/autopost/internal/domain"
	"gorm.io/gorm"
)

func toDomainAccount(row accountModel) domain.Account {
	return domain.Account{
		AccountID:      row.AccountID,
		OwnerID:        row.OwnerID,
		Username:       row.Username,
		SealedPassword: row.SealedPassword,
		Email:          stringOrEmpty(row.Email),
		PhoneNumber:    stringOrEmpty(row.PhoneNumber),
		Status:         domain.AccountStatus(row.Status),
		IsBanned:       row.IsBanned,
		BanReason:      stringOrEmpty(row.BanReason),
		BannedAt:       row.BannedAt,
		FailedAttempts: row.FailedAttempts,
		DailyPostLimit: row.DailyPostLimit,
		PostsToday:     row.PostsToday,
		IsWarmedUp:     row.IsWarmedUp,
		ProxyID:        row.ProxyID,
		LastLoginAt:    row.LastLoginAt,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func toDomainProxy(row proxyModel) domain.Proxy {
	return domain.Proxy{
		ProxyID:        row.ProxyID,
		Host:           row.Host,
		Port:           row.Port,
		Username:       stringOrEmpty(row.Username),
		SealedPassword: stringOrEmpty(row.SealedPassword),
		Protocol:       domain.ProxyProtocol(row.Protocol),
		Country:        stringOrEmpty(row.Country),
		IsActive:       row.IsActive,
		FailCount:      row.FailCount,
		LastChecked:    row.LastChecked,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func toDomainVideo(row videoModel) domain.Video {
	return domain.Video{
		VideoID:      row.VideoID,
		OwnerID:      row.OwnerID,
		Title:        row.Title,
		Description:  stringOrEmpty(row.Description),
		Tags:         decodeStringArray(row.Tags),
		OriginalName: stringOrEmpty(row.OriginalName),
		StoragePath:  row.StoragePath,
		MimeType:     stringOrEmpty(row.MimeType),
		SizeBytes:    row.SizeBytes,
		Duration:     row.Duration,
		Status:       domain.VideoStatus(row.Status),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func toDomainJob(row jobModel) domain.Job {
	return domain.Job{
		JobID:        row.JobID,
		AccountID:    row.AccountID,
		VideoID:      row.VideoID,
		Priority:     row.Priority,
		ScheduledFor: row.ScheduledFor,
		Status:       domain.JobStatus(row.Status),
		AttemptCount: row.AttemptCount,
		MaxAttempts:  row.MaxAttempts,
		Error:        stringOrEmpty(row.Error),
		ErrorStack:   stringOrEmpty(row.ErrorStack),
		Logs:         decodeLogEntries(row.Logs),
		Screenshots:  decodeStringArray(row.Screenshots),
		StartedAt:    row.StartedAt,
		CompletedAt:  row.CompletedAt,
		FailedAt:     row.FailedAt,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func decodeStringArray(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

func encodeStringArray(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

func decodeLogEntries(raw string) []domain.JobLogEntry {
	if raw == "" {
		return nil
	}
	var out []domain.JobLogEntry
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

func stringOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func nullableString(v string) *string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
