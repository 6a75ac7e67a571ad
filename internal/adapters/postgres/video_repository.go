package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/reelpilot/autopost/internal/domain"
	"github.com/reelpilot/autopost/internal/ports"
	"gorm.io/gorm"
)

type videoRepository struct {
	db *gorm.DB
}

func (r *videoRepository) Create(ctx context.Context, params ports.CreateVideoParams) (domain.Video, error) {
	now := time.Now().UTC()
	rec := videoModel{
		OwnerID:      params.OwnerID,
		Title:        params.Title,
		Description:  nullableString(params.Description),
		Tags:         encodeStringArray(params.Tags),
		OriginalName: nullableString(params.OriginalName),
		StoragePath:  params.StoragePath,
		MimeType:     nullableString(params.MimeType),
		SizeBytes:    params.SizeBytes,
		Duration:     params.Duration,
		Status:       string(domain.VideoUploaded),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.Video{}, err
	}
	return toDomainVideo(rec), nil
}

func (r *videoRepository) GetOwned(ctx context.Context, ownerID, videoID uuid.UUID) (domain.Video, error) {
	var rec videoModel
	if err := r.db.WithContext(ctx).
		Where("video_id = ?", videoID).
		Where("owner_id = ?", ownerID).
		Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Video{}, domain.ErrNotFound
		}
		return domain.Video{}, err
	}
	return toDomainVideo(rec), nil
}

func (r *videoRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, status *domain.VideoStatus) ([]domain.Video, error) {
	query := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if status != nil {
		query = query.Where("status = ?", string(*status))
	}
	var rows []videoModel
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Video, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainVideo(row))
	}
	return result, nil
}

func (r *videoRepository) UpdateMetadata(ctx context.Context, videoID uuid.UUID, params ports.UpdateVideoParams, updatedAt time.Time) (domain.Video, error) {
	changes := map[string]any{"updated_at": updatedAt}
	if params.Title != nil {
		changes["title"] = *params.Title
	}
	if params.Description != nil {
		changes["description"] = nullableString(*params.Description)
	}
	if params.Tags != nil {
		changes["tags"] = encodeStringArray(params.Tags)
	}

	res := r.db.WithContext(ctx).
		Model(&videoModel{}).
		Where("video_id = ?", videoID).
		Updates(changes)
	if res.Error != nil {
		return domain.Video{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Video{}, domain.ErrNotFound
	}

	var rec videoModel
	if err := r.db.WithContext(ctx).Where("video_id = ?", videoID).Take(&rec).Error; err != nil {
		return domain.Video{}, err
	}
	return toDomainVideo(rec), nil
}

func (r *videoRepository) SetStatus(ctx context.Context, videoID uuid.UUID, from, to domain.VideoStatus, updatedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&videoModel{}).
		Where("video_id = ?", videoID).
		Where("status = ?", string(from)).
		Updates(map[string]any{
			"status":     string(to),
			"updated_at": updatedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
