package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/reelpilot/autopost/internal/domain"
	"github.com/reelpilot/autopost/internal/ports"
)

// CreateVideo records metadata for an uploaded video. The record starts in
// UPLOADED; the media-storage collaborator owns the bytes.
func (s *Service) CreateVideo(ctx context.Context, userID uuid.UUID, req CreateVideoRequest) (domain.Video, error) {
	if req.Title == "" {
		return domain.Video{}, fmt.Errorf("%w: title is required", domain.ErrInvalidRequest)
	}
	if req.StoragePath == "" {
		return domain.Video{}, fmt.Errorf("%w: storage path is required", domain.ErrInvalidRequest)
	}
	return s.videos.Create(ctx, ports.CreateVideoParams{
		OwnerID:      userID,
		Title:        req.Title,
		Description:  req.Description,
		Tags:         req.Tags,
		OriginalName: req.OriginalName,
		StoragePath:  req.StoragePath,
		MimeType:     req.MimeType,
		SizeBytes:    req.SizeBytes,
		Duration:     req.Duration,
	})
}

// GetVideo returns one video scoped to its owner.
func (s *Service) GetVideo(ctx context.Context, userID, videoID uuid.UUID) (domain.Video, error) {
	return s.videos.GetOwned(ctx, userID, videoID)
}

// ListVideos returns the caller's videos, optionally narrowed by status.
func (s *Service) ListVideos(ctx context.Context, userID uuid.UUID, status *domain.VideoStatus) ([]domain.Video, error) {
	return s.videos.ListByOwner(ctx, userID, status)
}

// UpdateVideo applies mutable metadata fields.
func (s *Service) UpdateVideo(ctx context.Context, userID, videoID uuid.UUID, req UpdateVideoRequest) (domain.Video, error) {
	if _, err := s.videos.GetOwned(ctx, userID, videoID); err != nil {
		return domain.Video{}, err
	}
	return s.videos.UpdateMetadata(ctx, videoID, ports.UpdateVideoParams{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	}, s.nowFn())
}

// UpdateVideoStatus applies a processing-state transition reported by the
// media pipeline. Illegal moves are rejected before the store is touched, and
// the store re-checks the source status inside the update.
func (s *Service) UpdateVideoStatus(ctx context.Context, userID, videoID uuid.UUID, to domain.VideoStatus) (domain.Video, error) {
	video, err := s.videos.GetOwned(ctx, userID, videoID)
	if err != nil {
		return domain.Video{}, err
	}
	if !domain.VideoCanTransition(video.Status, to) {
		return domain.Video{}, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, video.Status, to)
	}
	applied, err := s.videos.SetStatus(ctx, videoID, video.Status, to, s.nowFn())
	if err != nil {
		return domain.Video{}, err
	}
	if !applied {
		return domain.Video{}, fmt.Errorf("%w: video changed state concurrently", domain.ErrInvalidTransition)
	}
	return s.videos.GetOwned(ctx, userID, videoID)
}

// DeleteVideo soft-deletes: the record flips to DELETED so existing job
// history stays resolvable.
func (s *Service) DeleteVideo(ctx context.Context, userID, videoID uuid.UUID) error {
	video, err := s.videos.GetOwned(ctx, userID, videoID)
	if err != nil {
		return err
	}
	if video.Status == domain.VideoDeleted {
		return nil
	}
	applied, err := s.videos.SetStatus(ctx, videoID, video.Status, domain.VideoDeleted, s.nowFn())
	if err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("%w: video changed state concurrently", domain.ErrInvalidTransition)
	}
	return nil
}
