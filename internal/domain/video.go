package domain

import (
	"time"

	"github.com/google/uuid"
)

// VideoStatus is the processing state of an uploaded video.
type VideoStatus string

const (
	VideoUploaded   VideoStatus = "UPLOADED"
	VideoProcessing VideoStatus = "PROCESSING"
	VideoReady      VideoStatus = "READY"
	VideoFailed     VideoStatus = "FAILED"
	VideoDeleted    VideoStatus = "DELETED"
)

// Video is a unit of content to post. The core tracks metadata only; the
// media-storage collaborator owns the bytes behind StoragePath.
type Video struct {
	VideoID      uuid.UUID
	OwnerID      uuid.UUID
	Title        string
	Description  string
	Tags         []string
	OriginalName string
	StoragePath  string
	MimeType     string
	SizeBytes    int64
	Duration     float64
	Status       VideoStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// videoTransitions enumerates the legal status moves. DELETED is terminal;
// a deleted video keeps its record so job history stays resolvable.
var videoTransitions = map[VideoStatus][]VideoStatus{
	VideoUploaded:   {VideoProcessing, VideoDeleted},
	VideoProcessing: {VideoReady, VideoFailed, VideoDeleted},
	VideoReady:      {VideoDeleted},
	VideoFailed:     {VideoProcessing, VideoDeleted},
}

// VideoCanTransition reports whether from -> to is a legal video status move.
func VideoCanTransition(from, to VideoStatus) bool {
	for _, next := range videoTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
