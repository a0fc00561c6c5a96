package photos

import (
	"time"

	"github.com/google/uuid"
)

// PhotoDTO is one progress photo in API responses. The bytes are served
// through the download endpoint, never inline.
type PhotoDTO struct {
	ID          uuid.UUID `json:"id"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// PhotosResponse wraps a photo listing.
type PhotosResponse struct {
	Photos []PhotoDTO `json:"photos"`
}
