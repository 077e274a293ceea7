package uploads

import (
	"time"

	"github.com/dmitrijs2005/goinglive/internal/course"
	"github.com/dmitrijs2005/goinglive/internal/idgen"
)

// FileHandle points at a locally selected file that passed validation.
type FileHandle struct {
	Path        string `json:"path"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// PendingUpload is a queued upload for one element.
type PendingUpload struct {
	// ElementID identifies the owning element and is the queue key.
	ElementID string `json:"element_id"`

	// Token distinguishes successive selections for the same element, so a
	// finished upload never removes a newer selection queued meanwhile.
	Token string `json:"token"`

	File        FileHandle         `json:"file"`
	Public      bool               `json:"public"`
	Disposition course.Disposition `json:"disposition"`
	CreatedAt   time.Time          `json:"created_at"`
}

// NewPendingUpload builds a command with a fresh token.
func NewPendingUpload(elementID string, file FileHandle, public bool, disposition course.Disposition) PendingUpload {
	return PendingUpload{
		ElementID:   elementID,
		Token:       idgen.New(),
		File:        file,
		Public:      public,
		Disposition: disposition,
		CreatedAt:   time.Now().UTC(),
	}
}
