package pressroom

import (
	"io"

	"github.com/google/uuid"
)

// Request DTOs

// Upload is a file submitted alongside a create or update request. FileName
// is the display name as submitted; the storage key is assigned by the
// service when the file is stored.
type Upload struct {
	FileName string
	Reader   io.Reader
}

// CreateContentRequest contains parameters for creating new content
type CreateContentRequest struct {
	Meta      ContentMeta
	Uploads   []Upload
	CreatedBy string
}

// UpdateContentRequest contains parameters for editing existing content.
// Only title, summary and date are taken from Meta; category, subcategory
// and status are never changed by an edit. A non-empty Uploads replaces the
// attachment list wholesale.
type UpdateContentRequest struct {
	ID        uuid.UUID
	Meta      ContentMeta
	Uploads   []Upload
	UpdatedBy string
}

// ListContentRequest contains filter parameters for listing content.
// Category and Subcategory are exact matches; Query is a case-insensitive
// substring match against the title. Zero values mean "no filter".
type ListContentRequest struct {
	Category    string
	Subcategory string
	Query       string
}
