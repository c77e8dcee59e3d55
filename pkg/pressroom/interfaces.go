package pressroom

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// BlobStore defines the interface for attachment storage backends
type BlobStore interface {
	// Upload stores content under the given key
	Upload(ctx context.Context, key string, reader io.Reader) error

	// Download opens the content stored under the given key
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the content stored under the given key. Deleting a key
	// that does not exist is not an error.
	Delete(ctx context.Context, key string) error
}

// ContentFilter narrows ListContent results. Category and Subcategory are
// exact matches, TitleQuery is a case-insensitive substring match against
// the title, Status restricts to a single workflow status. Nil/empty fields
// match everything.
type ContentFilter struct {
	Category    string
	Subcategory string
	TitleQuery  string
	Status      *ContentStatus
}

// Repository defines the interface for content and version persistence
type Repository interface {
	// Content operations
	CreateContent(ctx context.Context, content *Content) error
	GetContent(ctx context.Context, id uuid.UUID) (*Content, error)
	UpdateContent(ctx context.Context, content *Content) error
	DeleteContent(ctx context.Context, id uuid.UUID) error
	ListContent(ctx context.Context, filter ContentFilter) ([]*Content, error)

	// Version ledger operations
	CreateVersion(ctx context.Context, version *ContentVersion) error
	ListVersionsByContentID(ctx context.Context, contentID uuid.UUID) ([]*ContentVersion, error)
	DeleteVersionsByContentID(ctx context.Context, contentID uuid.UUID) error
}
