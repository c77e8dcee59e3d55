package pressroom

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the main interface for the pressroom library
type Service interface {
	// Content operations
	CreateContent(ctx context.Context, req CreateContentRequest) (*Content, error)
	GetContent(ctx context.Context, id uuid.UUID) (*Content, error)
	UpdateContent(ctx context.Context, req UpdateContentRequest) (*Content, error)
	DeleteContent(ctx context.Context, id uuid.UUID) error
	ListContent(ctx context.Context, req ListContentRequest) ([]*Content, error)
	ListPublishedContent(ctx context.Context, req ListContentRequest) ([]*Content, error)

	// Workflow operations
	ApplyAction(ctx context.Context, id uuid.UUID, action WorkflowAction, actor string) (*Content, error)

	// Version ledger operations
	ListVersions(ctx context.Context, contentID uuid.UUID) ([]*ContentVersion, error)

	// Storage backend operations
	RegisterBackend(name string, backend BlobStore)
	GetBackend(name string) (BlobStore, error)
}
