package pressroom

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrContentNotFound indicates a content item was not found
	ErrContentNotFound = errors.New("content not found")

	// ErrVersionNotFound indicates a version record was not found
	ErrVersionNotFound = errors.New("version not found")

	// ErrUnknownAction indicates an unrecognized workflow action
	ErrUnknownAction = errors.New("unknown workflow action")

	// ErrTransitionNotAllowed indicates the action is not permitted from the
	// current status (strict workflow mode only)
	ErrTransitionNotAllowed = errors.New("transition not allowed from current status")

	// ErrBackendNotFound indicates a storage backend was not found
	ErrBackendNotFound = errors.New("storage backend not found")
)

// ContentError represents an error related to content operations
type ContentError struct {
	ContentID uuid.UUID
	Op        string
	Err       error
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("content operation %s failed for content %s: %v", e.Op, e.ContentID, e.Err)
}

func (e *ContentError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to attachment storage operations
type StorageError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s on backend %s: %v", e.Op, e.Key, e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
