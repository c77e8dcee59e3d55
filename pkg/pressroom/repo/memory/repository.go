package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pressroomhq/pressroom/pkg/pressroom"
)

// Repository implements pressroom.Repository using in-memory storage
type Repository struct {
	mu                sync.RWMutex
	contents          map[uuid.UUID]*pressroom.Content
	versions          map[uuid.UUID]*pressroom.ContentVersion
	versionsByContent map[uuid.UUID][]uuid.UUID // content_id -> []version_id
}

// New creates a new in-memory repository
func New() pressroom.Repository {
	return &Repository{
		contents:          make(map[uuid.UUID]*pressroom.Content),
		versions:          make(map[uuid.UUID]*pressroom.ContentVersion),
		versionsByContent: make(map[uuid.UUID][]uuid.UUID),
	}
}

// Content operations

func (r *Repository) CreateContent(ctx context.Context, content *pressroom.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to avoid external modifications
	contentCopy := content.Clone()
	r.contents[content.ID] = &contentCopy

	return nil
}

func (r *Repository) GetContent(ctx context.Context, id uuid.UUID) (*pressroom.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	content, exists := r.contents[id]
	if !exists {
		return nil, pressroom.ErrContentNotFound
	}

	contentCopy := content.Clone()
	return &contentCopy, nil
}

func (r *Repository) UpdateContent(ctx context.Context, content *pressroom.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contents[content.ID]; !exists {
		return pressroom.ErrContentNotFound
	}

	contentCopy := content.Clone()
	r.contents[content.ID] = &contentCopy

	return nil
}

func (r *Repository) DeleteContent(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contents[id]; !exists {
		return pressroom.ErrContentNotFound
	}

	delete(r.contents, id)
	return nil
}

func (r *Repository) ListContent(ctx context.Context, filter pressroom.ContentFilter) ([]*pressroom.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*pressroom.Content, 0)
	for _, content := range r.contents {
		if !matches(content, filter) {
			continue
		}
		contentCopy := content.Clone()
		result = append(result, &contentCopy)
	}

	// Sort by created_at descending
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func matches(content *pressroom.Content, filter pressroom.ContentFilter) bool {
	if filter.Category != "" && content.Category != filter.Category {
		return false
	}
	if filter.Subcategory != "" && content.Subcategory != filter.Subcategory {
		return false
	}
	if filter.TitleQuery != "" &&
		!strings.Contains(strings.ToLower(content.Title), strings.ToLower(filter.TitleQuery)) {
		return false
	}
	if filter.Status != nil && content.Status != *filter.Status {
		return false
	}
	return true
}

// Version ledger operations

func (r *Repository) CreateVersion(ctx context.Context, version *pressroom.ContentVersion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	versionCopy := *version
	versionCopy.Snapshot = version.Snapshot.Clone()
	r.versions[version.ID] = &versionCopy
	r.versionsByContent[version.ContentID] = append(r.versionsByContent[version.ContentID], version.ID)

	return nil
}

func (r *Repository) ListVersionsByContentID(ctx context.Context, contentID uuid.UUID) ([]*pressroom.ContentVersion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.versionsByContent[contentID]
	result := make([]*pressroom.ContentVersion, 0, len(ids))
	for _, id := range ids {
		version, exists := r.versions[id]
		if !exists {
			continue
		}
		versionCopy := *version
		versionCopy.Snapshot = version.Snapshot.Clone()
		result = append(result, &versionCopy)
	}

	// Newest first
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (r *Repository) DeleteVersionsByContentID(ctx context.Context, contentID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.versionsByContent[contentID] {
		delete(r.versions, id)
	}
	delete(r.versionsByContent, contentID)

	return nil
}
