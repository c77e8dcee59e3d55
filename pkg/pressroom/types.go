package pressroom

import (
	"time"

	"github.com/google/uuid"
)

// ContentStatus is the domain type for workflow states.
type ContentStatus string

// Workflow status constants (typed).
const (
	StatusDraft     ContentStatus = "Draft"
	StatusInReview  ContentStatus = "In Review"
	StatusApproved  ContentStatus = "Approved"
	StatusPublished ContentStatus = "Published"
)

// Valid reports whether s is one of the four workflow statuses.
func (s ContentStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusInReview, StatusApproved, StatusPublished:
		return true
	default:
		return false
	}
}

// Attachment is a file associated with a content item. Key is the rooted
// storage key assigned at write time; URL is the public path the file is
// served under. Both are fixed when the attachment is stored, so locating
// the physical file never requires path reconstruction.
type Attachment struct {
	Name string `json:"name"`
	Key  string `json:"key"`
	URL  string `json:"url"`
}

// Content represents a manageable unit of publishable material.
type Content struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Summary     string        `json:"summary"`
	Date        string        `json:"date"`
	Category    string        `json:"category"`
	Subcategory string        `json:"subcategory"`
	Status      ContentStatus `json:"status"`
	Attachments []Attachment  `json:"attachments"`
	CreatedBy   string        `json:"created_by"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Clone returns a deep copy of the content, safe to keep as a snapshot
// while the original continues to be mutated.
func (c *Content) Clone() Content {
	clone := *c
	if c.Attachments != nil {
		clone.Attachments = append([]Attachment(nil), c.Attachments...)
	}
	return clone
}

// InitialVersion is the version tag of the snapshot recorded at creation.
// Every later snapshot is tagged with the wall-clock time in milliseconds,
// so tags after the first are ordered by recording time rather than counted
// up from the previous tag.
const InitialVersion int64 = 1

// ContentVersion is an immutable point-in-time snapshot of a content item.
//
// For the creation record the snapshot equals the entity as persisted; for
// edit and workflow records it captures the state immediately before the
// mutation that triggered it.
type ContentVersion struct {
	ID        uuid.UUID `json:"id"`
	ContentID uuid.UUID `json:"content_id"`
	Version   int64     `json:"version"`
	CreatedBy string    `json:"created_by"`
	Snapshot  Content   `json:"snapshot"`
	CreatedAt time.Time `json:"created_at"`
}
