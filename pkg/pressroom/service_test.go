package pressroom_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressroomhq/pressroom/pkg/pressroom"
	"github.com/pressroomhq/pressroom/pkg/pressroom/repo/memory"
	memorystorage "github.com/pressroomhq/pressroom/pkg/pressroom/storage/memory"
)

// testClock returns a deterministic time source that advances on every
// call, so version tags and creation times are strictly ordered.
func testClock() func() time.Time {
	var mu sync.Mutex
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(10 * time.Millisecond)
		return current
	}
}

func setupTestService(t *testing.T, extra ...pressroom.Option) (pressroom.Service, *memorystorage.Backend) {
	t.Helper()

	store := memorystorage.New()
	options := []pressroom.Option{
		pressroom.WithRepository(memory.New()),
		pressroom.WithBlobStore("memory", store),
		pressroom.WithEventSink(pressroom.NewNoopEventSink()),
		pressroom.WithClock(testClock()),
	}
	options = append(options, extra...)

	svc, err := pressroom.New(options...)
	require.NoError(t, err)
	require.NotNil(t, svc)

	return svc, store
}

func TestServiceCreation(t *testing.T) {
	tests := []struct {
		name        string
		options     []pressroom.Option
		expectError bool
	}{
		{
			name:        "no options should fail",
			options:     []pressroom.Option{},
			expectError: true,
		},
		{
			name: "with repository should succeed",
			options: []pressroom.Option{
				pressroom.WithRepository(memory.New()),
			},
			expectError: false,
		},
		{
			name: "with repository and blob store should succeed",
			options: []pressroom.Option{
				pressroom.WithRepository(memory.New()),
				pressroom.WithBlobStore("memory", memorystorage.New()),
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := pressroom.New(tt.options...)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func TestCreateContent(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		content, err := svc.CreateContent(ctx, pressroom.CreateContentRequest{
			Meta: pressroom.ContentMeta{
				Title:    "Annual Report",
				Category: "Performance",
			},
			CreatedBy: "admin@example.com",
		})
		require.NoError(t, err)
		require.NotNil(t, content)

		assert.Equal(t, "Annual Report", content.Title)
		assert.Equal(t, "Performance", content.Category)
		assert.Equal(t, pressroom.StatusDraft, content.Status)
		assert.Equal(t, "admin@example.com", content.CreatedBy)
		assert.Empty(t, content.Attachments)
		assert.False(t, content.CreatedAt.IsZero())
	})

	t.Run("explicit status is honored", func(t *testing.T) {
		content, err := svc.CreateContent(ctx, pressroom.CreateContentRequest{
			Meta: pressroom.ContentMeta{Title: "Notice", Status: "Published"},
		})
		require.NoError(t, err)
		assert.Equal(t, pressroom.StatusPublished, content.Status)
	})

	t.Run("invalid status falls back to draft", func(t *testing.T) {
		content, err := svc.CreateContent(ctx, pressroom.CreateContentRequest{
			Meta: pressroom.ContentMeta{Title: "Notice", Status: "Nonsense"},
		})
		require.NoError(t, err)
		assert.Equal(t, pressroom.StatusDraft, content.Status)
	})

	t.Run("records exactly one version with tag 1", func(t *testing.T) {
		content, err := svc.CreateContent(ctx, pressroom.CreateContentRequest{
			Meta:      pressroom.ContentMeta{Title: "Versioned"},
			CreatedBy: "admin@example.com",
		})
		require.NoError(t, err)

		versions, err := svc.ListVersions(ctx, content.ID)
		require.NoError(t, err)
		require.Len(t, versions, 1)

		assert.Equal(t, pressroom.InitialVersion, versions[0].Version)
		assert.Equal(t, "admin@example.com", versions[0].CreatedBy)
		assert.Equal(t, *content, versions[0].Snapshot)
	})
}

func TestCreateContentWithUploads(t *testing.T) {
	svc, store := setupTestService(t)
	ctx := context.Background()

	content, err := svc.CreateContent(ctx, pressroom.CreateContentRequest{
		Meta: pressroom.ContentMeta{Title: "With Files"},
		Uploads: []pressroom.Upload{
			{FileName: "report.pdf", Reader: strings.NewReader("pdf bytes")},
			{FileName: "summary.txt", Reader: strings.NewReader("txt bytes")},
		},
	})
	require.NoError(t, err)
	require.Len(t, content.Attachments, 2)

	// Submission order preserved
	assert.Equal(t, "report.pdf", content.Attachments[0].Name)
	assert.Equal(t, "summary.txt", content.Attachments[1].Name)

	for _, attachment := range content.Attachments {
		assert.True(t, store.Exists(attachment.Key), "file should be stored under %s", attachment.Key)
		assert.True(t, strings.HasPrefix(attachment.URL, "/uploads/"), "URL %s should be under the public prefix", attachment.URL)
	}

	// No duplicate storage keys
	assert.NotEqual(t, content.Attachments[0].Key, content.Attachments[1].Key)
}

func TestUpdateContent(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown id", func(t *testing.T) {
		svc, _ := setupTestService(t)
		_, err := svc.UpdateContent(ctx, pressroom.UpdateContentRequest{
			ID:   uuid.New(),
			Meta: pressroom.ContentMeta{Title: "x"},
		})
		assert.ErrorIs(t, err, pressroom.ErrContentNotFound)
	})

	t.Run("records pre-edit snapshot", func(t *testing.T) {
		svc, _ := setupTestService(t)
		created, err := svc.CreateContent(ctx, pressroom.CreateContentRequest{
			Meta: pressroom.ContentMeta{Title: "Before", Summary: "old summary"},
		})
		require.NoError(t, err)

		_, err = svc.UpdateContent(ctx, pressroom.UpdateContentRequest{
			ID:        created.ID,
			Meta:      pressroom.ContentMeta{Title: "After", Summary: "new summary"},
			UpdatedBy: "editor@example.com",
		})
		require.NoError(t, err)

		versions, err := svc.ListVersions(ctx, created.ID)
		require.NoError(t, err)
		require.Len(t, versions, 2)

		// Newest first: the edit record must hold the state before the edit.
		assert.Equal(t, "Before", versions[0].Snapshot.Title)
		assert.Equal(t, "old summary", versions[0].Snapshot.Summary)
		assert.Equal(t, "editor@example.com", versions[0].CreatedBy)
		assert.Greater(t, versions[0].Version, pressroom.InitialVersion)
	})

	t.Run("edit is metadata-only", func(t *testing.T) {
		svc, _ := setupTestService(t)
		created, err := svc.CreateContent(ctx, pressroom.CreateContentRequest{
			Meta: pressroom.ContentMeta{Title: "T", Category: "Legal", Subcategory: "Filings", Status: "Approved"},
		})
		require.NoError(t, err)

		updated, err := svc.UpdateContent(ctx, pressroom.UpdateContentRequest{
			ID: created.ID,
			Meta: pressroom.ContentMeta{
				Title:       "T2",
				Date:        "2025-06-01",
				Category:    "Changed",
				Subcategory: "Changed",
				Status:      "Published",
			},
		})
		require.NoError(t, err)

		assert.Equal(t, "T2", updated.Title)
		assert.Equal(t, "2025-06-01", updated.Date)
		// Category, subcategory and status never change through an edit.
		assert.Equal(t, "Legal", updated.Category)
		assert.Equal(t, "Filings", updated.Subcategory)
		assert.Equal(t, pressroom.StatusApproved, updated.Status)
	})

	t.Run("no uploads keeps attachments", func(t *testing.T) {
		svc, store := setupTestService(t)
		created, err := svc.CreateContent(ctx, pressroom.CreateContentRequest{
			Meta:    pressroom.ContentMeta{Title: "Keep"},
			Uploads: []pressroom.Upload{{FileName: "keep.pdf", Reader: strings.NewReader("data")}},
		})
		require.NoError(t, err)

		updated, err := svc.UpdateContent(ctx, pressroom.UpdateContentRequest{
			ID:   created.ID,
			Meta: pressroom.ContentMeta{Title: "Keep 2"},
		})
		require.NoError(t, err)

		require.Len(t, updated.Attachments, 1)
		assert.True(t, store.Exists(updated.Attachments[0].Key))
	})
}

func TestUpdateContentReplacesAttachments(t *testing.T) {
	svc, store := setupTestService(t)
	ctx := context.Background()

	created, err := svc.CreateContent(ctx, pressroom.CreateContentRequest{
		Meta: pressroom.ContentMeta{Title: "Replace"},
		Uploads: []pressroom.Upload{
			{FileName: "old-1.pdf", Reader: strings.NewReader("old-1")},
			{FileName: "old-2.pdf", Reader: strings.NewReader("old-2")},
		},
	})
	require.NoError(t, err)
	oldKeys := []string{created.Attachments[0].Key, created.Attachments[1].Key}

	updated, err := svc.UpdateContent(ctx, pressroom.UpdateContentRequest{
		ID:   created.ID,
		Meta: pressroom.ContentMeta{Title: "Replace"},
		Uploads: []pressroom.Upload{
			{FileName: "new-b.pdf", Reader: strings.NewReader("new-b")},
			{FileName: "new-a.pdf", Reader: strings.NewReader("new-a")},
		},
	})
	require.NoError(t, err)

	// Every superseded file is gone from storage.
	for _, key := range oldKeys {
		assert.False(t, store.Exists(key), "old file %s should be deleted", key)
	}

	// The stored list is exactly the new uploads, order as submitted.
	require.Len(t, updated.Attachments, 2)
	assert.Equal(t, "new-b.pdf", updated.Attachments[0].Name)
	assert.Equal(t, "new-a.pdf", updated.Attachments[1].Name)
	assert.Equal(t, 2, store.Len())
}

func TestApplyAction(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown id", func(t *testing.T) {
		svc, _ := setupTestService(t)
		_, err := svc.ApplyAction(ctx, uuid.New(), pressroom.ActionSubmit, "admin")
		assert.ErrorIs(t, err, pressroom.ErrContentNotFound)
	})

	t.Run("unknown action", func(t *testing.T) {
		svc, _ := setupTestService(t)
		created, err := svc.CreateContent(ctx, pressroom.CreateContentRequest{
			Meta: pressroom.ContentMeta{Title: "A"},
		})
		require.NoError(t, err)

		_, err = svc.ApplyAction(ctx, created.ID, pressroom.WorkflowAction("archive"), "admin")
		assert.ErrorIs(t, err, pressroom.ErrUnknownAction)
	})

	t.Run("actions assign their target status", func(t *testing.T) {
		tests := []struct {
			action pressroom.WorkflowAction
			want   pressroom.ContentStatus
		}{
			{pressroom.ActionSubmit, pressroom.StatusInReview},
			{pressroom.ActionApprove, pressroom.StatusApproved},
			{pressroom.ActionReject, pressroom.StatusDraft},
			{pressroom.ActionPublish, pressroom.StatusPublished},
		}

		for _, tt := range tests {
			t.Run(string(tt.action), func(t *testing.T) {
				svc, _ := setupTestService(t)
				created, err := svc.CreateContent(ctx, pressroom.CreateContentRequest{
					Meta: pressroom.ContentMeta{Title: "W"},
				})
				require.NoError(t, err)

				content, err := svc.ApplyAction(ctx, created.ID, tt.action, "admin")
				require.NoError(t, err)
				assert.Equal(t, tt.want, content.Status)
			})
		}
	})

	// The default workflow is a flat action set: any action is permitted
	// from any status. Rejecting a published item is legal and moves it
	// back to draft.
	t.Run("reject on published content succeeds", func(t *testing.T) {
		svc, _ := setupTestService(t)
		created, err := svc.CreateContent(ctx, pressroom.CreateContentRequest{
			Meta: pressroom.ContentMeta{Title: "P", Status: "Published"},
		})
		require.NoError(t, err)

		content, err := svc.ApplyAction(ctx, created.ID, pressroom.ActionReject, "admin")
		require.NoError(t, err)
		assert.Equal(t, pressroom.StatusDraft, content.Status)
	})

	t.Run("records pre-transition snapshot", func(t *testing.T) {
		svc, _ := setupTestService(t)
		created, err := svc.CreateContent(ctx, pressroom.CreateContentRequest{
			Meta: pressroom.ContentMeta{Title: "S"},
		})
		require.NoError(t, err)

		_, err = svc.ApplyAction(ctx, created.ID, pressroom.ActionPublish, "admin")
		require.NoError(t, err)

		versions, err := svc.ListVersions(ctx, created.ID)
		require.NoError(t, err)
		require.Len(t, versions, 2)

		// The transition record must not already reflect the new status.
		assert.Equal(t, pressroom.StatusDraft, versions[0].Snapshot.Status)
	})
}

func TestStrictWorkflow(t *testing.T) {
	svc, _ := setupTestService(t, pressroom.WithStrictWorkflow(true))
	ctx := context.Background()

	created, err := svc.CreateContent(ctx, pressroom.CreateContentRequest{
		Meta: pressroom.ContentMeta{Title: "Strict"},
	})
	require.NoError(t, err)

	// Draft cannot be approved directly.
	_, err = svc.ApplyAction(ctx, created.ID, pressroom.ActionApprove, "admin")
	assert.ErrorIs(t, err, pressroom.ErrTransitionNotAllowed)

	// Draft -> In Review -> Approved -> Published is the happy path.
	for _, action := range []pressroom.WorkflowAction{
		pressroom.ActionSubmit, pressroom.ActionApprove, pressroom.ActionPublish,
	} {
		_, err = svc.ApplyAction(ctx, created.ID, action, "admin")
		require.NoError(t, err, "action %s", action)
	}

	// Published can only be rejected back to draft.
	_, err = svc.ApplyAction(ctx, created.ID, pressroom.ActionPublish, "admin")
	assert.ErrorIs(t, err, pressroom.ErrTransitionNotAllowed)

	content, err := svc.ApplyAction(ctx, created.ID, pressroom.ActionReject, "admin")
	require.NoError(t, err)
	assert.Equal(t, pressroom.StatusDraft, content.Status)
}

func TestDeleteContent(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown id", func(t *testing.T) {
		svc, _ := setupTestService(t)
		err := svc.DeleteContent(ctx, uuid.New())
		assert.ErrorIs(t, err, pressroom.ErrContentNotFound)
	})

	t.Run("cascades to versions and files", func(t *testing.T) {
		svc, store := setupTestService(t)
		created, err := svc.CreateContent(ctx, pressroom.CreateContentRequest{
			Meta:    pressroom.ContentMeta{Title: "Doomed"},
			Uploads: []pressroom.Upload{{FileName: "doomed.pdf", Reader: strings.NewReader("data")}},
		})
		require.NoError(t, err)

		_, err = svc.ApplyAction(ctx, created.ID, pressroom.ActionPublish, "admin")
		require.NoError(t, err)

		require.NoError(t, svc.DeleteContent(ctx, created.ID))

		_, err = svc.GetContent(ctx, created.ID)
		assert.ErrorIs(t, err, pressroom.ErrContentNotFound)

		versions, err := svc.ListVersions(ctx, created.ID)
		require.NoError(t, err)
		assert.Empty(t, versions)

		assert.Equal(t, 0, store.Len())
	})
}

func TestListContent(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	seed := []pressroom.ContentMeta{
		{Title: "Q1 Report", Category: "Performance", Subcategory: "Quarterly"},
		{Title: "Q2 Report", Category: "Performance", Subcategory: "Quarterly"},
		{Title: "Board Minutes", Category: "Governance", Subcategory: "Meetings"},
	}
	for _, meta := range seed {
		_, err := svc.CreateContent(ctx, pressroom.CreateContentRequest{Meta: meta})
		require.NoError(t, err)
	}

	t.Run("no filter returns everything newest first", func(t *testing.T) {
		items, err := svc.ListContent(ctx, pressroom.ListContentRequest{})
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "Board Minutes", items[0].Title)
		assert.Equal(t, "Q2 Report", items[1].Title)
		assert.Equal(t, "Q1 Report", items[2].Title)
	})

	t.Run("category filter is exact", func(t *testing.T) {
		items, err := svc.ListContent(ctx, pressroom.ListContentRequest{Category: "Performance"})
		require.NoError(t, err)
		assert.Len(t, items, 2)

		items, err = svc.ListContent(ctx, pressroom.ListContentRequest{Category: "Perf"})
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("query matches title substrings case-insensitively", func(t *testing.T) {
		items, err := svc.ListContent(ctx, pressroom.ListContentRequest{Query: "q1 rep"})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Q1 Report", items[0].Title)
	})
}

func TestListPublishedContent(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	for _, status := range []string{"Draft", "In Review", "Approved", "Published"} {
		_, err := svc.CreateContent(ctx, pressroom.CreateContentRequest{
			Meta: pressroom.ContentMeta{Title: status + " item", Category: "News", Status: status},
		})
		require.NoError(t, err)
	}

	items, err := svc.ListPublishedContent(ctx, pressroom.ListContentRequest{Category: "News"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, pressroom.StatusPublished, items[0].Status)
}

// TestPublishingScenario walks the canonical lifecycle end to end: create a
// draft report, publish it, and check both the ledger and the public feed.
func TestPublishingScenario(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	created, err := svc.CreateContent(ctx, pressroom.CreateContentRequest{
		Meta:      pressroom.ContentMeta{Title: "Q1 Report", Category: "Performance"},
		CreatedBy: "admin@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, pressroom.StatusDraft, created.Status)
	assert.Empty(t, created.Attachments)

	versions, err := svc.ListVersions(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, pressroom.InitialVersion, versions[0].Version)

	_, err = svc.ApplyAction(ctx, created.ID, pressroom.ActionPublish, "admin@example.com")
	require.NoError(t, err)

	versions, err = svc.ListVersions(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, pressroom.StatusDraft, versions[0].Snapshot.Status)

	published, err := svc.ListPublishedContent(ctx, pressroom.ListContentRequest{Category: "Performance"})
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "Q1 Report", published[0].Title)

	empty, err := svc.ListPublishedContent(ctx, pressroom.ListContentRequest{Category: "Legal"})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

// failingSink returns an error from every event. The service must log and
// continue.
type failingSink struct{}

func (failingSink) ContentCreated(context.Context, *pressroom.Content) error {
	return errors.New("sink down")
}
func (failingSink) ContentUpdated(context.Context, *pressroom.Content) error {
	return errors.New("sink down")
}
func (failingSink) ContentDeleted(context.Context, uuid.UUID) error {
	return errors.New("sink down")
}

func TestEventSinkFailuresAreAbsorbed(t *testing.T) {
	svc, _ := setupTestService(t, pressroom.WithEventSink(failingSink{}))
	ctx := context.Background()

	created, err := svc.CreateContent(ctx, pressroom.CreateContentRequest{
		Meta: pressroom.ContentMeta{Title: "Resilient"},
	})
	require.NoError(t, err)

	_, err = svc.ApplyAction(ctx, created.ID, pressroom.ActionSubmit, "admin")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteContent(ctx, created.ID))
}
