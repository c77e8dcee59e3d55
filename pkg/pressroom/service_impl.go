package pressroom

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pressroomhq/pressroom/pkg/pressroom/storagekey"
)

// service implements the Service interface
type service struct {
	repository     Repository
	blobStores     map[string]BlobStore
	defaultBackend string
	keys           storagekey.Generator
	urlPrefix      string
	eventSink      EventSink
	logger         *slog.Logger
	now            func() time.Time
	strictWorkflow bool
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore adds an attachment storage backend
func WithBlobStore(name string, store BlobStore) Option {
	return func(s *service) {
		if s.blobStores == nil {
			s.blobStores = make(map[string]BlobStore)
		}
		s.blobStores[name] = store
	}
}

// WithDefaultBackend selects which registered backend new uploads go to
func WithDefaultBackend(name string) Option {
	return func(s *service) {
		s.defaultBackend = name
	}
}

// WithKeyGenerator sets the storage key generation strategy
func WithKeyGenerator(gen storagekey.Generator) Option {
	return func(s *service) {
		s.keys = gen
	}
}

// WithURLPrefix sets the public path prefix attachment URLs are built from
func WithURLPrefix(prefix string) Option {
	return func(s *service) {
		s.urlPrefix = prefix
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// WithLogger sets the structured logger used for absorbed storage errors
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithClock overrides the time source. Version tags and timestamps are
// derived from it, which makes snapshot ordering deterministic in tests.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// WithStrictWorkflow enables the guarded transition table. The default is
// the permissive mode where any action applies from any status.
func WithStrictWorkflow(strict bool) Option {
	return func(s *service) {
		s.strictWorkflow = strict
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		blobStores: make(map[string]BlobStore),
		keys:       storagekey.NewTimestampGenerator(),
		urlPrefix:  "/uploads",
		now:        time.Now,
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.defaultBackend == "" && len(s.blobStores) == 1 {
		for name := range s.blobStores {
			s.defaultBackend = name
		}
	}

	return s, nil
}

// RegisterBackend adds a storage backend after construction
func (s *service) RegisterBackend(name string, backend BlobStore) {
	s.blobStores[name] = backend
	if s.defaultBackend == "" {
		s.defaultBackend = name
	}
}

// GetBackend retrieves a storage backend by name
func (s *service) GetBackend(name string) (BlobStore, error) {
	backend, ok := s.blobStores[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBackendNotFound, name)
	}
	return backend, nil
}

// Content operations

func (s *service) CreateContent(ctx context.Context, req CreateContentRequest) (*Content, error) {
	now := s.now().UTC()

	status := ContentStatus(req.Meta.Status)
	if !status.Valid() {
		status = StatusDraft
	}

	content := &Content{
		ID:          uuid.New(),
		Title:       req.Meta.Title,
		Summary:     req.Meta.Summary,
		Date:        req.Meta.Date,
		Category:    req.Meta.Category,
		Subcategory: req.Meta.Subcategory,
		Status:      status,
		Attachments: []Attachment{},
		CreatedBy:   req.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	attachments, err := s.storeUploads(ctx, now, req.Uploads)
	if err != nil {
		return nil, &ContentError{ContentID: content.ID, Op: "create", Err: err}
	}
	content.Attachments = attachments

	if err := s.repository.CreateContent(ctx, content); err != nil {
		return nil, &ContentError{ContentID: content.ID, Op: "create", Err: err}
	}

	// The creation record carries the persisted state, not a pre-image.
	version := &ContentVersion{
		ID:        uuid.New(),
		ContentID: content.ID,
		Version:   InitialVersion,
		CreatedBy: req.CreatedBy,
		Snapshot:  content.Clone(),
		CreatedAt: now,
	}
	if err := s.repository.CreateVersion(ctx, version); err != nil {
		return nil, &ContentError{ContentID: content.ID, Op: "create", Err: err}
	}

	s.fireEvent(ctx, func(sink EventSink) error { return sink.ContentCreated(ctx, content) })

	return content, nil
}

func (s *service) GetContent(ctx context.Context, id uuid.UUID) (*Content, error) {
	return s.repository.GetContent(ctx, id)
}

func (s *service) UpdateContent(ctx context.Context, req UpdateContentRequest) (*Content, error) {
	content, err := s.repository.GetContent(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()

	// Snapshot the pre-edit state before touching anything.
	if err := s.recordSnapshot(ctx, content, req.UpdatedBy, now); err != nil {
		return nil, &ContentError{ContentID: req.ID, Op: "update", Err: err}
	}

	if len(req.Uploads) > 0 {
		// Full replacement: every previously stored file goes away, the new
		// uploads become the entire list in submission order.
		s.removeAttachmentFiles(ctx, content.Attachments)

		attachments, err := s.storeUploads(ctx, now, req.Uploads)
		if err != nil {
			return nil, &ContentError{ContentID: req.ID, Op: "update", Err: err}
		}
		content.Attachments = attachments
	}

	// Edits are metadata-only: category, subcategory and status are not
	// touched here.
	content.Title = req.Meta.Title
	content.Summary = req.Meta.Summary
	content.Date = req.Meta.Date
	content.UpdatedAt = now

	if err := s.repository.UpdateContent(ctx, content); err != nil {
		return nil, &ContentError{ContentID: req.ID, Op: "update", Err: err}
	}

	s.fireEvent(ctx, func(sink EventSink) error { return sink.ContentUpdated(ctx, content) })

	return content, nil
}

func (s *service) ApplyAction(ctx context.Context, id uuid.UUID, action WorkflowAction, actor string) (*Content, error) {
	target, ok := action.Target()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	content, err := s.repository.GetContent(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.strictWorkflow && !transitionAllowed(content.Status, action) {
		return nil, fmt.Errorf("%w: %s from %s", ErrTransitionNotAllowed, action, content.Status)
	}

	now := s.now().UTC()

	if err := s.recordSnapshot(ctx, content, actor, now); err != nil {
		return nil, &ContentError{ContentID: id, Op: string(action), Err: err}
	}

	content.Status = target
	content.UpdatedAt = now

	if err := s.repository.UpdateContent(ctx, content); err != nil {
		return nil, &ContentError{ContentID: id, Op: string(action), Err: err}
	}

	s.fireEvent(ctx, func(sink EventSink) error { return sink.ContentUpdated(ctx, content) })

	return content, nil
}

func (s *service) DeleteContent(ctx context.Context, id uuid.UUID) error {
	content, err := s.repository.GetContent(ctx, id)
	if err != nil {
		return err
	}

	// Files first, then versions; the content record goes last so a partial
	// delete is never reported as success.
	s.removeAttachmentFiles(ctx, content.Attachments)

	if err := s.repository.DeleteVersionsByContentID(ctx, id); err != nil {
		return &ContentError{ContentID: id, Op: "delete", Err: err}
	}

	if err := s.repository.DeleteContent(ctx, id); err != nil {
		return &ContentError{ContentID: id, Op: "delete", Err: err}
	}

	s.fireEvent(ctx, func(sink EventSink) error { return sink.ContentDeleted(ctx, id) })

	return nil
}

func (s *service) ListContent(ctx context.Context, req ListContentRequest) ([]*Content, error) {
	return s.repository.ListContent(ctx, ContentFilter{
		Category:    req.Category,
		Subcategory: req.Subcategory,
		TitleQuery:  req.Query,
	})
}

func (s *service) ListPublishedContent(ctx context.Context, req ListContentRequest) ([]*Content, error) {
	published := StatusPublished
	return s.repository.ListContent(ctx, ContentFilter{
		Category:    req.Category,
		Subcategory: req.Subcategory,
		TitleQuery:  req.Query,
		Status:      &published,
	})
}

func (s *service) ListVersions(ctx context.Context, contentID uuid.UUID) ([]*ContentVersion, error) {
	return s.repository.ListVersionsByContentID(ctx, contentID)
}

// recordSnapshot appends a ledger record of the content as it stands right
// now. The tag is the wall clock in milliseconds: monotonically advancing
// with recording time, unrelated to the previous tag, and allowed to
// collide at sub-millisecond resolution.
func (s *service) recordSnapshot(ctx context.Context, content *Content, actor string, now time.Time) error {
	version := &ContentVersion{
		ID:        uuid.New(),
		ContentID: content.ID,
		Version:   now.UnixMilli(),
		CreatedBy: actor,
		Snapshot:  content.Clone(),
		CreatedAt: now,
	}
	return s.repository.CreateVersion(ctx, version)
}

// storeUploads writes each upload to the default backend and returns the
// attachment list in submission order.
func (s *service) storeUploads(ctx context.Context, now time.Time, uploads []Upload) ([]Attachment, error) {
	if len(uploads) == 0 {
		return []Attachment{}, nil
	}

	backend, err := s.GetBackend(s.defaultBackend)
	if err != nil {
		return nil, err
	}

	attachments := make([]Attachment, 0, len(uploads))
	for _, upload := range uploads {
		key := s.keys.GenerateKey(now, upload.FileName)
		if err := backend.Upload(ctx, key, upload.Reader); err != nil {
			return nil, &StorageError{Backend: s.defaultBackend, Key: key, Op: "upload", Err: err}
		}
		attachments = append(attachments, Attachment{
			Name: upload.FileName,
			Key:  key,
			URL:  s.attachmentURL(key),
		})
	}
	return attachments, nil
}

// removeAttachmentFiles deletes the stored files behind the given
// attachments. Deletion is best-effort: a missing file is not an error and
// storage failures are logged and absorbed, so record cleanup always
// proceeds.
func (s *service) removeAttachmentFiles(ctx context.Context, attachments []Attachment) {
	if len(attachments) == 0 {
		return
	}

	backend, err := s.GetBackend(s.defaultBackend)
	if err != nil {
		s.logger.WarnContext(ctx, "attachment cleanup skipped: no storage backend", "error", err)
		return
	}

	for _, attachment := range attachments {
		if err := backend.Delete(ctx, attachment.Key); err != nil {
			storageErr := &StorageError{Backend: s.defaultBackend, Key: attachment.Key, Op: "delete", Err: err}
			s.logger.WarnContext(ctx, "attachment file delete failed", "key", attachment.Key, "error", storageErr)
		}
	}
}

func (s *service) attachmentURL(key string) string {
	prefix := strings.TrimSuffix(s.urlPrefix, "/")
	return prefix + "/" + key
}

func (s *service) fireEvent(ctx context.Context, fire func(EventSink) error) {
	if s.eventSink == nil {
		return
	}
	if err := fire(s.eventSink); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.WarnContext(ctx, "event sink error", "error", err)
	}
}
