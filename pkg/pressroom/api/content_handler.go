package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/pressroomhq/pressroom/pkg/pressroom"
	"github.com/pressroomhq/pressroom/pkg/pressroom/auth"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing.
const maxUploadMemory = 32 << 20 // 32 MB

// ContentHandler handles the authenticated content management endpoints
type ContentHandler struct {
	service pressroom.Service
}

func NewContentHandler(service pressroom.Service) *ContentHandler {
	return &ContentHandler{service: service}
}

// Routes returns the router for content endpoints. Mount behind the auth
// middleware; the public feed lives in PublicHandler.
func (h *ContentHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListContent)
	r.Post("/", h.CreateContent)
	r.Put("/{id}", h.UpdateContent)
	r.Delete("/{id}", h.DeleteContent)
	r.Post("/{id}/delete", h.DeleteContent)
	r.Post("/{id}/{action:submit|approve|reject|publish}", h.ApplyAction)
	r.Get("/{id}/versions", h.ListVersions)
	return r
}

// ListContent lists all content, filtered by category, subcategory and a
// case-insensitive title query
func (h *ContentHandler) ListContent(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListContent(r.Context(), pressroom.ListContentRequest{
		Category:    r.URL.Query().Get("category"),
		Subcategory: r.URL.Query().Get("subcategory"),
		Query:       r.URL.Query().Get("q"),
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, items)
}

// CreateContent creates content from a multipart form: field "meta" carries
// the JSON metadata string, field "files" carries zero or more uploads
func (h *ContentHandler) CreateContent(w http.ResponseWriter, r *http.Request) {
	uploads, cleanup, err := parseUploads(r)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"message": "invalid multipart form"})
		return
	}
	defer cleanup()

	content, err := h.service.CreateContent(r.Context(), pressroom.CreateContentRequest{
		Meta:      pressroom.ParseMeta(r.FormValue("meta")),
		Uploads:   uploads,
		CreatedBy: auth.Principal(r.Context()),
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("content created", "content_id", content.ID.String(), "files", len(uploads))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, content)
}

// UpdateContent edits title/summary/date and optionally replaces every
// attachment with the newly uploaded files
func (h *ContentHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	id, ok := contentID(w, r)
	if !ok {
		return
	}

	uploads, cleanup, err := parseUploads(r)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"message": "invalid multipart form"})
		return
	}
	defer cleanup()

	_, err = h.service.UpdateContent(r.Context(), pressroom.UpdateContentRequest{
		ID:        id,
		Meta:      pressroom.ParseMeta(r.FormValue("meta")),
		Uploads:   uploads,
		UpdatedBy: auth.Principal(r.Context()),
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("content updated", "content_id", id.String(), "files", len(uploads))
	render.JSON(w, r, successResponse{Success: true})
}

// DeleteContent removes the content, its version history and its files
func (h *ContentHandler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	id, ok := contentID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteContent(r.Context(), id); err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("content deleted", "content_id", id.String())
	render.JSON(w, r, successResponse{Success: true})
}

// ApplyAction runs one of the workflow actions: submit, approve, reject,
// publish
func (h *ContentHandler) ApplyAction(w http.ResponseWriter, r *http.Request) {
	id, ok := contentID(w, r)
	if !ok {
		return
	}

	action, ok := pressroom.ParseAction(chi.URLParam(r, "action"))
	if !ok {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"message": "unknown action"})
		return
	}

	content, err := h.service.ApplyAction(r.Context(), id, action, auth.Principal(r.Context()))
	if err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("workflow action applied",
		"content_id", id.String(),
		"action", string(action),
		"status", string(content.Status))
	render.JSON(w, r, successResponse{Success: true})
}

// ListVersions returns the version ledger for a content id, newest first
func (h *ContentHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	id, ok := contentID(w, r)
	if !ok {
		return
	}

	versions, err := h.service.ListVersions(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, versions)
}

// contentID parses the id route parameter, answering 404 for malformed ids
// so unknown and unparseable ids are indistinguishable to clients.
func contentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]string{"message": "Not found"})
		return uuid.Nil, false
	}
	return id, true
}

// parseUploads extracts the "files" uploads from a multipart form. The
// returned cleanup closes every opened file part. A request without a
// multipart body yields no uploads rather than an error, matching the
// tolerated-metadata policy.
func parseUploads(r *http.Request) ([]pressroom.Upload, func(), error) {
	cleanup := func() {}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		if err == http.ErrNotMultipart {
			return nil, cleanup, nil
		}
		return nil, cleanup, err
	}
	if r.MultipartForm == nil {
		return nil, cleanup, nil
	}

	headers := r.MultipartForm.File["files"]
	uploads := make([]pressroom.Upload, 0, len(headers))
	closers := make([]func() error, 0, len(headers))

	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			for _, c := range closers {
				c() //nolint:errcheck
			}
			return nil, cleanup, err
		}
		closers = append(closers, file.Close)
		uploads = append(uploads, pressroom.Upload{
			FileName: header.Filename,
			Reader:   file,
		})
	}

	cleanup = func() {
		for _, c := range closers {
			c() //nolint:errcheck
		}
	}

	return uploads, cleanup, nil
}
