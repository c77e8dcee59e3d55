package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/pressroomhq/pressroom/pkg/pressroom"
)

// PublicHandler serves the unauthenticated read-only feed. Only published
// content is ever visible here, regardless of filters.
type PublicHandler struct {
	service pressroom.Service
}

func NewPublicHandler(service pressroom.Service) *PublicHandler {
	return &PublicHandler{service: service}
}

// Routes returns the router for public endpoints
func (h *PublicHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/content", h.ListPublished)
	return r
}

// ListPublished lists published content filtered by category and subcategory
func (h *PublicHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListPublishedContent(r.Context(), pressroom.ListContentRequest{
		Category:    r.URL.Query().Get("category"),
		Subcategory: r.URL.Query().Get("subcategory"),
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, items)
}

// HealthHandler answers the static health probe
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}
