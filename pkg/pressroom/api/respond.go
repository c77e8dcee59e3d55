package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/pressroomhq/pressroom/pkg/pressroom"
)

// successResponse is the body returned by mutations that carry no entity.
type successResponse struct {
	Success bool `json:"success"`
}

// renderError maps domain errors to status codes. Anything unrecognized
// becomes a generic 500 so internals never leak to clients.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, pressroom.ErrContentNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]string{"message": "Not found"})
	case errors.Is(err, pressroom.ErrUnknownAction):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"message": "unknown action"})
	case errors.Is(err, pressroom.ErrTransitionNotAllowed):
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, map[string]string{"message": "transition not allowed"})
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"message": "internal server error"})
	}
}
