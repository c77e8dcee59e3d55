package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/pressroomhq/pressroom/pkg/pressroom/auth"
)

// AuthHandler handles the login endpoint
type AuthHandler struct {
	auth *auth.Service
}

func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Routes returns the router for auth endpoints
func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.Login)
	return r
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// Login exchanges the static admin credential pair for a signed token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"message": "invalid request body"})
		return
	}

	token, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingCredentials):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"message": err.Error()})
		case errors.Is(err, auth.ErrInvalidCredentials):
			slog.Warn("login rejected", "email", req.Email)
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]string{"message": err.Error()})
		default:
			slog.Error("login failed", "error", err)
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"message": "internal server error"})
		}
		return
	}

	slog.Info("admin logged in", "email", req.Email)
	render.JSON(w, r, LoginResponse{Token: token, Role: auth.RoleAdmin})
}
