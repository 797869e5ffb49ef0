package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes authentication HTTP endpoints.
type Handler struct {
	service Service
	authMW  func(http.Handler) http.Handler
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service, authMW: Middleware(service)}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Post("/api/v1/auth/login", h.login)                      // POST /api/v1/auth/login
	r.Post("/api/v1/auth/change-password", h.changePassword)   // POST /api/v1/auth/change-password
	r.With(h.authMW).Get("/api/v1/auth/me", h.me)              // GET  /api/v1/auth/me
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	session, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrFirstLogin):
			respond(w, http.StatusForbidden, map[string]interface{}{"error": err.Error(), "firstLogin": true})
		case errors.Is(err, ErrInvalidCredentials):
			respond(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		default:
			respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return
	}
	respond(w, http.StatusOK, session)
}

type changePasswordRequest struct {
	Username        string `json:"username"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	err := h.service.ChangePassword(r.Context(), req.Username, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, ErrInvalidCredentials):
			respond(w, http.StatusForbidden, map[string]string{"error": err.Error()})
		default:
			respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "password updated"})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	id, ok := FromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "no session"})
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"user": id})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
