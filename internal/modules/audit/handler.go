package audit

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wesribeiro/painel-ti/internal/modules/auth"
)

// Handler exposes action-log HTTP endpoints.
type Handler struct {
	service Service
	authMW  func(http.Handler) http.Handler
}

func NewHandler(service Service, authMW func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, authMW: authMW}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.With(h.authMW).Post("/api/v1/logs/admin", h.record) // POST /api/v1/logs/admin
	r.With(h.authMW).Get("/api/v1/logs/admin", h.list)    // GET  /api/v1/logs/admin
}

func (h *Handler) record(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "no session"})
		return
	}

	var req CreateLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	log, err := h.service.Record(r.Context(), req, identity.UserID, identity.Name)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, log)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	logs, err := h.service.List(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, logs)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
