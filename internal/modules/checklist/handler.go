package checklist

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wesribeiro/painel-ti/internal/modules/auth"
)

// Handler exposes checklist HTTP endpoints.
type Handler struct {
	service Service
	authMW  func(http.Handler) http.Handler
}

func NewHandler(service Service, authMW func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, authMW: authMW}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.With(h.authMW).Post("/api/v1/checklists", h.save)  // POST /api/v1/checklists
	r.Get("/api/v1/checklists/today", h.today)           // GET  /api/v1/checklists/today?storeId=
	r.Get("/api/v1/checklists/history", h.history)       // GET  /api/v1/checklists/history?storeId=
	r.Get("/api/v1/checklists/{id}", h.get)              // GET  /api/v1/checklists/{id}
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "no session"})
		return
	}

	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result, err := h.service.Save(r.Context(), req, identity.UserID)
	if err != nil {
		respondErr(w, err)
		return
	}

	code := http.StatusOK
	if result.Created {
		code = http.StatusCreated
	}
	respond(w, code, map[string]interface{}{"id": result.ID, "message": "checklist saved"})
}

func (h *Handler) today(w http.ResponseWriter, r *http.Request) {
	storeID, err := strconv.ParseInt(r.URL.Query().Get("storeId"), 10, 64)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "storeId query parameter is required"})
		return
	}
	c, err := h.service.Today(r.Context(), storeID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	var storeID *int64
	if raw := r.URL.Query().Get("storeId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respond(w, http.StatusBadRequest, map[string]string{"error": "invalid storeId"})
			return
		}
		storeID = &id
	}
	lists, err := h.service.History(r.Context(), storeID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, lists)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid checklist id"})
		return
	}
	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, c)
}

func respondErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		code = http.StatusNotFound
	}
	respond(w, code, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
