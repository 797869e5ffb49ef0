package tracker

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wesribeiro/painel-ti/internal/modules/auth"
)

// Handler exposes the status-tracking HTTP endpoints.
type Handler struct {
	service Service
	authMW  func(http.Handler) http.Handler
}

func NewHandler(service Service, authMW func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, authMW: authMW}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Get("/api/v1/stores/{id}/pdvs-with-status", h.pdvsWithStatus)          // GET /api/v1/stores/{id}/pdvs-with-status
	r.Get("/api/v1/pdvs/{id}/status", h.currentStatus)                       // GET /api/v1/pdvs/{id}/status
	r.Get("/api/v1/pdvs/{id}/history", h.history)                            // GET /api/v1/pdvs/{id}/history
	r.Get("/api/v1/pdvs/{id}/recurring-problems", h.recurringIssues)         // GET /api/v1/pdvs/{id}/recurring-problems
	r.Get("/api/v1/logs/pdv", h.storeLedger)                                 // GET /api/v1/logs/pdv?storeId=
	r.With(h.authMW).Post("/api/v1/pdvs/{id}/status-history", h.recordEvent) // POST /api/v1/pdvs/{id}/status-history
	r.With(h.authMW).Get("/api/v1/pdvs/{id}/problems", h.problems)           // GET  /api/v1/pdvs/{id}/problems
	r.With(h.authMW).Get("/api/v1/problems/{id}", h.problem)                 // GET  /api/v1/problems/{id}
	r.With(h.authMW).Put("/api/v1/problems/{id}/resolve", h.resolveProblem)  // PUT  /api/v1/problems/{id}/resolve
}

func (h *Handler) pdvsWithStatus(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "id")
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid store id"})
		return
	}
	pdvs, err := h.service.PDVsWithStatus(r.Context(), storeID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, pdvs)
}

func (h *Handler) currentStatus(w http.ResponseWriter, r *http.Request) {
	pdvID, err := pathID(r, "id")
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid pdv id"})
		return
	}
	cs, err := h.service.CurrentStatus(r.Context(), pdvID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, cs)
}

func (h *Handler) recordEvent(w http.ResponseWriter, r *http.Request) {
	pdvID, err := pathID(r, "id")
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid pdv id"})
		return
	}
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "no session"})
		return
	}

	var req RecordEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	req.PDVID = pdvID
	req.TechID = identity.UserID

	entry, err := h.service.RecordEvent(r.Context(), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, entry)
}

func (h *Handler) resolveProblem(w http.ResponseWriter, r *http.Request) {
	problemID, err := pathID(r, "id")
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid problem id"})
		return
	}
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "no session"})
		return
	}

	var req ResolveProblemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	req.ActingUserID = identity.UserID

	if err := h.service.ResolveProblem(r.Context(), problemID, req); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "problem resolved"})
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	pdvID, err := pathID(r, "id")
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid pdv id"})
		return
	}
	entries, err := h.service.History(r.Context(), pdvID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, entries)
}

func (h *Handler) problems(w http.ResponseWriter, r *http.Request) {
	pdvID, err := pathID(r, "id")
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid pdv id"})
		return
	}
	problems, err := h.service.Problems(r.Context(), pdvID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, problems)
}

func (h *Handler) problem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid problem id"})
		return
	}
	p, err := h.service.Problem(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) recurringIssues(w http.ResponseWriter, r *http.Request) {
	pdvID, err := pathID(r, "id")
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid pdv id"})
		return
	}
	issues, err := h.service.RecurringIssues(r.Context(), pdvID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, issues)
}

func (h *Handler) storeLedger(w http.ResponseWriter, r *http.Request) {
	storeID, err := strconv.ParseInt(r.URL.Query().Get("storeId"), 10, 64)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "storeId query parameter is required"})
		return
	}
	entries, err := h.service.StoreLedger(r.Context(), storeID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, entries)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
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
