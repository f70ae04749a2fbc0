package review

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"plagiarism-review/pkg/api"
	"plagiarism-review/pkg/logger"
	"plagiarism-review/pkg/models"
)

// Handler exposes the aggregation core over HTTP. Responses carry plain data
// structures in a `{"data": ...}` envelope for the host renderer; no HTML is
// produced here. Authorization is assumed to have happened upstream.
type Handler struct {
	svc *Service
}

// NewHandler creates an HTTP handler over the review service.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes attaches all plagiarism review routes to the router.
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/plagiarism", h.HandleOverview).Methods("GET")
	router.HandleFunc("/plagiarism/contest", h.HandleContestList).Methods("GET")
	router.HandleFunc("/plagiarism/contest/{contest_id}", h.HandleContestDetail).Methods("GET")
	router.HandleFunc("/plagiarism/contest/{contest_id}/{problem_id}", h.HandleProblemDetail).Methods("GET")
	router.HandleFunc("/plagiarism/new", h.HandleNewTask).Methods("POST")
	router.HandleFunc("/plagiarism/tasks", h.HandleListTasks).Methods("GET")
}

// HandleOverview serves the system overview page data.
func (h *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	page := h.svc.Overview(r.Context())
	h.writeData(w, http.StatusOK, page)
}

// HandleContestList serves the contest list page data.
func (h *Handler) HandleContestList(w http.ResponseWriter, r *http.Request) {
	contests := h.svc.ContestList(r.Context())
	h.writeData(w, http.StatusOK, contests)
}

// HandleContestDetail serves one contest's problems and summary figures.
func (h *Handler) HandleContestDetail(w http.ResponseWriter, r *http.Request) {
	contestID := mux.Vars(r)["contest_id"]
	requestID := r.Header.Get("X-Request-ID")

	page, err := h.svc.ContestDetail(r.Context(), contestID)
	if err != nil {
		h.writeServiceError(w, r, err, requestID)
		return
	}
	h.writeData(w, http.StatusOK, page)
}

// HandleProblemDetail serves one problem's per-language results.
func (h *Handler) HandleProblemDetail(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	contestID := vars["contest_id"]
	requestID := r.Header.Get("X-Request-ID")

	problemID, err := strconv.ParseInt(vars["problem_id"], 10, 64)
	if err != nil {
		// A non-numeric problem id can never exist; same outcome as an
		// unknown one.
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Problem not found", requestID)
		return
	}

	page, err := h.svc.ProblemDetail(r.Context(), contestID, problemID)
	if err != nil {
		h.writeServiceError(w, r, err, requestID)
		return
	}
	h.writeData(w, http.StatusOK, page)
}

// HandleNewTask accepts a check task request, forwards it to the detection
// engine, and returns the recorded task.
func (h *Handler) HandleNewTask(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get("X-Request-ID")

	var req models.CheckTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be valid JSON", requestID)
		return
	}

	task, err := h.svc.CreateCheckTask(r.Context(), req)
	switch {
	case err == nil:
		h.writeData(w, http.StatusCreated, task)
	case task != nil:
		// Recorded locally but rejected by the engine.
		api.WriteError(w, http.StatusBadGateway, "ENGINE_REJECTED", "Detection engine rejected the check submission", requestID)
	default:
		api.WriteError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), requestID)
	}
}

// HandleListTasks serves recently submitted check tasks.
func (h *Handler) HandleListTasks(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get("X-Request-ID")

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 200 {
			api.WriteError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be between 1 and 200", requestID)
			return
		}
		limit = parsed
	}

	tasks, err := h.svc.RecentTasks(limit)
	if err != nil {
		logger.WithRequestID(requestID).Error().Err(err).Msg("Failed to list check tasks")
		api.WriteError(w, http.StatusInternalServerError, "STORE_ERROR", "Failed to list check tasks", requestID)
		return
	}
	h.writeData(w, http.StatusOK, tasks)
}

// writeServiceError maps service errors onto HTTP responses. ErrNotFound is
// the only error the page flows surface; anything else is defensive.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, requestID string) {
	if errors.Is(err, ErrNotFound) {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Contest or problem not found", requestID)
		return
	}

	logger.WithRequestID(requestID).Error().Err(err).Str("path", r.URL.Path).Msg("Unexpected service error")
	api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Internal error", requestID)
}

// writeData sends a success payload in the `{"data": ...}` envelope.
func (h *Handler) writeData(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
}
