// HTTP transport for the applied-jobs pipeline.
//
// All routes expect an x-user-id header forwarded by the gateway.
//
// Routes:
//
//	GET    /applications                  → list caller's applications (q, location,
//	                                        sort, filters, page query params)
//	POST   /applications                  → apply to a post
//	POST   /applications/{id}/status      → approve/reject (post owner)
//	DELETE /applications/{id}             → withdraw (soft delete)
//	GET    /posts/{id}/applicants         → enriched applicant cards (post owner)
package applied

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/SeesonLau/hanapbuhay-sub000/internal/store"
)

// Handler exposes the Service over HTTP.
type Handler struct {
	svc      *Service
	pageSize int
}

// NewHandler returns a configured Handler. pageSize caps every list fetch.
func NewHandler(svc *Service, pageSize int) *Handler {
	return &Handler{svc: svc, pageSize: pageSize}
}

// RegisterRoutes mounts all applied-jobs routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/applications", h.handleApplications)
	mux.HandleFunc("/applications/", h.handleApplicationAction)
	mux.HandleFunc("/posts/", h.handlePostAction)
}

// ─── Route dispatch ──────────────────────────────────────────────────────────

// handleApplications handles GET/POST /applications.
func (h *Handler) handleApplications(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listApplied(w, r)
	case http.MethodPost:
		h.createApplication(w, r)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleApplicationAction handles /applications/{id} and /applications/{id}/status.
func (h *Handler) handleApplicationAction(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case len(parts) == 2 && r.Method == http.MethodDelete:
		h.deleteApplication(w, r, parts[1])
	case len(parts) == 3 && parts[2] == "status" && r.Method == http.MethodPost:
		h.updateStatus(w, r, parts[1])
	default:
		jsonError(w, "not found", http.StatusNotFound)
	}
}

// handlePostAction handles GET /posts/{id}/applicants.
func (h *Handler) handlePostAction(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 || parts[2] != "applicants" || r.Method != http.MethodGet {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}
	h.listApplicants(w, r, parts[1])
}

// ─── Individual handlers ─────────────────────────────────────────────────────

func (h *Handler) listApplied(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	values := r.URL.Query()
	vs := ParseViewState(values)
	page := 1
	if p, err := strconv.Atoi(values.Get("page")); err == nil && p > 0 {
		page = p
	}

	result, err := h.svc.ListApplied(r.Context(), userID, vs, page, h.pageSize)
	if err != nil {
		log.Printf("[applied] listApplied error: %v", err)
		jsonError(w, "failed to load applications", http.StatusInternalServerError)
		return
	}

	jsonOK(w, map[string]any{
		"jobs":       result.Jobs,
		"totalCount": result.TotalCount,
		"hasMore":    page*h.pageSize < result.TotalCount,
	})
}

func (h *Handler) createApplication(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	var body struct {
		PostID string `json:"postId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.PostID == "" {
		jsonError(w, "body must contain postId", http.StatusBadRequest)
		return
	}

	rec, err := h.svc.CreateApplication(r.Context(), userID, body.PostID)
	if err != nil {
		h.writeServiceError(w, err, "createApplication")
		return
	}
	jsonCreated(w, rec)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request, applicationID string) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Status == "" {
		jsonError(w, "body must contain status", http.StatusBadRequest)
		return
	}

	rec, err := h.svc.UpdateStatus(r.Context(), userID, applicationID, body.Status)
	if err != nil {
		h.writeServiceError(w, err, "updateStatus")
		return
	}
	jsonOK(w, rec)
}

func (h *Handler) deleteApplication(w http.ResponseWriter, r *http.Request, applicationID string) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	if err := h.svc.DeleteApplication(r.Context(), userID, applicationID); err != nil {
		h.writeServiceError(w, err, "deleteApplication")
		return
	}
	jsonOK(w, map[string]bool{"deleted": true})
}

func (h *Handler) listApplicants(w http.ResponseWriter, r *http.Request, postID string) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	applicants, err := h.svc.ListApplicants(r.Context(), userID, postID)
	if err != nil {
		h.writeServiceError(w, err, "listApplicants")
		return
	}
	jsonOK(w, applicants)
}

// writeServiceError maps domain errors to HTTP responses.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error, op string) {
	var validation *ValidationError
	var incomplete *IncompleteProfileError
	switch {
	case errors.As(err, &incomplete):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{
			"error":    err.Error(),
			"missing":  incomplete.Missing,
			"redirect": ProfileEditPath,
		})
	case errors.As(err, &validation):
		jsonError(w, validation.Msg, http.StatusBadRequest)
	case errors.Is(err, store.ErrDuplicateApplication):
		jsonError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, "not found", http.StatusNotFound)
	default:
		log.Printf("[applied] %s error: %v", op, err)
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonCreated(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
