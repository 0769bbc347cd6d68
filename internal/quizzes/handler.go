package quizzes

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/pdfquiz/backend/internal/middleware"
	"github.com/pdfquiz/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func getUserID(r *http.Request) (int64, bool) {
	uid := middleware.UserID(r.Context())
	return uid, uid > 0
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func writeServiceError(w http.ResponseWriter, err error, notFound, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: notFound})
	case errors.Is(err, ErrForbidden):
		writeJSON(w, http.StatusForbidden, models.ErrorResponse{Error: "Access denied"})
	case errors.Is(err, ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	default:
		log.Printf("[quizzes] %s: %v", fallback, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: fallback})
	}
}

// ── Tests ───────────────────────────────────────────────

func (h *Handler) GetTest(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid test ID"})
		return
	}

	view, err := h.service.GetTest(userID, id)
	if err != nil {
		writeServiceError(w, err, "Test not found", "Failed to load test")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid test ID"})
		return
	}

	var req models.SubmitTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.service.Submit(userID, id, req.Answers)
	if err != nil {
		writeServiceError(w, err, "Test not found", "Failed to submit test")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) ExportTest(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid test ID"})
		return
	}

	withAnswers, _ := strconv.ParseBool(r.URL.Query().Get("answers"))
	data, _, err := h.service.ExportTest(userID, id, withAnswers)
	if err != nil {
		writeServiceError(w, err, "Test not found", "Failed to export test")
		return
	}
	writePDF(w, fmt.Sprintf("test-%d.pdf", id), data)
}

// ── Results ─────────────────────────────────────────────

func (h *Handler) ListResults(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	query := r.URL.Query()
	resp, err := h.service.ListResults(userID, intQueryParam(query, "limit", defaultResultsLimit), intQueryParam(query, "offset", 0))
	if err != nil {
		writeServiceError(w, err, "Results not found", "Failed to list results")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid result ID"})
		return
	}

	detail, err := h.service.GetResult(userID, id)
	if err != nil {
		writeServiceError(w, err, "Result not found", "Failed to load result")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) ResultReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid result ID"})
		return
	}

	data, err := h.service.ResultReport(userID, id)
	if err != nil {
		writeServiceError(w, err, "Result not found", "Failed to render report")
		return
	}
	writePDF(w, fmt.Sprintf("result-%d.pdf", id), data)
}

// ── Preview Generation ──────────────────────────────────

func (h *Handler) GenerateDocument(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	qs, source, err := h.service.PreviewDocument(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "Not found", "Generation failed")
		return
	}
	writeJSON(w, http.StatusOK, models.GenerateDocumentResponse{Questions: qs, Source: source, Count: len(qs)})
}

func (h *Handler) GenerateSyllabus(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateSyllabusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	qs, err := h.service.PreviewSyllabus(req)
	if err != nil {
		writeServiceError(w, err, "Not found", "Generation failed")
		return
	}
	writeJSON(w, http.StatusOK, qs)
}

func writePDF(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func intQueryParam(query url.Values, key string, defaultVal int) int {
	s := query.Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	return v
}
