package exams

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
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

// examID reads the path id and rejects anything that is not a UUID.
func examID(r *http.Request) (string, bool) {
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Exam not found"})
	case errors.Is(err, ErrForbidden):
		writeJSON(w, http.StatusForbidden, models.ErrorResponse{Error: "Access denied"})
	case errors.Is(err, ErrInvalidState):
		writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "Exam is not in a state that allows this action"})
	default:
		log.Printf("[exams] %s: %v", fallback, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: fallback})
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == 0 {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.CreateExamRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
			return
		}
	}

	view, err := h.service.Create(userID, req)
	if err != nil {
		writeServiceError(w, err, "Failed to create exam")
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == 0 {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	query := r.URL.Query()
	resp, err := h.service.List(userID, intQueryParam(query, "limit", defaultListLimit), intQueryParam(query, "offset", 0))
	if err != nil {
		writeServiceError(w, err, "Failed to list exams")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == 0 {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}
	id, ok := examID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid exam ID"})
		return
	}

	view, err := h.service.Get(userID, id)
	if err != nil {
		writeServiceError(w, err, "Failed to load exam")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == 0 {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}
	id, ok := examID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid exam ID"})
		return
	}

	view, err := h.service.Start(userID, id)
	if err != nil {
		writeServiceError(w, err, "Failed to start exam")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == 0 {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}
	id, ok := examID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid exam ID"})
		return
	}

	var req models.SubmitExamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.service.Submit(userID, id, req.Answers)
	if err != nil {
		writeServiceError(w, err, "Failed to submit exam")
		return
	}
	writeJSON(w, http.StatusOK, resp)
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
