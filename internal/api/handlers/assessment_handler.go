package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/BeenaAbe/dify-mental-health/internal/domain/entities"
	apperrors "github.com/BeenaAbe/dify-mental-health/pkg/errors"
)

// AssessmentService defines the session operations used by the handler.
type AssessmentService interface {
	StartAssessment(ctx context.Context, patient *entities.PatientInfo) (*entities.Session, error)
	State(ctx context.Context) (*entities.Session, error)
	CurrentQuestion(ctx context.Context) (entities.Question, error)
	SubmitAnswer(ctx context.Context, value int) (*entities.Session, error)
	Advance(ctx context.Context) (*entities.Session, error)
	Retreat(ctx context.Context) (*entities.Session, error)
	AddClinicalObservation(ctx context.Context, text, category string) (string, error)
	RemoveClinicalObservation(ctx context.Context, id string) error
	UpdateRiskAssessment(ctx context.Context, level entities.RiskLevel, flags []string) (*entities.Session, error)
	AcknowledgeRiskAlert(ctx context.Context, id string) error
	CompleteAssessment(ctx context.Context) (*entities.Session, error)
	ResetAssessment(ctx context.Context) error
	LoadSnapshot(ctx context.Context, sessionID string) (*entities.SessionSnapshot, error)
}

// AssessmentHandler handles assessment session HTTP requests
type AssessmentHandler struct {
	service AssessmentService
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(service AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{service: service}
}

type startAssessmentRequest struct {
	Initials       string                  `json:"initials"`
	Age            int                     `json:"age"`
	Gender         entities.Gender         `json:"gender"`
	PrimaryConcern string                  `json:"primary_concern"`
	AssessmentType entities.AssessmentType `json:"assessment_type"`
	Occupation     string                  `json:"occupation"`
}

// StartAssessment handles POST /api/assessment/start
func (h *AssessmentHandler) StartAssessment(w http.ResponseWriter, r *http.Request) {
	var payload startAssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	patient := &entities.PatientInfo{
		Initials:       strings.TrimSpace(payload.Initials),
		Age:            payload.Age,
		Gender:         payload.Gender,
		PrimaryConcern: strings.TrimSpace(payload.PrimaryConcern),
		AssessmentType: payload.AssessmentType,
		Occupation:     strings.TrimSpace(payload.Occupation),
	}

	session, err := h.service.StartAssessment(r.Context(), patient)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, session)
}

// GetState handles GET /api/assessment/state
func (h *AssessmentHandler) GetState(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.State(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

// GetCurrentQuestion handles GET /api/assessment/question
func (h *AssessmentHandler) GetCurrentQuestion(w http.ResponseWriter, r *http.Request) {
	question, err := h.service.CurrentQuestion(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, question)
}

type submitAnswerRequest struct {
	Value *int `json:"value"`
}

// SubmitAnswer handles POST /api/assessment/answers
func (h *AssessmentHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var payload submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.Value == nil {
		respondWithError(w, http.StatusBadRequest, "value is required")
		return
	}

	session, err := h.service.SubmitAnswer(r.Context(), *payload.Value)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

// NextQuestion handles POST /api/assessment/next
func (h *AssessmentHandler) NextQuestion(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Advance(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

// PreviousQuestion handles POST /api/assessment/previous
func (h *AssessmentHandler) PreviousQuestion(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Retreat(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

type observationRequest struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// AddObservation handles POST /api/assessment/observations
func (h *AssessmentHandler) AddObservation(w http.ResponseWriter, r *http.Request) {
	var payload observationRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	id, err := h.service.AddClinicalObservation(r.Context(), strings.TrimSpace(payload.Text), strings.TrimSpace(payload.Category))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// RemoveObservation handles DELETE /api/assessment/observations/{id}
func (h *AssessmentHandler) RemoveObservation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "observation ID is required")
		return
	}

	if err := h.service.RemoveClinicalObservation(r.Context(), id); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

type riskAssessmentRequest struct {
	Level entities.RiskLevel `json:"level"`
	Flags []string           `json:"flags"`
}

// UpdateRiskAssessment handles POST /api/assessment/risk
func (h *AssessmentHandler) UpdateRiskAssessment(w http.ResponseWriter, r *http.Request) {
	var payload riskAssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	session, err := h.service.UpdateRiskAssessment(r.Context(), payload.Level, payload.Flags)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

// AcknowledgeRiskAlert handles POST /api/assessment/alerts/{id}/acknowledge
func (h *AssessmentHandler) AcknowledgeRiskAlert(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "alert ID is required")
		return
	}

	if err := h.service.AcknowledgeRiskAlert(r.Context(), id); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "acknowledged"})
}

// CompleteAssessment handles POST /api/assessment/complete
func (h *AssessmentHandler) CompleteAssessment(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.CompleteAssessment(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

// GetSessionSnapshot handles GET /api/assessment/sessions/{id}/snapshot
func (h *AssessmentHandler) GetSessionSnapshot(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "session ID is required")
		return
	}

	snapshot, err := h.service.LoadSnapshot(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, snapshot)
}

// ResetAssessment handles POST /api/assessment/reset
func (h *AssessmentHandler) ResetAssessment(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ResetAssessment(r.Context()); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithServiceError maps application errors onto HTTP status codes.
func respondWithServiceError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, appErr.Message)
	case apperrors.ErrorTypeValidation, apperrors.ErrorTypeInvalidAnswer:
		respondWithError(w, http.StatusBadRequest, appErr.Message)
	case apperrors.ErrorTypeNoActiveQuestion, apperrors.ErrorTypeSessionTerminated:
		respondWithError(w, http.StatusConflict, appErr.Message)
	case apperrors.ErrorTypeExternal:
		respondWithError(w, http.StatusBadGateway, appErr.Message)
	default:
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
