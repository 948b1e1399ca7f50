package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeenaAbe/dify-mental-health/internal/api/handlers"
	"github.com/BeenaAbe/dify-mental-health/internal/domain/entities"
	apperrors "github.com/BeenaAbe/dify-mental-health/pkg/errors"
)

type stubAssessmentService struct {
	session       *entities.Session
	question      entities.Question
	snapshot      *entities.SessionSnapshot
	snapshotIDs   []string
	err           error
	submitted     []int
	observations  []string
	removedIDs    []string
	acknowledged  []string
	resetCalled   bool
	riskLevel     entities.RiskLevel
	riskFlags     []string
	startedWith   *entities.PatientInfo
	completeCalls int
}

func (s *stubAssessmentService) StartAssessment(ctx context.Context, patient *entities.PatientInfo) (*entities.Session, error) {
	s.startedWith = patient
	return s.session, s.err
}

func (s *stubAssessmentService) State(ctx context.Context) (*entities.Session, error) {
	return s.session, s.err
}

func (s *stubAssessmentService) CurrentQuestion(ctx context.Context) (entities.Question, error) {
	return s.question, s.err
}

func (s *stubAssessmentService) SubmitAnswer(ctx context.Context, value int) (*entities.Session, error) {
	s.submitted = append(s.submitted, value)
	return s.session, s.err
}

func (s *stubAssessmentService) Advance(ctx context.Context) (*entities.Session, error) {
	return s.session, s.err
}

func (s *stubAssessmentService) Retreat(ctx context.Context) (*entities.Session, error) {
	return s.session, s.err
}

func (s *stubAssessmentService) AddClinicalObservation(ctx context.Context, text, category string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.observations = append(s.observations, text)
	return "obs-123", nil
}

func (s *stubAssessmentService) RemoveClinicalObservation(ctx context.Context, id string) error {
	s.removedIDs = append(s.removedIDs, id)
	return s.err
}

func (s *stubAssessmentService) UpdateRiskAssessment(ctx context.Context, level entities.RiskLevel, flags []string) (*entities.Session, error) {
	s.riskLevel = level
	s.riskFlags = flags
	return s.session, s.err
}

func (s *stubAssessmentService) AcknowledgeRiskAlert(ctx context.Context, id string) error {
	s.acknowledged = append(s.acknowledged, id)
	return s.err
}

func (s *stubAssessmentService) CompleteAssessment(ctx context.Context) (*entities.Session, error) {
	s.completeCalls++
	return s.session, s.err
}

func (s *stubAssessmentService) ResetAssessment(ctx context.Context) error {
	s.resetCalled = true
	return s.err
}

func (s *stubAssessmentService) LoadSnapshot(ctx context.Context, sessionID string) (*entities.SessionSnapshot, error) {
	s.snapshotIDs = append(s.snapshotIDs, sessionID)
	return s.snapshot, s.err
}

func testSession() *entities.Session {
	return &entities.Session{
		PatientInfo: entities.PatientInfo{Initials: "JD", Age: 30},
		Metrics:     entities.SessionMetrics{SessionID: "MHD-ABC123", TotalQuestions: 10},
		Status:      entities.SessionStatusInProgress,
		RiskLevel:   entities.RiskLevelLow,
	}
}

func TestAssessmentHandler_StartAssessment(t *testing.T) {
	service := &stubAssessmentService{session: testSession()}
	handler := handlers.NewAssessmentHandler(service)

	body := `{"initials":"  JD ","age":30,"gender":"female","primary_concern":"low mood","assessment_type":"depression-screening"}`
	req := httptest.NewRequest("POST", "/api/assessment/start", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.StartAssessment(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, service.startedWith)
	assert.Equal(t, "JD", service.startedWith.Initials)

	var response entities.Session
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "MHD-ABC123", response.Metrics.SessionID)
}

func TestAssessmentHandler_StartAssessment_ValidationError(t *testing.T) {
	service := &stubAssessmentService{err: apperrors.NewValidationError("initials are required")}
	handler := handlers.NewAssessmentHandler(service)

	req := httptest.NewRequest("POST", "/api/assessment/start", strings.NewReader(`{"age":30}`))
	w := httptest.NewRecorder()

	handler.StartAssessment(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var response map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "initials are required", response["error"])
}

func TestAssessmentHandler_GetState_NoSession(t *testing.T) {
	service := &stubAssessmentService{err: apperrors.NewNotFoundError("no active assessment session")}
	handler := handlers.NewAssessmentHandler(service)

	req := httptest.NewRequest("GET", "/api/assessment/state", nil)
	w := httptest.NewRecorder()

	handler.GetState(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssessmentHandler_SubmitAnswer(t *testing.T) {
	service := &stubAssessmentService{session: testSession()}
	handler := handlers.NewAssessmentHandler(service)

	req := httptest.NewRequest("POST", "/api/assessment/answers", strings.NewReader(`{"value":2}`))
	w := httptest.NewRecorder()

	handler.SubmitAnswer(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{2}, service.submitted)
}

func TestAssessmentHandler_SubmitAnswer_ZeroValue(t *testing.T) {
	service := &stubAssessmentService{session: testSession()}
	handler := handlers.NewAssessmentHandler(service)

	req := httptest.NewRequest("POST", "/api/assessment/answers", strings.NewReader(`{"value":0}`))
	w := httptest.NewRecorder()

	handler.SubmitAnswer(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{0}, service.submitted)
}

func TestAssessmentHandler_SubmitAnswer_MissingValue(t *testing.T) {
	service := &stubAssessmentService{session: testSession()}
	handler := handlers.NewAssessmentHandler(service)

	req := httptest.NewRequest("POST", "/api/assessment/answers", strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	handler.SubmitAnswer(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, service.submitted)
}

func TestAssessmentHandler_SubmitAnswer_NoActiveQuestion(t *testing.T) {
	service := &stubAssessmentService{err: apperrors.NewNoActiveQuestionError("no question is active")}
	handler := handlers.NewAssessmentHandler(service)

	req := httptest.NewRequest("POST", "/api/assessment/answers", strings.NewReader(`{"value":1}`))
	w := httptest.NewRecorder()

	handler.SubmitAnswer(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAssessmentHandler_SubmitAnswer_Terminated(t *testing.T) {
	service := &stubAssessmentService{err: apperrors.NewSessionTerminatedError("session already completed")}
	handler := handlers.NewAssessmentHandler(service)

	req := httptest.NewRequest("POST", "/api/assessment/answers", strings.NewReader(`{"value":1}`))
	w := httptest.NewRecorder()

	handler.SubmitAnswer(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAssessmentHandler_SubmitAnswer_InvalidOption(t *testing.T) {
	service := &stubAssessmentService{err: apperrors.NewInvalidAnswerError("no option with value 9")}
	handler := handlers.NewAssessmentHandler(service)

	req := httptest.NewRequest("POST", "/api/assessment/answers", strings.NewReader(`{"value":9}`))
	w := httptest.NewRecorder()

	handler.SubmitAnswer(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssessmentHandler_Observations(t *testing.T) {
	service := &stubAssessmentService{session: testSession()}
	handler := handlers.NewAssessmentHandler(service)

	req := httptest.NewRequest("POST", "/api/assessment/observations", strings.NewReader(`{"text":"flat affect","category":"presentation"}`))
	w := httptest.NewRecorder()

	handler.AddObservation(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var response map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "obs-123", response["id"])
	assert.Equal(t, []string{"flat affect"}, service.observations)
}

func TestAssessmentHandler_RemoveObservation_NotFound(t *testing.T) {
	service := &stubAssessmentService{err: apperrors.NewNotFoundError("observation not found")}
	handler := handlers.NewAssessmentHandler(service)

	req := httptest.NewRequest("DELETE", "/api/assessment/observations/obs-404", nil)
	req.SetPathValue("id", "obs-404")
	w := httptest.NewRecorder()

	handler.RemoveObservation(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, []string{"obs-404"}, service.removedIDs)
}

func TestAssessmentHandler_UpdateRiskAssessment(t *testing.T) {
	service := &stubAssessmentService{session: testSession()}
	handler := handlers.NewAssessmentHandler(service)

	body := `{"level":"moderate","flags":["Clinician concern"]}`
	req := httptest.NewRequest("POST", "/api/assessment/risk", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.UpdateRiskAssessment(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, entities.RiskLevelModerate, service.riskLevel)
	assert.Equal(t, []string{"Clinician concern"}, service.riskFlags)
}

func TestAssessmentHandler_AcknowledgeRiskAlert(t *testing.T) {
	service := &stubAssessmentService{session: testSession()}
	handler := handlers.NewAssessmentHandler(service)

	req := httptest.NewRequest("POST", "/api/assessment/alerts/alert-1/acknowledge", nil)
	req.SetPathValue("id", "alert-1")
	w := httptest.NewRecorder()

	handler.AcknowledgeRiskAlert(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"alert-1"}, service.acknowledged)
}

func TestAssessmentHandler_GetSessionSnapshot(t *testing.T) {
	service := &stubAssessmentService{
		snapshot: &entities.SessionSnapshot{
			PatientInfo:    entities.PatientInfo{Initials: "JD"},
			SessionMetrics: entities.SessionMetrics{SessionID: "MHD-ABC123"},
		},
	}
	handler := handlers.NewAssessmentHandler(service)

	req := httptest.NewRequest("GET", "/api/assessment/sessions/MHD-ABC123/snapshot", nil)
	req.SetPathValue("id", "MHD-ABC123")
	w := httptest.NewRecorder()

	handler.GetSessionSnapshot(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"MHD-ABC123"}, service.snapshotIDs)

	var response entities.SessionSnapshot
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "MHD-ABC123", response.SessionMetrics.SessionID)
}

func TestAssessmentHandler_GetSessionSnapshot_NotFound(t *testing.T) {
	service := &stubAssessmentService{err: apperrors.NewNotFoundError("no snapshot for session MHD-GONE")}
	handler := handlers.NewAssessmentHandler(service)

	req := httptest.NewRequest("GET", "/api/assessment/sessions/MHD-GONE/snapshot", nil)
	req.SetPathValue("id", "MHD-GONE")
	w := httptest.NewRecorder()

	handler.GetSessionSnapshot(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssessmentHandler_CompleteAndReset(t *testing.T) {
	service := &stubAssessmentService{session: testSession()}
	handler := handlers.NewAssessmentHandler(service)

	req := httptest.NewRequest("POST", "/api/assessment/complete", nil)
	w := httptest.NewRecorder()
	handler.CompleteAssessment(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, service.completeCalls)

	req = httptest.NewRequest("POST", "/api/assessment/reset", nil)
	w = httptest.NewRecorder()
	handler.ResetAssessment(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, service.resetCalled)
}
