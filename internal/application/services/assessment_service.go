package services

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/BeenaAbe/dify-mental-health/internal/domain/catalog"
	"github.com/BeenaAbe/dify-mental-health/internal/domain/entities"
	"github.com/BeenaAbe/dify-mental-health/internal/domain/providers"
	"github.com/BeenaAbe/dify-mental-health/internal/domain/repositories"
	"github.com/BeenaAbe/dify-mental-health/internal/infrastructure/observability"
	apperrors "github.com/BeenaAbe/dify-mental-health/pkg/errors"
)

// AssessmentService is the session engine. It owns the single active
// session aggregate and serializes every operation: an operation clones the
// current state, applies its full transition to the clone, and commits the
// clone only on success, so failed operations never leave partial state and
// a reset can never race a half-applied submission.
type AssessmentService struct {
	mu sync.Mutex

	catalog *catalog.Catalog
	engine  *ProbabilityEngine
	risk    *RiskMonitor

	snapshots repositories.SessionSnapshotRepository
	archive   repositories.SessionArchiveRepository
	bus       providers.EventBus
	metrics   *observability.Metrics

	session *entities.Session
}

// NewAssessmentService creates the assessment engine. The snapshot store,
// archive, event bus and metrics are optional; the engine degrades to
// in-memory-only operation without them.
func NewAssessmentService(
	cat *catalog.Catalog,
	engine *ProbabilityEngine,
	risk *RiskMonitor,
	snapshots repositories.SessionSnapshotRepository,
	archive repositories.SessionArchiveRepository,
	bus providers.EventBus,
	metrics *observability.Metrics,
) *AssessmentService {
	return &AssessmentService{
		catalog:   cat,
		engine:    engine,
		risk:      risk,
		snapshots: snapshots,
		archive:   archive,
		bus:       bus,
		metrics:   metrics,
	}
}

// StartAssessment validates the intake data and replaces any previous
// session with a freshly initialized one.
func (s *AssessmentService) StartAssessment(ctx context.Context, patient *entities.PatientInfo) (*entities.Session, error) {
	if patient == nil {
		return nil, apperrors.NewValidationError("patient info is required")
	}
	if err := patient.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.newSession(*patient)
	s.session = session

	s.persistSnapshot(ctx, session)

	log.Info().
		Str("session_id", session.Metrics.SessionID).
		Int("total_questions", session.Metrics.TotalQuestions).
		Msg("assessment session started")

	return session.Clone(), nil
}

func (s *AssessmentService) newSession(patient entities.PatientInfo) *entities.Session {
	return &entities.Session{
		PatientInfo: patient,
		Metrics: entities.SessionMetrics{
			SessionID:      "MHD-" + strings.ToUpper(uuid.New().String()[:8]),
			StartTime:      time.Now().UTC(),
			TotalQuestions: s.catalog.Len(),
		},
		QuestionIndex:  0,
		AnswerHistory:  []entities.AnswerRecord{},
		Probabilities:  InitialProbabilities(),
		Evidence:       initialEvidence(),
		Observations:   []entities.ClinicalObservation{},
		RiskLevel:      entities.RiskLevelLow,
		RiskFlags:      []string{},
		RiskAlerts:     []entities.RiskAlert{},
		FinalDiagnoses: []entities.DiagnosisProbability{},
		Status:         entities.SessionStatusInProgress,
	}
}

// State returns a copy of the current session, or NoActiveQuestion when no
// session has been started.
func (s *AssessmentService) State(ctx context.Context) (*entities.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, apperrors.NewNoActiveQuestionError("assessment has not been started")
	}
	return s.session.Clone(), nil
}

// CurrentQuestion returns the active question.
func (s *AssessmentService) CurrentQuestion(ctx context.Context) (entities.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return entities.Question{}, apperrors.NewNoActiveQuestionError("assessment has not been started")
	}
	if s.session.IsComplete() {
		return entities.Question{}, apperrors.NewNoActiveQuestionError("assessment is complete")
	}

	question, err := s.catalog.QuestionAt(s.session.QuestionIndex)
	if err != nil {
		return entities.Question{}, apperrors.NewNoActiveQuestionError("no question at current position")
	}
	return question, nil
}

// SubmitAnswer records an answer to the active question. The whole fan-out
// (evidence, probabilities, risk evaluation, metrics, auto-finalization)
// runs inside one transaction; the session is unchanged on any failure.
func (s *AssessmentService) SubmitAnswer(ctx context.Context, value int) (*entities.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, apperrors.NewNoActiveQuestionError("assessment has not been started")
	}
	if s.session.IsComplete() {
		return nil, apperrors.NewSessionTerminatedError("assessment is already complete")
	}

	question, err := s.catalog.QuestionAt(s.session.QuestionIndex)
	if err != nil {
		return nil, apperrors.NewNoActiveQuestionError("no question at current position")
	}
	if s.session.Answered(question.ID) {
		return nil, apperrors.NewInvalidAnswerError("question " + question.ID + " has already been answered")
	}

	option, ok := question.OptionByValue(value)
	if !ok {
		return nil, apperrors.NewInvalidAnswerError("selected value does not match any option of the current question")
	}

	next := s.session.Clone()

	record := entities.AnswerRecord{
		QuestionID:    question.ID,
		QuestionText:  question.Text,
		SelectedValue: option.Value,
		AnswerText:    option.Text,
		Points:        option.Points,
		Category:      question.Category,
		Timestamp:     time.Now().UTC(),
	}
	next.AnswerHistory = append(next.AnswerHistory, record)
	next.SelectedAnswer = &option.Value

	s.accumulateEvidence(next, &record)
	s.engine.ApplyAnswer(next, &record)

	var alert *entities.RiskAlert
	if level, triggered := s.risk.Assess(&record); triggered {
		alert = s.risk.Escalate(next, level, []string{riskFlagSuicidalIdeation})
	}

	next.Metrics.QuestionsCompleted++
	next.Metrics.CompletionPercentage = completionPercentage(
		next.Metrics.QuestionsCompleted, next.Metrics.TotalQuestions)

	completed := false
	if next.Metrics.QuestionsCompleted >= next.Metrics.TotalQuestions {
		s.finalize(next)
		completed = true
	}

	s.session = next

	s.persistSnapshot(ctx, next)
	observability.RecordAnswerSubmitted(ctx, s.metrics, string(record.Category))

	s.publishEvent(ctx, entities.NewAssessmentEvent(
		next.Metrics.SessionID,
		entities.AssessmentEventTypeAnswerRecorded,
		map[string]interface{}{
			"question_id": record.QuestionID,
			"points":      record.Points,
		},
	))

	if alert != nil {
		s.afterRiskAlert(ctx, next, alert)
	}
	if completed {
		s.afterCompletion(ctx, next)
	}

	return next.Clone(), nil
}

func (s *AssessmentService) accumulateEvidence(session *entities.Session, record *entities.AnswerRecord) {
	bucketName, mapped := categoryBucket[record.Category]
	if !mapped {
		return
	}
	for i := range session.Evidence {
		if session.Evidence[i].Category == bucketName {
			session.Evidence[i].Record(record.Points, record.AnswerText)
			return
		}
	}
}

// Advance moves the cursor to the next question; advancing past the last
// question finalizes the session.
func (s *AssessmentService) Advance(ctx context.Context) (*entities.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, apperrors.NewNoActiveQuestionError("assessment has not been started")
	}
	if s.session.IsComplete() {
		return nil, apperrors.NewSessionTerminatedError("assessment is already complete")
	}

	next := s.session.Clone()

	if next.QuestionIndex+1 < next.Metrics.TotalQuestions {
		next.QuestionIndex++
		next.SelectedAnswer = nil
		s.session = next
		s.persistSnapshot(ctx, next)
		return next.Clone(), nil
	}

	s.finalize(next)
	s.session = next
	s.persistSnapshot(ctx, next)
	s.afterCompletion(ctx, next)

	return next.Clone(), nil
}

// Retreat moves the cursor back one question, clearing any pending
// selection. The previous answer is not restored.
func (s *AssessmentService) Retreat(ctx context.Context) (*entities.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, apperrors.NewNoActiveQuestionError("assessment has not been started")
	}
	if s.session.IsComplete() {
		return nil, apperrors.NewSessionTerminatedError("assessment is already complete")
	}

	next := s.session.Clone()
	if next.QuestionIndex > 0 {
		next.QuestionIndex--
	}
	next.SelectedAnswer = nil

	s.session = next
	return next.Clone(), nil
}

// AddClinicalObservation records a free-text observation and returns its id.
func (s *AssessmentService) AddClinicalObservation(ctx context.Context, text, category string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", apperrors.NewValidationError("observation text is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return "", apperrors.NewNoActiveQuestionError("assessment has not been started")
	}

	next := s.session.Clone()
	observation := entities.ClinicalObservation{
		ID:        "obs-" + uuid.New().String(),
		Text:      strings.TrimSpace(text),
		Category:  category,
		Timestamp: time.Now().UTC(),
		Source:    entities.ObservationSourceManualEntry,
	}
	next.Observations = append(next.Observations, observation)

	s.session = next
	s.persistSnapshot(ctx, next)

	return observation.ID, nil
}

// RemoveClinicalObservation removes an observation by id.
func (s *AssessmentService) RemoveClinicalObservation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return apperrors.NewNoActiveQuestionError("assessment has not been started")
	}

	next := s.session.Clone()
	for i, obs := range next.Observations {
		if obs.ID == id {
			next.Observations = append(next.Observations[:i], next.Observations[i+1:]...)
			s.session = next
			s.persistSnapshot(ctx, next)
			return nil
		}
	}

	return apperrors.NewNotFoundError("observation " + id + " not found")
}

// UpdateRiskAssessment applies a risk level directly, outside the normal
// self-harm answer path. Escalation stays monotone: a lower level than the
// session's current one is recorded in flags only.
func (s *AssessmentService) UpdateRiskAssessment(ctx context.Context, level entities.RiskLevel, flags []string) (*entities.Session, error) {
	if !level.IsValid() {
		return nil, apperrors.NewValidationError("unknown risk level")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, apperrors.NewNoActiveQuestionError("assessment has not been started")
	}

	next := s.session.Clone()
	alert := s.risk.Escalate(next, level, flags)

	s.session = next
	s.persistSnapshot(ctx, next)

	if alert != nil {
		s.afterRiskAlert(ctx, next, alert)
	}

	return next.Clone(), nil
}

// AcknowledgeRiskAlert marks an alert acknowledged. The UI-facing alert
// flag clears only when every alert has been acknowledged.
func (s *AssessmentService) AcknowledgeRiskAlert(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return apperrors.NewNoActiveQuestionError("assessment has not been started")
	}

	next := s.session.Clone()
	found := false
	allAcknowledged := true
	for i := range next.RiskAlerts {
		if next.RiskAlerts[i].ID == id {
			next.RiskAlerts[i].Acknowledged = true
			found = true
		}
		if !next.RiskAlerts[i].Acknowledged {
			allAcknowledged = false
		}
	}
	if !found {
		return apperrors.NewNotFoundError("risk alert " + id + " not found")
	}
	if allAcknowledged {
		next.ShowRiskAlert = false
	}

	s.session = next
	return nil
}

// CompleteAssessment finalizes the session. Idempotent: repeated calls
// return the already-finalized state without recomputing duration.
func (s *AssessmentService) CompleteAssessment(ctx context.Context) (*entities.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, apperrors.NewNoActiveQuestionError("assessment has not been started")
	}
	if s.session.IsComplete() {
		return s.session.Clone(), nil
	}

	next := s.session.Clone()
	s.finalize(next)

	s.session = next
	s.persistSnapshot(ctx, next)
	s.afterCompletion(ctx, next)

	return next.Clone(), nil
}

// finalize freezes the session: duration, 100% completion, and the ranked
// final diagnosis set (probability > 0, descending, stable on ties).
func (s *AssessmentService) finalize(session *entities.Session) {
	if session.IsComplete() {
		return
	}

	endTime := time.Now().UTC()
	session.Metrics.EndTime = &endTime
	session.Metrics.DurationSeconds = int(endTime.Sub(session.Metrics.StartTime).Seconds())
	session.Metrics.CompletionPercentage = 100

	final := make([]entities.DiagnosisProbability, 0, len(session.Probabilities))
	for _, d := range session.Probabilities {
		if d.Probability > 0 {
			final = append(final, d)
		}
	}
	for i := range final {
		final[i].SupportingSymptoms = append([]string(nil), final[i].SupportingSymptoms...)
	}
	sort.SliceStable(final, func(i, j int) bool {
		return final[i].Probability > final[j].Probability
	})
	session.FinalDiagnoses = final

	session.Status = entities.SessionStatusCompleted
	session.SelectedAnswer = nil
}

// LoadSnapshot returns the persisted snapshot for a session. Serves clients
// rehydrating their view after a reload; the snapshot excludes UI-only flags.
func (s *AssessmentService) LoadSnapshot(ctx context.Context, sessionID string) (*entities.SessionSnapshot, error) {
	if s.snapshots == nil {
		return nil, apperrors.NewNotFoundError("no snapshot for session " + sessionID)
	}
	return s.snapshots.Load(ctx, sessionID)
}

// ResetAssessment discards the current session. The next assessment starts
// from a state byte-identical to a fresh service.
func (s *AssessmentService) ResetAssessment(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil
	}

	sessionID := s.session.Metrics.SessionID
	s.session = nil

	if s.snapshots != nil {
		if err := s.snapshots.Delete(ctx, sessionID); err != nil {
			log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to delete session snapshot")
		}
	}

	log.Info().Str("session_id", sessionID).Msg("assessment session reset")
	return nil
}

func (s *AssessmentService) persistSnapshot(ctx context.Context, session *entities.Session) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Save(ctx, session.Snapshot()); err != nil {
		log.Warn().Err(err).
			Str("session_id", session.Metrics.SessionID).
			Msg("failed to persist session snapshot")
	}
}

// publishEvent fans the event out to the global stream and to the
// session-scoped channel that per-session subscribers listen on.
func (s *AssessmentService) publishEvent(ctx context.Context, event *entities.AssessmentEvent) {
	if s.bus == nil {
		return
	}
	channels := []string{
		providers.EventChannelAssessmentUpdates,
		providers.GetSessionChannel(event.SessionID),
	}
	for _, channel := range channels {
		if err := s.bus.Publish(ctx, channel, event); err != nil {
			log.Warn().Err(err).
				Str("channel", channel).
				Str("event_type", string(event.EventType)).
				Msg("failed to publish assessment event")
		}
	}
}

func (s *AssessmentService) afterRiskAlert(ctx context.Context, session *entities.Session, alert *entities.RiskAlert) {
	observability.RecordRiskAlert(ctx, s.metrics, string(alert.Level))

	log.Warn().
		Str("session_id", session.Metrics.SessionID).
		Str("risk_level", string(alert.Level)).
		Bool("emergency_protocol", session.EmergencyProtocolTriggered).
		Msg("risk alert raised")

	s.publishEvent(ctx, entities.NewAssessmentEvent(
		session.Metrics.SessionID,
		entities.AssessmentEventTypeRiskAlertRaised,
		map[string]interface{}{
			"alert_id": alert.ID,
			"level":    string(alert.Level),
		},
	))
}

func (s *AssessmentService) afterCompletion(ctx context.Context, session *entities.Session) {
	observability.RecordSessionDuration(ctx, s.metrics, session.Metrics.DurationSeconds)

	log.Info().
		Str("session_id", session.Metrics.SessionID).
		Int("duration_seconds", session.Metrics.DurationSeconds).
		Int("final_diagnoses", len(session.FinalDiagnoses)).
		Msg("assessment session completed")

	s.publishEvent(ctx, entities.NewAssessmentEvent(
		session.Metrics.SessionID,
		entities.AssessmentEventTypeSessionCompleted,
		map[string]interface{}{
			"duration_seconds": session.Metrics.DurationSeconds,
			"risk_level":       string(session.RiskLevel),
		},
	))

	if s.archive != nil {
		completed := &entities.CompletedSession{
			SessionID:       session.Metrics.SessionID,
			PatientInitials: session.PatientInfo.Initials,
			AssessmentType:  session.PatientInfo.AssessmentType,
			RiskLevel:       session.RiskLevel,
			DurationSeconds: session.Metrics.DurationSeconds,
			FinalDiagnoses:  session.FinalDiagnoses,
			CompletedAt:     *session.Metrics.EndTime,
		}
		if err := s.archive.Archive(ctx, completed); err != nil {
			log.Warn().Err(err).
				Str("session_id", session.Metrics.SessionID).
				Msg("failed to archive completed session")
		}
	}
}

func completionPercentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(float64(completed) / float64(total) * 100))
	if pct > 100 {
		pct = 100
	}
	return pct
}
