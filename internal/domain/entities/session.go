package entities

import "time"

// SessionStatus is the lifecycle state of an assessment session
type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "in-progress"
	SessionStatusCompleted  SessionStatus = "completed"
)

// SessionMetrics tracks timing and progress for one session
type SessionMetrics struct {
	SessionID            string     `json:"session_id"`
	StartTime            time.Time  `json:"start_time"`
	EndTime              *time.Time `json:"end_time,omitempty"`
	DurationSeconds      int        `json:"duration_seconds"`
	QuestionsCompleted   int        `json:"questions_completed"`
	TotalQuestions       int        `json:"total_questions"`
	CompletionPercentage int        `json:"completion_percentage"`
}

// Session is the aggregate root for one assessment run. It is mutated only
// through engine operations, each of which works on a clone and commits the
// result, so a *Session held by a caller is never modified underneath it.
type Session struct {
	PatientInfo PatientInfo    `json:"patient_info"`
	Metrics     SessionMetrics `json:"metrics"`

	QuestionIndex  int  `json:"question_index"`
	SelectedAnswer *int `json:"selected_answer,omitempty"`

	AnswerHistory []AnswerRecord         `json:"answer_history"`
	Probabilities []DiagnosisProbability `json:"probabilities"`
	Evidence      []EvidenceBucket       `json:"evidence"`
	Observations  []ClinicalObservation  `json:"observations"`

	RiskLevel                  RiskLevel   `json:"risk_level"`
	RiskFlags                  []string    `json:"risk_flags"`
	EmergencyProtocolTriggered bool        `json:"emergency_protocol_triggered"`
	RiskAlerts                 []RiskAlert `json:"risk_alerts"`
	ShowRiskAlert              bool        `json:"show_risk_alert"`

	FinalDiagnoses []DiagnosisProbability `json:"final_diagnoses"`
	Status         SessionStatus          `json:"status"`
}

// IsComplete reports whether the session has been finalized.
func (s *Session) IsComplete() bool {
	return s.Status == SessionStatusCompleted
}

// Answered reports whether the question was already answered this session.
func (s *Session) Answered(questionID string) bool {
	for _, record := range s.AnswerHistory {
		if record.QuestionID == questionID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the session. Engine operations apply their
// changes to a clone and commit it only when the whole operation succeeds.
func (s *Session) Clone() *Session {
	clone := *s

	if s.SelectedAnswer != nil {
		v := *s.SelectedAnswer
		clone.SelectedAnswer = &v
	}
	if s.Metrics.EndTime != nil {
		t := *s.Metrics.EndTime
		clone.Metrics.EndTime = &t
	}

	clone.AnswerHistory = append([]AnswerRecord(nil), s.AnswerHistory...)
	clone.Observations = append([]ClinicalObservation(nil), s.Observations...)
	clone.RiskFlags = append([]string(nil), s.RiskFlags...)
	clone.Probabilities = cloneProbabilities(s.Probabilities)
	clone.FinalDiagnoses = cloneProbabilities(s.FinalDiagnoses)

	clone.Evidence = append([]EvidenceBucket(nil), s.Evidence...)
	for i := range clone.Evidence {
		clone.Evidence[i].Findings = append([]string(nil), s.Evidence[i].Findings...)
	}

	clone.RiskAlerts = append([]RiskAlert(nil), s.RiskAlerts...)
	for i := range clone.RiskAlerts {
		clone.RiskAlerts[i].RecommendedActions = append([]string(nil), s.RiskAlerts[i].RecommendedActions...)
	}

	return &clone
}

func cloneProbabilities(src []DiagnosisProbability) []DiagnosisProbability {
	if src == nil {
		return nil
	}
	out := append([]DiagnosisProbability(nil), src...)
	for i := range out {
		out[i].SupportingSymptoms = append([]string(nil), src[i].SupportingSymptoms...)
	}
	return out
}

// SessionSnapshot is the persisted shape of a session. UI-facing flags such
// as alert visibility are deliberately excluded.
type SessionSnapshot struct {
	PatientInfo          PatientInfo           `json:"patient_info"`
	AnswerHistory        []AnswerRecord        `json:"answer_history"`
	ClinicalObservations []ClinicalObservation `json:"clinical_observations"`
	SessionMetrics       SessionMetrics        `json:"session_metrics"`
}

// Snapshot extracts the persistable subset of the session.
func (s *Session) Snapshot() *SessionSnapshot {
	return &SessionSnapshot{
		PatientInfo:          s.PatientInfo,
		AnswerHistory:        append([]AnswerRecord(nil), s.AnswerHistory...),
		ClinicalObservations: append([]ClinicalObservation(nil), s.Observations...),
		SessionMetrics:       s.Metrics,
	}
}

// CompletedSession is the archived summary of a finalized session.
type CompletedSession struct {
	SessionID       string                 `json:"session_id"`
	PatientInitials string                 `json:"patient_initials"`
	AssessmentType  AssessmentType         `json:"assessment_type"`
	RiskLevel       RiskLevel              `json:"risk_level"`
	DurationSeconds int                    `json:"duration_seconds"`
	FinalDiagnoses  []DiagnosisProbability `json:"final_diagnoses"`
	CompletedAt     time.Time              `json:"completed_at"`
}
