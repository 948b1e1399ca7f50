package entities

import (
	"time"

	"github.com/google/uuid"
)

// AssessmentEventType represents the type of assessment event
type AssessmentEventType string

const (
	AssessmentEventTypeAnswerRecorded   AssessmentEventType = "answer_recorded"
	AssessmentEventTypeRiskAlertRaised  AssessmentEventType = "risk_alert_raised"
	AssessmentEventTypeSessionCompleted AssessmentEventType = "session_completed"
)

// AssessmentEvent is a real-time notification emitted after an engine
// operation commits. Events are published best-effort and never participate
// in the engine's state transitions.
type AssessmentEvent struct {
	ID        string                 `json:"id"`
	SessionID string                 `json:"session_id"`
	EventType AssessmentEventType    `json:"event_type"`
	Timestamp time.Time              `json:"timestamp"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
}

// NewAssessmentEvent creates a new assessment event
func NewAssessmentEvent(sessionID string, eventType AssessmentEventType, payload map[string]interface{}) *AssessmentEvent {
	return &AssessmentEvent{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}
