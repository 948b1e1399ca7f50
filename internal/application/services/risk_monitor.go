package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/BeenaAbe/dify-mental-health/internal/domain/entities"
	"github.com/BeenaAbe/dify-mental-health/pkg/config"
)

// Risk flag recorded when a self-harm answer escalates the session.
const riskFlagSuicidalIdeation = "Suicidal ideation reported"

// RiskMonitor derives risk levels from self-harm answers and applies
// escalations to the session. Evaluation happens synchronously inside the
// answer-submission transaction; there is no deferred risk work that a
// reset would have to cancel.
type RiskMonitor struct {
	escalationMinPoints int
	highPoints          int
}

// NewRiskMonitor creates a risk monitor with the configured thresholds.
func NewRiskMonitor(cfg *config.AssessmentConfig) *RiskMonitor {
	return &RiskMonitor{
		escalationMinPoints: cfg.RiskEscalationMinPoints,
		highPoints:          cfg.RiskHighPoints,
	}
}

// Assess determines whether an accepted answer triggers risk escalation and,
// if so, at which level.
func (m *RiskMonitor) Assess(record *entities.AnswerRecord) (entities.RiskLevel, bool) {
	if record.Category != entities.CategorySelfHarm || record.Points <= m.escalationMinPoints {
		return entities.RiskLevelLow, false
	}
	if record.Points >= m.highPoints {
		return entities.RiskLevelHigh, true
	}
	return entities.RiskLevelModerate, true
}

// Escalate applies a risk level to the session. The session level is the
// maximum ever reached; a new alert is raised only when severity strictly
// increases to moderate or above. Returns the created alert, or nil.
func (m *RiskMonitor) Escalate(session *entities.Session, level entities.RiskLevel, flags []string) *entities.RiskAlert {
	effective := entities.MaxRiskLevel(session.RiskLevel, level)
	escalated := effective.Severity() > session.RiskLevel.Severity()
	session.RiskLevel = effective

	for _, flag := range flags {
		addRiskFlag(session, flag)
	}

	if effective.Severity() >= entities.RiskLevelHigh.Severity() {
		session.EmergencyProtocolTriggered = true
	}

	if !escalated || effective == entities.RiskLevelLow {
		return nil
	}

	alert := newRiskAlert(effective)
	session.RiskAlerts = append(session.RiskAlerts, alert)
	session.ShowRiskAlert = true
	return &session.RiskAlerts[len(session.RiskAlerts)-1]
}

func addRiskFlag(session *entities.Session, flag string) {
	for _, existing := range session.RiskFlags {
		if existing == flag {
			return
		}
	}
	session.RiskFlags = append(session.RiskFlags, flag)
}

func newRiskAlert(level entities.RiskLevel) entities.RiskAlert {
	alert := entities.RiskAlert{
		ID:           "risk-" + uuid.New().String(),
		Level:        level,
		Timestamp:    time.Now().UTC(),
		Acknowledged: false,
	}

	if level.Severity() >= entities.RiskLevelHigh.Severity() {
		alert.Message = "HIGH SUICIDE RISK ALERT - Immediate Safety Assessment Required"
		alert.RecommendedActions = []string{
			"Contact emergency services",
			"Immediate safety planning",
			"Continuous supervision",
		}
		return alert
	}

	alert.Message = "Moderate Suicide Risk - Enhanced Monitoring Recommended"
	alert.RecommendedActions = []string{
		"Safety planning",
		"Regular check-ins",
		"Monitor closely",
	}
	return alert
}
