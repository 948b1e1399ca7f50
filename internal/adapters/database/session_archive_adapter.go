package database

import (
	"context"
	"encoding/json"

	"github.com/doug-martin/goqu/v9"

	"github.com/BeenaAbe/dify-mental-health/internal/domain/entities"
	"github.com/BeenaAbe/dify-mental-health/internal/domain/repositories"
	"github.com/BeenaAbe/dify-mental-health/internal/infrastructure/clients/postgres"
	apperrors "github.com/BeenaAbe/dify-mental-health/pkg/errors"
)

// SessionArchiveAdapter persists finalized session summaries in Postgres.
type SessionArchiveAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSessionArchiveAdapter creates a new session archive adapter.
func NewSessionArchiveAdapter(client *postgres.Client) repositories.SessionArchiveRepository {
	return &SessionArchiveAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Archive inserts a completed session record. Final diagnoses are stored as
// a JSON document; the summary columns carry what clinicians filter on.
func (a *SessionArchiveAdapter) Archive(ctx context.Context, completed *entities.CompletedSession) error {
	if completed == nil {
		return apperrors.NewValidationError("completed session is required")
	}

	diagnoses, err := json.Marshal(completed.FinalDiagnoses)
	if err != nil {
		return apperrors.NewInternalError("failed to encode final diagnoses", err)
	}

	record := goqu.Record{
		"session_id":       completed.SessionID,
		"patient_initials": completed.PatientInitials,
		"assessment_type":  string(completed.AssessmentType),
		"risk_level":       string(completed.RiskLevel),
		"duration_seconds": completed.DurationSeconds,
		"final_diagnoses":  string(diagnoses),
		"completed_at":     completed.CompletedAt,
	}

	query, args, err := a.db.Insert("completed_sessions").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build session archive insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to archive completed session", err)
	}

	return nil
}
