package main

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/BeenaAbe/dify-mental-health/internal/adapters/database"
	"github.com/BeenaAbe/dify-mental-health/internal/domain/entities"
	"github.com/BeenaAbe/dify-mental-health/internal/infrastructure/clients/postgres"
	"github.com/BeenaAbe/dify-mental-health/pkg/config"
)

const archiveSchema = `
CREATE TABLE IF NOT EXISTS completed_sessions (
	session_id       TEXT PRIMARY KEY,
	patient_initials TEXT NOT NULL,
	assessment_type  TEXT NOT NULL,
	risk_level       TEXT NOT NULL,
	duration_seconds INTEGER NOT NULL,
	final_diagnoses  JSONB NOT NULL DEFAULT '[]',
	completed_at     TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_completed_sessions_risk_level
	ON completed_sessions (risk_level);
CREATE INDEX IF NOT EXISTS idx_completed_sessions_completed_at
	ON completed_sessions (completed_at);
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pgClient.Close()

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Info().Msg("RESET_DB=true detected, dropping archive table before seeding")
		if _, err := pgClient.DB().ExecContext(ctx, `DROP TABLE IF EXISTS completed_sessions`); err != nil {
			log.Fatal().Err(err).Msg("Failed to drop archive table")
		}
	}

	if _, err := pgClient.DB().ExecContext(ctx, archiveSchema); err != nil {
		log.Fatal().Err(err).Msg("Failed to create archive schema")
	}
	log.Info().Msg("Archive schema ready")

	if os.Getenv("SEED_SAMPLE_DATA") != "true" {
		return
	}

	archive := database.NewSessionArchiveAdapter(pgClient)

	sample := &entities.CompletedSession{
		SessionID:       "MHD-" + uuid.New().String()[:8],
		PatientInitials: "AB",
		AssessmentType:  entities.AssessmentTypeDepressionScreening,
		RiskLevel:       entities.RiskLevelLow,
		DurationSeconds: 542,
		FinalDiagnoses: []entities.DiagnosisProbability{
			{
				Diagnosis:       "Major Depressive Disorder",
				Probability:     24,
				ConfidenceRange: entities.ConfidenceRange{Lower: 14, Upper: 34},
				Range:           entities.SeverityMild,
			},
		},
		CompletedAt: time.Now().UTC(),
	}

	if err := archive.Archive(ctx, sample); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed sample session")
	}
	log.Info().Str("session_id", sample.SessionID).Msg("Sample completed session seeded")
}
