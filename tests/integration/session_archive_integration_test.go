//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeenaAbe/dify-mental-health/internal/adapters/database"
	"github.com/BeenaAbe/dify-mental-health/internal/domain/entities"
)

func TestSessionArchiveAdapterIntegration(t *testing.T) {
	if os.Getenv("TEST_DB_HOST") == "" {
		t.Skip("Skipping integration test: TEST_DB_HOST not set")
	}

	dbClient := newTestPostgresClient(t)
	defer dbClient.Close()

	db := dbClient.DB()
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS completed_sessions (
			session_id       TEXT PRIMARY KEY,
			patient_initials TEXT NOT NULL,
			assessment_type  TEXT NOT NULL,
			risk_level       TEXT NOT NULL,
			duration_seconds INTEGER NOT NULL,
			final_diagnoses  JSONB NOT NULL DEFAULT '[]',
			completed_at     TIMESTAMPTZ NOT NULL
		)
	`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM completed_sessions WHERE session_id = 'MHD-ARCH1'`)
	require.NoError(t, err)

	archive := database.NewSessionArchiveAdapter(dbClient)

	completed := &entities.CompletedSession{
		SessionID:       "MHD-ARCH1",
		PatientInitials: "JD",
		AssessmentType:  entities.AssessmentTypeDepressionScreening,
		RiskLevel:       entities.RiskLevelModerate,
		DurationSeconds: 720,
		FinalDiagnoses: []entities.DiagnosisProbability{
			{
				Diagnosis:       "Major Depressive Disorder",
				Probability:     48,
				ConfidenceRange: entities.ConfidenceRange{Lower: 38, Upper: 58},
				Range:           entities.SeverityModerate,
			},
		},
		CompletedAt: time.Now().UTC(),
	}

	require.NoError(t, archive.Archive(context.Background(), completed))

	var (
		initials  string
		riskLevel string
		duration  int
		diagnoses []byte
	)
	row := db.QueryRow(`
		SELECT patient_initials, risk_level, duration_seconds, final_diagnoses
		FROM completed_sessions WHERE session_id = 'MHD-ARCH1'
	`)
	require.NoError(t, row.Scan(&initials, &riskLevel, &duration, &diagnoses))

	assert.Equal(t, "JD", initials)
	assert.Equal(t, "moderate", riskLevel)
	assert.Equal(t, 720, duration)

	var parsed []entities.DiagnosisProbability
	require.NoError(t, json.Unmarshal(diagnoses, &parsed))
	require.Len(t, parsed, 1)
	assert.Equal(t, 48, parsed[0].Probability)
}
