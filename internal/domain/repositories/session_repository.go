package repositories

import (
	"context"

	"github.com/BeenaAbe/dify-mental-health/internal/domain/entities"
)

// SessionSnapshotRepository persists the reload-safe subset of a session.
// The storage mechanism is opaque to the engine; implementations must treat
// the snapshot as a single atomic value.
type SessionSnapshotRepository interface {
	Save(ctx context.Context, snapshot *entities.SessionSnapshot) error
	Load(ctx context.Context, sessionID string) (*entities.SessionSnapshot, error)
	Delete(ctx context.Context, sessionID string) error
}

// SessionArchiveRepository stores finalized session summaries for later
// review. Archival is best-effort and never blocks finalization.
type SessionArchiveRepository interface {
	Archive(ctx context.Context, completed *entities.CompletedSession) error
}
