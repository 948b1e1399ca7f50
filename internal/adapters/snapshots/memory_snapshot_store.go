package snapshots

import (
	"context"
	"fmt"
	"sync"

	"github.com/BeenaAbe/dify-mental-health/internal/domain/entities"
	"github.com/BeenaAbe/dify-mental-health/internal/domain/repositories"
	apperrors "github.com/BeenaAbe/dify-mental-health/pkg/errors"
)

// MemorySnapshotStore keeps snapshots in process memory. Used when Redis is
// unavailable and in tests; snapshots do not survive a restart.
type MemorySnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]*entities.SessionSnapshot
}

// NewMemorySnapshotStore creates an in-memory snapshot store.
func NewMemorySnapshotStore() repositories.SessionSnapshotRepository {
	return &MemorySnapshotStore{
		snapshots: make(map[string]*entities.SessionSnapshot),
	}
}

// Save stores a copy of the snapshot keyed by session ID.
func (s *MemorySnapshotStore) Save(ctx context.Context, snapshot *entities.SessionSnapshot) error {
	if snapshot == nil {
		return apperrors.NewValidationError("snapshot is required")
	}

	copied := *snapshot
	copied.AnswerHistory = append([]entities.AnswerRecord(nil), snapshot.AnswerHistory...)
	copied.ClinicalObservations = append([]entities.ClinicalObservation(nil), snapshot.ClinicalObservations...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snapshot.SessionMetrics.SessionID] = &copied
	return nil
}

// Load retrieves a snapshot by session ID.
func (s *MemorySnapshotStore) Load(ctx context.Context, sessionID string) (*entities.SessionSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.snapshots[sessionID]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no snapshot for session %s", sessionID))
	}

	copied := *snapshot
	copied.AnswerHistory = append([]entities.AnswerRecord(nil), snapshot.AnswerHistory...)
	copied.ClinicalObservations = append([]entities.ClinicalObservation(nil), snapshot.ClinicalObservations...)
	return &copied, nil
}

// Delete removes the snapshot for a session.
func (s *MemorySnapshotStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, sessionID)
	return nil
}
