package snapshots

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/BeenaAbe/dify-mental-health/internal/domain/entities"
	"github.com/BeenaAbe/dify-mental-health/internal/domain/providers"
	"github.com/BeenaAbe/dify-mental-health/internal/domain/repositories"
	"github.com/BeenaAbe/dify-mental-health/internal/infrastructure/observability"
	apperrors "github.com/BeenaAbe/dify-mental-health/pkg/errors"
	"github.com/BeenaAbe/dify-mental-health/pkg/retry"
)

// RedisSnapshotStore persists session snapshots through the cache provider.
// Writes are retried with backoff; a snapshot lost mid-session is recoverable
// from the next write, so the store never fails the calling transaction.
type RedisSnapshotStore struct {
	cache      providers.CacheProvider
	ttlSeconds int
	retryCfg   retry.Config
	metrics    *observability.Metrics
}

// NewRedisSnapshotStore creates a snapshot store on top of the cache provider.
// Metrics may be nil.
func NewRedisSnapshotStore(cache providers.CacheProvider, ttl time.Duration, metrics *observability.Metrics) repositories.SessionSnapshotRepository {
	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = 3
	retryCfg.MaxTotalTimeout = 5 * time.Second

	return &RedisSnapshotStore{
		cache:      cache,
		ttlSeconds: int(ttl.Seconds()),
		retryCfg:   retryCfg,
		metrics:    metrics,
	}
}

func snapshotCacheKey(sessionID string) string {
	return fmt.Sprintf("assessment:snapshot:%s", sessionID)
}

// Save stores the snapshot as a single JSON value.
func (s *RedisSnapshotStore) Save(ctx context.Context, snapshot *entities.SessionSnapshot) error {
	if snapshot == nil {
		return apperrors.NewValidationError("snapshot is required")
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return apperrors.NewInternalError("failed to encode session snapshot", err)
	}

	key := snapshotCacheKey(snapshot.SessionMetrics.SessionID)
	return retry.Do(ctx, s.retryCfg, func() error {
		return s.cache.Set(ctx, key, data, s.ttlSeconds)
	}, func(attempt int, err error, nextDelay time.Duration) {
		log.Warn().
			Int("attempt", attempt).
			Err(err).
			Str("session_id", snapshot.SessionMetrics.SessionID).
			Msg("Snapshot write failed, retrying")
	})
}

// Load retrieves a snapshot by session ID.
func (s *RedisSnapshotStore) Load(ctx context.Context, sessionID string) (*entities.SessionSnapshot, error) {
	key := snapshotCacheKey(sessionID)
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if apperrors.TypeOf(err) == apperrors.ErrorTypeNotFound {
			observability.RecordCacheMiss(ctx, s.metrics, key)
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("no snapshot for session %s", sessionID))
		}
		return nil, apperrors.NewExternalError("failed to load session snapshot", err)
	}
	observability.RecordCacheHit(ctx, s.metrics, key)

	var snapshot entities.SessionSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, apperrors.NewInternalError("failed to decode session snapshot", err)
	}
	return &snapshot, nil
}

// Delete removes the snapshot for a session. Missing keys are not an error.
func (s *RedisSnapshotStore) Delete(ctx context.Context, sessionID string) error {
	return s.cache.Delete(ctx, snapshotCacheKey(sessionID))
}
