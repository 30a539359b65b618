package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/reelvoice/reelvoice/internal/domain"
	"github.com/reelvoice/reelvoice/internal/ports"
)

// Service keeps a short per-session transcript of dialogue turns in the
// cache. Entries expire with the session TTL; nothing outlives the cache, so
// no dialogue state is persisted beyond the voice session.
type Service struct {
	cache ports.Cache
	limit int
	ttl   time.Duration
	log   *zap.Logger
}

func NewService(cache ports.Cache, limit int, ttl time.Duration, log *zap.Logger) *Service {
	if limit <= 0 {
		limit = 50
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Service{
		cache: cache,
		limit: limit,
		ttl:   ttl,
		log:   log,
	}
}

// Record appends one turn to the session transcript, trimming the oldest
// entries beyond the configured limit.
func (s *Service) Record(ctx context.Context, sessionID string, rec domain.TurnRecord) error {
	records, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}

	records = append(records, rec)
	if len(records) > s.limit {
		records = records[len(records)-s.limit:]
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode transcript: %w", err)
	}
	return s.cache.Set(ctx, transcriptKey(sessionID), data, s.ttl)
}

// Transcript returns the session's recorded turns in order, oldest first.
// An unknown session has an empty transcript.
func (s *Service) Transcript(ctx context.Context, sessionID string) ([]domain.TurnRecord, error) {
	return s.load(ctx, sessionID)
}

func (s *Service) load(ctx context.Context, sessionID string) ([]domain.TurnRecord, error) {
	raw, err := s.cache.Get(ctx, transcriptKey(sessionID))
	if errors.Is(err, ports.ErrCacheMiss) {
		return []domain.TurnRecord{}, nil
	}
	if err != nil {
		return nil, err
	}

	var records []domain.TurnRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("failed to decode transcript: %w", err)
	}
	return records, nil
}

func transcriptKey(sessionID string) string {
	return "history:" + sessionID
}
