package integration

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/reelvoice/reelvoice/internal/adapter/cache"
	"github.com/reelvoice/reelvoice/internal/domain"
	"github.com/reelvoice/reelvoice/internal/ports"
	"github.com/reelvoice/reelvoice/internal/service/history"
)

// TestRedisCache_Operations exercises the cache adapter against a real Redis
func TestRedisCache_Operations(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.Redis == nil {
		t.Skip("Redis not available")
	}

	FlushRedis(t, env.Redis)
	ctx := context.Background()

	store, err := cache.NewRedisCache(env.RedisURL, env.Logger)
	if err != nil {
		t.Fatalf("Failed to create redis cache: %v", err)
	}
	defer store.Close()

	// Set and Get
	t.Run("SetGet", func(t *testing.T) {
		if err := store.Set(ctx, "test:key", "test-value", time.Minute); err != nil {
			t.Fatalf("Failed to set key: %v", err)
		}

		val, err := store.Get(ctx, "test:key")
		if err != nil {
			t.Fatalf("Failed to get key: %v", err)
		}

		if val != "test-value" {
			t.Errorf("Expected 'test-value', got '%s'", val)
		}
	})

	// Missing key
	t.Run("Miss", func(t *testing.T) {
		_, err := store.Get(ctx, "test:missing")
		if !errors.Is(err, ports.ErrCacheMiss) {
			t.Errorf("Expected cache miss, got %v", err)
		}
	})

	// Set with expiration
	t.Run("Expiration", func(t *testing.T) {
		if err := store.Set(ctx, "test:expiring", "value", 100*time.Millisecond); err != nil {
			t.Fatalf("Failed to set key: %v", err)
		}

		// Verify it exists
		if _, err := store.Get(ctx, "test:expiring"); err != nil {
			t.Fatalf("Key should exist: %v", err)
		}

		// Wait for expiration
		time.Sleep(150 * time.Millisecond)

		// Verify it's gone
		_, err := store.Get(ctx, "test:expiring")
		if !errors.Is(err, ports.ErrCacheMiss) {
			t.Error("Key should have expired")
		}
	})

	// Delete
	t.Run("Delete", func(t *testing.T) {
		if err := store.Set(ctx, "test:delete", "value", time.Minute); err != nil {
			t.Fatalf("Failed to set key: %v", err)
		}

		if err := store.Delete(ctx, "test:delete"); err != nil {
			t.Fatalf("Failed to delete key: %v", err)
		}

		_, err := store.Get(ctx, "test:delete")
		if !errors.Is(err, ports.ErrCacheMiss) {
			t.Error("Key should have been deleted")
		}
	})

	// Ping
	t.Run("Ping", func(t *testing.T) {
		if err := store.Ping(); err != nil {
			t.Errorf("Ping failed: %v", err)
		}
	})
}

// TestHistory_TranscriptLifecycle exercises the transcript service against a
// real Redis
func TestHistory_TranscriptLifecycle(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.Redis == nil {
		t.Skip("Redis not available")
	}

	FlushRedis(t, env.Redis)
	ctx := context.Background()

	store, err := cache.NewRedisCache(env.RedisURL, env.Logger)
	if err != nil {
		t.Fatalf("Failed to create redis cache: %v", err)
	}
	defer store.Close()

	svc := history.NewService(store, 3, time.Minute, env.Logger)

	// Record turns and replay them in order
	t.Run("RecordAndReplay", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			rec := domain.TurnRecord{
				ID:     fmt.Sprintf("turn-%d", i),
				Intent: domain.IntentFind,
				Speech: fmt.Sprintf("reply %d", i),
				At:     time.Now().UTC(),
			}
			if err := svc.Record(ctx, "sess-history", rec); err != nil {
				t.Fatalf("Failed to record turn: %v", err)
			}
		}

		turns, err := svc.Transcript(ctx, "sess-history")
		if err != nil {
			t.Fatalf("Failed to load transcript: %v", err)
		}

		if len(turns) != 2 {
			t.Fatalf("Expected 2 turns, got %d", len(turns))
		}

		if turns[0].ID != "turn-0" || turns[1].ID != "turn-1" {
			t.Errorf("Turns out of order: %s, %s", turns[0].ID, turns[1].ID)
		}
	})

	// Oldest turns are trimmed beyond the limit
	t.Run("TrimsOldestBeyondLimit", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			rec := domain.TurnRecord{
				ID:     fmt.Sprintf("turn-%d", i),
				Intent: domain.IntentAdd,
				Speech: "ok",
				At:     time.Now().UTC(),
			}
			if err := svc.Record(ctx, "sess-trim", rec); err != nil {
				t.Fatalf("Failed to record turn: %v", err)
			}
		}

		turns, err := svc.Transcript(ctx, "sess-trim")
		if err != nil {
			t.Fatalf("Failed to load transcript: %v", err)
		}

		if len(turns) != 3 {
			t.Fatalf("Expected 3 turns after trim, got %d", len(turns))
		}

		if turns[0].ID != "turn-2" {
			t.Errorf("Expected oldest surviving turn 'turn-2', got '%s'", turns[0].ID)
		}
	})

	// Sessions do not see each other's turns
	t.Run("SessionsAreIsolated", func(t *testing.T) {
		turns, err := svc.Transcript(ctx, "sess-unknown")
		if err != nil {
			t.Fatalf("Failed to load transcript: %v", err)
		}

		if len(turns) != 0 {
			t.Errorf("Expected empty transcript, got %d turns", len(turns))
		}
	})

	// Transcript expires with the session TTL
	t.Run("ExpiresWithTTL", func(t *testing.T) {
		short := history.NewService(store, 3, 100*time.Millisecond, env.Logger)

		rec := domain.TurnRecord{ID: "turn-0", Intent: domain.IntentFind, Speech: "hi", At: time.Now().UTC()}
		if err := short.Record(ctx, "sess-ttl", rec); err != nil {
			t.Fatalf("Failed to record turn: %v", err)
		}

		time.Sleep(150 * time.Millisecond)

		turns, err := short.Transcript(ctx, "sess-ttl")
		if err != nil {
			t.Fatalf("Failed to load transcript: %v", err)
		}

		if len(turns) != 0 {
			t.Errorf("Expected expired transcript to be empty, got %d turns", len(turns))
		}
	})
}
