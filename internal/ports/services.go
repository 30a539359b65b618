package ports

import (
	"context"

	"github.com/reelvoice/reelvoice/internal/domain"
)

// MovieManager is the remote movie-download manager. Implementations are
// stateless facades over its HTTP API and never retry.
type MovieManager interface {
	// ListMovies returns the managed library, optionally narrowed by a
	// free-text search. An empty library is an empty slice, not an error.
	ListMovies(ctx context.Context, search string) ([]domain.Movie, error)

	// SearchProviders looks a title up with the manager's providers.
	SearchProviders(ctx context.Context, query string) ([]domain.Candidate, error)

	// AddMovie queues the movie with the given IMDb identifier for download.
	// A false result means the manager declined the add.
	AddMovie(ctx context.Context, imdbID string) (bool, error)

	// Available reports whether the manager is reachable and responding.
	Available(ctx context.Context) error
}

// DialogueService runs one turn of the movie dialogue.
type DialogueService interface {
	HandleTurn(ctx context.Context, sessionID string, req domain.TurnRequest) (domain.TurnResult, error)
}

// HistoryService keeps a short-lived transcript per voice session.
type HistoryService interface {
	Record(ctx context.Context, sessionID string, rec domain.TurnRecord) error
	Transcript(ctx context.Context, sessionID string) ([]domain.TurnRecord, error)
}
