package mocks

import (
	"context"
	"sync"

	"github.com/reelvoice/reelvoice/internal/domain"
)

// MockMovieManager is a mock implementation of the MovieManager port.
// ListCalls and AddCalls track invocations for assertions; the list query is
// fanned out concurrently, so recording is mutex-guarded.
type MockMovieManager struct {
	ListMoviesFunc      func(ctx context.Context, search string) ([]domain.Movie, error)
	SearchProvidersFunc func(ctx context.Context, query string) ([]domain.Candidate, error)
	AddMovieFunc        func(ctx context.Context, imdbID string) (bool, error)
	AvailableFunc       func(ctx context.Context) error

	mu        sync.Mutex
	ListCalls []string
	AddCalls  int
}

func (m *MockMovieManager) ListMovies(ctx context.Context, search string) ([]domain.Movie, error) {
	m.mu.Lock()
	m.ListCalls = append(m.ListCalls, search)
	m.mu.Unlock()
	if m.ListMoviesFunc != nil {
		return m.ListMoviesFunc(ctx, search)
	}
	return []domain.Movie{}, nil
}

func (m *MockMovieManager) SearchProviders(ctx context.Context, query string) ([]domain.Candidate, error) {
	if m.SearchProvidersFunc != nil {
		return m.SearchProvidersFunc(ctx, query)
	}
	return []domain.Candidate{}, nil
}

func (m *MockMovieManager) AddMovie(ctx context.Context, imdbID string) (bool, error) {
	m.mu.Lock()
	m.AddCalls++
	m.mu.Unlock()
	if m.AddMovieFunc != nil {
		return m.AddMovieFunc(ctx, imdbID)
	}
	return true, nil
}

func (m *MockMovieManager) Available(ctx context.Context) error {
	if m.AvailableFunc != nil {
		return m.AvailableFunc(ctx)
	}
	return nil
}

// MockHistoryService is a mock implementation of the HistoryService port.
// Without custom funcs it keeps transcripts in memory.
type MockHistoryService struct {
	RecordFunc     func(ctx context.Context, sessionID string, rec domain.TurnRecord) error
	TranscriptFunc func(ctx context.Context, sessionID string) ([]domain.TurnRecord, error)

	records map[string][]domain.TurnRecord
}

func NewMockHistoryService() *MockHistoryService {
	return &MockHistoryService{
		records: make(map[string][]domain.TurnRecord),
	}
}

func (m *MockHistoryService) Record(ctx context.Context, sessionID string, rec domain.TurnRecord) error {
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, sessionID, rec)
	}
	m.records[sessionID] = append(m.records[sessionID], rec)
	return nil
}

func (m *MockHistoryService) Transcript(ctx context.Context, sessionID string) ([]domain.TurnRecord, error) {
	if m.TranscriptFunc != nil {
		return m.TranscriptFunc(ctx, sessionID)
	}
	return m.records[sessionID], nil
}

// MockDialogueService is a mock implementation of the DialogueService port.
type MockDialogueService struct {
	HandleTurnFunc func(ctx context.Context, sessionID string, req domain.TurnRequest) (domain.TurnResult, error)
}

func (m *MockDialogueService) HandleTurn(ctx context.Context, sessionID string, req domain.TurnRequest) (domain.TurnResult, error) {
	if m.HandleTurnFunc != nil {
		return m.HandleTurnFunc(ctx, sessionID, req)
	}
	return domain.TurnResult{}, nil
}
