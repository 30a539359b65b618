package dialogue

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/reelvoice/reelvoice/internal/adapter/queue"
	"github.com/reelvoice/reelvoice/internal/domain"
	"github.com/reelvoice/reelvoice/internal/observability/telemetry"
	"github.com/reelvoice/reelvoice/internal/ports"
)

const (
	SubjectTurns           = "dialogue.turns"
	SubjectMoviesRequested = "movies.requested"
)

// Service is the dialogue controller. It interprets one intent against the
// session's continuation state, calls the movie manager as needed and
// produces the spoken reply plus the next session state.
type Service struct {
	movies      ports.MovieManager
	history     ports.HistoryService
	queue       queue.MessageQueue
	turnTimeout time.Duration
	log         *zap.Logger
}

// NewService creates the dialogue controller. mq may be nil when no queue
// backend is configured; turn events are then skipped.
func NewService(
	movies ports.MovieManager,
	history ports.HistoryService,
	mq queue.MessageQueue,
	turnTimeout time.Duration,
	log *zap.Logger,
) *Service {
	if turnTimeout <= 0 {
		turnTimeout = 8 * time.Second
	}
	return &Service{
		movies:      movies,
		history:     history,
		queue:       mq,
		turnTimeout: turnTimeout,
		log:         log,
	}
}

// HandleTurn runs one turn of the dialogue. Movie manager failures propagate
// untouched; the caller owns the generic spoken fallback. All remote work of
// the turn is bounded by the configured turn timeout.
func (s *Service) HandleTurn(ctx context.Context, sessionID string, req domain.TurnRequest) (domain.TurnResult, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, s.turnTimeout)
	defer cancel()

	ctx, span := otel.Tracer("dialogue").Start(ctx, "HandleTurn")
	defer span.End()

	res, err := s.dispatch(ctx, req)

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	telemetry.VoiceIntentsTotal.WithLabelValues(string(req.Intent), outcome).Inc()
	telemetry.VoiceTurnDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		s.log.Error("Turn failed",
			zap.String("session_id", sessionID),
			zap.String("intent", string(req.Intent)),
			zap.Error(err),
		)
		return domain.TurnResult{}, err
	}

	s.recordTurn(ctx, sessionID, req.Intent, res)
	return res, nil
}

func (s *Service) dispatch(ctx context.Context, req domain.TurnRequest) (domain.TurnResult, error) {
	if req.Session.AwaitingConfirmation() && req.Session.Movie != nil {
		switch req.Intent {
		case domain.IntentYes:
			return s.confirmAdd(ctx, req.Session)
		case domain.IntentNo:
			return s.rejectOffer(req.Session), nil
		case domain.IntentStop:
			return terminal(replyStop), nil
		}
		return notUnderstood(req.Session), nil
	}

	switch req.Intent {
	case domain.IntentFind:
		return s.findMovies(ctx, req.Title())
	case domain.IntentAdd:
		return s.searchAndOffer(ctx, req.Title())
	}
	return notUnderstood(req.Session), nil
}

// findMovies queries the library once per spelling alternative of the title,
// concurrently, and merges the results in alternative order without
// deduplication. Any failed alternative fails the whole turn.
func (s *Service) findMovies(ctx context.Context, title string) (domain.TurnResult, error) {
	alternatives := Alternatives(title)

	results := make([][]domain.Movie, len(alternatives))
	errs := make([]error, len(alternatives))

	var wg sync.WaitGroup
	for i, alt := range alternatives {
		wg.Add(1)
		go func(i int, alt string) {
			defer wg.Done()
			results[i], errs[i] = s.movies.ListMovies(ctx, alt)
		}(i, alt)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return domain.TurnResult{}, err
		}
	}

	var merged []domain.Movie
	for _, r := range results {
		merged = append(merged, r...)
	}

	return terminal(listReply(title, merged)), nil
}

// searchAndOffer looks the title up with the providers and offers the first
// candidate for confirmation, keeping the rest for rejection re-offers.
func (s *Service) searchAndOffer(ctx context.Context, title string) (domain.TurnResult, error) {
	if title == "" {
		return terminal(replyMissingName), nil
	}

	candidates, err := s.movies.SearchProviders(ctx, title)
	if err != nil {
		return domain.TurnResult{}, err
	}
	if len(candidates) == 0 {
		return terminal(noneFoundReply(title)), nil
	}

	return offer(candidates[0], candidates[1:], title), nil
}

// confirmAdd queues the offered candidate. A candidate without an IMDb
// identifier cannot be added; the manager is not called for it.
func (s *Service) confirmAdd(ctx context.Context, state domain.SessionState) (domain.TurnResult, error) {
	movie := *state.Movie
	title := movie.CanonicalTitle()

	if movie.ImdbID == "" {
		return terminal(notAddedReply(title)), nil
	}

	ok, err := s.movies.AddMovie(ctx, movie.ImdbID)
	if err != nil {
		return domain.TurnResult{}, err
	}
	if !ok {
		return terminal(notAddedReply(title)), nil
	}

	s.publish(SubjectMoviesRequested, domain.MovieRequestedEvent{
		ImdbID: movie.ImdbID,
		Title:  title,
		At:     time.Now().UTC(),
	})
	return terminal(addedReply(title)), nil
}

// rejectOffer moves on to the next stored candidate, or closes the search
// when none are left.
func (s *Service) rejectOffer(state domain.SessionState) domain.TurnResult {
	if len(state.Remaining) == 0 {
		return terminal(noneLeftReply(state.SearchText))
	}
	return offer(state.Remaining[0], state.Remaining[1:], state.SearchText)
}

func offer(c domain.Candidate, rest []domain.Candidate, searchText string) domain.TurnResult {
	return domain.TurnResult{
		Speech:     offerReply(c),
		EndSession: false,
		Session: domain.SessionState{
			Continuation: domain.ContinuationAddPending,
			Movie:        &c,
			Remaining:    rest,
			SearchText:   searchText,
		},
	}
}

func terminal(speech string) domain.TurnResult {
	return domain.TurnResult{Speech: speech, EndSession: true}
}

func notUnderstood(state domain.SessionState) domain.TurnResult {
	return domain.TurnResult{Speech: replyNotUnderstood, EndSession: false, Session: state}
}

// recordTurn feeds the side channels after a successful turn: transcript and
// queue event. Neither can change the reply; failures are only logged.
func (s *Service) recordTurn(ctx context.Context, sessionID string, intent domain.Intent, res domain.TurnResult) {
	now := time.Now().UTC()

	rec := domain.TurnRecord{
		ID:     uuid.New().String(),
		Intent: intent,
		Speech: res.Speech,
		At:     now,
	}
	if err := s.history.Record(ctx, sessionID, rec); err != nil {
		s.log.Warn("Failed to record turn",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
	}

	s.publish(SubjectTurns, domain.TurnEvent{
		SessionID:  sessionID,
		Intent:     intent,
		Speech:     res.Speech,
		EndSession: res.EndSession,
		At:         now,
	})
}

func (s *Service) publish(subject string, event interface{}) {
	if s.queue == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		s.log.Warn("Failed to marshal event", zap.String("subject", subject), zap.Error(err))
		return
	}
	if err := s.queue.Publish(subject, data); err != nil {
		s.log.Warn("Failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}
