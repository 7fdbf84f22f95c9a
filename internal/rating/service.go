package rating

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Service runs the rating submission flow:
// validate, append to the ledger, recompute the aggregate, respond.
// There are no retries and no idempotency key; a client retry after a
// cache-write failure appends a second ledger event.
type Service struct {
	ledger     Ledger
	aggregator *Aggregator
	logger     zerolog.Logger
}

// NewService constructs the submission flow over a ledger and a cache.
func NewService(ledger Ledger, cache AggregateCache, logger zerolog.Logger) *Service {
	return &Service{
		ledger:     ledger,
		aggregator: NewAggregator(ledger, cache, logger),
		logger:     logger,
	}
}

// ValidScore reports whether score is inside the accepted range.
func ValidScore(score int) bool {
	return score >= MinScore && score <= MaxScore
}

// Submit records one rating and refreshes the cached average. It returns the
// freshly computed average. Validation failures happen before any side
// effect; an aggregation failure after a successful append is surfaced as an
// error even though the event is already durable.
func (s *Service) Submit(ctx context.Context, movieID int64, raterEmail string, score int) (float64, error) {
	if movieID <= 0 {
		return 0, fmt.Errorf("%w: movie id must be positive", ErrValidation)
	}
	if raterEmail == "" {
		return 0, fmt.Errorf("%w: rater identity is required", ErrValidation)
	}
	if !ValidScore(score) {
		return 0, fmt.Errorf("%w: score %d outside [%d,%d]", ErrValidation, score, MinScore, MaxScore)
	}

	event, err := s.ledger.Append(ctx, movieID, raterEmail, score)
	if err != nil {
		return 0, fmt.Errorf("%w: append: %w", ErrPersistence, err)
	}

	average, _, err := s.aggregator.Recompute(ctx, movieID)
	if err != nil {
		// The event is already durable; only the cache refresh failed.
		s.logger.Error().Err(err).
			Int64("movie_id", movieID).
			Str("event_id", event.ID).
			Msg("rating: aggregate refresh failed after append")
		return 0, err
	}

	return average, nil
}

// Recompute re-runs aggregation without appending, for out-of-band sweeps.
func (s *Service) Recompute(ctx context.Context, movieID int64) (float64, bool, error) {
	return s.aggregator.Recompute(ctx, movieID)
}
