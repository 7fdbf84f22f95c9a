// Package rating implements the rating submission flow and the
// recompute-from-scratch aggregator that keeps the cached average consistent
// with the append-only ledger.
package rating

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/filmstack/filmstack/internal/domain"
)

// Score bounds, inclusive.
const (
	MinScore = 0
	MaxScore = 5
)

// Ledger is the append-only store of rating events. AllForSubject makes no
// ordering promise; the aggregator only ever folds the whole population.
type Ledger interface {
	Append(ctx context.Context, movieID int64, raterEmail string, score int) (domain.RatingEvent, error)
	AllForSubject(ctx context.Context, movieID int64) ([]domain.RatingEvent, error)
}

// AggregateCache holds the denormalized per-movie average. SetAverage is a
// plain overwrite; no conditional write is assumed of the backing store.
type AggregateCache interface {
	SetAverage(ctx context.Context, movieID int64, value float64) error
}

// Aggregator recomputes a movie's average from the complete ledger and
// publishes it to the cache. Full recompute is deliberate: it costs O(n) per
// submission but guarantees every published value is a legitimate snapshot of
// some ledger state, with no partial sums, regardless of concurrent appends.
type Aggregator struct {
	ledger Ledger
	cache  AggregateCache
	logger zerolog.Logger
}

// NewAggregator constructs an Aggregator.
func NewAggregator(ledger Ledger, cache AggregateCache, logger zerolog.Logger) *Aggregator {
	return &Aggregator{ledger: ledger, cache: cache, logger: logger}
}

// Recompute reads the full ledger for the movie, computes the arithmetic
// mean, and writes it to the cache. With an empty ledger no write is
// performed and written is false: the cache keeps its previous value rather
// than receiving NaN or a sentinel. A ledger read failure aborts before any
// cache write; a cache write failure surfaces as *CacheWriteError.
func (a *Aggregator) Recompute(ctx context.Context, movieID int64) (average float64, written bool, err error) {
	events, err := a.ledger.AllForSubject(ctx, movieID)
	if err != nil {
		// Stale average is safer than a corrupt one: abort without writing.
		return 0, false, fmt.Errorf("%w: read ledger for movie %d: %w", ErrPersistence, movieID, err)
	}

	if len(events) == 0 {
		a.logger.Debug().Int64("movie_id", movieID).Msg("rating: empty ledger, skipping cache write")
		return 0, false, nil
	}

	sum := 0
	for _, event := range events {
		sum += event.Score
	}
	average = float64(sum) / float64(len(events))

	if err := a.cache.SetAverage(ctx, movieID, average); err != nil {
		return 0, false, &CacheWriteError{MovieID: movieID, Err: err}
	}

	a.logger.Debug().
		Int64("movie_id", movieID).
		Float64("average", average).
		Int("count", len(events)).
		Msg("rating: cache refreshed")

	return average, true, nil
}
