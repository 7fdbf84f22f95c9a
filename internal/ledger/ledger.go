// Package ledger implements the append-only rating ledger on the document
// store. Events are immutable once written; there is no update or delete
// path, which is what makes full-recompute aggregation correct.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/filmstack/filmstack/internal/domain"
)

// Key layout: rating:<movie_id>:<event_id>. The trailing colon on the scan
// prefix keeps movie 1 from matching movie 12.
const ratingKeyPrefix = "rating:"

// ErrInvalidEvent indicates the event failed the ledger's own contract
// checks (score out of range, non-positive movie id, missing rater).
var ErrInvalidEvent = errors.New("ledger: invalid rating event")

// Store is the badger-backed ledger.
type Store struct {
	db *badger.DB
}

// New constructs a ledger over the given database handle.
func New(db *badger.DB) *Store {
	return &Store{db: db}
}

// Append validates and persists one rating event.
func (s *Store) Append(ctx context.Context, movieID int64, raterEmail string, score int) (domain.RatingEvent, error) {
	if movieID <= 0 {
		return domain.RatingEvent{}, fmt.Errorf("%w: movie id %d", ErrInvalidEvent, movieID)
	}
	if raterEmail == "" {
		return domain.RatingEvent{}, fmt.Errorf("%w: rater is required", ErrInvalidEvent)
	}
	if score < 0 || score > 5 {
		return domain.RatingEvent{}, fmt.Errorf("%w: score %d", ErrInvalidEvent, score)
	}
	if err := ctx.Err(); err != nil {
		return domain.RatingEvent{}, err
	}

	event := domain.RatingEvent{
		ID:         uuid.NewString(),
		MovieID:    movieID,
		RaterEmail: raterEmail,
		Score:      score,
		CreatedAt:  time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return domain.RatingEvent{}, fmt.Errorf("marshal rating event: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(eventKey(movieID, event.ID), payload)
	})
	if err != nil {
		return domain.RatingEvent{}, fmt.Errorf("append rating event: %w", err)
	}

	return event, nil
}

// AllForSubject returns every rating event for a movie. No ordering is
// guaranteed beyond key order; callers must not depend on it.
func (s *Store) AllForSubject(ctx context.Context, movieID int64) ([]domain.RatingEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := subjectPrefix(movieID)
	events := make([]domain.RatingEvent, 0)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var event domain.RatingEvent
				if err := json.Unmarshal(val, &event); err != nil {
					return fmt.Errorf("unmarshal rating event: %w", err)
				}
				events = append(events, event)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan ledger for movie %d: %w", movieID, err)
	}

	return events, nil
}

func subjectPrefix(movieID int64) []byte {
	return []byte(fmt.Sprintf("%s%d:", ratingKeyPrefix, movieID))
}

func eventKey(movieID int64, eventID string) []byte {
	return []byte(fmt.Sprintf("%s%d:%s", ratingKeyPrefix, movieID, eventID))
}
