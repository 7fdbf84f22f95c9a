// Package comments stores user comments as documents keyed by movie.
package comments

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

const commentKeyPrefix = "comment:"

// ErrInvalidComment indicates a comment missing required fields.
var ErrInvalidComment = errors.New("comments: invalid comment")

// Store is the badger-backed comment store.
type Store struct {
	db *badger.DB
}

// New constructs a comment store over the given database handle.
func New(db *badger.DB) *Store {
	return &Store{db: db}
}

// AddParams bundles the fields required to add a comment.
type AddParams struct {
	MovieID  int64
	Username string
	Title    string
	Comment  string
	Rating   int
}

// Add persists one comment.
func (s *Store) Add(ctx context.Context, params AddParams) (domain.Comment, error) {
	if params.MovieID <= 0 {
		return domain.Comment{}, fmt.Errorf("%w: movie id %d", ErrInvalidComment, params.MovieID)
	}
	if params.Username == "" || params.Title == "" || params.Comment == "" {
		return domain.Comment{}, fmt.Errorf("%w: username, title and comment are required", ErrInvalidComment)
	}
	if err := ctx.Err(); err != nil {
		return domain.Comment{}, err
	}

	comment := domain.Comment{
		ID:        uuid.NewString(),
		MovieID:   params.MovieID,
		Username:  params.Username,
		Title:     params.Title,
		Comment:   params.Comment,
		Rating:    params.Rating,
		CreatedAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(comment)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("marshal comment: %w", err)
	}

	key := []byte(fmt.Sprintf("%s%d:%s", commentKeyPrefix, comment.MovieID, comment.ID))
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, payload)
	})
	if err != nil {
		return domain.Comment{}, fmt.Errorf("store comment: %w", err)
	}

	return comment, nil
}

// ByMovie returns all comments for a movie.
func (s *Store) ByMovie(ctx context.Context, movieID int64) ([]domain.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(fmt.Sprintf("%s%d:", commentKeyPrefix, movieID))
	comments := make([]domain.Comment, 0)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var comment domain.Comment
				if err := json.Unmarshal(val, &comment); err != nil {
					return fmt.Errorf("unmarshal comment: %w", err)
				}
				comments = append(comments, comment)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan comments for movie %d: %w", movieID, err)
	}

	return comments, nil
}
