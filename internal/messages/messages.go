// Package messages stores user-to-service messages as documents.
package messages

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

const messageKeyPrefix = "message:"

// ErrInvalidMessage indicates a message missing required fields.
var ErrInvalidMessage = errors.New("messages: invalid message")

// Store is the badger-backed message store.
type Store struct {
	db *badger.DB
}

// New constructs a message store over the given database handle.
func New(db *badger.DB) *Store {
	return &Store{db: db}
}

// Add persists one message for the given session user and returns it.
func (s *Store) Add(ctx context.Context, name, userEmail string) (domain.Message, error) {
	if name == "" {
		return domain.Message{}, fmt.Errorf("%w: name is required", ErrInvalidMessage)
	}
	if userEmail == "" {
		return domain.Message{}, fmt.Errorf("%w: user is required", ErrInvalidMessage)
	}
	if err := ctx.Err(); err != nil {
		return domain.Message{}, err
	}

	message := domain.Message{
		ID:        uuid.NewString(),
		Name:      name,
		UserEmail: userEmail,
		CreatedAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return domain.Message{}, fmt.Errorf("marshal message: %w", err)
	}

	key := []byte(messageKeyPrefix + message.ID)
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, payload)
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("store message: %w", err)
	}

	return message, nil
}

// ByUser returns all messages sent by one user.
func (s *Store) ByUser(ctx context.Context, userEmail string) ([]domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(messageKeyPrefix)
	result := make([]domain.Message, 0)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var message domain.Message
				if err := json.Unmarshal(val, &message); err != nil {
					return fmt.Errorf("unmarshal message: %w", err)
				}
				if message.UserEmail == userEmail {
					result = append(result, message)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan messages: %w", err)
	}

	return result, nil
}
