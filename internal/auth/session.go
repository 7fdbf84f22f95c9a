package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const sessionKeyPrefix = "session:"

// ErrSessionNotFound indicates the session does not exist or has expired.
var ErrSessionNotFound = errors.New("auth: session not found")

// Session is a server-side login session referenced by an opaque cookie id.
type Session struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry.
func (s Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// SessionStore keeps sessions in the document store with a TTL matching
// their expiry.
type SessionStore struct {
	db  *badger.DB
	ttl time.Duration
}

// NewSessionStore constructs a session store.
func NewSessionStore(db *badger.DB, ttl time.Duration) *SessionStore {
	return &SessionStore{db: db, ttl: ttl}
}

// Create opens a new session for the given user.
func (s *SessionStore) Create(ctx context.Context, email string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}

	now := time.Now().UTC()
	session := Session{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return Session{}, fmt.Errorf("marshal session: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(sessionKeyPrefix+session.ID), payload).WithTTL(s.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return Session{}, fmt.Errorf("store session: %w", err)
	}

	return session, nil
}

// Get looks up a session by id.
func (s *SessionStore) Get(ctx context.Context, id string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}

	var session Session
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(sessionKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &session)
		})
	})
	if err != nil {
		return Session{}, err
	}

	if session.Expired() {
		return Session{}, ErrSessionNotFound
	}
	return session, nil
}

// Delete removes a session. Deleting an unknown id is not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(sessionKeyPrefix + id))
	})
}
