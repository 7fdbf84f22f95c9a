package messages

import (
	"context"
	"errors"
	"testing"

	"github.com/filmstack/filmstack/internal/docstore"
	"github.com/filmstack/filmstack/internal/logging"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := docstore.Open(docstore.Options{InMemory: true, Logger: logging.Nop()})
	if err != nil {
		t.Fatalf("open docstore: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return New(st.DB())
}

func TestAddAndByUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	msg, err := store.Add(ctx, "hello", "alice@example.com")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if msg.ID == "" || msg.UserEmail != "alice@example.com" {
		t.Fatalf("message = %+v", msg)
	}

	if _, err := store.Add(ctx, "other", "bob@example.com"); err != nil {
		t.Fatalf("add for bob: %v", err)
	}

	got, err := store.ByUser(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("by user: %v", err)
	}
	if len(got) != 1 || got[0].Name != "hello" {
		t.Fatalf("ByUser = %+v, want alice's message only", got)
	}
}

func TestAdd_Validation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Add(ctx, "", "alice@example.com"); !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("missing name err = %v, want ErrInvalidMessage", err)
	}
	if _, err := store.Add(ctx, "hello", ""); !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("missing user err = %v, want ErrInvalidMessage", err)
	}
}
