package rating

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/filmstack/filmstack/internal/domain"
	"github.com/filmstack/filmstack/internal/logging"
)

type fakeLedger struct {
	mu        sync.Mutex
	events    map[int64][]domain.RatingEvent
	appendErr error
	readErr   error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{events: make(map[int64][]domain.RatingEvent)}
}

func (f *fakeLedger) Append(_ context.Context, movieID int64, rater string, score int) (domain.RatingEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return domain.RatingEvent{}, f.appendErr
	}
	event := domain.RatingEvent{
		ID:         fmt.Sprintf("evt-%d", len(f.events[movieID])+1),
		MovieID:    movieID,
		RaterEmail: rater,
		Score:      score,
		CreatedAt:  time.Now().UTC(),
	}
	f.events[movieID] = append(f.events[movieID], event)
	return event, nil
}

func (f *fakeLedger) AllForSubject(_ context.Context, movieID int64) ([]domain.RatingEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	out := make([]domain.RatingEvent, len(f.events[movieID]))
	copy(out, f.events[movieID])
	return out, nil
}

func (f *fakeLedger) count(movieID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events[movieID])
}

type fakeCache struct {
	mu     sync.Mutex
	values map[int64]float64
	writes int
	err    error
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[int64]float64)}
}

func (f *fakeCache) SetAverage(_ context.Context, movieID int64, value float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.values[movieID] = value
	f.writes++
	return nil
}

func (f *fakeCache) get(movieID int64) (float64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[movieID]
	return v, ok
}

func newTestService() (*Service, *fakeLedger, *fakeCache) {
	ledger := newFakeLedger()
	cache := newFakeCache()
	return NewService(ledger, cache, logging.Nop()), ledger, cache
}

func TestSubmit_AverageScenario(t *testing.T) {
	svc, _, cache := newTestService()
	ctx := context.Background()

	avg, err := svc.Submit(ctx, 111, "a@example.com", 5)
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if avg != 5.0 {
		t.Fatalf("average after first rating = %v, want 5.0", avg)
	}
	if v, ok := cache.get(111); !ok || v != 5.0 {
		t.Fatalf("cached value = %v (%v), want 5.0", v, ok)
	}

	avg, err = svc.Submit(ctx, 111, "b@example.com", 3)
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if avg != 4.0 {
		t.Fatalf("average after second rating = %v, want 4.0", avg)
	}
	if v, _ := cache.get(111); v != 4.0 {
		t.Fatalf("cached value = %v, want 4.0", v)
	}
}

func TestSubmit_Validation(t *testing.T) {
	cases := []struct {
		name    string
		movieID int64
		rater   string
		score   int
		wantErr bool
	}{
		{"score lower bound", 1, "a@example.com", 0, false},
		{"score upper bound", 1, "a@example.com", 5, false},
		{"score below range", 1, "a@example.com", -1, true},
		{"score above range", 1, "a@example.com", 6, true},
		{"zero movie id", 0, "a@example.com", 3, true},
		{"negative movie id", -4, "a@example.com", 3, true},
		{"missing rater", 1, "", 3, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, ledger, cache := newTestService()
			_, err := svc.Submit(context.Background(), tc.movieID, tc.rater, tc.score)

			if tc.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("err = %v, want ErrValidation", err)
				}
				// Validation failures must be side-effect free.
				if ledger.count(tc.movieID) != 0 {
					t.Fatalf("ledger has %d events after rejected submission", ledger.count(tc.movieID))
				}
				if cache.writes != 0 {
					t.Fatalf("cache written %d times after rejected submission", cache.writes)
				}
				return
			}
			if err != nil {
				t.Fatalf("err = %v, want nil", err)
			}
			if ledger.count(tc.movieID) != 1 {
				t.Fatalf("ledger has %d events, want 1", ledger.count(tc.movieID))
			}
		})
	}
}

func TestSubmit_AppendFailure(t *testing.T) {
	svc, ledger, cache := newTestService()
	ledger.appendErr = errors.New("store down")

	_, err := svc.Submit(context.Background(), 7, "a@example.com", 4)
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}
	if cache.writes != 0 {
		t.Fatalf("cache written after append failure")
	}
}

func TestSubmit_CacheWriteFailureKeepsEvent(t *testing.T) {
	svc, ledger, cache := newTestService()
	cache.err = errors.New("cache unreachable")

	_, err := svc.Submit(context.Background(), 7, "a@example.com", 4)

	var cacheErr *CacheWriteError
	if !errors.As(err, &cacheErr) {
		t.Fatalf("err = %v, want *CacheWriteError", err)
	}
	if cacheErr.MovieID != 7 {
		t.Fatalf("CacheWriteError.MovieID = %d, want 7", cacheErr.MovieID)
	}
	// CacheWriteError is a PersistenceError specialization.
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("CacheWriteError does not match ErrPersistence")
	}

	// The asymmetry: the submission failed, the event is durable anyway.
	if ledger.count(7) != 1 {
		t.Fatalf("ledger has %d events, want the appended event kept", ledger.count(7))
	}
}

func TestRecompute_EmptyLedgerSkipsWrite(t *testing.T) {
	svc, _, cache := newTestService()

	avg, written, err := svc.Recompute(context.Background(), 42)
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if written {
		t.Fatalf("empty ledger must not write the cache")
	}
	if avg != 0 {
		t.Fatalf("avg = %v, want 0 for empty ledger", avg)
	}
	if cache.writes != 0 {
		t.Fatalf("cache written %d times for empty ledger", cache.writes)
	}
}

func TestRecompute_LedgerReadFailureAborts(t *testing.T) {
	svc, ledger, cache := newTestService()
	ledger.readErr = errors.New("read failed")

	_, _, err := svc.Recompute(context.Background(), 42)
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}
	if cache.writes != 0 {
		t.Fatalf("cache written despite ledger read failure")
	}
}

// Concurrent submissions for one movie must leave the cache holding a
// legitimate full-recompute snapshot, and a quiescent recompute must land on
// the exact mean of all events.
func TestSubmit_ConcurrentSameSubject(t *testing.T) {
	svc, ledger, cache := newTestService()
	ctx := context.Background()

	const workers = 24
	scores := make([]int, workers)
	sum := 0
	for i := range scores {
		scores[i] = i % (MaxScore + 1)
		sum += scores[i]
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rater := fmt.Sprintf("user-%d@example.com", i)
			if _, err := svc.Submit(ctx, 9, rater, scores[i]); err != nil {
				t.Errorf("submit %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	if ledger.count(9) != workers {
		t.Fatalf("ledger has %d events, want %d", ledger.count(9), workers)
	}

	// Whatever interleaving happened, the cached value must be inside the
	// score range (a corrupted partial sum would not be).
	if v, ok := cache.get(9); !ok || v < MinScore || v > MaxScore {
		t.Fatalf("cached value %v (%v) outside legitimate range", v, ok)
	}

	want := float64(sum) / float64(workers)
	avg, written, err := svc.Recompute(ctx, 9)
	if err != nil || !written {
		t.Fatalf("quiescent recompute: avg=%v written=%v err=%v", avg, written, err)
	}
	if avg != want {
		t.Fatalf("quiescent average = %v, want %v", avg, want)
	}
	if v, _ := cache.get(9); v != want {
		t.Fatalf("cached value = %v, want %v", v, want)
	}
}
