package rating

import (
	"errors"
	"fmt"
)

// ErrValidation indicates malformed input (bad movie id, out-of-range or
// missing score). Validation failures never have side effects.
var ErrValidation = errors.New("rating: invalid submission")

// ErrPersistence indicates a store failure, on either the ledger or the
// cache side. Not retried by this package.
var ErrPersistence = errors.New("rating: persistence failure")

// CacheWriteError is the persistence failure that occurs after the ledger
// append already succeeded. The rating event is durable but the cached
// average was not refreshed; the ledger's append-only contract offers no
// compensating delete, so the submission is reported as failed anyway.
type CacheWriteError struct {
	MovieID int64
	Err     error
}

func (e *CacheWriteError) Error() string {
	return fmt.Sprintf("rating: cache write for movie %d: %v", e.MovieID, e.Err)
}

func (e *CacheWriteError) Unwrap() error { return e.Err }

// Is makes CacheWriteError match ErrPersistence, since it is a
// specialization of it.
func (e *CacheWriteError) Is(target error) bool { return target == ErrPersistence }
