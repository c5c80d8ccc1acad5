package state

import (
	"errors"
	"fmt"
)

// ErrLocked is returned when a non-blocking lock attempt finds another
// holder. Non-fatal: the caller decides whether to retry or abort; the store
// never queues writers internally.
var ErrLocked = errors.New("state file locked by another writer")

// ErrConflict anchors ConflictError for errors.Is checks.
var ErrConflict = errors.New("revision conflict")

// ConflictError reports an optimistic-concurrency violation: the persisted
// rev no longer matches what the caller last observed. The caller must
// re-read and decide; the store never auto-merges.
type ConflictError struct {
	Expected uint64
	Found    uint64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("revision conflict: expected rev %d, found %d", e.Expected, e.Found)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// IsConflict reports whether err is a revision conflict.
// Uses errors.As to handle wrapped errors.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// SerializationError reports on-disk content that does not decode as a
// document. The content is surfaced as-is; the store never repairs,
// truncates, or discards what it cannot parse.
type SerializationError struct {
	Path string
	Err  error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// IsSerialization reports whether err is a document decode failure.
// Uses errors.As to handle wrapped errors.
func IsSerialization(err error) bool {
	var se *SerializationError
	return errors.As(err, &se)
}
