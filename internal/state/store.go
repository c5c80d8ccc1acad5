package state

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mistakeknot/taskstate/internal/flock"
)

// Store persists one versioned document at a fixed path. A Store holds no
// cross-call state beyond the path and is safe for concurrent use; all
// coordination happens through filesystem locks.
type Store struct {
	path string

	// rename is swapped by tests to inject failure between the temp write
	// and the rename.
	rename func(oldpath, newpath string) error
	// sleep is swapped by tests to drive CompareAndSwap backoff without
	// real waiting.
	sleep func(time.Duration)
	// now stamps UpdatedAt on successful writes.
	now func() time.Time
}

// New returns a store for the document at path. No file is created until
// the first successful write.
func New(path string) *Store {
	return &Store{
		path:   path,
		rename: os.Rename,
		sleep:  time.Sleep,
		now:    time.Now,
	}
}

// Path returns the target path the store persists to.
func (s *Store) Path() string {
	return s.path
}

// Read returns the current document. A path that does not exist reads as
// the default document (rev 0, empty payload) without creating any file.
func (s *Store) Read() (Document, error) {
	return readDocument(s.path)
}

// readDocument reads and decodes the document at path under a shared lock,
// reading through the locked descriptor.
func readDocument(path string) (Document, error) {
	lock, err := flock.Shared(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		if errors.Is(err, flock.ErrWouldBlock) {
			return Document{}, ErrLocked
		}
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer lock.Release()

	data, err := io.ReadAll(lock.File())
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Decode(path, data)
}

// Write persists doc with an optimistic-concurrency check. expectedRev must
// equal the currently persisted rev (0 for a document that has never been
// written) or the write fails with a ConflictError and the target is
// untouched. On success the persisted document carries rev expectedRev+1
// and a fresh UpdatedAt stamp.
func (s *Store) Write(doc Document, expectedRev uint64) error {
	_, err := s.write(doc, &expectedRev)
	return err
}

// ForceWrite persists doc unconditionally, skipping the revision check. The
// rev still bumps from whatever is found on disk, so no rev ever repeats
// across two different persisted contents. Intended for bootstrap and
// explicit-overwrite tooling; callers that need stale-view protection must
// use Write with the rev they last observed.
func (s *Store) ForceWrite(doc Document) error {
	_, err := s.write(doc, nil)
	return err
}

// write runs one full write attempt: exclusive lock, conflict check under
// that lock, encode, atomic temp+fsync+rename, lock release. Every failure
// path releases the lock and leaves the target provably unchanged.
func (s *Store) write(doc Document, expectedRev *uint64) (Document, error) {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Document{}, fmt.Errorf("create state dir: %w", err)
		}
	}

	lock, err := flock.Exclusive(s.path)
	if err != nil {
		if errors.Is(err, flock.ErrWouldBlock) {
			return Document{}, ErrLocked
		}
		return Document{}, fmt.Errorf("acquire write lock: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = lock.Release()
		}
	}()

	// Re-read the persisted rev under the held lock. A value cached from
	// before the lock could race a writer that committed in between.
	current, err := readDocument(s.path)
	if err != nil {
		return Document{}, err
	}
	if expectedRev != nil && current.Rev != *expectedRev {
		return Document{}, &ConflictError{Expected: *expectedRev, Found: current.Rev}
	}

	doc.Rev = current.Rev + 1
	doc.UpdatedAt = s.now().UTC()

	data, err := Encode(doc)
	if err != nil {
		return Document{}, err
	}
	if err := writeFileAtomic(s.path, data, s.rename); err != nil {
		return Document{}, err
	}

	// The write is durable; only now does the lock artifact come off.
	committed = true
	if err := lock.ReleaseAndRemove(); err != nil {
		return Document{}, fmt.Errorf("release write lock: %w", err)
	}
	return doc, nil
}

// CompareAndSwap reads the current document, applies mutate, and writes the
// result with the read rev as the expected rev. When the write loses the
// race (a ConflictError, or ErrLocked from a writer occupying the critical
// section) it sleeps backoff, re-reads, and tries again, up to retries
// additional attempts. Any other error returns immediately. On success the
// document as persisted is returned.
//
// This bounded loop is the only retry behavior in the package; the core
// read/write paths never retry on their own.
func (s *Store) CompareAndSwap(mutate func(*Document) error, retries int, backoff time.Duration) (Document, error) {
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 && backoff > 0 {
			s.sleep(backoff)
		}

		current, err := s.Read()
		if err != nil {
			if errors.Is(err, ErrLocked) {
				lastErr = err
				continue
			}
			return Document{}, err
		}
		expected := current.Rev
		if err := mutate(&current); err != nil {
			return Document{}, fmt.Errorf("mutate document: %w", err)
		}

		persisted, err := s.write(current, &expected)
		if err == nil {
			return persisted, nil
		}
		if !IsConflict(err) && !errors.Is(err, ErrLocked) {
			return Document{}, err
		}
		lastErr = err
	}
	return Document{}, fmt.Errorf("compare-and-swap exhausted %d retries: %w", retries, lastErr)
}
