// Package flock provides advisory file locks for coordinating access to a
// task-state document across processes.
//
// Readers take a shared lock on the target file itself. Writers take a
// non-blocking exclusive lock on a sibling artifact named <path>.lock, so
// the target is never opened in a lock-holding mode that would block
// readers. The artifact may legitimately exist between writes; its presence
// is a contention signal for the next writer, never an error.
//
// Locks are advisory: they coordinate cooperating processes only and do not
// stop a non-cooperating writer from mutating the file directly.
package flock

import (
	"fmt"
	"os"
)

// LockSuffix names the write-lock artifact relative to the target path.
const LockSuffix = ".lock"

// Lock is a held advisory lock. Release it exactly once, typically via
// defer; Release on a nil or already-released Lock is a no-op.
type Lock struct {
	f    *os.File
	path string
}

// File exposes the locked file handle so readers can read through the same
// descriptor the lock was taken on.
func (l *Lock) File() *os.File {
	return l.f
}

// Path returns the path of the locked file. For exclusive locks this is the
// lock artifact, not the target.
func (l *Lock) Path() string {
	return l.path
}

// Release unlocks and closes the underlying file.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	f := l.f
	l.f = nil
	return unlock(f)
}

// ReleaseAndRemove unlinks the lock artifact and then releases the lock.
// Writers call this only after a successful rename; leaving the artifact
// behind is legal, removal just keeps the directory tidy between writes.
//
// The unlink happens while the lock is still held. Removing first means any
// writer that opened the old inode can never pass Exclusive's identity
// check, so the artifact is never yanked out from under a writer that
// already entered the critical section.
func (l *Lock) ReleaseAndRemove() error {
	if l == nil || l.f == nil {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		_ = l.Release()
		return err
	}
	return l.Release()
}

// Shared opens path and takes a non-blocking shared lock on it, for reads.
// A missing path surfaces as the os.Open error; a held exclusive lock on the
// same file surfaces as ErrWouldBlock.
func Shared(path string) (*Lock, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if err := lock(f, false); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Lock{f: f, path: path}, nil
}

// Exclusive opens or creates the <path>.lock artifact beside path and takes
// a non-blocking exclusive lock on it, for writes. It fails immediately with
// ErrWouldBlock when another writer holds the lock; it never blocks.
func Exclusive(path string) (*Lock, error) {
	lockPath := path + LockSuffix
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	if err := lock(f, true); err != nil {
		_ = f.Close()
		return nil, err
	}
	// A finishing writer unlinks the artifact, so the inode this lock
	// landed on may no longer be the one at lockPath. A lock on an
	// unlinked inode excludes nobody; treat it as contention and let the
	// caller retry against the fresh artifact.
	held, err := f.Stat()
	if err != nil {
		_ = unlock(f)
		return nil, fmt.Errorf("stat %s: %w", lockPath, err)
	}
	current, err := os.Stat(lockPath)
	if err != nil || !os.SameFile(held, current) {
		_ = unlock(f)
		return nil, ErrWouldBlock
	}
	return &Lock{f: f, path: lockPath}, nil
}
