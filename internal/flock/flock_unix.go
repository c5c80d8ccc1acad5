//go:build !windows

package flock

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// ErrWouldBlock is returned by a non-blocking lock attempt that found the
// lock held by another holder.
var ErrWouldBlock = errors.New("lock held by another process")

func lock(f *os.File, exclusive bool) error {
	how := syscall.LOCK_SH
	if exclusive {
		how = syscall.LOCK_EX
	}
	err := syscall.Flock(int(f.Fd()), how|syscall.LOCK_NB)
	if err == nil {
		return nil
	}
	if errors.Is(err, syscall.EWOULDBLOCK) {
		return ErrWouldBlock
	}
	return fmt.Errorf("flock %s: %w", f.Name(), err)
}

func unlock(f *os.File) error {
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_UN); err != nil {
		_ = f.Close()
		return fmt.Errorf("funlock %s: %w", f.Name(), err)
	}
	return f.Close()
}
