//go:build !windows

package flock

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExclusive_CreatesArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.yaml")

	lock, err := Exclusive(path)
	require.NoError(t, err)
	defer lock.Release()

	_, err = os.Stat(path + LockSuffix)
	assert.NoError(t, err, "lock artifact should exist while held")
	assert.Equal(t, path+LockSuffix, lock.Path())
}

func TestExclusive_SecondHolderFailsImmediately(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.yaml")

	first, err := Exclusive(path)
	require.NoError(t, err)
	defer first.Release()

	second, err := Exclusive(path)
	require.ErrorIs(t, err, ErrWouldBlock)
	assert.Nil(t, second)
}

func TestExclusive_ReacquireAfterRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.yaml")

	first, err := Exclusive(path)
	require.NoError(t, err)
	require.NoError(t, first.Release())

	second, err := Exclusive(path)
	require.NoError(t, err)
	assert.NoError(t, second.Release())
}

func TestReleaseAndRemove_UnlinksArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.yaml")

	lock, err := Exclusive(path)
	require.NoError(t, err)
	require.NoError(t, lock.ReleaseAndRemove())

	_, err = os.Stat(path + LockSuffix)
	assert.True(t, os.IsNotExist(err), "lock artifact should be gone")
}

func TestShared_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.yaml")

	lock, err := Shared(path)
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
	assert.Nil(t, lock)
}

func TestShared_ReadersCoexist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\n"), 0o644))

	first, err := Shared(path)
	require.NoError(t, err)
	defer first.Release()

	second, err := Shared(path)
	require.NoError(t, err)
	defer second.Release()
}

func TestShared_BlockedByExclusiveOnTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\n"), 0o644))

	// An exclusive lock on the target itself (not the artifact) must turn
	// away shared readers without blocking them.
	f, err := os.Open(path)
	require.NoError(t, err)
	require.NoError(t, lock(f, true))
	defer unlock(f)

	reader, err := Shared(path)
	require.ErrorIs(t, err, ErrWouldBlock)
	assert.Nil(t, reader)
}

func TestExclusive_UnlinkedArtifactExcludesNobody(t *testing.T) {
	// A finishing writer unlocks and then unlinks the artifact. A writer
	// arriving after the unlink must lock the fresh artifact and proceed,
	// even while some straggler still holds a lock on the old inode.
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	lockPath := path + LockSuffix

	straggler, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	require.NoError(t, err)
	require.NoError(t, lock(straggler, true))
	require.NoError(t, os.Remove(lockPath))

	next, err := Exclusive(path)
	require.NoError(t, err)
	assert.NoError(t, next.Release())
	assert.NoError(t, unlock(straggler))
}

func TestRelease_NilSafe(t *testing.T) {
	var lock *Lock
	assert.NoError(t, lock.Release())
	assert.NoError(t, lock.ReleaseAndRemove())

	held := &Lock{}
	assert.NoError(t, held.Release())
}

func TestExclusiveAndShared_DoNotConflict(t *testing.T) {
	// Writers lock the artifact, readers the target; the two must never
	// exclude each other.
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\n"), 0o644))

	writer, err := Exclusive(path)
	require.NoError(t, err)
	defer writer.Release()

	reader, err := Shared(path)
	require.NoError(t, err)
	defer reader.Release()
}
