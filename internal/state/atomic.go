package state

import (
	"fmt"
	"os"
	"path/filepath"
)

// TmpSuffix names the transient working file relative to the target path.
// At most one writer exists per path (the exclusive lock is held across the
// whole write), so a fixed name is safe.
const TmpSuffix = ".tmp"

// writeFileAtomic writes data to path so that a reader only ever observes
// either the prior content or the new content in full. The bytes go to a
// sibling temp file (same directory, therefore same filesystem, so the
// rename is atomic) and are fsynced before the name is exposed; after the
// rename the containing directory is fsynced so the entry update survives a
// crash. Any failure removes the temp file before the error propagates.
//
// rename is injectable so tests can fail the window between temp write and
// rename.
func writeFileAtomic(path string, data []byte, rename func(oldpath, newpath string) error) error {
	tmpPath := path + TmpSuffix
	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmpPath, err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("sync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}
	if err := rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename %s: %w", tmpPath, err)
	}
	return syncDir(filepath.Dir(path))
}

// syncDir flushes the directory so the renamed entry is durable.
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("open %s: %w", dir, err)
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", dir, err)
	}
	return nil
}
