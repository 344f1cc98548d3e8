// Package fsutil holds the file helpers shared by the record store, the
// exporter and the document renderer.
package fsutil

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to a temp file beside path and renames it into place.
// On any failure the temp file is removed and an existing file at path is left untouched.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return fmt.Errorf("generate temp file name: %w", err)
	}
	tempPath := path + "." + hex.EncodeToString(randBytes) + ".tmp"

	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	defer func() {
		if file != nil {
			file.Close()
		}
		if err != nil {
			os.Remove(tempPath)
		}
	}()

	if _, err = file.Write(data); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err = file.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	// Close before rename (required on Windows).
	if err = file.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	file = nil

	// os.Rename would follow a symlinked destination.
	if info, statErr := os.Lstat(path); statErr == nil && info.Mode()&os.ModeSymlink != 0 {
		err = fmt.Errorf("destination is a symlink: %s", path)
		return err
	}

	if err = os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("finalize: %w", err)
	}
	return nil
}
