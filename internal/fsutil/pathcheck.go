package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/errors"
)

// ValidateTargetPath checks a caller-chosen output path before anything is written:
// no ".." components, the required extension (case-insensitive) and no symlink at
// the final component. ext includes the dot, e.g. ".pdf".
func ValidateTargetPath(path, ext string) error {
	if strings.TrimSpace(path) == "" {
		return errors.NewValidation("path is required")
	}

	if containsTraversal(path) {
		return errors.NewValidation("path must not contain directory traversal (..)")
	}

	cleaned := filepath.Clean(path)
	if ext != "" && !strings.EqualFold(filepath.Ext(cleaned), ext) {
		return errors.NewValidation(fmt.Sprintf("path must have %s extension", ext))
	}

	if info, err := os.Lstat(cleaned); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			return errors.NewValidation("path must not be a symlink")
		}
		if info.IsDir() {
			return errors.NewValidation("path is a directory")
		}
	}

	return nil
}

// containsTraversal checks if path contains ".." directory traversal.
func containsTraversal(path string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part == ".." {
			return true
		}
	}
	// Also check forward slashes on all platforms (e.g., user input)
	if filepath.Separator != '/' {
		for _, part := range strings.Split(path, "/") {
			if part == ".." {
				return true
			}
		}
	}
	return false
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// SanitizeFilename replaces every character outside [A-Za-z0-9._-] with "_".
func SanitizeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}
