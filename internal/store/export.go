package store

import (
	"encoding/json"

	apperrors "github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/errors"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/fsutil"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/record"
)

// Export writes the persisted document of a collection to path, pretty-printed.
// The destination is replaced atomically.
func (s *Store) Export(c record.Collection, path string) error {
	doc := s.Document(c)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return apperrors.NewInternal(err)
	}
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return apperrors.NewIO(path, err)
	}

	s.log.Info().Str("collection", c.Name).Str("path", path).Msg("collection exported")
	return nil
}
