// Package store persists the record collections as pretty-printed JSON files.
//
// Every operation reads the whole collection, mutates it in memory and writes the
// whole collection back. Nothing is cached between calls. A Store serializes
// operations on the same collection within one process; separate processes writing
// the same directory still race and the last write wins.
package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/errors"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/fsutil"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/record"
)

// UpsertResult reports the outcome of an add/upsert.
type UpsertResult struct {
	Applied   bool   `json:"applied"`
	WasUpdate bool   `json:"wasUpdate"`
	ID        string `json:"id,omitempty"`
}

// RemoveResult reports the outcome of a remove.
type RemoveResult struct {
	Applied        bool `json:"applied"`
	Removed        int  `json:"removed"`
	ClearedDefault bool `json:"clearedDefault,omitempty"`
}

// BulkResult reports the outcome of a terminal bulk reconciliation.
type BulkResult struct {
	Count    int `json:"count"`
	Inserted int `json:"nuevos"`
	Updated  int `json:"actualizados"`
}

// Store reads and writes collection files under a single directory.
type Store struct {
	dir   string
	now   func() time.Time
	log   zerolog.Logger
	locks map[string]*sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a Store rooted at dir.
func New(dir string, log zerolog.Logger, opts ...Option) *Store {
	s := &Store{
		dir:   dir,
		now:   time.Now,
		log:   log,
		locks: make(map[string]*sync.Mutex, len(record.All)),
	}
	for _, c := range record.All {
		s.locks[c.Name] = &sync.Mutex{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the directory holding the collection files.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file backing a collection.
func (s *Store) Path(c record.Collection) string {
	return filepath.Join(s.dir, c.File)
}

// Init creates every missing collection file with its default document.
func (s *Store) Init() error {
	for _, c := range record.All {
		path := s.Path(c)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		s.log.Info().Str("collection", c.Name).Str("path", path).Msg("creating collection file")
		if err := s.save(c, c.Default()); err != nil {
			return err
		}
	}
	return nil
}

// Document returns the persisted document of a collection as-is
// (the agents object, or a list for every other collection).
func (s *Store) Document(c record.Collection) any {
	unlock := s.lock(c)
	defer unlock()

	if c.Name == record.Agents.Name {
		return s.loadAgents()
	}
	return s.loadList(c)
}

// List returns the records of a list-shaped collection in insertion order.
// For agents it returns the agent list without the default agent.
func (s *Store) List(c record.Collection) []record.Record {
	unlock := s.lock(c)
	defer unlock()

	if c.Name == record.Agents.Name {
		return s.loadAgents().Agents
	}
	return s.loadList(c)
}

func (s *Store) lock(c record.Collection) func() {
	mu, ok := s.locks[c.Name]
	if !ok {
		return func() {}
	}
	mu.Lock()
	return mu.Unlock
}

// readInto decodes a collection file into dst. Failures are logged and reported
// as false so callers can fall back to the collection default.
func (s *Store) readInto(c record.Collection, dst any) bool {
	path := s.Path(c)
	data, err := os.ReadFile(path)
	if err != nil {
		event := s.log.Warn()
		if errors.Is(err, os.ErrNotExist) {
			event = s.log.Debug()
		}
		event.Err(err).Str("collection", c.Name).Str("path", path).Msg("read failed, using default")
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.log.Warn().Err(err).Str("collection", c.Name).Str("path", path).Msg("parse failed, using default")
		return false
	}
	return true
}

func (s *Store) loadList(c record.Collection) []record.Record {
	var list []record.Record
	if !s.readInto(c, &list) || list == nil {
		return c.Default().([]record.Record)
	}
	return list
}

func (s *Store) loadAgents() *record.AgentsDocument {
	doc := &record.AgentsDocument{}
	if !s.readInto(record.Agents, doc) {
		return record.Agents.Default().(*record.AgentsDocument)
	}
	if doc.Agents == nil {
		doc.Agents = []record.Record{}
	}
	return doc
}

// save writes the document pretty-printed with two-space indentation.
func (s *Store) save(c record.Collection, doc any) error {
	path := s.Path(c)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return apperrors.NewIO(path, err)
	}
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		s.log.Error().Err(err).Str("collection", c.Name).Str("path", path).Msg("write failed")
		return apperrors.NewIO(path, err)
	}
	return nil
}

func (s *Store) timestamp() string {
	return record.FormatTime(s.now())
}
