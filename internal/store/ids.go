package store

import (
	"crypto/rand"
	"strconv"

	"github.com/oklog/ulid/v2"
)

// GenerateID returns the current wall-clock time in milliseconds as a string.
// Two calls within the same millisecond return the same id.
func (s *Store) GenerateID() string {
	return strconv.FormatInt(s.now().UnixMilli(), 10)
}

// freeID returns GenerateID, moved forward one millisecond at a time past ids
// already taken. Callers hold the collection lock.
func (s *Store) freeID(taken func(string) bool) string {
	id := s.GenerateID()
	ms, _ := strconv.ParseInt(id, 10, 64)
	for taken(id) {
		ms++
		id = strconv.FormatInt(ms, 10)
	}
	return id
}

// generateULID generates a new ULID for inventory items.
func (s *Store) generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(s.now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
