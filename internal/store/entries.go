package store

import (
	"strings"

	apperrors "github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/errors"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/record"
)

// Notes returns every note in insertion order.
func (s *Store) Notes() []record.Record {
	return s.List(record.Notas)
}

// UpsertNote adds a note, generating a millisecond id when none is given.
// A note carrying the id of an existing note is merged into it.
func (s *Store) UpsertNote(note record.Record) (UpsertResult, error) {
	return s.upsertByID(record.Notas, note, func(r record.Record, taken func(string) bool) error {
		if !r.Has("id") {
			r["id"] = s.freeID(taken)
		}
		return nil
	})
}

// UpdateNote merges patch into the note with the given id.
func (s *Store) UpdateNote(id string, patch record.Record) (UpsertResult, error) {
	return s.updateByID(record.Notas, id, patch)
}

// RemoveNote deletes the note with the given id.
func (s *Store) RemoveNote(id string) (RemoveResult, error) {
	return s.removeByID(record.Notas, id)
}

// History returns the delivery history, restricted to one agent when correo is set.
func (s *Store) History(correo string) []record.Record {
	all := s.List(record.Historial)
	if record.Blank(correo) {
		return all
	}
	filtered := make([]record.Record, 0, len(all))
	for _, r := range all {
		if r.String("correo") == correo {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// UpsertHistory adds a delivery record. The id and fechaEntrega are stamped when absent.
func (s *Store) UpsertHistory(entry record.Record) (UpsertResult, error) {
	return s.upsertByID(record.Historial, entry, func(r record.Record, taken func(string) bool) error {
		if !r.Has("id") {
			r["id"] = s.freeID(taken)
		}
		if !r.Has(record.FieldDelivery) {
			r[record.FieldDelivery] = s.timestamp()
		}
		return nil
	})
}

// Inventory returns every inventory item in insertion order.
func (s *Store) Inventory() []record.Record {
	return s.List(record.Inventario)
}

// UpsertItem adds an inventory item, generating a ULID when no id is given.
func (s *Store) UpsertItem(item record.Record) (UpsertResult, error) {
	return s.upsertByID(record.Inventario, item, func(r record.Record, _ func(string) bool) error {
		if r.Has("id") {
			return nil
		}
		id, err := s.generateULID()
		if err != nil {
			return apperrors.NewInternal(err)
		}
		r["id"] = id
		return nil
	})
}

// UpdateItem merges patch into the inventory item with the given id.
func (s *Store) UpdateItem(id string, patch record.Record) (UpsertResult, error) {
	return s.updateByID(record.Inventario, id, patch)
}

// RemoveItem deletes the inventory item with the given id.
func (s *Store) RemoveItem(id string) (RemoveResult, error) {
	return s.removeByID(record.Inventario, id)
}

// FilterItems returns inventory items whose fields contain every non-empty filter
// value, compared case-insensitively.
func (s *Store) FilterItems(filters map[string]string) []record.Record {
	items := s.Inventory()
	out := make([]record.Record, 0, len(items))
	for _, item := range items {
		if matchesFilters(item, filters) {
			out = append(out, item)
		}
	}
	return out
}

func matchesFilters(r record.Record, filters map[string]string) bool {
	for field, want := range filters {
		want = record.Normalize(want)
		if want == "" {
			continue
		}
		if !strings.Contains(record.Normalize(r.String(field)), want) {
			return false
		}
	}
	return true
}

// upsertByID runs prepare on a copy of incoming, then merges it into the record
// with the same id or appends it. prepare sees which ids are taken, so generated
// ids always append; only a caller-supplied id can merge.
func (s *Store) upsertByID(c record.Collection, incoming record.Record, prepare func(r record.Record, taken func(string) bool) error) (UpsertResult, error) {
	unlock := s.lock(c)
	defer unlock()

	list := s.loadList(c)
	taken := func(id string) bool {
		return indexOf(list, func(existing record.Record) bool { return existing.String("id") == id }) >= 0
	}

	r := incoming.Clone()
	if err := prepare(r, taken); err != nil {
		return UpsertResult{}, err
	}
	id := r.String("id")

	idx := indexOf(list, func(existing record.Record) bool { return existing.String("id") == id })
	list, wasUpdate := upsertAt(list, idx, r, s.timestamp())

	if err := s.save(c, list); err != nil {
		return UpsertResult{}, err
	}

	s.log.Info().Str("collection", c.Name).Str("id", id).Bool("update", wasUpdate).Msg("record saved")
	return UpsertResult{Applied: true, WasUpdate: wasUpdate, ID: id}, nil
}

func (s *Store) updateByID(c record.Collection, id string, patch record.Record) (UpsertResult, error) {
	if record.Blank(id) {
		return UpsertResult{}, apperrors.NewIdentityRequired(c.Name, "id")
	}

	unlock := s.lock(c)
	defer unlock()

	list := s.loadList(c)
	idx := indexOf(list, func(r record.Record) bool { return r.String("id") == id })
	if idx < 0 {
		return UpsertResult{}, apperrors.NewNotFound(c.Name, id)
	}

	keepID := list[idx]["id"]
	created, hadCreated := list[idx][record.FieldCreated]
	list, _ = upsertAt(list, idx, patch, s.timestamp())
	list[idx]["id"] = keepID
	if hadCreated {
		list[idx][record.FieldCreated] = created
	} else {
		delete(list[idx], record.FieldCreated)
	}

	if err := s.save(c, list); err != nil {
		return UpsertResult{}, err
	}

	s.log.Info().Str("collection", c.Name).Str("id", id).Msg("record updated")
	return UpsertResult{Applied: true, WasUpdate: true, ID: id}, nil
}

func (s *Store) removeByID(c record.Collection, id string) (RemoveResult, error) {
	if record.Blank(id) {
		return RemoveResult{}, apperrors.NewIdentityRequired(c.Name, "id")
	}

	unlock := s.lock(c)
	defer unlock()

	list := s.loadList(c)
	kept, removed := removeWhere(list, func(r record.Record) bool { return r.String("id") == id })
	if removed == 0 {
		return RemoveResult{}, apperrors.NewNotFound(c.Name, id)
	}

	if err := s.save(c, kept); err != nil {
		return RemoveResult{}, err
	}

	s.log.Info().Str("collection", c.Name).Str("id", id).Int("removed", removed).Msg("record removed")
	return RemoveResult{Applied: true, Removed: removed}, nil
}
