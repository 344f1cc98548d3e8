package store

import (
	"fmt"

	apperrors "github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/errors"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/record"
)

// Terminals returns every terminal in insertion order.
func (s *Store) Terminals() []record.Record {
	return s.List(record.Terminales)
}

// UpsertTerminal adds a terminal or merges it into the terminal with the same
// composite key. The disponible field is always stored as a number.
func (s *Store) UpsertTerminal(terminal record.Record) (UpsertResult, error) {
	if missing := missingKeyFields(terminal); len(missing) > 0 {
		return UpsertResult{}, apperrors.NewIdentityRequired(record.Terminales.Name, missing...)
	}
	incoming := normalizeTerminal(terminal)
	key := record.TerminalKey(incoming)

	unlock := s.lock(record.Terminales)
	defer unlock()

	list := s.loadList(record.Terminales)
	idx := indexOf(list, func(r record.Record) bool { return record.TerminalKey(r) == key })
	list, wasUpdate := upsertAt(list, idx, incoming, s.timestamp())

	if err := s.save(record.Terminales, list); err != nil {
		return UpsertResult{}, err
	}

	s.log.Info().Str("collection", record.Terminales.Name).Str("key", key).Bool("update", wasUpdate).Msg("terminal saved")
	return UpsertResult{Applied: true, WasUpdate: wasUpdate, ID: key}, nil
}

// RemoveTerminal deletes every terminal matching the composite key of key.
func (s *Store) RemoveTerminal(key record.Record) (RemoveResult, error) {
	if missing := missingKeyFields(key); len(missing) > 0 {
		return RemoveResult{}, apperrors.NewIdentityRequired(record.Terminales.Name, missing...)
	}
	target := record.TerminalKey(key)

	unlock := s.lock(record.Terminales)
	defer unlock()

	list := s.loadList(record.Terminales)
	kept, removed := removeWhere(list, func(r record.Record) bool { return record.TerminalKey(r) == target })
	if removed == 0 {
		return RemoveResult{}, apperrors.NewNotFound(record.Terminales.Name, target)
	}

	if err := s.save(record.Terminales, kept); err != nil {
		return RemoveResult{}, err
	}

	s.log.Info().Str("collection", record.Terminales.Name).Str("key", target).Int("removed", removed).Msg("terminal removed")
	return RemoveResult{Applied: true, Removed: removed}, nil
}

// BulkReconcileTerminals merges a batch into the terminal collection.
// Existing terminals with a matching key are merged, new keys are appended and
// terminals absent from the batch are kept. The whole batch is validated before
// anything is written.
func (s *Store) BulkReconcileTerminals(batch any) (BulkResult, error) {
	items, err := toRecords(batch)
	if err != nil {
		return BulkResult{}, err
	}
	for i, item := range items {
		if missing := missingKeyFields(item); len(missing) > 0 {
			return BulkResult{}, apperrors.NewValidation(fmt.Sprintf("invalid format: element %d: identity field required: %v", i, missing))
		}
	}
	if len(items) == 0 {
		return BulkResult{}, nil
	}

	unlock := s.lock(record.Terminales)
	defer unlock()

	list := s.loadList(record.Terminales)
	index := make(map[string]int, len(list))
	for i, r := range list {
		key := record.TerminalKey(r)
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	now := s.timestamp()
	result := BulkResult{Count: len(items)}
	for _, item := range items {
		incoming := normalizeTerminal(item)
		key := record.TerminalKey(incoming)
		idx, ok := index[key]
		if !ok {
			idx = -1
		}
		var wasUpdate bool
		list, wasUpdate = upsertAt(list, idx, incoming, now)
		if wasUpdate {
			result.Updated++
		} else {
			index[key] = len(list) - 1
			result.Inserted++
		}
	}

	if err := s.save(record.Terminales, list); err != nil {
		return BulkResult{}, err
	}

	s.log.Info().Str("collection", record.Terminales.Name).Int("count", result.Count).Int("inserted", result.Inserted).Int("updated", result.Updated).Msg("terminals reconciled")
	return result, nil
}

func missingKeyFields(r record.Record) []string {
	var missing []string
	for _, field := range record.TerminalKeyFields {
		if !r.Has(field) {
			missing = append(missing, field)
		}
	}
	return missing
}

func normalizeTerminal(r record.Record) record.Record {
	out := r.Clone()
	out["disponible"] = record.CoerceNumber(r["disponible"])
	return out
}

// toRecords accepts the shapes a decoded JSON array can take.
func toRecords(batch any) ([]record.Record, error) {
	var raw []any
	switch val := batch.(type) {
	case []record.Record:
		return val, nil
	case []map[string]any:
		out := make([]record.Record, len(val))
		for i, m := range val {
			out[i] = record.Record(m)
		}
		return out, nil
	case []any:
		raw = val
	default:
		return nil, apperrors.NewValidation("invalid format: expected an array of terminals")
	}

	out := make([]record.Record, len(raw))
	for i, v := range raw {
		r, ok := record.FromAny(v)
		if !ok {
			return nil, apperrors.NewValidation(fmt.Sprintf("invalid format: element %d is not an object", i))
		}
		out[i] = r
	}
	return out, nil
}

// upsertAt merges incoming into list[idx], or appends it when idx < 0.
func upsertAt(list []record.Record, idx int, incoming record.Record, now string) ([]record.Record, bool) {
	if idx >= 0 {
		merged := record.Merge(list[idx], incoming)
		merged[record.FieldUpdated] = now
		list[idx] = merged
		return list, true
	}
	inserted := incoming.Clone()
	inserted[record.FieldCreated] = now
	return append(list, inserted), false
}
