package ops

import (
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/record"
)

// ListNotes returns every note.
func ListNotes(d *Deps) []record.Record {
	return d.Store.Notes()
}

// AddNote adds a note, generating its id when absent.
func AddNote(d *Deps, note record.Record) (*MessageOutput, error) {
	res, err := d.Store.UpsertNote(note)
	if err != nil {
		return nil, err
	}
	return &MessageOutput{OK: true, Message: "Nota agregada correctamente", ID: res.ID}, nil
}

// UpdateNote merges patch into the note with the given id.
func UpdateNote(d *Deps, id string, patch record.Record) (*MessageOutput, error) {
	if _, err := d.Store.UpdateNote(id, patch); err != nil {
		return nil, err
	}
	return &MessageOutput{OK: true, Message: "Nota actualizada correctamente", ID: id}, nil
}

// RemoveNote deletes the note with the given id.
func RemoveNote(d *Deps, id string) (*MessageOutput, error) {
	if _, err := d.Store.RemoveNote(id); err != nil {
		return nil, err
	}
	return &MessageOutput{OK: true, Message: "Nota eliminada correctamente", ID: id}, nil
}
