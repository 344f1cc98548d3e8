package ops

import (
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/record"
)

// ListItems returns every inventory item.
func ListItems(d *Deps) []record.Record {
	return d.Store.Inventory()
}

// AddItem adds an inventory item, generating a ULID when no id is given.
func AddItem(d *Deps, item record.Record) (*MessageOutput, error) {
	res, err := d.Store.UpsertItem(item)
	if err != nil {
		return nil, err
	}
	msg := "Elemento agregado"
	if res.WasUpdate {
		msg = "Elemento actualizado"
	}
	return &MessageOutput{OK: true, Message: msg, ID: res.ID}, nil
}

// UpdateItem merges patch into the inventory item with the given id.
func UpdateItem(d *Deps, id string, patch record.Record) (*MessageOutput, error) {
	if _, err := d.Store.UpdateItem(id, patch); err != nil {
		return nil, err
	}
	return &MessageOutput{OK: true, Message: "Elemento actualizado", ID: id}, nil
}

// RemoveItem deletes the inventory item with the given id.
func RemoveItem(d *Deps, id string) (*MessageOutput, error) {
	if _, err := d.Store.RemoveItem(id); err != nil {
		return nil, err
	}
	return &MessageOutput{OK: true, Message: "Elemento eliminado", ID: id}, nil
}

// FilterItems returns items matching every non-empty filter (case-insensitive substring).
func FilterItems(d *Deps, filters map[string]string) []record.Record {
	return d.Store.FilterItems(filters)
}
