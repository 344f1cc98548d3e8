package ops

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/errors"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/record"
)

// ListTerminals returns every terminal.
func ListTerminals(d *Deps) []record.Record {
	return d.Store.Terminals()
}

// AddTerminal adds a terminal or merges it into the one with the same key.
func AddTerminal(d *Deps, terminal record.Record) (*MessageOutput, error) {
	res, err := d.Store.UpsertTerminal(terminal)
	if err != nil {
		return nil, err
	}
	msg := "Terminal agregado"
	if res.WasUpdate {
		msg = "Terminal actualizado"
	}
	return &MessageOutput{OK: true, Message: msg, ID: res.ID}, nil
}

// RemoveTerminal deletes the terminal matching the key fields of terminal.
func RemoveTerminal(d *Deps, terminal record.Record) (*MessageOutput, error) {
	if _, err := d.Store.RemoveTerminal(terminal); err != nil {
		return nil, err
	}
	return &MessageOutput{OK: true, Message: "Terminal eliminado correctamente"}, nil
}

// BulkOutput is the result of a bulk reconciliation.
type BulkOutput struct {
	OK           bool   `json:"ok"`
	Count        int    `json:"count"`
	Nuevos       int    `json:"nuevos"`
	Actualizados int    `json:"actualizados"`
	Message      string `json:"message"`
}

// BulkAddTerminals reconciles a batch of terminals into the collection.
func BulkAddTerminals(d *Deps, batch any) (*BulkOutput, error) {
	res, err := d.Store.BulkReconcileTerminals(batch)
	if err != nil {
		return nil, err
	}
	return &BulkOutput{
		OK:           true,
		Count:        res.Count,
		Nuevos:       res.Inserted,
		Actualizados: res.Updated,
		Message:      fmt.Sprintf("Procesados: %d nuevos, %d actualizados", res.Inserted, res.Updated),
	}, nil
}

// ImportTerminals reads a JSON array of terminals from path and reconciles it.
// Comments and trailing commas are allowed in the file.
func ImportTerminals(d *Deps, path string) (*BulkOutput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO(path, err)
	}

	var batch any
	if err := json.Unmarshal(jsonc.ToJSON(data), &batch); err != nil {
		return nil, errors.NewValidation(fmt.Sprintf("invalid format: %v", err))
	}
	return BulkAddTerminals(d, batch)
}
