package ops

import (
	"context"
	"fmt"

	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/errors"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/fsutil"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/record"
)

// exportNames maps collection names to export file prefixes.
var exportNames = map[string]string{
	record.Agents.Name:     "agentes",
	record.Terminales.Name: "terminales",
	record.Notas.Name:      "notas",
	record.Historial.Name:  "historial",
	record.Inventario.Name: "inventario",
}

// ExportInput selects the collection and, optionally, the destination.
type ExportInput struct {
	Tipo string `json:"tipo"`
	Path string `json:"path,omitempty"`
}

// ExportOutput is the result of an export.
type ExportOutput struct {
	OK      bool   `json:"ok"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Export writes the persisted document of a collection as pretty-printed JSON.
func Export(ctx context.Context, d *Deps, input ExportInput) (*ExportOutput, error) {
	c, ok := record.Lookup(input.Tipo)
	if !ok {
		return nil, errors.NewValidation("Tipo de exportación no válido")
	}

	path := input.Path
	if path == "" {
		if d.Chooser == nil {
			return nil, errors.NewValidation("path is required")
		}
		suggested := fsutil.SanitizeFilename(fmt.Sprintf("%s-%s.json", exportNames[c.Name], d.now().UTC().Format("2006-01-02")))
		chosen, ok, err := d.Chooser.Choose(ctx, suggested)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		if !ok {
			return nil, errors.NewCancelledByUser()
		}
		path = chosen
	}

	if err := fsutil.ValidateTargetPath(path, ".json"); err != nil {
		return nil, err
	}
	if err := d.Store.Export(c, path); err != nil {
		return nil, err
	}

	return &ExportOutput{OK: true, Path: path, Message: "Datos exportados correctamente"}, nil
}
