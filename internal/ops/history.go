package ops

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/document"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/errors"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/record"
)

// ListHistory returns deliveries, restricted to one agent when correo is set.
func ListHistory(d *Deps, correo string) []record.Record {
	return d.Store.History(correo)
}

// AddHistory records a delivery.
func AddHistory(d *Deps, entry record.Record) (*MessageOutput, error) {
	res, err := d.Store.UpsertHistory(entry)
	if err != nil {
		return nil, err
	}
	return &MessageOutput{OK: true, Message: "Entrega registrada correctamente", ID: res.ID}, nil
}

// HistoryPDFInput selects the agent and, optionally, the destination.
type HistoryPDFInput struct {
	Correo  string                 `json:"correo"`
	Path    string                 `json:"savePath,omitempty"`
	Options *document.PrintOptions `json:"options,omitempty"`
}

// HistoryPDFOutput is the result of a history report.
type HistoryPDFOutput struct {
	OK        bool   `json:"ok"`
	Path      string `json:"path"`
	Message   string `json:"message"`
	Registros int    `json:"registros"`
}

// HistoryPDF renders the delivery history of one agent to PDF.
func HistoryPDF(ctx context.Context, d *Deps, input HistoryPDFInput) (*HistoryPDFOutput, error) {
	if record.Blank(input.Correo) {
		return nil, errors.NewValidation("correo is required")
	}
	entries := d.Store.History(input.Correo)
	if len(entries) == 0 {
		return nil, errors.NewNotFound(record.Historial.Name, input.Correo)
	}

	report := &document.HistoryReport{
		Correo:    input.Correo,
		Agente:    agentName(d, input.Correo),
		Generated: d.now(),
		Entries:   entries,
	}

	path, err := d.Renderer.Generate(ctx, document.Request{History: report, Path: input.Path, Options: input.Options})
	if err != nil {
		return nil, err
	}

	return &HistoryPDFOutput{
		OK:        true,
		Path:      path,
		Message:   fmt.Sprintf("PDF generado: %s", filepath.Base(path)),
		Registros: len(entries),
	}, nil
}

func agentName(d *Deps, correo string) string {
	def, agents := d.Store.Agents()
	if def != nil && def.String("correo") == correo {
		return def.String("nombre")
	}
	for _, a := range agents {
		if a.String("correo") == correo {
			return a.String("nombre")
		}
	}
	return ""
}
