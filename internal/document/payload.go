// Package document renders SIM receipts and delivery history reports to PDF.
package document

import (
	"fmt"
	"time"

	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/fsutil"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/record"
)

// Payload is the content of a SIM delivery receipt.
// When HTML is set it is rendered verbatim and every other field is ignored.
type Payload struct {
	Agente       string `json:"agente"`
	Usuario      string `json:"usuario"`
	Correo       string `json:"correo"`
	Fecha        string `json:"fecha"`
	Contenido    string `json:"contenido"`
	FirmaDataURL string `json:"firmaDataURL,omitempty"`
	FirmaPath    string `json:"firmaPath,omitempty"`
	HTML         string `json:"html,omitempty"`
}

// SuggestedName is the default file name for the receipt.
func (p Payload) SuggestedName() string {
	return fsutil.SanitizeFilename(fmt.Sprintf("SIM-%s-%s.pdf", orDefault(p.Usuario, "usuario"), orDefault(p.Fecha, "fecha")))
}

// HistoryReport is the content of a per-agent delivery history report.
type HistoryReport struct {
	Correo    string
	Agente    string
	Generated time.Time
	Entries   []record.Record
}

// SuggestedName is the default file name for the report.
func (h HistoryReport) SuggestedName() string {
	day := h.Generated.UTC().Format("2006-01-02")
	return fsutil.SanitizeFilename(fmt.Sprintf("Historial-%s-%s.pdf", orDefault(h.Correo, "agente"), day))
}

func orDefault(v, def string) string {
	if record.Blank(v) {
		return def
	}
	return v
}
