package document

import (
	"bytes"
	"embed"
	"encoding/base64"
	"html/template"
	"net/http"
	"os"
	"strings"

	"github.com/yuin/goldmark"

	apperrors "github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/errors"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/record"
)

//go:embed templates/*.html
var templateFS embed.FS

// SignatureCaption is printed under the signature line.
const SignatureCaption = "Firma del supervisor"

// Templates builds document HTML from the embedded templates.
type Templates struct {
	sim     *template.Template
	history *template.Template
}

// NewTemplates parses the embedded templates.
func NewTemplates() *Templates {
	funcMap := template.FuncMap{
		"field":    func(r record.Record, name string) string { return r.String(name) },
		"markdown": renderMarkdown,
	}
	return &Templates{
		sim:     template.Must(template.New("sim.html").Funcs(funcMap).ParseFS(templateFS, "templates/sim.html")),
		history: template.Must(template.New("historial.html").Funcs(funcMap).ParseFS(templateFS, "templates/historial.html")),
	}
}

type simData struct {
	Payload
	Firma   template.URL
	Caption string
}

// SIM renders the receipt. A verbatim HTML payload is returned unchanged.
func (t *Templates) SIM(p Payload) (string, error) {
	if p.HTML != "" {
		return p.HTML, nil
	}

	firma, err := signatureSource(p)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.sim.Execute(&buf, simData{Payload: p, Firma: firma, Caption: SignatureCaption}); err != nil {
		return "", apperrors.NewRender(err)
	}
	return buf.String(), nil
}

type historyData struct {
	HistoryReport
	GeneratedAt string
}

// History renders the delivery history report.
func (t *Templates) History(h HistoryReport) (string, error) {
	var buf bytes.Buffer
	data := historyData{HistoryReport: h, GeneratedAt: record.FormatTime(h.Generated)}
	if err := t.history.Execute(&buf, data); err != nil {
		return "", apperrors.NewRender(err)
	}
	return buf.String(), nil
}

// signatureSource returns the image source for the signature block, or "" when
// there is no signature. Only data:image URLs are embedded.
func signatureSource(p Payload) (template.URL, error) {
	if strings.HasPrefix(p.FirmaDataURL, "data:image/") {
		return template.URL(p.FirmaDataURL), nil
	}
	if strings.TrimSpace(p.FirmaPath) == "" {
		return "", nil
	}

	data, err := os.ReadFile(p.FirmaPath)
	if err != nil {
		return "", apperrors.NewIO(p.FirmaPath, err)
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", apperrors.NewValidation("signature file is not an image: " + p.FirmaPath)
	}
	return template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)), nil
}

// renderMarkdown converts markdown text to HTML using goldmark.
// Raw HTML in the source is omitted.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}
