package document

import (
	"fmt"
	"strings"

	apperrors "github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/errors"
)

// PaperSize is a page size in inches.
type PaperSize struct {
	Width  float64
	Height float64
}

// PaperSizes lists the supported page sizes by name.
var PaperSizes = map[string]PaperSize{
	"A3":     {Width: 11.69, Height: 16.54},
	"A4":     {Width: 8.27, Height: 11.69},
	"A5":     {Width: 5.83, Height: 8.27},
	"LETTER": {Width: 8.5, Height: 11},
	"LEGAL":  {Width: 8.5, Height: 14},
}

// PrintOptions controls the PDF page layout. Margins are always zero.
type PrintOptions struct {
	PageSize        string `json:"pageSize,omitempty"`
	Landscape       bool   `json:"landscape,omitempty"`
	PrintBackground bool   `json:"printBackground"`
}

// DefaultPrintOptions returns A4 portrait with backgrounds.
func DefaultPrintOptions() PrintOptions {
	return PrintOptions{PageSize: "A4", PrintBackground: true}
}

// Paper resolves the page size. An empty name means A4.
func (o PrintOptions) Paper() (PaperSize, error) {
	name := strings.ToUpper(strings.TrimSpace(o.PageSize))
	if name == "" {
		name = "A4"
	}
	size, ok := PaperSizes[name]
	if !ok {
		return PaperSize{}, apperrors.NewValidation(fmt.Sprintf("unsupported page size %q", o.PageSize))
	}
	return size, nil
}
