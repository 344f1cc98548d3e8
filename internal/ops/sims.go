package ops

import (
	"context"

	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/document"
)

// GenerateSIMInput is a receipt payload plus an optional destination.
type GenerateSIMInput struct {
	document.Payload
	Path    string                 `json:"savePath,omitempty"`
	Options *document.PrintOptions `json:"options,omitempty"`
}

// GenerateSIMOutput is the result of a receipt render.
type GenerateSIMOutput struct {
	OK   bool   `json:"ok"`
	Path string `json:"path"`
}

// GenerateSIM renders a SIM delivery receipt to PDF.
func GenerateSIM(ctx context.Context, d *Deps, input GenerateSIMInput) (*GenerateSIMOutput, error) {
	payload := input.Payload
	path, err := d.Renderer.Generate(ctx, document.Request{Payload: &payload, Path: input.Path, Options: input.Options})
	if err != nil {
		return nil, err
	}
	d.Log.Info().Str("correo", payload.Correo).Str("path", path).Msg("sim receipt generated")
	return &GenerateSIMOutput{OK: true, Path: path}, nil
}
