package document

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/errors"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/fsutil"
)

// DefaultTimeout bounds loading and printing when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Request describes one document to render. Exactly one of Payload and History is used;
// Payload wins when both are set.
type Request struct {
	Payload *Payload
	History *HistoryReport

	// Path skips the chooser when set.
	Path string

	// Options overrides the renderer defaults.
	Options *PrintOptions
}

// Result is the boundary shape of a render.
type Result struct {
	OK    bool   `json:"ok"`
	Path  string `json:"path,omitempty"`
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

// Renderer turns requests into PDF files.
type Renderer struct {
	raster    Rasterizer
	chooser   PathChooser
	templates *Templates
	timeout   time.Duration
	defaults  PrintOptions
	log       zerolog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTimeout bounds each render.
func WithTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithDefaults sets the print options used when a request has none.
func WithDefaults(opts PrintOptions) Option {
	return func(r *Renderer) { r.defaults = opts }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Renderer) { r.log = log }
}

// NewRenderer creates a Renderer.
func NewRenderer(raster Rasterizer, chooser PathChooser, opts ...Option) *Renderer {
	r := &Renderer{
		raster:    raster,
		chooser:   chooser,
		templates: NewTemplates(),
		timeout:   DefaultTimeout,
		defaults:  DefaultPrintOptions(),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render generates the document and reports the outcome as a Result.
func (r *Renderer) Render(ctx context.Context, req Request) Result {
	path, err := r.Generate(ctx, req)
	if err != nil {
		appErr := apperrors.As(err)
		return Result{Error: appErr.PublicMessage(), Code: string(appErr.Code)}
	}
	return Result{OK: true, Path: path}
}

// Generate builds the HTML, asks for a destination, rasterizes and writes the PDF.
// It returns the written path. Nothing is written when the chooser is dismissed or
// any step fails.
func (r *Renderer) Generate(ctx context.Context, req Request) (string, error) {
	html, suggested, err := r.build(req)
	if err != nil {
		return "", err
	}

	opts := r.defaults
	if req.Options != nil {
		opts = *req.Options
	}
	if _, err := opts.Paper(); err != nil {
		return "", err
	}

	path, err := r.destination(ctx, req.Path, suggested)
	if err != nil {
		return "", err
	}

	renderCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	pdf, err := r.raster.Rasterize(renderCtx, html, opts)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(renderCtx.Err(), context.DeadlineExceeded) {
			r.log.Warn().Dur("timeout", r.timeout).Str("path", path).Msg("render timed out")
			return "", apperrors.NewRenderTimeout(r.timeout.Seconds())
		}
		var appErr *apperrors.AppError
		if stderrors.As(err, &appErr) {
			return "", appErr
		}
		return "", apperrors.NewRender(err)
	}

	if err := fsutil.WriteFileAtomic(path, pdf, 0o644); err != nil {
		r.log.Error().Err(err).Str("path", path).Msg("pdf write failed")
		return "", apperrors.NewIO(path, err)
	}

	r.log.Info().Str("path", path).Int("bytes", len(pdf)).Dur("elapsed", time.Since(start)).Msg("pdf written")
	return path, nil
}

func (r *Renderer) build(req Request) (html, suggested string, err error) {
	switch {
	case req.Payload != nil:
		html, err = r.templates.SIM(*req.Payload)
		return html, req.Payload.SuggestedName(), err
	case req.History != nil:
		html, err = r.templates.History(*req.History)
		return html, req.History.SuggestedName(), err
	default:
		return "", "", apperrors.NewValidation("nothing to render")
	}
}

func (r *Renderer) destination(ctx context.Context, explicit, suggested string) (string, error) {
	path := explicit
	if path == "" {
		if r.chooser == nil {
			return "", apperrors.NewValidation("no destination path")
		}
		chosen, ok, err := r.chooser.Choose(ctx, suggested)
		if err != nil {
			return "", apperrors.NewInternal(err)
		}
		if !ok {
			r.log.Info().Str("suggested", suggested).Msg("save cancelled by user")
			return "", apperrors.NewCancelledByUser()
		}
		path = chosen
	}

	if err := fsutil.ValidateTargetPath(path, ".pdf"); err != nil {
		return "", err
	}
	return path, nil
}
