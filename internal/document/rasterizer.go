package document

import (
	"context"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Rasterizer turns an HTML document into PDF bytes.
// Implementations must release every resource they acquire before returning.
type Rasterizer interface {
	Rasterize(ctx context.Context, html string, opts PrintOptions) ([]byte, error)
}

// ChromeRasterizer prints HTML through a headless Chrome tab.
// Each call starts its own browser and closes it before returning.
type ChromeRasterizer struct {
	// ExecPath overrides the browser executable. Empty means auto-detect.
	ExecPath string
}

// Rasterize loads html into a blank tab and prints it to PDF.
func (c *ChromeRasterizer) Rasterize(ctx context.Context, html string, opts PrintOptions) ([]byte, error) {
	paper, err := opts.Paper()
	if err != nil {
		return nil, err
	}

	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if c.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(c.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	var pdf []byte
	loaded := make(chan struct{})
	err = chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// Registered after about:blank has loaded, so the next load event is ours.
			var once sync.Once
			chromedp.ListenTarget(ctx, func(ev any) {
				if _, ok := ev.(*page.EventLoadEventFired); ok {
					once.Do(func() { close(loaded) })
				}
			})

			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			select {
			case <-loaded:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(paper.Width).
				WithPaperHeight(paper.Height).
				WithLandscape(opts.Landscape).
				WithPrintBackground(opts.PrintBackground).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			pdf = buf
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdf, nil
}
