package export

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

// A4 portrait in inches.
const (
	a4Width  = 8.27
	a4Height = 11.69
)

var chromeCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"chrome",
	"headless-shell",
}

// ChromeRenderer prints HTML to PDF with a headless Chrome/Chromium.
type ChromeRenderer struct {
	// ExecPath overrides executable discovery.
	ExecPath string
	// Timeout bounds one render. Zero means only the caller's context applies.
	Timeout time.Duration

	lookPath func(string) (string, error)
}

func NewChromeRenderer(execPath string, timeout time.Duration) *ChromeRenderer {
	return &ChromeRenderer{ExecPath: execPath, Timeout: timeout, lookPath: exec.LookPath}
}

// Resolve returns the browser executable, or "" if none is installed.
func (r *ChromeRenderer) Resolve() string {
	if r.ExecPath != "" {
		fi, err := os.Stat(r.ExecPath)
		if err != nil || fi.IsDir() || fi.Mode()&0o111 == 0 {
			return ""
		}
		return r.ExecPath
	}
	look := r.lookPath
	if look == nil {
		look = exec.LookPath
	}
	for _, name := range chromeCandidates {
		if p, err := look(name); err == nil {
			return p
		}
	}
	return ""
}

// Available reports whether a browser executable can be found on this host.
func (r *ChromeRenderer) Available() bool {
	return r.Resolve() != ""
}

func (r *ChromeRenderer) Render(ctx context.Context, html []byte) ([]byte, error) {
	execPath := r.Resolve()
	if execPath == "" {
		return nil, ErrExportUnavailable
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(execPath),
		chromedp.Flag("headless", "new"),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	logger := zerolog.Ctx(ctx)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			logger.Debug().Str("source", "chrome").Msgf(format, args...)
		}),
	)
	defer cancelBrowser()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4Width).
				WithPaperHeight(a4Height).
				WithPreferCSSPageSize(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chrome print to pdf: %w", err)
	}
	logger.Debug().Str("chrome", execPath).Int("bytes", len(pdf)).Msg("rendered pdf")
	return pdf, nil
}
