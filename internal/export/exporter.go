// Package export renders an audit report page and saves it as a PDF.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// ErrExportUnavailable is returned when the host has no way to render PDFs.
var ErrExportUnavailable = errors.New("pdf export unavailable: no Chrome/Chromium found on this host")

// Renderer turns a standalone HTML document into PDF bytes.
type Renderer interface {
	Available() bool
	Render(ctx context.Context, html []byte) ([]byte, error)
}

type Exporter struct {
	renderer Renderer
	now      func() time.Time
}

func NewExporter(r Renderer) *Exporter {
	return &Exporter{renderer: r, now: time.Now}
}

// Available reports whether Export can succeed on this host.
func (e *Exporter) Available() bool {
	return e != nil && e.renderer != nil && e.renderer.Available()
}

// Export renders v and writes it to dir, returning the written path.
// The file appears under its final name only once fully written; on any
// error nothing is left behind.
func (e *Exporter) Export(ctx context.Context, v View, dir string) (string, error) {
	if !e.Available() {
		return "", ErrExportUnavailable
	}
	if dir == "" {
		dir = "."
	}
	now := e.now()
	if v.GeneratedAt.IsZero() {
		v.GeneratedAt = now
	}

	var html bytes.Buffer
	if err := RenderHTML(&html, v); err != nil {
		return "", err
	}
	pdf, err := e.renderer.Render(ctx, html.Bytes())
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	if len(pdf) == 0 {
		return "", errors.New("export: renderer returned an empty document")
	}

	reportURL := ""
	if v.Report != nil {
		reportURL = v.Report.URL
	}
	path := filepath.Join(dir, Filename(reportURL, now))
	if err := writeFileAtomic(path, pdf); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("pdf exported")
	return path, nil
}

func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
