package engine

import (
	"context"
	"fmt"

	"aeocheck/internal/archive"
	"aeocheck/internal/audit"
	"aeocheck/internal/catalog"
	"aeocheck/internal/config"
	"aeocheck/internal/contact"
	"aeocheck/internal/export"
	"aeocheck/internal/metrics"
	"aeocheck/internal/quote"

	"github.com/rs/zerolog"
)

// Wire builds an Engine from validated configuration: the audit client
// behind a Guard, the catalog (defaults plus overrides), and the optional
// exporter and archiver.
func Wire(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (*Engine, error) {
	logger := zerolog.Ctx(ctx)

	token, src, err := audit.ResolveAuthToken(cfg.Audit.Token)
	if err != nil {
		return nil, err
	}
	if src != audit.TokenSourceNone {
		logger.Debug().Str("source", string(src)).Msg("using audit backend token")
	}

	client, err := audit.NewClient(cfg.Audit.BaseURL,
		audit.WithToken(token),
		audit.WithTimeout(cfg.Audit.Timeout),
		audit.WithVerbose(cfg.Runtime.Verbose, *logger),
	)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	guard := audit.NewGuard(client)
	guard.SharedTimeout = cfg.Runtime.Timeout
	e := NewEngine(guard, cat)
	e.Guard = guard
	e.Metrics = m

	if cfg.Export.PDF {
		e.Exporter = export.NewExporter(export.NewChromeRenderer(cfg.Export.ChromePath, cfg.Runtime.Timeout))
		if !e.Exporter.Available() {
			logger.Warn().Msg("PDF export requested but no Chrome/Chromium was found; export will be skipped")
		}
	}

	if cfg.Archive.Enabled() {
		store, err := archive.NewS3Store(ctx, archive.S3Config{
			Bucket:          cfg.Archive.Bucket,
			Region:          cfg.Archive.Region,
			Endpoint:        cfg.Archive.Endpoint,
			AccessKeyID:     cfg.Archive.AccessKeyID,
			SecretAccessKey: cfg.Archive.SecretAccessKey,
			Timeout:         cfg.Runtime.Timeout,
		})
		if err != nil {
			return nil, err
		}
		e.Archiver = archive.NewArchiver(store, cfg.Archive.Prefix)
	}

	return e, nil
}

// Price builds the quote and contact link for report without emitting
// anything. The server uses it for per-request pricing.
func (e *Engine) Price(report *audit.Report, recipient, siteURL string) (quote.Quote, string) {
	q := quote.ForReport(report, e.Catalog)
	e.Metrics.ObserveQuote(q.Clean, q.Total, pricedTitles(q))
	return q, contact.Mailto(recipient, siteURL, q)
}
