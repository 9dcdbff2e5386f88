package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"aeocheck/internal/archive"
	"aeocheck/internal/audit"
	"aeocheck/internal/catalog"
	"aeocheck/internal/config"
	"aeocheck/internal/contact"
	"aeocheck/internal/export"
	"aeocheck/internal/metrics"
	"aeocheck/internal/output"
	"aeocheck/internal/quote"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func exitCodeForRun(fatal, partial, wrongs bool) int {
	// Exit code contract:
	// 0 = clean: nothing priced needs fixing
	// 1 = priced remediation found
	// 2 = partial failure (analysis, export or archive failed)
	// 3 = fatal error (no report was obtained)
	if fatal {
		return 3
	}
	if partial {
		return 2
	}
	if wrongs {
		return 1
	}
	return 0
}

func setupOutputManager(cfg *config.Config) (*output.Manager, error) {
	outMgr := output.NewManager()

	// Console Sink
	if !cfg.Output.NoConsole {
		if err := outMgr.AddSink(output.NewConsoleSink(nil, cfg.Output.ConsoleFormat, cfg.Output.NoColor)); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// Emit Sinks (additional structured streams)
	for _, emit := range cfg.Output.Emit {
		es, err := output.NewEmitSink(os.Stdout, emit)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(es); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// File Sink
	if cfg.Output.Out != "" {
		fs, err := output.NewFileSink(cfg.Output.Out, cfg.Output.OutFormat)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(fs); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// Report Sink
	if cfg.Output.Report != "" {
		rs, err := output.NewReportSink(cfg.Output.Report)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(rs); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	return outMgr, nil
}

// Engine runs one audit: submit, quote, and optionally export and archive.
// It holds no per-run state; everything a run produces goes to the sinks.
type Engine struct {
	Submitter audit.Submitter
	// Guard is the Submitter when wired from config; the server uses it to
	// share concurrent submissions of the same URL.
	Guard     *audit.Guard
	Catalog   catalog.Catalog

	// Exporter is nil when PDF export is not wired.
	Exporter *export.Exporter
	// Archiver is nil when no archive bucket is configured.
	Archiver *archive.Archiver
	Metrics  *metrics.Metrics

	// newSinks is a test seam; nil uses setupOutputManager.
	newSinks func(cfg *config.Config) (*output.Manager, error)
	now      func() time.Time
}

func NewEngine(submitter audit.Submitter, cat catalog.Catalog) *Engine {
	return &Engine{
		Submitter: submitter,
		Catalog:   cat,
		now:       time.Now,
	}
}

func (e *Engine) sinks(cfg *config.Config) (*output.Manager, error) {
	if e.newSinks != nil {
		return e.newSinks(cfg)
	}
	return setupOutputManager(cfg)
}

// Run submits target to the audit backend and processes the report.
func (e *Engine) Run(ctx context.Context, cfg *config.Config, target string) int {
	logger := zerolog.Ctx(ctx)

	outMgr, err := e.sinks(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output sinks: %v\n", err)
		return exitCodeForRun(true, false, false)
	}
	defer outMgr.Close()

	if cfg.Runtime.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Runtime.Timeout)
		defer cancel()
	}

	runID := uuid.NewString()
	_ = outMgr.Write(output.Event{Type: output.EventAuditStarted, RunID: runID, URL: target})

	done := e.Metrics.StartAudit()
	report, err := e.Submitter.Submit(ctx, target)
	if err != nil {
		outcome := metrics.OutcomeFailed
		if errors.Is(err, audit.ErrSubmissionInFlight) {
			outcome = metrics.OutcomeRejected
		}
		done(outcome)
		logger.Error().Err(err).Str("url", target).Msg("audit submission failed")
		_ = outMgr.Write(output.Event{Type: output.EventAuditFailed, RunID: runID, URL: target, Error: err.Error()})
		code := exitCodeForRun(true, false, false)
		_ = outMgr.Write(output.Event{Type: output.EventAuditFinished, RunID: runID, ExitCode: code})
		return code
	}
	if report.AnalysisFailed() {
		done(metrics.OutcomeAnalysisFailed)
	} else {
		done(metrics.OutcomeOK)
	}

	return e.process(ctx, cfg, outMgr, runID, target, report)
}

// RunReport prices an already obtained report (e.g. a saved JSON file)
// without contacting the backend.
func (e *Engine) RunReport(ctx context.Context, cfg *config.Config, report *audit.Report) int {
	outMgr, err := e.sinks(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output sinks: %v\n", err)
		return exitCodeForRun(true, false, false)
	}
	defer outMgr.Close()

	if report == nil {
		fmt.Fprintln(os.Stderr, "Error: no report to price")
		return exitCodeForRun(true, false, false)
	}

	runID := uuid.NewString()
	_ = outMgr.Write(output.Event{Type: output.EventAuditStarted, RunID: runID, URL: report.URL})
	return e.process(ctx, cfg, outMgr, runID, report.URL, report)
}

func (e *Engine) process(ctx context.Context, cfg *config.Config, outMgr *output.Manager, runID, siteURL string, report *audit.Report) int {
	logger := zerolog.Ctx(ctx)

	_ = outMgr.Write(output.ReceivedEvent(report))
	for _, r := range report.Results {
		_ = outMgr.Write(r)
	}

	q := quote.ForReport(report, e.Catalog)
	mailto := contact.Mailto(cfg.Catalog.Recipient, siteURL, q)
	e.Metrics.ObserveQuote(q.Clean, q.Total, pricedTitles(q))
	_ = outMgr.Write(output.QuoteEvent(q, mailto))

	partial := report.AnalysisFailed()
	if partial {
		logger.Warn().Str("url", report.URL).Str("error", report.Error).Msg("backend could not analyze the site")
	}

	if cfg.Export.PDF {
		if !e.exportAndArchive(ctx, cfg, outMgr, runID, export.NewView(report, q, mailto, e.clock()), logger) {
			partial = true
		}
	}

	code := exitCodeForRun(false, partial, !q.Clean)
	_ = outMgr.Write(output.Event{Type: output.EventAuditFinished, RunID: runID, ExitCode: code})
	return code
}

// exportAndArchive reports whether every requested step succeeded.
func (e *Engine) exportAndArchive(ctx context.Context, cfg *config.Config, outMgr *output.Manager, runID string, view export.View, logger *zerolog.Logger) bool {
	path, err := e.Exporter.Export(ctx, view, cfg.Export.Dir)
	if err != nil {
		outcome := metrics.OutcomeFailed
		if errors.Is(err, export.ErrExportUnavailable) {
			outcome = metrics.OutcomeUnavailable
		}
		e.Metrics.ObserveExport(outcome)
		logger.Error().Err(err).Msg("pdf export failed")
		_ = outMgr.Write(output.Event{Type: output.EventExportFailed, RunID: runID, Error: err.Error()})
		return false
	}
	e.Metrics.ObserveExport(metrics.OutcomeOK)
	_ = outMgr.Write(output.Event{Type: output.EventExportFinished, RunID: runID, Path: path})

	if e.Archiver == nil {
		return true
	}
	key, err := e.Archiver.Upload(ctx, path)
	if err != nil {
		e.Metrics.ObserveArchive(metrics.OutcomeFailed)
		logger.Error().Err(err).Str("path", path).Msg("archive upload failed")
		_ = outMgr.Write(output.Event{Type: output.EventArchiveFailed, RunID: runID, Error: err.Error()})
		return false
	}
	e.Metrics.ObserveArchive(metrics.OutcomeOK)
	_ = outMgr.Write(output.Event{Type: output.EventArchiveFinished, RunID: runID, Path: e.Archiver.Location(key)})
	return true
}

func (e *Engine) clock() time.Time {
	if e.now == nil {
		return time.Now()
	}
	return e.now()
}

// pricedTitles lists the failing titles that matched the catalog. Metric
// labels come from here so callers cannot mint arbitrary series.
func pricedTitles(q quote.Quote) []string {
	out := make([]string, 0, len(q.LineItems))
	for _, li := range q.LineItems {
		out = append(out, li.SourceTitle)
	}
	return out
}
