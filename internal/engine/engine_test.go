package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"aeocheck/internal/archive"
	"aeocheck/internal/audit"
	"aeocheck/internal/catalog"
	"aeocheck/internal/config"
	"aeocheck/internal/export"
	"aeocheck/internal/metrics"
	"aeocheck/internal/output"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type stubSubmitter struct {
	report *audit.Report
	err    error
	calls  int
}

func (s *stubSubmitter) Submit(_ context.Context, target string) (*audit.Report, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.report, nil
}

type captureSink struct {
	mu     sync.Mutex
	writes []any
}

func (c *captureSink) Write(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, v)
	return nil
}

func (c *captureSink) Close() error { return nil }

func (c *captureSink) eventTypes() []string {
	var out []string
	for _, w := range c.writes {
		switch t := w.(type) {
		case output.Event:
			out = append(out, t.Type)
		case audit.CheckResult:
			out = append(out, output.EventCheckResult)
		}
	}
	return out
}

func (c *captureSink) event(typ string) (output.Event, bool) {
	for _, w := range c.writes {
		if e, ok := w.(output.Event); ok && e.Type == typ {
			return e, true
		}
	}
	return output.Event{}, false
}

func newTestEngine(sub audit.Submitter) (*Engine, *captureSink) {
	sink := &captureSink{}
	e := NewEngine(sub, catalog.Default())
	e.newSinks = func(*config.Config) (*output.Manager, error) {
		m := output.NewManager()
		return m, m.AddSink(sink)
	}
	return e, sink
}

func failingReport() *audit.Report {
	return &audit.Report{
		URL:   "https://shop.example",
		Score: 55,
		Results: []audit.CheckResult{
			{Title: "Meta Description", Status: audit.StatusFail},
			{Title: "Sitemap.xml", Status: audit.StatusPass},
		},
	}
}

func TestExitCodeForRun(t *testing.T) {
	tests := []struct {
		fatal, partial, wrongs bool
		want                   int
	}{
		{false, false, false, 0},
		{false, false, true, 1},
		{false, true, true, 2},
		{true, true, true, 3},
	}
	for _, tt := range tests {
		if got := exitCodeForRun(tt.fatal, tt.partial, tt.wrongs); got != tt.want {
			t.Errorf("exitCodeForRun(%v,%v,%v) = %d, want %d", tt.fatal, tt.partial, tt.wrongs, got, tt.want)
		}
	}
}

func TestEngine_Run_ItemizedQuoteExitsOne(t *testing.T) {
	e, sink := newTestEngine(&stubSubmitter{report: failingReport()})
	e.Metrics = metrics.New()

	code := e.Run(context.Background(), config.New(), "https://shop.example")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}

	want := []string{
		output.EventAuditStarted,
		output.EventAuditReceived,
		output.EventCheckResult,
		output.EventCheckResult,
		output.EventQuoteBuilt,
		output.EventAuditFinished,
	}
	if got := sink.eventTypes(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("event order = %v, want %v", got, want)
	}

	qe, _ := sink.event(output.EventQuoteBuilt)
	if qe.Quote == nil || qe.Quote.Total != 250000 || len(qe.Quote.LineItems) != 1 {
		t.Fatalf("unexpected quote: %#v", qe.Quote)
	}
	if !strings.HasPrefix(qe.Contact, "mailto:contact@abel.com?subject=") || !strings.Contains(qe.Contact, "250%2C000") {
		t.Fatalf("unexpected contact link: %q", qe.Contact)
	}

	started, _ := sink.event(output.EventAuditStarted)
	finished, _ := sink.event(output.EventAuditFinished)
	if started.RunID == "" || started.RunID != finished.RunID {
		t.Fatalf("run id must be set and stable: %q vs %q", started.RunID, finished.RunID)
	}
	if n, err := testutil.GatherAndCount(e.Metrics.Registry(), "aeocheck_quotes_total", "aeocheck_audits_total"); err != nil || n != 2 {
		t.Fatalf("expected one quote and one audit series, got %d (%v)", n, err)
	}
}

func TestEngine_Run_CleanExitsZero(t *testing.T) {
	report := &audit.Report{URL: "https://ok.example", Score: 95, Results: []audit.CheckResult{
		{Title: "Robots.txt", Status: audit.StatusPass},
		{Title: "Unknown Check", Status: audit.StatusFail},
	}}
	e, sink := newTestEngine(&stubSubmitter{report: report})

	if code := e.Run(context.Background(), config.New(), "https://ok.example"); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	qe, _ := sink.event(output.EventQuoteBuilt)
	if qe.Quote == nil || !qe.Quote.Clean || qe.Quote.Total != 100000 {
		t.Fatalf("expected clean quote, got %#v", qe.Quote)
	}
}

func TestEngine_Run_SubmissionFailureIsFatal(t *testing.T) {
	e, sink := newTestEngine(&stubSubmitter{err: &audit.StatusError{StatusCode: 502}})

	if code := e.Run(context.Background(), config.New(), "https://shop.example"); code != 3 {
		t.Fatalf("exit code = %d, want 3", code)
	}
	want := []string{output.EventAuditStarted, output.EventAuditFailed, output.EventAuditFinished}
	if got := sink.eventTypes(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("event order = %v, want %v", got, want)
	}
	fe, _ := sink.event(output.EventAuditFailed)
	if !strings.Contains(fe.Error, "502") {
		t.Fatalf("failure event should carry the error, got %q", fe.Error)
	}
}

func TestEngine_Run_AnalysisFailedIsPartial(t *testing.T) {
	report := &audit.Report{
		URL:     "https://down.example",
		Error:   "navigation timeout",
		Results: []audit.CheckResult{{Title: "Analysis Failed", Status: audit.StatusFail}},
	}
	e, _ := newTestEngine(&stubSubmitter{report: report})
	if code := e.Run(context.Background(), config.New(), "https://down.example"); code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
}

func TestEngine_Run_ExportUnavailableIsPartial(t *testing.T) {
	e, sink := newTestEngine(&stubSubmitter{report: failingReport()})
	e.Metrics = metrics.New()
	cfg := config.New()
	cfg.Export.PDF = true
	cfg.Export.Dir = t.TempDir()

	if code := e.Run(context.Background(), cfg, "https://shop.example"); code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
	fe, ok := sink.event(output.EventExportFailed)
	if !ok || !strings.Contains(fe.Error, "unavailable") {
		t.Fatalf("expected export.failed with unavailable error, got %#v", fe)
	}
	entries, _ := os.ReadDir(cfg.Export.Dir)
	if len(entries) != 0 {
		t.Fatalf("no file should be written, found %d", len(entries))
	}
}

type pdfRenderer struct{}

func (pdfRenderer) Available() bool { return true }
func (pdfRenderer) Render(context.Context, []byte) ([]byte, error) {
	return []byte("%PDF-1.7"), nil
}

type failingStore struct{}

func (failingStore) Put(context.Context, string, io.Reader, string) error {
	return errors.New("access denied")
}

func TestEngine_Run_ExportAndArchive(t *testing.T) {
	e, sink := newTestEngine(&stubSubmitter{report: failingReport()})
	e.Exporter = export.NewExporter(pdfRenderer{})
	cfg := config.New()
	cfg.Export.PDF = true
	cfg.Export.Dir = t.TempDir()

	store := &recordingStore{}
	e.Archiver = archive.NewArchiver(store, "reports")

	if code := e.Run(context.Background(), cfg, "https://shop.example"); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	ee, ok := sink.event(output.EventExportFinished)
	if !ok || filepath.Dir(ee.Path) != cfg.Export.Dir || !strings.HasPrefix(filepath.Base(ee.Path), "shop.example_") {
		t.Fatalf("unexpected export event: %#v", ee)
	}
	if _, err := os.Stat(ee.Path); err != nil {
		t.Fatalf("exported file missing: %v", err)
	}
	ae, ok := sink.event(output.EventArchiveFinished)
	if !ok || !strings.HasPrefix(ae.Path, "reports/") || store.key != ae.Path {
		t.Fatalf("unexpected archive event %#v (stored %q)", ae, store.key)
	}
}

func TestEngine_Run_ArchiveFailureIsPartial(t *testing.T) {
	e, sink := newTestEngine(&stubSubmitter{report: failingReport()})
	e.Exporter = export.NewExporter(pdfRenderer{})
	e.Archiver = archive.NewArchiver(failingStore{}, "reports")
	cfg := config.New()
	cfg.Export.PDF = true
	cfg.Export.Dir = t.TempDir()

	if code := e.Run(context.Background(), cfg, "https://shop.example"); code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
	if _, ok := sink.event(output.EventArchiveFailed); !ok {
		t.Fatalf("expected archive.failed event")
	}
}

type recordingStore struct{ key string }

func (r *recordingStore) Put(_ context.Context, key string, body io.Reader, _ string) error {
	r.key = key
	_, err := io.Copy(io.Discard, body)
	return err
}

func TestEngine_RunReport_PricesOffline(t *testing.T) {
	sub := &stubSubmitter{}
	e, sink := newTestEngine(sub)

	report := &audit.Report{URL: "https://shop.example", Results: []audit.CheckResult{
		{Title: "Structured Data (JSON-LD)", Status: audit.StatusFail},
		{Title: "Header Hierarchy (H1/H2)", Status: audit.StatusFail},
	}}
	if code := e.RunReport(context.Background(), config.New(), report); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if sub.calls != 0 {
		t.Fatalf("offline pricing must not submit")
	}
	qe, _ := sink.event(output.EventQuoteBuilt)
	if qe.Quote == nil || qe.Quote.Total != 600000 {
		t.Fatalf("expected total 600000, got %#v", qe.Quote)
	}
}

func TestEngine_RunReport_NilReportIsFatal(t *testing.T) {
	e, _ := newTestEngine(&stubSubmitter{})
	if code := e.RunReport(context.Background(), config.New(), nil); code != 3 {
		t.Fatalf("exit code = %d, want 3", code)
	}
}

func TestEngine_Run_SinkSetupFailureIsFatal(t *testing.T) {
	e := NewEngine(&stubSubmitter{report: failingReport()}, catalog.Default())
	cfg := config.New()
	cfg.Output.NoConsole = true
	cfg.Output.Out = filepath.Join(t.TempDir(), "out.xml")

	if code := e.Run(context.Background(), cfg, "https://shop.example"); code != 3 {
		t.Fatalf("exit code = %d, want 3", code)
	}
}

func TestWire_EndToEnd_FileOutput(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != audit.SubmitPath || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"url":"https://www.shop.example","score":40,"results":[
			{"title":"Meta Description","status":"Fail","icon":"📝","desc":"missing"},
			{"title":"Robots.txt","status":"Pass","icon":"🤖","desc":"ok"}]}`)
	}))
	defer srv.Close()

	dir := t.TempDir()
	cfg := config.New()
	cfg.Audit.BaseURL = srv.URL
	cfg.Output.NoConsole = true
	cfg.Output.Out = filepath.Join(dir, "result.json")
	cfg.Output.Report = filepath.Join(dir, "report.md")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	m := metrics.New()
	e, err := Wire(context.Background(), cfg, m)
	if err != nil {
		t.Fatalf("Wire: %v", err)
	}
	if e.Guard == nil || e.Exporter != nil || e.Archiver != nil {
		t.Fatalf("unexpected wiring: guard=%v exporter=%v archiver=%v", e.Guard, e.Exporter, e.Archiver)
	}

	if code := e.Run(context.Background(), cfg, "https://www.shop.example"); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if gotBody["url"] != "https://www.shop.example" {
		t.Fatalf("backend received %v", gotBody)
	}

	b, err := os.ReadFile(cfg.Output.Out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var sum output.Summary
	if err := json.Unmarshal(b, &sum); err != nil {
		t.Fatalf("unmarshal summary: %v", err)
	}
	if sum.Score != 40 || len(sum.Results) != 2 || sum.Quote == nil || sum.Quote.Total != 250000 || sum.ExitCode != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}

	md, err := os.ReadFile(cfg.Output.Report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(md), "AI 매혹 메타 설명 작성") {
		t.Fatalf("report should list the priced service:\n%s", md)
	}
}

func TestWire_InvalidCatalog(t *testing.T) {
	cfg := config.New()
	cfg.Catalog.Path = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := Wire(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected catalog load error")
	}
}

func TestEngine_Price(t *testing.T) {
	e := NewEngine(&stubSubmitter{}, catalog.Default())
	q, link := e.Price(failingReport(), "", "https://shop.example")
	if q.Total != 250000 || !strings.HasPrefix(link, "mailto:contact@abel.com") {
		t.Fatalf("unexpected price: %d %q", q.Total, link)
	}
}

func TestEngine_PriceLabelsOnlyCatalogTitles(t *testing.T) {
	e := NewEngine(&stubSubmitter{}, catalog.Default())
	e.Metrics = metrics.New()

	report := &audit.Report{URL: "https://shop.example"}
	for i := 0; i < 500; i++ {
		report.Results = append(report.Results, audit.CheckResult{Title: fmt.Sprintf("made-up-%d", i), Status: audit.StatusFail})
	}
	report.Results = append(report.Results, audit.CheckResult{Title: "Meta Description", Status: audit.StatusFail})

	e.Price(report, "", report.URL)

	count, err := testutil.GatherAndCount(e.Metrics.Registry(), "aeocheck_failing_checks_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 1 {
		t.Fatalf("failing_checks_total series = %d, want 1 (catalog titles only)", count)
	}
}

type deadlineSubmitter struct {
	hasDeadline bool
}

func (d *deadlineSubmitter) Submit(ctx context.Context, target string) (*audit.Report, error) {
	_, d.hasDeadline = ctx.Deadline()
	return &audit.Report{URL: target, Score: 90}, nil
}

func TestEngine_Run_RuntimeTimeout(t *testing.T) {
	tests := []struct {
		name         string
		timeout      time.Duration
		wantDeadline bool
	}{
		{"default caps the run", 2 * time.Minute, true},
		{"zero means none", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &deadlineSubmitter{}
			e, _ := newTestEngine(sub)
			cfg := config.New()
			cfg.Runtime.Timeout = tt.timeout

			if code := e.Run(context.Background(), cfg, "https://ok.example"); code != 0 {
				t.Fatalf("exit code = %d, want 0", code)
			}
			if sub.hasDeadline != tt.wantDeadline {
				t.Fatalf("submission deadline = %v, want %v", sub.hasDeadline, tt.wantDeadline)
			}
		})
	}
}
