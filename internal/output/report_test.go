package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"aeocheck/internal/audit"
	"aeocheck/internal/quote"
)

func writeReport(t *testing.T, writes ...any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aeo-report.md")

	s, err := NewReportSink(path)
	if err != nil {
		t.Fatalf("NewReportSink failed: %v", err)
	}
	for _, w := range writes {
		if err := s.Write(w); err != nil {
			t.Fatalf("Write(%T) failed: %v", w, err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	return string(b)
}

func TestMarkdownReport_Itemized(t *testing.T) {
	q := quote.Quote{
		LineItems: []quote.LineItem{
			{SourceTitle: "Schema Markup", Name: "JSON-LD 구조화 데이터 구축", Price: 150000, Description: "검색 엔진이 이해하는 데이터"},
		},
		ConsultationFee: 100000,
		RepairTotal:     150000,
		Total:           250000,
	}
	out := writeReport(t,
		Event{Type: EventAuditStarted, URL: "https://shop.example"},
		ReceivedEvent(&audit.Report{URL: "https://shop.example", Score: 55}),
		audit.CheckResult{Title: "Robots.txt", Status: audit.StatusPass},
		audit.CheckResult{Title: "Schema Markup", Status: audit.StatusFail, Desc: "no | json-ld"},
		QuoteEvent(q, "mailto:contact@abel.com?subject=x"),
		Event{Type: EventAuditFinished, ExitCode: 1},
	)

	required := []string{
		"# AEO Audit Report",
		"**Site:** https://shop.example",
		"**AEO score:** 55 / 100 (needs work)",
		"1 passing, 1 failing.",
		"| ✅ Pass | Robots.txt |",
		`| ❌ Fail | Schema Markup | no \| json-ld |`,
		"## Remediation Quote",
		"| JSON-LD 구조화 데이터 구축 | Schema Markup | ₩150,000 |",
		"| 기본 정밀 진단비 | | ₩100,000 |",
		"| **Total** | | **₩250,000** |",
		"### Why this matters",
		"[Request a consultation](mailto:contact@abel.com?subject=x)",
		"- Exit code: 1 (remediation quoted)",
	}
	for _, r := range required {
		if !strings.Contains(out, r) {
			t.Errorf("report missing %q\n---\n%s", r, out)
		}
	}
	if strings.Contains(out, "## Maintenance") {
		t.Errorf("itemized report must not show the maintenance offer")
	}
}

func TestMarkdownReport_CleanShowsMaintenance(t *testing.T) {
	out := writeReport(t,
		ReceivedEvent(&audit.Report{URL: "https://ok.example", Score: 92}),
		audit.CheckResult{Title: "Robots.txt", Status: audit.StatusPass},
		QuoteEvent(quote.Quote{ConsultationFee: 100000, Total: 100000, Clean: true}, ""),
	)

	for _, r := range []string{"(good)", "## Maintenance", "**AEO 유지관리(월):** ₩100,000"} {
		if !strings.Contains(out, r) {
			t.Errorf("report missing %q\n---\n%s", r, out)
		}
	}
	if strings.Contains(out, "## Remediation Quote") || strings.Contains(out, "## Run") {
		t.Errorf("clean report without run events should have no quote table or run section\n%s", out)
	}
}

func TestMarkdownReport_AnalysisFailedAndRunFailures(t *testing.T) {
	out := writeReport(t,
		ReceivedEvent(&audit.Report{URL: "https://down.example", Error: "navigation timeout"}),
		audit.CheckResult{Title: "Analysis Failed", Status: audit.StatusFail},
		Event{Type: EventExportFailed, Error: "pdf export unavailable"},
		Event{Type: EventAuditFinished, ExitCode: 2},
	)

	for _, r := range []string{
		"> Analysis failed: navigation timeout",
		"(poor)",
		"- Failed: pdf export unavailable",
		"- Exit code: 2 (partial)",
	} {
		if !strings.Contains(out, r) {
			t.Errorf("report missing %q\n---\n%s", r, out)
		}
	}
}

func TestMarkdownReport_NoChecks(t *testing.T) {
	out := writeReport(t)
	if !strings.Contains(out, "No checks were reported.") {
		t.Errorf("expected empty checklist note\n%s", out)
	}
}

func TestNewReportSink_RequiresPath(t *testing.T) {
	if _, err := NewReportSink(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
