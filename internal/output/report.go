package output

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// ReportSink renders a Markdown report of the run on Close.
type ReportSink struct {
	path         string
	file         *os.File
	mu           sync.Mutex
	agg          *aggregator
	haveExitCode bool
}

func NewReportSink(path string) (*ReportSink, error) {
	if path == "" {
		return nil, fmt.Errorf("report path required")
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}

	return &ReportSink{
		path: path,
		file: f,
		agg:  newAggregator(),
	}, nil
}

func (s *ReportSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := v.(Event); ok && e.Type == EventAuditFinished {
		s.haveExitCode = true
	}
	s.agg.add(v)
	return nil
}

func (s *ReportSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := s.agg.summary()
	var b strings.Builder
	b.WriteString("# AEO Audit Report\n\n")

	// --- Score ---
	if sum.URL != "" {
		b.WriteString(fmt.Sprintf("**Site:** %s\n\n", sum.URL))
	}
	b.WriteString(fmt.Sprintf("**AEO score:** %d / 100 (%s)\n\n", sum.Score, bandLabel(sum.Band)))
	if sum.Error != "" {
		b.WriteString(fmt.Sprintf("> Analysis failed: %s\n\n", escapeCell(sum.Error)))
	}

	// --- Checklist ---
	pass, fail := countStatuses(sum.Results)
	b.WriteString("## Checklist\n\n")
	if len(sum.Results) == 0 {
		b.WriteString("No checks were reported.\n\n")
	} else {
		b.WriteString(fmt.Sprintf("%d passing, %d failing.\n\n", pass, fail))
		b.WriteString("| Status | Check | Details |\n")
		b.WriteString("| --- | --- | --- |\n")
		for _, r := range sum.Results {
			b.WriteString(fmt.Sprintf("| %s | %s | %s |\n", statusCell(r), escapeCell(r.Title), escapeCell(r.Desc)))
		}
		b.WriteString("\n")
	}

	// --- Quote ---
	if q := sum.Quote; q != nil {
		writeQuoteSection(&b, *q)
	}

	if sum.Contact != "" {
		b.WriteString(fmt.Sprintf("[Request a consultation](%s)\n\n", sum.Contact))
	}

	// --- Run ---
	if len(sum.Failures) > 0 || sum.PDF != "" || sum.Archive != "" || s.haveExitCode {
		b.WriteString("## Run\n\n")
		if sum.PDF != "" {
			b.WriteString(fmt.Sprintf("- PDF: `%s`\n", sum.PDF))
		}
		if sum.Archive != "" {
			b.WriteString(fmt.Sprintf("- Archived to: `%s`\n", sum.Archive))
		}
		for _, f := range sum.Failures {
			b.WriteString(fmt.Sprintf("- Failed: %s\n", f))
		}
		if s.haveExitCode {
			b.WriteString(fmt.Sprintf("- Exit code: %d (%s)\n", sum.ExitCode, exitCodeLabel(sum.ExitCode)))
		}
	}

	if _, err := s.file.WriteString(b.String()); err != nil {
		_ = s.file.Close()
		return err
	}
	return s.file.Close()
}
