package output

import (
	"aeocheck/internal/audit"
	"aeocheck/internal/quote"
)

// Summary is the aggregate JSON document for one audit run.
type Summary struct {
	RunID    string              `json:"run_id,omitempty"`
	URL      string              `json:"url"`
	Score    int                 `json:"score"`
	Band     audit.Band          `json:"band"`
	Error    string              `json:"error,omitempty"`
	Results  []audit.CheckResult `json:"results"`
	Quote    *quote.Quote        `json:"quote,omitempty"`
	Contact  string              `json:"contact,omitempty"`
	PDF      string              `json:"pdf,omitempty"`
	Archive  string              `json:"archive,omitempty"`
	Failures []string            `json:"failures,omitempty"`
	ExitCode int                 `json:"exit_code"`
}

// aggregator folds sink writes into a Summary. Callers hold the sink lock.
type aggregator struct {
	s Summary
}

func newAggregator() *aggregator {
	return &aggregator{s: Summary{Results: []audit.CheckResult{}}}
}

func (a *aggregator) add(v any) {
	switch t := v.(type) {
	case audit.CheckResult:
		a.s.Results = append(a.s.Results, t)
	case Event:
		if t.RunID != "" {
			a.s.RunID = t.RunID
		}
		switch t.Type {
		case EventAuditStarted:
			a.s.URL = t.URL
		case EventAuditReceived:
			if t.URL != "" {
				a.s.URL = t.URL
			}
			if t.Score != nil {
				a.s.Score = *t.Score
			}
			a.s.Band = t.Band
			a.s.Error = t.Error
		case EventAuditFailed:
			a.s.Failures = append(a.s.Failures, t.Error)
		case EventQuoteBuilt:
			a.s.Quote = t.Quote
			a.s.Contact = t.Contact
		case EventExportFinished:
			a.s.PDF = t.Path
		case EventArchiveFinished:
			a.s.Archive = t.Path
		case EventExportFailed, EventArchiveFailed:
			a.s.Failures = append(a.s.Failures, t.Error)
		case EventAuditFinished:
			a.s.ExitCode = t.ExitCode
		}
	}
}

func (a *aggregator) summary() Summary {
	return a.s
}
