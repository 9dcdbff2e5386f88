package output

import (
	"aeocheck/internal/audit"
	"aeocheck/internal/quote"
)

// Event types, in the order a run emits them.
const (
	EventAuditStarted    = "audit.started"
	EventAuditReceived   = "audit.received"
	EventAuditFailed     = "audit.failed"
	EventCheckResult     = "check.result"
	EventQuoteBuilt      = "quote.built"
	EventExportFinished  = "export.finished"
	EventExportFailed    = "export.failed"
	EventArchiveFinished = "archive.finished"
	EventArchiveFailed   = "archive.failed"
	EventAuditFinished   = "audit.finished"
)

// Event is a lifecycle record for NDJSON streaming output.
//
// Check results are written to sinks as audit.CheckResult values and become
// "check.result" events in NDJSON mode, with the result fields inlined.
// JSON mode aggregates everything into a single Summary document.
type Event struct {
	Type  string     `json:"type"`
	RunID string     `json:"run_id,omitempty"`
	URL   string     `json:"url,omitempty"`
	Score *int       `json:"score,omitempty"`
	Band  audit.Band `json:"band,omitempty"`
	*audit.CheckResult
	Quote    *quote.Quote `json:"quote,omitempty"`
	Contact  string       `json:"contact,omitempty"`
	Path     string       `json:"path,omitempty"`
	Error    string       `json:"error,omitempty"`
	ExitCode int          `json:"exit_code,omitempty"`
}

func eventFromCheck(r audit.CheckResult) Event {
	return Event{Type: EventCheckResult, CheckResult: &r}
}

// ReceivedEvent describes a report that came back from the backend.
func ReceivedEvent(r *audit.Report) Event {
	score := r.Score
	return Event{
		Type:  EventAuditReceived,
		URL:   r.URL,
		Score: &score,
		Band:  audit.ScoreBand(r.Score),
		Error: r.Error,
	}
}

// QuoteEvent carries the computed quote and the contact link.
func QuoteEvent(q quote.Quote, contact string) Event {
	return Event{Type: EventQuoteBuilt, Quote: &q, Contact: contact}
}
