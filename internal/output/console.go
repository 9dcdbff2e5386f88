package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"aeocheck/internal/audit"
	"aeocheck/internal/quote"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// Display widths of the text quote columns.
const (
	nameColumn   = 40
	amountColumn = 14
)

type ConsoleSink struct {
	writer io.Writer
	format string // "text", "json", "ndjson"
	mu     sync.Mutex
	agg    *aggregator // For JSON summary output

	pass, fail, bold *color.Color
	bands            map[audit.Band]*color.Color
}

func NewConsoleSink(w io.Writer, format string, noColor bool) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	if format == "" {
		format = "text"
	}

	s := &ConsoleSink{
		writer: w,
		format: format,
		agg:    newAggregator(),
		pass:   color.New(color.FgGreen),
		fail:   color.New(color.FgRed),
		bold:   color.New(color.Bold),
		bands: map[audit.Band]*color.Color{
			audit.BandGood: color.New(color.FgGreen, color.Bold),
			audit.BandFair: color.New(color.FgYellow, color.Bold),
			audit.BandPoor: color.New(color.FgRed, color.Bold),
		},
	}
	if noColor {
		s.pass.DisableColor()
		s.fail.DisableColor()
		s.bold.DisableColor()
		for _, c := range s.bands {
			c.DisableColor()
		}
	}
	return s
}

func (s *ConsoleSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(v)
}

func (s *ConsoleSink) writeLocked(v any) error {
	switch s.format {
	case "json":
		s.agg.add(v)
		return nil
	case "ndjson":
		return encodeEvent(s.writer, v)
	case "text":
		if err := s.writeText(v); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	default:
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
}

func (s *ConsoleSink) writeText(v any) error {
	w := s.writer
	switch t := v.(type) {
	case audit.CheckResult:
		tag := s.pass.Sprint("[PASS]")
		if t.Failed() {
			tag = s.fail.Sprint("[FAIL]")
		}
		line := tag + " " + t.Title
		if t.Desc != "" {
			line += " - " + t.Desc
		}
		_, err := fmt.Fprintln(w, line)
		return err
	case Event:
		switch t.Type {
		case EventAuditReceived:
			score := 0
			if t.Score != nil {
				score = *t.Score
			}
			c := s.bands[t.Band]
			if c == nil {
				c = s.bold
			}
			if _, err := fmt.Fprintf(w, "%s  %s\n", s.bold.Sprint(t.URL), c.Sprintf("AEO score %d (%s)", score, t.Band)); err != nil {
				return err
			}
			if t.Error != "" {
				_, err := fmt.Fprintf(w, "%s %s\n", s.fail.Sprint("analysis failed:"), t.Error)
				return err
			}
		case EventAuditFailed:
			_, err := fmt.Fprintf(w, "%s %s\n", s.fail.Sprint("[ERROR]"), t.Error)
			return err
		case EventQuoteBuilt:
			if t.Quote == nil {
				return nil
			}
			return s.writeQuote(*t.Quote, t.Contact)
		case EventExportFinished:
			_, err := fmt.Fprintf(w, "PDF written: %s\n", t.Path)
			return err
		case EventExportFailed:
			_, err := fmt.Fprintf(w, "%s %s\n", s.fail.Sprint("PDF export failed:"), t.Error)
			return err
		case EventArchiveFinished:
			_, err := fmt.Fprintf(w, "Archived: %s\n", t.Path)
			return err
		case EventArchiveFailed:
			_, err := fmt.Fprintf(w, "%s %s\n", s.fail.Sprint("archive failed:"), t.Error)
			return err
		}
	}
	return nil
}

func (s *ConsoleSink) writeQuote(q quote.Quote, contact string) error {
	w := s.writer
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	if q.Clean {
		if _, err := fmt.Fprintf(w, "%s\n", s.pass.Sprint("No urgent repairs needed.")); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", quote.MaintenanceLabel, s.bold.Sprint(quote.FormatKRW(q.DisplayFee()))); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintln(w, s.bold.Sprint("Remediation quote")); err != nil {
			return err
		}
		for _, li := range q.LineItems {
			if err := s.writeQuoteRow(li.Name, quote.FormatKRW(li.Price), nil); err != nil {
				return err
			}
		}
		if err := s.writeQuoteRow(quote.ConsultationLabel, quote.FormatKRW(q.ConsultationFee), nil); err != nil {
			return err
		}
		if err := s.writeQuoteRow("Total", quote.FormatKRW(q.Total), s.bold); err != nil {
			return err
		}
	}
	if contact != "" {
		if _, err := fmt.Fprintf(w, "Contact: %s\n", contact); err != nil {
			return err
		}
	}
	return nil
}

// writeQuoteRow pads by terminal cell width; Hangul names take two cells
// per rune.
func (s *ConsoleSink) writeQuoteRow(name, amount string, c *color.Color) error {
	name = runewidth.FillRight(runewidth.Truncate(name, nameColumn, "…"), nameColumn)
	amount = runewidth.FillLeft(amount, amountColumn)
	if c != nil {
		amount = c.Sprint(amount)
	}
	_, err := fmt.Fprintf(s.writer, "  %s %s\n", name, amount)
	return err
}

func (s *ConsoleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "json" {
		return encodeSummary(s.writer, s.agg.summary())
	}
	if s.format != "text" && s.format != "ndjson" {
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
	return nil
}

// encodeEvent writes v as one NDJSON line. Values other than events and
// check results are ignored.
func encodeEvent(w io.Writer, v any) error {
	var e Event
	switch t := v.(type) {
	case Event:
		e = t
	case audit.CheckResult:
		e = eventFromCheck(t)
	default:
		return nil
	}
	if err := json.NewEncoder(w).Encode(e); err != nil {
		return err
	}
	return flushIfPossible(w)
}

func encodeSummary(w io.Writer, s Summary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s); err != nil {
		return err
	}
	return flushIfPossible(w)
}
