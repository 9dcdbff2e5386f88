package export

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"aeocheck/internal/audit"
	"aeocheck/internal/quote"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

var reportTemplate = template.Must(
	template.New("report.html.tmpl").
		Funcs(template.FuncMap{
			"krw":        quote.FormatKRW,
			"bandColor":  bandColor,
			"statusIcon": statusIcon,
		}).
		ParseFS(templateFS, "templates/report.html.tmpl"),
)

// View is everything the report page shows.
type View struct {
	Report      *audit.Report
	Quote       quote.Quote
	Contact     string
	GeneratedAt time.Time
}

// NewView builds a view for r. The quote is expected to come from
// quote.ForReport on the same report.
func NewView(r *audit.Report, q quote.Quote, contact string, now time.Time) View {
	return View{Report: r, Quote: q, Contact: contact, GeneratedAt: now}
}

// pageData is the template input; it flattens View so the template stays
// free of nil checks.
type pageData struct {
	URL               string
	Score             int
	Band              audit.Band
	Error             string
	Results           []audit.CheckResult
	Quote             quote.Quote
	ConsultationLabel string
	MaintenanceLabel  string
	MaintenanceFee    int64
	Contact           template.URL
	GeneratedAt       string
}

// RenderHTML writes the standalone report page for v to w.
func RenderHTML(w io.Writer, v View) error {
	data := pageData{
		Quote:             v.Quote,
		ConsultationLabel: quote.ConsultationLabel,
		MaintenanceLabel:  quote.MaintenanceLabel,
		MaintenanceFee:    v.Quote.DisplayFee(),
		// mailto links are built by contact.Mailto and already escaped.
		Contact:     template.URL(v.Contact),
		GeneratedAt: v.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"),
	}
	if r := v.Report; r != nil {
		data.URL = r.URL
		data.Score = r.Score
		data.Error = r.Error
		data.Results = r.Results
	}
	data.Band = audit.ScoreBand(data.Score)

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("render report html: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func bandColor(b audit.Band) string {
	switch b {
	case audit.BandGood:
		return "#4CD964"
	case audit.BandFair:
		return "#FFCC00"
	default:
		return "#FF3B30"
	}
}

func statusIcon(r audit.CheckResult) string {
	if r.Icon != "" {
		return r.Icon
	}
	if r.Failed() {
		return "❌"
	}
	return "✅"
}
