package output

import (
	"fmt"
	"strings"

	"aeocheck/internal/audit"
	"aeocheck/internal/quote"
)

func bandLabel(b audit.Band) string {
	switch b {
	case audit.BandGood:
		return "good"
	case audit.BandFair:
		return "needs work"
	case audit.BandPoor:
		return "poor"
	default:
		return "unknown"
	}
}

func statusCell(r audit.CheckResult) string {
	if r.Failed() {
		return "❌ " + string(r.Status)
	}
	return "✅ " + string(r.Status)
}

func countStatuses(results []audit.CheckResult) (pass, fail int) {
	for _, r := range results {
		if r.Failed() {
			fail++
		} else {
			pass++
		}
	}
	return pass, fail
}

// escapeCell keeps free text from breaking a Markdown table row.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

func writeQuoteSection(b *strings.Builder, q quote.Quote) {
	if q.Clean {
		b.WriteString("## Maintenance\n\n")
		b.WriteString("No urgent repairs are needed. Keep the score where it is with monthly maintenance.\n\n")
		b.WriteString(fmt.Sprintf("**%s:** %s\n\n", quote.MaintenanceLabel, quote.FormatKRW(q.DisplayFee())))
		return
	}

	b.WriteString("## Remediation Quote\n\n")
	b.WriteString("| Service | Fixes | Price |\n")
	b.WriteString("| --- | --- | ---: |\n")
	for _, li := range q.LineItems {
		b.WriteString(fmt.Sprintf("| %s | %s | %s |\n", escapeCell(li.Name), escapeCell(li.SourceTitle), quote.FormatKRW(li.Price)))
	}
	b.WriteString(fmt.Sprintf("| %s | | %s |\n", quote.ConsultationLabel, quote.FormatKRW(q.ConsultationFee)))
	b.WriteString(fmt.Sprintf("| **Total** | | **%s** |\n\n", quote.FormatKRW(q.Total)))

	var notes []quote.LineItem
	for _, li := range q.LineItems {
		if li.Description != "" {
			notes = append(notes, li)
		}
	}
	if len(notes) > 0 {
		b.WriteString("### Why this matters\n\n")
		for _, li := range notes {
			b.WriteString(fmt.Sprintf("- **%s**: %s\n", li.Name, li.Description))
		}
		b.WriteString("\n")
	}
}

func exitCodeLabel(code int) string {
	switch code {
	case 0:
		return "clean"
	case 1:
		return "remediation quoted"
	case 2:
		return "partial"
	case 3:
		return "fatal"
	default:
		return "unknown"
	}
}
