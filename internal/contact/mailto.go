package contact

import (
	"fmt"
	"net/url"
	"strings"

	"aeocheck/internal/quote"
)

// DefaultRecipient receives remediation requests.
const DefaultRecipient = "contact@abel.com"

const maintenanceSubject = "AEO 유지관리 문의"

// Subject returns the mail subject for q: a maintenance inquiry in the clean
// state, otherwise the itemized total.
func Subject(q quote.Quote) string {
	if q.Clean {
		return maintenanceSubject
	}
	return fmt.Sprintf("AEO 긴급 수리 견적(총 %s원)", quote.FormatAmount(q.Total))
}

// Body returns the mail body referencing the audited site.
func Body(siteURL string) string {
	return fmt.Sprintf("제 사이트 URL은 %s 입니다.", siteURL)
}

// Mailto builds a pre-filled mailto link. An empty recipient falls back to
// DefaultRecipient.
func Mailto(recipient, siteURL string, q quote.Quote) string {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		recipient = DefaultRecipient
	}

	// mailto wants %20 rather than '+', so encode each value as a path segment
	// and escape the separators PathEscape leaves alone.
	enc := func(s string) string {
		e := url.PathEscape(s)
		e = strings.ReplaceAll(e, "&", "%26")
		e = strings.ReplaceAll(e, "=", "%3D")
		e = strings.ReplaceAll(e, "+", "%2B")
		return e
	}
	return "mailto:" + recipient + "?subject=" + enc(Subject(q)) + "&body=" + enc(Body(siteURL))
}
