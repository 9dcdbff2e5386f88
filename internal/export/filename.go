package export

import (
	"net/url"
	"strings"
	"time"
)

const fallbackHost = "website"

// Filename derives the PDF name for a report: the audited hostname without a
// leading "www." and the UTC date, e.g. "shop.example_2026-10-17.pdf".
// Unparseable or host-less URLs use "website".
func Filename(reportURL string, now time.Time) string {
	host := fallbackHost
	if u, err := url.Parse(strings.TrimSpace(reportURL)); err == nil {
		if h := strings.TrimPrefix(u.Hostname(), "www."); h != "" {
			host = h
		}
	}
	return host + "_" + now.UTC().Format("2006-01-02") + ".pdf"
}
