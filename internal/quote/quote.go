// Package quote prices failing audit checks into a remediation quote.
//
// Build is a pure function of its inputs: it performs no I/O and keeps no
// state between calls, so callers own the report and catalog they pass in.
package quote

import (
	"aeocheck/internal/audit"
	"aeocheck/internal/catalog"
)

const (
	// ConsultationFee is the fixed diagnosis fee added to every itemized quote.
	ConsultationFee int64 = 100000

	// MaintenanceFee is the monthly maintenance offer shown when nothing
	// needs fixing.
	MaintenanceFee int64 = 100000
)

// Display labels for the fixed fees.
const (
	ConsultationLabel = "기본 정밀 진단비"
	MaintenanceLabel  = "AEO 유지관리(월)"
)

// LineItem is a priced remediation service for one failing check.
type LineItem struct {
	SourceTitle string `json:"source_title"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Description string `json:"description,omitempty"`
}

type Quote struct {
	LineItems       []LineItem `json:"line_items"`
	ConsultationFee int64      `json:"consultation_fee"`
	RepairTotal     int64      `json:"repair_total"`
	Total           int64      `json:"total"`
	// Clean is true when no failing check maps to a paid service. Callers
	// render the maintenance offer instead of the itemized quote.
	Clean bool `json:"clean"`
}

// Build maps failing results to catalog services.
//
// Results whose status is not Pass are looked up by title, in input order.
// Titles missing from the catalog are dropped. Duplicate titles produce
// duplicate line items.
func Build(results []audit.CheckResult, cat catalog.Catalog) Quote {
	items := make([]LineItem, 0, len(results))
	var repair int64
	for _, r := range results {
		if !r.Failed() {
			continue
		}
		e, ok := cat.Lookup(r.Title)
		if !ok {
			continue
		}
		items = append(items, LineItem{
			SourceTitle: r.Title,
			Name:        e.Name,
			Price:       e.Price,
			Description: e.Description,
		})
		repair += e.Price
	}

	return Quote{
		LineItems:       items,
		ConsultationFee: ConsultationFee,
		RepairTotal:     repair,
		Total:           repair + ConsultationFee,
		Clean:           len(items) == 0,
	}
}

// ForReport is Build over a report's results. A nil report yields the clean
// quote.
func ForReport(r *audit.Report, cat catalog.Catalog) Quote {
	if r == nil {
		return Build(nil, cat)
	}
	return Build(r.Results, cat)
}

// DisplayFee is the amount shown to the user: the maintenance fee in the
// clean state, the total otherwise.
func (q Quote) DisplayFee() int64 {
	if q.Clean {
		return MaintenanceFee
	}
	return q.Total
}
