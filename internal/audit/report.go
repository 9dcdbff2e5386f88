package audit

import "strings"

// Status is the outcome of a single check as reported by the audit backend.
// Only "Pass" counts as passing; any other value is treated as a failure.
type Status string

const (
	StatusPass Status = "Pass"
	StatusFail Status = "Fail"
)

// Passed reports whether the status is exactly "Pass".
func (s Status) Passed() bool {
	return s == StatusPass
}

type CheckResult struct {
	Title  string `json:"title"`
	Status Status `json:"status"`
	Icon   string `json:"icon,omitempty"`
	Desc   string `json:"desc,omitempty"`
}

// Failed reports whether the check should be treated as failing.
func (r CheckResult) Failed() bool {
	return !r.Status.Passed()
}

// Report is the audit backend response for a single URL.
type Report struct {
	URL     string        `json:"url"`
	Score   int           `json:"score"`
	Results []CheckResult `json:"results"`
	// Error is set by the backend when the analysis itself failed; the
	// report then carries a score of 0 and a single synthetic result.
	Error string `json:"error,omitempty"`
}

// Failing returns the failing results in their original order.
func (r *Report) Failing() []CheckResult {
	if r == nil {
		return nil
	}
	var out []CheckResult
	for _, res := range r.Results {
		if res.Failed() {
			out = append(out, res)
		}
	}
	return out
}

// Counts returns the number of passing and failing results.
func (r *Report) Counts() (pass, fail int) {
	if r == nil {
		return 0, 0
	}
	for _, res := range r.Results {
		if res.Failed() {
			fail++
		} else {
			pass++
		}
	}
	return pass, fail
}

// AnalysisFailed reports whether the backend could not analyze the URL.
func (r *Report) AnalysisFailed() bool {
	return r != nil && strings.TrimSpace(r.Error) != ""
}

type Band string

const (
	BandGood Band = "good"
	BandFair Band = "fair"
	BandPoor Band = "poor"
)

// ScoreBand buckets a score: >= 80 good, >= 50 fair, otherwise poor.
func ScoreBand(score int) Band {
	switch {
	case score >= 80:
		return BandGood
	case score >= 50:
		return BandFair
	default:
		return BandPoor
	}
}
