package scan

import (
	"encoding/json"
	"time"
)

// OutcomeStatus is the terminal status of one (page, scanner) unit.
type OutcomeStatus string

const (
	OutcomeOK       OutcomeStatus = "OK"
	OutcomeFailed   OutcomeStatus = "FAILED"
	OutcomeTimedOut OutcomeStatus = "TIMED_OUT"
	OutcomeSkipped  OutcomeStatus = "SKIPPED"
)

func (s OutcomeStatus) String() string {
	return string(s)
}

// ScannerOutcome records the result of invoking one scanner against one
// page. Exactly one outcome is produced per unit; it is immutable once
// recorded. Raw is opaque to everything except the driver that produced it
// and the normalizer adapter for the same scanner.
type ScannerOutcome struct {
	PageURL  string          `json:"page_url"`
	Scanner  Scanner         `json:"scanner"`
	Status   OutcomeStatus   `json:"status"`
	Duration time.Duration   `json:"duration"`
	Raw      json.RawMessage `json:"raw,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// OK reports whether the unit completed successfully.
func (o ScannerOutcome) OK() bool {
	return o.Status == OutcomeOK
}

// FailureKind maps a non-OK outcome status to its error taxonomy kind.
func (o ScannerOutcome) FailureKind() FailureKind {
	switch o.Status {
	case OutcomeTimedOut:
		return FailureScannerTimeout
	default:
		return FailureScannerFailed
	}
}

// SummarizeOutcomes tallies outcome statuses per scanner.
func SummarizeOutcomes(outcomes []ScannerOutcome) map[Scanner]ScannerSummary {
	summaries := make(map[Scanner]ScannerSummary)
	for _, outcome := range outcomes {
		summary := summaries[outcome.Scanner]
		switch outcome.Status {
		case OutcomeOK:
			summary.OK++
		case OutcomeTimedOut:
			summary.TimedOut++
		case OutcomeSkipped:
			summary.Skipped++
		default:
			summary.Failed++
		}
		summaries[outcome.Scanner] = summary
	}
	return summaries
}

// ScannerSummary counts unit results for one scanner across all pages.
type ScannerSummary struct {
	OK       int `json:"ok"`
	Failed   int `json:"failed"`
	TimedOut int `json:"timed_out"`
	Skipped  int `json:"skipped,omitempty"`
}

// Total returns the number of units the scanner participated in.
func (s ScannerSummary) Total() int {
	return s.OK + s.Failed + s.TimedOut + s.Skipped
}
