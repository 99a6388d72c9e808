package scan

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pyneda/kansa/lib"
	"github.com/pyneda/kansa/pkg/a11y"
)

// AggregatedResult is the single normalized output of a completed scan:
// deduplicated findings, per-scanner outcome summary, totals and the
// weighted compliance score.
type AggregatedResult struct {
	ScanID           string                     `json:"scan_id"`
	GeneratedAt      time.Time                  `json:"generated_at"`
	Findings         []a11y.Finding             `json:"findings"`
	ScannerSummaries map[Scanner]ScannerSummary `json:"scanner_summaries"`
	SeverityTotals   map[a11y.Severity]int      `json:"severity_totals"`
	PrincipleTotals  map[a11y.Principle]int     `json:"principle_totals"`
	Score            float64                    `json:"score"`
	ComplianceLevel  a11y.ComplianceLevel       `json:"compliance_level"`
	Confidence       int                        `json:"confidence"`
	TotalOutcomes    int                        `json:"total_outcomes"`
	SuccessOutcomes  int                        `json:"successful_outcomes"`
	PagesScanned     int                        `json:"pages_scanned"`
	ExecutiveSummary string                     `json:"executive_summary,omitempty"`
}

// CountBySeverity returns summed occurrence counts for one severity.
func (r AggregatedResult) CountBySeverity(severity a11y.Severity) int {
	return r.SeverityTotals[severity]
}

// ErrorsFound counts occurrences at CRITICAL and HIGH severity, the numbers
// surfaced as "errors" on the status endpoint.
func (r AggregatedResult) ErrorsFound() int {
	return r.SeverityTotals[a11y.SeverityCritical] + r.SeverityTotals[a11y.SeverityHigh]
}

// WarningsFound counts occurrences at MEDIUM and LOW severity.
func (r AggregatedResult) WarningsFound() int {
	return r.SeverityTotals[a11y.SeverityMedium] + r.SeverityTotals[a11y.SeverityLow]
}

func (r AggregatedResult) String() string {
	return fmt.Sprintf("%s: score=%.1f %s, %d findings over %d pages (confidence %d%%)",
		r.ScanID, r.Score, r.ComplianceLevel, len(r.Findings), r.PagesScanned, r.Confidence)
}

func (r AggregatedResult) Pretty() string {
	var sb strings.Builder
	sb.WriteString(lib.Colorize("Scan: ", lib.Blue) + r.ScanID + "\n")
	sb.WriteString(lib.Colorize("Score: ", lib.Blue) + fmt.Sprintf("%.1f", r.Score) + "\n")
	sb.WriteString(lib.Colorize("Compliance: ", lib.Blue) + r.ComplianceLevel.String() + "\n")
	sb.WriteString(lib.Colorize("Confidence: ", lib.Blue) + fmt.Sprintf("%d%%", r.Confidence) + "\n")
	sb.WriteString(lib.Colorize("Findings: ", lib.Blue) + fmt.Sprintf("%d (%d errors, %d warnings)", len(r.Findings), r.ErrorsFound(), r.WarningsFound()) + "\n")
	sb.WriteString(lib.Colorize("Pages scanned: ", lib.Blue) + fmt.Sprintf("%d", r.PagesScanned) + "\n")
	sb.WriteString(lib.Colorize("Scanner units: ", lib.Blue) + fmt.Sprintf("%d/%d succeeded", r.SuccessOutcomes, r.TotalOutcomes))
	scanners := make([]Scanner, 0, len(r.ScannerSummaries))
	for scanner := range r.ScannerSummaries {
		scanners = append(scanners, scanner)
	}
	sort.Slice(scanners, func(i, j int) bool { return scanners[i] < scanners[j] })
	for _, scanner := range scanners {
		summary := r.ScannerSummaries[scanner]
		sb.WriteString("\n- " + lib.Colorize(scanner.String()+": ", lib.Cyan))
		sb.WriteString(fmt.Sprintf("%d ok, %d failed, %d timed out", summary.OK, summary.Failed, summary.TimedOut))
		if summary.Skipped > 0 {
			sb.WriteString(fmt.Sprintf(", %d skipped", summary.Skipped))
		}
	}
	sb.WriteString("\n")
	if r.ExecutiveSummary != "" {
		sb.WriteString(lib.Colorize("Summary: ", lib.Yellow) + r.ExecutiveSummary + "\n")
	}
	return sb.String()
}

func (r AggregatedResult) TableHeaders() []string {
	return []string{"Scan", "Score", "Compliance", "Confidence", "Findings", "Errors", "Warnings", "Pages"}
}

func (r AggregatedResult) TableRow() []string {
	return []string{
		lib.TruncateString(r.ScanID, 12),
		fmt.Sprintf("%.1f", r.Score),
		r.ComplianceLevel.String(),
		fmt.Sprintf("%d%%", r.Confidence),
		fmt.Sprintf("%d", len(r.Findings)),
		fmt.Sprintf("%d", r.ErrorsFound()),
		fmt.Sprintf("%d", r.WarningsFound()),
		fmt.Sprintf("%d", r.PagesScanned),
	}
}

// ResultVersion is one entry in a scan's result history. The initial
// aggregation is version 1; collaborators append rewrites.
type ResultVersion struct {
	Version   int              `json:"version"`
	CreatedAt time.Time        `json:"created_at"`
	Label     string           `json:"label,omitempty"`
	Result    AggregatedResult `json:"result"`
}

// ProcessingStats counts the normalizer's observability events: how many
// pre-findings were parsed, how often the rule table had no entry, and what
// was missing from raw tool output. Missing values never raise; they only
// increment these counters.
type ProcessingStats struct {
	PreFindings      int `json:"pre_findings"`
	RuleFallbacks    int `json:"rule_fallbacks"`
	DroppedNoWCAG    int `json:"dropped_no_wcag"`
	MissingSelectors int `json:"missing_selectors"`
	MissingMessages  int `json:"missing_messages"`
	MalformedOutputs int `json:"malformed_outputs"`
	Deduplicated     int `json:"deduplicated"`
}

// Add accumulates counters from another stats value.
func (s *ProcessingStats) Add(other ProcessingStats) {
	s.PreFindings += other.PreFindings
	s.RuleFallbacks += other.RuleFallbacks
	s.DroppedNoWCAG += other.DroppedNoWCAG
	s.MissingSelectors += other.MissingSelectors
	s.MissingMessages += other.MissingMessages
	s.MalformedOutputs += other.MalformedOutputs
	s.Deduplicated += other.Deduplicated
}
