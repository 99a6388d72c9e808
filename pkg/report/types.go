package report

import (
	"github.com/pyneda/kansa/pkg/a11y"
)

// GroupedFindings holds every finding for one rule, ready for rendering.
type GroupedFindings struct {
	RuleCode    string         `json:"rule_code"`
	Severity    a11y.Severity  `json:"severity"`
	Principle   a11y.Principle `json:"principle"`
	WCAG        []string       `json:"wcag,omitempty"`
	Description string         `json:"description"`
	Remediation string         `json:"remediation,omitempty"`
	Count       int            `json:"count"`
	Occurrences int            `json:"occurrences"`
	Findings    []a11y.Finding `json:"findings"`
}

// Summary contains the dashboard numbers shown at the top of a report.
type Summary struct {
	Score           float64                `json:"score"`
	ComplianceLevel string                 `json:"compliance_level"`
	Confidence      int                    `json:"confidence"`
	TotalFindings   int                    `json:"total_findings"`
	CriticalCount   int                    `json:"critical_count"`
	HighCount       int                    `json:"high_count"`
	MediumCount     int                    `json:"medium_count"`
	LowCount        int                    `json:"low_count"`
	PagesScanned    int                    `json:"pages_scanned"`
	AffectedPages   int                    `json:"affected_pages"`
	UniqueRules     int                    `json:"unique_rules"`
	TopRules        []TopRule              `json:"top_rules"`
	SeverityCounts  map[a11y.Severity]int  `json:"severity_counts"`
	PrincipleCounts map[a11y.Principle]int `json:"principle_counts"`
}

// TopRule is one entry of the most-violated-rules list.
type TopRule struct {
	RuleCode    string `json:"rule_code"`
	Description string `json:"description"`
	Count       int    `json:"count"`
}

// HTMLReportData is the root object handed to the HTML template.
type HTMLReportData struct {
	Title           string             `json:"title"`
	ScanID          string             `json:"scan_id"`
	Summary         Summary            `json:"summary"`
	GroupedFindings []*GroupedFindings `json:"grouped_findings"`
	ScannerNames    []string           `json:"scanner_names"`
	GeneratedAt     string             `json:"generated_at"`
}
