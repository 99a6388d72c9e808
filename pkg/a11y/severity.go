package a11y

import "strings"

// Severity classifies how badly a finding impacts users. Values are fixed by
// the rule table; raw severity strings reported by the tools are never
// trusted directly.
type Severity string

func (s Severity) String() string {
	return string(s)
}

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

func NewSeverity(s string) Severity {
	switch strings.ToLower(s) {
	case "critical":
		return SeverityCritical
	case "high":
		return SeverityHigh
	case "medium":
		return SeverityMedium
	case "low":
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// GetSeverityOrder returns the sort rank of a severity, most severe first.
func GetSeverityOrder(s Severity) int {
	switch s {
	case SeverityCritical:
		return 1
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 3
	case SeverityLow:
		return 4
	default:
		return 5
	}
}
