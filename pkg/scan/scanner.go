// Package scan holds the domain model of the accessibility scan pipeline:
// requests, discovered pages, scanner outcomes, sessions and aggregated
// results. The packages below it (drivers, selector, normalize, orchestrator)
// operate on these types.
package scan

import "strings"

// Scanner identifies one of the supported accessibility tools. The uppercase
// forms are canonical; variants seen in tool output ("axe-core", "Pa11y") are
// normalized at the boundary.
type Scanner string

const (
	ScannerWave       Scanner = "WAVE"
	ScannerPa11y      Scanner = "PA11Y"
	ScannerAxe        Scanner = "AXE"
	ScannerLighthouse Scanner = "LIGHTHOUSE"
)

func (s Scanner) String() string {
	return string(s)
}

// AllScanners returns the fixed scanner set in canonical order.
func AllScanners() []Scanner {
	return []Scanner{ScannerWave, ScannerPa11y, ScannerAxe, ScannerLighthouse}
}

// NewScanner normalizes a scanner name. It accepts the canonical uppercase
// form plus the spellings the tools themselves use.
func NewScanner(name string) (Scanner, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "wave":
		return ScannerWave, true
	case "pa11y":
		return ScannerPa11y, true
	case "axe", "axe-core", "axecore":
		return ScannerAxe, true
	case "lighthouse":
		return ScannerLighthouse, true
	default:
		return "", false
	}
}

// ParseScanners normalizes a list of scanner names, dropping duplicates while
// preserving canonical order. The second return lists the names that did not
// match any supported scanner.
func ParseScanners(names []string) ([]Scanner, []string) {
	seen := make(map[Scanner]bool, len(names))
	var unknown []string
	for _, name := range names {
		scanner, ok := NewScanner(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		seen[scanner] = true
	}
	var scanners []Scanner
	for _, scanner := range AllScanners() {
		if seen[scanner] {
			scanners = append(scanners, scanner)
		}
	}
	return scanners, unknown
}
