package a11y

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pyneda/kansa/lib"
)

// Finding is a single normalized accessibility issue on one page. Severity,
// WCAG references, impacts and remediation come from the rule table, never
// from the scanner's own output.
type Finding struct {
	ID          string    `json:"id"`
	Scanner     string    `json:"scanner"`
	RuleCode    string    `json:"rule_code"`
	Severity    Severity  `json:"severity"`
	WCAG        []string  `json:"wcag"`
	Principle   Principle `json:"principle"`
	Impacts     []Impact  `json:"impacts"`
	Selector    string    `json:"selector,omitempty"`
	Context     string    `json:"context,omitempty"`
	Description string    `json:"description"`
	Remediation string    `json:"remediation,omitempty"`
	PageURL     string    `json:"page_url"`
	Occurrences int       `json:"occurrences"`
}

// ComputeFindingID derives the stable finding identifier. Only the first 200
// characters of the message participate, so trailing dynamic noise in tool
// messages does not change the id.
func ComputeFindingID(scanner, ruleCode, pageURL, selector, message string) string {
	return lib.HashStrings(scanner, ruleCode, pageURL, selector, lib.TruncateString(message, 200))
}

// DedupKey groups findings that describe the same issue on the same page.
// The context participates only through its first 80 characters.
func (f Finding) DedupKey() string {
	return lib.HashStrings(f.RuleCode, f.PageURL, f.Selector, lib.TruncateString(f.Context, 80))
}

// PrimaryWCAG returns the first referenced criterion, or an empty string.
func (f Finding) PrimaryWCAG() string {
	if len(f.WCAG) == 0 {
		return ""
	}
	return f.WCAG[0]
}

func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s on %s (%s)", f.Severity, f.RuleCode, f.PageURL, f.Scanner)
}

func (f Finding) Pretty() string {
	return fmt.Sprintf(
		"%sRule:%s %s\n%sSeverity:%s %s\n%sWCAG:%s %s\n%sPage:%s %s\n%sSelector:%s %s\n%sDescription:%s %s\n",
		lib.Blue, lib.ResetColor, f.RuleCode,
		lib.Blue, lib.ResetColor, lib.Colorize(f.Severity.String(), lib.SeverityColor(f.Severity.String())),
		lib.Blue, lib.ResetColor, strings.Join(f.WCAG, ", "),
		lib.Blue, lib.ResetColor, f.PageURL,
		lib.Blue, lib.ResetColor, f.Selector,
		lib.Blue, lib.ResetColor, f.Description,
	)
}

func (f Finding) TableHeaders() []string {
	return []string{"Severity", "Rule", "WCAG", "Page", "Selector", "Scanner", "Count"}
}

func (f Finding) TableRow() []string {
	return []string{
		f.Severity.String(),
		f.RuleCode,
		f.PrimaryWCAG(),
		lib.TruncateString(f.PageURL, 60),
		lib.TruncateString(f.Selector, 40),
		f.Scanner,
		fmt.Sprintf("%d", f.Occurrences),
	}
}

// SortFindings orders findings by severity (most severe first), then rule
// code, then page URL, with selector and scanner as final tiebreaks. The
// order is total for deduplicated findings, so equal inputs always render
// equal output.
func SortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if oa, ob := GetSeverityOrder(a.Severity), GetSeverityOrder(b.Severity); oa != ob {
			return oa < ob
		}
		if a.RuleCode != b.RuleCode {
			return a.RuleCode < b.RuleCode
		}
		if a.PageURL != b.PageURL {
			return a.PageURL < b.PageURL
		}
		if a.Selector != b.Selector {
			return a.Selector < b.Selector
		}
		return a.Scanner < b.Scanner
	})
}
