// Package normalize turns heterogeneous raw scanner outputs into one graded
// result: parse per scanner, grade through the embedded rule table, dedup
// per page, then score. Aggregation is pure; feeding it the same outcomes in
// any order produces identical findings, ids, counts and order.
package normalize

import (
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pyneda/kansa/lib"
	"github.com/pyneda/kansa/pkg/a11y"
	"github.com/pyneda/kansa/pkg/scan"
)

// Severity weights for the compliance penalty. The penalty cap keeps a
// single catastrophic page from zeroing the whole score.
const (
	weightCritical = 8.0
	weightHigh     = 4.0
	weightMedium   = 2.0
	weightLow      = 0.5
	penaltyCap     = 75.0

	maxContextChars = 200
)

// Normalizer grades raw scanner outcomes with the embedded rule table.
type Normalizer struct {
	rules *a11y.Ruleset
}

func NewNormalizer() *Normalizer {
	return &Normalizer{rules: a11y.MustLoadRuleset()}
}

// Aggregate builds the scan's normalized result from its recorded outcomes.
// Raw blobs that fail to parse contribute nothing beyond a counter; they
// never abort aggregation.
func (n *Normalizer) Aggregate(scanID string, outcomes []scan.ScannerOutcome) (scan.AggregatedResult, scan.ProcessingStats) {
	var stats scan.ProcessingStats
	var graded []a11y.Finding

	pages := make(map[string]bool)
	successful := 0
	for _, outcome := range outcomes {
		pages[outcome.PageURL] = true
		if !outcome.OK() {
			continue
		}
		successful++
		if len(outcome.Raw) == 0 {
			continue
		}
		preFindings, err := parseOutcome(outcome)
		if err != nil {
			stats.MalformedOutputs++
			log.Debug().Err(err).Str("scanner", outcome.Scanner.String()).Str("url", outcome.PageURL).Msg("Could not parse scanner output")
			continue
		}
		stats.PreFindings += len(preFindings)
		for _, pre := range preFindings {
			finding, ok := n.grade(outcome, pre, &stats)
			if !ok {
				continue
			}
			graded = append(graded, finding)
		}
	}

	findings := dedup(graded, &stats)
	a11y.SortFindings(findings)

	severityTotals := make(map[a11y.Severity]int)
	principleTotals := make(map[a11y.Principle]int)
	for _, finding := range findings {
		severityTotals[finding.Severity] += finding.Occurrences
		principleTotals[finding.Principle] += finding.Occurrences
	}

	score := ScoreFromTotals(severityTotals)
	result := scan.AggregatedResult{
		ScanID:           scanID,
		GeneratedAt:      time.Now().UTC(),
		Findings:         findings,
		ScannerSummaries: scan.SummarizeOutcomes(outcomes),
		SeverityTotals:   severityTotals,
		PrincipleTotals:  principleTotals,
		Score:            score,
		ComplianceLevel:  a11y.ComplianceLevelForScore(score),
		Confidence:       Confidence(successful, len(outcomes)),
		TotalOutcomes:    len(outcomes),
		SuccessOutcomes:  successful,
		PagesScanned:     len(pages),
	}
	return result, stats
}

// grade applies the rule table to one pre-finding. Severity, WCAG, impacts
// and remediation always come from the table; raw tool gradings are never
// trusted.
func (n *Normalizer) grade(outcome scan.ScannerOutcome, pre preFinding, stats *scan.ProcessingStats) (a11y.Finding, bool) {
	grading, known := n.rules.Lookup(outcome.Scanner.String(), pre.RuleCode)
	if !known {
		stats.RuleFallbacks++
	}
	if len(grading.WCAG) == 0 {
		stats.DroppedNoWCAG++
		return a11y.Finding{}, false
	}
	if pre.Selector == "" {
		stats.MissingSelectors++
	}
	message := pre.Message
	if message == "" {
		stats.MissingMessages++
		message = pre.RuleCode
	}

	principle, _ := a11y.PrincipleForCriterion(grading.WCAG[0])
	return a11y.Finding{
		ID:          a11y.ComputeFindingID(outcome.Scanner.String(), pre.RuleCode, outcome.PageURL, pre.Selector, message),
		Scanner:     outcome.Scanner.String(),
		RuleCode:    pre.RuleCode,
		Severity:    grading.Severity,
		WCAG:        grading.WCAG,
		Principle:   principle,
		Impacts:     grading.Impacts,
		Selector:    pre.Selector,
		Context:     lib.TruncateString(pre.Context, maxContextChars),
		Description: message,
		Remediation: grading.Remediation,
		PageURL:     outcome.PageURL,
		Occurrences: 1,
	}, true
}

// dedup collapses findings that share a dedup key into one, keeping the
// most severe representative and summing occurrences. Group winners are
// chosen by severity, then scanner, then id, so input order never matters.
func dedup(findings []a11y.Finding, stats *scan.ProcessingStats) []a11y.Finding {
	groups := make(map[string][]a11y.Finding)
	for _, finding := range findings {
		key := finding.DedupKey()
		groups[key] = append(groups[key], finding)
	}

	deduped := make([]a11y.Finding, 0, len(groups))
	for _, group := range groups {
		sort.Slice(group, func(i, j int) bool {
			a, b := group[i], group[j]
			if oa, ob := a11y.GetSeverityOrder(a.Severity), a11y.GetSeverityOrder(b.Severity); oa != ob {
				return oa < ob
			}
			if a.Scanner != b.Scanner {
				return a.Scanner < b.Scanner
			}
			return a.ID < b.ID
		})
		kept := group[0]
		occurrences := 0
		for _, member := range group {
			occurrences += member.Occurrences
		}
		kept.Occurrences = occurrences
		stats.Deduplicated += len(group) - 1
		deduped = append(deduped, kept)
	}
	return deduped
}

// ScoreFromTotals computes the weighted compliance score from summed
// per-severity occurrence counts.
func ScoreFromTotals(totals map[a11y.Severity]int) float64 {
	penalty := weightCritical*float64(totals[a11y.SeverityCritical]) +
		weightHigh*float64(totals[a11y.SeverityHigh]) +
		weightMedium*float64(totals[a11y.SeverityMedium]) +
		weightLow*float64(totals[a11y.SeverityLow])
	if penalty > penaltyCap {
		penalty = penaltyCap
	}
	return math.Max(0, 100-penalty)
}

// Confidence is the share of units that produced usable output, as a whole
// percentage.
func Confidence(successful, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(successful) / float64(total)))
}
