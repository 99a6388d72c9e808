package report

import (
	"sort"
	"strings"

	"github.com/pyneda/kansa/pkg/a11y"
	"github.com/pyneda/kansa/pkg/scan"
)

// groupFindings buckets findings by rule code for the grouped report view.
// Groups come back ordered by severity, then occurrence count, then rule
// code, so renders are stable across runs.
func groupFindings(findings []a11y.Finding) []*GroupedFindings {
	groupMap := make(map[string]*GroupedFindings)

	for _, finding := range findings {
		group, exists := groupMap[finding.RuleCode]
		if !exists {
			group = &GroupedFindings{
				RuleCode:    finding.RuleCode,
				Severity:    finding.Severity,
				Principle:   finding.Principle,
				WCAG:        finding.WCAG,
				Description: finding.Description,
				Remediation: finding.Remediation,
			}
			groupMap[finding.RuleCode] = group
		}
		// The rule table fixes severity per rule, but keep the worst one in
		// case a scanner-specific grading ever diverges.
		if a11y.GetSeverityOrder(finding.Severity) < a11y.GetSeverityOrder(group.Severity) {
			group.Severity = finding.Severity
		}
		group.Findings = append(group.Findings, finding)
		group.Count = len(group.Findings)
		group.Occurrences += occurrenceCount(finding)
	}

	groups := make([]*GroupedFindings, 0, len(groupMap))
	for _, group := range groupMap {
		sort.Slice(group.Findings, func(i, j int) bool {
			if group.Findings[i].PageURL != group.Findings[j].PageURL {
				return group.Findings[i].PageURL < group.Findings[j].PageURL
			}
			return group.Findings[i].Selector < group.Findings[j].Selector
		})
		groups = append(groups, group)
	}

	sort.Slice(groups, func(i, j int) bool {
		si := a11y.GetSeverityOrder(groups[i].Severity)
		sj := a11y.GetSeverityOrder(groups[j].Severity)
		if si != sj {
			return si < sj
		}
		if groups[i].Occurrences != groups[j].Occurrences {
			return groups[i].Occurrences > groups[j].Occurrences
		}
		return groups[i].RuleCode < groups[j].RuleCode
	})

	return groups
}

// generateSummary derives the dashboard numbers from an aggregated result.
func generateSummary(result scan.AggregatedResult) Summary {
	severityCounts := map[a11y.Severity]int{
		a11y.SeverityCritical: 0,
		a11y.SeverityHigh:     0,
		a11y.SeverityMedium:   0,
		a11y.SeverityLow:      0,
	}
	for severity, count := range result.SeverityTotals {
		severityCounts[severity] = count
	}

	principleCounts := make(map[a11y.Principle]int, len(result.PrincipleTotals))
	for principle, count := range result.PrincipleTotals {
		principleCounts[principle] = count
	}

	ruleCounts := make(map[string]int)
	ruleDescriptions := make(map[string]string)
	affectedPages := make(map[string]bool)
	for _, finding := range result.Findings {
		ruleCounts[finding.RuleCode] += occurrenceCount(finding)
		ruleDescriptions[finding.RuleCode] = finding.Description
		affectedPages[finding.PageURL] = true
	}

	topRules := make([]TopRule, 0, len(ruleCounts))
	for code, count := range ruleCounts {
		topRules = append(topRules, TopRule{
			RuleCode:    code,
			Description: ruleDescriptions[code],
			Count:       count,
		})
	}
	sort.Slice(topRules, func(i, j int) bool {
		if topRules[i].Count != topRules[j].Count {
			return topRules[i].Count > topRules[j].Count
		}
		return topRules[i].RuleCode < topRules[j].RuleCode
	})
	if len(topRules) > 5 {
		topRules = topRules[:5]
	}

	return Summary{
		Score:           result.Score,
		ComplianceLevel: result.ComplianceLevel.String(),
		Confidence:      result.Confidence,
		TotalFindings:   len(result.Findings),
		CriticalCount:   severityCounts[a11y.SeverityCritical],
		HighCount:       severityCounts[a11y.SeverityHigh],
		MediumCount:     severityCounts[a11y.SeverityMedium],
		LowCount:        severityCounts[a11y.SeverityLow],
		PagesScanned:    result.PagesScanned,
		AffectedPages:   len(affectedPages),
		UniqueRules:     len(ruleCounts),
		TopRules:        topRules,
		SeverityCounts:  severityCounts,
		PrincipleCounts: principleCounts,
	}
}

// scannerNames lists the scanners that contributed outcomes, sorted.
func scannerNames(result scan.AggregatedResult) []string {
	names := make([]string, 0, len(result.ScannerSummaries))
	for scanner := range result.ScannerSummaries {
		names = append(names, scanner.String())
	}
	sort.Strings(names)
	return names
}

func occurrenceCount(finding a11y.Finding) int {
	if finding.Occurrences < 1 {
		return 1
	}
	return finding.Occurrences
}

func joinWCAG(criteria []string) string {
	return strings.Join(criteria, ", ")
}
