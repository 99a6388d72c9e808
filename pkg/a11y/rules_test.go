package a11y

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadRuleset(t *testing.T) {
	rs, err := LoadRuleset()
	assert.NoError(t, err)
	assert.NotNil(t, rs)
	assert.GreaterOrEqual(t, rs.Size(), 40)

	// Every scanner that drivers exist for has entries.
	for _, scanner := range []string{"WAVE", "PA11Y", "AXE", "LIGHTHOUSE"} {
		assert.NotEmpty(t, rs.byScanner[scanner], "no entries for %s", scanner)
	}
}

func TestRulesetLookup(t *testing.T) {
	rs := MustLoadRuleset()

	tests := []struct {
		name     string
		scanner  string
		code     string
		severity Severity
		wcag     string
	}{
		{
			name:     "Axe contrast",
			scanner:  "AXE",
			code:     "color-contrast",
			severity: SeverityHigh,
			wcag:     "1.4.3",
		},
		{
			name:     "Wave missing alt",
			scanner:  "WAVE",
			code:     "alt_missing",
			severity: SeverityCritical,
			wcag:     "1.1.1",
		},
		{
			name:     "Pa11y html codesniffer code",
			scanner:  "PA11Y",
			code:     "WCAG2AA.Principle3.Guideline3_1.3_1_1.H57.2",
			severity: SeverityHigh,
			wcag:     "3.1.1",
		},
		{
			name:     "Lighthouse audit id",
			scanner:  "LIGHTHOUSE",
			code:     "document-title",
			severity: SeverityHigh,
			wcag:     "2.4.2",
		},
		{
			name:     "Scanner name is case insensitive",
			scanner:  "axe",
			code:     "image-alt",
			severity: SeverityCritical,
			wcag:     "1.1.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grading, found := rs.Lookup(tt.scanner, tt.code)
			assert.True(t, found)
			assert.Equal(t, tt.severity, grading.Severity)
			assert.Contains(t, grading.WCAG, tt.wcag)
			assert.NotEmpty(t, grading.Impacts)
			assert.NotEmpty(t, grading.Remediation)
		})
	}
}

func TestRulesetLookupFallback(t *testing.T) {
	rs := MustLoadRuleset()

	grading, found := rs.Lookup("AXE", "made-up-rule")
	assert.False(t, found)
	assert.Equal(t, SeverityMedium, grading.Severity)
	assert.Equal(t, []string{"4.1.1"}, grading.WCAG)
	assert.Equal(t, []Impact{ImpactCognitive}, grading.Impacts)

	grading, found = rs.Lookup("UNKNOWN_SCANNER", "image-alt")
	assert.False(t, found)
	assert.Equal(t, SeverityMedium, grading.Severity)
}

func TestRulesetDataIntegrity(t *testing.T) {
	rs := MustLoadRuleset()

	for scanner, entries := range rs.byScanner {
		for code, grading := range entries {
			assert.NotEmpty(t, grading.WCAG, "%s/%s has no WCAG references", scanner, code)
			for _, criterion := range grading.WCAG {
				_, known := PrincipleForCriterion(criterion)
				assert.True(t, known, "%s/%s references unparseable criterion %q", scanner, code, criterion)
				assert.Equal(t, 3, len(strings.Split(criterion, ".")), "%s/%s criterion %q is not X.Y.Z", scanner, code, criterion)
			}
			assert.NotEmpty(t, grading.Impacts, "%s/%s has no impacts", scanner, code)
			assert.Contains(t, []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}, grading.Severity)
		}
	}
}
