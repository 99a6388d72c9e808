package a11y

import (
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed rules.json
var rulesContent []byte

// ruleEntry is the on-disk shape of one rule table record.
type ruleEntry struct {
	Severity    string   `json:"severity"`
	WCAG        []string `json:"wcag"`
	Impacts     []string `json:"impacts"`
	Remediation string   `json:"remediation"`
}

// RuleGrading is the typed grading the table assigns to a (scanner, rule
// code) pair: canonical WCAG criteria, severity, affected populations and a
// remediation hint.
type RuleGrading struct {
	Severity    Severity
	WCAG        []string
	Impacts     []Impact
	Remediation string
}

// DefaultRuleGrading is the conservative grading applied when a rule code is
// not in the table.
func DefaultRuleGrading() RuleGrading {
	return RuleGrading{
		Severity:    SeverityMedium,
		WCAG:        []string{"4.1.1"},
		Impacts:     []Impact{ImpactCognitive},
		Remediation: "Review the reported element against the referenced WCAG criterion.",
	}
}

// Ruleset holds the embedded rule table, keyed by scanner then rule code.
type Ruleset struct {
	byScanner map[string]map[string]RuleGrading
}

func loadRuleset(content []byte) (*Ruleset, error) {
	var raw map[string]map[string]ruleEntry
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, err
	}
	rs := &Ruleset{byScanner: make(map[string]map[string]RuleGrading, len(raw))}
	for scanner, entries := range raw {
		graded := make(map[string]RuleGrading, len(entries))
		for code, entry := range entries {
			grading := RuleGrading{
				Severity:    NewSeverity(entry.Severity),
				WCAG:        entry.WCAG,
				Remediation: entry.Remediation,
			}
			for _, impact := range entry.Impacts {
				if typed, ok := NewImpact(impact); ok {
					grading.Impacts = append(grading.Impacts, typed)
				} else {
					log.Warn().Str("scanner", scanner).Str("rule", code).Str("impact", impact).Msg("Unknown impact in rule table")
				}
			}
			graded[code] = grading
		}
		rs.byScanner[strings.ToUpper(scanner)] = graded
	}
	return rs, nil
}

// LoadRuleset parses the embedded rule table.
func LoadRuleset() (*Ruleset, error) {
	return loadRuleset(rulesContent)
}

// MustLoadRuleset parses the embedded rule table and aborts the process if
// the embedded data is invalid.
func MustLoadRuleset() *Ruleset {
	rs, err := LoadRuleset()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load accessibility rule table")
	}
	return rs
}

// Lookup returns the grading for a (scanner, rule code) pair. When the pair
// is not in the table the conservative default grading is returned and the
// second result is false so callers can count fall-throughs.
func (r *Ruleset) Lookup(scanner, code string) (RuleGrading, bool) {
	if entries, ok := r.byScanner[strings.ToUpper(scanner)]; ok {
		if grading, ok := entries[code]; ok {
			return grading, true
		}
	}
	return DefaultRuleGrading(), false
}

// Size reports the total number of table entries across all scanners.
func (r *Ruleset) Size() int {
	total := 0
	for _, entries := range r.byScanner {
		total += len(entries)
	}
	return total
}
