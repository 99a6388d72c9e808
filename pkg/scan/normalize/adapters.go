package normalize

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pyneda/kansa/pkg/scan"
)

// preFinding is what an adapter extracts from one scanner's raw output
// before the rule table grades it.
type preFinding struct {
	RuleCode string
	Message  string
	Selector string
	Context  string
}

// parseOutcome routes a raw outcome to the adapter for its scanner. A parse
// error means the whole blob is unusable; a blob that parses but contains no
// issues yields an empty slice.
func parseOutcome(outcome scan.ScannerOutcome) ([]preFinding, error) {
	switch outcome.Scanner {
	case scan.ScannerWave:
		return parseWave(outcome.Raw)
	case scan.ScannerPa11y:
		return parsePa11y(outcome.Raw)
	case scan.ScannerAxe:
		return parseAxe(outcome.Raw)
	case scan.ScannerLighthouse:
		return parseLighthouse(outcome.Raw)
	default:
		return nil, fmt.Errorf("no adapter for scanner %s", outcome.Scanner)
	}
}

// parseWave reads the WAVE API report. Only the error and contrast
// categories describe failures; alerts, features and structure are
// advisory.
func parseWave(raw json.RawMessage) ([]preFinding, error) {
	var report struct {
		Categories map[string]struct {
			Items map[string]struct {
				ID          string   `json:"id"`
				Description string   `json:"description"`
				Count       int      `json:"count"`
				Selectors   []string `json:"selectors"`
			} `json:"items"`
		} `json:"categories"`
	}
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, err
	}

	var findings []preFinding
	for _, category := range []string{"error", "contrast"} {
		items, ok := report.Categories[category]
		if !ok {
			continue
		}
		for code, item := range items.Items {
			if len(item.Selectors) > 0 {
				for _, selector := range item.Selectors {
					findings = append(findings, preFinding{
						RuleCode: code,
						Message:  item.Description,
						Selector: selector,
					})
				}
				continue
			}
			count := item.Count
			if count < 1 {
				count = 1
			}
			for i := 0; i < count; i++ {
				findings = append(findings, preFinding{
					RuleCode: code,
					Message:  item.Description,
				})
			}
		}
	}
	return findings, nil
}

// parsePa11y reads the pa11y JSON reporter output, an array of issues.
// Warnings and notices are skipped; only errors fail WCAG 2 AA.
func parsePa11y(raw json.RawMessage) ([]preFinding, error) {
	var issues []struct {
		Code     string `json:"code"`
		Type     string `json:"type"`
		Message  string `json:"message"`
		Context  string `json:"context"`
		Selector string `json:"selector"`
	}
	if err := json.Unmarshal(raw, &issues); err != nil {
		return nil, err
	}

	var findings []preFinding
	for _, issue := range issues {
		if !strings.EqualFold(issue.Type, "error") {
			continue
		}
		findings = append(findings, preFinding{
			RuleCode: issue.Code,
			Message:  issue.Message,
			Selector: issue.Selector,
			Context:  issue.Context,
		})
	}
	return findings, nil
}

// parseAxe reads an axe-core result document, one pre-finding per violating
// node.
func parseAxe(raw json.RawMessage) ([]preFinding, error) {
	var report struct {
		Violations []struct {
			ID          string `json:"id"`
			Description string `json:"description"`
			Help        string `json:"help"`
			Nodes       []struct {
				HTML   string   `json:"html"`
				Target []string `json:"target"`
			} `json:"nodes"`
		} `json:"violations"`
	}
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, err
	}

	var findings []preFinding
	for _, violation := range report.Violations {
		message := violation.Help
		if message == "" {
			message = violation.Description
		}
		if len(violation.Nodes) == 0 {
			findings = append(findings, preFinding{RuleCode: violation.ID, Message: message})
			continue
		}
		for _, node := range violation.Nodes {
			findings = append(findings, preFinding{
				RuleCode: violation.ID,
				Message:  message,
				Selector: strings.Join(node.Target, " "),
				Context:  node.HTML,
			})
		}
	}
	return findings, nil
}

// parseLighthouse reads a lighthouse JSON report restricted to its audits
// map. An audit failed when it is scored and the score is below 1.
func parseLighthouse(raw json.RawMessage) ([]preFinding, error) {
	var report struct {
		Audits map[string]struct {
			ID      string   `json:"id"`
			Score   *float64 `json:"score"`
			Title   string   `json:"title"`
			Details struct {
				Items []struct {
					Node struct {
						Selector string `json:"selector"`
						Snippet  string `json:"snippet"`
					} `json:"node"`
				} `json:"items"`
			} `json:"details"`
		} `json:"audits"`
	}
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, err
	}

	var findings []preFinding
	for code, audit := range report.Audits {
		if audit.Score == nil || *audit.Score >= 1 {
			continue
		}
		if len(audit.Details.Items) == 0 {
			findings = append(findings, preFinding{RuleCode: code, Message: audit.Title})
			continue
		}
		for _, item := range audit.Details.Items {
			findings = append(findings, preFinding{
				RuleCode: code,
				Message:  audit.Title,
				Selector: item.Node.Selector,
				Context:  item.Node.Snippet,
			})
		}
	}
	return findings, nil
}
