package drivers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pyneda/kansa/lib"
	"github.com/pyneda/kansa/pkg/events"
	"github.com/pyneda/kansa/pkg/scan"
)

// SimulatedDriver produces canned output in the wrapped scanner's native
// format, deterministic for a given page URL. It lets the whole pipeline run
// without the external tools installed.
type SimulatedDriver struct {
	scanner   scan.Scanner
	publisher Publisher
}

func NewSimulatedDriver(scanner scan.Scanner, publisher Publisher) *SimulatedDriver {
	return &SimulatedDriver{scanner: scanner, publisher: publisher}
}

func (d *SimulatedDriver) Scanner() scan.Scanner {
	return d.scanner
}

func (d *SimulatedDriver) Drive(ctx context.Context, pageURL string) scan.ScannerOutcome {
	return run(d.publisher, d.scanner, pageURL, func() scan.ScannerOutcome {
		if err := ctx.Err(); err != nil {
			return scan.ScannerOutcome{Status: scan.OutcomeFailed, Error: err.Error()}
		}
		d.publisher.Publish(events.ScannerOperation, events.ScannerOperationPayload{
			Scanner:   d.scanner.String(),
			PageURL:   pageURL,
			Operation: "simulating scanner run",
		})
		return scan.ScannerOutcome{
			Status:   scan.OutcomeOK,
			Raw:      simulatedRaw(d.scanner, pageURL),
			Duration: time.Millisecond,
		}
	})
}

// simulatedRaw picks a deterministic slice of the scanner's canned findings
// catalog, keyed by the page URL hash so distinct pages get distinct but
// stable output.
func simulatedRaw(scanner scan.Scanner, pageURL string) json.RawMessage {
	digest := lib.HashStrings(scanner.String(), pageURL)
	count := 1 + int(digest[0]%3)
	offset := int(digest[1] % 8)

	switch scanner {
	case scan.ScannerWave:
		return simulatedWave(pageURL, count, offset)
	case scan.ScannerPa11y:
		return simulatedPa11y(count, offset)
	case scan.ScannerAxe:
		return simulatedAxe(count, offset)
	case scan.ScannerLighthouse:
		return simulatedLighthouse(count, offset)
	default:
		return json.RawMessage(`{}`)
	}
}

type cannedFinding struct {
	code     string
	message  string
	selector string
	context  string
}

var cannedWave = []cannedFinding{
	{code: "alt_missing", message: "Missing alternative text", selector: "img.hero"},
	{code: "contrast", message: "Very low contrast", selector: "nav a.muted"},
	{code: "label_missing", message: "Missing form label", selector: "input#search"},
	{code: "link_empty", message: "Empty link", selector: "a.icon-only"},
	{code: "heading_skipped", message: "Skipped heading level", selector: "h4.first"},
	{code: "language_missing", message: "Document language missing", selector: "html"},
	{code: "button_empty", message: "Empty button", selector: "button.close"},
	{code: "th_empty", message: "Empty table header", selector: "table.prices th"},
}

var cannedPa11y = []cannedFinding{
	{code: "WCAG2AA.Principle1.Guideline1_1.1_1_1.H37", message: "Img element missing an alt attribute.", selector: "html > body > img:nth-child(1)", context: `<img src="/hero.jpg">`},
	{code: "WCAG2AA.Principle1.Guideline1_4.1_4_3.G18.Fail", message: "This element has insufficient contrast at this conformance level.", selector: "html > body > nav > a", context: `<a class="muted" href="/about">About</a>`},
	{code: "WCAG2AA.Principle1.Guideline1_3.1_3_1.F68", message: "This form field should be labelled in some way.", selector: "#search", context: `<input id="search" type="text">`},
	{code: "WCAG2AA.Principle2.Guideline2_4.2_4_2.H25.1.NoTitleEl", message: "A title should be provided for the document.", selector: "html > head", context: `<head><meta charset="utf-8"></head>`},
	{code: "WCAG2AA.Principle3.Guideline3_1.3_1_1.H57.2", message: "The html element should have a lang attribute.", selector: "html", context: `<html>`},
	{code: "WCAG2AA.Principle4.Guideline4_1.4_1_2.H91.A.EmptyNoId", message: "Anchor element found with no link content.", selector: "html > body > a:nth-child(4)", context: `<a class="icon-only"></a>`},
	{code: "WCAG2AA.Principle1.Guideline1_3.1_3_1.H42.2", message: "Heading markup should be used if this content is intended as a heading.", selector: "html > body > p.title", context: `<p class="title">Pricing</p>`},
	{code: "WCAG2AA.Principle2.Guideline2_4.2_4_1.H64.1", message: "Iframe element requires a non-empty title attribute.", selector: "iframe", context: `<iframe src="/embed"></iframe>`},
}

var cannedAxe = []cannedFinding{
	{code: "image-alt", message: "Images must have alternate text", selector: "img.hero", context: `<img src="/hero.jpg" class="hero">`},
	{code: "color-contrast", message: "Elements must have sufficient color contrast", selector: "nav a.muted", context: `<a class="muted" href="/about">About</a>`},
	{code: "label", message: "Form elements must have labels", selector: "#search", context: `<input id="search" type="text">`},
	{code: "link-name", message: "Links must have discernible text", selector: "a.icon-only", context: `<a class="icon-only"></a>`},
	{code: "html-has-lang", message: "html element must have a lang attribute", selector: "html", context: `<html>`},
	{code: "button-name", message: "Buttons must have discernible text", selector: "button.close", context: `<button class="close"></button>`},
	{code: "document-title", message: "Documents must have a title element", selector: "html", context: `<html>`},
	{code: "duplicate-id", message: "id attribute value must be unique", selector: "#nav", context: `<div id="nav">`},
}

var cannedLighthouse = []cannedFinding{
	{code: "image-alt", message: "Image elements do not have [alt] attributes", selector: "img.hero", context: `<img src="/hero.jpg" class="hero">`},
	{code: "color-contrast", message: "Background and foreground colors do not have a sufficient contrast ratio", selector: "nav a.muted", context: `<a class="muted">About</a>`},
	{code: "label", message: "Form elements do not have associated labels", selector: "#search", context: `<input id="search" type="text">`},
	{code: "link-name", message: "Links do not have a discernible name", selector: "a.icon-only", context: `<a class="icon-only"></a>`},
	{code: "html-has-lang", message: "html element does not have a [lang] attribute", selector: "html", context: `<html>`},
	{code: "button-name", message: "Buttons do not have an accessible name", selector: "button.close", context: `<button class="close"></button>`},
	{code: "heading-order", message: "Heading elements are not in a sequentially-descending order", selector: "h4.first", context: `<h4 class="first">Details</h4>`},
	{code: "list", message: "Lists do not contain only li elements", selector: "ul.nav", context: `<ul class="nav"><div></div></ul>`},
}

func pickCanned(catalog []cannedFinding, count, offset int) []cannedFinding {
	picked := make([]cannedFinding, 0, count)
	for i := 0; i < count; i++ {
		picked = append(picked, catalog[(offset+i)%len(catalog)])
	}
	return picked
}

func simulatedWave(pageURL string, count, offset int) json.RawMessage {
	items := make(map[string]interface{})
	for _, finding := range pickCanned(cannedWave, count, offset) {
		items[finding.code] = map[string]interface{}{
			"id":          finding.code,
			"description": finding.message,
			"count":       1,
			"selectors":   []string{finding.selector},
		}
	}
	report := map[string]interface{}{
		"status": map[string]interface{}{"success": true},
		"statistics": map[string]interface{}{
			"pageurl": pageURL,
		},
		"categories": map[string]interface{}{
			"error": map[string]interface{}{
				"description": "Errors",
				"count":       count,
				"items":       items,
			},
		},
	}
	raw, _ := json.Marshal(report)
	return raw
}

func simulatedPa11y(count, offset int) json.RawMessage {
	issues := make([]map[string]interface{}, 0, count)
	for _, finding := range pickCanned(cannedPa11y, count, offset) {
		issues = append(issues, map[string]interface{}{
			"code":     finding.code,
			"type":     "error",
			"message":  finding.message,
			"context":  finding.context,
			"selector": finding.selector,
		})
	}
	raw, _ := json.Marshal(issues)
	return raw
}

func simulatedAxe(count, offset int) json.RawMessage {
	violations := make([]map[string]interface{}, 0, count)
	for _, finding := range pickCanned(cannedAxe, count, offset) {
		violations = append(violations, map[string]interface{}{
			"id":          finding.code,
			"impact":      "serious",
			"description": finding.message,
			"help":        finding.message,
			"nodes": []map[string]interface{}{
				{
					"html":   finding.context,
					"target": []string{finding.selector},
				},
			},
		})
	}
	report := map[string]interface{}{
		"violations": violations,
		"passes":     []interface{}{},
	}
	raw, _ := json.Marshal(report)
	return raw
}

func simulatedLighthouse(count, offset int) json.RawMessage {
	audits := make(map[string]interface{})
	for _, finding := range pickCanned(cannedLighthouse, count, offset) {
		audits[finding.code] = map[string]interface{}{
			"id":          finding.code,
			"score":       0,
			"title":       finding.message,
			"description": finding.message,
			"details": map[string]interface{}{
				"items": []map[string]interface{}{
					{
						"node": map[string]interface{}{
							"selector": finding.selector,
							"snippet":  finding.context,
						},
					},
				},
			},
		}
	}
	report := map[string]interface{}{
		"audits": audits,
		"categories": map[string]interface{}{
			"accessibility": map[string]interface{}{
				"score": 1.0 - float64(count)*0.07,
			},
		},
	}
	raw, _ := json.Marshal(report)
	return raw
}
