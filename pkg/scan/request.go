package scan

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/pyneda/kansa/lib"
)

// SelectionPolicy decides how the pages to scan are chosen.
type SelectionPolicy string

const (
	// PolicyCrawlThenSelect discovers pages from the seed URL and picks a
	// representative subset.
	PolicyCrawlThenSelect SelectionPolicy = "crawl-then-select"
	// PolicyExplicitList scans exactly the caller-supplied pages.
	PolicyExplicitList SelectionPolicy = "explicit-list"
	// PolicyAll scans every discovered page, capped.
	PolicyAll SelectionPolicy = "all"
)

func (p SelectionPolicy) String() string {
	return string(p)
}

// Request bounds. Caller values above these are rejected at validation; the
// crawler applies its own stricter caps on top.
const (
	RequestMaxPages = 50
	RequestMaxDepth = 3
)

// ValidationError describes a rejected scan request. It is surfaced
// synchronously at submission; no session is created.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Kind returns the failure classification of validation errors.
func (e *ValidationError) Kind() FailureKind {
	return FailureValidation
}

// Request carries everything needed to run one scan. Immutable once
// submitted.
type Request struct {
	URL        string          `json:"url"`
	Company    string          `json:"company"`
	Email      string          `json:"email"`
	Scanners   []Scanner       `json:"scanners"`
	WaveAPIKey string          `json:"wave_api_key,omitempty"`
	Policy     SelectionPolicy `json:"policy"`
	Pages      []string        `json:"pages,omitempty"`
	MaxPages   int             `json:"max_pages"`
	MaxDepth   int             `json:"max_depth"`
	Simulate   bool            `json:"simulate,omitempty"`
}

// WithDefaults fills unset fields so the pipeline never sees zero bounds or
// an empty policy.
func (r Request) WithDefaults() Request {
	if r.Policy == "" {
		if len(r.Pages) > 0 {
			r.Policy = PolicyExplicitList
		} else {
			r.Policy = PolicyCrawlThenSelect
		}
	}
	if r.MaxPages <= 0 {
		r.MaxPages = RequestMaxPages
	}
	if r.MaxDepth <= 0 {
		r.MaxDepth = RequestMaxDepth
	}
	return r
}

// Validate checks the request against the submission contract: parseable
// http/https URL, syntactically valid email, at least one scanner, sane
// bounds and a usable page list for the explicit policy.
func (r Request) Validate() error {
	if !lib.IsWebURL(r.URL) {
		return &ValidationError{Field: "url", Reason: "must be an absolute http or https URL"}
	}
	if r.Email != "" {
		if _, err := mail.ParseAddress(r.Email); err != nil {
			return &ValidationError{Field: "email", Reason: "not a valid address"}
		}
	}
	if len(r.Scanners) == 0 {
		return &ValidationError{Field: "scanners", Reason: "at least one scanner must be enabled"}
	}
	seen := make(map[Scanner]bool, len(r.Scanners))
	for _, scanner := range r.Scanners {
		if _, ok := NewScanner(scanner.String()); !ok {
			return &ValidationError{Field: "scanners", Reason: fmt.Sprintf("unknown scanner %q", scanner)}
		}
		if seen[scanner] {
			return &ValidationError{Field: "scanners", Reason: fmt.Sprintf("scanner %q enabled twice", scanner)}
		}
		seen[scanner] = true
	}
	if r.MaxPages > RequestMaxPages {
		return &ValidationError{Field: "max_pages", Reason: fmt.Sprintf("must be at most %d", RequestMaxPages)}
	}
	if r.MaxDepth > RequestMaxDepth {
		return &ValidationError{Field: "max_depth", Reason: fmt.Sprintf("must be at most %d", RequestMaxDepth)}
	}
	switch r.Policy {
	case PolicyCrawlThenSelect, PolicyAll:
	case PolicyExplicitList:
		if len(r.Pages) == 0 {
			return &ValidationError{Field: "pages", Reason: "explicit-list policy requires at least one page"}
		}
		for _, page := range r.Pages {
			if !lib.IsWebURL(page) {
				return &ValidationError{Field: "pages", Reason: fmt.Sprintf("%q is not an absolute http or https URL", page)}
			}
		}
	default:
		return &ValidationError{Field: "policy", Reason: fmt.Sprintf("unknown policy %q", r.Policy)}
	}
	return nil
}

// HasScanner reports whether the request enables the given scanner.
func (r Request) HasScanner(scanner Scanner) bool {
	for _, s := range r.Scanners {
		if s == scanner {
			return true
		}
	}
	return false
}

// ScannerNames returns the enabled scanners as strings, for logging and
// event payloads.
func (r Request) ScannerNames() []string {
	names := make([]string, 0, len(r.Scanners))
	for _, s := range r.Scanners {
		names = append(names, s.String())
	}
	return names
}

func (r Request) String() string {
	return fmt.Sprintf("%s [%s]", r.URL, strings.Join(r.ScannerNames(), ","))
}
