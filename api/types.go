package api

import (
	"github.com/pyneda/kansa/pkg/scan"
)

// ErrorResponse is the envelope for every non-2xx JSON response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}

// SubmitScanInput mirrors scan.Request for JSON submission. Field semantics
// are validated by the domain; the tags here reject only structurally broken
// payloads before a request object is built.
type SubmitScanInput struct {
	URL        string   `json:"url" validate:"required"`
	Company    string   `json:"company"`
	Email      string   `json:"email" validate:"omitempty,email"`
	Scanners   []string `json:"scanners" validate:"required,min=1"`
	WaveAPIKey string   `json:"wave_api_key"`
	Policy     string   `json:"policy"`
	Pages      []string `json:"pages" validate:"omitempty,max=50"`
	MaxPages   int      `json:"max_pages" validate:"omitempty,min=0,max=50"`
	MaxDepth   int      `json:"max_depth" validate:"omitempty,min=0,max=3"`
	Simulate   bool     `json:"simulate"`
}

// ToRequest builds the domain request. Scanner names are normalized where
// recognized; unknown names pass through so the domain validator can name
// the offending value.
func (i SubmitScanInput) ToRequest() scan.Request {
	scanners := make([]scan.Scanner, 0, len(i.Scanners))
	for _, name := range i.Scanners {
		if scanner, ok := scan.NewScanner(name); ok {
			scanners = append(scanners, scanner)
		} else {
			scanners = append(scanners, scan.Scanner(name))
		}
	}
	return scan.Request{
		URL:        i.URL,
		Company:    i.Company,
		Email:      i.Email,
		Scanners:   scanners,
		WaveAPIKey: i.WaveAPIKey,
		Policy:     scan.SelectionPolicy(i.Policy),
		Pages:      i.Pages,
		MaxPages:   i.MaxPages,
		MaxDepth:   i.MaxDepth,
		Simulate:   i.Simulate,
	}
}

// SubmitScanResponse acknowledges an accepted scan.
type SubmitScanResponse struct {
	ScanID    string `json:"scan_id"`
	StreamURL string `json:"stream_url"`
}

// SubmitDiscoveryInput starts a standalone discovery.
type SubmitDiscoveryInput struct {
	URL      string `json:"url" validate:"required"`
	MaxPages int    `json:"max_pages" validate:"omitempty,min=0,max=50"`
	MaxDepth int    `json:"max_depth" validate:"omitempty,min=0,max=3"`
}

// SubmitDiscoveryResponse acknowledges an accepted discovery.
type SubmitDiscoveryResponse struct {
	DiscoveryID string `json:"discovery_id"`
	StreamURL   string `json:"stream_url"`
}

// AddVersionInput appends one result version to a completed scan. Result is
// a pointer so the required check rejects a missing body field instead of
// comparing a struct full of maps.
type AddVersionInput struct {
	Label  string                 `json:"label" validate:"required,max=120"`
	Result *scan.AggregatedResult `json:"result" validate:"required"`
}
