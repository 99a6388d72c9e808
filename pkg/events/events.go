// Package events implements the per-scan publish/subscribe fabric. Each scan
// id owns a topic with a monotonic sequence counter and a bounded replay
// ring; subscribers are never blocked on and never block the publisher.
package events

import "time"

// Type identifies a scan event.
type Type string

const (
	ScanStart         Type = "SCAN_START"
	DiscoveryProgress Type = "DISCOVERY_PROGRESS"
	PageProgress      Type = "PAGE_PROGRESS"
	ScannerStart      Type = "SCANNER_START"
	ScannerOperation  Type = "SCANNER_OPERATION"
	ScannerComplete   Type = "SCANNER_COMPLETE"
	ScannerError      Type = "SCANNER_ERROR"
	AggregationStart  Type = "AGGREGATION_START"
	ScanComplete      Type = "SCAN_COMPLETE"
	ScanFailed        Type = "SCAN_FAILED"
	Heartbeat         Type = "HEARTBEAT"
)

func (t Type) String() string {
	return string(t)
}

// Terminal reports whether the type ends a topic. Exactly one terminal event
// is published per scan.
func (t Type) Terminal() bool {
	return t == ScanComplete || t == ScanFailed
}

// Event is a single entry in a scan's event stream. Seq is unique and
// monotonic within one scan id; heartbeats carry Seq 0 because they are not
// part of the retained stream.
type Event struct {
	Seq       uint64      `json:"seq,omitempty"`
	ScanID    string      `json:"scan_id"`
	Type      Type        `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// ScanStartPayload announces that a scan session entered its pipeline.
type ScanStartPayload struct {
	URL      string   `json:"url"`
	Scanners []string `json:"scanners"`
	Simulate bool     `json:"simulate,omitempty"`
}

// DiscoveryProgressPayload reports crawl progress.
type DiscoveryProgressPayload struct {
	PagesFound int    `json:"pages_found"`
	LastURL    string `json:"last_url,omitempty"`
	Depth      int    `json:"depth"`
}

// PageProgressPayload is published when the last pending unit of a page
// completes.
type PageProgressPayload struct {
	PageURL         string  `json:"page_url"`
	PagesCompleted  int     `json:"pages_completed"`
	PagesTotal      int     `json:"pages_total"`
	ProgressPercent float64 `json:"progress_percent"`
}

// ScannerStartPayload marks one scanner unit being dispatched.
type ScannerStartPayload struct {
	Scanner string `json:"scanner"`
	PageURL string `json:"page_url"`
}

// ScannerOperationPayload is a best-effort coarse milestone from a running
// driver.
type ScannerOperationPayload struct {
	Scanner   string `json:"scanner"`
	PageURL   string `json:"page_url"`
	Operation string `json:"operation"`
}

// ScannerCompletePayload summarizes a successful unit.
type ScannerCompletePayload struct {
	Scanner    string `json:"scanner"`
	PageURL    string `json:"page_url"`
	Summary    string `json:"summary,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// ScannerErrorPayload reports a failed or timed out unit.
type ScannerErrorPayload struct {
	Scanner string `json:"scanner"`
	PageURL string `json:"page_url"`
	Status  string `json:"status"`
	Error   string `json:"error"`
}

// AggregationStartPayload marks the transition into normalization.
type AggregationStartPayload struct {
	Outcomes int `json:"outcomes"`
}

// ScanCompletePayload carries the headline numbers of the aggregated result.
type ScanCompletePayload struct {
	Score           float64 `json:"score"`
	ComplianceLevel string  `json:"compliance_level"`
	Findings        int     `json:"findings"`
	Confidence      int     `json:"confidence"`
}

// DiscoveryCompletePayload ends a standalone discovery session.
type DiscoveryCompletePayload struct {
	PagesFound int `json:"pages_found"`
}

// ScanFailedPayload carries the failure classification.
type ScanFailedPayload struct {
	Kind  string `json:"kind"`
	Error string `json:"error,omitempty"`
}
