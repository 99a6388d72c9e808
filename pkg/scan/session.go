package scan

import (
	"sync"
	"time"
)

// MaxResultVersions bounds the version history kept per scan; the oldest
// entry is evicted first.
const MaxResultVersions = 10

// ScanSession is the mutable state of one scan. It is created at submission,
// written only by the orchestrator goroutine that owns the scan, and read
// concurrently through snapshots. Sessions share no mutable state with each
// other.
type ScanSession struct {
	mu sync.RWMutex

	id      string
	request Request

	state        State
	failureKind  FailureKind
	failureError string
	progress     float64

	selection  PageSelection
	unitStatus map[string]map[Scanner]OutcomeStatus
	pagesDone  int
	outcomes   []ScannerOutcome

	result         *AggregatedResult
	versions       []ResultVersion
	versionCounter int
	stats          ProcessingStats

	createdAt   time.Time
	startedAt   time.Time
	completedAt time.Time
	lastSeq     uint64
}

// NewScanSession creates a session in PENDING state.
func NewScanSession(id string, request Request) *ScanSession {
	return &ScanSession{
		id:        id,
		request:   request,
		state:     StatePending,
		createdAt: time.Now(),
	}
}

// ID returns the scan identifier. Immutable, no lock needed.
func (s *ScanSession) ID() string {
	return s.id
}

// Request returns the submitted request. Immutable, no lock needed.
func (s *ScanSession) Request() Request {
	return s.request
}

// State returns the current lifecycle state.
func (s *ScanSession) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SetState transitions the session. Called only by the owning worker.
// Transitions out of a terminal state are ignored.
func (s *ScanSession) SetState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Terminal() {
		return
	}
	if s.state == StatePending && state != StatePending {
		s.startedAt = time.Now()
	}
	s.state = state
	if state.Terminal() {
		s.completedAt = time.Now()
	}
}

// Fail moves the session to FAILED with a failure classification.
func (s *ScanSession) Fail(kind FailureKind, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Terminal() {
		return
	}
	s.state = StateFailed
	s.failureKind = kind
	s.failureError = message
	s.completedAt = time.Now()
}

// Cancel moves the session to CANCELLED.
func (s *ScanSession) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Terminal() {
		return
	}
	s.state = StateCancelled
	s.failureKind = FailureCancelled
	s.completedAt = time.Now()
}

// SetProgress updates the overall percent, clamped to [0,100].
func (s *ScanSession) SetProgress(percent float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	s.progress = percent
}

// BeginScanning freezes the page selection and initializes the per-unit
// progress map for |selection| x |scanners| units.
func (s *ScanSession) BeginScanning(selection PageSelection, scanners []Scanner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = selection
	s.unitStatus = make(map[string]map[Scanner]OutcomeStatus, len(selection))
	for _, page := range selection {
		perScanner := make(map[Scanner]OutcomeStatus, len(scanners))
		for _, scanner := range scanners {
			perScanner[scanner] = ""
		}
		s.unitStatus[page] = perScanner
	}
}

// Selection returns the frozen page selection.
func (s *ScanSession) Selection() PageSelection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	selection := make(PageSelection, len(s.selection))
	copy(selection, s.selection)
	return selection
}

// RecordOutcome appends a unit outcome and updates the progress map. The
// first return reports whether this outcome completed its page (no pending
// units left for that page URL); the second is the number of pages done.
func (s *ScanSession) RecordOutcome(outcome ScannerOutcome) (pageCompleted bool, pagesDone int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes = append(s.outcomes, outcome)
	perScanner, ok := s.unitStatus[outcome.PageURL]
	if !ok {
		return false, s.pagesDone
	}
	perScanner[outcome.Scanner] = outcome.Status
	for _, status := range perScanner {
		if status == "" {
			return false, s.pagesDone
		}
	}
	s.pagesDone++
	return true, s.pagesDone
}

// Outcomes returns a copy of the recorded outcomes.
func (s *ScanSession) Outcomes() []ScannerOutcome {
	s.mu.RLock()
	defer s.mu.RUnlock()
	outcomes := make([]ScannerOutcome, len(s.outcomes))
	copy(outcomes, s.outcomes)
	return outcomes
}

// Complete stores the aggregated result as version 1 and transitions to
// COMPLETED.
func (s *ScanSession) Complete(result AggregatedResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Terminal() {
		return
	}
	s.result = &result
	s.versionCounter++
	s.versions = append(s.versions, ResultVersion{
		Version:   s.versionCounter,
		CreatedAt: time.Now(),
		Label:     "initial",
		Result:    result,
	})
	s.state = StateCompleted
	s.progress = 100
	s.completedAt = time.Now()
}

// Result returns the final aggregated result once the scan completed.
func (s *ScanSession) Result() (AggregatedResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.result == nil {
		return AggregatedResult{}, false
	}
	return *s.result, true
}

// AddVersion appends a collaborator-supplied result version, evicting the
// oldest entry beyond MaxResultVersions.
func (s *ScanSession) AddVersion(result AggregatedResult, label string) ResultVersion {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versionCounter++
	version := ResultVersion{
		Version:   s.versionCounter,
		CreatedAt: time.Now(),
		Label:     label,
		Result:    result,
	}
	s.versions = append(s.versions, version)
	if len(s.versions) > MaxResultVersions {
		s.versions = s.versions[len(s.versions)-MaxResultVersions:]
	}
	return version
}

// Versions returns a copy of the retained version history, oldest first.
func (s *ScanSession) Versions() []ResultVersion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	versions := make([]ResultVersion, len(s.versions))
	copy(versions, s.versions)
	return versions
}

// MergeStats accumulates normalizer counters onto the session.
func (s *ScanSession) MergeStats(stats ProcessingStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Add(stats)
}

// SetLastSeq records the sequence number of the last published event.
func (s *ScanSession) SetLastSeq(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq > s.lastSeq {
		s.lastSeq = seq
	}
}

// Snapshot returns a point-in-time copy of the fields status readers need.
func (s *ScanSession) Snapshot() ScanSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := ScanSnapshot{
		ID:          s.id,
		URL:         s.request.URL,
		Scanners:    s.request.Scanners,
		Simulate:    s.request.Simulate,
		State:       s.state,
		FailureKind: s.failureKind,
		Error:       s.failureError,
		Progress:    s.progress,
		PagesTotal:  len(s.selection),
		PagesDone:   s.pagesDone,
		UnitsTotal:  len(s.selection) * len(s.request.Scanners),
		UnitsDone:   len(s.outcomes),
		CreatedAt:   s.createdAt,
		StartedAt:   s.startedAt,
		CompletedAt: s.completedAt,
		LastSeq:     s.lastSeq,
		Stats:       s.stats,
	}
	if s.result != nil {
		snapshot.ErrorsFound = s.result.ErrorsFound()
		snapshot.WarningsFound = s.result.WarningsFound()
	}
	return snapshot
}

// ScanSnapshot is a read-only view of a session at one instant.
type ScanSnapshot struct {
	ID            string          `json:"id"`
	URL           string          `json:"url"`
	Scanners      []Scanner       `json:"scanners"`
	Simulate      bool            `json:"simulate,omitempty"`
	State         State           `json:"state"`
	FailureKind   FailureKind     `json:"failure_kind,omitempty"`
	Error         string          `json:"error,omitempty"`
	Progress      float64         `json:"progress_percent"`
	PagesTotal    int             `json:"pages_total"`
	PagesDone     int             `json:"pages_completed"`
	UnitsTotal    int             `json:"units_total"`
	UnitsDone     int             `json:"units_completed"`
	ErrorsFound   int             `json:"errors_found"`
	WarningsFound int             `json:"warnings_found"`
	CreatedAt     time.Time       `json:"created_at"`
	StartedAt     time.Time       `json:"started_at,omitempty"`
	CompletedAt   time.Time       `json:"completed_at,omitempty"`
	LastSeq       uint64          `json:"last_seq"`
	Stats         ProcessingStats `json:"processing_stats"`
}

// TerminalAge returns how long ago the session reached a terminal state, or
// zero if it has not.
func (s ScanSnapshot) TerminalAge(now time.Time) time.Duration {
	if !s.State.Terminal() || s.CompletedAt.IsZero() {
		return 0
	}
	return now.Sub(s.CompletedAt)
}

// DiscoverySession is the mutable state of one discovery run. Same lifecycle
// shape as ScanSession; owned by the discovery runner goroutine.
type DiscoverySession struct {
	mu sync.RWMutex

	id       string
	seed     string
	maxPages int
	maxDepth int

	state        State
	failureKind  FailureKind
	failureError string
	progress     float64
	pages        []DiscoveredPage

	createdAt   time.Time
	startedAt   time.Time
	completedAt time.Time
	lastSeq     uint64
}

// NewDiscoverySession creates a discovery session in PENDING state.
func NewDiscoverySession(id, seed string, maxPages, maxDepth int) *DiscoverySession {
	return &DiscoverySession{
		id:        id,
		seed:      seed,
		maxPages:  maxPages,
		maxDepth:  maxDepth,
		state:     StatePending,
		createdAt: time.Now(),
	}
}

func (d *DiscoverySession) ID() string {
	return d.id
}

func (d *DiscoverySession) Seed() string {
	return d.seed
}

// Bounds returns the caller's crawl limits.
func (d *DiscoverySession) Bounds() (maxPages, maxDepth int) {
	return d.maxPages, d.maxDepth
}

func (d *DiscoverySession) State() State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

func (d *DiscoverySession) SetState(state State) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state.Terminal() {
		return
	}
	if d.state == StatePending && state != StatePending {
		d.startedAt = time.Now()
	}
	d.state = state
	if state.Terminal() {
		d.completedAt = time.Now()
	}
}

func (d *DiscoverySession) Fail(kind FailureKind, message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state.Terminal() {
		return
	}
	d.state = StateFailed
	d.failureKind = kind
	d.failureError = message
	d.completedAt = time.Now()
}

func (d *DiscoverySession) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state.Terminal() {
		return
	}
	d.state = StateCancelled
	d.failureKind = FailureCancelled
	d.completedAt = time.Now()
}

func (d *DiscoverySession) SetProgress(percent float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	d.progress = percent
}

// AddPage appends one discovered page and returns the new page count.
func (d *DiscoverySession) AddPage(page DiscoveredPage) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pages = append(d.pages, page)
	return len(d.pages)
}

// Pages returns a copy of the discovered pages.
func (d *DiscoverySession) Pages() []DiscoveredPage {
	d.mu.RLock()
	defer d.mu.RUnlock()
	pages := make([]DiscoveredPage, len(d.pages))
	copy(pages, d.pages)
	return pages
}

func (d *DiscoverySession) SetLastSeq(seq uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if seq > d.lastSeq {
		d.lastSeq = seq
	}
}

// Snapshot returns a point-in-time view of the discovery session.
func (d *DiscoverySession) Snapshot() DiscoverySnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return DiscoverySnapshot{
		ID:          d.id,
		Seed:        d.seed,
		MaxPages:    d.maxPages,
		MaxDepth:    d.maxDepth,
		State:       d.state,
		FailureKind: d.failureKind,
		Error:       d.failureError,
		Progress:    d.progress,
		PagesFound:  len(d.pages),
		CreatedAt:   d.createdAt,
		StartedAt:   d.startedAt,
		CompletedAt: d.completedAt,
		LastSeq:     d.lastSeq,
	}
}

// DiscoverySnapshot is a read-only view of a discovery session.
type DiscoverySnapshot struct {
	ID          string      `json:"id"`
	Seed        string      `json:"seed"`
	MaxPages    int         `json:"max_pages"`
	MaxDepth    int         `json:"max_depth"`
	State       State       `json:"state"`
	FailureKind FailureKind `json:"failure_kind,omitempty"`
	Error       string      `json:"error,omitempty"`
	Progress    float64     `json:"progress_percent"`
	PagesFound  int         `json:"pages_found"`
	CreatedAt   time.Time   `json:"created_at"`
	StartedAt   time.Time   `json:"started_at,omitempty"`
	CompletedAt time.Time   `json:"completed_at,omitempty"`
	LastSeq     uint64      `json:"last_seq"`
}

// TerminalAge returns how long ago the session reached a terminal state, or
// zero if it has not.
func (s DiscoverySnapshot) TerminalAge(now time.Time) time.Duration {
	if !s.State.Terminal() || s.CompletedAt.IsZero() {
		return 0
	}
	return now.Sub(s.CompletedAt)
}
