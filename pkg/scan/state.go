package scan

// State is the lifecycle phase of a scan or discovery session. Transitions
// are made only by the session's worker goroutine.
type State string

const (
	StatePending     State = "PENDING"
	StateDiscovering State = "DISCOVERING"
	StateSelecting   State = "SELECTING"
	StateScanning    State = "SCANNING"
	StateNormalizing State = "NORMALIZING"
	StateCompleted   State = "COMPLETED"
	StateFailed      State = "FAILED"
	StateCancelled   State = "CANCELLED"
)

func (s State) String() string {
	return string(s)
}

// Terminal reports whether the session has reached a final state.
func (s State) Terminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateCancelled:
		return true
	default:
		return false
	}
}

// FailureKind classifies why a session failed or why a unit produced no
// usable output. Unit-level kinds never terminate a scan by themselves.
type FailureKind string

const (
	FailureValidation        FailureKind = "VALIDATION"
	FailureDiscoveryEmpty    FailureKind = "DISCOVERY_EMPTY"
	FailureScannerTimeout    FailureKind = "SCANNER_TIMEOUT"
	FailureScannerFailed     FailureKind = "SCANNER_FAILED"
	FailureAllScannersFailed FailureKind = "ALL_SCANNERS_FAILED"
	FailureNormalization     FailureKind = "NORMALIZATION_ERROR"
	FailureCancelled         FailureKind = "CANCELLED"
	FailureSessionTimeout    FailureKind = "SESSION_TIMEOUT"
	// FailureInternal covers invariant violations that crashed the owning
	// worker. The panic is logged; the session fails with this kind.
	FailureInternal FailureKind = "INTERNAL"
)

func (k FailureKind) String() string {
	return string(k)
}
