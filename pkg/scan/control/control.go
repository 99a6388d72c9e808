// Package control provides in-memory cancellation state for running scans.
// It gives workers fast checkpoint operations without touching the session
// store on every check.
package control

import (
	"context"
	"sync"
)

// ScanControl manages cancellation for one scan. It is safe for concurrent
// use by multiple goroutines.
type ScanControl struct {
	scanID    string
	mu        sync.RWMutex
	cancelled bool

	// ctx is cancelled when the scan is cancelled
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a ScanControl in running state.
func New(scanID string) *ScanControl {
	ctx, cancel := context.WithCancel(context.Background())
	return &ScanControl{
		scanID: scanID,
		ctx:    ctx,
		cancel: cancel,
	}
}

// ScanID returns the scan this control is managing.
func (sc *ScanControl) ScanID() string {
	return sc.scanID
}

// Context returns the context that is cancelled when the scan is cancelled.
// Use this context for scanner invocations and other cancellable operations.
func (sc *ScanControl) Context() context.Context {
	return sc.ctx
}

// Cancelled reports whether the scan has been cancelled.
func (sc *ScanControl) Cancelled() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.cancelled
}

// Cancel transitions to cancelled state and stops in-flight operations
// through the shared context. Idempotent.
func (sc *ScanControl) Cancel() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.cancelled {
		return
	}
	sc.cancelled = true
	sc.cancel()
}

// Checkpoint returns true if work should continue, false if the scan was
// cancelled. Workers call this between units so undispatched work is
// abandoned promptly.
//
// Example usage:
//
//	for _, unit := range units {
//	    if !ctrl.Checkpoint() {
//	        return // Scan was cancelled
//	    }
//	    runUnit(unit)
//	}
func (sc *ScanControl) Checkpoint() bool {
	return !sc.Cancelled()
}

// CheckpointWithContext is like Checkpoint but also respects a passed
// context, useful when the unit itself has a timeout.
func (sc *ScanControl) CheckpointWithContext(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	default:
	}
	return !sc.Cancelled()
}
