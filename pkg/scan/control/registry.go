package control

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Registry manages in-memory ScanControl instances. It provides centralized
// cancellation over all active scans; terminal scans are unregistered by the
// worker that owned them.
type Registry struct {
	mu       sync.RWMutex
	controls map[string]*ScanControl
}

// NewRegistry creates an empty control registry.
func NewRegistry() *Registry {
	return &Registry{
		controls: make(map[string]*ScanControl),
	}
}

// Register creates and registers a ScanControl for a scan. If one already
// exists it is returned unchanged.
func (r *Registry) Register(scanID string) *ScanControl {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ctrl, exists := r.controls[scanID]; exists {
		return ctrl
	}

	ctrl := New(scanID)
	r.controls[scanID] = ctrl

	log.Debug().Str("scan_id", scanID).Msg("Registered scan control")
	return ctrl
}

// Get returns the ScanControl for a scan, or nil if not tracked.
func (r *Registry) Get(scanID string) *ScanControl {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.controls[scanID]
}

// Cancel cancels a tracked scan. It reports whether the scan was being
// tracked; cancelling an untracked or already-cancelled scan is a no-op.
func (r *Registry) Cancel(scanID string) bool {
	ctrl := r.Get(scanID)
	if ctrl == nil {
		return false
	}
	ctrl.Cancel()
	log.Info().Str("scan_id", scanID).Msg("Scan cancelled")
	return true
}

// Unregister removes a ScanControl from the registry.
func (r *Registry) Unregister(scanID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.controls, scanID)
	log.Debug().Str("scan_id", scanID).Msg("Unregistered scan control")
}

// ActiveCount returns the number of tracked scans that are not cancelled.
func (r *Registry) ActiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, ctrl := range r.controls {
		if !ctrl.Cancelled() {
			count++
		}
	}
	return count
}

// CancelAll cancels every tracked scan, used at shutdown.
func (r *Registry) CancelAll() {
	r.mu.RLock()
	controls := make([]*ScanControl, 0, len(r.controls))
	for _, ctrl := range r.controls {
		controls = append(controls, ctrl)
	}
	r.mu.RUnlock()

	for _, ctrl := range controls {
		ctrl.Cancel()
	}
	if len(controls) > 0 {
		log.Info().Int("count", len(controls)).Msg("Cancelled all tracked scans")
	}
}
