package orchestrator

import (
	"context"
	"sync"

	"github.com/pyneda/kansa/pkg/scan"
)

// ticket is one unit waiting for admission.
type ticket struct {
	scanner scan.Scanner
	granted bool
	ready   chan struct{}
}

// unitQueue admits scan units under two token families: a global in-flight
// bound shared by every active scan and a per-scanner bound. Admission is
// FIFO with skip: the oldest waiting unit whose tokens are both free wins,
// and a saturated scanner never holds up units queued behind it.
type unitQueue struct {
	mu          sync.Mutex
	globalFree  int
	scannerFree map[scan.Scanner]int
	waiting     []*ticket
}

func newUnitQueue(maxTotal int, perScanner map[scan.Scanner]int) *unitQueue {
	free := make(map[scan.Scanner]int, len(perScanner))
	for scanner, slots := range perScanner {
		free[scanner] = slots
	}
	return &unitQueue{
		globalFree:  maxTotal,
		scannerFree: free,
	}
}

// Enqueue registers a unit and immediately grants it if both tokens are
// free. Units are considered for admission in Enqueue order.
func (q *unitQueue) Enqueue(scanner scan.Scanner) *ticket {
	t := &ticket{scanner: scanner, ready: make(chan struct{})}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.waiting = append(q.waiting, t)
	q.grantLocked()
	return t
}

// Await blocks until the ticket is granted or the context ends. A nil return
// means the caller holds both tokens and must Release them when done.
func (q *unitQueue) Await(ctx context.Context, t *ticket) error {
	select {
	case <-t.ready:
		if err := ctx.Err(); err != nil {
			q.Release(t.scanner)
			return err
		}
		return nil
	case <-ctx.Done():
		q.mu.Lock()
		if t.granted {
			q.mu.Unlock()
			// Granted concurrently with cancellation; hand the tokens back.
			q.Release(t.scanner)
			return ctx.Err()
		}
		q.removeLocked(t)
		q.mu.Unlock()
		return ctx.Err()
	}
}

// Release returns a unit's tokens and admits the next eligible waiters.
func (q *unitQueue) Release(scanner scan.Scanner) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.globalFree++
	q.scannerFree[scanner]++
	q.grantLocked()
}

func (q *unitQueue) grantLocked() {
	remaining := q.waiting[:0]
	for _, t := range q.waiting {
		if q.globalFree > 0 && q.scannerFree[t.scanner] > 0 {
			q.globalFree--
			q.scannerFree[t.scanner]--
			t.granted = true
			close(t.ready)
			continue
		}
		remaining = append(remaining, t)
	}
	q.waiting = remaining
}

func (q *unitQueue) removeLocked(t *ticket) {
	for i, waiting := range q.waiting {
		if waiting == t {
			q.waiting = append(q.waiting[:i], q.waiting[i+1:]...)
			return
		}
	}
}
