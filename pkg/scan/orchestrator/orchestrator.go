// Package orchestrator runs accessibility scans end to end and manages their
// phase transitions: discovery → selection → scanning → normalization. One
// Engine serves the whole process; each submitted scan gets its own worker
// goroutine, event topic and cancellation control, while scanner units from
// every active scan share one dual-token admission queue.
package orchestrator

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"

	"github.com/pyneda/kansa/pkg/events"
	"github.com/pyneda/kansa/pkg/scan"
	"github.com/pyneda/kansa/pkg/scan/control"
	"github.com/pyneda/kansa/pkg/scan/drivers"
	"github.com/pyneda/kansa/pkg/scan/normalize"
	"github.com/pyneda/kansa/pkg/sessions"
)

// Archiver persists finished scans. The engine treats it as optional; nil
// disables persistence.
type Archiver interface {
	// WatchScan consumes a scan's event stream into durable storage. The
	// subscription is attached before the first event is published.
	WatchScan(scanID string, subscription *events.Subscription)
	// PersistScan writes the session's summary and raw outcomes once the
	// scan reached a terminal state.
	PersistScan(session *scan.ScanSession) error
}

type driverFactory func(request scan.Request, config drivers.Config, publisher drivers.Publisher) map[scan.Scanner]drivers.Driver

// Engine owns scan execution. All exported methods are safe for concurrent
// use.
type Engine struct {
	config     Config
	bus        *events.Bus
	store      *sessions.Store
	controls   *control.Registry
	queue      *unitQueue
	normalizer *normalize.Normalizer
	archiver   Archiver
	factory    driverFactory
	wg         conc.WaitGroup
}

// NewEngine wires an engine onto the shared bus, session store and control
// registry. Store eviction drops the scan's event topic; active-session
// expiry cancels its worker.
func NewEngine(config Config, bus *events.Bus, store *sessions.Store, controls *control.Registry, archiver Archiver) *Engine {
	config = config.WithDefaults()
	e := &Engine{
		config:     config,
		bus:        bus,
		store:      store,
		controls:   controls,
		queue:      newUnitQueue(config.MaxTotal, config.PerScanner),
		normalizer: normalize.NewNormalizer(),
		archiver:   archiver,
		factory:    drivers.ForRequest,
	}
	store.OnEvict(func(id string) {
		bus.Remove(id)
	})
	store.OnExpire(func(id string) {
		controls.Cancel(id)
	})
	return e
}

// Submit validates the request and starts its scan worker. The returned id
// addresses the session everywhere: status, events, cancel, results.
func (e *Engine) Submit(request scan.Request) (string, error) {
	request = request.WithDefaults()
	if err := request.Validate(); err != nil {
		return "", err
	}

	id := uuid.New().String()
	session := scan.NewScanSession(id, request)
	e.store.PutScan(session)
	ctl := e.controls.Register(id)
	if e.archiver != nil {
		e.archiver.WatchScan(id, e.bus.Subscribe(id))
	}

	log.Info().Str("scan", id).Str("url", request.URL).Strs("scanners", request.ScannerNames()).Msg("Scan submitted")
	e.wg.Go(func() {
		e.runScan(session, ctl)
	})
	return id, nil
}

// Status returns a point-in-time snapshot of the session.
func (e *Engine) Status(id string) (scan.ScanSnapshot, error) {
	session, err := e.store.Scan(id)
	if err != nil {
		return scan.ScanSnapshot{}, err
	}
	return session.Snapshot(), nil
}

// Result returns the aggregated result of a completed scan.
func (e *Engine) Result(id string) (scan.AggregatedResult, error) {
	session, err := e.store.Scan(id)
	if err != nil {
		return scan.AggregatedResult{}, err
	}
	result, ok := session.Result()
	if !ok {
		return scan.AggregatedResult{}, scan.ErrNotCompleted
	}
	return result, nil
}

// Versions returns the retained result versions, oldest first.
func (e *Engine) Versions(id string) ([]scan.ResultVersion, error) {
	session, err := e.store.Scan(id)
	if err != nil {
		return nil, err
	}
	if _, ok := session.Result(); !ok {
		return nil, scan.ErrNotCompleted
	}
	return session.Versions(), nil
}

// AddVersion records a reprocessed result against a completed scan.
func (e *Engine) AddVersion(id string, result scan.AggregatedResult, label string) (scan.ResultVersion, error) {
	session, err := e.store.Scan(id)
	if err != nil {
		return scan.ResultVersion{}, err
	}
	if _, ok := session.Result(); !ok {
		return scan.ResultVersion{}, scan.ErrNotCompleted
	}
	version := session.AddVersion(result, label)
	log.Info().Str("scan", id).Int("version", version.Version).Str("label", label).Msg("Result version added")
	return version, nil
}

// Cancel requests cooperative cancellation of an active scan. The session
// reaches CANCELLED once in-flight units drain.
func (e *Engine) Cancel(id string) error {
	session, err := e.store.Scan(id)
	if err != nil {
		return err
	}
	if session.State().Terminal() {
		return scan.ErrAlreadyTerminal
	}
	e.controls.Cancel(id)
	log.Info().Str("scan", id).Msg("Scan cancellation requested")
	return nil
}

// Subscribe attaches a consumer to the scan's event stream. The replay slice
// carries the retained prefix; the channel delivers the rest.
func (e *Engine) Subscribe(id string) (*events.Subscription, error) {
	if _, err := e.store.Scan(id); err != nil {
		return nil, err
	}
	return e.bus.Subscribe(id), nil
}

// Scans lists snapshots of every retained session, newest first.
func (e *Engine) Scans() []scan.ScanSnapshot {
	return e.store.ScanSnapshots()
}

// Wait blocks until every running scan worker has finished.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Shutdown cancels all active scans, waits for their workers to drain and
// tears down the shared store and bus.
func (e *Engine) Shutdown() {
	e.controls.CancelAll()
	e.wg.Wait()
	e.store.Close()
	e.bus.Close()
	log.Info().Msg("Scan engine stopped")
}

// publish emits a scan event and records its sequence number on the session.
func (e *Engine) publish(session *scan.ScanSession, eventType events.Type, payload interface{}) {
	event, ok := e.bus.Publish(session.ID(), eventType, payload)
	if ok {
		session.SetLastSeq(event.Seq)
	}
}

// persist hands the terminal session to the archiver, if one is wired.
func (e *Engine) persist(session *scan.ScanSession) {
	if e.archiver == nil {
		return
	}
	if err := e.archiver.PersistScan(session); err != nil {
		log.Warn().Err(err).Str("scan", session.ID()).Msg("Failed to persist scan")
	}
}
