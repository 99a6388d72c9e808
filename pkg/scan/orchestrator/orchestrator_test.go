package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pyneda/kansa/pkg/events"
	"github.com/pyneda/kansa/pkg/scan"
	"github.com/pyneda/kansa/pkg/scan/control"
	"github.com/pyneda/kansa/pkg/scan/drivers"
	"github.com/pyneda/kansa/pkg/sessions"
)

func newTestEngine(t *testing.T, config Config) *Engine {
	t.Helper()
	engine := NewEngine(config, events.NewBus(), sessions.NewStore(sessions.Config{}), control.NewRegistry(), nil)
	t.Cleanup(engine.Shutdown)
	return engine
}

// fakeDriver honors the driver event contract around an injected outcome
// function.
type fakeDriver struct {
	scanner   scan.Scanner
	publisher drivers.Publisher
	drive     func(ctx context.Context, scanner scan.Scanner, pageURL string) scan.ScannerOutcome
}

func (d *fakeDriver) Scanner() scan.Scanner {
	return d.scanner
}

func (d *fakeDriver) Drive(ctx context.Context, pageURL string) scan.ScannerOutcome {
	d.publisher.Publish(events.ScannerStart, events.ScannerStartPayload{Scanner: d.scanner.String(), PageURL: pageURL})
	outcome := d.drive(ctx, d.scanner, pageURL)
	outcome.Scanner = d.scanner
	outcome.PageURL = pageURL
	if outcome.OK() {
		d.publisher.Publish(events.ScannerComplete, events.ScannerCompletePayload{
			Scanner: d.scanner.String(), PageURL: pageURL, DurationMs: outcome.Duration.Milliseconds(),
		})
	} else {
		d.publisher.Publish(events.ScannerError, events.ScannerErrorPayload{
			Scanner: d.scanner.String(), PageURL: pageURL, Status: outcome.Status.String(), Error: outcome.Error,
		})
	}
	return outcome
}

func fakeDrivers(drive func(ctx context.Context, scanner scan.Scanner, pageURL string) scan.ScannerOutcome) driverFactory {
	return func(request scan.Request, config drivers.Config, publisher drivers.Publisher) map[scan.Scanner]drivers.Driver {
		built := make(map[scan.Scanner]drivers.Driver, len(request.Scanners))
		for _, scanner := range request.Scanners {
			built[scanner] = &fakeDriver{scanner: scanner, publisher: publisher, drive: drive}
		}
		return built
	}
}

func emptyRawFor(scanner scan.Scanner) json.RawMessage {
	switch scanner {
	case scan.ScannerWave:
		return json.RawMessage(`{"categories": {}}`)
	case scan.ScannerPa11y:
		return json.RawMessage(`[]`)
	case scan.ScannerAxe:
		return json.RawMessage(`{"violations": []}`)
	default:
		return json.RawMessage(`{"audits": {}}`)
	}
}

// collectEvents drains a subscription until the terminal event closes the
// stream, skipping heartbeats.
func collectEvents(t *testing.T, sub *events.Subscription) []events.Event {
	t.Helper()
	collected := append([]events.Event{}, sub.Replay...)
	timeout := time.After(10 * time.Second)
	for {
		select {
		case event, ok := <-sub.C:
			if !ok {
				return collected
			}
			if event.Type == events.Heartbeat {
				continue
			}
			collected = append(collected, event)
		case <-timeout:
			t.Fatalf("timed out draining events, got %d so far", len(collected))
		}
	}
}

func eventTypes(collected []events.Event) []events.Type {
	types := make([]events.Type, 0, len(collected))
	for _, event := range collected {
		types = append(types, event.Type)
	}
	return types
}

// assertEventOrder checks that want appears as an ordered subsequence of the
// collected events.
func assertEventOrder(t *testing.T, collected []events.Event, want ...events.Type) {
	t.Helper()
	matched := 0
	for _, event := range collected {
		if matched < len(want) && event.Type == want[matched] {
			matched++
		}
	}
	if matched != len(want) {
		t.Errorf("event order mismatch:\nwant subsequence %v\ngot %v", want, eventTypes(collected))
	}
}

func assertSingleTerminal(t *testing.T, collected []events.Event) {
	t.Helper()
	terminals := 0
	for _, event := range collected {
		if event.Type.Terminal() {
			terminals++
		}
	}
	if terminals != 1 {
		t.Errorf("terminal events = %d, want exactly 1 in %v", terminals, eventTypes(collected))
	}
	if len(collected) == 0 || !collected[len(collected)-1].Type.Terminal() {
		t.Errorf("stream should end with the terminal event, got %v", eventTypes(collected))
	}
}

func assertSequentialSeqs(t *testing.T, collected []events.Event) {
	t.Helper()
	for i, event := range collected {
		if event.Seq != uint64(i+1) {
			t.Errorf("event %d (%s) seq = %d, want %d", i, event.Type, event.Seq, i+1)
			return
		}
	}
}

func mustSubmit(t *testing.T, engine *Engine, request scan.Request) string {
	t.Helper()
	id, err := engine.Submit(request)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	return id
}

func mustSubscribe(t *testing.T, engine *Engine, id string) *events.Subscription {
	t.Helper()
	sub, err := engine.Subscribe(id)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	return sub
}

func TestEngineSimulatedHappyPath(t *testing.T) {
	engine := newTestEngine(t, Config{})

	id := mustSubmit(t, engine, scan.Request{
		URL:      "https://example.com",
		Scanners: []scan.Scanner{scan.ScannerPa11y},
		Policy:   scan.PolicyExplicitList,
		Pages:    []string{"https://example.com/"},
		Simulate: true,
	})
	collected := collectEvents(t, mustSubscribe(t, engine, id))
	engine.Wait()

	assertEventOrder(t, collected,
		events.ScanStart,
		events.ScannerStart,
		events.ScannerComplete,
		events.PageProgress,
		events.AggregationStart,
		events.ScanComplete,
	)
	assertSingleTerminal(t, collected)
	assertSequentialSeqs(t, collected)

	snapshot, err := engine.Status(id)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if snapshot.State != scan.StateCompleted {
		t.Errorf("state = %s, want %s", snapshot.State, scan.StateCompleted)
	}
	if snapshot.Progress != 100 {
		t.Errorf("progress = %v, want 100", snapshot.Progress)
	}
	if snapshot.UnitsDone != 1 || snapshot.PagesDone != 1 {
		t.Errorf("units done = %d, pages done = %d, want 1 and 1", snapshot.UnitsDone, snapshot.PagesDone)
	}

	result, err := engine.Result(id)
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if result.TotalOutcomes != 1 || result.SuccessOutcomes != 1 {
		t.Errorf("outcomes = %d/%d, want 1/1", result.SuccessOutcomes, result.TotalOutcomes)
	}
	if result.Confidence != 100 {
		t.Errorf("confidence = %d, want 100", result.Confidence)
	}
	if len(result.Findings) == 0 {
		t.Error("simulated scan should produce findings")
	}
	if summary := result.ScannerSummaries[scan.ScannerPa11y]; summary.OK != 1 {
		t.Errorf("pa11y summary = %+v, want one OK unit", summary)
	}
}

func TestEngineSimulatedCrawlPolicy(t *testing.T) {
	engine := newTestEngine(t, Config{})

	id := mustSubmit(t, engine, scan.Request{
		URL:      "https://Example.com",
		Scanners: []scan.Scanner{scan.ScannerAxe},
		Simulate: true,
	})
	collected := collectEvents(t, mustSubscribe(t, engine, id))
	engine.Wait()

	// Simulation synthesizes a one-page discovery for the canonical seed.
	assertEventOrder(t, collected, events.ScanStart, events.DiscoveryProgress, events.ScannerStart, events.ScanComplete)

	result, err := engine.Result(id)
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if result.PagesScanned != 1 {
		t.Errorf("pages scanned = %d, want 1", result.PagesScanned)
	}

	snapshot, _ := engine.Status(id)
	if snapshot.PagesTotal != 1 {
		t.Errorf("pages total = %d, want 1", snapshot.PagesTotal)
	}
}

func TestEngineSimulatedDeterminism(t *testing.T) {
	engine := newTestEngine(t, Config{})
	request := scan.Request{
		URL:      "https://example.com",
		Scanners: scan.AllScanners(),
		Policy:   scan.PolicyExplicitList,
		Pages:    []string{"https://example.com/", "https://example.com/contact"},
		Simulate: true,
	}

	run := func() scan.AggregatedResult {
		id := mustSubmit(t, engine, request)
		collectEvents(t, mustSubscribe(t, engine, id))
		engine.Wait()
		result, err := engine.Result(id)
		if err != nil {
			t.Fatalf("Result() error = %v", err)
		}
		return result
	}

	first := run()
	second := run()
	if !reflect.DeepEqual(first.Findings, second.Findings) {
		t.Error("repeated simulated scans should produce identical findings")
	}
	if first.Score != second.Score || first.ComplianceLevel != second.ComplianceLevel {
		t.Errorf("scores differ across runs: %v/%s vs %v/%s",
			first.Score, first.ComplianceLevel, second.Score, second.ComplianceLevel)
	}
}

func TestEngineAllUnitsTimeOut(t *testing.T) {
	engine := newTestEngine(t, Config{})
	engine.factory = fakeDrivers(func(ctx context.Context, scanner scan.Scanner, pageURL string) scan.ScannerOutcome {
		return scan.ScannerOutcome{Status: scan.OutcomeTimedOut, Error: "scanner did not answer within 1ms"}
	})

	id := mustSubmit(t, engine, scan.Request{
		URL:      "https://example.com",
		Scanners: scan.AllScanners(),
		Policy:   scan.PolicyExplicitList,
		Pages:    []string{"https://example.com/"},
	})
	collected := collectEvents(t, mustSubscribe(t, engine, id))
	engine.Wait()

	errorEvents := 0
	for _, event := range collected {
		if event.Type == events.ScannerError {
			errorEvents++
		}
	}
	if errorEvents != 4 {
		t.Errorf("SCANNER_ERROR events = %d, want 4", errorEvents)
	}
	assertSingleTerminal(t, collected)

	last := collected[len(collected)-1]
	if last.Type != events.ScanFailed {
		t.Fatalf("terminal event = %s, want %s", last.Type, events.ScanFailed)
	}
	payload, ok := last.Payload.(events.ScanFailedPayload)
	if !ok || payload.Kind != scan.FailureAllScannersFailed.String() {
		t.Errorf("terminal payload = %+v, want kind %s", last.Payload, scan.FailureAllScannersFailed)
	}

	snapshot, _ := engine.Status(id)
	if snapshot.State != scan.StateFailed || snapshot.FailureKind != scan.FailureAllScannersFailed {
		t.Errorf("session = %s/%s, want FAILED/ALL_SCANNERS_FAILED", snapshot.State, snapshot.FailureKind)
	}
	if snapshot.UnitsDone != 4 {
		t.Errorf("recorded outcomes = %d, want 4", snapshot.UnitsDone)
	}
	if _, err := engine.Result(id); !errors.Is(err, scan.ErrNotCompleted) {
		t.Errorf("Result() error = %v, want ErrNotCompleted", err)
	}
}

func TestEnginePartialFailureConfidence(t *testing.T) {
	engine := newTestEngine(t, Config{})
	engine.factory = fakeDrivers(func(ctx context.Context, scanner scan.Scanner, pageURL string) scan.ScannerOutcome {
		if scanner == scan.ScannerLighthouse {
			return scan.ScannerOutcome{Status: scan.OutcomeFailed, Error: "could not launch browser"}
		}
		return scan.ScannerOutcome{Status: scan.OutcomeOK, Raw: emptyRawFor(scanner), Duration: time.Millisecond}
	})

	id := mustSubmit(t, engine, scan.Request{
		URL:      "https://example.com",
		Scanners: scan.AllScanners(),
		Policy:   scan.PolicyExplicitList,
		Pages:    []string{"https://example.com/", "https://example.com/contact"},
	})
	collected := collectEvents(t, mustSubscribe(t, engine, id))
	engine.Wait()

	assertEventOrder(t, collected, events.ScanStart, events.ScannerStart, events.AggregationStart, events.ScanComplete)
	pageProgress := 0
	for _, event := range collected {
		if event.Type == events.PageProgress {
			pageProgress++
		}
	}
	if pageProgress != 2 {
		t.Errorf("PAGE_PROGRESS events = %d, want 2", pageProgress)
	}

	result, err := engine.Result(id)
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if result.TotalOutcomes != 8 || result.SuccessOutcomes != 6 {
		t.Errorf("outcomes = %d/%d, want 6/8", result.SuccessOutcomes, result.TotalOutcomes)
	}
	if result.Confidence != 75 {
		t.Errorf("confidence = %d, want 75", result.Confidence)
	}
	if summary := result.ScannerSummaries[scan.ScannerLighthouse]; summary.Failed != 2 {
		t.Errorf("lighthouse summary = %+v, want two failed units", summary)
	}
	if result.PagesScanned != 2 {
		t.Errorf("pages scanned = %d, want 2", result.PagesScanned)
	}
}

func TestEngineCancelMidScan(t *testing.T) {
	engine := newTestEngine(t, Config{})
	var calls atomic.Int64
	engine.factory = fakeDrivers(func(ctx context.Context, scanner scan.Scanner, pageURL string) scan.ScannerOutcome {
		if calls.Add(1) == 1 {
			return scan.ScannerOutcome{Status: scan.OutcomeOK, Raw: emptyRawFor(scanner), Duration: time.Millisecond}
		}
		<-ctx.Done()
		return scan.ScannerOutcome{Status: scan.OutcomeFailed, Error: "interrupted"}
	})

	pages := make([]string, 10)
	for i := range pages {
		pages[i] = fmt.Sprintf("https://example.com/page-%d", i)
	}
	id := mustSubmit(t, engine, scan.Request{
		URL:      "https://example.com",
		Scanners: []scan.Scanner{scan.ScannerAxe},
		Policy:   scan.PolicyExplicitList,
		Pages:    pages,
	})
	sub := mustSubscribe(t, engine, id)

	var collected []events.Event
	cancelled := false
	process := func(event events.Event) {
		collected = append(collected, event)
		if !cancelled && event.Type == events.PageProgress {
			cancelled = true
			if err := engine.Cancel(id); err != nil {
				t.Errorf("Cancel() error = %v", err)
			}
		}
	}
	for _, event := range sub.Replay {
		process(event)
	}
	timeout := time.After(10 * time.Second)
drain:
	for {
		select {
		case event, ok := <-sub.C:
			if !ok {
				break drain
			}
			if event.Type == events.Heartbeat {
				continue
			}
			process(event)
		case <-timeout:
			t.Fatalf("timed out waiting for cancelled scan to settle, got %v", eventTypes(collected))
		}
	}
	engine.Wait()

	if !cancelled {
		t.Fatalf("never saw PAGE_PROGRESS, got %v", eventTypes(collected))
	}
	assertSingleTerminal(t, collected)
	last := collected[len(collected)-1]
	if last.Type != events.ScanFailed {
		t.Fatalf("terminal event = %s, want %s", last.Type, events.ScanFailed)
	}
	if payload, ok := last.Payload.(events.ScanFailedPayload); !ok || payload.Kind != scan.FailureCancelled.String() {
		t.Errorf("terminal payload = %+v, want kind %s", last.Payload, scan.FailureCancelled)
	}

	snapshot, _ := engine.Status(id)
	if snapshot.State != scan.StateCancelled {
		t.Errorf("state = %s, want %s", snapshot.State, scan.StateCancelled)
	}
	if snapshot.UnitsDone >= len(pages) {
		t.Errorf("units done = %d, undispatched units must not record outcomes", snapshot.UnitsDone)
	}
	if snapshot.UnitsDone < 1 {
		t.Error("the completed unit should have recorded its outcome")
	}

	if err := engine.Cancel(id); !errors.Is(err, scan.ErrAlreadyTerminal) {
		t.Errorf("Cancel() after terminal = %v, want ErrAlreadyTerminal", err)
	}
}

func TestEngineSessionTimeout(t *testing.T) {
	engine := newTestEngine(t, Config{SessionTimeout: 100 * time.Millisecond})
	engine.factory = fakeDrivers(func(ctx context.Context, scanner scan.Scanner, pageURL string) scan.ScannerOutcome {
		<-ctx.Done()
		return scan.ScannerOutcome{Status: scan.OutcomeTimedOut, Error: "scanner did not answer"}
	})

	id := mustSubmit(t, engine, scan.Request{
		URL:      "https://example.com",
		Scanners: []scan.Scanner{scan.ScannerAxe},
		Policy:   scan.PolicyExplicitList,
		Pages:    []string{"https://example.com/"},
	})
	collected := collectEvents(t, mustSubscribe(t, engine, id))
	engine.Wait()

	assertSingleTerminal(t, collected)
	last := collected[len(collected)-1]
	if payload, ok := last.Payload.(events.ScanFailedPayload); !ok || payload.Kind != scan.FailureSessionTimeout.String() {
		t.Errorf("terminal payload = %+v, want kind %s", last.Payload, scan.FailureSessionTimeout)
	}
	snapshot, _ := engine.Status(id)
	if snapshot.State != scan.StateFailed || snapshot.FailureKind != scan.FailureSessionTimeout {
		t.Errorf("session = %s/%s, want FAILED/SESSION_TIMEOUT", snapshot.State, snapshot.FailureKind)
	}
}

func TestEngineDiscoveryEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	seed := server.URL
	server.Close()

	engine := newTestEngine(t, Config{})
	id := mustSubmit(t, engine, scan.Request{
		URL:      seed,
		Scanners: []scan.Scanner{scan.ScannerAxe},
	})
	collected := collectEvents(t, mustSubscribe(t, engine, id))
	engine.Wait()

	assertSingleTerminal(t, collected)
	last := collected[len(collected)-1]
	if last.Type != events.ScanFailed {
		t.Fatalf("terminal event = %s, want %s", last.Type, events.ScanFailed)
	}
	if payload, ok := last.Payload.(events.ScanFailedPayload); !ok || payload.Kind != scan.FailureDiscoveryEmpty.String() {
		t.Errorf("terminal payload = %+v, want kind %s", last.Payload, scan.FailureDiscoveryEmpty)
	}
	snapshot, _ := engine.Status(id)
	if snapshot.State != scan.StateFailed || snapshot.FailureKind != scan.FailureDiscoveryEmpty {
		t.Errorf("session = %s/%s, want FAILED/DISCOVERY_EMPTY", snapshot.State, snapshot.FailureKind)
	}
}

func TestEngineWorkerPanicFailsScan(t *testing.T) {
	engine := newTestEngine(t, Config{})
	engine.factory = fakeDrivers(func(ctx context.Context, scanner scan.Scanner, pageURL string) scan.ScannerOutcome {
		panic("driver exploded")
	})

	id := mustSubmit(t, engine, scan.Request{
		URL:      "https://example.com",
		Scanners: []scan.Scanner{scan.ScannerAxe},
		Policy:   scan.PolicyExplicitList,
		Pages:    []string{"https://example.com/"},
	})
	collected := collectEvents(t, mustSubscribe(t, engine, id))
	engine.Wait()

	assertSingleTerminal(t, collected)
	last := collected[len(collected)-1]
	if payload, ok := last.Payload.(events.ScanFailedPayload); !ok || payload.Kind != scan.FailureInternal.String() {
		t.Errorf("terminal payload = %+v, want kind %s", last.Payload, scan.FailureInternal)
	}
	snapshot, _ := engine.Status(id)
	if snapshot.State != scan.StateFailed || snapshot.FailureKind != scan.FailureInternal {
		t.Errorf("session = %s/%s, want FAILED/INTERNAL", snapshot.State, snapshot.FailureKind)
	}

	// The engine keeps serving after a worker crash.
	engine.factory = drivers.ForRequest
	second := mustSubmit(t, engine, scan.Request{
		URL:      "https://example.com",
		Scanners: []scan.Scanner{scan.ScannerAxe},
		Policy:   scan.PolicyExplicitList,
		Pages:    []string{"https://example.com/"},
		Simulate: true,
	})
	collectEvents(t, mustSubscribe(t, engine, second))
	engine.Wait()
	if snapshot, _ := engine.Status(second); snapshot.State != scan.StateCompleted {
		t.Errorf("follow-up scan state = %s, want COMPLETED", snapshot.State)
	}
}

func TestEngineReplayAfterTerminal(t *testing.T) {
	engine := newTestEngine(t, Config{})
	id := mustSubmit(t, engine, scan.Request{
		URL:      "https://example.com",
		Scanners: []scan.Scanner{scan.ScannerWave, scan.ScannerAxe},
		Policy:   scan.PolicyExplicitList,
		Pages:    []string{"https://example.com/"},
		Simulate: true,
	})
	live := collectEvents(t, mustSubscribe(t, engine, id))
	engine.Wait()

	replay := mustSubscribe(t, engine, id)
	if len(replay.Replay) != len(live) {
		t.Errorf("replay holds %d events, want %d", len(replay.Replay), len(live))
	}
	if len(replay.Replay) == 0 || !replay.Replay[len(replay.Replay)-1].Type.Terminal() {
		t.Error("replay should end with the terminal event")
	}
	assertSequentialSeqs(t, replay.Replay)

	select {
	case _, ok := <-replay.C:
		if ok {
			t.Error("subscription after terminal should deliver nothing")
		}
	case <-time.After(time.Second):
		t.Error("subscription channel after terminal should be closed")
	}
}

func TestEngineResultVersions(t *testing.T) {
	engine := newTestEngine(t, Config{})
	id := mustSubmit(t, engine, scan.Request{
		URL:      "https://example.com",
		Scanners: []scan.Scanner{scan.ScannerAxe},
		Policy:   scan.PolicyExplicitList,
		Pages:    []string{"https://example.com/"},
		Simulate: true,
	})
	collectEvents(t, mustSubscribe(t, engine, id))
	engine.Wait()

	versions, err := engine.Versions(id)
	if err != nil {
		t.Fatalf("Versions() error = %v", err)
	}
	if len(versions) != 1 || versions[0].Version != 1 || versions[0].Label != "initial" {
		t.Fatalf("versions = %+v, want single initial version", versions)
	}

	result, _ := engine.Result(id)
	rescored := result
	rescored.Score = 42
	version, err := engine.AddVersion(id, rescored, "manual-rescore")
	if err != nil {
		t.Fatalf("AddVersion() error = %v", err)
	}
	if version.Version != 2 || version.Label != "manual-rescore" {
		t.Errorf("added version = %+v, want version 2", version)
	}

	versions, _ = engine.Versions(id)
	if len(versions) != 2 {
		t.Errorf("versions = %d, want 2", len(versions))
	}
	if got, _ := engine.Result(id); got.Score != result.Score {
		t.Error("AddVersion must not replace the canonical result")
	}
}

func TestEngineSubmitValidation(t *testing.T) {
	engine := newTestEngine(t, Config{})

	_, err := engine.Submit(scan.Request{URL: "not a url", Scanners: []scan.Scanner{scan.ScannerAxe}})
	var validationErr *scan.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Submit() error = %v, want ValidationError", err)
	}
	if len(engine.Scans()) != 0 {
		t.Error("rejected request should create no session")
	}

	if _, err := engine.Submit(scan.Request{URL: "https://example.com", Scanners: nil}); err == nil {
		t.Error("request without scanners should be rejected")
	}
}

func TestEngineUnknownScan(t *testing.T) {
	engine := newTestEngine(t, Config{})

	if _, err := engine.Status("missing"); !errors.Is(err, sessions.ErrNotFound) {
		t.Errorf("Status() error = %v, want ErrNotFound", err)
	}
	if _, err := engine.Result("missing"); !errors.Is(err, sessions.ErrNotFound) {
		t.Errorf("Result() error = %v, want ErrNotFound", err)
	}
	if err := engine.Cancel("missing"); !errors.Is(err, sessions.ErrNotFound) {
		t.Errorf("Cancel() error = %v, want ErrNotFound", err)
	}
	if _, err := engine.Subscribe("missing"); !errors.Is(err, sessions.ErrNotFound) {
		t.Errorf("Subscribe() error = %v, want ErrNotFound", err)
	}
}

func TestEngineResultBeforeCompletion(t *testing.T) {
	engine := newTestEngine(t, Config{})
	release := make(chan struct{})
	engine.factory = fakeDrivers(func(ctx context.Context, scanner scan.Scanner, pageURL string) scan.ScannerOutcome {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return scan.ScannerOutcome{Status: scan.OutcomeOK, Raw: emptyRawFor(scanner), Duration: time.Millisecond}
	})

	id := mustSubmit(t, engine, scan.Request{
		URL:      "https://example.com",
		Scanners: []scan.Scanner{scan.ScannerAxe},
		Policy:   scan.PolicyExplicitList,
		Pages:    []string{"https://example.com/"},
	})

	if _, err := engine.Result(id); !errors.Is(err, scan.ErrNotCompleted) {
		t.Errorf("Result() on running scan = %v, want ErrNotCompleted", err)
	}
	if _, err := engine.Versions(id); !errors.Is(err, scan.ErrNotCompleted) {
		t.Errorf("Versions() on running scan = %v, want ErrNotCompleted", err)
	}

	close(release)
	collectEvents(t, mustSubscribe(t, engine, id))
	engine.Wait()
	if _, err := engine.Result(id); err != nil {
		t.Errorf("Result() after completion error = %v", err)
	}
}
