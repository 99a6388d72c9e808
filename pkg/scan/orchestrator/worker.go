package orchestrator

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"

	"github.com/pyneda/kansa/lib"
	"github.com/pyneda/kansa/pkg/crawl"
	"github.com/pyneda/kansa/pkg/events"
	"github.com/pyneda/kansa/pkg/scan"
	"github.com/pyneda/kansa/pkg/scan/control"
	"github.com/pyneda/kansa/pkg/scan/drivers"
	"github.com/pyneda/kansa/pkg/scan/selector"
)

// runScan drives one session through the pipeline. Every exit path leaves
// the session terminal with exactly one terminal event published.
func (e *Engine) runScan(session *scan.ScanSession, ctl *control.ScanControl) {
	defer e.controls.Unregister(session.ID())
	defer e.persist(session)
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("scan", session.ID()).Interface("panic", r).Msg("Scan worker panicked")
			e.fail(session, scan.FailureInternal, fmt.Sprintf("scan worker panicked: %v", r))
		}
	}()

	ctx, cancel := context.WithTimeout(ctl.Context(), e.config.SessionTimeout)
	defer cancel()

	request := session.Request()
	e.publish(session, events.ScanStart, events.ScanStartPayload{
		URL:      request.URL,
		Scanners: request.ScannerNames(),
		Simulate: request.Simulate,
	})

	discovered, ok := e.discover(ctx, session)
	if !ok {
		return
	}
	if e.finishInterrupted(ctx, session, ctl) {
		return
	}

	session.SetState(scan.StateSelecting)
	session.SetProgress(10)
	selection := selector.Select(discovered, request, e.config.SelectionCap)
	if len(selection) == 0 {
		e.fail(session, scan.FailureDiscoveryEmpty, "no scannable pages discovered")
		return
	}

	session.BeginScanning(selection, request.Scanners)
	session.SetState(scan.StateScanning)
	session.SetProgress(15)
	log.Info().Str("scan", session.ID()).Int("pages", len(selection)).Int("scanners", len(request.Scanners)).Msg("Dispatching scanner units")

	e.runUnits(ctx, session, selection)
	if e.finishInterrupted(ctx, session, ctl) {
		return
	}

	e.aggregate(session)
}

// discover produces candidate pages for selection. Explicit page lists skip
// the crawl entirely; simulated scans synthesize a single-page discovery so
// nothing touches the network.
func (e *Engine) discover(ctx context.Context, session *scan.ScanSession) ([]scan.DiscoveredPage, bool) {
	request := session.Request()
	session.SetState(scan.StateDiscovering)

	if request.Policy == scan.PolicyExplicitList {
		return nil, true
	}

	if request.Simulate {
		canonical, err := lib.CanonicalizeURL(request.URL)
		if err != nil {
			e.fail(session, scan.FailureValidation, fmt.Sprintf("seed URL rejected: %v", err))
			return nil, false
		}
		e.publish(session, events.DiscoveryProgress, events.DiscoveryProgressPayload{PagesFound: 1, LastURL: canonical})
		session.SetProgress(10)
		return []scan.DiscoveredPage{{URL: canonical, Type: scan.PageTypeHomepage, Priority: 100}}, true
	}

	options := e.config.Crawl
	options.MaxPages = request.MaxPages
	options.MaxDepth = request.MaxDepth
	crawler, err := crawl.NewCrawler(request.URL, options)
	if err != nil {
		e.fail(session, scan.FailureValidation, fmt.Sprintf("seed URL rejected: %v", err))
		return nil, false
	}

	maxPages, _ := crawler.Bounds()
	crawler.OnPage(func(page scan.DiscoveredPage, total int) {
		e.publish(session, events.DiscoveryProgress, events.DiscoveryProgressPayload{
			PagesFound: total,
			LastURL:    page.URL,
			Depth:      page.Depth,
		})
		if maxPages > 0 {
			session.SetProgress(10 * float64(total) / float64(maxPages))
		}
	})
	return crawler.Run(ctx), true
}

// runUnits dispatches one unit per (page, scanner) pair and blocks until
// every dispatched unit recorded its outcome. Units are enqueued page-major;
// the admission queue bounds how many actually run. Cancellation abandons
// units that were never dispatched, so they produce no outcome at all.
func (e *Engine) runUnits(ctx context.Context, session *scan.ScanSession, selection scan.PageSelection) {
	request := session.Request()
	publisher := drivers.PublisherFunc(func(eventType events.Type, payload interface{}) {
		e.publish(session, eventType, payload)
	})
	driverSet := e.factory(request, e.config.Drivers, publisher)

	totalPages := len(selection)
	totalUnits := totalPages * len(request.Scanners)
	var done atomic.Int64
	var wg conc.WaitGroup
	for _, page := range selection {
		for _, scanner := range request.Scanners {
			page, scanner := page, scanner
			t := e.queue.Enqueue(scanner)
			wg.Go(func() {
				if err := e.queue.Await(ctx, t); err != nil {
					return
				}
				defer e.queue.Release(scanner)

				outcome := driveUnit(ctx, driverSet, scanner, page)
				e.finishUnit(session, outcome, totalPages, totalUnits, &done)
			})
		}
	}
	wg.Wait()
}

// driveUnit invokes the scanner's driver for one page. A unit whose scanner
// has no driver is recorded as SKIPPED rather than failing the scan.
func driveUnit(ctx context.Context, driverSet map[scan.Scanner]drivers.Driver, scanner scan.Scanner, pageURL string) scan.ScannerOutcome {
	driver, ok := driverSet[scanner]
	if !ok {
		return scan.ScannerOutcome{
			PageURL: pageURL,
			Scanner: scanner,
			Status:  scan.OutcomeSkipped,
			Error:   "no driver available",
		}
	}
	return driver.Drive(ctx, pageURL)
}

// finishUnit records an outcome, advances overall progress and publishes
// PAGE_PROGRESS when the outcome settles its page.
func (e *Engine) finishUnit(session *scan.ScanSession, outcome scan.ScannerOutcome, totalPages, totalUnits int, done *atomic.Int64) {
	pageCompleted, pagesDone := session.RecordOutcome(outcome)
	percent := 15 + 75*float64(done.Add(1))/float64(totalUnits)
	session.SetProgress(percent)
	if pageCompleted {
		e.publish(session, events.PageProgress, events.PageProgressPayload{
			PageURL:         outcome.PageURL,
			PagesCompleted:  pagesDone,
			PagesTotal:      totalPages,
			ProgressPercent: percent,
		})
	}
}

// aggregate normalizes the recorded outcomes into the version 1 result and
// completes the session. The all-failed check happens before NORMALIZING is
// entered; a normalizer panic fails the scan with the raw outcomes preserved
// on the session.
func (e *Engine) aggregate(session *scan.ScanSession) {
	outcomes := session.Outcomes()
	successful := 0
	for _, outcome := range outcomes {
		if outcome.OK() {
			successful++
		}
	}
	if successful == 0 {
		e.fail(session, scan.FailureAllScannersFailed, "every scanner unit failed")
		return
	}

	session.SetState(scan.StateNormalizing)
	session.SetProgress(90)
	e.publish(session, events.AggregationStart, events.AggregationStartPayload{Outcomes: len(outcomes)})

	result, stats, err := e.normalize(session.ID(), outcomes)
	if err != nil {
		e.fail(session, scan.FailureNormalization, err.Error())
		return
	}

	session.MergeStats(stats)
	session.Complete(result)
	e.publish(session, events.ScanComplete, events.ScanCompletePayload{
		Score:           result.Score,
		ComplianceLevel: result.ComplianceLevel.String(),
		Findings:        len(result.Findings),
		Confidence:      result.Confidence,
	})
	log.Info().Str("scan", session.ID()).Float64("score", result.Score).Str("compliance", result.ComplianceLevel.String()).Int("findings", len(result.Findings)).Msg("Scan completed")
}

// normalize shields the worker from aggregation panics.
func (e *Engine) normalize(scanID string, outcomes []scan.ScannerOutcome) (result scan.AggregatedResult, stats scan.ProcessingStats, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("scan", scanID).Interface("panic", r).Msg("Normalizer panicked")
			err = fmt.Errorf("normalizer panicked: %v", r)
		}
	}()
	result, stats = e.normalizer.Aggregate(scanID, outcomes)
	return result, stats, nil
}

// fail marks the session FAILED and publishes the terminal event.
func (e *Engine) fail(session *scan.ScanSession, kind scan.FailureKind, message string) {
	session.Fail(kind, message)
	e.publish(session, events.ScanFailed, events.ScanFailedPayload{Kind: kind.String(), Error: message})
	log.Warn().Str("scan", session.ID()).Str("kind", kind.String()).Str("error", message).Msg("Scan failed")
}

// finishInterrupted settles the session when the scan context ended early:
// CANCELLED when the control was cancelled, SESSION_TIMEOUT when the wall
// clock bound expired. It reports whether the scan was interrupted.
func (e *Engine) finishInterrupted(ctx context.Context, session *scan.ScanSession, ctl *control.ScanControl) bool {
	if ctx.Err() == nil {
		return false
	}
	if ctl.Cancelled() {
		session.Cancel()
		e.publish(session, events.ScanFailed, events.ScanFailedPayload{Kind: scan.FailureCancelled.String(), Error: "cancelled by request"})
		log.Info().Str("scan", session.ID()).Msg("Scan cancelled")
		return true
	}
	e.fail(session, scan.FailureSessionTimeout, fmt.Sprintf("scan did not finish within %s", e.config.SessionTimeout))
	return true
}
