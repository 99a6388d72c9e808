// Package discovery runs standalone discovery sessions: crawl a seed URL,
// stream progress events and retain the page inventory for later scans.
package discovery

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"github.com/spf13/viper"

	"github.com/pyneda/kansa/lib"
	"github.com/pyneda/kansa/pkg/crawl"
	"github.com/pyneda/kansa/pkg/events"
	"github.com/pyneda/kansa/pkg/scan"
	"github.com/pyneda/kansa/pkg/scan/control"
	"github.com/pyneda/kansa/pkg/sessions"
)

// progressInterval is the longest a live discovery goes without publishing a
// progress event, even when no new page was found.
const progressInterval = 500 * time.Millisecond

// Runner executes discovery sessions. It shares the event bus, session store
// and control registry with the scan engine so discovery ids live in the
// same namespaces.
type Runner struct {
	options  crawl.Options
	bus      *events.Bus
	store    *sessions.Store
	controls *control.Registry
	wg       conc.WaitGroup
}

// NewRunner wires a runner onto the shared infrastructure. The options carry
// fetch tuning; page and depth bounds come per session.
func NewRunner(options crawl.Options, bus *events.Bus, store *sessions.Store, controls *control.Registry) *Runner {
	return &Runner{
		options:  options,
		bus:      bus,
		store:    store,
		controls: controls,
	}
}

// Start validates the seed and launches a discovery worker. Non-positive
// bounds fall back to the configured crawl defaults.
func (r *Runner) Start(seed string, maxPages, maxDepth int) (string, error) {
	if !lib.IsWebURL(seed) {
		return "", &scan.ValidationError{Field: "url", Reason: "must be an absolute http or https URL"}
	}
	if maxPages <= 0 {
		if configured := viper.GetInt("crawl.max_pages"); configured > 0 {
			maxPages = configured
		} else {
			maxPages = crawl.HardMaxPages
		}
	}
	if maxDepth <= 0 {
		if configured := viper.GetInt("crawl.max_depth"); configured > 0 {
			maxDepth = configured
		} else {
			maxDepth = crawl.HardMaxDepth
		}
	}

	id := uuid.New().String()
	session := scan.NewDiscoverySession(id, seed, maxPages, maxDepth)
	r.store.PutDiscovery(session)
	ctl := r.controls.Register(id)

	log.Info().Str("discovery", id).Str("seed", seed).Int("max_pages", maxPages).Int("max_depth", maxDepth).Msg("Discovery submitted")
	r.wg.Go(func() {
		r.run(session, ctl)
	})
	return id, nil
}

// Status returns a point-in-time snapshot of the session.
func (r *Runner) Status(id string) (scan.DiscoverySnapshot, error) {
	session, err := r.store.Discovery(id)
	if err != nil {
		return scan.DiscoverySnapshot{}, err
	}
	return session.Snapshot(), nil
}

// Pages returns the pages discovered so far, in discovery order.
func (r *Runner) Pages(id string) ([]scan.DiscoveredPage, error) {
	session, err := r.store.Discovery(id)
	if err != nil {
		return nil, err
	}
	return session.Pages(), nil
}

// Cancel requests cooperative cancellation of an active discovery.
func (r *Runner) Cancel(id string) error {
	session, err := r.store.Discovery(id)
	if err != nil {
		return err
	}
	if session.State().Terminal() {
		return scan.ErrAlreadyTerminal
	}
	r.controls.Cancel(id)
	log.Info().Str("discovery", id).Msg("Discovery cancellation requested")
	return nil
}

// Subscribe attaches a consumer to the discovery's event stream.
func (r *Runner) Subscribe(id string) (*events.Subscription, error) {
	if _, err := r.store.Discovery(id); err != nil {
		return nil, err
	}
	return r.bus.Subscribe(id), nil
}

// Discoveries lists snapshots of every retained session, newest first.
func (r *Runner) Discoveries() []scan.DiscoverySnapshot {
	return r.store.DiscoverySnapshots()
}

// Wait blocks until every running discovery worker has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// run drives one discovery session. Every exit path leaves the session
// terminal with exactly one terminal event published.
func (r *Runner) run(session *scan.DiscoverySession, ctl *control.ScanControl) {
	defer r.controls.Unregister(session.ID())
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Str("discovery", session.ID()).Interface("panic", rec).Msg("Discovery worker panicked")
			r.fail(session, scan.FailureInternal, fmt.Sprintf("discovery worker panicked: %v", rec))
		}
	}()

	session.SetState(scan.StateDiscovering)
	r.publish(session, events.ScanStart, events.ScanStartPayload{URL: session.Seed()})

	maxPages, maxDepth := session.Bounds()
	options := r.options
	options.MaxPages = maxPages
	options.MaxDepth = maxDepth
	crawler, err := crawl.NewCrawler(session.Seed(), options)
	if err != nil {
		r.fail(session, scan.FailureValidation, fmt.Sprintf("seed URL rejected: %v", err))
		return
	}

	crawler.OnPage(func(page scan.DiscoveredPage, total int) {
		count := session.AddPage(page)
		r.publish(session, events.DiscoveryProgress, events.DiscoveryProgressPayload{
			PagesFound: count,
			LastURL:    page.URL,
			Depth:      page.Depth,
		})
		if maxPages > 0 {
			session.SetProgress(100 * float64(count) / float64(maxPages))
		}
	})

	// Keep the stream alive through slow fetches: repeat the current count
	// whenever no page arrived within the progress interval.
	tickerDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-tickerDone:
				return
			case <-ticker.C:
				r.publish(session, events.DiscoveryProgress, events.DiscoveryProgressPayload{
					PagesFound: len(session.Pages()),
				})
			}
		}
	}()
	pages := crawler.Run(ctl.Context())
	close(tickerDone)

	if ctl.Cancelled() {
		session.Cancel()
		r.publish(session, events.ScanFailed, events.ScanFailedPayload{Kind: scan.FailureCancelled.String(), Error: "cancelled by request"})
		log.Info().Str("discovery", session.ID()).Msg("Discovery cancelled")
		return
	}
	if len(pages) == 0 {
		r.fail(session, scan.FailureDiscoveryEmpty, "no pages discovered")
		return
	}

	session.SetProgress(100)
	session.SetState(scan.StateCompleted)
	r.publish(session, events.ScanComplete, events.DiscoveryCompletePayload{PagesFound: len(pages)})
	log.Info().Str("discovery", session.ID()).Int("pages", len(pages)).Msg("Discovery completed")
}

func (r *Runner) publish(session *scan.DiscoverySession, eventType events.Type, payload interface{}) {
	event, ok := r.bus.Publish(session.ID(), eventType, payload)
	if ok {
		session.SetLastSeq(event.Seq)
	}
}

func (r *Runner) fail(session *scan.DiscoverySession, kind scan.FailureKind, message string) {
	session.Fail(kind, message)
	r.publish(session, events.ScanFailed, events.ScanFailedPayload{Kind: kind.String(), Error: message})
	log.Warn().Str("discovery", session.ID()).Str("kind", kind.String()).Str("error", message).Msg("Discovery failed")
}
