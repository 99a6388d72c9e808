// Package crawl discovers scannable pages. It walks same-domain links
// breadth-first from a seed URL, classifies each fetched page and assigns it
// a selection priority. The crawler works on plain HTTP responses; pages
// needing a script runtime to render still get discovered, they just carry
// fewer element counts.
package crawl

import (
	"context"
	"net/http"
	"regexp"
	"time"

	wappalyzer "github.com/projectdiscovery/wappalyzergo"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/viper"
	"mvdan.cc/xurls/v2"

	"github.com/pyneda/kansa/lib"
	"github.com/pyneda/kansa/pkg/scan"
)

// Hard bounds applied on top of caller values; the smaller wins.
const (
	HardMaxPages = 20
	HardMaxDepth = 2
)

const (
	defaultFetchTimeout = 3 * time.Second
	defaultConcurrency  = 4
	defaultUserAgent    = "kansa-crawler/1.0"
	maxBodyBytes        = 2 << 20
)

// Options bound one discovery run.
type Options struct {
	MaxPages     int
	MaxDepth     int
	FetchTimeout time.Duration
	Concurrency  int
	UserAgent    string
	// Headers are added to every fetch, for sites behind auth walls.
	Headers map[string][]string
}

func (o Options) withBounds() Options {
	// MaxPages of zero is honored: the crawl returns an empty discovery.
	if o.MaxPages < 0 || o.MaxPages > HardMaxPages {
		o.MaxPages = HardMaxPages
	}
	if o.MaxDepth < 0 || o.MaxDepth > HardMaxDepth {
		o.MaxDepth = HardMaxDepth
	}
	if o.FetchTimeout <= 0 {
		if seconds := viper.GetInt("crawl.fetch_timeout"); seconds > 0 {
			o.FetchTimeout = time.Duration(seconds) * time.Second
		} else {
			o.FetchTimeout = defaultFetchTimeout
		}
	}
	if o.Concurrency <= 0 {
		if configured := viper.GetInt("crawl.concurrency"); configured > 0 {
			o.Concurrency = configured
		} else {
			o.Concurrency = defaultConcurrency
		}
	}
	if o.UserAgent == "" {
		if configured := viper.GetString("crawl.user_agent"); configured != "" {
			o.UserAgent = configured
		} else {
			o.UserAgent = defaultUserAgent
		}
	}
	return o
}

// Crawler walks one site. Run may be called once; the crawler keeps its
// frontier state between levels, not between runs.
type Crawler struct {
	seedURL string
	options Options
	scope   Scope

	client     *http.Client
	wappalyzer *wappalyzer.Wappalyze
	urlRegex   *regexp.Regexp
	ignored    []string

	onPage func(page scan.DiscoveredPage, total int)

	visited  map[string]bool
	recorded map[string]bool
	pages    []scan.DiscoveredPage
}

type crawlItem struct {
	url   string
	depth int
}

// NewCrawler builds a crawler for the seed URL. Options outside the hard
// bounds are clamped.
func NewCrawler(seedURL string, options Options) (*Crawler, error) {
	canonical, err := lib.CanonicalizeURL(seedURL)
	if err != nil {
		return nil, err
	}
	scope, err := NewScope(canonical)
	if err != nil {
		return nil, err
	}
	options = options.withBounds()

	// Fingerprinting is best effort; a failed ruleset load only disables it.
	wappalyzerClient, err := wappalyzer.New()
	if err != nil {
		log.Warn().Err(err).Msg("Technology fingerprinting disabled")
	}

	return &Crawler{
		seedURL:    canonical,
		options:    options,
		scope:      scope,
		client:     &http.Client{Timeout: options.FetchTimeout},
		wappalyzer: wappalyzerClient,
		urlRegex:   xurls.Strict(),
		ignored:    ignoredExtensionList(),
		visited:    map[string]bool{canonical: true},
		recorded:   make(map[string]bool),
	}, nil
}

// OnPage registers a callback fired for every recorded page with the running
// total. Used by the discovery runner to publish progress events.
func (c *Crawler) OnPage(fn func(page scan.DiscoveredPage, total int)) {
	c.onPage = fn
}

// Bounds returns the effective page and depth limits after clamping.
func (c *Crawler) Bounds() (maxPages, maxDepth int) {
	return c.options.MaxPages, c.options.MaxDepth
}

// Run crawls breadth-first until the page budget, the depth bound or the
// context stops it. It returns every discovered page, reachable or not.
func (c *Crawler) Run(ctx context.Context) []scan.DiscoveredPage {
	log.Info().Str("seed", c.seedURL).Int("max_pages", c.options.MaxPages).Int("max_depth", c.options.MaxDepth).Msg("Starting crawl")

	frontier := []crawlItem{{url: c.seedURL, depth: 0}}
	for depth := 0; len(frontier) > 0 && depth <= c.options.MaxDepth; depth++ {
		if ctx.Err() != nil {
			break
		}
		if budget := c.options.MaxPages - len(c.pages); len(frontier) > budget {
			frontier = frontier[:budget]
		}
		if len(frontier) == 0 {
			break
		}

		p := pool.NewWithResults[pageResult]().WithMaxGoroutines(c.options.Concurrency)
		for _, item := range frontier {
			item := item
			p.Go(func() pageResult {
				if ctx.Err() != nil {
					return pageResult{}
				}
				return c.fetchPage(ctx, item)
			})
		}
		results := p.Wait()

		var next []crawlItem
		for _, result := range results {
			if result.page.URL == "" {
				continue
			}
			// Mark redirect targets visited so they are not re-enqueued.
			c.visited[result.page.URL] = true
			c.record(result.page)
			if result.page.Depth+1 > c.options.MaxDepth {
				continue
			}
			for _, link := range result.links {
				if !c.shouldCrawl(link) {
					continue
				}
				c.visited[link] = true
				next = append(next, crawlItem{url: link, depth: result.page.Depth + 1})
			}
		}
		frontier = next
	}

	log.Info().Int("pages", len(c.pages)).Msg("Finished crawl")
	return c.pages
}

// shouldCrawl filters frontier candidates: already seen or out of scope.
// Extension and scheme filtering already happened at link extraction.
func (c *Crawler) shouldCrawl(link string) bool {
	if c.visited[link] {
		return false
	}
	if !c.scope.IsInScope(link) {
		log.Debug().Str("url", link).Msg("Skipping out-of-scope link")
		return false
	}
	return true
}

func (c *Crawler) record(page scan.DiscoveredPage) {
	if c.recorded[page.URL] {
		return
	}
	c.recorded[page.URL] = true
	c.pages = append(c.pages, page)
	log.Debug().Str("url", page.URL).Str("type", page.Type.String()).Int("priority", page.Priority).Bool("unreachable", page.Unreachable).Msg("Discovered page")
	if c.onPage != nil {
		c.onPage(page, len(c.pages))
	}
}
