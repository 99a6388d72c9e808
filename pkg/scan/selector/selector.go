// Package selector picks the pages a scan will run against. Selection is a
// pure function over the discovery output; it never fetches anything.
package selector

import (
	"github.com/pyneda/kansa/pkg/scan"
)

// DefaultCap bounds representative and all-policy selections when no cap is
// configured.
const DefaultCap = 15

// Select applies the request's selection policy to the discovered pages.
// Unreachable pages are never selected. The result is canonical, unique and
// deterministic for a given input.
func Select(discovered []scan.DiscoveredPage, request scan.Request, selectionCap int) scan.PageSelection {
	if selectionCap <= 0 {
		selectionCap = DefaultCap
	}
	budget := selectionCap
	if request.MaxPages > 0 && request.MaxPages < budget {
		budget = request.MaxPages
	}

	switch request.Policy {
	case scan.PolicyExplicitList:
		// The caller chose these pages; pass them through untrimmed.
		return scan.NewPageSelection(request.Pages)
	case scan.PolicyAll:
		return allPages(discovered, budget)
	default:
		return representative(discovered, budget)
	}
}

func allPages(discovered []scan.DiscoveredPage, budget int) scan.PageSelection {
	urls := make([]string, 0, len(discovered))
	for _, page := range discovered {
		if page.Unreachable {
			continue
		}
		urls = append(urls, page.URL)
		if len(urls) >= budget {
			break
		}
	}
	return scan.NewPageSelection(urls)
}

// representative covers distinct page shapes before spending budget on
// volume: homepage first, then the best page of each type, then remaining
// pages by priority.
func representative(discovered []scan.DiscoveredPage, budget int) scan.PageSelection {
	sorted := make([]scan.DiscoveredPage, 0, len(discovered))
	for _, page := range discovered {
		if !page.Unreachable {
			sorted = append(sorted, page)
		}
	}
	scan.SortPagesByPriority(sorted)

	var urls []string
	picked := make(map[string]bool, budget)
	pick := func(page scan.DiscoveredPage) {
		if len(urls) >= budget || picked[page.URL] {
			return
		}
		picked[page.URL] = true
		urls = append(urls, page.URL)
	}

	for _, page := range sorted {
		if page.Type == scan.PageTypeHomepage {
			pick(page)
			break
		}
	}

	covered := make(map[scan.PageType]bool)
	for _, page := range sorted {
		if covered[page.Type] {
			continue
		}
		covered[page.Type] = true
		pick(page)
	}

	for _, page := range sorted {
		pick(page)
	}

	return scan.NewPageSelection(urls)
}
