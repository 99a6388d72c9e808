package scan

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pyneda/kansa/lib"
)

// PageType is the inferred role of a discovered page, used by the
// representative selection to cover distinct page shapes.
type PageType string

const (
	PageTypeHomepage PageType = "homepage"
	PageTypeForm     PageType = "form"
	PageTypeArticle  PageType = "article"
	PageTypeProduct  PageType = "product"
	PageTypeListing  PageType = "listing"
	PageTypeContact  PageType = "contact"
	PageTypeLegal    PageType = "legal"
	PageTypeOther    PageType = "other"
	// PageTypeManual marks pages supplied by the caller rather than found by
	// the crawler.
	PageTypeManual PageType = "manual"
)

func (t PageType) String() string {
	return string(t)
}

// ElementCounts are the per-page element tallies that feed priority scoring.
type ElementCounts struct {
	Forms  int `json:"forms"`
	Inputs int `json:"inputs"`
	Images int `json:"images"`
	Links  int `json:"links"`
}

// DiscoveredPage is one page found during discovery. The URL is canonical:
// scheme and host lowercased, default port stripped, fragment removed.
type DiscoveredPage struct {
	URL          string        `json:"url"`
	Title        string        `json:"title,omitempty"`
	Type         PageType      `json:"type"`
	Priority     int           `json:"priority"`
	Elements     ElementCounts `json:"elements"`
	Depth        int           `json:"depth"`
	Technologies []string      `json:"technologies,omitempty"`
	HasContact   bool          `json:"has_contact,omitempty"`
	// Unreachable pages were linked to but could not be fetched; they are
	// recorded for completeness and never expanded or selected.
	Unreachable bool `json:"unreachable,omitempty"`
}

func (p DiscoveredPage) String() string {
	return fmt.Sprintf("%s [%s] priority=%d depth=%d", p.URL, p.Type, p.Priority, p.Depth)
}

func (p DiscoveredPage) Pretty() string {
	return fmt.Sprintf(
		"%sURL:%s %s\n%sTitle:%s %s\n%sType:%s %s\n%sPriority:%s %d\n%sDepth:%s %d\n%sElements:%s forms=%d inputs=%d images=%d links=%d\n",
		lib.Blue, lib.ResetColor, p.URL,
		lib.Blue, lib.ResetColor, p.Title,
		lib.Blue, lib.ResetColor, p.Type,
		lib.Blue, lib.ResetColor, p.Priority,
		lib.Blue, lib.ResetColor, p.Depth,
		lib.Blue, lib.ResetColor, p.Elements.Forms, p.Elements.Inputs, p.Elements.Images, p.Elements.Links,
	)
}

func (p DiscoveredPage) TableHeaders() []string {
	return []string{"URL", "Type", "Priority", "Depth", "Forms", "Links", "Title"}
}

func (p DiscoveredPage) TableRow() []string {
	title := lib.TruncateString(p.Title, 40)
	return []string{
		p.URL,
		p.Type.String(),
		fmt.Sprintf("%d", p.Priority),
		fmt.Sprintf("%d", p.Depth),
		fmt.Sprintf("%d", p.Elements.Forms),
		fmt.Sprintf("%d", p.Elements.Links),
		title,
	}
}

// PageSelection is the ordered, deduplicated list of page URLs a scan will
// run against. Size is at least 1 for any scan that reaches SCANNING.
type PageSelection []string

// NewPageSelection canonicalizes and deduplicates raw URLs, preserving first
// occurrence order. URLs that do not parse are dropped.
func NewPageSelection(rawURLs []string) PageSelection {
	seen := make(map[string]bool, len(rawURLs))
	selection := make(PageSelection, 0, len(rawURLs))
	for _, raw := range rawURLs {
		canonical, err := lib.CanonicalizeURL(raw)
		if err != nil {
			continue
		}
		if seen[canonical] {
			continue
		}
		seen[canonical] = true
		selection = append(selection, canonical)
	}
	return selection
}

// Contains reports whether the selection includes the given canonical URL.
func (s PageSelection) Contains(url string) bool {
	for _, u := range s {
		if u == url {
			return true
		}
	}
	return false
}

func (s PageSelection) String() string {
	return strings.Join(s, ", ")
}

// SortPagesByPriority orders pages by descending priority with a
// lexicographic URL tie-break, the order the selector consumes.
func SortPagesByPriority(pages []DiscoveredPage) {
	sort.SliceStable(pages, func(i, j int) bool {
		if pages[i].Priority != pages[j].Priority {
			return pages[i].Priority > pages[j].Priority
		}
		return pages[i].URL < pages[j].URL
	})
}
