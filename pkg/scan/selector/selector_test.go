package selector

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/pyneda/kansa/pkg/scan"
)

func crawlRequest() scan.Request {
	return scan.Request{
		URL:      "https://example.com",
		Scanners: []scan.Scanner{scan.ScannerAxe},
		Policy:   scan.PolicyCrawlThenSelect,
	}.WithDefaults()
}

func TestSelectRepresentative(t *testing.T) {
	discovered := []scan.DiscoveredPage{
		{URL: "https://example.com/blog/post-1", Type: scan.PageTypeArticle, Priority: 20},
		{URL: "https://example.com/", Type: scan.PageTypeHomepage, Priority: 100},
		{URL: "https://example.com/signup", Type: scan.PageTypeForm, Priority: 45},
		{URL: "https://example.com/blog/post-2", Type: scan.PageTypeArticle, Priority: 35},
		{URL: "https://example.com/privacy", Type: scan.PageTypeLegal, Priority: 5},
		{URL: "https://example.com/broken", Type: scan.PageTypeOther, Priority: 60, Unreachable: true},
	}

	got := Select(discovered, crawlRequest(), 15)

	// Homepage first, then the best page of each remaining type, then fills.
	want := scan.PageSelection{
		"https://example.com/",
		"https://example.com/signup",
		"https://example.com/blog/post-2",
		"https://example.com/privacy",
		"https://example.com/blog/post-1",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Select() got = %v, want %v", got, want)
	}
}

func TestSelectRepresentativeCap(t *testing.T) {
	var discovered []scan.DiscoveredPage
	for i := 0; i < 30; i++ {
		discovered = append(discovered, scan.DiscoveredPage{
			URL:      fmt.Sprintf("https://example.com/page-%02d", i),
			Type:     scan.PageTypeOther,
			Priority: i,
		})
	}

	got := Select(discovered, crawlRequest(), 4)
	if len(got) != 4 {
		t.Fatalf("Select() size = %d, want 4", len(got))
	}
	// Highest priority page survives the cap.
	if got[0] != "https://example.com/page-29" {
		t.Errorf("Select() first = %v, want the highest-priority page", got[0])
	}
}

func TestSelectTieBreakLexicographic(t *testing.T) {
	discovered := []scan.DiscoveredPage{
		{URL: "https://example.com/zebra", Type: scan.PageTypeOther, Priority: 10},
		{URL: "https://example.com/alpha", Type: scan.PageTypeOther, Priority: 10},
	}

	got := Select(discovered, crawlRequest(), 15)
	want := scan.PageSelection{"https://example.com/alpha", "https://example.com/zebra"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Select() got = %v, want %v", got, want)
	}
}

func TestSelectCallerBudgetWins(t *testing.T) {
	request := crawlRequest()
	request.MaxPages = 2

	discovered := []scan.DiscoveredPage{
		{URL: "https://example.com/", Type: scan.PageTypeHomepage, Priority: 100},
		{URL: "https://example.com/a", Type: scan.PageTypeForm, Priority: 50},
		{URL: "https://example.com/b", Type: scan.PageTypeLegal, Priority: 10},
	}

	if got := Select(discovered, request, 15); len(got) != 2 {
		t.Errorf("Select() size = %d, want 2", len(got))
	}
}

func TestSelectExplicitList(t *testing.T) {
	request := scan.Request{
		URL:      "https://example.com",
		Scanners: []scan.Scanner{scan.ScannerAxe},
		Policy:   scan.PolicyExplicitList,
		Pages: []string{
			"https://Example.com/a#x",
			"https://example.com/b",
			"https://example.com/a",
		},
	}.WithDefaults()

	got := Select(nil, request, 15)
	want := scan.PageSelection{"https://example.com/a", "https://example.com/b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Select() got = %v, want %v", got, want)
	}
}

func TestSelectAllCapped(t *testing.T) {
	request := crawlRequest()
	request.Policy = scan.PolicyAll

	discovered := []scan.DiscoveredPage{
		{URL: "https://example.com/", Type: scan.PageTypeHomepage, Priority: 100},
		{URL: "https://example.com/broken", Type: scan.PageTypeOther, Unreachable: true},
		{URL: "https://example.com/a", Type: scan.PageTypeOther, Priority: 1},
		{URL: "https://example.com/b", Type: scan.PageTypeOther, Priority: 2},
	}

	got := Select(discovered, request, 2)
	want := scan.PageSelection{"https://example.com/", "https://example.com/a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Select() got = %v, want %v", got, want)
	}
}

func TestSelectEmptyDiscovery(t *testing.T) {
	if got := Select(nil, crawlRequest(), 15); len(got) != 0 {
		t.Errorf("Select() on empty discovery = %v, want empty", got)
	}
}
