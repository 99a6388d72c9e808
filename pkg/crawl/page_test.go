package crawl

import (
	"testing"

	"github.com/pyneda/kansa/pkg/scan"
)

func TestInferPageType(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		title      string
		elements   scan.ElementCounts
		hasContact bool
		want       scan.PageType
	}{
		{
			name: "root path is homepage",
			url:  "https://example.com/",
			want: scan.PageTypeHomepage,
		},
		{
			name: "empty path is homepage",
			url:  "https://example.com",
			want: scan.PageTypeHomepage,
		},
		{
			name: "contact in path",
			url:  "https://example.com/contact-us",
			want: scan.PageTypeContact,
		},
		{
			name:  "contact in title",
			url:   "https://example.com/reach",
			title: "Contact Acme",
			want:  scan.PageTypeContact,
		},
		{
			name: "privacy page is legal",
			url:  "https://example.com/privacy-policy",
			want: scan.PageTypeLegal,
		},
		{
			name: "shop page is product",
			url:  "https://example.com/shop/red-shoes",
			want: scan.PageTypeProduct,
		},
		{
			name: "blog index is listing",
			url:  "https://example.com/blog",
			want: scan.PageTypeListing,
		},
		{
			name: "blog entry is article",
			url:  "https://example.com/blog/a11y-basics",
			want: scan.PageTypeArticle,
		},
		{
			name: "search page is listing",
			url:  "https://example.com/search?q=x",
			want: scan.PageTypeListing,
		},
		{
			name:     "unlabelled page with form",
			url:      "https://example.com/signup-here",
			elements: scan.ElementCounts{Forms: 1, Inputs: 4},
			want:     scan.PageTypeForm,
		},
		{
			name:       "plain page with contact data",
			url:        "https://example.com/team",
			hasContact: true,
			want:       scan.PageTypeContact,
		},
		{
			name: "fallback",
			url:  "https://example.com/misc",
			want: scan.PageTypeOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inferPageType(tt.url, tt.title, tt.elements, tt.hasContact)
			if got != tt.want {
				t.Errorf("inferPageType(%q, %q) got = %v, want %v", tt.url, tt.title, got, tt.want)
			}
		})
	}
}

func TestPagePriorityOrdering(t *testing.T) {
	homepage := pagePriority(scan.PageTypeHomepage, 0, scan.ElementCounts{Links: 40, Images: 10}, false)
	formPage := pagePriority(scan.PageTypeForm, 1, scan.ElementCounts{Forms: 2, Inputs: 8, Links: 10}, false)
	deepPlain := pagePriority(scan.PageTypeOther, 2, scan.ElementCounts{Links: 5}, false)

	if homepage <= formPage {
		t.Errorf("homepage priority %d not above form page %d", homepage, formPage)
	}
	if formPage <= deepPlain {
		t.Errorf("form page priority %d not above deep plain page %d", formPage, deepPlain)
	}
	if deepPlain < 0 {
		t.Errorf("priority went negative: %d", deepPlain)
	}
}

func TestIsIgnoredExtension(t *testing.T) {
	extensions := defaultIgnoredExtensions
	tests := []struct {
		url  string
		want bool
	}{
		{url: "https://example.com/logo.png", want: true},
		{url: "https://example.com/app.js?v=3", want: true},
		{url: "https://example.com/doc.PDF", want: true},
		{url: "https://example.com/about", want: false},
		{url: "https://example.com/page.html", want: false},
		{url: "https://example.com/", want: false},
	}

	for _, tt := range tests {
		if got := isIgnoredExtension(tt.url, extensions); got != tt.want {
			t.Errorf("isIgnoredExtension(%q) got = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestSkippableScheme(t *testing.T) {
	tests := []struct {
		href string
		want bool
	}{
		{href: "mailto:team@example.com", want: true},
		{href: "tel:+15551234567", want: true},
		{href: "javascript:void(0)", want: true},
		{href: "data:text/html,hi", want: true},
		{href: "https://example.com/page", want: false},
		{href: "/relative", want: false},
	}

	for _, tt := range tests {
		if got := skippableScheme(tt.href); got != tt.want {
			t.Errorf("skippableScheme(%q) got = %v, want %v", tt.href, got, tt.want)
		}
	}
}
