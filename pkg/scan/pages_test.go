package scan

import (
	"reflect"
	"testing"
)

func TestNewPageSelection(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want PageSelection
	}{
		{
			name: "canonicalizes and keeps first occurrence order",
			raw: []string{
				"https://Example.COM/about",
				"https://example.com:443/pricing",
				"https://example.com/about#team",
			},
			want: PageSelection{"https://example.com/about", "https://example.com/pricing"},
		},
		{
			name: "unparseable entries dropped",
			raw:  []string{"https://example.com/a", "http://[bad", "https://example.com/b"},
			want: PageSelection{"https://example.com/a", "https://example.com/b"},
		},
		{
			name: "empty input",
			raw:  nil,
			want: PageSelection{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPageSelection(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NewPageSelection(%v) got = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSortPagesByPriority(t *testing.T) {
	pages := []DiscoveredPage{
		{URL: "https://example.com/z", Priority: 40},
		{URL: "https://example.com/a", Priority: 40},
		{URL: "https://example.com/", Priority: 90},
		{URL: "https://example.com/legal", Priority: 10},
	}

	SortPagesByPriority(pages)

	want := []string{
		"https://example.com/",
		"https://example.com/a",
		"https://example.com/z",
		"https://example.com/legal",
	}
	for i, page := range pages {
		if page.URL != want[i] {
			t.Errorf("SortPagesByPriority() position %d = %v, want %v", i, page.URL, want[i])
		}
	}
}

func TestPageSelectionContains(t *testing.T) {
	selection := NewPageSelection([]string{"https://example.com/", "https://example.com/about"})
	if !selection.Contains("https://example.com/about") {
		t.Errorf("Contains() got = false, want true")
	}
	if selection.Contains("https://example.com/missing") {
		t.Errorf("Contains() got = true, want false")
	}
}
