package lib

import "testing"

func TestCanonicalizeURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"lowercase scheme and host", "HTTP://Example.COM/Path", "http://example.com/Path", false},
		{"strip default http port", "http://example.com:80/a", "http://example.com/a", false},
		{"strip default https port", "https://example.com:443/", "https://example.com/", false},
		{"keep custom port", "http://example.com:8080/a", "http://example.com:8080/a", false},
		{"remove fragment", "https://example.com/page#section", "https://example.com/page", false},
		{"keep query", "https://example.com/p?a=1&b=2", "https://example.com/p?a=1&b=2", false},
		{"relative url rejected", "/just/a/path", "", true},
		{"empty rejected", "", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CanonicalizeURL(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %q", tc.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("CanonicalizeURL(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestCanonicalizeURLIdempotent(t *testing.T) {
	input := "HTTPS://Example.com:443/page?x=1#frag"
	once, err := CanonicalizeURL(input)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := CanonicalizeURL(once)
	if err != nil {
		t.Fatal(err)
	}
	if once != twice {
		t.Errorf("not idempotent: %q vs %q", once, twice)
	}
}

func TestIsWebURL(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"http://example.com", true},
		{"https://example.com/page", true},
		{"ftp://example.com", false},
		{"mailto:a@b.co", false},
		{"example.com", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := IsWebURL(tc.input); got != tc.want {
			t.Errorf("IsWebURL(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestCalculateURLDepth(t *testing.T) {
	tests := []struct {
		url   string
		depth int
	}{
		{"https://example.com", 0},
		{"https://example.com/", 0},
		{"https://example.com/one", 1},
		{"https://example.com/one/two/", 2},
		{"https://example.com/one/two/three", 3},
	}
	for _, tc := range tests {
		if got := CalculateURLDepth(tc.url); got != tc.depth {
			t.Errorf("CalculateURLDepth(%q) = %d, want %d", tc.url, got, tc.depth)
		}
	}
}

func TestIsRootURL(t *testing.T) {
	root, err := IsRootURL("https://example.com/")
	if err != nil || !root {
		t.Errorf("expected root, got %v err %v", root, err)
	}
	nonRoot, err := IsRootURL("https://example.com/about")
	if err != nil || nonRoot {
		t.Errorf("expected non-root, got %v err %v", nonRoot, err)
	}
	if _, err := IsRootURL("not-a-url"); err == nil {
		t.Error("expected error for invalid URL")
	}
}
