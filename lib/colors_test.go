package lib

import "testing"

func TestSeverityColor(t *testing.T) {
	tests := []struct {
		severity string
		want     string
	}{
		{"CRITICAL", Red},
		{"HIGH", Red},
		{"MEDIUM", Yellow},
		{"LOW", Green},
		{"high", Red},
		{"unknown", White},
		{"", White},
	}
	for _, tt := range tests {
		if got := SeverityColor(tt.severity); got != tt.want {
			t.Errorf("SeverityColor(%q) = %q, want %q", tt.severity, got, tt.want)
		}
	}
}

func TestColorize(t *testing.T) {
	got := Colorize("Score: ", Blue)
	want := Blue + "Score: " + ResetColor
	if got != want {
		t.Errorf("Colorize() = %q, want %q", got, want)
	}
}
