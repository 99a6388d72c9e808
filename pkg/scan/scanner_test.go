package scan

import (
	"reflect"
	"testing"
)

func TestNewScanner(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Scanner
		wantOK bool
	}{
		{name: "canonical uppercase", input: "WAVE", want: ScannerWave, wantOK: true},
		{name: "lowercase", input: "pa11y", want: ScannerPa11y, wantOK: true},
		{name: "axe-core spelling", input: "axe-core", want: ScannerAxe, wantOK: true},
		{name: "axecore spelling", input: "AxeCore", want: ScannerAxe, wantOK: true},
		{name: "surrounding whitespace", input: "  lighthouse ", want: ScannerLighthouse, wantOK: true},
		{name: "unknown tool", input: "nu-html-checker", want: "", wantOK: false},
		{name: "empty", input: "", want: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NewScanner(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("NewScanner(%q) got = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseScanners(t *testing.T) {
	tests := []struct {
		name        string
		input       []string
		want        []Scanner
		wantUnknown []string
	}{
		{
			name:  "canonical order regardless of input order",
			input: []string{"lighthouse", "wave", "axe"},
			want:  []Scanner{ScannerWave, ScannerAxe, ScannerLighthouse},
		},
		{
			name:  "duplicates collapse",
			input: []string{"axe", "axe-core", "AXE"},
			want:  []Scanner{ScannerAxe},
		},
		{
			name:        "unknown names reported",
			input:       []string{"wave", "tenon", "pa11y", "achecker"},
			want:        []Scanner{ScannerWave, ScannerPa11y},
			wantUnknown: []string{"tenon", "achecker"},
		},
		{
			name:        "all unknown",
			input:       []string{"html-validator"},
			wantUnknown: []string{"html-validator"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, unknown := ParseScanners(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseScanners(%v) got = %v, want %v", tt.input, got, tt.want)
			}
			if !reflect.DeepEqual(unknown, tt.wantUnknown) {
				t.Errorf("ParseScanners(%v) unknown = %v, want %v", tt.input, unknown, tt.wantUnknown)
			}
		})
	}
}
