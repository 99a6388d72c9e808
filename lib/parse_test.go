package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHeadersStringToMap(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected map[string][]string
	}{
		{
			name:  "auth and cookie pair",
			input: "Authorization:Bearer XYZ,Cookie:session=abc123",
			expected: map[string][]string{
				"Authorization": {"Bearer XYZ"},
				"Cookie":        {"session=abc123"},
			},
		},
		{
			name:  "lowercase keys are canonicalized",
			input: "authorization:token,x-forwarded-for:10.0.0.1",
			expected: map[string][]string{
				"Authorization":   {"token"},
				"X-Forwarded-For": {"10.0.0.1"},
			},
		},
		{
			name:  "repeated key accumulates values",
			input: "Accept-Language:en,Accept-Language:fi",
			expected: map[string][]string{
				"Accept-Language": {"en", "fi"},
			},
		},
		{
			name:  "pairs without a colon are skipped",
			input: "Authorization:Bearer XYZ,not-a-header",
			expected: map[string][]string{
				"Authorization": {"Bearer XYZ"},
			},
		},
		{
			name:  "surrounding whitespace is trimmed",
			input: " Authorization:Bearer XYZ , Cookie:a=b ",
			expected: map[string][]string{
				"Authorization": {"Bearer XYZ"},
				"Cookie":        {"a=b"},
			},
		},
		{
			name:     "empty input yields an empty map",
			input:    "",
			expected: map[string][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseHeadersStringToMap(tt.input))
		})
	}
}
