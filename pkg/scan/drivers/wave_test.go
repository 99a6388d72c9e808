package drivers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyneda/kansa/pkg/events"
	"github.com/pyneda/kansa/pkg/scan"
)

// eventRecorder captures published event types and payloads in order.
type eventRecorder struct {
	mu       sync.Mutex
	types    []events.Type
	payloads []interface{}
}

func (r *eventRecorder) Publish(eventType events.Type, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, eventType)
	r.payloads = append(r.payloads, payload)
}

func (r *eventRecorder) Types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Type(nil), r.types...)
}

const waveBody = `{"status":{"success":true},"categories":{"error":{"description":"Errors","count":1,"items":{"alt_missing":{"id":"alt_missing","description":"Missing alternative text","count":1,"selectors":["img.hero"]}}}}}`

func TestWaveDriverOK(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"key":        r.URL.Query().Get("key"),
			"url":        r.URL.Query().Get("url"),
			"reporttype": r.URL.Query().Get("reporttype"),
			"format":     r.URL.Query().Get("format"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(waveBody))
	}))
	defer srv.Close()

	recorder := &eventRecorder{}
	driver := NewWaveDriver(Config{WaveAPIURL: srv.URL, WaveAPIKey: "secret", Timeout: 5 * time.Second}, recorder)

	outcome := driver.Drive(context.Background(), "https://example.com/pricing")

	require.Equal(t, scan.OutcomeOK, outcome.Status, "outcome error: %s", outcome.Error)
	assert.Equal(t, scan.ScannerWave, outcome.Scanner)
	assert.Equal(t, "https://example.com/pricing", outcome.PageURL)
	assert.JSONEq(t, waveBody, string(outcome.Raw))
	assert.Greater(t, outcome.Duration, time.Duration(0))

	assert.Equal(t, "secret", gotQuery["key"])
	assert.Equal(t, "https://example.com/pricing", gotQuery["url"])
	assert.Equal(t, "4", gotQuery["reporttype"])
	assert.Equal(t, "json", gotQuery["format"])

	assert.Equal(t, []events.Type{events.ScannerStart, events.ScannerComplete}, recorder.Types())
}

func TestWaveDriverMissingKey(t *testing.T) {
	recorder := &eventRecorder{}
	driver := NewWaveDriver(Config{Timeout: time.Second}, recorder)

	outcome := driver.Drive(context.Background(), "https://example.com")

	assert.Equal(t, scan.OutcomeFailed, outcome.Status)
	assert.Equal(t, "missing WAVE API key", outcome.Error)
	assert.Equal(t, []events.Type{events.ScannerStart, events.ScannerError}, recorder.Types())
}

func TestWaveDriverBadResponses(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus scan.OutcomeStatus
		wantError  string
	}{
		{
			name:       "server error",
			status:     http.StatusInternalServerError,
			body:       "boom",
			wantStatus: scan.OutcomeFailed,
			wantError:  "WAVE API returned status 500",
		},
		{
			name:       "quota exceeded",
			status:     http.StatusForbidden,
			body:       `{"error":"no credits"}`,
			wantStatus: scan.OutcomeFailed,
			wantError:  "WAVE API returned status 403",
		},
		{
			name:       "not json",
			status:     http.StatusOK,
			body:       "<html>maintenance</html>",
			wantStatus: scan.OutcomeFailed,
			wantError:  "WAVE API response is not valid JSON",
		},
		{
			name:       "no categories",
			status:     http.StatusOK,
			body:       `{"status":{"success":false}}`,
			wantStatus: scan.OutcomeFailed,
			wantError:  "WAVE API response has no categories",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			driver := NewWaveDriver(Config{WaveAPIURL: srv.URL, WaveAPIKey: "secret", Timeout: time.Second}, NopPublisher)
			outcome := driver.Drive(context.Background(), "https://example.com")

			assert.Equal(t, tt.wantStatus, outcome.Status)
			assert.Equal(t, tt.wantError, outcome.Error)
		})
	}
}

func TestWaveDriverTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte(waveBody))
	}))
	defer srv.Close()

	recorder := &eventRecorder{}
	driver := NewWaveDriver(Config{WaveAPIURL: srv.URL, WaveAPIKey: "secret", Timeout: 50 * time.Millisecond}, recorder)

	outcome := driver.Drive(context.Background(), "https://example.com")

	assert.Equal(t, scan.OutcomeTimedOut, outcome.Status)
	assert.True(t, strings.Contains(outcome.Error, "did not answer within"), "unexpected error: %s", outcome.Error)
	assert.Equal(t, []events.Type{events.ScannerStart, events.ScannerError}, recorder.Types())
}

func TestWaveDriverCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte(waveBody))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	driver := NewWaveDriver(Config{WaveAPIURL: srv.URL, WaveAPIKey: "secret", Timeout: 5 * time.Second}, NopPublisher)
	outcome := driver.Drive(ctx, "https://example.com")

	assert.NotEqual(t, scan.OutcomeOK, outcome.Status)
}
