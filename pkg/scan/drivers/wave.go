package drivers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"

	"github.com/pyneda/kansa/pkg/scan"
)

const maxWaveBody = 8 << 20

// WaveDriver calls the hosted WAVE API. One GET per unit; the response body
// is the raw outcome.
type WaveDriver struct {
	apiURL    string
	apiKey    string
	client    *http.Client
	config    Config
	publisher Publisher
}

func NewWaveDriver(config Config, publisher Publisher) *WaveDriver {
	config = config.WithDefaults()
	return &WaveDriver{
		apiURL:    config.WaveAPIURL,
		apiKey:    config.WaveAPIKey,
		client:    &http.Client{},
		config:    config,
		publisher: publisher,
	}
}

func (d *WaveDriver) Scanner() scan.Scanner {
	return scan.ScannerWave
}

func (d *WaveDriver) Drive(ctx context.Context, pageURL string) scan.ScannerOutcome {
	return run(d.publisher, scan.ScannerWave, pageURL, func() scan.ScannerOutcome {
		if d.apiKey == "" {
			return scan.ScannerOutcome{Status: scan.OutcomeFailed, Error: "missing WAVE API key"}
		}

		endpoint := fmt.Sprintf("%s?key=%s&url=%s&reporttype=4&format=json",
			d.apiURL, url.QueryEscape(d.apiKey), url.QueryEscape(pageURL))

		reqCtx, cancel := context.WithTimeout(ctx, d.config.Timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
		if err != nil {
			return scan.ScannerOutcome{Status: scan.OutcomeFailed, Error: err.Error()}
		}

		resp, err := d.client.Do(req)
		if err != nil {
			if isTimeout(err) {
				return scan.ScannerOutcome{Status: scan.OutcomeTimedOut, Error: fmt.Sprintf("WAVE API did not answer within %s", d.config.Timeout)}
			}
			return scan.ScannerOutcome{Status: scan.OutcomeFailed, Error: err.Error()}
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxWaveBody))
		if err != nil {
			if isTimeout(err) {
				return scan.ScannerOutcome{Status: scan.OutcomeTimedOut, Error: fmt.Sprintf("WAVE API did not answer within %s", d.config.Timeout)}
			}
			return scan.ScannerOutcome{Status: scan.OutcomeFailed, Error: err.Error()}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return scan.ScannerOutcome{Status: scan.OutcomeFailed, Error: fmt.Sprintf("WAVE API returned status %d", resp.StatusCode)}
		}

		// The report body must carry the categories map; anything else is an
		// API error page.
		var probe struct {
			Categories map[string]json.RawMessage `json:"categories"`
		}
		if err := json.Unmarshal(body, &probe); err != nil {
			return scan.ScannerOutcome{Status: scan.OutcomeFailed, Error: "WAVE API response is not valid JSON"}
		}
		if probe.Categories == nil {
			return scan.ScannerOutcome{Status: scan.OutcomeFailed, Error: "WAVE API response has no categories"}
		}

		return scan.ScannerOutcome{Status: scan.OutcomeOK, Raw: body}
	})
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
