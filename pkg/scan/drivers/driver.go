// Package drivers invokes the accessibility scanners. Each driver turns one
// (page, scanner) unit into a ScannerOutcome: WAVE through its HTTP API, the
// Node-based tools through subprocesses, and simulate mode through canned
// deterministic output. Drivers never retry and never interpret scanner
// output beyond checking it is JSON; parsing belongs to the normalizer.
package drivers

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/pyneda/kansa/pkg/events"
	"github.com/pyneda/kansa/pkg/scan"
)

// Driver runs one scanner against pages.
type Driver interface {
	Scanner() scan.Scanner
	// Drive produces exactly one outcome. The context carries scan
	// cancellation; the per-unit timeout is the driver's own.
	Drive(ctx context.Context, pageURL string) scan.ScannerOutcome
}

// Publisher is the scan-scoped event emission handle handed to drivers at
// construction. Drivers never see the bus or other scans' topics.
type Publisher interface {
	Publish(eventType events.Type, payload interface{})
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(eventType events.Type, payload interface{})

func (f PublisherFunc) Publish(eventType events.Type, payload interface{}) {
	f(eventType, payload)
}

// NopPublisher discards events, for callers that run drivers outside a scan.
var NopPublisher Publisher = PublisherFunc(func(events.Type, interface{}) {})

// Config carries everything drivers need at construction time.
type Config struct {
	// Timeout is the per-unit wall clock bound.
	Timeout time.Duration
	// KillGrace is how long a signalled subprocess gets to exit before the
	// hard kill.
	KillGrace time.Duration

	WaveAPIURL string
	WaveAPIKey string

	Pa11yBinary      string
	AxeBinary        string
	LighthouseBinary string

	// Simulate replaces every driver with the deterministic canned one.
	Simulate bool
}

const (
	DefaultTimeout   = 60 * time.Second
	DefaultKillGrace = 2 * time.Second
	DefaultWaveAPI   = "https://wave.webaim.org/api/request"
)

// WithDefaults fills unset fields.
func (c Config) WithDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.KillGrace <= 0 {
		c.KillGrace = DefaultKillGrace
	}
	if c.WaveAPIURL == "" {
		c.WaveAPIURL = DefaultWaveAPI
	}
	if c.Pa11yBinary == "" {
		c.Pa11yBinary = "pa11y"
	}
	if c.AxeBinary == "" {
		c.AxeBinary = "axe"
	}
	if c.LighthouseBinary == "" {
		c.LighthouseBinary = "lighthouse"
	}
	return c
}

// ConfigFromViper assembles the driver configuration from the loaded config
// tree.
func ConfigFromViper() Config {
	return Config{
		Timeout:          time.Duration(viper.GetInt("scan.scanner_timeout")) * time.Second,
		KillGrace:        time.Duration(viper.GetInt("scan.kill_grace")) * time.Second,
		WaveAPIURL:       viper.GetString("wave.api_url"),
		WaveAPIKey:       viper.GetString("wave.api_key"),
		Pa11yBinary:      viper.GetString("scanners.pa11y.binary"),
		AxeBinary:        viper.GetString("scanners.axe.binary"),
		LighthouseBinary: viper.GetString("scanners.lighthouse.binary"),
	}.WithDefaults()
}

// ForRequest builds one driver per enabled scanner. A request-supplied WAVE
// key overrides the configured one.
func ForRequest(request scan.Request, config Config, publisher Publisher) map[scan.Scanner]Driver {
	config = config.WithDefaults()
	built := make(map[scan.Scanner]Driver, len(request.Scanners))
	for _, scanner := range request.Scanners {
		if config.Simulate || request.Simulate {
			built[scanner] = NewSimulatedDriver(scanner, publisher)
			continue
		}
		switch scanner {
		case scan.ScannerWave:
			waveConfig := config
			if request.WaveAPIKey != "" {
				waveConfig.WaveAPIKey = request.WaveAPIKey
			}
			built[scanner] = NewWaveDriver(waveConfig, publisher)
		case scan.ScannerPa11y:
			built[scanner] = NewPa11yDriver(config, publisher)
		case scan.ScannerAxe:
			built[scanner] = NewAxeDriver(config, publisher)
		case scan.ScannerLighthouse:
			built[scanner] = NewLighthouseDriver(config, publisher)
		}
	}
	return built
}

// run brackets a driver invocation with its lifecycle events and stamps the
// outcome's unit fields.
func run(publisher Publisher, scanner scan.Scanner, pageURL string, fn func() scan.ScannerOutcome) scan.ScannerOutcome {
	publisher.Publish(events.ScannerStart, events.ScannerStartPayload{
		Scanner: scanner.String(),
		PageURL: pageURL,
	})

	started := time.Now()
	outcome := fn()
	outcome.Scanner = scanner
	outcome.PageURL = pageURL
	if outcome.Duration == 0 {
		outcome.Duration = time.Since(started)
	}

	if outcome.OK() {
		publisher.Publish(events.ScannerComplete, events.ScannerCompletePayload{
			Scanner:    scanner.String(),
			PageURL:    pageURL,
			Summary:    fmt.Sprintf("%d bytes of scanner output", len(outcome.Raw)),
			DurationMs: outcome.Duration.Milliseconds(),
		})
	} else {
		publisher.Publish(events.ScannerError, events.ScannerErrorPayload{
			Scanner: scanner.String(),
			PageURL: pageURL,
			Status:  outcome.Status.String(),
			Error:   outcome.Error,
		})
	}
	return outcome
}
