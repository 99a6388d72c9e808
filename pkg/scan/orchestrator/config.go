package orchestrator

import (
	"time"

	"github.com/spf13/viper"

	"github.com/pyneda/kansa/pkg/crawl"
	"github.com/pyneda/kansa/pkg/scan"
	"github.com/pyneda/kansa/pkg/scan/drivers"
)

const (
	// DefaultMaxTotal bounds units in flight across all active scans.
	DefaultMaxTotal = 4
	// DefaultWaveSlots is one because every WAVE unit spends the same API
	// credit quota.
	DefaultWaveSlots = 1
	// DefaultSubprocessSlots applies to the headless browser scanners.
	DefaultSubprocessSlots = 2

	DefaultSelectionCap   = 15
	DefaultSessionTimeout = 30 * time.Minute
)

// Config wires one engine.
type Config struct {
	// MaxTotal is the global unit token count.
	MaxTotal int
	// PerScanner is the per-scanner unit token count. Missing scanners get
	// their default slot count.
	PerScanner map[scan.Scanner]int
	// SelectionCap bounds how many pages one scan may select.
	SelectionCap int
	// SessionTimeout is the wall clock bound for a whole scan.
	SessionTimeout time.Duration

	// Crawl carries fetch tuning for the discovery stage. Page and depth
	// bounds come from the request.
	Crawl crawl.Options
	// Drivers configures scanner construction.
	Drivers drivers.Config
}

// WithDefaults fills unset fields.
func (c Config) WithDefaults() Config {
	if c.MaxTotal <= 0 {
		c.MaxTotal = DefaultMaxTotal
	}
	perScanner := make(map[scan.Scanner]int, len(scan.AllScanners()))
	for _, scanner := range scan.AllScanners() {
		slots := c.PerScanner[scanner]
		if slots <= 0 {
			if scanner == scan.ScannerWave {
				slots = DefaultWaveSlots
			} else {
				slots = DefaultSubprocessSlots
			}
		}
		perScanner[scanner] = slots
	}
	c.PerScanner = perScanner
	if c.SelectionCap <= 0 {
		c.SelectionCap = DefaultSelectionCap
	}
	if c.SessionTimeout <= 0 {
		c.SessionTimeout = DefaultSessionTimeout
	}
	c.Drivers = c.Drivers.WithDefaults()
	return c
}

// ConfigFromViper assembles the engine configuration from the loaded config
// tree.
func ConfigFromViper() Config {
	return Config{
		MaxTotal: viper.GetInt("scan.concurrency.max_total"),
		PerScanner: map[scan.Scanner]int{
			scan.ScannerWave:       viper.GetInt("scan.concurrency.per_scanner.wave"),
			scan.ScannerPa11y:      viper.GetInt("scan.concurrency.per_scanner.pa11y"),
			scan.ScannerAxe:        viper.GetInt("scan.concurrency.per_scanner.axe"),
			scan.ScannerLighthouse: viper.GetInt("scan.concurrency.per_scanner.lighthouse"),
		},
		SelectionCap:   viper.GetInt("scan.selection.cap"),
		SessionTimeout: time.Duration(viper.GetInt("scan.session_timeout")) * time.Second,
		Drivers:        drivers.ConfigFromViper(),
	}.WithDefaults()
}
