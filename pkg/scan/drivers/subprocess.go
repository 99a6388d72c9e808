package drivers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pyneda/kansa/pkg/events"
	"github.com/pyneda/kansa/pkg/scan"
)

const maxStderrInOutcome = 500

// subprocessDriver runs a CLI scanner: argv is [binary, url, flags...], the
// complete stdout is the raw JSON outcome, stderr goes to the session log.
// A unit over its wall clock is signalled, then killed after the grace
// period.
type subprocessDriver struct {
	scanner   scan.Scanner
	binary    string
	extraArgs []string
	config    Config
	publisher Publisher
}

func (d *subprocessDriver) Scanner() scan.Scanner {
	return d.scanner
}

func (d *subprocessDriver) Drive(ctx context.Context, pageURL string) scan.ScannerOutcome {
	return run(d.publisher, d.scanner, pageURL, func() scan.ScannerOutcome {
		runCtx, cancel := context.WithTimeout(ctx, d.config.Timeout)
		defer cancel()

		args := append([]string{pageURL}, d.extraArgs...)
		cmd := exec.CommandContext(runCtx, d.binary, args...)
		cmd.Env = minimalEnv()
		cmd.Stdin = nil

		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		// Interrupt first so Node tools can tear down their browser; the
		// hard kill lands after the grace window.
		cmd.Cancel = func() error {
			return cmd.Process.Signal(os.Interrupt)
		}
		cmd.WaitDelay = d.config.KillGrace

		d.publisher.Publish(events.ScannerOperation, events.ScannerOperationPayload{
			Scanner:   d.scanner.String(),
			PageURL:   pageURL,
			Operation: "launching " + filepath.Base(d.binary),
		})

		err := cmd.Run()

		if stderrText := strings.TrimSpace(stderr.String()); stderrText != "" {
			log.Debug().Str("scanner", d.scanner.String()).Str("url", pageURL).Str("stderr", truncate(stderrText, 2000)).Msg("Scanner subprocess stderr")
		}

		if runCtx.Err() == context.DeadlineExceeded {
			return scan.ScannerOutcome{
				Status: scan.OutcomeTimedOut,
				Error:  fmt.Sprintf("%s killed after %s", filepath.Base(d.binary), d.config.Timeout),
			}
		}
		if err != nil {
			message := truncate(strings.TrimSpace(stderr.String()), maxStderrInOutcome)
			if message == "" {
				message = err.Error()
			}
			return scan.ScannerOutcome{Status: scan.OutcomeFailed, Error: message}
		}

		raw := bytes.TrimSpace(stdout.Bytes())
		if len(raw) == 0 {
			return scan.ScannerOutcome{Status: scan.OutcomeFailed, Error: "scanner produced no output"}
		}
		if !json.Valid(raw) {
			return scan.ScannerOutcome{Status: scan.OutcomeFailed, Error: "scanner output is not valid JSON"}
		}
		return scan.ScannerOutcome{Status: scan.OutcomeOK, Raw: raw}
	})
}

// NewPa11yDriver runs pa11y with its JSON reporter.
func NewPa11yDriver(config Config, publisher Publisher) Driver {
	config = config.WithDefaults()
	return &subprocessDriver{
		scanner:   scan.ScannerPa11y,
		binary:    config.Pa11yBinary,
		extraArgs: []string{"--reporter", "json"},
		config:    config,
		publisher: publisher,
	}
}

// NewAxeDriver runs the axe CLI with stdout output.
func NewAxeDriver(config Config, publisher Publisher) Driver {
	config = config.WithDefaults()
	return &subprocessDriver{
		scanner:   scan.ScannerAxe,
		binary:    config.AxeBinary,
		extraArgs: []string{"--stdout"},
		config:    config,
		publisher: publisher,
	}
}

// NewLighthouseDriver runs lighthouse restricted to its accessibility
// category.
func NewLighthouseDriver(config Config, publisher Publisher) Driver {
	config = config.WithDefaults()
	return &subprocessDriver{
		scanner: scan.ScannerLighthouse,
		binary:  config.LighthouseBinary,
		extraArgs: []string{
			"--only-categories=accessibility",
			"--output=json",
			"--output-path=stdout",
			"--quiet",
			"--chrome-flags=--headless",
		},
		config:    config,
		publisher: publisher,
	}
}

// minimalEnv builds the subprocess environment: just enough for Node tools
// to find their runtime and a browser.
func minimalEnv() []string {
	env := make([]string, 0, 6)
	for _, key := range []string{"PATH", "HOME", "LANG", "LC_ALL", "TMPDIR", "CHROME_PATH"} {
		if value, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+value)
		}
	}
	return env
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
