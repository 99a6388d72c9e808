package drivers

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyneda/kansa/pkg/events"
	"github.com/pyneda/kansa/pkg/scan"
)

// writeScript drops an executable shell script into a temp dir and returns
// its path, so tests can stand in for the real scanner binaries.
func writeScript(t *testing.T, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixtures require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), name)
	err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755)
	require.NoError(t, err)
	return path
}

func TestSubprocessDriverOK(t *testing.T) {
	// Echo back the argv so the test can check the contract: URL first,
	// tool flags after.
	script := writeScript(t, "pa11y", `printf '{"url":"%s","first_flag":"%s","second_flag":"%s"}' "$1" "$2" "$3"`)

	recorder := &eventRecorder{}
	driver := NewPa11yDriver(Config{Pa11yBinary: script, Timeout: 5 * time.Second}, recorder)

	outcome := driver.Drive(context.Background(), "https://example.com/about")

	require.Equal(t, scan.OutcomeOK, outcome.Status, "outcome error: %s", outcome.Error)
	assert.Equal(t, scan.ScannerPa11y, outcome.Scanner)
	assert.Equal(t, "https://example.com/about", outcome.PageURL)

	var echoed struct {
		URL        string `json:"url"`
		FirstFlag  string `json:"first_flag"`
		SecondFlag string `json:"second_flag"`
	}
	require.NoError(t, json.Unmarshal(outcome.Raw, &echoed))
	assert.Equal(t, "https://example.com/about", echoed.URL)
	assert.Equal(t, "--reporter", echoed.FirstFlag)
	assert.Equal(t, "json", echoed.SecondFlag)

	assert.Equal(t, []events.Type{events.ScannerStart, events.ScannerOperation, events.ScannerComplete}, recorder.Types())
}

func TestSubprocessDriverFailure(t *testing.T) {
	script := writeScript(t, "axe", `echo "could not launch browser" >&2; exit 2`)

	recorder := &eventRecorder{}
	driver := NewAxeDriver(Config{AxeBinary: script, Timeout: 5 * time.Second}, recorder)

	outcome := driver.Drive(context.Background(), "https://example.com")

	assert.Equal(t, scan.OutcomeFailed, outcome.Status)
	assert.Contains(t, outcome.Error, "could not launch browser")
	assert.Equal(t, []events.Type{events.ScannerStart, events.ScannerOperation, events.ScannerError}, recorder.Types())
}

func TestSubprocessDriverTimeout(t *testing.T) {
	script := writeScript(t, "lighthouse", `sleep 5`)

	driver := NewLighthouseDriver(Config{
		LighthouseBinary: script,
		Timeout:          100 * time.Millisecond,
		KillGrace:        100 * time.Millisecond,
	}, NopPublisher)

	started := time.Now()
	outcome := driver.Drive(context.Background(), "https://example.com")

	assert.Equal(t, scan.OutcomeTimedOut, outcome.Status)
	assert.Contains(t, outcome.Error, "killed after")
	assert.Less(t, time.Since(started), 3*time.Second, "timed out unit should not wait for the full sleep")
}

func TestSubprocessDriverBadOutput(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantError string
	}{
		{name: "no output", body: `exit 0`, wantError: "scanner produced no output"},
		{name: "not json", body: `echo "TypeError: undefined"`, wantError: "scanner output is not valid JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := writeScript(t, "pa11y", tt.body)
			driver := NewPa11yDriver(Config{Pa11yBinary: script, Timeout: 5 * time.Second}, NopPublisher)

			outcome := driver.Drive(context.Background(), "https://example.com")

			assert.Equal(t, scan.OutcomeFailed, outcome.Status)
			assert.Equal(t, tt.wantError, outcome.Error)
		})
	}
}

func TestSubprocessDriverMissingBinary(t *testing.T) {
	driver := NewAxeDriver(Config{
		AxeBinary: filepath.Join(t.TempDir(), "does-not-exist"),
		Timeout:   time.Second,
	}, NopPublisher)

	outcome := driver.Drive(context.Background(), "https://example.com")

	assert.Equal(t, scan.OutcomeFailed, outcome.Status)
	assert.NotEmpty(t, outcome.Error)
}

func TestSubprocessDriverEnvIsMinimal(t *testing.T) {
	t.Setenv("KANSA_TEST_LEAK", "leaked")
	script := writeScript(t, "pa11y", `printf '{"leak":"%s","path_set":"%s"}' "${KANSA_TEST_LEAK:-absent}" "${PATH:+yes}"`)

	driver := NewPa11yDriver(Config{Pa11yBinary: script, Timeout: 5 * time.Second}, NopPublisher)
	outcome := driver.Drive(context.Background(), "https://example.com")

	require.Equal(t, scan.OutcomeOK, outcome.Status, "outcome error: %s", outcome.Error)
	var echoed struct {
		Leak    string `json:"leak"`
		PathSet string `json:"path_set"`
	}
	require.NoError(t, json.Unmarshal(outcome.Raw, &echoed))
	assert.Equal(t, "absent", echoed.Leak)
	assert.Equal(t, "yes", echoed.PathSet)
}

func TestSubprocessDriverTrimsStdout(t *testing.T) {
	script := writeScript(t, "axe", `echo '  {"violations":[]}  '`)

	driver := NewAxeDriver(Config{AxeBinary: script, Timeout: 5 * time.Second}, NopPublisher)
	outcome := driver.Drive(context.Background(), "https://example.com")

	require.Equal(t, scan.OutcomeOK, outcome.Status)
	assert.False(t, strings.HasPrefix(string(outcome.Raw), " "))
	assert.True(t, json.Valid(outcome.Raw))
}
