// Package storage archives finished scans on disk: the aggregated summary,
// the raw scanner outputs and the full event stream, one directory per scan.
package storage

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"github.com/spf13/viper"

	"github.com/pyneda/kansa/lib"
	"github.com/pyneda/kansa/pkg/events"
	"github.com/pyneda/kansa/pkg/scan"
)

// ErrNotArchived is returned when no archive exists for a scan id.
var ErrNotArchived = errors.New("scan not found in storage")

const (
	summaryFile = "summary.json"
	eventsFile  = "events.log"
)

// Config controls whether and where scans are archived.
type Config struct {
	Enabled   bool
	Directory string
}

// ConfigFromViper reads the storage settings.
func ConfigFromViper() Config {
	return Config{
		Enabled:   viper.GetBool("storage.enabled"),
		Directory: viper.GetString("storage.directory"),
	}
}

// Store writes scan archives. A disabled store drops writes but still serves
// reads from the configured directory.
type Store struct {
	enabled   bool
	directory string
	wg        conc.WaitGroup
}

func NewStore(config Config) *Store {
	return &Store{
		enabled:   config.Enabled,
		directory: config.Directory,
	}
}

// Enabled reports whether archive writes are on.
func (s *Store) Enabled() bool {
	return s.enabled
}

// WatchScan streams a scan's events into events.log until the topic ends.
// The subscription is handed over before the first event is published, so
// the log holds the complete stream in sequence order.
func (s *Store) WatchScan(scanID string, subscription *events.Subscription) {
	if subscription == nil {
		return
	}
	if !s.enabled {
		subscription.Close()
		return
	}
	s.wg.Go(func() {
		s.watch(scanID, subscription)
	})
}

func (s *Store) watch(scanID string, subscription *events.Subscription) {
	dir := s.scanDir(scanID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Error().Err(err).Str("scan", scanID).Msg("Cannot create scan archive directory")
		subscription.Close()
		return
	}
	file, err := os.Create(filepath.Join(dir, eventsFile))
	if err != nil {
		log.Error().Err(err).Str("scan", scanID).Msg("Cannot create event log")
		subscription.Close()
		return
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()

	for _, event := range subscription.Replay {
		s.writeEvent(writer, scanID, event)
	}
	for event := range subscription.C {
		s.writeEvent(writer, scanID, event)
		if err := writer.Flush(); err != nil {
			log.Error().Err(err).Str("scan", scanID).Msg("Event log write failed")
			subscription.Close()
			return
		}
	}
}

// writeEvent appends one event as a JSON line. Heartbeats carry no sequence
// number and are not part of the durable stream.
func (s *Store) writeEvent(writer *bufio.Writer, scanID string, event events.Event) {
	if event.Seq == 0 {
		return
	}
	line, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("scan", scanID).Uint64("seq", event.Seq).Msg("Cannot encode event")
		return
	}
	writer.Write(line)
	writer.WriteByte('\n')
}

// PersistScan writes the summary and per-scanner raw outputs for a terminal
// session. Sessions that never produced a result still get their raw
// outcomes archived.
func (s *Store) PersistScan(session *scan.ScanSession) error {
	if !s.enabled {
		return nil
	}
	dir := s.scanDir(session.ID())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create archive directory: %w", err)
	}

	if result, ok := session.Result(); ok {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode summary: %w", err)
		}
		if err := os.WriteFile(filepath.Join(dir, summaryFile), data, 0644); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	byScanner := make(map[scan.Scanner][]scan.ScannerOutcome)
	for _, outcome := range session.Outcomes() {
		byScanner[outcome.Scanner] = append(byScanner[outcome.Scanner], outcome)
	}
	for scanner, outcomes := range byScanner {
		data, err := json.MarshalIndent(outcomes, "", "  ")
		if err != nil {
			return fmt.Errorf("encode %s outcomes: %w", scanner, err)
		}
		name := fmt.Sprintf("raw_%s.json", strings.ToLower(scanner.String()))
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			return fmt.Errorf("write %s outcomes: %w", scanner, err)
		}
	}

	log.Info().Str("scan", session.ID()).Str("directory", dir).Msg("Scan archived")
	return nil
}

// LoadSummary reads an archived aggregated result. Reads work even when
// archiving is disabled, so the CLI can inspect archives from earlier runs.
func (s *Store) LoadSummary(scanID string) (scan.AggregatedResult, error) {
	data, err := os.ReadFile(filepath.Join(s.scanDir(scanID), summaryFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return scan.AggregatedResult{}, ErrNotArchived
		}
		return scan.AggregatedResult{}, err
	}
	var result scan.AggregatedResult
	if err := json.Unmarshal(data, &result); err != nil {
		return scan.AggregatedResult{}, fmt.Errorf("decode summary: %w", err)
	}
	return result, nil
}

// Close waits for all event watchers to drain. Call after the engine has
// shut down so every topic is closed.
func (s *Store) Close() {
	s.wg.Wait()
}

func (s *Store) scanDir(scanID string) string {
	return filepath.Join(s.directory, lib.Slugify(scanID))
}
