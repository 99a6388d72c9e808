package cmd

import (
	"encoding/json"
	"os"

	"github.com/pyneda/kansa/pkg/events"
	"github.com/pyneda/kansa/pkg/scan"
	"github.com/pyneda/kansa/pkg/scan/control"
	"github.com/pyneda/kansa/pkg/scan/orchestrator"
	"github.com/pyneda/kansa/pkg/sessions"
	"github.com/pyneda/kansa/pkg/storage"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	scanScanners   []string
	scanPolicy     string
	scanPages      []string
	scanMaxPages   int
	scanMaxDepth   int
	scanWaveAPIKey string
	scanCompany    string
	scanEmail      string
	scanSimulate   bool
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <url>",
	Short: "Run an accessibility scan against a site",
	Long: `Runs the full pipeline in-process: discovers pages, dispatches the
enabled scanners against the selection, aggregates their findings and writes
the result as JSON to stdout. Exits 0 when the scan completed, 1 when it
failed and 2 on usage errors.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			log.Error().Msg("Exactly one target URL must be provided")
			_ = cmd.Usage()
			os.Exit(2)
		}

		scanners, unknown := scan.ParseScanners(scanScanners)
		if len(unknown) > 0 {
			log.Error().Strs("scanners", unknown).Msg("Unknown scanners")
			os.Exit(2)
		}

		request := scan.Request{
			URL:        args[0],
			Company:    scanCompany,
			Email:      scanEmail,
			Scanners:   scanners,
			WaveAPIKey: scanWaveAPIKey,
			Policy:     scan.SelectionPolicy(scanPolicy),
			Pages:      scanPages,
			MaxPages:   scanMaxPages,
			MaxDepth:   scanMaxDepth,
			Simulate:   scanSimulate,
		}

		bus := events.NewBus()
		sessionStore := sessions.NewStore(sessions.ConfigFromViper())
		controls := control.NewRegistry()
		store := storage.NewStore(storage.ConfigFromViper())
		var archiver orchestrator.Archiver
		if store.Enabled() {
			archiver = store
		}
		engine := orchestrator.NewEngine(orchestrator.ConfigFromViper(), bus, sessionStore, controls, archiver)

		id, err := engine.Submit(request)
		if err != nil {
			log.Error().Err(err).Msg("Scan rejected")
			os.Exit(2)
		}
		log.Info().Str("scan", id).Str("url", request.URL).Msg("Scan started")

		subscription, err := engine.Subscribe(id)
		if err != nil {
			log.Error().Err(err).Msg("Could not follow scan events")
			os.Exit(1)
		}
		terminal := followScan(subscription)
		engine.Wait()
		store.Close()

		if terminal.Type != events.ScanComplete {
			os.Exit(1)
		}

		result, err := engine.Result(id)
		if err != nil {
			log.Error().Err(err).Msg("Could not read scan result")
			os.Exit(1)
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			log.Error().Err(err).Msg("Could not write result")
			os.Exit(1)
		}
	},
}

// followScan logs progress until the stream's terminal event and returns it.
func followScan(subscription *events.Subscription) events.Event {
	defer subscription.Close()
	for _, event := range subscription.Replay {
		if logScanEvent(event) {
			return event
		}
	}
	for event := range subscription.C {
		if logScanEvent(event) {
			return event
		}
	}
	return events.Event{}
}

// logScanEvent writes one progress line and reports whether the event was
// terminal.
func logScanEvent(event events.Event) bool {
	switch event.Type {
	case events.DiscoveryProgress:
		if p, ok := event.Payload.(events.DiscoveryProgressPayload); ok {
			log.Info().Int("pages", p.PagesFound).Str("url", p.LastURL).Msg("Discovering")
		}
	case events.ScannerStart:
		if p, ok := event.Payload.(events.ScannerStartPayload); ok {
			log.Debug().Str("scanner", p.Scanner).Str("page", p.PageURL).Msg("Scanner unit started")
		}
	case events.ScannerError:
		if p, ok := event.Payload.(events.ScannerErrorPayload); ok {
			log.Warn().Str("scanner", p.Scanner).Str("page", p.PageURL).Str("status", p.Status).Str("error", p.Error).Msg("Scanner unit failed")
		}
	case events.PageProgress:
		if p, ok := event.Payload.(events.PageProgressPayload); ok {
			log.Info().Int("completed", p.PagesCompleted).Int("total", p.PagesTotal).Str("page", p.PageURL).Msg("Page finished")
		}
	case events.ScanComplete:
		switch p := event.Payload.(type) {
		case events.ScanCompletePayload:
			log.Info().Float64("score", p.Score).Str("compliance", p.ComplianceLevel).Int("findings", p.Findings).Int("confidence", p.Confidence).Msg("Scan completed")
		case events.DiscoveryCompletePayload:
			log.Info().Int("pages", p.PagesFound).Msg("Discovery completed")
		}
		return true
	case events.ScanFailed:
		if p, ok := event.Payload.(events.ScanFailedPayload); ok {
			log.Error().Str("kind", p.Kind).Str("error", p.Error).Msg("Scan failed")
		}
		return true
	}
	return false
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringSliceVarP(&scanScanners, "scanner", "s", []string{"wave", "pa11y", "axe", "lighthouse"}, "Scanners to run (wave, pa11y, axe, lighthouse)")
	scanCmd.Flags().StringVarP(&scanPolicy, "policy", "p", "", "Page selection policy (crawl-then-select, explicit-list, all)")
	scanCmd.Flags().StringArrayVar(&scanPages, "page", nil, "Explicit page URL to scan (repeatable, implies explicit-list)")
	scanCmd.Flags().IntVar(&scanMaxPages, "max-pages", 0, "Max pages to discover")
	scanCmd.Flags().IntVar(&scanMaxDepth, "max-depth", 0, "Max crawl depth")
	scanCmd.Flags().StringVar(&scanWaveAPIKey, "wave-api-key", "", "WAVE API key, overrides the configured one")
	scanCmd.Flags().StringVar(&scanCompany, "company", "", "Company name recorded with the scan")
	scanCmd.Flags().StringVar(&scanEmail, "email", "", "Contact email recorded with the scan")
	scanCmd.Flags().BoolVar(&scanSimulate, "simulate", false, "Replace every scanner with deterministic canned output")
}
