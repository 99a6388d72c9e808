package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pyneda/kansa/lib"
	"github.com/pyneda/kansa/pkg/report"
	"github.com/pyneda/kansa/pkg/storage"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	reportTitle  string
	reportFormat string
	reportOutput string
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report <scan-id>",
	Short: "Generates a report for an archived scan",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			log.Error().Msg("Exactly one scan id must be provided")
			_ = cmd.Usage()
			os.Exit(2)
		}

		format, err := report.ParseFormat(reportFormat)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}

		store := storage.NewStore(storage.ConfigFromViper())
		summary, err := store.LoadSummary(args[0])
		if err != nil {
			if errors.Is(err, storage.ErrNotArchived) {
				log.Error().Str("scan", args[0]).Msg("No archived scan with that id")
			} else {
				log.Error().Err(err).Str("scan", args[0]).Msg("Could not load archived scan")
			}
			os.Exit(1)
		}

		if reportTitle == "" {
			reportTitle = fmt.Sprintf("Accessibility report for scan %s", summary.ScanID)
		}
		if reportOutput == "" {
			reportOutput = fmt.Sprintf("%s-report.%s", lib.Slugify(summary.ScanID), format)
		}

		options := report.ReportOptions{
			Result: summary,
			Title:  reportTitle,
			Format: format,
		}

		var buf bytes.Buffer
		if err := report.GenerateReport(options, &buf); err != nil {
			log.Error().Err(err).Msg("Failed to generate report")
			os.Exit(1)
		}

		if err := os.WriteFile(reportOutput, buf.Bytes(), 0644); err != nil {
			fmt.Printf("Failed to write report to file: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Report generated and saved to %s\n", reportOutput)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportTitle, "title", "T", "", "Report Title")
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "html", "Report Format (html or json)")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Output file path")
}
