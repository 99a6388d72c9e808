package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/pyneda/kansa/lib"
	"github.com/pyneda/kansa/pkg/storage"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	resultsFormat  string
	resultsSummary bool
)

// resultsCmd represents the results command
var resultsCmd = &cobra.Command{
	Use:   "results <scan-id>",
	Short: "Print the archived findings of a scan",
	Long: `Reads the summary a finished scan left in the storage directory and
prints its findings. Requires the scan to have run with storage enabled.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			log.Error().Msg("Exactly one scan id must be provided")
			_ = cmd.Usage()
			os.Exit(2)
		}
		formatType, err := lib.ParseFormatType(resultsFormat)
		if err != nil {
			log.Error().Err(err).Msg("Invalid format")
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

		if resultsSummary {
			output, err := lib.FormatSingleOutput(summary, formatType)
			if err != nil {
				log.Error().Err(err).Msg("Could not format summary")
				os.Exit(2)
			}
			fmt.Println(output)
			return
		}

		log.Info().
			Float64("score", summary.Score).
			Str("compliance", summary.ComplianceLevel.String()).
			Int("findings", len(summary.Findings)).
			Int("pages", summary.PagesScanned).
			Msg("Archived scan")

		output, err := lib.FormatOutput(summary.Findings, formatType)
		if err != nil {
			log.Error().Err(err).Msg("Could not format findings")
			os.Exit(2)
		}
		fmt.Println(output)
	},
}

func init() {
	rootCmd.AddCommand(resultsCmd)
	resultsCmd.Flags().StringVarP(&resultsFormat, "format", "f", "table", "Output format (table, json, yaml, text, pretty)")
	resultsCmd.Flags().BoolVarP(&resultsSummary, "summary", "S", false, "Print the scan summary instead of the findings list")
}
