package cmd

import (
	"fmt"
	"os"

	"github.com/pyneda/kansa/lib"
	"github.com/pyneda/kansa/pkg/crawl"
	"github.com/pyneda/kansa/pkg/events"
	"github.com/pyneda/kansa/pkg/scan/control"
	"github.com/pyneda/kansa/pkg/scan/discovery"
	"github.com/pyneda/kansa/pkg/sessions"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	discoverMaxPages int
	discoverMaxDepth int
	discoverFormat   string
	discoverHeaders  string
	discoverOutput   string
)

// discoverCmd represents the discover command
var discoverCmd = &cobra.Command{
	Use:   "discover <url>",
	Short: "Discover scannable pages without running scanners",
	Long: `Crawls the seed URL and prints the classified page inventory. Useful
for previewing what a scan would select before spending scanner budget.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			log.Error().Msg("Exactly one seed URL must be provided")
			_ = cmd.Usage()
			os.Exit(2)
		}
		formatType, err := lib.ParseFormatType(discoverFormat)
		if err != nil {
			log.Error().Err(err).Msg("Invalid format")
			os.Exit(2)
		}

		bus := events.NewBus()
		sessionStore := sessions.NewStore(sessions.ConfigFromViper())
		controls := control.NewRegistry()
		options := crawl.Options{Headers: lib.ParseHeadersStringToMap(discoverHeaders)}
		runner := discovery.NewRunner(options, bus, sessionStore, controls)

		id, err := runner.Start(args[0], discoverMaxPages, discoverMaxDepth)
		if err != nil {
			log.Error().Err(err).Msg("Discovery rejected")
			os.Exit(2)
		}

		subscription, err := runner.Subscribe(id)
		if err != nil {
			log.Error().Err(err).Msg("Could not follow discovery events")
			os.Exit(1)
		}
		terminal := followScan(subscription)
		runner.Wait()

		if terminal.Type != events.ScanComplete {
			os.Exit(1)
		}

		pages, err := runner.Pages(id)
		if err != nil {
			log.Error().Err(err).Msg("Could not read discovered pages")
			os.Exit(1)
		}
		if discoverOutput != "" {
			if err := lib.FormatOutputToFile(pages, formatType, discoverOutput); err != nil {
				log.Error().Err(err).Str("file", discoverOutput).Msg("Could not write pages")
				os.Exit(2)
			}
			log.Info().Str("file", discoverOutput).Int("pages", len(pages)).Msg("Pages written")
			return
		}
		output, err := lib.FormatOutput(pages, formatType)
		if err != nil {
			log.Error().Err(err).Msg("Could not format pages")
			os.Exit(2)
		}
		fmt.Println(output)
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)
	discoverCmd.Flags().IntVar(&discoverMaxPages, "max-pages", 0, "Max pages to discover")
	discoverCmd.Flags().IntVar(&discoverMaxDepth, "max-depth", 0, "Max crawl depth")
	discoverCmd.Flags().StringVarP(&discoverHeaders, "headers", "H", "", "Headers to use in requests")
	discoverCmd.Flags().StringVarP(&discoverFormat, "format", "f", "table", "Output format (table, json, yaml, text, pretty)")
	discoverCmd.Flags().StringVarP(&discoverOutput, "output", "o", "", "Write the formatted pages to a file instead of stdout")
}
