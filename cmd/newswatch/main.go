package main

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // Europe/London must resolve even without system tzdata

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

const (
	appName = "newswatch"
	version = "v1.2.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Economic news calendar fetcher and activity monitor",
		Version: version,
		Long: `newswatch retrieves scheduled macroeconomic news events from the
MyFXBook calendar, normalizes them to Europe/London time, and answers
filter queries and live "is news active / what's next" queries.`,
		Run: runDefaultEntry,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	// Accept snake_case spellings of every flag.
	rootCmd.SetGlobalNormalizationFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch, filter, and print upcoming events",
		Long:  "Ingest the calendar (CSV/XML export or HTML fallback), filter by range, currency, and impact, and print the event table",
		RunE:  runFetch,
	}
	addQueryFlags(fetchCmd)
	fetchCmd.Flags().Bool("save", false, "Write the filtered table to a CSV file")
	fetchCmd.Flags().Int("future-minutes", 0, "Keep only events within N minutes from now (0 disables)")

	monitorCmd := &cobra.Command{
		Use:   "monitor",
		Short: "One-shot live query: active window and next event",
		Long:  "Report whether any event's impact window contains the current instant, and the nearest upcoming event",
		RunE:  runMonitor,
	}
	addQueryFlags(monitorCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the monitor loop with /healthz and /metrics",
		Long:  "Periodically re-ingest the calendar and expose activity state plus Prometheus metrics over HTTP",
		RunE:  runServe,
	}
	addQueryFlags(serveCmd)
	serveCmd.Flags().String("listen", ":8099", "HTTP listen address")
	serveCmd.Flags().Duration("interval", 15*time.Minute, "Re-ingestion interval")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// addQueryFlags attaches the flags shared by every querying command.
func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().String("start", "", "Range start, YYYY-MM-DD or \"YYYY-MM-DD HH:MM\" (default: today)")
	cmd.Flags().String("end", "", "Range end, YYYY-MM-DD or \"YYYY-MM-DD HH:MM\" (default: start +7 days)")
	cmd.Flags().String("currencies", "USD,EUR,GBP,JPY,AUD,CAD,CHF,NZD", "Comma-separated currency filter (empty keeps all)")
	cmd.Flags().Bool("high-only", false, "Keep only High impact events")
	cmd.Flags().String("mfb-export-url", "", "MyFXBook CSV/XML export URL (.xml routes to the XML parser)")
	cmd.Flags().String("source-tz", "", "Timezone of the source feed (IANA name, default from config or UTC)")
	cmd.Flags().String("config", "", "Path to YAML config file")
}

// runDefaultEntry routes bare invocations: interactive terminals get
// help, automation gets usage guidance on stderr.
func runDefaultEntry(cmd *cobra.Command, args []string) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintf(os.Stderr, "newswatch requires a subcommand in non-interactive use:\n\n")
		fmt.Fprintf(os.Stderr, "  newswatch fetch --high-only --currencies USD,EUR\n")
		fmt.Fprintf(os.Stderr, "  newswatch monitor\n")
		fmt.Fprintf(os.Stderr, "  newswatch --help\n")
		os.Exit(2)
	}
	_ = cmd.Help()
}
