package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sawpanic/newswatch/internal/calendar"
	"github.com/sawpanic/newswatch/internal/report"
)

func runFetch(cmd *cobra.Command, args []string) error {
	opts, err := buildRun(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	log.Info().
		Str("start", opts.start.Format("2006-01-02 15:04")).
		Str("end", opts.end.Format("2006-01-02 15:04")).
		Strs("currencies", opts.currencies).
		Bool("high_only", opts.highOnly).
		Msg("fetching calendar")

	events, stage := opts.ingestFiltered(ctx)

	if futureMinutes, _ := cmd.Flags().GetInt("future-minutes"); futureMinutes != 0 {
		events, err = calendar.FilterByFutureMinutes(events, time.Now().In(calendar.DisplayZone()), futureMinutes)
		if err != nil {
			return err
		}
	}

	// Empty is a legitimate outcome: "nothing matched" and "ingestion
	// fell through the whole chain" both land here, with the stage log
	// telling them apart.
	if len(events) == 0 {
		fmt.Println("No events matched (stage: " + string(stage) + ").")
		return nil
	}

	for _, ev := range events {
		fmt.Printf("%s  %-3s  %-6s  %s\n",
			ev.DT.Format("2006-01-02 15:04"), ev.Currency, ev.Impact, ev.Title)
	}
	fmt.Printf("%d events (stage: %s)\n", len(events), stage)

	if save, _ := cmd.Flags().GetBool("save"); save {
		out := fmt.Sprintf("economic_events_%s.csv", opts.start.Format("2006-01-02"))
		if err := report.WriteCSV(out, events); err != nil {
			return fmt.Errorf("save failed: %w", err)
		}
		fmt.Printf("Saved -> %s\n", out)
	}
	return nil
}
