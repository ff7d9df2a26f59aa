package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sawpanic/newswatch/internal/calendar"
)

func runMonitor(cmd *cobra.Command, args []string) error {
	opts, err := buildRun(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	events, stage := opts.ingestFiltered(ctx)
	windowed, err := calendar.BuildWindows(events, opts.cfg.Windows)
	if err != nil {
		return err
	}

	// One clock sample for both queries so active/next never disagree
	// about "now" within a single run.
	now := time.Now().In(calendar.DisplayZone())

	active, hit := calendar.IsNewsActive(windowed, now)
	if active {
		fmt.Printf("ACTIVE  %s %s %s (window %s - %s)\n",
			hit.Currency, hit.Impact, hit.Title,
			hit.WindowStart.Format("15:04"), hit.WindowEnd.Format("15:04"))
	} else {
		fmt.Println("No news window is active.")
	}

	if next := calendar.NextNews(windowed, now); next != nil {
		fmt.Printf("NEXT    %s %s %s at %s (in %s)\n",
			next.Currency, next.Impact, next.Title,
			next.DT.Format("2006-01-02 15:04"),
			next.DT.Sub(now).Round(time.Minute))
	} else {
		fmt.Println("No upcoming events in range (stage: " + string(stage) + ").")
	}
	return nil
}
