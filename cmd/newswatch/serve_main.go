package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sawpanic/newswatch/internal/calendar"
)

// activityState is the latest monitor snapshot served over HTTP.
type activityState struct {
	UpdatedAt time.Time               `json:"updated_at"`
	Active    bool                    `json:"active"`
	Current   *calendar.WindowedEvent `json:"current,omitempty"`
	Next      *calendar.WindowedEvent `json:"next,omitempty"`
	Events    int                     `json:"events"`
}

func runServe(cmd *cobra.Command, args []string) error {
	opts, err := buildRun(cmd)
	if err != nil {
		return err
	}
	listen, _ := cmd.Flags().GetString("listen")
	interval, _ := cmd.Flags().GetDuration("interval")

	var mu sync.RWMutex
	var state activityState

	refresh := func(ctx context.Context) {
		events, stage := opts.ingestFiltered(ctx)
		windowed, werr := calendar.BuildWindows(events, opts.cfg.Windows)
		if werr != nil {
			log.Error().Err(werr).Msg("window build failed")
			return
		}
		now := time.Now().In(calendar.DisplayZone())
		active, hit := calendar.IsNewsActive(windowed, now)
		next := calendar.NextNews(windowed, now)

		mu.Lock()
		state = activityState{
			UpdatedAt: now,
			Active:    active,
			Current:   hit,
			Next:      next,
			Events:    len(windowed),
		}
		mu.Unlock()
		log.Info().Str("stage", string(stage)).Int("events", len(windowed)).Bool("active", active).Msg("activity state refreshed")
	}

	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.HandleFunc("/activity", func(w http.ResponseWriter, _ *http.Request) {
		mu.RLock()
		snapshot := state
		mu.RUnlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(snapshot)
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go refreshLoop(ctx, interval, refresh)

	srv := &http.Server{Addr: listen, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	log.Info().Str("listen", listen).Dur("interval", interval).Msg("serving activity monitor")
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info().Msg("activity monitor stopped")
	return nil
}

// refreshLoop runs fn immediately and then on every tick until the
// context is cancelled. In-flight ingestion observes the same context
// and gets cut short on shutdown.
func refreshLoop(ctx context.Context, interval time.Duration, fn func(context.Context)) {
	fn(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(ctx)
		}
	}
}
