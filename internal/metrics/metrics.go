// Package metrics registers the Prometheus instruments for the
// ingestion pipeline. Counters are labeled by fallback stage so the
// "which stage actually served this run" question is answerable from
// /metrics as well as from the logs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FetchAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newswatch_fetch_attempts_total",
		Help: "Ingestion attempts per fallback stage.",
	}, []string{"stage"})

	FetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newswatch_fetch_failures_total",
		Help: "Failed ingestion attempts per fallback stage.",
	}, []string{"stage"})

	StageWins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newswatch_ingest_stage_wins_total",
		Help: "Runs served per fallback stage, including empty exhaustion.",
	}, []string{"stage"})

	EventsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newswatch_events_ingested_total",
		Help: "Raw records produced by winning ingestion stages.",
	})
)
