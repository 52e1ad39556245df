// Package metrics exposes Prometheus gauges/counters for a single job run,
// served over an optional --metrics-addr HTTP endpoint (§4.11).
//
// Grounded on smazurov-videonode's internal/metrics package (promauto-
// registered collectors against the default registry, package-level setter
// functions instead of a struct threaded through every caller).
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	jobProgress = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "mediaplan",
		Name:      "job_progress_ratio",
		Help:      "Transcode progress of the current job, 0.0-1.0",
	})

	jobState = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "mediaplan",
		Name:      "job_state",
		Help:      "Current workflow state, as its ordinal (§4.8)",
	})

	jobOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mediaplan",
		Name:      "job_outcomes_total",
		Help:      "Completed job runs by outcome (success|failure)",
	}, []string{"outcome"})
)

// SetProgress records the most recent transcode progress fraction.
func SetProgress(fraction float64) { jobProgress.Set(fraction) }

// SetState records the job's current workflow state as its ordinal.
func SetState(ordinal int) { jobState.Set(float64(ordinal)) }

// RecordOutcome increments the completed-job counter for outcome
// ("success" or "failure").
func RecordOutcome(outcome string) { jobOutcomes.WithLabelValues(outcome).Inc() }

// Serve starts a blocking HTTP server exposing /metrics on addr, until ctx is
// cancelled. Errors other than the expected shutdown error are returned.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
