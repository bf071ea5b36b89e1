// Package monitoring exposes prometheus metrics for the collection pipeline
// and the model zoo.
package monitoring

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	datasetsCollected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockcast_datasets_collected_total",
			Help: "Total number of datasets collected and persisted",
		},
		[]string{"ticker"},
	)

	fetchErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockcast_fetch_errors_total",
			Help: "Total number of failed external data fetches",
		},
		[]string{"source"},
	)

	modelsTrained = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockcast_models_trained_total",
			Help: "Total number of models trained from scratch",
		},
		[]string{"algorithm"},
	)

	weightCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockcast_weight_cache_hits_total",
			Help: "Total number of models reconstructed from persisted weights",
		},
		[]string{"algorithm"},
	)

	trainingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stockcast_training_duration_seconds",
			Help:    "Distribution of model training durations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"algorithm"},
	)
)

func init() {
	prometheus.MustRegister(datasetsCollected)
	prometheus.MustRegister(fetchErrors)
	prometheus.MustRegister(modelsTrained)
	prometheus.MustRegister(weightCacheHits)
	prometheus.MustRegister(trainingDuration)
}

// RecordDatasetCollected counts one persisted dataset.
func RecordDatasetCollected(ticker string) {
	datasetsCollected.WithLabelValues(ticker).Inc()
}

// RecordFetchError counts one failed external fetch ("market" or "macro").
func RecordFetchError(source string) {
	fetchErrors.WithLabelValues(source).Inc()
}

// RecordModelTrained counts one from-scratch training run.
func RecordModelTrained(algorithm string, seconds float64) {
	modelsTrained.WithLabelValues(algorithm).Inc()
	trainingDuration.WithLabelValues(algorithm).Observe(seconds)
}

// RecordWeightCacheHit counts one reconstruction from persisted weights.
func RecordWeightCacheHit(algorithm string) {
	weightCacheHits.WithLabelValues(algorithm).Inc()
}

// StartMetricsServer serves /metrics on the given port in the background.
// A listener failure (port in use, bad port) is logged, not fatal.
func StartMetricsServer(port int, log zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
			log.Error().Err(err).Int("port", port).Msg("metrics listener failed")
		}
	}()
}
