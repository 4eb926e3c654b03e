package predictor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus prediction metrics.
var (
	predictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "millwright_predictions_total",
			Help: "Total number of predictions, by inference mode and verdict.",
		},
		[]string{"mode", "status"},
	)
	fallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "millwright_prediction_fallbacks_total",
			Help: "Total number of heuristic fallbacks, by reason.",
		},
		[]string{"reason"},
	)
	inferenceDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "millwright_inference_duration_seconds",
			Help:    "Prediction latency in seconds, by inference mode.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)
)

func init() {
	prometheus.MustRegister(predictionsTotal)
	prometheus.MustRegister(fallbacksTotal)
	prometheus.MustRegister(inferenceDuration)
}

// Inference mode labels.
const (
	modeModel    = "model"
	modeFallback = "fallback"
)

func observeInference(mode string, d time.Duration) {
	inferenceDuration.WithLabelValues(mode).Observe(d.Seconds())
}
