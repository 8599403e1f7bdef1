package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pdftools"

var (
	operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "PDF operations by endpoint and result",
		},
		[]string{"operation", "result"},
	)

	operationLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of PDF operations by endpoint",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	compressions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compressions_total",
			Help:      "Compressions by method, tier used and whether the target was missed",
		},
		[]string{"method", "tier", "target_missed"},
	)

	compressionRatio = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compression_ratio_percent",
			Help:      "Size reduction achieved by compression, in percent",
			Buckets:   []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90},
		},
	)

	unlockAttempts = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "unlock_dictionary_attempts",
			Help:      "Passwords tried per dictionary unlock",
			Buckets:   prometheus.LinearBuckets(1, 10, 10),
		},
	)

	scratchActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scratch_dirs_active",
			Help:      "Scratch directories currently held by requests",
		},
	)

	scratchSwept = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scratch_dirs_swept_total",
			Help:      "Stale scratch directories removed by the sweeper",
		},
	)

	registerOnce sync.Once
)

// Init registers collectors. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(operations, operationLatency, compressions, compressionRatio,
			unlockAttempts, scratchActive, scratchSwept)
	})
}

// Handler returns the http.Handler for /metrics
func Handler() http.Handler { return promhttp.Handler() }

func ObserveOperation(op, result string, dur time.Duration) {
	operations.WithLabelValues(op, result).Inc()
	operationLatency.WithLabelValues(op).Observe(dur.Seconds())
}

func ObserveCompression(method, tier string, targetMissed bool, ratio float64) {
	compressions.WithLabelValues(method, tier, boolToStr(targetMissed)).Inc()
	compressionRatio.Observe(ratio)
}

func ObserveUnlockAttempts(n int) { unlockAttempts.Observe(float64(n)) }

func SetScratchActive(n int) { scratchActive.Set(float64(n)) }
func AddScratchSwept(n int) { scratchSwept.Add(float64(n)) }

func boolToStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
