package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	pollCyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "isswatch_poll_cycles_total",
			Help: "Total number of poll cycles by outcome.",
		},
		[]string{"outcome"},
	)

	fetchErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "isswatch_fetch_errors_total",
			Help: "Total number of data-fetch failures by source.",
		},
		[]string{"source"},
	)

	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "isswatch_notifications_total",
			Help: "Total number of notification attempts by result.",
		},
		[]string{"result"},
	)

	distanceKm = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "isswatch_distance_km",
			Help: "Great-circle distance from the observer to the satellite in kilometers.",
		},
	)

	overheadFlag = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "isswatch_overhead",
			Help: "1 when the satellite is within the overhead threshold.",
		},
	)

	nightFlag = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "isswatch_night",
			Help: "1 when it is currently night at the observer's location.",
		},
	)

	consecutiveErrors = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "isswatch_consecutive_errors",
			Help: "Current count of consecutive failed poll cycles.",
		},
	)
)

func init() {
	prometheus.MustRegister(pollCyclesTotal)
	prometheus.MustRegister(fetchErrorsTotal)
	prometheus.MustRegister(notificationsTotal)
	prometheus.MustRegister(distanceKm)
	prometheus.MustRegister(overheadFlag)
	prometheus.MustRegister(nightFlag)
	prometheus.MustRegister(consecutiveErrors)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveCycle records a completed poll cycle with its outcome.
func ObserveCycle(outcome string) {
	pollCyclesTotal.WithLabelValues(outcome).Inc()
}

// IncFetchError records a data-fetch failure for a source.
func IncFetchError(source string) {
	fetchErrorsTotal.WithLabelValues(source).Inc()
}

// IncNotification records a notification attempt result.
func IncNotification(result string) {
	notificationsTotal.WithLabelValues(result).Inc()
}

// SetDistanceKm updates the last observed distance gauge.
func SetDistanceKm(km float64) {
	distanceKm.Set(km)
}

// SetOverhead updates the overhead flag gauge.
func SetOverhead(overhead bool) {
	overheadFlag.Set(boolToFloat(overhead))
}

// SetNight updates the night flag gauge.
func SetNight(night bool) {
	nightFlag.Set(boolToFloat(night))
}

// SetConsecutiveErrors updates the consecutive failure gauge.
func SetConsecutiveErrors(n int) {
	consecutiveErrors.Set(float64(n))
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
