// Package metrics exposes Prometheus collectors for webhook dispatch.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Send outcome label values.
const (
	SendDispatched = "dispatched"
	SendSkipped    = "skipped"
	SendDuplicate  = "duplicate"
)

var (
	promDispatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_notifier_dispatches_total",
			Help: "Total webhook POST attempts by result",
		},
		[]string{"result"},
	)
	promDispatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "webhook_notifier_dispatch_duration_seconds",
			Help:    "Duration of a single webhook POST",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)
	promSends = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_notifier_sends_total",
			Help: "Total notifications handled by outcome",
		},
		[]string{"outcome"},
	)
	promMirrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_notifier_mirror_sends_total",
			Help: "Total mirror notifier sends by notifier and result",
		},
		[]string{"notifier", "result"},
	)
)

func init() {
	prometheus.MustRegister(promDispatches, promDispatchDuration, promSends, promMirrors)
}

func result(success bool) string {
	if success {
		return ResultSuccess
	}
	return ResultFailure
}

// ObserveDispatch records one webhook POST.
func ObserveDispatch(success bool, d time.Duration) {
	promDispatches.WithLabelValues(result(success)).Inc()
	promDispatchDuration.Observe(d.Seconds())
}

// IncSend records how a notification was handled.
func IncSend(outcome string) {
	promSends.WithLabelValues(outcome).Inc()
}

// ObserveMirror records one mirror notifier send.
func ObserveMirror(notifier string, success bool) {
	promMirrors.WithLabelValues(notifier, result(success)).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
