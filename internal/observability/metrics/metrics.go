// Package metrics registers the Prometheus collectors for the HTTP surface,
// the per-submission relay steps and the outbound provider calls.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests handled by the form relay",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	stepTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "formrelay_step_total",
		Help: "Relay steps executed per form, labelled by result (ok, failed)",
	}, []string{"form", "step", "result"})

	stepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "formrelay_step_duration_seconds",
		Help:    "Time spent in each relay step",
		Buckets: prometheus.DefBuckets,
	}, []string{"form", "step"})

	providerCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "formrelay_provider_call_duration_seconds",
		Help:    "Latency of outbound calls to Mailgun and Mailchimp",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider", "method", "status"})
)

// ObserveHTTPRequest tracks the handling time of HTTP requests.
func ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	httpRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// ObserveStep records one relay step result.
func ObserveStep(form, step string, ok bool, d time.Duration) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	stepTotal.WithLabelValues(form, step, result).Inc()
	stepDuration.WithLabelValues(form, step).Observe(d.Seconds())
}

// ObserveProviderCall tracks outbound API latency. status is 0 on transport errors.
func ObserveProviderCall(provider, method string, status int, d time.Duration) {
	providerCallDuration.WithLabelValues(provider, method, strconv.Itoa(status)).Observe(d.Seconds())
}
