package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Submission outcomes used as the result label.
const (
	ResultSuccess  = "success"
	ResultFailed   = "failed"
	ResultConflict = "conflict"
)

// CheckoutMetrics records checkout flow activity. A nil receiver is a no-op.
type CheckoutMetrics struct {
	opened       *prometheus.CounterVec
	transitions  *prometheus.CounterVec
	submissions  *prometheus.CounterVec
	submitTime   *prometheus.HistogramVec
	catalogFails *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	opened := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_sessions_opened_total",
		Help: "Checkout sessions opened, by whether the extras step is present.",
	}, []string{"extras_step"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_step_transitions_total",
		Help: "Checkout step transitions.",
	}, []string{"from", "to"})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_submissions_total",
		Help: "Order submissions by result.",
	}, []string{"result"})
	submitTime := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_submit_duration_seconds",
		Help:    "Time spent persisting submitted orders.",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})
	catalogFails := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_fetch_failures_total",
		Help: "Catalog reads that degraded to an empty list.",
	}, []string{"catalog"})
	reg.MustRegister(opened, transitions, submissions, submitTime, catalogFails)
	return &CheckoutMetrics{
		opened:       opened,
		transitions:  transitions,
		submissions:  submissions,
		submitTime:   submitTime,
		catalogFails: catalogFails,
	}
}

func (m *CheckoutMetrics) IncOpened(hasExtrasStep bool) {
	if m == nil || m.opened == nil {
		return
	}
	label := "false"
	if hasExtrasStep {
		label = "true"
	}
	m.opened.WithLabelValues(label).Inc()
}

func (m *CheckoutMetrics) IncTransition(from, to string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// ObserveSubmission counts a submission and records its duration.
func (m *CheckoutMetrics) ObserveSubmission(result string, duration time.Duration) {
	if m == nil || m.submissions == nil {
		return
	}
	result = normalizeLabel(result)
	m.submissions.WithLabelValues(result).Inc()
	m.submitTime.WithLabelValues(result).Observe(duration.Seconds())
}

func (m *CheckoutMetrics) IncCatalogFailure(catalog string) {
	if m == nil || m.catalogFails == nil {
		return
	}
	m.catalogFails.WithLabelValues(normalizeLabel(catalog)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
