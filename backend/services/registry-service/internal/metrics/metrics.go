package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "chargesol_registry"

// Result label values.
const (
	ResultSuccess = "success"
	ResultInvalid = "invalid"
	ResultError   = "error"
	DirectionNext = "advance"
	DirectionBack = "retreat"
)

// Metrics groups registration counters.
type Metrics struct {
	draftsStarted   prometheus.Counter
	stepTransitions *prometheus.CounterVec
	submissions     *prometheus.CounterVec
	fieldFailures   *prometheus.CounterVec
	submitLatency   prometheus.Histogram
	geocodeFailures prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		draftsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drafts_started_total",
			Help:      "Registration drafts started.",
		}),
		stepTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "step_transitions_total",
			Help:      "Wizard step transitions by direction and result.",
		}, []string{"direction", "result"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Station submissions by result.",
		}, []string{"result"}),
		fieldFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "field_validation_failures_total",
			Help:      "Field validation failures by field.",
		}, []string{"field"}),
		submitLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submit_duration_seconds",
			Help:      "Time spent persisting a submitted station.",
			Buckets:   prometheus.DefBuckets,
		}),
		geocodeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_failures_total",
			Help:      "Address lookups that failed during submission.",
		}),
	}
	reg.MustRegister(
		m.draftsStarted,
		m.stepTransitions,
		m.submissions,
		m.fieldFailures,
		m.submitLatency,
		m.geocodeFailures,
	)
	return m
}

// DraftStarted counts a new draft.
func (m *Metrics) DraftStarted() {
	if m == nil {
		return
	}
	m.draftsStarted.Inc()
}

// StepTransition counts a Continue/Back attempt.
func (m *Metrics) StepTransition(direction, result string) {
	if m == nil {
		return
	}
	m.stepTransitions.WithLabelValues(direction, result).Inc()
}

// Submission counts a submit attempt.
func (m *Metrics) Submission(result string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(result).Inc()
}

// FieldFailures counts each failing field.
func (m *Metrics) FieldFailures(fields map[string]string) {
	if m == nil {
		return
	}
	for field := range fields {
		m.fieldFailures.WithLabelValues(field).Inc()
	}
}

// ObserveSubmit records persistence latency in seconds.
func (m *Metrics) ObserveSubmit(seconds float64) {
	if m == nil {
		return
	}
	m.submitLatency.Observe(seconds)
}

// GeocodeFailed counts a failed address lookup.
func (m *Metrics) GeocodeFailed() {
	if m == nil {
		return
	}
	m.geocodeFailures.Inc()
}
