package bscmp

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts component-level events. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	submissions *prometheus.CounterVec
	badParams   prometheus.Counter
	errors      *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg when reg is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bscmp",
			Name:      "form_submissions_total",
			Help:      "Form submissions by outcome (processed, rejected).",
		}, []string{"outcome"}),
		badParams: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bscmp",
			Name:      "bad_state_params_total",
			Help:      "Requests carrying state parameters that could not be decoded.",
		}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bscmp",
			Name:      "render_errors_total",
			Help:      "Handler and render failures by HTTP status.",
		}, []string{"status"}),
	}
	if reg != nil {
		reg.MustRegister(m.submissions, m.badParams, m.errors)
	}
	return m
}

func (m *Metrics) submission(state FormState) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(state.String()).Inc()
}

func (m *Metrics) badParam() {
	if m == nil {
		return
	}
	m.badParams.Inc()
}

func (m *Metrics) renderError(status string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(status).Inc()
}
