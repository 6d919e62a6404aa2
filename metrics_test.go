package bscmp

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.submission(FormProcessed)
		m.badParam()
		m.renderError("500")
	})
}

func TestMetricsRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.submission(FormProcessed)
	m.submission(FormRejected)
	m.submission(FormRejected)
	m.badParam()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.submissions.WithLabelValues(FormProcessed.String())))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.submissions.WithLabelValues(FormRejected.String())))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.badParams))

	n, err := testutil.GatherAndCount(reg, "bscmp_form_submissions_total", "bscmp_bad_state_params_total")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	assert.Panics(t, func() { NewMetrics(reg) }, "collectors register once")
}

func TestMetricsWithoutRegisterer(t *testing.T) {
	m := NewMetrics(nil)
	m.renderError("400")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.errors.WithLabelValues("400")))
}
