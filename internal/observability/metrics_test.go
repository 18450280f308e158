package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/school-directory/internal/config"
)

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/teachers", "GET", 200, 15*time.Millisecond)
	m.RecordRequest("/teachers", "GET", 200, 5*time.Millisecond)
	m.RecordError("/teachers", "POST", "CONFLICT")
	m.RecordOnboarding("created")
	m.RecordOnboarding("created")
	m.RecordCodeAllocation(1)

	assert.InDelta(t, 2, testutil.ToFloat64(m.requestCount.WithLabelValues("/teachers", "GET", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.errorCount.WithLabelValues("/teachers", "POST", "CONFLICT")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.onboardingResult.WithLabelValues("created")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.codeAttempts))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "NOT_FOUND")
		m.RecordCodeAllocation(3)
		m.RecordOnboarding("failed")
	})
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "DEBUG"}, config.AppConfig{Name: "school-directory", Env: "production"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))

	logger, err = NewLogger(config.LoggerConfig{Level: "bogus"}, config.AppConfig{})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1))
}
