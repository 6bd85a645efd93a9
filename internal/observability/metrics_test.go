package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/hotline-dev/hotline/internal/observability"
)

func setupTestMeter(t *testing.T) (*observability.AnalysisMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := mp.Meter("test")

	am, err := observability.NewAnalysisMetrics(meter)
	require.NoError(t, err)

	return am, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	err := reader.Collect(context.Background(), &rm)
	require.NoError(t, err)

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for idx := range rm.ScopeMetrics {
		for midx := range rm.ScopeMetrics[idx].Metrics {
			if rm.ScopeMetrics[idx].Metrics[midx].Name == name {
				return &rm.ScopeMetrics[idx].Metrics[midx]
			}
		}
	}

	return nil
}

func sumInt64(t *testing.T, m *metricdata.Metrics) int64 {
	t.Helper()

	data, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	var total int64
	for _, dp := range data.DataPoints {
		total += dp.Value
	}

	return total
}

func TestAnalysisMetrics_RecordPass(t *testing.T) {
	t.Parallel()

	am, reader := setupTestMeter(t)
	ctx := context.Background()

	am.RecordPass(ctx, "clean", 0, 25*time.Millisecond)
	am.RecordPass(ctx, "rude_edits", 2, 10*time.Millisecond)

	rm := collectMetrics(t, reader)

	passes := findMetric(rm, "hotline.analysis.passes.total")
	require.NotNil(t, passes)
	assert.Equal(t, int64(2), sumInt64(t, passes))

	rude := findMetric(rm, "hotline.analysis.rude_edits.total")
	require.NotNil(t, rude)
	assert.Equal(t, int64(2), sumInt64(t, rude))

	duration := findMetric(rm, "hotline.analysis.pass.duration.seconds")
	require.NotNil(t, duration)
}

func TestAnalysisMetrics_RecordDecision(t *testing.T) {
	t.Parallel()

	am, reader := setupTestMeter(t)
	ctx := context.Background()

	am.RecordDecision(ctx, "apply")
	am.RecordDecision(ctx, "apply")
	am.RecordDecision(ctx, "block")

	rm := collectMetrics(t, reader)

	decisions := findMetric(rm, "hotline.session.decisions.total")
	require.NotNil(t, decisions)
	assert.Equal(t, int64(3), sumInt64(t, decisions))
}

func TestAnalysisMetrics_NilReceiverIsNoop(t *testing.T) {
	t.Parallel()

	var am *observability.AnalysisMetrics

	assert.NotPanics(t, func() {
		am.RecordPass(context.Background(), "clean", 0, time.Millisecond)
		am.RecordDecision(context.Background(), "skip")
	})
}
