package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricPassesTotal    = "hotline.analysis.passes.total"
	metricPassDuration   = "hotline.analysis.pass.duration.seconds"
	metricRudeEditsTotal = "hotline.analysis.rude_edits.total"
	metricDecisionsTotal = "hotline.session.decisions.total"

	attrKind     = "kind"
	attrDecision = "decision"
)

// passDurationBucketBoundaries covers 1ms to 10s. A pass parses two
// document snapshots and diffs them, so anything past a few seconds
// indicates a pathological document.
var passDurationBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// AnalysisMetrics holds OTel instruments for live-edit analysis passes.
type AnalysisMetrics struct {
	passesTotal    metric.Int64Counter
	passDuration   metric.Float64Histogram
	rudeEditsTotal metric.Int64Counter
	decisionsTotal metric.Int64Counter
}

// NewAnalysisMetrics creates analysis metric instruments from the given meter.
func NewAnalysisMetrics(mt metric.Meter) (*AnalysisMetrics, error) {
	b := newMetricBuilder(mt)

	am := &AnalysisMetrics{
		passesTotal:    b.counter(metricPassesTotal, "Total analysis passes by outcome kind", "{pass}"),
		passDuration:   b.histogram(metricPassDuration, "Per-pass analysis duration in seconds", "s", passDurationBucketBoundaries...),
		rudeEditsTotal: b.counter(metricRudeEditsTotal, "Total rude edits reported", "{edit}"),
		decisionsTotal: b.counter(metricDecisionsTotal, "Total session decisions by verdict", "{decision}"),
	}

	if b.err != nil {
		return nil, b.err
	}

	return am, nil
}

// RecordPass records one completed analysis pass with its outcome kind,
// rude-edit count, and duration. Safe to call on a nil receiver (no-op).
func (am *AnalysisMetrics) RecordPass(ctx context.Context, kind string, rudeEdits int, duration time.Duration) {
	if am == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(attrKind, kind))

	am.passesTotal.Add(ctx, 1, attrs)
	am.passDuration.Record(ctx, duration.Seconds(), attrs)

	if rudeEdits > 0 {
		am.rudeEditsTotal.Add(ctx, int64(rudeEdits), attrs)
	}
}

// RecordDecision records the session verdict derived from a pass.
// Safe to call on a nil receiver (no-op).
func (am *AnalysisMetrics) RecordDecision(ctx context.Context, decision string) {
	if am == nil {
		return
	}

	am.decisionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrDecision, decision)))
}
