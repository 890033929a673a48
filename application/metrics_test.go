package application

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/felixgeelhaar/pareto-mdp/domain/telemetry"
	"github.com/felixgeelhaar/pareto-mdp/infrastructure/observability"
)

// counterTotal sums every data point of the named int64 counter.
func counterTotal(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("%s: expected Sum[int64], got %T", name, m.Data)
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestSolvers_RecordMetrics(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	provider, err := observability.New(observability.WithMetricReader(reader))
	if err != nil {
		t.Fatalf("observability.New() error = %v", err)
	}
	defer provider.Shutdown(ctx)

	vi, err := NewValueIterator[string, string](WithSweeps(7), WithMeter(provider.Meter()))
	if err != nil {
		t.Fatalf("NewValueIterator() error = %v", err)
	}
	if _, err := vi.Solve(ctx, chainModel(t, 0.3, true), chainReward, goalThenWall); err != nil {
		t.Fatalf("Solve() error = %v", err)
	}

	pi, err := NewPolicyIterator[string, string](WithMeter(provider.Meter()))
	if err != nil {
		t.Fatalf("NewPolicyIterator() error = %v", err)
	}
	sol, err := pi.Solve(ctx, chainModel(t, 0.3, false), chainReward, goalThenWall)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}

	if got := counterTotal(t, reader, telemetry.MetricSweeps); got != 7 {
		t.Errorf("%s = %d, want 7", telemetry.MetricSweeps, got)
	}
	if got := counterTotal(t, reader, telemetry.MetricRounds); got != int64(sol.Rounds()) {
		t.Errorf("%s = %d, want %d", telemetry.MetricRounds, got, sol.Rounds())
	}
}
