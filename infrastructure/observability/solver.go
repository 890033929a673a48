package observability

import (
	"context"
	"time"

	"github.com/felixgeelhaar/pareto-mdp/domain/telemetry"
)

// SolverMetrics holds the instruments the solvers record into.
type SolverMetrics struct {
	// Sweeps counts value-iteration sweeps.
	Sweeps telemetry.Counter

	// Rounds counts policy-iteration rounds.
	Rounds telemetry.Counter

	// FrontierSize records the total Q-frontier size after each sweep.
	FrontierSize telemetry.Gauge

	// SolveDuration records wall time per solve.
	SolveDuration telemetry.Histogram
}

// NewSolverMetrics creates solver instruments on meter.
func NewSolverMetrics(meter telemetry.Meter) *SolverMetrics {
	return &SolverMetrics{
		Sweeps: meter.Counter(telemetry.MetricSweeps,
			telemetry.WithDescription("Value-iteration sweeps run"),
			telemetry.WithUnit("{sweep}"),
		),
		Rounds: meter.Counter(telemetry.MetricRounds,
			telemetry.WithDescription("Policy-iteration rounds run"),
			telemetry.WithUnit("{round}"),
		),
		FrontierSize: meter.Gauge(telemetry.MetricFrontierSize,
			telemetry.WithDescription("Vectors held across all Q-frontiers"),
			telemetry.WithUnit("{vector}"),
		),
		SolveDuration: meter.Histogram(telemetry.MetricSolveDuration,
			telemetry.WithDescription("Duration of a solve"),
			telemetry.WithUnit("s"),
		),
	}
}

// RecordSweep records one finished sweep.
func (m *SolverMetrics) RecordSweep(ctx context.Context, solveID string, frontier int) {
	m.Sweeps.Add(ctx, 1, telemetry.String(telemetry.KeySolveID, solveID))
	m.FrontierSize.Record(ctx, float64(frontier), telemetry.String(telemetry.KeySolveID, solveID))
}

// RecordRound records one finished policy-iteration round.
func (m *SolverMetrics) RecordRound(ctx context.Context, solveID string) {
	m.Rounds.Add(ctx, 1, telemetry.String(telemetry.KeySolveID, solveID))
}

// RecordSolve records a finished solve.
func (m *SolverMetrics) RecordSolve(ctx context.Context, solver string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.SolveDuration.Record(ctx, d.Seconds(),
		telemetry.String(telemetry.KeySolver, solver),
		telemetry.String("status", status),
	)
}
