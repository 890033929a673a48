package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	domainconfig "github.com/felixgeelhaar/pareto-mdp/domain/config"
	"github.com/felixgeelhaar/pareto-mdp/domain/telemetry"
)

func TestNoopTracer(t *testing.T) {
	tracer := NewNoopTracer()

	ctx := context.Background()
	newCtx, span := tracer.StartSpan(ctx, telemetry.SpanSolve)

	if newCtx == nil {
		t.Error("expected non-nil context")
	}
	if span == nil {
		t.Fatal("expected non-nil span")
	}

	span.SetAttributes(telemetry.String("key", "value"))
	span.RecordError(errors.New("test error"))
	span.SetStatus(telemetry.StatusCodeOK, "ok")
	span.AddEvent("sweep")
	span.End()
}

func TestNoopMeter(t *testing.T) {
	meter := NewNoopMeter()
	ctx := context.Background()

	meter.Counter("c").Add(ctx, 1)
	meter.Histogram("h").Record(ctx, 1.5)
	meter.Gauge("g").Record(ctx, 10)
}

func TestNoopProvider(t *testing.T) {
	p := NewNoopProvider()
	if p.Tracer() == nil || p.Meter() == nil {
		t.Fatal("expected tracer and meter")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ServiceName != "pareto-mdp" {
		t.Errorf("ServiceName = %s, want pareto-mdp", cfg.ServiceName)
	}
	if cfg.Tracing.Enabled {
		t.Error("tracing should be disabled by default")
	}
	if cfg.Tracing.SampleRate != 1.0 {
		t.Errorf("SampleRate = %g, want 1", cfg.Tracing.SampleRate)
	}
}

func TestConfigOptions(t *testing.T) {
	cfg := DefaultConfig()
	for _, opt := range []Option{
		WithServiceName("solver"),
		WithServiceVersion("2.0.0"),
		WithTracing(ExporterOTLP, "collector:4317"),
		WithTracingInsecure(),
		WithSampleRate(0.25),
		WithMetrics(),
	} {
		opt(&cfg)
	}

	if cfg.ServiceName != "solver" || cfg.ServiceVersion != "2.0.0" {
		t.Errorf("service = %s/%s", cfg.ServiceName, cfg.ServiceVersion)
	}
	if !cfg.Tracing.Enabled || cfg.Tracing.Exporter != ExporterOTLP || cfg.Tracing.Endpoint != "collector:4317" {
		t.Errorf("Tracing = %+v", cfg.Tracing)
	}
	if !cfg.Tracing.Insecure || cfg.Tracing.SampleRate != 0.25 {
		t.Errorf("Tracing = %+v", cfg.Tracing)
	}
	if !cfg.Metrics {
		t.Error("Metrics = false, want true")
	}
}

func TestFromSolverConfig(t *testing.T) {
	tests := []struct {
		name         string
		in           domainconfig.TelemetryConfig
		wantTracing  bool
		wantExporter ExporterType
		wantInsecure bool
		wantMetrics  bool
	}{
		{"disabled", domainconfig.TelemetryConfig{}, false, ExporterNoop, false, false},
		{"stdout", domainconfig.TelemetryConfig{Tracing: true, Exporter: "stdout"}, true, ExporterStdout, false, false},
		{"otlp", domainconfig.TelemetryConfig{Tracing: true, Exporter: "otlp", Endpoint: "x:4317"}, true, ExporterOTLP, true, false},
		{"tracing without exporter", domainconfig.TelemetryConfig{Tracing: true}, true, ExporterNoop, false, false},
		{"metrics", domainconfig.TelemetryConfig{Metrics: true}, false, ExporterNoop, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			for _, opt := range FromSolverConfig(tt.in) {
				opt(&cfg)
			}
			if cfg.Tracing.Enabled != tt.wantTracing {
				t.Errorf("Tracing.Enabled = %v, want %v", cfg.Tracing.Enabled, tt.wantTracing)
			}
			if cfg.Tracing.Exporter != tt.wantExporter {
				t.Errorf("Tracing.Exporter = %s, want %s", cfg.Tracing.Exporter, tt.wantExporter)
			}
			if cfg.Tracing.Insecure != tt.wantInsecure {
				t.Errorf("Tracing.Insecure = %v, want %v", cfg.Tracing.Insecure, tt.wantInsecure)
			}
			if cfg.Metrics != tt.wantMetrics {
				t.Errorf("Metrics = %v, want %v", cfg.Metrics, tt.wantMetrics)
			}
		})
	}
}

func TestProvider_NoopExporter(t *testing.T) {
	p, err := New(WithTracing(ExporterNoop, ""))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := p.Tracer().(*NoopTracer); !ok {
		t.Errorf("Tracer() = %T, want *NoopTracer", p.Tracer())
	}
}

func TestProvider_StdoutTracing(t *testing.T) {
	p, err := New(WithServiceName("test-service"), WithStdoutTracing())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer p.Shutdown(context.Background())

	if _, ok := p.Tracer().(*OTelTracer); !ok {
		t.Errorf("Tracer() = %T, want *OTelTracer", p.Tracer())
	}
}

func TestProvider_Samplers(t *testing.T) {
	for _, rate := range []float64{1.0, 0.0, 0.5, 1.5, -0.5} {
		p, err := New(WithStdoutTracing(), WithSampleRate(rate))
		if err != nil {
			t.Fatalf("New(rate %g) error = %v", rate, err)
		}
		_ = p.Shutdown(context.Background())
	}
}

func TestProvider_UnknownExporter(t *testing.T) {
	_, err := New(WithTracing(ExporterType("zipkin"), ""))
	if !errors.Is(err, telemetry.ErrUnknownExporter) {
		t.Errorf("New() error = %v, want ErrUnknownExporter", err)
	}
}

func TestProvider_Metrics(t *testing.T) {
	p, err := New(WithMetrics())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := p.Meter().(*OTelMeter); !ok {
		t.Errorf("Meter() = %T, want *OTelMeter", p.Meter())
	}
}

func TestProvider_MetricReader(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()

	p, err := New(WithMetricReader(reader))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer p.Shutdown(ctx)

	m := NewSolverMetrics(p.Meter())
	m.RecordSweep(ctx, "solve-1", 4)
	m.RecordSweep(ctx, "solve-1", 6)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}

	found := false
	for _, sm := range rm.ScopeMetrics {
		for _, metric := range sm.Metrics {
			if metric.Name != telemetry.MetricSweeps {
				continue
			}
			found = true
			sum, ok := metric.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("expected Sum[int64], got %T", metric.Data)
			}
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			if total != 2 {
				t.Errorf("expected 2 sweeps, got %d", total)
			}
		}
	}
	if !found {
		t.Errorf("%s metric not found", telemetry.MetricSweeps)
	}
}

func TestProvider_ShutdownJoinsErrors(t *testing.T) {
	p := &Provider{
		config: DefaultConfig(),
		tracer: NewNoopTracer(),
		meter:  NewNoopMeter(),
		shutdownFuncs: []func(context.Context) error{
			func(context.Context) error { return errors.New("error 1") },
			func(context.Context) error { return errors.New("error 2") },
		},
	}

	if err := p.Shutdown(context.Background()); err == nil {
		t.Error("expected error from shutdown")
	}
}

func TestOTelTracer_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	tracer := NewTracerFromProvider(tp, "test")
	_, span := tracer.StartSpan(context.Background(), telemetry.SpanSolve,
		telemetry.WithAttributes(telemetry.String(telemetry.KeySolver, "value_iteration")),
	)
	span.AddEvent("sweep", telemetry.Int(telemetry.KeySweep, 1))
	span.SetAttributes(telemetry.Bool(telemetry.KeyConverged, true), telemetry.Float64(telemetry.KeyGamma, 0.9))
	span.RecordError(errors.New("boom"))
	span.SetStatus(telemetry.StatusCodeError, "boom")
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(ended))
	}
	got := ended[0]
	if got.Name() != telemetry.SpanSolve {
		t.Errorf("Name() = %s, want %s", got.Name(), telemetry.SpanSolve)
	}
	if got.Status().Code != codes.Error {
		t.Errorf("Status = %v, want Error", got.Status().Code)
	}
	// The recorded error is an event as well.
	if len(got.Events()) != 2 {
		t.Errorf("Events() = %d, want 2", len(got.Events()))
	}
	if len(got.Attributes()) != 3 {
		t.Errorf("Attributes() = %v, want 3 entries", got.Attributes())
	}
}

func TestConvertAttributes(t *testing.T) {
	attrs := []telemetry.Attribute{
		telemetry.String("s", "v"),
		telemetry.Int("i", 1),
		{Key: "i64", Value: int64(2)},
		telemetry.Float64("f", 0.5),
		telemetry.Bool("b", true),
		{Key: "dropped", Value: struct{}{}},
	}
	if got := convertAttributes(attrs); len(got) != 5 {
		t.Errorf("convertAttributes() = %d entries, want 5", len(got))
	}
}

func TestConvertStatusCode(t *testing.T) {
	tests := []struct {
		in   telemetry.StatusCode
		want codes.Code
	}{
		{telemetry.StatusCodeOK, codes.Ok},
		{telemetry.StatusCodeError, codes.Error},
		{telemetry.StatusCodeUnset, codes.Unset},
	}
	for _, tt := range tests {
		if got := convertStatusCode(tt.in); got != tt.want {
			t.Errorf("convertStatusCode(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSolverMetrics(t *testing.T) {
	ctx := context.Background()

	for _, meter := range []telemetry.Meter{NewNoopMeter(), NewOTelMeter("test")} {
		m := NewSolverMetrics(meter)
		m.RecordSweep(ctx, "solve-1", 12)
		m.RecordRound(ctx, "solve-1")
		m.RecordSolve(ctx, "policy_iteration", 20*time.Millisecond, nil)
		m.RecordSolve(ctx, "policy_iteration", time.Millisecond, errors.New("singular"))
	}
}
