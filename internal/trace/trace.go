package trace

import (
	"context"
	"io"
	"os"
	"strconv"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const DefaultServiceName = "supervisor-harvest"

// Config controls the tracer provider. Spans are exported to Writer as JSON.
type Config struct {
	Enabled     bool
	ServiceName string
	Version     string
	// SampleRatio in (0,1]; anything else samples every trace.
	SampleRatio float64
	Writer      io.Writer
	PrettyPrint bool
	// Synchronous exports each span on End instead of batching.
	Synchronous bool
}

var (
	mu             sync.RWMutex
	tracer         trace.Tracer
	tracerProvider *sdktrace.TracerProvider
	enabled        bool
)

// LoadConfigFromEnv reads LOG_TRACING_ENABLED (default false) and TRACE_SAMPLE_RATIO.
func LoadConfigFromEnv() Config {
	cfg := Config{
		Enabled:     getEnv("LOG_TRACING_ENABLED", "false") == "true",
		ServiceName: DefaultServiceName,
		Version:     "1.0.0",
		SampleRatio: 1,
		PrettyPrint: true,
	}
	if v, err := strconv.ParseFloat(getEnv("TRACE_SAMPLE_RATIO", "1"), 64); err == nil {
		cfg.SampleRatio = v
	}
	return cfg
}

// Init configures tracing from the environment.
func Init() error {
	return InitWithConfig(LoadConfigFromEnv())
}

// InitWithConfig installs a stdout tracer provider when cfg.Enabled is set.
// A disabled config leaves StartSpan as a no-op.
func InitWithConfig(cfg Config) error {
	if !cfg.Enabled {
		setState(nil, nil, false)
		return nil
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = DefaultServiceName
	}

	exporterOpts := []stdouttrace.Option{}
	if cfg.Writer != nil {
		exporterOpts = append(exporterOpts, stdouttrace.WithWriter(cfg.Writer))
	}
	if cfg.PrettyPrint {
		exporterOpts = append(exporterOpts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(exporterOpts...)
	if err != nil {
		setState(nil, nil, false)
		return err
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.Version),
		),
	)
	if err != nil {
		setState(nil, nil, false)
		return err
	}

	sampler := sdktrace.AlwaysSample()
	if cfg.SampleRatio > 0 && cfg.SampleRatio < 1 {
		sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))
	}

	spanProcessor := sdktrace.WithBatcher(exporter)
	if cfg.Synchronous {
		spanProcessor = sdktrace.WithSyncer(exporter)
	}

	tp := sdktrace.NewTracerProvider(
		spanProcessor,
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)
	otel.SetTracerProvider(tp)
	setState(tp, tp.Tracer(cfg.ServiceName), true)
	return nil
}

func setState(tp *sdktrace.TracerProvider, t trace.Tracer, on bool) {
	mu.Lock()
	defer mu.Unlock()
	tracerProvider, tracer, enabled = tp, t, on
}

// Shutdown flushes pending spans and disables tracing.
func Shutdown(ctx context.Context) error {
	mu.Lock()
	tp := tracerProvider
	tracerProvider, tracer, enabled = nil, nil, false
	mu.Unlock()

	if tp != nil {
		return tp.Shutdown(ctx)
	}
	return nil
}

func StartSpan(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	mu.RLock()
	t, on := tracer, enabled
	mu.RUnlock()

	if !on || t == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return t.Start(ctx, spanName, opts...)
}

func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// GetTraceFields returns the ids of the span in ctx, if tracing is on.
func GetTraceFields(ctx context.Context) (traceID, spanID string, ok bool) {
	if !Enabled() {
		return "", "", false
	}
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return "", "", false
	}
	return sc.TraceID().String(), sc.SpanID().String(), true
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
