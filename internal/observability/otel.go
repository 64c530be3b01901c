package observability

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"

	"github.com/yungbote/kanoon-backend/internal/platform/envutil"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
)

type OtelConfig struct {
	Enabled     bool
	ServiceName string
	Environment string
	Version     string
	Endpoint    string
	Headers     map[string]string
	Insecure    bool
	SampleRatio float64
}

// OtelConfigFromEnv reads the OTEL_* variables.
func OtelConfigFromEnv(log *logger.Logger) OtelConfig {
	cfg := OtelConfig{
		Enabled:     envutil.Bool("OTEL_ENABLED", false, log),
		ServiceName: envutil.String("OTEL_SERVICE_NAME", "kanoon-backend", log),
		Environment: envutil.String("APP_ENV", "development", log),
		Version:     envutil.String("APP_VERSION", "dev", log),
		Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
		Headers:     parseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", nil)),
		Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
		SampleRatio: 0.1,
	}
	if n := envutil.Int("OTEL_SAMPLER_PERCENT", 10, log); n >= 0 && n <= 100 {
		cfg.SampleRatio = float64(n) / 100
	}
	return cfg
}

var (
	otelOnce     sync.Once
	otelShutdown = func(context.Context) error { return nil }
)

// InitOTel installs the global tracer provider once. The returned shutdown
// func is always non-nil.
func InitOTel(ctx context.Context, log *logger.Logger, cfg OtelConfig) func(context.Context) error {
	otelOnce.Do(func() {
		if !cfg.Enabled {
			return
		}
		serviceName := strings.TrimSpace(cfg.ServiceName)
		if serviceName == "" {
			serviceName = "kanoon-backend"
		}
		res, err := resource.New(ctx,
			resource.WithAttributes(
				semconv.ServiceNameKey.String(serviceName),
				semconv.ServiceVersionKey.String(strings.TrimSpace(cfg.Version)),
				attribute.String("deployment.environment", strings.TrimSpace(cfg.Environment)),
			),
		)
		if err != nil {
			log.Warn("otel resource init failed (continuing)", "error", err)
		}

		sampler := sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))
		opts := []sdktrace.TracerProviderOption{sdktrace.WithSampler(sampler), sdktrace.WithResource(res)}
		exporter, expErr := buildTraceExporter(ctx, log, cfg)
		if expErr != nil {
			log.Warn("otel exporter init failed (continuing)", "error", expErr)
		}
		if exporter != nil {
			opts = append(opts, sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)))
		}
		tp := sdktrace.NewTracerProvider(opts...)
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
		otelShutdown = tp.Shutdown
		log.Info("otel tracing initialized", "service", serviceName, "endpoint", cfg.Endpoint, "sample_ratio", cfg.SampleRatio)
	})
	return otelShutdown
}

func buildTraceExporter(ctx context.Context, log *logger.Logger, cfg OtelConfig) (sdktrace.SpanExporter, error) {
	if cfg.Endpoint != "" {
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		if len(cfg.Headers) > 0 {
			opts = append(opts, otlptracehttp.WithHeaders(cfg.Headers))
		}
		return otlptracehttp.New(ctx, opts...)
	}
	exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	log.Warn("otel using stdout exporter (no OTLP endpoint configured)")
	return exp, nil
}

// parseHeaders reads "k1=v1,k2=v2".
func parseHeaders(raw string) map[string]string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	headers := map[string]string{}
	for _, part := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if !ok || k == "" || v == "" {
			continue
		}
		headers[k] = v
	}
	if len(headers) == 0 {
		return nil
	}
	return headers
}
