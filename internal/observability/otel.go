package observability

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ServiceName is reported on every exported span.
const ServiceName = "chat-relay"

// Setup installs a global tracer provider exporting to an OTLP/HTTP collector.
// url is host:port, optionally prefixed with http:// or https://.
func Setup(ctx context.Context, url string) (*sdktrace.TracerProvider, error) {
	opts := []otlptracehttp.Option{}
	switch {
	case strings.HasPrefix(url, "http://"):
		url = strings.TrimPrefix(url, "http://")
		opts = append(opts, otlptracehttp.WithInsecure())
	case strings.HasPrefix(url, "https://"):
		url = strings.TrimPrefix(url, "https://")
	}
	opts = append(opts, otlptracehttp.WithEndpoint(strings.TrimRight(url, "/")))

	exp, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", ServiceName))),
	)
	otel.SetTracerProvider(tp)
	return tp, nil
}
