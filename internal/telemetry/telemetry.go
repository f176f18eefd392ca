// Package telemetry provides OpenTelemetry tracing for conversation
// persistence and tool use.
package telemetry

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName    = "parley"
	serviceVersion = "1.0.0"
)

// Config holds the configuration for telemetry.
type Config struct {
	Enabled      bool
	OTLPEndpoint string
}

// Provider manages the tracing pipeline. A nil or disabled Provider is safe
// to call; every method degrades to a no-op.
type Provider struct {
	enabled        bool
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer
}

// NewProvider creates a telemetry provider. When enabled, spans export over
// OTLP/HTTP to the configured endpoint.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		log.Printf("Telemetry disabled")
		return &Provider{}, nil
	}

	opts := []otlptracehttp.Option{}
	if cfg.OTLPEndpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpointURL(cfg.OTLPEndpoint))
	}
	exporter, err := otlptrace.New(ctx, otlptracehttp.NewClient(opts...))
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(serviceVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to build telemetry resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return &Provider{
		enabled:        true,
		tracerProvider: tp,
		tracer:         tp.Tracer(serviceName),
	}, nil
}

// Shutdown flushes and stops the tracing pipeline.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || !p.enabled {
		return nil
	}
	return p.tracerProvider.Shutdown(ctx)
}

// StartSpan starts a span when telemetry is enabled; otherwise it returns
// the context unchanged with a no-op span.
func (p *Provider) StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if p == nil || !p.enabled {
		return ctx, trace.SpanFromContext(ctx)
	}
	return p.tracer.Start(ctx, name)
}

// ToolUse holds telemetry data for one tool invocation.
type ToolUse struct {
	ToolName       string
	CallID         string
	ResultSize     int
	HasError       bool
	ConversationID string
}

// RecordToolUse records a tool use event on the current span.
func (p *Provider) RecordToolUse(ctx context.Context, tu ToolUse) {
	if p == nil || !p.enabled {
		return
	}
	span := trace.SpanFromContext(ctx)
	span.AddEvent("tool_use", trace.WithAttributes(
		attribute.String("tool.name", tu.ToolName),
		attribute.String("tool.call_id", tu.CallID),
		attribute.Int("tool.result_size", tu.ResultSize),
		attribute.Bool("tool.has_error", tu.HasError),
		attribute.String("conversation.id", tu.ConversationID),
	))
}

// RecordSessionSave records the outcome of a session save on the current
// span.
func (p *Provider) RecordSessionSave(ctx context.Context, sessionID string, turnCount int, ok bool) {
	if p == nil || !p.enabled {
		return
	}
	span := trace.SpanFromContext(ctx)
	span.AddEvent("session_save", trace.WithAttributes(
		attribute.String("session.id", sessionID),
		attribute.Int("session.turn_count", turnCount),
		attribute.Bool("session.save_ok", ok),
	))
}

// NewConversationID generates a new conversation UUID.
func NewConversationID() string {
	return uuid.New().String()
}

// NewCallID generates a new tool-call UUID.
func NewCallID() string {
	return uuid.New().String()
}
