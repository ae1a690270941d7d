package observability

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/wyhuang/go-repurpose-backend/internal/config"
)

func preserveOTelGlobals(t *testing.T) {
	t.Helper()
	prevTP := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})
}

func TestSetupOTel_Disabled(t *testing.T) {
	preserveOTelGlobals(t)

	shutdown, err := SetupOTel(context.Background(), config.OTELConfig{Enabled: false}, "dev")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if shutdown == nil {
		t.Fatal("shutdown func is nil")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("no-op shutdown: %v", err)
	}
}

func TestSetupOTel_Enabled(t *testing.T) {
	preserveOTelGlobals(t)

	shutdown, err := SetupOTel(context.Background(), config.OTELConfig{
		Enabled:     true,
		Insecure:    true,
		Endpoint:    "localhost:4317",
		ServiceName: "svc",
		SampleRatio: 1.0,
	}, "v1.0.0")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
		t.Fatalf("tracer provider not installed: %T", otel.GetTracerProvider())
	}
	if otel.GetTextMapPropagator() == nil {
		t.Fatal("propagator not installed")
	}
}

func TestSetupOTel_ExporterFailure(t *testing.T) {
	preserveOTelGlobals(t)

	prev := newOTLPExporterFn
	t.Cleanup(func() { newOTLPExporterFn = prev })
	boom := errors.New("exporter unavailable")
	newOTLPExporterFn = func(context.Context, otlptrace.Client) (*otlptrace.Exporter, error) {
		return nil, boom
	}

	_, err := SetupOTel(context.Background(), config.OTELConfig{Enabled: true, Insecure: true}, "dev")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v; want exporter failure", err)
	}
}

func TestSetupOTel_ResourceFailure(t *testing.T) {
	preserveOTelGlobals(t)

	prev := newServiceResourceFn
	t.Cleanup(func() { newServiceResourceFn = prev })
	boom := errors.New("resource build failed")
	newServiceResourceFn = func(context.Context, string, string) (*resource.Resource, error) {
		return nil, boom
	}

	_, err := SetupOTel(context.Background(), config.OTELConfig{Enabled: true, Insecure: true}, "dev")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v; want resource failure", err)
	}
}
