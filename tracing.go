package checkmango

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/checkmango/checkmango-go"

// TracingMiddleware starts a client span around every API request and
// injects the trace context into the request headers. A nil provider
// falls back to the global one.
func TracingMiddleware(provider trace.TracerProvider) Middleware {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	tracer := provider.Tracer(tracerName, trace.WithInstrumentationVersion(Version))

	return func(req *http.Request, next RoundTripper) (*http.Response, error) {
		name := "checkmango " + req.Method
		if op, ok := OperationFromContext(req.Context()); ok {
			name = "checkmango." + op
		}

		ctx, span := tracer.Start(req.Context(), name,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String("http.request.method", req.Method),
				attribute.String("server.address", req.URL.Host),
				attribute.String("url.path", req.URL.Path),
			),
		)
		defer span.End()

		req = req.WithContext(ctx)
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

		resp, err := next.RoundTrip(req)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return resp, err
		}

		span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
		if resp.StatusCode >= 400 {
			span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		}
		return resp, nil
	}
}
