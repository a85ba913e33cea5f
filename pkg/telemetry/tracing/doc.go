// Package tracing provides OpenTelemetry tracing for the Zephyr decision
// service.
//
// New initializes the OpenTelemetry SDK with an OTLP gRPC exporter and the
// configured sampler. When tracing is disabled in the configuration, a noop
// tracer is returned so instrumented code paths add minimal overhead.
//
// Spans are created through Tracer.Start and must be ended by the caller:
//
//	ctx, span := tracer.Start(ctx, "rules.evaluate")
//	defer span.End()
package tracing
