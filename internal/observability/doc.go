// Package observability provides logging, metrics, and tracing
// functionality for the SOS server.
//
// # Logging
//
// The Logger interface provides structured logging backed by zap:
//
//	logger, err := observability.NewLogger(observability.DefaultLogConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
//	logger.Info("request processed",
//	    observability.String("operation", "GetObservation"),
//	    observability.Int("status", 200),
//	)
//
// Loggers created by NewLogger implement LevelSetter so that the level can
// follow the log level setting at runtime.
//
// # Metrics
//
// Metrics are registered in a registry owned by the Metrics value, not in
// the Prometheus default registry:
//
//	metrics := observability.NewMetrics("sos")
//	handler := metrics.Handler()
//
// # Tracing
//
// OpenTelemetry tracing with optional OTLP/gRPC export:
//
//	tracer, err := observability.NewTracer(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tracer.Shutdown(ctx)
package observability
