// Package server implements the HTTP server of rStore. It exposes a store.IStore
// as a small REST API and is the only component that talks HTTP on the server side.
//
// Routes:
//
//	GET  /resources       200, JSON array of {"id","data"} in insertion order ([] if empty)
//	POST /resources       201, empty body, Location: /resources/{id}
//	GET  /resources/{id}  200 record, 400 invalid id, 404 unknown id
//	GET  /health          200 {"status":"ok"}
//	GET  /metrics         Prometheus text format (VictoriaMetrics/metrics)
//
// Other methods on these paths are answered with 405 by the router.
//
// Create Semantics:
//
//	The body must contain exactly one JSON value of the payload type. An empty body,
//	null, trailing data or a value of the wrong type is answered with 400 and the
//	store is not invoked. Bodies larger than ServerConfig.MaxBodyBytes are answered
//	with 413. Error responses have the form {"error": <code>, "message": <text>}.
//
// Store errors are mapped by code: RetCNotFound to 404, RetCInvalidOperation to 400,
// everything else to 500.
//
// Middleware (outermost first):
//   - requestID: propagates or generates X-Request-Id (google/uuid)
//   - logger: logs every request at debug level (only installed for log level debug)
//   - recover: turns handler panics into a 500 response
//   - metrics: per route request counters and duration histograms, plus an in-flight
//     gauge backed by an xsync.Counter
//
// Usage Example:
//
//	s := lstore.NewLocalStore[string](factory)
//	_ = store.Seed(s, "Resource 1", "Resource 2")
//	srv := server.NewServer[string](config, s, tcp.NewTCPServerConnector())
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	err := srv.Serve(ctx)
package server
