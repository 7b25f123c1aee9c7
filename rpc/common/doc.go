// Package common provides the data structures and utilities shared by the
// server, client and CLI of rStore.
//
// The package focuses on:
//   - The HTTP wire contract (routes, headers, error bodies)
//   - Configuration structures for client and server components
//   - Custom logging implementation integrated with Dragonboat
//   - Utilities for Dragonboat (RAFT) integration
//
// Key Components:
//
//   - proto.go: Route constants (/resources, /resources/{id}, /health, /metrics),
//     ResourcePath / ParseResourcePath for the Location header of a created resource,
//     and the JSON bodies ErrorResponse and HealthResponse.
//
//   - ServerConfig: Configuration for a resource server: the backing store (lstore or
//     dstore), RAFT parameters, HTTP endpoint and transport, body size limit and seed
//     records. Provides utilities for converting to Dragonboat-specific configurations.
//
//   - ClientConfig: Configuration for client components, controlling endpoints,
//     timeouts, and retry behavior.
//
//   - Logger: Custom logging implementation that integrates with Dragonboat's
//     logging system while providing consistent formatting across the application.
//     Every package obtains its logger with logger.GetLogger(name).
package common
