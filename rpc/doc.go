// Package rpc provides the network layer of rStore. It exposes a store over HTTP
// and lets clients use a remote store like a local one.
//
// The package is organized into several subpackages:
//
//   - common: Route constants, error bodies, configuration structures and logging.
//
//   - transport: Pluggable socket types (TCP, Unix sockets) underneath net/http.
//
//   - server: The HTTP server (handlers, middleware, metrics, graceful shutdown).
//
//   - client: A store.IStore implementation that talks to one or more servers.
package rpc
