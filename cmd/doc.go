// Package cmd implements the command-line interface of rStore. It provides a
// hierarchical command structure with operations for running the server and
// interacting with it as a client.
//
// The package is organized into several subpackages:
//
//   - serve: Starts and configures the rStore server (lstore or dstore backend)
//   - resources: Client commands (list, get, create, perf)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// All flags can also be set through environment variables of the form
// RSTORE_<FLAG> (dashes become underscores). The files .env and .env.local are
// loaded on startup.
//
// See rstore -help for a list of all commands.
package cmd
