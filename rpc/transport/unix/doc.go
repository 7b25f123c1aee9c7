// Package unix implements the transport connectors for Unix domain sockets.
//
// The endpoint is the path of the socket file. The server removes a stale socket
// file before listening. Useful when the client runs on the same host as the server.
package unix
