// Package tcp implements the transport connectors for TCP sockets.
//
// Endpoints have the form host:port (an http:// prefix is accepted by the client).
// Both sides enable TCP keep-alive with a period of 30 seconds.
//
// Usage:
//
//	srv := server.NewServer[string](config, s, tcp.NewTCPServerConnector())
//	c, err := client.NewResourceClient[string](clientConfig, tcp.NewTCPClientConnector())
package tcp
