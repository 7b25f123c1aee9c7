// Package transport defines how the HTTP server of rStore reaches the network.
// The HTTP protocol itself is always provided by net/http; a transport only decides
// which kind of socket carries it.
//
// Key Components:
//
//   - IServerConnector: Creates the net.Listener the server serves on.
//
//   - IClientConnector: Dials an endpoint and provides the base URL for requests.
//     The client installs DialContext into its http.Transport.
//
// Implementations:
//
//   - tcp (github.com/ValentinKolb/rStore/rpc/transport/tcp): host:port endpoints,
//     TCP keep-alive enabled.
//
//   - unix (github.com/ValentinKolb/rStore/rpc/transport/unix): socket file endpoints.
//     A stale socket file is removed before listening; requests are addressed to
//     http://unix since the host part is not used for routing.
package transport
