package transport

import (
	"context"
	"github.com/ValentinKolb/rStore/rpc/common"
	"net"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// IServerConnector is the interface for the server side of a transport.
// The HTTP server serves on the listener returned by Listen.
type IServerConnector interface {
	// Listen creates a listener for config.Endpoint
	Listen(config common.ServerConfig) (net.Listener, error)
	// GetName returns the name of the transport (e.g. "tcp")
	GetName() string
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IClientConnector is the interface for the client side of a transport.
// It is plugged into an http.Transport as DialContext.
type IClientConnector interface {
	// DialContext connects to the given endpoint. The network and addr arguments
	// passed by net/http are ignored, since the endpoint is fixed per request.
	DialContext(ctx context.Context, endpoint string) (net.Conn, error)
	// BaseURL returns the URL prefix used for requests to the endpoint
	BaseURL(endpoint string) string
	// GetName returns the name of the transport (e.g. "tcp")
	GetName() string
}
