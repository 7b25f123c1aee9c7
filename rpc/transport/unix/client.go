package unix

import (
	"context"
	"github.com/ValentinKolb/rStore/rpc/transport"
	"net"
)

// clientConnector implements the IClientConnector interface for Unix sockets
type clientConnector struct {
	dialer net.Dialer
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IClientConnector)
// --------------------------------------------------------------------------

func (c *clientConnector) GetName() string {
	return "unix"
}

func (c *clientConnector) DialContext(ctx context.Context, endpoint string) (net.Conn, error) {
	return c.dialer.DialContext(ctx, "unix", endpoint)
}

// BaseURL ignores the endpoint, the socket path is only used for dialing
func (c *clientConnector) BaseURL(string) string {
	return "http://unix"
}

// --------------------------------------------------------------------------
// Client Connector Factory Method
// --------------------------------------------------------------------------

// NewUnixClientConnector creates a new Unix socket client connector
func NewUnixClientConnector() transport.IClientConnector {
	return &clientConnector{}
}
