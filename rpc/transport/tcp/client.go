package tcp

import (
	"context"
	"github.com/ValentinKolb/rStore/rpc/transport"
	"net"
	"strings"
)

// clientConnector implements the IClientConnector interface for TCP sockets
type clientConnector struct {
	dialer net.Dialer
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IClientConnector)
// --------------------------------------------------------------------------

func (c *clientConnector) GetName() string {
	return "tcp"
}

func (c *clientConnector) DialContext(ctx context.Context, endpoint string) (net.Conn, error) {
	return c.dialer.DialContext(ctx, "tcp", hostPort(endpoint))
}

func (c *clientConnector) BaseURL(endpoint string) string {
	return "http://" + hostPort(endpoint)
}

// hostPort strips an optional http:// prefix so endpoints can be given as URLs
func hostPort(endpoint string) string {
	endpoint = strings.TrimPrefix(endpoint, "http://")
	return strings.TrimSuffix(endpoint, "/")
}

// --------------------------------------------------------------------------
// Client Connector Factory Method
// --------------------------------------------------------------------------

// NewTCPClientConnector creates a new TCP client connector
func NewTCPClientConnector() transport.IClientConnector {
	return &clientConnector{dialer: net.Dialer{KeepAlive: keepAlivePeriod}}
}
