// Package client implements a store.IStore on top of the HTTP api of rStore, so
// application code can use a remote resource server like a local store.
//
// Key Components:
//
//   - NewResourceClient: Creates the client for a payload type T. The connector
//     (tcp or unix) decides how endpoints are dialed.
//
//   - httpClientAdapter: Holds one http.Client per endpoint and distributes requests
//     round-robin. Transport failures are counted per endpoint (xsync.MapOf) and
//     retried on the next endpoint with exponential backoff, up to
//     ClientConfig.RetryCount times. A create is only retried when no connection
//     could be established.
//
// Response Mapping:
//
//   - 201 + Location header: the id of the created record
//   - 404: RetCNotFound (Get reports a missing record as loaded == false instead)
//   - 400, 405, 413: RetCInvalidOperation
//   - everything else: RetCInternalError
//
// GetDBInfo has no route of its own and is derived from List.
//
// Usage Example:
//
//	c, err := client.NewResourceClient[string](common.ClientConfig{
//		Endpoints:     []string{"127.0.0.1:8080"},
//		TimeoutSecond: 5,
//		RetryCount:    2,
//	}, tcp.NewTCPClientConnector())
//
//	record, err := c.Append("Resource 3")
package client
