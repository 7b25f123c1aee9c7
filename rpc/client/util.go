package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/ValentinKolb/rStore/lib/store"
	"github.com/ValentinKolb/rStore/rpc/common"
	"github.com/ValentinKolb/rStore/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sync/atomic"
	"time"
)

var (
	Logger = logger.GetLogger("client")
)

const (
	defaultTimeoutSecond = 5
	maxErrorBodyBytes    = 64 * 1024
	initialBackoff       = 50 * time.Millisecond
)

// endpointClient is a http.Client bound to a single endpoint.
// The transport dials the endpoint through the connector, whatever host the URL names.
type endpointClient struct {
	endpoint string
	baseURL  string
	http     *http.Client
}

// httpClientAdapter stores all data needed to talk to a set of resource servers.
// Requests are distributed round-robin over the endpoints.
type httpClientAdapter struct {
	config    common.ClientConfig
	connector transport.IClientConnector
	endpoints []endpointClient
	next      atomic.Uint64
	failures  *xsync.MapOf[string, *xsync.Counter]
}

func newHTTPClientAdapter(config common.ClientConfig, connector transport.IClientConnector) (*httpClientAdapter, error) {
	if len(config.Endpoints) == 0 {
		return nil, errors.New("at least one endpoint is required")
	}
	if config.TimeoutSecond <= 0 {
		config.TimeoutSecond = defaultTimeoutSecond
	}
	if config.RetryCount < 0 {
		config.RetryCount = 0
	}

	a := &httpClientAdapter{
		config:    config,
		connector: connector,
		failures:  xsync.NewMapOf[string, *xsync.Counter](),
	}

	for _, endpoint := range config.Endpoints {
		endpoint := endpoint
		a.endpoints = append(a.endpoints, endpointClient{
			endpoint: endpoint,
			baseURL:  connector.BaseURL(endpoint),
			http: &http.Client{
				Timeout: time.Duration(config.TimeoutSecond) * time.Second,
				Transport: &http.Transport{
					DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
						return connector.DialContext(ctx, endpoint)
					},
					MaxIdleConnsPerHost: 64,
					IdleConnTimeout:     90 * time.Second,
				},
			},
		})
	}
	return a, nil
}

// pick returns the next endpoint (round-robin)
func (a *httpClientAdapter) pick() endpointClient {
	n := a.next.Add(1) - 1
	return a.endpoints[n%uint64(len(a.endpoints))]
}

// recordFailure counts a transport failure for an endpoint and returns the total
func (a *httpClientAdapter) recordFailure(endpoint string) int64 {
	c, _ := a.failures.LoadOrCompute(endpoint, func() *xsync.Counter { return xsync.NewCounter() })
	c.Inc()
	return c.Value()
}

// failureCounts returns a snapshot of the failure counters
func (a *httpClientAdapter) failureCounts() map[string]int64 {
	out := make(map[string]int64, a.failures.Size())
	a.failures.Range(func(endpoint string, c *xsync.Counter) bool {
		out[endpoint] = c.Value()
		return true
	})
	return out
}

// do sends a request and returns the status, headers and body of the response.
// Transport errors are retried on the next endpoint up to RetryCount times. Requests
// that are not idempotent (POST) are only retried if the connection could not be
// established, so a create is never applied twice.
func (a *httpClientAdapter) do(method, path string, body []byte) (int, http.Header, []byte, error) {
	var lastErr error
	backoff := initialBackoff
	for attempt := 0; attempt <= a.config.RetryCount; attempt++ {
		if attempt > 0 {
			// Exponential backoff with a small random jitter (+-10%)
			time.Sleep(time.Duration(float64(backoff) * (0.9 + 0.2*rand.Float64())))
			backoff *= 2
		}
		ep := a.pick()

		req, err := http.NewRequest(method, ep.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return 0, nil, nil, store.NewError(store.RetCInternalError, err.Error())
		}
		if body != nil {
			req.Header.Set("Content-Type", common.ContentTypeJSON)
		}

		resp, err := ep.http.Do(req)
		if err != nil {
			lastErr = err
			total := a.recordFailure(ep.endpoint)
			Logger.Warningf("%s %s on %s failed (attempt %d/%d, %d failures on endpoint): %v",
				method, path, ep.endpoint, attempt+1, a.config.RetryCount+1, total, err)
			if method != http.MethodGet && !isDialError(err) {
				break
			}
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return 0, nil, nil, store.NewError(store.RetCInternalError, fmt.Sprintf("failed to read response: %v", err))
		}
		return resp.StatusCode, resp.Header, respBody, nil
	}
	return 0, nil, nil, store.NewError(store.RetCInternalError, fmt.Sprintf("request failed: %v", lastErr))
}

// isDialError reports whether err happened before the request was sent
func isDialError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// errorFromResponse converts a non-2xx response into a *store.Error
func errorFromResponse(status int, body []byte) *store.Error {
	msg := http.StatusText(status)
	var e common.ErrorResponse
	if len(body) <= maxErrorBodyBytes && json.Unmarshal(body, &e) == nil && e.Message != "" {
		msg = e.Message
	}

	switch status {
	case http.StatusNotFound:
		return store.NewError(store.RetCNotFound, msg)
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusMethodNotAllowed:
		return store.NewError(store.RetCInvalidOperation, msg)
	default:
		return store.NewError(store.RetCInternalError, fmt.Sprintf("status %d: %s", status, msg))
	}
}
