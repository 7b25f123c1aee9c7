package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/VictoriaMetrics/metrics"
	"github.com/ValentinKolb/rStore/lib/db"
	"github.com/ValentinKolb/rStore/lib/db/engines/ledger"
	"github.com/ValentinKolb/rStore/lib/store"
	"github.com/ValentinKolb/rStore/lib/store/lstore"
	"github.com/ValentinKolb/rStore/rpc/common"
	"github.com/ValentinKolb/rStore/rpc/transport/tcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func newTestStore(t *testing.T, seed ...string) store.IStore[string] {
	t.Helper()
	s := lstore.NewLocalStore[string](func() db.RecordDB[string] {
		return ledger.NewLedgerDB[string](nil)
	})
	require.NoError(t, store.Seed(s, seed...))
	return s
}

func newTestServer(t *testing.T, s store.IStore[string]) *httptest.Server {
	t.Helper()
	srv := NewServer[string](common.ServerConfig{MaxBodyBytes: 64}, s, tcp.NewTCPServerConnector())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func list(t *testing.T, url string) []db.Record[string] {
	t.Helper()
	resp, err := http.Get(url + "/resources")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, common.ContentTypeJSON, resp.Header.Get("Content-Type"))

	var records []db.Record[string]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&records))
	return records
}

func create(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url+"/resources", common.ContentTypeJSON, strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) common.ErrorResponse {
	t.Helper()
	var e common.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	return e
}

// failingStore returns an error or panics on every operation
type failingStore struct {
	panics bool
}

func (f *failingStore) fail() error {
	if f.panics {
		panic("boom")
	}
	return store.NewError(store.RetCInternalError, "unavailable")
}

func (f *failingStore) List() ([]db.Record[string], error) { return nil, f.fail() }
func (f *failingStore) Append(string) (db.Record[string], error) {
	return db.Record[string]{}, f.fail()
}
func (f *failingStore) Get(uint64) (db.Record[string], bool, error) {
	return db.Record[string]{}, false, f.fail()
}
func (f *failingStore) GetDBInfo() (db.DatabaseInfo, error) { return db.DatabaseInfo{}, f.fail() }

// --------------------------------------------------------------------------
// Tests
// --------------------------------------------------------------------------

func TestSeedListCreate(t *testing.T) {
	ts := newTestServer(t, newTestStore(t, "Resource 1", "Resource 2"))

	assert.Equal(t, []db.Record[string]{
		{ID: 1, Data: "Resource 1"},
		{ID: 2, Data: "Resource 2"},
	}, list(t, ts.URL))

	resp := create(t, ts.URL, `"Resource 3"`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "/resources/3", resp.Header.Get(common.HeaderLocation))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Empty(t, body)

	records := list(t, ts.URL)
	require.Len(t, records, 3)
	assert.Equal(t, db.Record[string]{ID: 3, Data: "Resource 3"}, records[2])

	// list is idempotent
	assert.Equal(t, records, list(t, ts.URL))
}

func TestListEmpty(t *testing.T) {
	ts := newTestServer(t, newTestStore(t))

	resp, err := http.Get(ts.URL + "/resources")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(body))
}

func TestConcurrentCreates(t *testing.T) {
	ts := newTestServer(t, newTestStore(t, "Resource 1", "Resource 2"))

	const n = 100
	ids := make([]uint64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body := fmt.Sprintf("%q", fmt.Sprintf("payload-%d", i))
			resp, err := http.Post(ts.URL+"/resources", common.ContentTypeJSON, strings.NewReader(body))
			if !assert.NoError(t, err) {
				return
			}
			defer resp.Body.Close()
			assert.Equal(t, http.StatusCreated, resp.StatusCode)
			id, err := common.ParseResourcePath(resp.Header.Get(common.HeaderLocation))
			assert.NoError(t, err)
			ids[i] = id
		}(i)
	}
	wg.Wait()

	// every create got a distinct id out of 3..102
	sorted := append([]uint64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for i, id := range sorted {
		assert.Equal(t, uint64(i+3), id)
	}

	records := list(t, ts.URL)
	require.Len(t, records, n+2)
	for i, r := range records {
		assert.Equal(t, uint64(i+1), r.ID)
	}

	// each id stores the payload of the request it was returned to
	for i, id := range ids {
		if id < 1 || id > uint64(len(records)) {
			continue
		}
		assert.Equal(t, fmt.Sprintf("payload-%d", i), records[id-1].Data, "id %d", id)
	}
}

func TestCreateMalformed(t *testing.T) {
	ts := newTestServer(t, newTestStore(t, "Resource 1", "Resource 2"))
	before := list(t, ts.URL)

	for _, body := range []string{
		``,
		`   `,
		`{`,
		`42`,
		`{"data":"x"}`,
		`null`,
		`"a" "b"`,
		`"a"}`,
	} {
		resp := create(t, ts.URL, body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body %q", body)
		assert.Equal(t, common.ErrCodeBadRequest, decodeError(t, resp).Error, "body %q", body)
	}

	assert.Equal(t, before, list(t, ts.URL))
}

func TestCreateTooLarge(t *testing.T) {
	ts := newTestServer(t, newTestStore(t))

	resp := create(t, ts.URL, `"`+strings.Repeat("x", 128)+`"`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, common.ErrCodeTooLarge, decodeError(t, resp).Error)
	assert.Empty(t, list(t, ts.URL))
}

func TestGetByID(t *testing.T) {
	ts := newTestServer(t, newTestStore(t, "Resource 1", "Resource 2"))

	resp, err := http.Get(ts.URL + "/resources/2")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var record db.Record[string]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&record))
	assert.Equal(t, db.Record[string]{ID: 2, Data: "Resource 2"}, record)

	for path, status := range map[string]int{
		"/resources/3":   http.StatusNotFound,
		"/resources/0":   http.StatusBadRequest,
		"/resources/abc": http.StatusBadRequest,
	} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		assert.Equal(t, status, resp.StatusCode, path)
		resp.Body.Close()
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, newTestStore(t))

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/resources", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t, newTestStore(t))

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	// produce at least one list sample
	list(t, ts.URL)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `rstore_http_requests_total{route="list",status="200"}`)
	assert.Contains(t, string(body), `rstore_http_requests_in_flight`)
}

func TestRequestID(t *testing.T) {
	ts := newTestServer(t, newTestStore(t))

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get(common.HeaderRequestID))

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set(common.HeaderRequestID, "fixed-id")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "fixed-id", resp.Header.Get(common.HeaderRequestID))
}

func TestStoreErrors(t *testing.T) {
	ts := newTestServer(t, &failingStore{})

	resp, err := http.Get(ts.URL + "/resources")
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, common.ErrCodeInternal, decodeError(t, resp).Error)
	resp.Body.Close()

	resp = create(t, ts.URL, `"x"`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestHandlerPanicRecovered(t *testing.T) {
	ts := newTestServer(t, &failingStore{panics: true})

	resp, err := http.Get(ts.URL + "/resources")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	// the server keeps serving
	resp2, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}

func TestPanickingRequestCounted(t *testing.T) {
	counter := metrics.GetOrCreateCounter(`rstore_http_requests_total{route="get",status="500"}`)
	before := counter.Get()

	ts := newTestServer(t, &failingStore{panics: true})
	resp, err := http.Get(ts.URL + "/resources/1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	assert.Equal(t, before+1, counter.Get())

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `rstore_http_requests_total{route="get",status="500"}`)
}

func TestServeListenerGracefulShutdown(t *testing.T) {
	srv := NewServer[string](common.ServerConfig{}, newTestStore(t, "Resource 1"), tcp.NewTCPServerConnector())

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ServeListener(ctx, l) }()

	records := list(t, "http://"+l.Addr().String())
	assert.Len(t, records, 1)

	cancel()
	assert.NoError(t, <-done)
}

func TestServeListenFailure(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	// endpoint already in use
	srv := NewServer[string](common.ServerConfig{Endpoint: l.Addr().String()}, newTestStore(t), tcp.NewTCPServerConnector())
	err = srv.Serve(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, context.Canceled))
}
