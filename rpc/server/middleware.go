package server

import (
	"fmt"
	"github.com/ValentinKolb/rStore/rpc/common"
	"github.com/VictoriaMetrics/metrics"
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
	"net/http"
	"runtime/debug"
	"time"
)

// inFlight counts requests currently being handled by any server of the process
var inFlight = xsync.NewCounter()

var _ = metrics.NewGauge(`rstore_http_requests_in_flight`, func() float64 {
	return float64(inFlight.Value())
})

// --------------------------------------------------------------------------
// Response Writer
// --------------------------------------------------------------------------

// responseWriter is a custom ResponseWriter that captures status code
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func wrap(w http.ResponseWriter) *responseWriter {
	if rw, ok := w.(*responseWriter); ok {
		return rw
	}
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

// WriteHeader captures the status code before writing it
func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

// --------------------------------------------------------------------------
// Middleware
// --------------------------------------------------------------------------

// requestIDMiddleware propagates the X-Request-Id header or generates a new one
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(common.HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(common.HeaderRequestID, id)
		}
		w.Header().Set(common.HeaderRequestID, id)
		next.ServeHTTP(w, r)
	})
}

// loggerMiddleware is a middleware that logs HTTP requests
func loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create custom response writer to capture status code
		rw := wrap(w)

		// Process request
		next.ServeHTTP(rw, r)

		// Log the request
		Logger.Debugf("%s %s %d %s (%s)",
			r.Method,
			r.URL.Path,
			rw.statusCode,
			time.Since(start),
			r.Header.Get(common.HeaderRequestID),
		)
	})
}

// recoverMiddleware turns a panicking handler into a 500 response
func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := wrap(w)
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				Logger.Errorf("panic in handler %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				if !rw.wroteHeader {
					writeError(rw, http.StatusInternalServerError, common.ErrCodeInternal, "internal server error")
				}
			}
		}()
		next.ServeHTTP(rw, r)
	})
}

// metricsMiddleware records request count and duration per route and status
func metricsMiddleware(route string, next http.Handler) http.Handler {
	duration := metrics.GetOrCreateHistogram(fmt.Sprintf(`rstore_http_request_duration_seconds{route=%q}`, route))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inFlight.Inc()
		defer inFlight.Dec()

		start := time.Now()
		rw := wrap(w)
		completed := false

		// runs for panicking handlers too, recoverMiddleware answers them with 500
		defer func() {
			status := rw.statusCode
			if !completed && !rw.wroteHeader {
				status = http.StatusInternalServerError
			}
			duration.Update(time.Since(start).Seconds())
			metrics.GetOrCreateCounter(fmt.Sprintf(`rstore_http_requests_total{route=%q,status="%d"}`, route, status)).Inc()
		}()

		next.ServeHTTP(rw, r)
		completed = true
	})
}
