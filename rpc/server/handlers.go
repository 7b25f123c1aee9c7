package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/ValentinKolb/rStore/lib/db"
	"github.com/ValentinKolb/rStore/lib/store"
	"github.com/ValentinKolb/rStore/rpc/common"
	"github.com/VictoriaMetrics/metrics"
	"io"
	"net/http"
	"strconv"
)

// --------------------------------------------------------------------------
// Resource Handlers
// --------------------------------------------------------------------------

// handleList answers with all records in insertion order.
// The store returns a copy, so encoding happens without holding the store lock.
func (s *Server[T]) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if records == nil {
		records = []db.Record[T]{}
	}
	writeJSON(w, http.StatusOK, records)
}

// handleCreate decodes the payload, appends it and answers 201 with an empty body.
// The id of the new record is only exposed through the Location header.
func (s *Server[T]) handleCreate(w http.ResponseWriter, r *http.Request) {
	payload, status, err := decodePayload[T](w, r, s.config.MaxBodyBytes)
	if err != nil {
		code := common.ErrCodeBadRequest
		if status == http.StatusRequestEntityTooLarge {
			code = common.ErrCodeTooLarge
		}
		writeError(w, status, code, err.Error())
		return
	}

	record, err := s.store.Append(payload)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	w.Header().Set(common.HeaderLocation, common.ResourcePath(record.ID))
	w.WriteHeader(http.StatusCreated)
}

// handleGet answers with a single record
func (s *Server[T]) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		writeError(w, http.StatusBadRequest, common.ErrCodeBadRequest, "id must be a positive integer")
		return
	}

	record, ok, err := s.store.Get(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, common.ErrCodeNotFound, fmt.Sprintf("resource %d not found", id))
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// --------------------------------------------------------------------------
// Operational Handlers
// --------------------------------------------------------------------------

func (s *Server[T]) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, common.HealthResponse{Status: "ok"})
}

func handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	metrics.WritePrometheus(w, true)
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// decodePayload reads at most maxBytes of the body and decodes exactly one JSON value of type T.
// An empty body, a null literal and trailing data are rejected.
// The returned status is only meaningful if err is not nil.
func decodePayload[T any](w http.ResponseWriter, r *http.Request, maxBytes int64) (T, int, error) {
	var payload T

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return payload, http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		}
		return payload, http.StatusBadRequest, fmt.Errorf("failed to read request body: %w", err)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return payload, http.StatusBadRequest, errors.New("request body is empty")
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return payload, http.StatusBadRequest, errors.New("payload must not be null")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if err := dec.Decode(&payload); err != nil {
		return payload, http.StatusBadRequest, fmt.Errorf("invalid payload: %w", err)
	}
	if dec.InputOffset() != int64(len(trimmed)) {
		return payload, http.StatusBadRequest, errors.New("invalid payload: unexpected data after JSON value")
	}
	return payload, 0, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", common.ContentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		Logger.Warningf("failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, common.ErrorResponse{Error: errCode, Message: message})
}

// writeStoreError maps a store error to an HTTP status
func writeStoreError(w http.ResponseWriter, err error) {
	var storeErr *store.Error
	if errors.As(err, &storeErr) {
		switch storeErr.Code {
		case store.RetCNotFound:
			writeError(w, http.StatusNotFound, common.ErrCodeNotFound, storeErr.Msg)
			return
		case store.RetCInvalidOperation:
			writeError(w, http.StatusBadRequest, common.ErrCodeBadRequest, storeErr.Msg)
			return
		}
	}
	Logger.Errorf("store operation failed: %v", err)
	writeError(w, http.StatusInternalServerError, common.ErrCodeInternal, "store operation failed")
}
