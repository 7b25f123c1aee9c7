package client

import (
	"encoding/json"
	"fmt"
	"github.com/ValentinKolb/rStore/lib/db"
	"github.com/ValentinKolb/rStore/lib/store"
	"github.com/ValentinKolb/rStore/rpc/common"
	"github.com/ValentinKolb/rStore/rpc/transport"
	"net/http"
)

// NewResourceClient creates a store.IStore that talks to one or more resource servers.
// All endpoints must serve the same store (e.g. the replicas of a dstore cluster).
func NewResourceClient[T any](
	config common.ClientConfig,
	connector transport.IClientConnector,
) (store.IStore[T], error) {
	adapter, err := newHTTPClientAdapter(config, connector)
	if err != nil {
		return nil, err
	}
	return &resourceClient[T]{adapter}, nil
}

type resourceClient[T any] struct {
	*httpClientAdapter
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the store package in interface.go)
// --------------------------------------------------------------------------

func (c *resourceClient[T]) List() ([]db.Record[T], error) {
	status, _, body, err := c.do(http.MethodGet, common.PathResources, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, errorFromResponse(status, body)
	}

	records := []db.Record[T]{}
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, store.NewError(store.RetCInternalError, fmt.Sprintf("invalid list response: %v", err))
	}
	return records, nil
}

func (c *resourceClient[T]) Append(data T) (db.Record[T], error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return db.Record[T]{}, store.NewError(store.RetCInvalidOperation, fmt.Sprintf("failed to encode payload: %v", err))
	}

	status, header, body, err := c.do(http.MethodPost, common.PathResources, payload)
	if err != nil {
		return db.Record[T]{}, err
	}
	if status != http.StatusCreated {
		return db.Record[T]{}, errorFromResponse(status, body)
	}

	id, err := common.ParseResourcePath(header.Get(common.HeaderLocation))
	if err != nil {
		return db.Record[T]{}, store.NewError(store.RetCInternalError, fmt.Sprintf("invalid create response: %v", err))
	}
	return db.Record[T]{ID: id, Data: data}, nil
}

func (c *resourceClient[T]) Get(id uint64) (db.Record[T], bool, error) {
	status, _, body, err := c.do(http.MethodGet, common.ResourcePath(id), nil)
	if err != nil {
		return db.Record[T]{}, false, err
	}
	switch status {
	case http.StatusOK:
	case http.StatusNotFound:
		return db.Record[T]{}, false, nil
	default:
		return db.Record[T]{}, false, errorFromResponse(status, body)
	}

	var record db.Record[T]
	if err := json.Unmarshal(body, &record); err != nil {
		return db.Record[T]{}, false, store.NewError(store.RetCInternalError, fmt.Sprintf("invalid get response: %v", err))
	}
	return record, true, nil
}

// GetDBInfo is derived from List since the HTTP api has no info route
func (c *resourceClient[T]) GetDBInfo() (db.DatabaseInfo, error) {
	records, err := c.List()
	if err != nil {
		return db.DatabaseInfo{}, err
	}

	info := db.DatabaseInfo{
		Records: len(records),
		DbType:  db.ImplRemote,
		Metadata: map[string]any{
			"transport": c.connector.GetName(),
			"endpoints": c.config.Endpoints,
			"failures":  c.failureCounts(),
		},
	}
	if len(records) > 0 {
		info.LastID = records[len(records)-1].ID
	}
	return info, nil
}
