package dstore

import (
	"context"
	"errors"
	"fmt"
	"github.com/ValentinKolb/rStore/lib/db"
	"github.com/ValentinKolb/rStore/lib/serializer"
	"github.com/ValentinKolb/rStore/lib/store"
	"github.com/ValentinKolb/rStore/lib/store/dstore/internal"
	"github.com/lni/dragonboat/v4/logger"
	"time"

	"github.com/lni/dragonboat/v4"
	"github.com/lni/dragonboat/v4/client"
)

var (
	retries = 5
	log     = logger.GetLogger("store")
)

// storeImpl is the concrete implementation of the distributed store.
// It encapsulates a Dragonboat NodeHost which is used to communicate with the state machine.
type storeImpl[T any] struct {
	nh         *dragonboat.NodeHost
	shardID    uint64
	cs         *client.Session
	timeout    time.Duration
	serializer serializer.ISerializer
}

// NewDistributedStore creates a new distributed store instance which uses raft consensus to ensure strict linearizability
// across multiple nodes. The serializer must match the one passed to CreateStateMaschineFactory.
func NewDistributedStore[T any](nh *dragonboat.NodeHost, shardID uint64, timeout time.Duration, s serializer.ISerializer) store.IStore[T] {
	cs := nh.GetNoOPSession(shardID)
	return &storeImpl[T]{
		nh:         nh,
		shardID:    shardID,
		cs:         cs,
		timeout:    timeout,
		serializer: s,
	}
}

// --------------------------------------------------------------------------
// Internal write and read operations (used by interface methods)
// --------------------------------------------------------------------------

// write sends a serialized Command via SyncPropose and returns the raft result data.
// It returns a *store.Error if an error occurs.
func (s *storeImpl[T]) write(cmd internal.Command) ([]byte, error) {
	for i := 0; i < retries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)

		res, err := s.nh.SyncPropose(ctx, s.cs, cmd.Serialize())
		cancel()

		// Check for system busy errors
		if errors.Is(err, dragonboat.ErrSystemBusy) {
			log.Infof("SyncPropose: System busy, retrying (%d/%d)...", i+1, retries)
			time.Sleep(s.timeout / 10)
			continue
		}

		if err != nil {
			return nil, store.NewError(store.RetCInternalError, err.Error())
		}
		if res.Value != uint64(store.RetCSuccess) {
			return nil, store.NewError(store.RetCode(res.Value), string(res.Data))
		}
		return res.Data, nil
	}
	return nil, store.NewError(store.RetCInternalError, "timeout")
}

// read is a generic helper function that queries the state machine
// and attempts to convert the response into the expected type R.
//
// This function uses the SyncRead function (dragonboat) by default to Query the state machine.
// If linearizability is not required, the stale parameter can be set to true to use the faster StaleRead function.
//
// If the read operation fails due to a system busy error, the function retries up to 5 times.
func read[R any, T any](r *storeImpl[T], q internal.Query, stale bool) (R, error) {
	var zero R
	for i := 0; i < retries; i++ {

		var res interface{}
		var err error

		// Query the state machine, use StaleRead if stale is set otherwise use SyncRead (default)
		if stale {
			res, err = r.nh.StaleRead(r.shardID, q)
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
			res, err = r.nh.SyncRead(ctx, r.shardID, q)
			cancel()
		}

		// Check for system busy errors
		if errors.Is(err, dragonboat.ErrSystemBusy) {
			log.Infof("SyncRead: System busy, retrying (%d/%d)...", i+1, retries)
			time.Sleep(r.timeout / 10)
			continue
		}

		if err != nil {
			var storeErr *store.Error
			if errors.As(err, &storeErr) {
				return zero, storeErr
			}
			return zero, store.NewError(store.RetCInternalError, err.Error())
		}

		// The state machine is expected to return the response in the expected type R.
		casted, ok := res.(R)
		if !ok {
			return zero, store.NewError(store.RetCInternalError,
				fmt.Sprintf("unexpected type: received %T, expected %T", res, zero))
		}
		return casted, nil
	}
	return zero, store.NewError(store.RetCInternalError, "timeout")
}

// --------------------------------------------------------------------------
// Interface Methods (docs see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl[T]) List() ([]db.Record[T], error) {
	return read[[]db.Record[T]](s, internal.Query{Type: internal.QueryTList}, false)
}

func (s *storeImpl[T]) Append(data T) (db.Record[T], error) {
	payload, err := s.serializer.Serialize(data)
	if err != nil {
		return db.Record[T]{}, store.NewError(store.RetCInvalidOperation, fmt.Sprintf("failed to serialize payload: %v", err))
	}

	res, err := s.write(internal.Command{
		Type:    internal.CommandTAppend,
		Payload: payload,
	})
	if err != nil {
		return db.Record[T]{}, err
	}

	id, err := internal.DecodeID(res)
	if err != nil {
		return db.Record[T]{}, store.NewError(store.RetCInternalError, err.Error())
	}
	return db.Record[T]{ID: id, Data: data}, nil
}

func (s *storeImpl[T]) Get(id uint64) (db.Record[T], bool, error) {
	res, err := read[internal.GetResult[T]](s, internal.Query{
		Type: internal.QueryTGet,
		ID:   id,
	}, false)
	if err != nil {
		return db.Record[T]{}, false, err
	}
	return res.Record, res.Ok, nil
}

func (s *storeImpl[T]) GetDBInfo() (db.DatabaseInfo, error) {
	return read[db.DatabaseInfo](
		s,
		internal.Query{
			Type: internal.QueryTGetDBInfo,
		},
		true, // Note: allow for stale reads
	)
}
