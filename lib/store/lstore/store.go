package lstore

import (
	"fmt"
	"github.com/ValentinKolb/rStore/lib/db"
	"github.com/ValentinKolb/rStore/lib/store"
	"github.com/lni/dragonboat/v4/logger"
	"sync"
)

var log = logger.GetLogger("store")

type storeImpl[T any] struct {
	mu sync.Mutex
	db db.RecordDB[T]
}

// NewLocalStore creates a new local store instance.
// This store implementation is not distributed and only works on a single node.
// All operations are serialized by a single mutex around the underlying db.
func NewLocalStore[T any](factory store.DBFactory[T]) store.IStore[T] {
	return &storeImpl[T]{
		db: factory(),
	}
}

// withLock runs fn while holding the store lock.
// A panic inside fn is converted into a store error. The deferred unlock
// runs in every case, so one failed operation never blocks later ones.
func withLock[T any, R any](s *storeImpl[T], op string, fn func() R) (res R, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("recovered from panic in %s: %v", op, r)
			var zero R
			res = zero
			err = store.NewError(store.RetCInternalError, fmt.Sprintf("%s failed: %v", op, r))
		}
	}()

	return fn(), nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl[T]) List() ([]db.Record[T], error) {
	return withLock(s, "List", func() []db.Record[T] {
		return s.db.List()
	})
}

func (s *storeImpl[T]) Append(data T) (db.Record[T], error) {
	return withLock(s, "Append", func() db.Record[T] {
		return s.db.Append(data)
	})
}

func (s *storeImpl[T]) Get(id uint64) (db.Record[T], bool, error) {
	type result struct {
		record db.Record[T]
		ok     bool
	}
	res, err := withLock(s, "Get", func() result {
		record, ok := s.db.Get(id)
		return result{record, ok}
	})
	return res.record, res.ok, err
}

func (s *storeImpl[T]) GetDBInfo() (db.DatabaseInfo, error) {
	return withLock(s, "GetDBInfo", func() db.DatabaseInfo {
		return s.db.GetInfo()
	})
}
