package dstore

import (
	"fmt"
	"github.com/ValentinKolb/rStore/lib/db"
	"github.com/ValentinKolb/rStore/lib/serializer"
	"github.com/ValentinKolb/rStore/lib/store"
	"github.com/ValentinKolb/rStore/lib/store/dstore/internal"
	sm "github.com/lni/dragonboat/v4/statemachine"
	"io"
	"sync"
	"time"
)

// --------------------------------------------------------------------------
// State Machine Implementation
// --------------------------------------------------------------------------

// RecordStateMachine is a state machine implementation for Dragonboat RAFT.
// Dragonboat may run Lookup concurrently with Update, so mu gives every
// access to the database exclusive access.
type RecordStateMachine[T any] struct {
	replicaID  uint64
	shardID    uint64
	serializer serializer.ISerializer

	mu       sync.Mutex
	database db.RecordDB[T] // the actual record storage
}

// CreateStateMaschineFactory returns a function that can be used by dragonboat to create a new state machine for a node host
// The factory pattern is used to enable the caller to pass an interchangeable dbFactory
func CreateStateMaschineFactory[T any](dbFactory store.DBFactory[T], s serializer.ISerializer) func(shardID uint64, replicaID uint64) sm.IConcurrentStateMachine {
	return func(shardID uint64, replicaID uint64) sm.IConcurrentStateMachine {
		return newStateMachine(shardID, replicaID, dbFactory, s)
	}
}

func newStateMachine[T any](shardID, replicaID uint64, dbFactory store.DBFactory[T], s serializer.ISerializer) *RecordStateMachine[T] {
	return &RecordStateMachine[T]{
		replicaID:  replicaID,
		shardID:    shardID,
		serializer: s,
		database:   dbFactory(),
	}
}

// Lookup handles read-only queries by mapping each Query operation to the corresponding RecordDB method.
func (fsm *RecordStateMachine[T]) Lookup(itf interface{}) (interface{}, error) {

	// try to parse Query into Query struct
	q, ok := itf.(internal.Query)
	if !ok {
		return nil, store.NewError(store.RetCInternalError, fmt.Sprintf("invalid Query type: %T", itf))
	}

	fsm.mu.Lock()
	defer fsm.mu.Unlock()

	// Handle different Query types
	switch q.Type {
	case internal.QueryTList:
		return fsm.database.List(), nil
	case internal.QueryTGet:
		record, ok := fsm.database.Get(q.ID)
		return internal.GetResult[T]{
			Ok:     ok,
			Record: record,
		}, nil
	case internal.QueryTGetDBInfo:
		return fsm.database.GetInfo(), nil
	default:
		return nil, store.NewError(store.RetCInvalidOperation, fmt.Sprintf("unknown Query operation: %d", q.Type))
	}
}

// Update applies committed append commands to the database.
// Entries arrive in raft log order, so every replica assigns the same ids.
func (fsm *RecordStateMachine[T]) Update(entries []sm.Entry) ([]sm.Entry, error) {

	// Nothing to do
	if len(entries) == 0 {
		return entries, nil
	}

	// Stats
	start := time.Now()

	fsm.mu.Lock()
	defer fsm.mu.Unlock()

	for idx, e := range entries {
		entries[idx].Result = fsm.apply(e.Cmd)
	}

	// Log if the update took long
	if elapsed := time.Since(start); elapsed > time.Millisecond {
		log.Infof("Statemachine took long to update. Batch updated %d entries, took %.2fms", len(entries), float64(elapsed)/float64(time.Millisecond))
	}
	return entries, nil
}

// apply executes a single raft entry. The caller must hold fsm.mu.
func (fsm *RecordStateMachine[T]) apply(raw []byte) sm.Result {
	if len(raw) == 0 {
		return sm.Result{Value: uint64(store.RetCInvalidOperation), Data: []byte("empty command ignored")}
	}

	// Deserialize the command
	cmd := internal.Command{}
	if err := cmd.Deserialize(raw); err != nil {
		return sm.Result{Value: uint64(store.RetCInternalError), Data: []byte(fmt.Sprintf("failed to deserialize command: %v", err))}
	}

	switch cmd.Type {
	case internal.CommandTAppend:
		var data T
		if err := fsm.serializer.Deserialize(cmd.Payload, &data); err != nil {
			return sm.Result{Value: uint64(store.RetCInvalidOperation), Data: []byte(fmt.Sprintf("failed to deserialize payload: %v", err))}
		}
		record := fsm.database.Append(data)
		return sm.Result{Value: uint64(store.RetCSuccess), Data: internal.EncodeID(record.ID)}
	default:
		return sm.Result{
			Value: uint64(store.RetCInvalidOperation),
			Data:  []byte(fmt.Sprintf("unknown Command operation: %s", cmd.Type)),
		}
	}
}

// PrepareSnapshot copies the records. Dragonboat calls it while no Update is running,
// so the copy is a consistent point-in-time view.
func (fsm *RecordStateMachine[T]) PrepareSnapshot() (interface{}, error) {
	fsm.mu.Lock()
	defer fsm.mu.Unlock()
	return fsm.database.List(), nil
}

// SaveSnapshot writes the records captured by PrepareSnapshot to the writer
func (fsm *RecordStateMachine[T]) SaveSnapshot(ctx interface{}, writer io.Writer, _ sm.ISnapshotFileCollection, _ <-chan struct{}) error {
	records, ok := ctx.([]db.Record[T])
	if !ok {
		return fmt.Errorf("invalid snapshot context type: %T", ctx)
	}
	return db.WriteRecords(writer, records, fsm.serializer)
}

// RecoverFromSnapshot replaces the database state with the snapshot content.
func (fsm *RecordStateMachine[T]) RecoverFromSnapshot(r io.Reader, _ []sm.SnapshotFile, _ <-chan struct{}) error {
	fsm.mu.Lock()
	defer fsm.mu.Unlock()
	return fsm.database.Load(r)
}

// Close performs any necessary cleanup.
func (fsm *RecordStateMachine[T]) Close() error {
	fsm.mu.Lock()
	defer fsm.mu.Unlock()
	return fsm.database.Close()
}
