// Package dstore implements a replicated, fault-tolerant resource store using the
// Dragonboat RAFT consensus library. It provides a strongly consistent implementation
// of the store.IStore interface that can operate across multiple nodes.
//
// Architecture:
//
//   - Store Client: Implements store.IStore. Append serializes the payload with the
//     configured serializer, wraps it in an internal.Command and proposes it to the
//     shard. Reads are raft lookups.
//
//   - State Machine: A Dragonboat IConcurrentStateMachine (RecordStateMachine) holding
//     the db.RecordDB. Dragonboat may run Lookup concurrently with Update, so the state
//     machine guards the database with its own mutex.
//
//   - Communication Protocol: Defined in the internal package (Command, Query).
//
// Id Assignment:
//
//	The id of a record is assigned when the committed entry is applied, as the number
//	of records before the append + 1. Entries are applied in log order on every
//	replica, so all replicas assign identical ids and concurrent Appends from
//	different clients can never receive the same id. The id travels back to the
//	proposer in the raft result.
//
// Read Operations:
//
//	List and Get use SyncRead (linearizable). GetDBInfo uses StaleRead since its
//	result is informational only.
//
// Snapshots:
//
//	PrepareSnapshot copies the records while updates are paused, SaveSnapshot streams
//	the copy in the db snapshot format and RecoverFromSnapshot loads it through the
//	engine.
//
// Error Handling:
//
//	Operations return *store.Error. ErrSystemBusy is retried up to 5 times with a
//	backoff of timeout/10. All other raft errors become RetCInternalError.
//
// Usage Example:
//
//	factory := func() db.RecordDB[string] { return ledger.NewLedgerDB[string](nil) }
//	s := serializer.NewJSONSerializer()
//	err := nh.StartConcurrentReplica(members, false, dstore.CreateStateMaschineFactory(factory, s), cfg)
//	rs := dstore.NewDistributedStore[string](nh, shardID, 5*time.Second, s)
//	record, err := rs.Append("Resource 3")
package dstore
