// Package lstore implements a local, in-memory, single-node resource store based on the
// store.IStore interface. It is a thin wrapper around any db.RecordDB implementation that
// adds the exclusive-access discipline. Data is stored entirely in memory and is not
// persisted between process restarts.
//
// Implementation Details:
//
//   - Exclusive Access: Every operation (List, Append, Get, GetDBInfo) holds one
//     sync.Mutex for its whole duration. Append reads the current length and pushes the
//     new record as one unit relative to all other operations, so concurrent appends get
//     distinct, sequential ids. List copies the sequence under the lock; encoding the
//     result happens after the lock is released.
//
//   - No Poisoning: A panic inside a critical section is recovered, logged and returned
//     as a store.Error with RetCInternalError. The lock is released by a deferred unlock,
//     so a single failed operation does not make the store unusable.
//
//   - Composition Architecture: The store.DBFactory injects the underlying engine, which
//     allows the store to work with any db.RecordDB-compatible engine without modification.
//
// Usage Example:
//
//	s := lstore.NewLocalStore[string](func() db.RecordDB[string] {
//		return ledger.NewLedgerDB[string](nil)
//	})
//	_ = store.Seed(s, "Resource 1", "Resource 2")
//	record, err := s.Append("Resource 3") // record.ID == 3
//	records, err := s.List()
//
// For replicated scenarios consider the dstore package, which provides a RAFT-based
// implementation of the same interface.
package lstore
