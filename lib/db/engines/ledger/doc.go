// Package ledger provides a slice-backed implementation of the db.RecordDB interface.
//
// Records live in one slice and the position of a record is always id-1, which
// makes Append amortized O(1), Get O(1) and List a single O(n) copy.
//
// Key Features:
//   - Ids assigned as len+1 at append time
//   - List returns a copy, so callers never alias the internal slice
//   - Binary snapshot format (Save/Load) with a magic number and version byte.
//     Payloads are encoded with a pluggable serializer.ISerializer (json by default).
//   - Load validates that ids are exactly 1..n and leaves the current state
//     untouched if the snapshot is truncated or corrupt.
//
// Thread Safety:
//
//	The ledger performs no locking. It is meant to be owned by a store that
//	serializes all access (lstore uses a mutex, dstore relies on the raft state
//	machine's mutex).
//
// Usage Example:
//
//	database := ledger.NewLedgerDB[string](nil)
//	record := database.Append("Resource 1") // record.ID == 1
//	all := database.List()
package ledger
