// Package db provides a standardized interface for append-only record databases.
// It defines the RecordDB interface that every engine implements, so stores can
// swap engines without code changes.
//
// Key Components:
//
//   - Record: The stored item. The id is assigned by the database at append time
//     (id = number of records before the append + 1) and is never supplied by the caller.
//
//   - RecordDB Interface: Append, List, Get and Len, plus Save/Load for snapshots
//     (used by the raft state machine) and GetInfo for metadata.
//
//   - DatabaseInfo: Record count, last assigned id and an estimated size.
//
//   - Snapshot Format: WriteRecords / ReadRecords define the binary snapshot format shared
//     by all engines and by the raft state machine. ReadRecords rejects snapshots whose ids
//     are not exactly 1..n.
//
// Note on Thread Safety:
//
//	Engines do not synchronize internally. Every caller must hold the owning
//	store's exclusive lock for the whole duration of a call. This keeps the
//	id = length + 1 assignment and the push a single atomic step relative to all
//	other operations.
//
// Related Packages:
//
// The engines/ledger package (github.com/ValentinKolb/rStore/lib/db/engines/ledger)
// provides a slice-backed implementation with a binary snapshot format.
//
// The testing package (github.com/ValentinKolb/rStore/lib/db/testing) provides
// a conformance suite for RecordDB implementations:
//   - RunRecordDBTests: Runs the standardized test suite
//   - RunRecordDBBenchmarks: Provides performance benchmarks for comparing implementations
package db
