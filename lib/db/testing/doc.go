// Package testing provides standardised tests and benchmarks for
// database implementations that satisfy the db.RecordDB interface.
//
// The package contains:
//   - testing: A conformance suite for the RecordDB contract (sequential ids, copy
//     semantics of List, snapshot round trips, rejection of corrupt snapshots)
//   - benchmark: Performance tests for the common operations
//
// Example usage:
//
//	// Creating a factory function for your implementation
//	factory := func() db.RecordDB[string] {
//		return NewMyDatabase[string]()
//	}
//
//	// Running the standard test suite
//	dbtesting.RunRecordDBTests(t, "MyDatabase", factory)
//
//	// Running performance benchmarks
//	dbtesting.RunRecordDBBenchmarks(b, "MyDatabase", factory)
package testing
