package internal

import "github.com/ValentinKolb/rStore/lib/db"

// QueryType defines the possible queries for the state machine.
type QueryType uint8

const (
	QueryTList      QueryType = iota // Retrieve all records in insertion order.
	QueryTGet                        // Retrieve a record by id.
	QueryTGetDBInfo                  // Retrieve metadata about the database underlying the machine.
)

func (q QueryType) String() string {
	switch q {
	case QueryTList:
		return "List"
	case QueryTGet:
		return "Get"
	case QueryTGetDBInfo:
		return "GetDBInfo"
	default:
		return "Unknown"
	}
}

// Query defines the structure for lookup requests (read-only) sent via SyncRead or StaleRead
type Query struct {
	Type QueryType // The type of Query to perform.
	ID   uint64    // The record id (only for QueryTGet).
}

// GetResult is the result of a QueryTGet operation.
// All other query results are slices or predefined structs ([]db.Record, db.DatabaseInfo).
type GetResult[T any] struct {
	Ok     bool
	Record db.Record[T]
}
