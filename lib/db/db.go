package db

import "io"

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

type Implementation string

const (
	ImplLedger Implementation = "ledger"
	ImplRemote Implementation = "remote"
)

// Record is a single stored item: a store-assigned id and an opaque payload.
type Record[T any] struct {
	ID   uint64 `json:"id"`
	Data T      `json:"data"`
}

type DatabaseInfo struct {
	Records   int            `json:"records"`
	LastID    uint64         `json:"last_id"`
	SizeBytes int            `json:"size_bytes"`
	DbType    Implementation `json:"db_type"`
	Metadata  interface{}    `json:"metadata"`
}

// --------------------------------------------------------------------------
// Database Interface
// --------------------------------------------------------------------------

// RecordDB defines an interface for append-only record database implementations.
// Records are kept in insertion order and are never mutated or removed once appended.
//
// Implementations are NOT required to be thread-safe. The owning store is responsible
// for serializing access (see lstore and dstore).
type RecordDB[T any] interface {

	// --------------------------------------------------------------------------
	// Write Operations
	// --------------------------------------------------------------------------

	// Append creates a new record with id = Len()+1 and the given payload,
	// adds it to the end of the sequence and returns it.
	Append(data T) (record Record[T])

	// --------------------------------------------------------------------------
	// Query Operations
	// --------------------------------------------------------------------------

	// List returns a copy of all records in insertion order.
	// The returned slice is never nil and may be modified by the caller.
	List() (records []Record[T])

	// Get returns the record with the given id.
	// The boolean return value indicates whether the record exists.
	Get(id uint64) (record Record[T], loaded bool)

	// Len returns the number of records.
	Len() (n int)

	// --------------------------------------------------------------------------
	// Persistence Operations
	// --------------------------------------------------------------------------

	// Save persists the current state of the database to the provided io.Writer.
	Save(w io.Writer) (err error)

	// Load restores the database state from the data provided by an io.Reader.
	// On error the previous state must be left untouched.
	Load(r io.Reader) (err error)

	// GetInfo returns information about the database.
	GetInfo() (info DatabaseInfo)

	// Close closes the database.
	Close() (err error)
}
