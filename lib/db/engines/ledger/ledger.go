package ledger

import (
	"github.com/ValentinKolb/rStore/lib/db"
	"github.com/ValentinKolb/rStore/lib/serializer"
	"io"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

// Constants for database behavior and structure
const (
	defaultInitialCapacity = 64 // Default number of preallocated records
)

// --------------------------------------------------------------------------
// Core Ledger database structure
// --------------------------------------------------------------------------

// ledgerImpl is an append-only record database backed by a single slice.
// The position of a record in the slice is always id-1.
type ledgerImpl[T any] struct {
	records    []db.Record[T]
	serializer serializer.ISerializer
	sizeBytes  int // estimated payload bytes (only known for loaded records)
}

// DBOptions configures the ledgerImpl behavior during initialization
type DBOptions struct {
	InitialCapacity int                    // Number of preallocated records (0 = use default)
	Serializer      serializer.ISerializer // Payload encoding for Save/Load (nil = json)
}

// DefaultOptions returns the default ledgerImpl options
func DefaultOptions() *DBOptions {
	return &DBOptions{
		InitialCapacity: defaultInitialCapacity,
		Serializer:      serializer.NewJSONSerializer(),
	}
}

// --------------------------------------------------------------------------
// Initialization and Setup
// --------------------------------------------------------------------------

// NewLedgerDB creates a new LedgerDB instance with the specified options (optional)
//
// Thread-safety: The returned database is not thread-safe. Callers must serialize access.
func NewLedgerDB[T any](opts *DBOptions) db.RecordDB[T] {

	// Generate default options if not provided
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.InitialCapacity <= 0 {
		opts.InitialCapacity = defaultInitialCapacity
	}
	if opts.Serializer == nil {
		opts.Serializer = serializer.NewJSONSerializer()
	}

	return &ledgerImpl[T]{
		records:    make([]db.Record[T], 0, opts.InitialCapacity),
		serializer: opts.Serializer,
	}
}

// --------------------------------------------------------------------------
// Write Operations
// --------------------------------------------------------------------------

// Append creates a new record with id = Len()+1 and pushes it to the end.
func (l *ledgerImpl[T]) Append(data T) db.Record[T] {
	record := db.Record[T]{
		ID:   uint64(len(l.records)) + 1,
		Data: data,
	}
	l.records = append(l.records, record)
	return record
}

// --------------------------------------------------------------------------
// Query Operations
// --------------------------------------------------------------------------

// List returns a copy of all records in insertion order
func (l *ledgerImpl[T]) List() []db.Record[T] {
	out := make([]db.Record[T], len(l.records))
	copy(out, l.records)
	return out
}

// Get returns the record with the given id
func (l *ledgerImpl[T]) Get(id uint64) (db.Record[T], bool) {
	if id == 0 || id > uint64(len(l.records)) {
		return db.Record[T]{}, false
	}
	return l.records[id-1], true
}

// Len returns the number of records
func (l *ledgerImpl[T]) Len() int {
	return len(l.records)
}

// --------------------------------------------------------------------------
// Persistence Operations
// --------------------------------------------------------------------------

// Save writes all records to w in the db snapshot format (see db.WriteRecords)
func (l *ledgerImpl[T]) Save(w io.Writer) error {
	return db.WriteRecords(w, l.records, l.serializer)
}

// Load replaces the current records with the records read from r.
// The current state is only replaced if the complete snapshot could be read.
func (l *ledgerImpl[T]) Load(r io.Reader) error {
	records, sizeBytes, err := db.ReadRecords[T](r, l.serializer)
	if err != nil {
		return err
	}
	l.records = records
	l.sizeBytes = sizeBytes
	return nil
}

// --------------------------------------------------------------------------
// Metadata
// --------------------------------------------------------------------------

// GetInfo returns information about the database.
// The size is an estimate based on loaded payloads and the record header size.
func (l *ledgerImpl[T]) GetInfo() db.DatabaseInfo {
	return db.DatabaseInfo{
		Records:   len(l.records),
		LastID:    uint64(len(l.records)),
		SizeBytes: l.sizeBytes + len(l.records)*12, // id + length prefix per record
		DbType:    db.ImplLedger,
		Metadata: map[string]any{
			"capacity":   cap(l.records),
			"serializer": l.serializer.Name(),
		},
	}
}

// Close releases the records
func (l *ledgerImpl[T]) Close() error {
	l.records = nil
	return nil
}
