package store

import (
	"fmt"
	"github.com/ValentinKolb/rStore/lib/db"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// DBFactory is a function type that creates a new db used by the store.
// This is used to abstract the creation of the db from the store implementation.
type DBFactory[T any] func() db.RecordDB[T]

// IStore is the generic interface for interacting with a resource store.
// List and Append each run with exclusive access over the whole record sequence,
// so List never observes a partially appended record and two concurrent Appends
// never receive the same id.
type IStore[T any] interface {
	// List returns a snapshot of all records in insertion order.
	List() (records []db.Record[T], err error)
	// Append stores a new record with id = number of records before the append + 1.
	// The created record is returned.
	Append(data T) (record db.Record[T], err error)
	// Get returns the record with the given id. The boolean return value indicates whether the record was found.
	Get(id uint64) (record db.Record[T], loaded bool, err error)
	// GetDBInfo returns metadata about the database underlying the store.
	// It is not guaranteed that all fields are filled in or that the information is up-to-date!
	GetDBInfo() (info db.DatabaseInfo, err error)
}

// Seed appends the given payloads in order.
// On an empty store the seeded records receive the ids 1..len(payloads).
func Seed[T any](s IStore[T], payloads ...T) error {
	for _, payload := range payloads {
		if _, err := s.Append(payload); err != nil {
			return err
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("StoreError (code %s): %s", e.Code, e.Msg)
}

// NewError creates a new store Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess          RetCode = iota // 0: Command executed successfully.
	RetCInternalError                   // 1: Command failed due to an internal error.
	RetCInvalidOperation                // 2: Invalid operation.
	RetCNotFound                        // 3: The requested record does not exist.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCInvalidOperation:
		return "InvalidOperation"
	case RetCNotFound:
		return "NotFound"
	default:
		return "Unknown"
	}
}
