// Package store provides the high-level interface of the resource store: an
// append-only, insertion-ordered collection of typed records with store-assigned ids.
// It serves as an abstraction layer over the lower-level db.RecordDB engines and adds
// the exclusive-access discipline and unified error handling.
//
// Key Components:
//
//   - IStore Interface: List, Append, Get and GetDBInfo. Every implementation guarantees
//     that List and Append run with exclusive access over the whole sequence, so ids are
//     assigned as length+1 without races and List only returns completed appends.
//
//   - Error System: A structured error using typed return codes (RetCode) and a message.
//     The HTTP layer maps the codes to status codes.
//
//   - DBFactory: A function type that abstracts the creation of the underlying
//     db.RecordDB instance.
//
//   - Seed: Helper that appends seed payloads in order before a server starts.
//
// Implementations:
//
//	- Local Store (lstore): A single-node store that guards a db.RecordDB with a mutex.
//	  A panic inside a critical section is recovered and reported as an error, the lock
//	  is released and later operations proceed normally.
//	  Available in the "github.com/ValentinKolb/rStore/lib/store/lstore" package.
//
//	- Distributed Store (dstore): A store built on the Dragonboat RAFT library. Appends
//	  are raft log entries, so all replicas assign the same ids in the same order.
//	  Available in the "github.com/ValentinKolb/rStore/lib/store/dstore" package.
//
//	- RPC client (rpc/client): An IStore that talks to a running server over HTTP.
package store
