// Package internal provides the communication protocol structures and serialization
// logic for the dstore package. It defines the wire format used to transmit operations
// between the store client and the replicated state machine.
//
// This package is intended for internal use by the dstore implementation and should
// not be imported directly by external code.
//
// The package consists of two main components:
//
//   - Command System: Defines write operations (Append) that modify the state of the
//     database. Commands are serialized and proposed to the RAFT cluster, applied on the
//     state machine and produce a result carrying the assigned record id.
//
//   - Query System: Defines read operations (List, Get, GetDBInfo). Queries are executed
//     locally on the state machine and therefore do not require serialization.
//
// Command Format:
//
//	- 1 byte: Command type
//	- 4 bytes: Payload length (uint32, big endian)
//	- N bytes: Payload (the record payload, encoded by the store's serializer)
//
// The assigned id travels back in the Data field of the raft result as 8 big endian
// bytes (EncodeID / DecodeID).
package internal
