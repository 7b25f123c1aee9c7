// Package serializer provides payload serialization for the resource store.
// Record payloads are generic, so every layer that has to turn a payload into
// bytes (raft commands, engine snapshots) goes through an ISerializer.
//
// Implementations:
//
//   - jsonSerializerImpl: JSON encoding. Human-readable and the default, since the
//     HTTP API speaks JSON as well.
//
//   - gobSerializerImpl: Go's gob encoding. Useful for payload types that do not
//     round-trip cleanly through JSON.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
//
// Usage:
//
//	s, err := serializer.ByName("json")
//	data, err := s.Serialize("Resource 1")
//	var payload string
//	err = s.Deserialize(data, &payload)
package serializer
