package serializer

// ISerializer is the interface for all payload serializers.
// Implementations must be stateless and safe for concurrent use.
type ISerializer interface {
	// Serialize encodes v into a byte array
	// It returns the serialized byte array and an error if any
	Serialize(v any) ([]byte, error)
	// Deserialize decodes a byte array into the value pointed to by v
	// It returns an error if the bytes do not match the shape of v
	Deserialize(b []byte, v any) error
	// Name returns the name of the serializer (e.g. "json")
	Name() string
}
