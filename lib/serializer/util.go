package serializer

import "fmt"

// ByName returns the serializer registered under the given name (json, gob)
func ByName(name string) (ISerializer, error) {
	switch name {
	case "json":
		return NewJSONSerializer(), nil
	case "gob":
		return NewGOBSerializer(), nil
	default:
		return nil, fmt.Errorf("invalid serializer %s (expected one of: json, gob)", name)
	}
}
