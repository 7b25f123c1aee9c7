package serializer

import (
	"reflect"
	"testing"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() ISerializer{
	"JSON": NewJSONSerializer,
	"GOB":  NewGOBSerializer,
}

type testPayload struct {
	Name  string
	Tags  []string
	Count int
}

// TestSerializerRoundTrip tests that payloads can be serialized and deserialized correctly
func TestSerializerRoundTrip(t *testing.T) {
	payloads := []testPayload{
		{Name: "Resource 1"},
		{Name: "with tags", Tags: []string{"a", "b"}, Count: 2},
		{Name: "unicode ✓", Count: -1},
	}

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for i, payload := range payloads {
				data, err := serializer.Serialize(payload)
				if err != nil {
					t.Errorf("Failed to serialize payload %d: %v", i, err)
					continue
				}

				var result testPayload
				if err := serializer.Deserialize(data, &result); err != nil {
					t.Errorf("Failed to deserialize payload %d: %v", i, err)
					continue
				}

				if !reflect.DeepEqual(payload, result) {
					t.Errorf("Payload %d mismatch: expected %+v, got %+v", i, payload, result)
				}
			}
		})
	}
}

// TestSerializerStrings checks the payload type used by the server binary
func TestSerializerStrings(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			data, err := serializer.Serialize("Resource 3")
			if err != nil {
				t.Fatalf("Failed to serialize string: %v", err)
			}

			var result string
			if err := serializer.Deserialize(data, &result); err != nil {
				t.Fatalf("Failed to deserialize string: %v", err)
			}
			if result != "Resource 3" {
				t.Errorf("Expected %q, got %q", "Resource 3", result)
			}
		})
	}
}

// TestSerializerRejectsWrongShape tests that a payload of the wrong shape is rejected
func TestSerializerRejectsWrongShape(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			data, err := serializer.Serialize(testPayload{Name: "x", Count: 1})
			if err != nil {
				t.Fatalf("Failed to serialize payload: %v", err)
			}

			var result string
			if err := serializer.Deserialize(data, &result); err == nil {
				t.Errorf("Expected an error when decoding a struct into a string")
			}
		})
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "gob"} {
		s, err := ByName(name)
		if err != nil {
			t.Fatalf("ByName(%q) returned error: %v", name, err)
		}
		if s.Name() != name {
			t.Errorf("Expected serializer %q, got %q", name, s.Name())
		}
	}

	if _, err := ByName("binary"); err == nil {
		t.Errorf("Expected error for unknown serializer")
	}
}
