package internal

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// TestSizeBytes tests the SizeBytes method
func TestSizeBytes(t *testing.T) {
	tests := []struct {
		name     string
		command  Command
		expected int
	}{
		{
			name:     "Command with payload",
			command:  Command{Type: CommandTAppend, Payload: []byte(`"Resource 1"`)},
			expected: 1 + 4 + 12, // Type + PayloadLen + Payload
		},
		{
			name:     "Command without payload",
			command:  Command{Type: CommandTAppend},
			expected: 1 + 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size := tt.command.SizeBytes()
			if size != tt.expected {
				t.Errorf("SizeBytes() = %v, want %v", size, tt.expected)
			}
		})
	}
}

// TestSerializeDeserialize tests both Serialize and Deserialize methods
func TestSerializeDeserialize(t *testing.T) {
	tests := []struct {
		name    string
		command Command
	}{
		{
			name:    "Standard command with payload",
			command: Command{Type: CommandTAppend, Payload: []byte(`"Resource 3"`)},
		},
		{
			name:    "Binary payload",
			command: Command{Type: CommandTAppend, Payload: []byte{0, 1, 2, 255}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.command.Serialize()

			if len(data) != tt.command.SizeBytes() {
				t.Errorf("Serialized length = %d, want %d", len(data), tt.command.SizeBytes())
			}
			if data[0] != byte(tt.command.Type) {
				t.Errorf("Type byte = %d, want %d", data[0], tt.command.Type)
			}
			if got := binary.BigEndian.Uint32(data[1:5]); got != uint32(len(tt.command.Payload)) {
				t.Errorf("Payload length = %d, want %d", got, len(tt.command.Payload))
			}

			var decoded Command
			if err := decoded.Deserialize(data); err != nil {
				t.Fatalf("Deserialize() error = %v", err)
			}
			if decoded.Type != tt.command.Type {
				t.Errorf("Type = %v, want %v", decoded.Type, tt.command.Type)
			}
			if !bytes.Equal(decoded.Payload, tt.command.Payload) {
				t.Errorf("Payload = %v, want %v", decoded.Payload, tt.command.Payload)
			}
		})
	}
}

// TestDeserializeErrors tests malformed input
func TestDeserializeErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "header too short", data: []byte{1, 0, 0}},
		{name: "payload shorter than header says", data: []byte{1, 0, 0, 0, 4, 'a', 'b'}},
		{name: "payload longer than header says", data: []byte{1, 0, 0, 0, 1, 'a', 'b'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Command
			if err := c.Deserialize(tt.data); err == nil {
				t.Errorf("Deserialize() expected error for %v", tt.data)
			}
		})
	}
}

// TestDeserializeReusesBuffer tests that an existing payload buffer is reused
func TestDeserializeReusesBuffer(t *testing.T) {
	src := Command{Type: CommandTAppend, Payload: []byte("abc")}
	dst := Command{Payload: make([]byte, 0, 16)}

	if err := dst.Deserialize(src.Serialize()); err != nil {
		t.Fatalf("Deserialize() error = %v", err)
	}
	if cap(dst.Payload) != 16 {
		t.Errorf("Expected payload buffer to be reused, cap = %d", cap(dst.Payload))
	}
	if string(dst.Payload) != "abc" {
		t.Errorf("Payload = %q, want %q", dst.Payload, "abc")
	}
}

func TestEncodeDecodeID(t *testing.T) {
	for _, id := range []uint64{1, 2, 102, 1 << 63} {
		got, err := DecodeID(EncodeID(id))
		if err != nil {
			t.Fatalf("DecodeID() error = %v", err)
		}
		if got != id {
			t.Errorf("DecodeID(EncodeID(%d)) = %d", id, got)
		}
	}

	if _, err := DecodeID([]byte{1, 2}); err == nil {
		t.Errorf("Expected error for short id encoding")
	}
}
