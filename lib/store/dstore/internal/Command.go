package internal

import (
	"encoding/binary"
	"fmt"
)

// CommandType defines the possible operations for the state machine.
type CommandType uint8

const (
	CommandTAppend CommandType = iota + 1 // Append a new record.
)

func (ct CommandType) String() string {
	switch ct {
	case CommandTAppend:
		return "Append"
	default:
		return fmt.Sprintf("Unknown(%d)", ct)
	}
}

// headerSize is the size of the fixed command header: Type + PayloadLen
const headerSize = 1 + 4

// Command represents a command to be executed by the state machine (a single entry in the raft log)
type Command struct {
	Type    CommandType
	Payload []byte // serialized record payload
}

// SizeBytes returns the exact number of bytes needed to serialize this command
func (command *Command) SizeBytes() int {
	return headerSize + len(command.Payload)
}

// Serialize serializes a command into a byte array with the format:
// 1 byte for operation type,
// 4 bytes for payload length (big endian),
// N bytes for payload data
func (command *Command) Serialize() []byte {
	result := make([]byte, command.SizeBytes())

	// Set operation type
	result[0] = byte(command.Type)

	// Set payload length (4 bytes, big endian)
	binary.BigEndian.PutUint32(result[1:headerSize], uint32(len(command.Payload)))

	// Copy payload bytes
	copy(result[headerSize:], command.Payload)

	return result
}

// Deserialize extracts all Command fields from a byte array.
func (command *Command) Deserialize(data []byte) error {
	if len(data) < headerSize {
		return fmt.Errorf("data too short for command")
	}

	// Extract operation type
	command.Type = CommandType(data[0])

	// Extract and validate payload length
	payloadLen := binary.BigEndian.Uint32(data[1:headerSize])
	if len(data) != headerSize+int(payloadLen) {
		return fmt.Errorf("payload length mismatch: header says %d, got %d", payloadLen, len(data)-headerSize)
	}

	// Reuse existing buffer if possible to reduce allocations
	if command.Payload == nil || cap(command.Payload) < int(payloadLen) {
		command.Payload = make([]byte, payloadLen)
	} else {
		command.Payload = command.Payload[:payloadLen]
	}
	copy(command.Payload, data[headerSize:])

	return nil
}

// EncodeID encodes a record id for the Data field of a raft result
func EncodeID(id uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, id)
	return b
}

// DecodeID decodes a record id written by EncodeID
func DecodeID(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("invalid id encoding: expected 8 bytes, got %d", len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}
