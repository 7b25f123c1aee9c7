package db

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"github.com/ValentinKolb/rStore/lib/serializer"
	"io"
)

// --------------------------------------------------------------------------
// Snapshot Format
// --------------------------------------------------------------------------

const (
	magicNum        = "RSTOREDB\x00" // File format identifier
	snapshotVersion = 1              // Snapshot format version
)

// WriteRecords writes records in the snapshot format shared by all engines.
// A caller holding a copy of the records (e.g. a prepared raft snapshot) can
// write it without access to the database.
//
// Format (little endian):
//   - magic number
//   - version (uint8)
//   - record count (uint64)
//   - per record: id (uint64), payload length (uint32), payload bytes
func WriteRecords[T any](w io.Writer, records []Record[T], s serializer.ISerializer) error {
	// Use a buffered writer for better performance
	bw := bufio.NewWriterSize(w, 1024*1024) // 1 MB buffer

	// Write file header
	if _, err := bw.WriteString(magicNum); err != nil {
		return err
	}

	// Write snapshot version
	if err := binary.Write(bw, binary.LittleEndian, uint8(snapshotVersion)); err != nil {
		return err
	}

	// Write total record count
	if err := binary.Write(bw, binary.LittleEndian, uint64(len(records))); err != nil {
		return err
	}

	for _, record := range records {
		payload, err := s.Serialize(record.Data)
		if err != nil {
			return fmt.Errorf("failed to serialize record %d: %w", record.ID, err)
		}

		// Write id
		if err := binary.Write(bw, binary.LittleEndian, record.ID); err != nil {
			return err
		}

		// Write payload length
		if err := binary.Write(bw, binary.LittleEndian, uint32(len(payload))); err != nil {
			return err
		}

		// Write payload bytes
		if _, err := bw.Write(payload); err != nil {
			return err
		}
	}

	// Flush buffer to ensure all data is written
	return bw.Flush()
}

// ReadRecords reads records written by WriteRecords.
// It verifies that the ids form the sequence 1..n.
func ReadRecords[T any](r io.Reader, s serializer.ISerializer) ([]Record[T], int, error) {
	// Use a buffered reader for better performance
	br := bufio.NewReaderSize(r, 1024*1024) // 1 MB buffer

	// Read and verify magic number
	magicBytes := make([]byte, len(magicNum))
	if _, err := io.ReadFull(br, magicBytes); err != nil {
		return nil, 0, err
	}
	if string(magicBytes) != magicNum {
		return nil, 0, fmt.Errorf("invalid file format: magic number mismatch")
	}

	// Read and verify version
	var version uint8
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return nil, 0, err
	}
	if int(version) != snapshotVersion {
		return nil, 0, fmt.Errorf("unsupported version: %d (expected %d)", version, snapshotVersion)
	}

	// Read record count
	var count uint64
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return nil, 0, fmt.Errorf("corrupt snapshot: record count: %w", err)
	}

	records := make([]Record[T], 0, min(count, 64*1024))
	sizeBytes := 0

	for i := uint64(0); i < count; i++ {
		// Read id
		var id uint64
		if err := binary.Read(br, binary.LittleEndian, &id); err != nil {
			return nil, 0, fmt.Errorf("corrupt snapshot: record %d: %w", i+1, err)
		}
		if id != i+1 {
			return nil, 0, fmt.Errorf("corrupt snapshot: record %d has id %d", i+1, id)
		}

		// Read payload length
		var payloadLen uint32
		if err := binary.Read(br, binary.LittleEndian, &payloadLen); err != nil {
			return nil, 0, fmt.Errorf("corrupt snapshot: record %d: %w", id, err)
		}

		// Read payload bytes. The length header is not trusted for the allocation,
		// the buffer only grows with the bytes actually present.
		payload, err := io.ReadAll(io.LimitReader(br, int64(payloadLen)))
		if err != nil {
			return nil, 0, fmt.Errorf("corrupt snapshot: record %d: %w", id, err)
		}
		if len(payload) != int(payloadLen) {
			return nil, 0, fmt.Errorf("corrupt snapshot: record %d: %w (payload has %d of %d bytes)", id, io.ErrUnexpectedEOF, len(payload), payloadLen)
		}

		var data T
		if err := s.Deserialize(payload, &data); err != nil {
			return nil, 0, fmt.Errorf("failed to deserialize record %d: %w", id, err)
		}

		records = append(records, Record[T]{ID: id, Data: data})
		sizeBytes += int(payloadLen)
	}

	return records, sizeBytes, nil
}
