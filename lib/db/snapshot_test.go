package db

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"runtime"
	"strings"
	"testing"

	"github.com/ValentinKolb/rStore/lib/serializer"
)

// snapshotHeader writes magic, version and record count
func snapshotHeader(count uint64) *bytes.Buffer {
	var buf bytes.Buffer
	buf.WriteString(magicNum)
	buf.WriteByte(snapshotVersion)
	_ = binary.Write(&buf, binary.LittleEndian, count)
	return &buf
}

func TestReadRecordsOversizedLengthHeader(t *testing.T) {
	buf := snapshotHeader(1)
	_ = binary.Write(buf, binary.LittleEndian, uint64(1))
	_ = binary.Write(buf, binary.LittleEndian, uint32(1<<30)) // claims 1 GiB
	buf.WriteString(`"x"`)

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	_, _, err := ReadRecords[string](bytes.NewReader(buf.Bytes()), serializer.NewJSONSerializer())

	runtime.ReadMemStats(&after)

	if err == nil {
		t.Fatalf("Expected error for a payload shorter than its length header")
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Expected io.ErrUnexpectedEOF, got %v", err)
	}
	if !strings.Contains(err.Error(), "record 1") {
		t.Errorf("Expected record context in error, got %v", err)
	}
	if allocated := after.TotalAlloc - before.TotalAlloc; allocated > 64<<20 {
		t.Errorf("Reading a corrupt snapshot allocated %d MiB", allocated>>20)
	}
}

func TestReadRecordsTruncatedRecordHeader(t *testing.T) {
	buf := snapshotHeader(2)
	_ = binary.Write(buf, binary.LittleEndian, uint64(1))
	_ = binary.Write(buf, binary.LittleEndian, uint32(3))
	buf.WriteString(`"a"`)
	buf.Write([]byte{2, 0}) // second id cut off

	_, _, err := ReadRecords[string](bytes.NewReader(buf.Bytes()), serializer.NewJSONSerializer())
	if err == nil {
		t.Fatalf("Expected error for a truncated record header")
	}
	if !strings.Contains(err.Error(), "record 2") {
		t.Errorf("Expected record context in error, got %v", err)
	}
}

func TestWriteReadRecords(t *testing.T) {
	records := []Record[string]{{ID: 1, Data: "a"}, {ID: 2, Data: "b"}, {ID: 3, Data: "c"}}

	var buf bytes.Buffer
	if err := WriteRecords(&buf, records, serializer.NewGOBSerializer()); err != nil {
		t.Fatalf("Unexpected error during WriteRecords: %v", err)
	}

	got, _, err := ReadRecords[string](&buf, serializer.NewGOBSerializer())
	if err != nil {
		t.Fatalf("Unexpected error during ReadRecords: %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("Expected %d records, got %d", len(records), len(got))
	}
	for i := range records {
		if got[i] != records[i] {
			t.Errorf("Record %d: expected %+v, got %+v", i, records[i], got[i])
		}
	}
}
