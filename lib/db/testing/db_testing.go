package testing

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/ValentinKolb/rStore/lib/db"
)

// DBFactory is a function that creates a new instance of a RecordDB implementation.
// The suite uses string payloads, the payload type the server binary commits to.
type DBFactory func() db.RecordDB[string]

// RunRecordDBTests runs a comprehensive test suite for a RecordDB implementation.
func RunRecordDBTests(t *testing.T, name string, factory DBFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Append&List", func(t *testing.T) {
			testAppendList(t, factory())
		})

		t.Run("SequentialIDs", func(t *testing.T) {
			testSequentialIDs(t, factory())
		})

		t.Run("ListIsCopy", func(t *testing.T) {
			testListIsCopy(t, factory())
		})

		t.Run("ListIdempotent", func(t *testing.T) {
			testListIdempotent(t, factory())
		})

		t.Run("Get", func(t *testing.T) {
			testGet(t, factory())
		})

		t.Run("EmptyList", func(t *testing.T) {
			testEmptyList(t, factory())
		})

		t.Run("SaveLoad", func(t *testing.T) {
			testSaveLoad(t, factory)
		})

		t.Run("LoadCorrupt", func(t *testing.T) {
			testLoadCorrupt(t, factory)
		})

		t.Run("Info", func(t *testing.T) {
			testInfo(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testAppendList(t *testing.T, database db.RecordDB[string]) {
	defer database.Close()

	database.Append("Resource 1")
	database.Append("Resource 2")

	records := database.List()
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	expected := []db.Record[string]{
		{ID: 1, Data: "Resource 1"},
		{ID: 2, Data: "Resource 2"},
	}
	for i, record := range records {
		if record != expected[i] {
			t.Errorf("Record %d: expected %+v, got %+v", i, expected[i], record)
		}
	}

	record := database.Append("Resource 3")
	if record.ID != 3 || record.Data != "Resource 3" {
		t.Errorf("Expected {3 Resource 3}, got %+v", record)
	}

	records = database.List()
	if len(records) != 3 {
		t.Fatalf("Expected 3 records after append, got %d", len(records))
	}
	if records[2] != record {
		t.Errorf("Expected last record %+v, got %+v", record, records[2])
	}
}

func testSequentialIDs(t *testing.T, database db.RecordDB[string]) {
	defer database.Close()

	numRecords := 1000
	for i := 1; i <= numRecords; i++ {
		record := database.Append(fmt.Sprintf("payload-%d", i))
		if record.ID != uint64(i) {
			t.Fatalf("Append %d returned id %d", i, record.ID)
		}
	}

	if database.Len() != numRecords {
		t.Errorf("Expected Len() = %d, got %d", numRecords, database.Len())
	}

	for i, record := range database.List() {
		if record.ID != uint64(i+1) {
			t.Errorf("Record at position %d has id %d", i, record.ID)
		}
		if record.Data != fmt.Sprintf("payload-%d", i+1) {
			t.Errorf("Record %d has payload %q", record.ID, record.Data)
		}
	}
}

func testListIsCopy(t *testing.T, database db.RecordDB[string]) {
	defer database.Close()

	database.Append("original")

	records := database.List()
	records[0].Data = "modified"
	records[0].ID = 42

	again := database.List()
	if again[0].Data != "original" || again[0].ID != 1 {
		t.Errorf("Modifying a List result changed the database: %+v", again[0])
	}

	// a snapshot taken before an append must not grow
	before := database.List()
	database.Append("later")
	if len(before) != 1 {
		t.Errorf("Snapshot changed length after append: %d", len(before))
	}
}

func testListIdempotent(t *testing.T, database db.RecordDB[string]) {
	defer database.Close()

	for i := 0; i < 10; i++ {
		database.Append(fmt.Sprintf("value-%d", i))
	}

	first := database.List()
	second := database.List()
	if len(first) != len(second) {
		t.Fatalf("List lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Record %d differs between List calls: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func testGet(t *testing.T, database db.RecordDB[string]) {
	defer database.Close()

	database.Append("first")
	database.Append("second")

	record, ok := database.Get(2)
	if !ok {
		t.Fatalf("Expected record 2 to exist")
	}
	if record.Data != "second" {
		t.Errorf("Expected payload %q, got %q", "second", record.Data)
	}

	for _, id := range []uint64{0, 3, 1 << 40} {
		if _, ok := database.Get(id); ok {
			t.Errorf("Expected record %d to not exist", id)
		}
	}
}

func testEmptyList(t *testing.T, database db.RecordDB[string]) {
	defer database.Close()

	records := database.List()
	if records == nil {
		t.Errorf("Expected an empty, non-nil slice")
	}
	if len(records) != 0 {
		t.Errorf("Expected no records, got %d", len(records))
	}
	if database.Len() != 0 {
		t.Errorf("Expected Len() = 0, got %d", database.Len())
	}
}

func testSaveLoad(t *testing.T, factory DBFactory) {
	database := factory()
	database2 := factory()

	// close the databases after the test
	defer database.Close()
	defer database2.Close()

	numRecords := 1000
	for i := 0; i < numRecords; i++ {
		database.Append(fmt.Sprintf("save-load-test-value-%d", i))
	}

	var buf bytes.Buffer
	if err := database.Save(&buf); err != nil {
		t.Fatalf("Unexpected error during Save: %v", err)
	}

	if err := database2.Load(&buf); err != nil {
		t.Fatalf("Unexpected error during Load: %v", err)
	}

	original := database.List()
	loaded := database2.List()
	if len(original) != len(loaded) {
		t.Fatalf("Expected %d records after Load, got %d", len(original), len(loaded))
	}
	for i := range original {
		if original[i] != loaded[i] {
			t.Errorf("Record mismatch at %d: expected %+v, got %+v", i, original[i], loaded[i])
		}
	}

	// ids continue after the loaded records
	record := database2.Append("after-load")
	if record.ID != uint64(numRecords+1) {
		t.Errorf("Expected id %d after Load, got %d", numRecords+1, record.ID)
	}
}

func testLoadCorrupt(t *testing.T, factory DBFactory) {
	source := factory()
	defer source.Close()
	source.Append("a")
	source.Append("b")

	var buf bytes.Buffer
	if err := source.Save(&buf); err != nil {
		t.Fatalf("Unexpected error during Save: %v", err)
	}

	target := factory()
	defer target.Close()
	target.Append("existing")

	// truncated snapshot
	truncated := buf.Bytes()[:buf.Len()-1]
	if err := target.Load(bytes.NewReader(truncated)); err == nil {
		t.Errorf("Expected error when loading a truncated snapshot")
	}

	// wrong magic number
	if err := target.Load(bytes.NewReader([]byte("NOTADB\x00\x00\x00\x00\x00"))); err == nil {
		t.Errorf("Expected error when loading an invalid snapshot")
	}

	// state is untouched after failed loads
	records := target.List()
	if len(records) != 1 || records[0].Data != "existing" {
		t.Errorf("Failed Load modified the database: %+v", records)
	}
}

func testInfo(t *testing.T, database db.RecordDB[string]) {
	defer database.Close()

	database.Append("x")
	database.Append("y")

	info := database.GetInfo()
	if info.Records != 2 {
		t.Errorf("Expected 2 records in info, got %d", info.Records)
	}
	if info.LastID != 2 {
		t.Errorf("Expected last id 2 in info, got %d", info.LastID)
	}
	if info.DbType == "" {
		t.Errorf("Expected db type to be set")
	}
}
