package testing

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/ValentinKolb/rStore/lib/db"
)

// RunRecordDBBenchmarks runs all benchmarks for a record database implementation
func RunRecordDBBenchmarks(b *testing.B, name string, factory DBFactory) {

	b.Run("Append", func(b *testing.B) {
		benchmarkAppend(b, factory())
	})

	b.Run("List(1k)", func(b *testing.B) {
		benchmarkList(b, factory(), 1000)
	})

	b.Run("Get", func(b *testing.B) {
		benchmarkGet(b, factory())
	})

	b.Run("SaveLoad", func(b *testing.B) {
		benchmarkSaveLoad(b, factory)
	})
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

// Benchmark for Append operation
func benchmarkAppend(b *testing.B, database db.RecordDB[string]) {
	b.Cleanup(func() {
		database.Close()
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		database.Append("benchmark-payload")
	}
}

// Benchmark for List operation on a database with n records
func benchmarkList(b *testing.B, database db.RecordDB[string], n int) {
	b.Cleanup(func() {
		database.Close()
	})

	for i := 0; i < n; i++ {
		database.Append(fmt.Sprintf("payload-%d", i))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = database.List()
	}
}

// Benchmark for Get operation
func benchmarkGet(b *testing.B, database db.RecordDB[string]) {
	b.Cleanup(func() {
		database.Close()
	})

	numRecords := 1000
	for i := 0; i < numRecords; i++ {
		database.Append(fmt.Sprintf("payload-%d", i))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = database.Get(uint64(i%numRecords) + 1)
	}
}

// Benchmark for Save and Load operations
func benchmarkSaveLoad(b *testing.B, factory DBFactory) {
	database := factory()
	b.Cleanup(func() {
		database.Close()
	})

	numRecords := 10000
	for i := 0; i < numRecords; i++ {
		database.Append(fmt.Sprintf("save-load-payload-%d", i))
	}

	var buf bytes.Buffer
	if err := database.Save(&buf); err != nil {
		b.Fatalf("Save failed: %v", err)
	}
	snapshot := buf.Bytes()

	b.Run("Save", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var out bytes.Buffer
			if err := database.Save(&out); err != nil {
				b.Fatalf("Save failed: %v", err)
			}
		}
	})

	b.Run("Load", func(b *testing.B) {
		target := factory()
		defer target.Close()
		for i := 0; i < b.N; i++ {
			if err := target.Load(bytes.NewReader(snapshot)); err != nil {
				b.Fatalf("Load failed: %v", err)
			}
		}
	})
}
