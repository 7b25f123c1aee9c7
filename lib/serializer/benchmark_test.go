package serializer

import (
	"strings"
	"testing"
)

// benchmarkPayloads returns payloads of increasing size
func benchmarkPayloads() map[string]string {
	return map[string]string{
		"Small":  "Resource 1",
		"Medium": strings.Repeat("medium length payload ", 8),
		"Large":  strings.Repeat("x", 16*1024),
	}
}

func BenchmarkSerialize(b *testing.B) {
	for sName, factory := range testSerializers {
		s := factory()
		for pName, payload := range benchmarkPayloads() {
			b.Run(sName+"/"+pName, func(b *testing.B) {
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					if _, err := s.Serialize(payload); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkDeserialize(b *testing.B) {
	for sName, factory := range testSerializers {
		s := factory()
		for pName, payload := range benchmarkPayloads() {
			data, err := s.Serialize(payload)
			if err != nil {
				b.Fatal(err)
			}
			b.Run(sName+"/"+pName, func(b *testing.B) {
				b.ReportAllocs()
				var out string
				for i := 0; i < b.N; i++ {
					if err := s.Deserialize(data, &out); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}
