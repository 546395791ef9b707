package primitize

import (
	"testing"
)

type benchLine struct {
	SKU      string
	Quantity int
}

type benchOrder struct {
	ID     int
	Status string
	Notes  []string
	Line   benchLine
}

// Benchmark conversion of a record without hooks.
func BenchmarkConverter_Convert_Plain(b *testing.B) {
	converter := New(WithRegistry(NewRegistry()))
	order := &benchOrder{ID: 1, Status: "new", Notes: []string{"a"}, Line: benchLine{SKU: "x", Quantity: 2}}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = converter.Convert(order)
	}
}

// Benchmark conversion of a record with modifier, validator and unset if empty, snapshot is taken per call.
func BenchmarkConverter_Convert_Hooks(b *testing.B) {
	registry := NewRegistry()
	_ = registry.Declare(benchOrder{},
		Describe("ID", WithModifier(func(record interface{}, value interface{}) (interface{}, error) {
			return value.(int) * 10, nil
		})),
		Describe("Status", WithValidator(func(record interface{}, value interface{}) (bool, string) {
			return value != "", "status is required"
		})),
		Describe("Notes", WithUnsetIfEmpty()),
	)
	converter := New(WithRegistry(registry))
	order := &benchOrder{ID: 1, Status: "new", Notes: []string{"a"}, Line: benchLine{SKU: "x", Quantity: 2}}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = converter.Convert(order)
	}
}

// Benchmark ordered JSON encoding of a converted record.
func BenchmarkMapping_MarshalJSON(b *testing.B) {
	converter := New(WithRegistry(NewRegistry()))
	order := &benchOrder{ID: 1, Status: "new", Notes: []string{"a"}, Line: benchLine{SKU: "x", Quantity: 2}}
	mapping, err := converter.Convert(order)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = mapping.MarshalJSON()
	}
}
