package core

import (
	"encoding/json"
	"testing"
)

func TestSimpleRNGDeterministic(t *testing.T) {
	a := NewSimpleRNG(42)
	b := NewSimpleRNG(42)
	for i := 0; i < 100; i++ {
		if a.Next() != b.Next() {
			t.Fatalf("streams diverged at draw %d", i)
		}
	}
}

func TestSimpleRNGRanges(t *testing.T) {
	r := NewSimpleRNG(7)
	for i := 0; i < 1000; i++ {
		if f := r.Float64(); f < 0 || f >= 1 {
			t.Fatalf("Float64() = %f, expected [0, 1)", f)
		}
		if n := r.IntRange(3, 5); n < 3 || n > 5 {
			t.Fatalf("IntRange(3, 5) = %d", n)
		}
		if p := r.InDisc(10); p.Len() > 10 {
			t.Fatalf("InDisc(10) = %v outside disc", p)
		}
	}
	if r.Intn(0) != 0 {
		t.Error("Intn(0) should be 0")
	}
}

func TestSimpleRNGZeroSeed(t *testing.T) {
	if NewSimpleRNG(0).State() != 1 {
		t.Error("zero seed should be remapped to 1")
	}
}

func TestSimpleRNGJSON(t *testing.T) {
	r := NewSimpleRNG(-3)
	r.Next()

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var restored SimpleRNG
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if restored.Next() != r.Next() {
		t.Error("restored generator produced a different stream")
	}
}
