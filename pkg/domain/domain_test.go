package domain

import (
	"testing"

	"github.com/dshills/constrainedrandom/pkg/rng"
	"pgregory.net/rapid"
)

func TestBitWidth_Sample(t *testing.T) {
	d := NewBitWidth(4)
	r := rng.NewRNG(1)

	for i := 0; i < 200; i++ {
		v := d.Sample(r).(int)
		if v < 0 || v >= 16 {
			t.Fatalf("bit-width-4 sample out of range: %d", v)
		}
	}
}

func TestBitWidth_ZeroBits(t *testing.T) {
	d := NewBitWidth(0)
	r := rng.NewRNG(1)
	if v := d.Sample(r).(int); v != 0 {
		t.Fatalf("bit-width-0 sample = %d, want 0", v)
	}
	if d.Size() != 1 {
		t.Fatalf("bit-width-0 size = %d, want 1", d.Size())
	}
}

func TestEnum_Sample(t *testing.T) {
	values := []any{"a", "b", "c"}
	d := NewEnum(values)
	r := rng.NewRNG(2)

	for i := 0; i < 50; i++ {
		v := d.Sample(r)
		found := false
		for _, want := range values {
			if v == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("enum sample %v not in declared domain", v)
		}
	}
}

func TestEnum_EnumerateFullyWhenSmall(t *testing.T) {
	values := []any{1, 2, 3}
	d := NewEnum(values)
	r := rng.NewRNG(3)

	got := d.Enumerate(10, r)
	if len(got) != 3 {
		t.Fatalf("Enumerate(10) on 3-value enum returned %d values", len(got))
	}
}

func TestWeighted_RangeEntry(t *testing.T) {
	d := NewWeighted([]WeightedEntry{
		{Value: 0, Weight: 1},
		{IsRange: true, Lo: 10, Hi: 20, Weight: 1},
	})
	r := rng.NewRNG(4)

	for i := 0; i < 200; i++ {
		v := d.Sample(r).(int)
		if v != 0 && (v < 10 || v > 20) {
			t.Fatalf("weighted sample %d outside declared domain", v)
		}
	}
}

func TestWeighted_DistributionTendency(t *testing.T) {
	d := NewWeighted([]WeightedEntry{
		{Value: 0, Weight: 50},
		{Value: 1, Weight: 25},
		{IsRange: true, Lo: 2, Hi: 9, Weight: 25},
	})
	r := rng.NewRNG(99)

	const n = 10000
	var zeros, ones, rangeCount int
	for i := 0; i < n; i++ {
		v := d.Sample(r).(int)
		switch {
		case v == 0:
			zeros++
		case v == 1:
			ones++
		case v >= 2 && v < 10:
			rangeCount++
		default:
			t.Fatalf("sample %d outside declared domain", v)
		}
	}

	checkFreq(t, "0", zeros, n, 0.50, 0.02)
	checkFreq(t, "1", ones, n, 0.25, 0.02)
	checkFreq(t, "[2,10)", rangeCount, n, 0.25, 0.02)
}

func checkFreq(t *testing.T, label string, count, n int, want, tol float64) {
	t.Helper()
	got := float64(count) / float64(n)
	if got < want-tol || got > want+tol {
		t.Errorf("frequency of %s = %.4f, want %.2f +/- %.2f", label, got, want, tol)
	}
}

func TestFunction_Sample(t *testing.T) {
	d := NewFunction(func(r *rng.RNG, args []any) any {
		return args[0].(int) + r.Intn(1)
	}, []any{42})
	r := rng.NewRNG(5)

	if v := d.Sample(r).(int); v != 42 {
		t.Fatalf("function domain sample = %d, want 42", v)
	}
	if d.Size() != Infinite {
		t.Fatalf("function domain Size() = %d, want Infinite", d.Size())
	}
}

func TestEnumerate_DeterministicForSeed(t *testing.T) {
	d := NewBitWidth(16) // large domain, forces sampling path

	r1 := rng.NewRNG(123)
	r2 := rng.NewRNG(123)

	got1 := d.Enumerate(5, r1)
	got2 := d.Enumerate(5, r2)

	if len(got1) != len(got2) {
		t.Fatalf("Enumerate lengths differ: %d vs %d", len(got1), len(got2))
	}
	for i := range got1 {
		if got1[i] != got2[i] {
			t.Fatalf("Enumerate not deterministic at %d: %v vs %v", i, got1[i], got2[i])
		}
	}
}

// TestEnumerate_NoDuplicates uses rapid to check a broad sweep of bit widths
// and limits never produce a duplicate value within one Enumerate call.
func TestEnumerate_NoDuplicates(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		bits := rapid.IntRange(1, 10).Draw(rt, "bits")
		limit := rapid.IntRange(1, 32).Draw(rt, "limit")
		seed := rapid.Uint64().Draw(rt, "seed")

		d := NewBitWidth(bits)
		r := rng.NewRNG(seed)
		got := d.Enumerate(limit, r)

		seen := make(map[any]bool, len(got))
		for _, v := range got {
			if seen[v] {
				rt.Fatalf("Enumerate produced duplicate value %v", v)
			}
			seen[v] = true
		}
		if int64(len(got)) > d.Size() {
			rt.Fatalf("Enumerate produced more values (%d) than domain size (%d)", len(got), d.Size())
		}
	})
}
