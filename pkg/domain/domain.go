package domain

import (
	"fmt"

	"github.com/dshills/constrainedrandom/pkg/rng"
)

// Kind identifies which of the four domain shapes a Domain carries.
type Kind int

const (
	// BitWidth domains are integers in [0, 2^W), uniform.
	BitWidth Kind = iota
	// Enum domains are a finite ordered sequence of values, uniform.
	Enum
	// Weighted domains map a value or range to a positive integer weight.
	Weighted
	// Function domains invoke an opaque callable to produce a value.
	Function
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case BitWidth:
		return "BitWidth"
	case Enum:
		return "Enum"
	case Weighted:
		return "Weighted"
	case Function:
		return "Function"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Infinite is the sentinel Size() returns for domains with no finite
// enumeration (Function domains).
const Infinite = -1

// Fn is the shape of a function-domain callable. It receives the shared
// random source (it is presumed to consume it for reproducibility — the
// package cannot enforce that) plus the fixed argument tuple the variable
// was configured with.
type Fn func(r *rng.RNG, args []any) any

// WeightedEntry is one entry of a Weighted domain: either a single Value or
// an inclusive integer range [Lo, Hi], carrying a positive sampling Weight.
// A range entry samples uniformly within itself once the range is chosen.
type WeightedEntry struct {
	IsRange bool
	Value   any
	Lo, Hi  int64
	Weight  int64
}

// Domain is a tagged-union value domain. Exactly the fields for Kind are
// meaningful; dispatch on Kind, never by checking which fields are set.
type Domain struct {
	Kind Kind

	// BitWidth
	Bits int

	// Enum
	Values []any

	// Weighted
	Entries []WeightedEntry

	// Function
	FnImpl Fn
	FnArgs []any
}

// NewBitWidth builds a Domain of integers in [0, 2^bits).
func NewBitWidth(bits int) Domain {
	if bits < 0 {
		panic("domain: NewBitWidth bits must be >= 0")
	}
	return Domain{Kind: BitWidth, Bits: bits}
}

// NewEnum builds a Domain over a finite ordered sequence of values.
func NewEnum(values []any) Domain {
	return Domain{Kind: Enum, Values: values}
}

// NewWeighted builds a Domain sampled proportionally to entry weight.
func NewWeighted(entries []WeightedEntry) Domain {
	return Domain{Kind: Weighted, Entries: entries}
}

// NewFunction builds a Domain that invokes fn(r, args) to produce a value.
func NewFunction(fn Fn, args []any) Domain {
	return Domain{Kind: Function, FnImpl: fn, FnArgs: args}
}

// Sample draws one value from the domain using r.
func (d Domain) Sample(r *rng.RNG) any {
	switch d.Kind {
	case BitWidth:
		if d.Bits == 0 {
			return 0
		}
		maxVal := (int64(1) << uint(d.Bits)) - 1
		return r.IntRange(0, int(maxVal))
	case Enum:
		if len(d.Values) == 0 {
			return nil
		}
		return rng.Choice(r, d.Values)
	case Weighted:
		return d.sampleWeighted(r)
	case Function:
		return d.FnImpl(r, d.FnArgs)
	default:
		panic(fmt.Sprintf("domain: unknown kind %v", d.Kind))
	}
}

func (d Domain) sampleWeighted(r *rng.RNG) any {
	if len(d.Entries) == 0 {
		return nil
	}
	weights := make([]int64, len(d.Entries))
	for i, e := range d.Entries {
		weights[i] = e.Weight
	}
	idx := r.WeightedIntChoice(weights)
	if idx < 0 {
		return nil
	}
	entry := d.Entries[idx]
	if entry.IsRange {
		return r.IntRange(int(entry.Lo), int(entry.Hi))
	}
	return entry.Value
}

// Size reports the number of distinct values the domain can produce, or
// Infinite for Function domains (spec: "possibly infinite for Function").
func (d Domain) Size() int64 {
	switch d.Kind {
	case BitWidth:
		return int64(1) << uint(d.Bits)
	case Enum:
		return int64(len(d.Values))
	case Weighted:
		var total int64
		for _, e := range d.Entries {
			if e.IsRange {
				total += e.Hi - e.Lo + 1
			} else {
				total++
			}
		}
		return total
	case Function:
		return Infinite
	default:
		return 0
	}
}

// Enumerate produces up to limit distinct values from the domain without
// repetition. For finite domains with Size() <= limit it enumerates fully;
// for larger or infinite domains it samples candidates with r and filters
// duplicates, returning fewer than limit values if distinct draws run out.
func (d Domain) Enumerate(limit int, r *rng.RNG) []any {
	if limit <= 0 {
		return nil
	}

	switch d.Kind {
	case BitWidth:
		size := d.Size()
		if size <= int64(limit) {
			out := make([]any, 0, size)
			for i := int64(0); i < size; i++ {
				out = append(out, int(i))
			}
			return out
		}
		return d.sampleDistinct(limit, r)
	case Enum:
		if int64(len(d.Values)) <= int64(limit) {
			out := make([]any, len(d.Values))
			copy(out, d.Values)
			return out
		}
		return d.sampleDistinct(limit, r)
	case Weighted:
		size := d.Size()
		if size <= int64(limit) {
			return d.enumerateWeightedFully()
		}
		return d.sampleDistinct(limit, r)
	case Function:
		// Function domains have no stable enumeration; sample and accept
		// duplicates removed on a best-effort basis.
		return d.sampleDistinct(limit, r)
	default:
		return nil
	}
}

func (d Domain) enumerateWeightedFully() []any {
	out := make([]any, 0, d.Size())
	for _, e := range d.Entries {
		if e.IsRange {
			for v := e.Lo; v <= e.Hi; v++ {
				out = append(out, int(v))
			}
		} else {
			out = append(out, e.Value)
		}
	}
	return out
}

// sampleDistinct draws up to limit distinct samples from the domain,
// filtering duplicates by fmt.Sprint comparability. It gives up after a
// bounded number of extra attempts so it terminates even on domains with
// very few distinct values relative to limit.
func (d Domain) sampleDistinct(limit int, r *rng.RNG) []any {
	seen := make(map[string]bool, limit)
	out := make([]any, 0, limit)
	maxAttempts := limit * 10
	if maxAttempts < 32 {
		maxAttempts = 32
	}
	for attempt := 0; attempt < maxAttempts && len(out) < limit; attempt++ {
		v := d.Sample(r)
		key := fmt.Sprint(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}
