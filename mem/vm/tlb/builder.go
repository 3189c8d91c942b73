package tlb

import "fmt"

// DefaultNumEntries is the number of entries of a TLB built with the default
// configuration.
const DefaultNumEntries = 16

// A Builder can build TLBs
type Builder struct {
	numEntries int
}

// MakeBuilder returns a Builder
func MakeBuilder() Builder {
	return Builder{
		numEntries: DefaultNumEntries,
	}
}

// WithNumEntries sets the number of entries in the TLB.
func (b Builder) WithNumEntries(n int) Builder {
	b.numEntries = n
	return b
}

// Build creates a new TLB
func (b Builder) Build(name string) *TLB {
	if b.numEntries <= 0 {
		panic(fmt.Sprintf("TLB must have at least one entry, got %d",
			b.numEntries))
	}

	t := &TLB{
		name:       name,
		numEntries: b.numEntries,
	}
	t.Reset()

	return t
}
