package trace

import (
	"sort"

	"github.com/sarchlab/vmsim/mem/vm"
)

// Lookahead indexes where each page is referenced in an address stream.
type Lookahead struct {
	positions [vm.NumPages][]uint64
}

// NewLookahead indexes the stream. Position i is the i-th address.
func NewLookahead(addrs []vm.LogicalAddress) *Lookahead {
	l := &Lookahead{}
	for i, a := range addrs {
		p := vm.PageOf(a)
		l.positions[p] = append(l.positions[p], uint64(i))
	}

	return l
}

// NextUse returns the first position after tick at which the page is
// referenced.
func (l *Lookahead) NextUse(page uint8, tick uint64) (uint64, bool) {
	positions := l.positions[page]

	i := sort.Search(len(positions), func(i int) bool {
		return positions[i] > tick
	})
	if i == len(positions) {
		return 0, false
	}

	return positions[i], true
}

// NumReferences returns how many times the page appears in the stream.
func (l *Lookahead) NumReferences(page uint8) int {
	return len(l.positions[page])
}
