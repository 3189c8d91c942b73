package physmem

import (
	"fmt"

	"github.com/sarchlab/vmsim/mem/vm"
	"github.com/sarchlab/vmsim/memory"
)

// A Builder can build frame stores.
type Builder struct {
	numFrames    int
	policy       Policy
	lookahead    Lookahead
	victimFinder VictimFinder
	backingStore memory.BackingStore
}

// MakeBuilder creates a builder with 256 frames and FIFO replacement.
func MakeBuilder() Builder {
	return Builder{
		numFrames: vm.NumPages,
		policy:    FIFO,
	}
}

// WithNumFrames sets the number of physical frames.
func (b Builder) WithNumFrames(n int) Builder {
	b.numFrames = n
	return b
}

// WithPolicy sets the replacement policy.
func (b Builder) WithPolicy(p Policy) Builder {
	b.policy = p
	return b
}

// WithLookahead sets the reference stream that OPT replacement consults.
func (b Builder) WithLookahead(l Lookahead) Builder {
	b.lookahead = l
	return b
}

// WithVictimFinder overrides the victim finder derived from the policy.
func (b Builder) WithVictimFinder(v VictimFinder) Builder {
	b.victimFinder = v
	return b
}

// WithBackingStore sets where the pages are loaded from.
func (b Builder) WithBackingStore(s memory.BackingStore) Builder {
	b.backingStore = s
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.numFrames < 1 || b.numFrames > vm.NumPages {
		panic(fmt.Sprintf("number of frames must be in [1, %d], got %d",
			vm.NumPages, b.numFrames))
	}

	if b.backingStore == nil {
		panic("backing store is not set")
	}

	if b.victimFinder == nil && b.policy == OPT && b.lookahead == nil {
		panic("OPT replacement requires a lookahead")
	}
}

// Build creates the frame store with every frame empty.
func (b Builder) Build(name string) *FrameStore {
	b.parametersMustBeValid()

	victimFinder := b.victimFinder
	if victimFinder == nil {
		victimFinder = NewVictimFinder(b.policy, b.lookahead)
	}

	return &FrameStore{
		name:         name,
		policy:       b.policy,
		frames:       make([]Frame, b.numFrames),
		backingStore: b.backingStore,
		victimFinder: victimFinder,
	}
}
