package physmem

// A Lookahead knows the full reference stream of the run.
type Lookahead interface {
	// NextUse returns the position of the first reference to page that comes
	// after position tick. The bool is false if the page is never referenced
	// again.
	NextUse(page uint8, tick uint64) (uint64, bool)
}

// A VictimFinder decides which frame should be evicted. It is only consulted
// when every frame is occupied.
type VictimFinder interface {
	FindVictim(frames []Frame, tick uint64) int
}

// NewVictimFinder returns the victim finder that implements the policy. OPT
// requires a lookahead.
func NewVictimFinder(policy Policy, lookahead Lookahead) VictimFinder {
	switch policy {
	case FIFO:
		return NewFIFOVictimFinder()
	case LRU:
		return NewLRUVictimFinder()
	case OPT:
		return NewOPTVictimFinder(lookahead)
	default:
		panic("unknown policy " + policy.String())
	}
}

// FIFOVictimFinder evicts the frame that has held its page the longest.
type FIFOVictimFinder struct {
}

// NewFIFOVictimFinder returns a newly constructed FIFO evictor.
func NewFIFOVictimFinder() *FIFOVictimFinder {
	return &FIFOVictimFinder{}
}

// FindVictim returns the frame with the earliest insertion.
func (e *FIFOVictimFinder) FindVictim(frames []Frame, _ uint64) int {
	victim := -1
	for i := range frames {
		if !frames[i].Occupied {
			continue
		}

		if victim < 0 || frames[i].InsertedAt < frames[victim].InsertedAt {
			victim = i
		}
	}

	return victim
}

// LRUVictimFinder evicts the least recently used frame.
type LRUVictimFinder struct {
}

// NewLRUVictimFinder returns a newly constructed lru evictor
func NewLRUVictimFinder() *LRUVictimFinder {
	return &LRUVictimFinder{}
}

// FindVictim returns the frame with the oldest access. Ties go to the lowest
// frame index.
func (e *LRUVictimFinder) FindVictim(frames []Frame, _ uint64) int {
	victim := -1
	for i := range frames {
		if !frames[i].Occupied {
			continue
		}

		if victim < 0 || frames[i].LastAccess < frames[victim].LastAccess {
			victim = i
		}
	}

	return victim
}

// OPTVictimFinder evicts the frame whose page is needed furthest in the
// future. It needs the whole reference stream, so it can only be used in
// simulation.
type OPTVictimFinder struct {
	lookahead Lookahead
}

// NewOPTVictimFinder returns a newly constructed optimal evictor.
func NewOPTVictimFinder(lookahead Lookahead) *OPTVictimFinder {
	if lookahead == nil {
		panic("OPT replacement requires a lookahead")
	}

	return &OPTVictimFinder{lookahead: lookahead}
}

// FindVictim returns the first frame whose page is never referenced again,
// or else the frame whose next reference is the latest.
func (e *OPTVictimFinder) FindVictim(frames []Frame, tick uint64) int {
	victim := -1
	var victimNextUse uint64

	for i := range frames {
		if !frames[i].Occupied {
			continue
		}

		nextUse, ok := e.lookahead.NextUse(frames[i].Page, tick)
		if !ok {
			return i
		}

		if victim < 0 || nextUse > victimNextUse {
			victim = i
			victimNextUse = nextUse
		}
	}

	return victim
}
