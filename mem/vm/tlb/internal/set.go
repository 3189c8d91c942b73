// Package internal provides the definition required for defining TLB.
package internal

import "fmt"

// A Block is one way of the set. It holds a single page-to-frame mapping.
type Block struct {
	WayID      int
	Page       uint8
	Frame      int
	InsertedAt uint64
	IsValid    bool
}

// A Set holds a certain number of blocks and keeps them in insertion order.
// Hits never change the order.
type Set interface {
	Lookup(page uint8) (wayID int, block Block, found bool)
	Update(wayID int, frame int)
	AddEntry(page uint8, frame int, tick uint64) (wayID int)
	Evict() (block Block, ok bool)
	Remove(page uint8) bool
	Blocks() []Block
	Len() int
	Capacity() int
}

// NewSet creates a new TLB set.
func NewSet(numWays int) Set {
	if numWays <= 0 {
		panic(fmt.Sprintf("number of ways must be positive, got %d", numWays))
	}

	s := &setImpl{}
	s.blocks = make([]*Block, numWays)
	s.queue = make([]*Block, 0, numWays)
	s.pageWayIDMap = make(map[uint8]int)

	for i := range s.blocks {
		s.blocks[i] = &Block{WayID: i}
	}

	return s
}

type setImpl struct {
	blocks       []*Block
	pageWayIDMap map[uint8]int
	queue        []*Block
}

func (s *setImpl) Lookup(page uint8) (wayID int, block Block, found bool) {
	wayID, ok := s.pageWayIDMap[page]
	if !ok {
		return 0, Block{}, false
	}

	return wayID, *s.blocks[wayID], true
}

func (s *setImpl) Update(wayID int, frame int) {
	block := s.blocks[wayID]
	if !block.IsValid {
		panic(fmt.Sprintf("updating invalid way %d", wayID))
	}

	block.Frame = frame
}

func (s *setImpl) AddEntry(page uint8, frame int, tick uint64) int {
	if _, exists := s.pageWayIDMap[page]; exists {
		panic(fmt.Sprintf("page %d is already in the set", page))
	}

	block := s.findFreeBlock()
	if block == nil {
		panic("adding entry to a full set")
	}

	block.Page = page
	block.Frame = frame
	block.InsertedAt = tick
	block.IsValid = true

	s.pageWayIDMap[page] = block.WayID
	s.queue = append(s.queue, block)

	return block.WayID
}

func (s *setImpl) findFreeBlock() *Block {
	for _, b := range s.blocks {
		if !b.IsValid {
			return b
		}
	}

	return nil
}

func (s *setImpl) Evict() (Block, bool) {
	if len(s.queue) == 0 {
		return Block{}, false
	}

	oldest := s.queue[0]
	s.queue = s.queue[1:]

	evicted := *oldest
	s.invalidate(oldest)

	return evicted, true
}

func (s *setImpl) Remove(page uint8) bool {
	wayID, ok := s.pageWayIDMap[page]
	if !ok {
		return false
	}

	block := s.blocks[wayID]
	for i, b := range s.queue {
		if b == block {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			break
		}
	}

	s.invalidate(block)

	return true
}

func (s *setImpl) invalidate(block *Block) {
	delete(s.pageWayIDMap, block.Page)
	block.IsValid = false
	block.Page = 0
	block.Frame = 0
	block.InsertedAt = 0
}

// Blocks returns the valid blocks, oldest first.
func (s *setImpl) Blocks() []Block {
	blocks := make([]Block, 0, len(s.queue))
	for _, b := range s.queue {
		blocks = append(blocks, *b)
	}

	return blocks
}

func (s *setImpl) Len() int {
	return len(s.queue)
}

func (s *setImpl) Capacity() int {
	return len(s.blocks)
}
