// Package tlb provides a fully associative translation lookaside buffer with
// first-in-first-out replacement.
package tlb

import (
	"github.com/sarchlab/vmsim/mem/vm/tlb/internal"
)

// A Mapping is a page-to-frame translation cached in the TLB.
type Mapping struct {
	Page       uint8
	Frame      int
	InsertedAt uint64
}

// TLB caches recently used page-to-frame mappings.
type TLB struct {
	name       string
	numEntries int

	Set internal.Set

	NumHits   uint64
	NumMisses uint64
}

// Name returns the name of the TLB.
func (t *TLB) Name() string {
	return t.name
}

// Capacity returns the maximum number of entries.
func (t *TLB) Capacity() int {
	return t.numEntries
}

// Lookup returns the frame of the page if the page is cached. A hit does not
// change the replacement order.
func (t *TLB) Lookup(page uint8) (frame int, hit bool) {
	_, block, found := t.Set.Lookup(page)
	if !found {
		t.NumMisses++
		return -1, false
	}

	t.NumHits++

	return block.Frame, true
}

// Insert caches the mapping. If the page is already cached, its frame is
// updated in place and it keeps its position. Otherwise, the oldest entry is
// evicted when the TLB is full.
func (t *TLB) Insert(page uint8, frame int, tick uint64) {
	wayID, _, found := t.Set.Lookup(page)
	if found {
		t.Set.Update(wayID, frame)
		return
	}

	if t.Set.Len() >= t.Set.Capacity() {
		t.Set.Evict()
	}

	t.Set.AddEntry(page, frame, tick)
}

// Purge removes the entry of the page, if any. It reports whether an entry
// was removed.
func (t *TLB) Purge(page uint8) bool {
	return t.Set.Remove(page)
}

// Entries returns the cached entries, oldest first.
func (t *TLB) Entries() []Mapping {
	blocks := t.Set.Blocks()

	entries := make([]Mapping, 0, len(blocks))
	for _, b := range blocks {
		entries = append(entries, Mapping{
			Page:       b.Page,
			Frame:      b.Frame,
			InsertedAt: b.InsertedAt,
		})
	}

	return entries
}

// Len returns the number of cached entries.
func (t *TLB) Len() int {
	return t.Set.Len()
}

// Reset drops all the entries and clears the counters.
func (t *TLB) Reset() {
	t.Set = internal.NewSet(t.numEntries)
	t.NumHits = 0
	t.NumMisses = 0
}
