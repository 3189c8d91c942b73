package vm

import (
	"fmt"

	"github.com/sarchlab/vmsim/sim"
)

// A Page is an entry in the page table, maintaining the information about how
// to translate a page number to a frame number.
type Page struct {
	Number   uint8
	Valid    bool
	Frame    int
	LastUsed uint64
	Loaded   uint64
}

// A PageTable maps every page number to a frame. Lookups always succeed; the
// caller checks Valid.
type PageTable interface {
	sim.Named

	// Lookup returns the entry of the page.
	Lookup(page uint8) Page

	// Install marks the page valid and resident in the frame.
	Install(page uint8, frame int, tick uint64)

	// Invalidate marks the page as no longer resident.
	Invalidate(page uint8)

	// Touch records that the page is referenced at tick.
	Touch(page uint8, tick uint64)

	// Pages returns a copy of all the entries, ordered by page number.
	Pages() []Page

	// NumValid returns the number of valid entries.
	NumValid() int
}

// NewPageTable creates a new PageTable with all the entries invalid.
func NewPageTable(name string) PageTable {
	pt := &pageTableImpl{name: name}

	for i := range pt.entries {
		pt.entries[i] = Page{Number: uint8(i), Frame: -1}
	}

	return pt
}

// pageTableImpl is the default implementation of a Page Table
type pageTableImpl struct {
	name     string
	entries  [NumPages]Page
	numValid int
}

func (pt *pageTableImpl) Name() string {
	return pt.name
}

func (pt *pageTableImpl) Lookup(page uint8) Page {
	return pt.entries[page]
}

func (pt *pageTableImpl) Install(page uint8, frame int, tick uint64) {
	pt.pageMustNotBeValid(page)

	if frame < 0 {
		panic(fmt.Sprintf("installing page %d into invalid frame %d",
			page, frame))
	}

	e := &pt.entries[page]
	e.Valid = true
	e.Frame = frame
	e.Loaded = tick
	e.LastUsed = tick
	pt.numValid++
}

func (pt *pageTableImpl) Invalidate(page uint8) {
	pt.pageMustBeValid(page)

	pt.entries[page] = Page{Number: page, Frame: -1}
	pt.numValid--
}

func (pt *pageTableImpl) Touch(page uint8, tick uint64) {
	pt.pageMustBeValid(page)

	pt.entries[page].LastUsed = tick
}

func (pt *pageTableImpl) Pages() []Page {
	pages := make([]Page, NumPages)
	copy(pages, pt.entries[:])

	return pages
}

func (pt *pageTableImpl) NumValid() int {
	return pt.numValid
}

func (pt *pageTableImpl) pageMustBeValid(page uint8) {
	if !pt.entries[page].Valid {
		panic(fmt.Sprintf("page %d is not valid", page))
	}
}

func (pt *pageTableImpl) pageMustNotBeValid(page uint8) {
	if pt.entries[page].Valid {
		panic(fmt.Sprintf("page %d is already valid", page))
	}
}
