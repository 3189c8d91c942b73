// Package vm defines the logical address layout and the page table.
package vm

// A LogicalAddress is an address issued by the simulated process. Only the
// low 16 bits take part in translation: bits 8-15 select the page and bits
// 0-7 the offset within the page.
type LogicalAddress uint32

const (
	// Log2PageSize is the number of offset bits.
	Log2PageSize = 8

	// PageSize is the number of bytes in a page and in a frame.
	PageSize = 1 << Log2PageSize

	// NumPages is the number of pages that a logical address can name.
	NumPages = 256
)

// PageOf returns the page number of the address.
func PageOf(addr LogicalAddress) uint8 {
	return uint8((addr >> Log2PageSize) & 0xFF)
}

// OffsetOf returns the offset of the address within its page.
func OffsetOf(addr LogicalAddress) uint8 {
	return uint8(addr & 0xFF)
}

// Decompose splits the address into its page number and offset.
func Decompose(addr LogicalAddress) (page, offset uint8) {
	return PageOf(addr), OffsetOf(addr)
}

// PhysicalAddress returns the physical address of offset in frame.
func PhysicalAddress(frame int, offset uint8) uint32 {
	return uint32(frame)<<Log2PageSize | uint32(offset)
}
