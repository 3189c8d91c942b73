package memory

import (
	"fmt"
	"io"
	"math/rand"
)

// A Storage is an in-memory backing store image.
//
// The storage manages the data in units of one page. For the units that are
// not touched by Read and Write, no memory will be allocated and they read as
// zero.
type Storage struct {
	unitSize uint64
	capacity uint64
	data     map[uint64][]byte
}

// NewStorage creates a storage object with the specified capacity
func NewStorage(capacity uint64) *Storage {
	storage := new(Storage)

	storage.unitSize = PageSize
	storage.capacity = capacity
	storage.data = make(map[uint64][]byte)

	return storage
}

// NewRandomStorage creates a full-size image filled with pseudo-random bytes.
// The same seed always produces the same image.
func NewRandomStorage(seed int64) *Storage {
	s := NewStorage(ImageSize)
	r := rand.New(rand.NewSource(seed))

	buf := make([]byte, ImageSize)
	r.Read(buf)

	err := s.Write(0, buf)
	if err != nil {
		panic(err)
	}

	return s
}

// Capacity returns the number of bytes that the storage can hold.
func (s *Storage) Capacity() uint64 {
	return s.capacity
}

// createOrGetStorageUnit retrieves a storage unit if the unit has been created
// before. Otherwise it initilizes a storage unit in the storage object
func (s *Storage) createOrGetStorageUnit(address uint64) ([]byte, error) {
	if address >= s.capacity {
		return nil, ErrBeyondCapacity
	}

	baseAddr, _ := s.parseAddress(address)
	unit, ok := s.data[baseAddr]
	if !ok {
		unit = make([]byte, s.unitSize)
		s.data[baseAddr] = unit
	}
	return unit, nil
}

func (s *Storage) parseAddress(addr uint64) (baseAddr, inUnitAddr uint64) {
	inUnitAddr = addr % s.unitSize
	baseAddr = addr - inUnitAddr
	return
}

// Read returns len bytes starting at address.
func (s *Storage) Read(address uint64, len uint64) ([]byte, error) {
	currAddr := address
	lenLeft := len
	dataOffset := uint64(0)
	res := make([]byte, len)

	for currAddr < address+len {
		unit, err := s.createOrGetStorageUnit(currAddr)
		if err != nil {
			return nil, err
		}

		baseAddr, inUnitAddr := s.parseAddress(currAddr)
		lenLeftInUnit := baseAddr + s.unitSize - currAddr
		lenToRead := min(lenLeft, lenLeftInUnit)

		copy(res[dataOffset:dataOffset+lenToRead],
			unit[inUnitAddr:inUnitAddr+lenToRead])
		lenLeft -= lenToRead
		dataOffset += lenToRead
		currAddr += lenToRead
	}

	return res, nil
}

// Write stores data starting at address.
func (s *Storage) Write(address uint64, data []byte) error {
	currAddr := address
	dataOffset := uint64(0)

	for dataOffset < uint64(len(data)) {
		unit, err := s.createOrGetStorageUnit(currAddr)
		if err != nil {
			return err
		}

		_, inUnitAddr := s.parseAddress(currAddr)
		lenLeftInData := uint64(len(data)) - dataOffset
		lenLeftInUnit := currAddr/s.unitSize*s.unitSize + s.unitSize - currAddr
		lenToWrite := min(lenLeftInData, lenLeftInUnit)

		copy(unit[inUnitAddr:inUnitAddr+lenToWrite],
			data[dataOffset:dataOffset+lenToWrite])
		dataOffset += lenToWrite
		currAddr += lenToWrite
	}

	return nil
}

// ReadPage returns a copy of a page, so that Storage can serve as a
// BackingStore.
func (s *Storage) ReadPage(page uint8) ([]byte, error) {
	offset := uint64(page) * PageSize
	if offset+PageSize > s.capacity {
		return nil, &StorageError{
			Page: int(page),
			Err: fmt.Errorf("%w: image has %d bytes, page ends at %d",
				ErrTruncatedImage, s.capacity, offset+PageSize),
		}
	}

	return s.Read(offset, PageSize)
}

// WriteTo writes the whole image, including untouched units, to w.
func (s *Storage) WriteTo(w io.Writer) (int64, error) {
	var written int64

	for addr := uint64(0); addr < s.capacity; addr += s.unitSize {
		n := min(s.unitSize, s.capacity-addr)

		unit, err := s.Read(addr, n)
		if err != nil {
			return written, err
		}

		m, err := w.Write(unit)
		written += int64(m)
		if err != nil {
			return written, err
		}
	}

	return written, nil
}

// GenerateImage writes a complete pseudo-random backing store image to w.
func GenerateImage(w io.Writer, seed int64) error {
	_, err := NewRandomStorage(seed).WriteTo(w)
	return err
}
