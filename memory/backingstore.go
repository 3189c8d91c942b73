// Package memory provides the secondary storage that pages are loaded from.
package memory

import (
	"fmt"
	"io"
	"os"
)

// PageSize is the number of bytes in one page of the backing store.
const PageSize = 256

// ImageSize is the size of a complete backing store image.
const ImageSize = 256 * PageSize

// A BackingStore keeps the full contents of every page. It is only read when
// a page is not resident in physical memory.
type BackingStore interface {
	// ReadPage returns a copy of the bytes of the given page.
	ReadPage(page uint8) ([]byte, error)
}

// FileStore is a BackingStore over a binary image file. The file is opened
// once and stays open until Close is called.
type FileStore struct {
	path string
	file *os.File
	size int64
}

// Open opens the backing store image at path.
func Open(path string) (*FileStore, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &StorageError{Page: -1, Path: path, Err: err}
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, &StorageError{Page: -1, Path: path, Err: err}
	}

	s := &FileStore{
		path: path,
		file: file,
		size: info.Size(),
	}

	return s, nil
}

// Path returns the path of the image file.
func (s *FileStore) Path() string {
	return s.path
}

// Size returns the size of the image in bytes.
func (s *FileStore) Size() int64 {
	return s.size
}

// ReadPage reads the page at offset page*PageSize. It fails if the image is
// shorter than the end of the page.
func (s *FileStore) ReadPage(page uint8) ([]byte, error) {
	offset := int64(page) * PageSize
	if offset+PageSize > s.size {
		return nil, &StorageError{
			Page: int(page),
			Path: s.path,
			Err: fmt.Errorf("%w: image has %d bytes, page ends at %d",
				ErrTruncatedImage, s.size, offset+PageSize),
		}
	}

	buf := make([]byte, PageSize)
	_, err := s.file.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return nil, &StorageError{Page: int(page), Path: s.path, Err: err}
	}

	return buf, nil
}

// Close releases the image file.
func (s *FileStore) Close() error {
	return s.file.Close()
}
