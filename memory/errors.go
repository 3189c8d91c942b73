package memory

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncatedImage means the image ends before the requested page.
	ErrTruncatedImage = errors.New("backing store image is truncated")

	// ErrBeyondCapacity means an access falls outside of a Storage.
	ErrBeyondCapacity = errors.New(
		"accessing address beyond the storage capacity")
)

// StorageError reports a failure to read from the backing store. Page is -1
// when the failure is not tied to a page, for example when opening the file.
type StorageError struct {
	Page int
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	where := e.Path
	if where == "" {
		where = "backing store"
	}

	if e.Page < 0 {
		return fmt.Sprintf("%s: %v", where, e.Err)
	}

	return fmt.Sprintf("%s: page %d: %v", where, e.Page, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
