// Package physmem models the physical memory as a fixed number of frames and
// the replacement policies that decide which frame to reuse.
package physmem

import (
	"fmt"

	"github.com/sarchlab/vmsim/mem/vm"
	"github.com/sarchlab/vmsim/memory"
)

// FrameStore owns the physical frames.
type FrameStore struct {
	name         string
	policy       Policy
	frames       []Frame
	backingStore memory.BackingStore
	victimFinder VictimFinder

	NumLoads     uint64
	NumEvictions uint64
}

// Name returns the name of the frame store.
func (s *FrameStore) Name() string {
	return s.name
}

// Policy returns the replacement policy in use.
func (s *FrameStore) Policy() Policy {
	return s.policy
}

// NumFrames returns the number of frames.
func (s *FrameStore) NumFrames() int {
	return len(s.frames)
}

// NumOccupied returns the number of frames that hold a page.
func (s *FrameStore) NumOccupied() int {
	n := 0
	for i := range s.frames {
		if s.frames[i].Occupied {
			n++
		}
	}

	return n
}

// AllocateOrEvict loads the page from the backing store into a frame. An
// empty frame is used if there is one. Otherwise, the victim finder picks an
// occupied frame and the caller is told which page was evicted. Nothing
// changes if the backing store cannot provide the page.
func (s *FrameStore) AllocateOrEvict(page uint8, tick uint64) (Allocation, error) {
	alloc := Allocation{Frame: s.firstEmptyFrame()}

	if alloc.Frame < 0 {
		alloc.Frame = s.victimFinder.FindVictim(s.frames, tick)
		s.victimMustBeOccupied(alloc.Frame)

		alloc.Evicted = true
		alloc.Victim = s.frames[alloc.Frame].Page
	}

	data, err := s.backingStore.ReadPage(page)
	if err != nil {
		return Allocation{}, err
	}

	if len(data) != vm.PageSize {
		return Allocation{}, &memory.StorageError{
			Page: int(page),
			Err: fmt.Errorf("%w: got %d bytes",
				memory.ErrTruncatedImage, len(data)),
		}
	}

	f := &s.frames[alloc.Frame]
	f.Occupied = true
	f.Page = page
	copy(f.Data[:], data)
	f.InsertedAt = tick
	f.LastAccess = tick

	s.NumLoads++
	if alloc.Evicted {
		s.NumEvictions++
	}

	return alloc, nil
}

func (s *FrameStore) firstEmptyFrame() int {
	for i := range s.frames {
		if !s.frames[i].Occupied {
			return i
		}
	}

	return -1
}

func (s *FrameStore) victimMustBeOccupied(frame int) {
	if frame < 0 || frame >= len(s.frames) || !s.frames[frame].Occupied {
		panic(fmt.Sprintf("victim finder selected invalid frame %d", frame))
	}
}

// Touch records a reference to the page held in the frame.
func (s *FrameStore) Touch(frame int, tick uint64) {
	s.frameMustBeOccupied(frame)

	s.frames[frame].LastAccess = tick
}

// Read returns the byte at offset within the frame as a signed value.
func (s *FrameStore) Read(frame int, offset uint8) int8 {
	s.frameMustBeOccupied(frame)

	return int8(s.frames[frame].Data[offset])
}

// Frame returns a copy of the frame.
func (s *FrameStore) Frame(frame int) Frame {
	return s.frames[frame]
}

// Frames returns a copy of all the frames.
func (s *FrameStore) Frames() []Frame {
	frames := make([]Frame, len(s.frames))
	copy(frames, s.frames)

	return frames
}

func (s *FrameStore) frameMustBeOccupied(frame int) {
	if !s.frames[frame].Occupied {
		panic(fmt.Sprintf("frame %d is empty", frame))
	}
}
