package physmem

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPolicy is returned when a replacement policy name is not
// recognized.
var ErrUnknownPolicy = errors.New("unknown replacement policy")

// Policy selects how a victim frame is chosen when physical memory is full.
type Policy int

// The supported replacement policies.
const (
	FIFO Policy = iota
	LRU
	OPT
)

func (p Policy) String() string {
	switch p {
	case FIFO:
		return "FIFO"
	case LRU:
		return "LRU"
	case OPT:
		return "OPT"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy converts a policy name to a Policy. Names are case-insensitive.
// An empty name selects FIFO.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "fifo":
		return FIFO, nil
	case "lru":
		return LRU, nil
	case "opt":
		return OPT, nil
	default:
		return FIFO, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}
