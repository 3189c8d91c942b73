// Package trace reads and writes the logical address streams that drive a
// simulation.
package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/vmsim/mem/vm"
)

// Read parses one decimal address per line, so that the i-th line is the
// i-th translation. Surrounding whitespace is trimmed. Blank lines are only
// allowed after the last address. A single bad line rejects the whole
// stream.
func Read(r io.Reader) ([]vm.LogicalAddress, error) {
	var addrs []vm.LogicalAddress

	scanner := bufio.NewScanner(r)
	lineNo := 0
	firstBlank := 0
	for scanner.Scan() {
		lineNo++

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			if firstBlank == 0 {
				firstBlank = lineNo
			}

			continue
		}

		if firstBlank != 0 {
			return nil, &InputError{Line: firstBlank, Err: ErrMalformedAddress}
		}

		addr, err := parseAddress(text)
		if err != nil {
			return nil, &InputError{Line: lineNo, Text: text, Err: err}
		}

		addrs = append(addrs, addr)
	}

	err := scanner.Err()
	if errors.Is(err, bufio.ErrTooLong) {
		return nil, &InputError{
			Line: lineNo + 1,
			Err:  fmt.Errorf("%w: %w", ErrMalformedAddress, err),
		}
	}

	if err != nil {
		return nil, fmt.Errorf("reading addresses: %w", err)
	}

	return addrs, nil
}

func parseAddress(text string) (vm.LogicalAddress, error) {
	digits := strings.TrimPrefix(text, "+")
	negative := false
	if strings.HasPrefix(digits, "-") {
		digits = digits[1:]
		negative = true
	}

	v, err := strconv.ParseUint(digits, 10, 32)
	switch {
	case errors.Is(err, strconv.ErrRange):
		return 0, ErrAddressOutOfRange
	case err != nil:
		return 0, ErrMalformedAddress
	case negative && v != 0:
		return 0, ErrAddressOutOfRange
	}

	return vm.LogicalAddress(v), nil
}

// ReadFile reads the address list stored at path.
func ReadFile(path string) ([]vm.LogicalAddress, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	addrs, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return addrs, nil
}

// Write writes the addresses in the format that Read accepts.
func Write(w io.Writer, addrs []vm.LogicalAddress) error {
	bw := bufio.NewWriter(w)

	for _, a := range addrs {
		_, err := fmt.Fprintf(bw, "%d\n", a)
		if err != nil {
			return err
		}
	}

	return bw.Flush()
}

// FromReferences turns a page reference string into addresses. The i-th
// reference gets offset i mod 256, so that repeated pages still produce
// distinct addresses.
func FromReferences(pages []uint8) []vm.LogicalAddress {
	addrs := make([]vm.LogicalAddress, len(pages))
	for i, p := range pages {
		addrs[i] = vm.LogicalAddress(p)<<vm.Log2PageSize |
			vm.LogicalAddress(i%vm.PageSize)
	}

	return addrs
}
