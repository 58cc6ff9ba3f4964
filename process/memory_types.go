package process

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ProcessMemoryAddress represents a virtual address within a process
type ProcessMemoryAddress uint64

func (pma ProcessMemoryAddress) ToString() string {
	return fmt.Sprintf("0x%X", uint64(pma))
}

// Offset returns the address as a file offset into the process memory pseudo-file.
// Addresses above math.MaxInt64 cannot be reached through a seekable file.
func (pma ProcessMemoryAddress) Offset() (int64, error) {
	if uint64(pma) > math.MaxInt64 {
		return 0, fmt.Errorf("%w: address %s is beyond the seekable range", ErrIO, pma.ToString())
	}
	return int64(pma), nil
}

// ProcessMemorySize represents a size of memory region
type ProcessMemorySize uint64

func (pms ProcessMemorySize) ToString() string {
	return fmt.Sprintf("%d bytes", uint64(pms))
}

// ParseAddress parses a hex address with a 0x prefix or a decimal address
func ParseAddress(s string) (ProcessMemoryAddress, error) {
	s = strings.TrimSpace(s)

	var v uint64
	var err error
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err = strconv.ParseUint(s[2:], 16, 64)
	} else {
		v, err = strconv.ParseUint(s, 10, 64)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return ProcessMemoryAddress(v), nil
}
