//go:build linux

package memory_map

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"procmem/process"
)

// MapsPath returns the path of the mapping listing of a process
func MapsPath(pid int) string {
	return fmt.Sprintf("/proc/%d/maps", pid)
}

// ReadMemoryMap reads and parses the memory map for a process from /proc/[pid]/maps
func ReadMemoryMap(pid int) ([]Mapping, error) {
	file, err := os.Open(MapsPath(pid))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: pid %d: %w", process.ErrProcessNotFound, pid, err)
		}
		return nil, fmt.Errorf("%w: open mapping listing: %w", process.ErrIO, err)
	}
	defer file.Close()

	mm, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("pid %d: %w", pid, err)
	}
	return mm, nil
}
