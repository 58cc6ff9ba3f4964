package process

import "io"

// Process is a read-only handle on the raw memory of a running process.
// ReadAt takes absolute virtual addresses as offsets.
type Process interface {
	io.ReaderAt
	io.Closer

	// Open opens a process with the given PID for memory reads
	Open(pid ProcessID) error

	// GetPID returns the process ID
	GetPID() ProcessID

	// ReadMemory reads size bytes of process memory at addr
	ReadMemory(addr ProcessMemoryAddress, size ProcessMemorySize) ([]byte, error)
}
