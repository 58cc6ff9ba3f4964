//go:build linux

package process_linux

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"procmem/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// Backend selects how a LinuxProcess reads remote memory
type Backend int

const (
	// BackendProcMem reads through the seekable /proc/[pid]/mem pseudo-file
	BackendProcMem Backend = iota
	// BackendVMReadv reads with the process_vm_readv syscall
	BackendVMReadv
)

func (b Backend) String() string {
	switch b {
	case BackendProcMem:
		return "mem"
	case BackendVMReadv:
		return "vmreadv"
	default:
		return fmt.Sprintf("backend(%d)", int(b))
	}
}

// ParseBackend converts a backend name ("mem" or "vmreadv") to a Backend
func ParseBackend(name string) (Backend, error) {
	switch name {
	case "", "mem":
		return BackendProcMem, nil
	case "vmreadv":
		return BackendVMReadv, nil
	}
	return 0, fmt.Errorf("unknown memory backend %q", name)
}

// LinuxProcess implements the process.Process interface for Linux systems
type LinuxProcess struct {
	pid     process.ProcessID
	backend Backend
	log     *logger.Logger
	mem     *os.File
	mu      sync.Mutex
}

// New creates a new LinuxProcess instance reading memory through backend
func New(backend Backend) process.Process {
	return &LinuxProcess{
		backend: backend,
		log:     logger.NewLogger(coloransi.Color(coloransi.Red, coloransi.ColorOrange, "process-not-open")),
	}
}

// NewWithPID creates a new LinuxProcess instance and opens it with the given PID
func NewWithPID(pid process.ProcessID, backend Backend) (process.Process, error) {
	p := New(backend)
	if err := p.Open(pid); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *LinuxProcess) Open(pid process.ProcessID) error {
	if pid <= 0 || !procExists(int(pid)) {
		return fmt.Errorf("%w: process with PID %d does not exist", process.ErrProcessNotFound, pid)
	}

	var mem *os.File
	if p.backend == BackendProcMem {
		f, err := os.Open(MemPath(pid))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("%w: pid %d: %w", process.ErrProcessNotFound, pid, err)
			}
			return fmt.Errorf("%w: open process memory: %w", process.ErrIO, err)
		}
		mem = f
	}

	p.mu.Lock()
	if p.mem != nil {
		p.mem.Close()
	}
	p.pid = pid
	p.mem = mem
	p.log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("process-%d", pid)))
	p.mu.Unlock()

	p.log.Debugln("Process opened, backend", p.backend)

	return nil
}

func (p *LinuxProcess) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pid == 0 {
		return nil
	}

	var err error
	if p.mem != nil {
		if cerr := p.mem.Close(); cerr != nil {
			err = fmt.Errorf("%w: close process memory: %w", process.ErrIO, cerr)
		}
	}

	// Reset process state
	p.pid = 0
	p.mem = nil

	p.log.Debugln("Process closed")
	p.log = logger.NewLogger(coloransi.Color(coloransi.Red, coloransi.ColorOrange, "process-not-open"))

	return err
}

// GetPID returns the process ID
func (p *LinuxProcess) GetPID() process.ProcessID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pid
}

// Backend returns the memory backend in use
func (p *LinuxProcess) Backend() Backend {
	return p.backend
}

// ReadAt reads len(buf) bytes of process memory starting at the virtual address off.
// Like any io.ReaderAt it returns a non-nil error whenever fewer bytes were read.
func (p *LinuxProcess) ReadAt(buf []byte, off int64) (int, error) {
	p.mu.Lock()
	pid, mem := p.pid, p.mem
	p.mu.Unlock()

	if pid == 0 {
		return 0, process.ErrProcessNotOpen
	}

	if off < 0 {
		return 0, fmt.Errorf("negative address %d", off)
	}

	switch p.backend {
	case BackendVMReadv:
		return process_vm_readv(pid, buf, process.ProcessMemoryAddress(off))
	default:
		return readProcMem(mem, buf, off)
	}
}

// ReadMemory reads memory from the process at the specified address
func (p *LinuxProcess) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	off, err := addr.Offset()
	if err != nil {
		return nil, err
	}

	data := make([]byte, size)
	n, err := p.ReadAt(data, off)
	if err != nil {
		if errors.Is(err, process.ErrProcessNotOpen) {
			return nil, err
		}
		return data[:n], fmt.Errorf("%w: failed to read %s at %s: %w", process.ErrIO, size.ToString(), addr.ToString(), err)
	}

	return data, nil
}

// MemPath returns the path of the raw memory pseudo-file of a process
func MemPath(pid process.ProcessID) string {
	return fmt.Sprintf("/proc/%d/mem", pid)
}
