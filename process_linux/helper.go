//go:build linux

package process_linux

import (
	"procmem/process"
)

// LinuxProcessHelper opens processes by name or PID
type LinuxProcessHelper struct {
	Finder  process.ProcessFinder
	Backend Backend
}

// NewHelper creates a new LinuxProcessHelper
func NewHelper(backend Backend) *LinuxProcessHelper {
	return &LinuxProcessHelper{
		Finder:  NewProcessFinder(),
		Backend: backend,
	}
}

// NewWithPID creates a new Process instance and opens it with the given PID
func (h *LinuxProcessHelper) NewWithPID(pid process.ProcessID) (process.Process, error) {
	return NewWithPID(pid, h.Backend)
}

// OpenProcessByName opens a process by its name (lowest PID wins)
func (h *LinuxProcessHelper) OpenProcessByName(name string) (process.Process, error) {
	pid, err := FindProcess(h.Finder, name)
	if err != nil {
		return nil, err
	}
	return NewWithPID(pid, h.Backend)
}

// Resolve returns the PID for a numeric PID or process name
func (h *LinuxProcessHelper) Resolve(target string) (process.ProcessID, error) {
	return ResolvePID(h.Finder, target)
}
