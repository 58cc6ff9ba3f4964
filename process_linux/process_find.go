//go:build linux

package process_linux

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"procmem/process"

	"github.com/prometheus/procfs"
)

// LinuxProcessFinder implements the process.ProcessFinder interface on top of procfs
type LinuxProcessFinder struct {
	mountPoint string
}

// NewProcessFinder creates a new LinuxProcessFinder reading /proc
func NewProcessFinder() process.ProcessFinder {
	return NewProcessFinderAt(procfs.DefaultMountPoint)
}

// NewProcessFinderAt creates a LinuxProcessFinder reading a proc filesystem mounted at mountPoint
func NewProcessFinderAt(mountPoint string) *LinuxProcessFinder {
	return &LinuxProcessFinder{mountPoint: mountPoint}
}

func (f *LinuxProcessFinder) fs() (procfs.FS, error) {
	pfs, err := procfs.NewFS(f.mountPoint)
	if err != nil {
		return procfs.FS{}, fmt.Errorf("%w: open proc filesystem %s: %w", process.ErrIO, f.mountPoint, err)
	}
	return pfs, nil
}

func (f *LinuxProcessFinder) proc(pid process.ProcessID) (procfs.Proc, error) {
	pfs, err := f.fs()
	if err != nil {
		return procfs.Proc{}, err
	}

	p, err := pfs.Proc(int(pid))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return procfs.Proc{}, fmt.Errorf("%w: process with PID %d does not exist", process.ErrProcessNotFound, pid)
		}
		return procfs.Proc{}, fmt.Errorf("%w: pid %d: %w", process.ErrIO, pid, err)
	}
	return p, nil
}

// FindProcessByPID finds a process by its PID
func (f *LinuxProcessFinder) FindProcessByPID(pid process.ProcessID) (*process.ProcessInfo, error) {
	p, err := f.proc(pid)
	if err != nil {
		return nil, err
	}
	return getProcessInfo(p)
}

// FindProcessByName finds processes whose comm or executable basename equals name.
// The match is case-sensitive, like pidof.
func (f *LinuxProcessFinder) FindProcessByName(name string) ([]process.ProcessInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty process name", process.ErrProcessNotFound)
	}

	pfs, err := f.fs()
	if err != nil {
		return nil, err
	}

	procs, err := pfs.AllProcs()
	if err != nil {
		return nil, fmt.Errorf("%w: list processes: %w", process.ErrIO, err)
	}

	var results []process.ProcessInfo
	for _, p := range procs {
		info, err := getProcessInfo(p)
		if err != nil {
			// Process may have terminated while we were reading
			continue
		}

		if info.Name == name || (info.Exe != "" && filepath.Base(info.Exe) == name) {
			results = append(results, *info)
		}
	}

	return results, nil
}

// CommandLine returns the command line arguments of a process
func (f *LinuxProcessFinder) CommandLine(pid process.ProcessID) ([]string, error) {
	p, err := f.proc(pid)
	if err != nil {
		return nil, err
	}

	args, err := p.CmdLine()
	if err != nil {
		return nil, fmt.Errorf("%w: read command line of pid %d: %w", process.ErrIO, pid, err)
	}
	return args, nil
}

// Helper function to get process information
func getProcessInfo(p procfs.Proc) (*process.ProcessInfo, error) {
	name, err := p.Comm()
	if err != nil {
		return nil, fmt.Errorf("failed to read process name: %w", err)
	}

	// Kernel threads and zombies have no executable
	exe, err := p.Executable()
	if err != nil {
		exe = ""
	}

	cmdline, err := p.CmdLine()
	if err != nil {
		return nil, fmt.Errorf("failed to read process cmdline: %w", err)
	}

	return &process.ProcessInfo{
		PID:     process.ProcessID(p.PID),
		Name:    name,
		Exe:     exe,
		Cmdline: cmdline,
	}, nil
}
