//go:build linux

package process_linux

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"procmem/process"

	"golang.org/x/sys/unix"
)

func procExists(pid int) bool {
	// Fast path: stat /proc/<pid>
	_, err := os.Stat(filepath.Join("/proc", strconv.Itoa(pid)))
	if err == nil {
		return true
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}
	// For transient errors (permission, EIO): fall back to kill 0
	return unix.Kill(pid, 0) == nil
}

// FindProcess returns the lowest PID whose comm or executable basename equals name
func FindProcess(finder process.ProcessFinder, name string) (process.ProcessID, error) {
	processes, err := finder.FindProcessByName(name)
	if err != nil {
		return 0, err
	}

	if len(processes) == 0 {
		return 0, fmt.Errorf("%w: %s not running or not exist", process.ErrProcessNotFound, name)
	}

	// pick the lowest PID for determinism
	pid := processes[0].PID
	for _, info := range processes[1:] {
		if info.PID < pid {
			pid = info.PID
		}
	}
	return pid, nil
}

// ResolvePID interprets target as a numeric PID when it parses as one, otherwise as a process name
func ResolvePID(finder process.ProcessFinder, target string) (process.ProcessID, error) {
	if pid, err := strconv.Atoi(target); err == nil {
		if _, err := finder.FindProcessByPID(process.ProcessID(pid)); err != nil {
			return 0, err
		}
		return process.ProcessID(pid), nil
	}
	return FindProcess(finder, target)
}
