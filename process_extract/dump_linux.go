//go:build linux

package process_extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"procmem/process"
	"procmem/process/memory_map"
	"procmem/process_linux"
)

// WithBackend makes the Dump functions read process memory through backend
func WithBackend(backend process_linux.Backend) Option {
	return WithProcessOpener(func(pid process.ProcessID) (process.Process, error) {
		return process_linux.NewWithPID(pid, backend)
	})
}

// ListMappings reads the current mapping listing of a process
func ListMappings(pid process.ProcessID) ([]memory_map.Mapping, error) {
	return memory_map.ReadMemoryMap(int(pid))
}

func (e *Extractor) open(pid process.ProcessID) (process.Process, error) {
	if e.openProcess != nil {
		return e.openProcess(pid)
	}
	return process_linux.NewWithPID(pid, process_linux.BackendProcMem)
}

// DumpRange copies [begin, end) of a live process into the file at outputPath.
// The range and its start address are checked before any file is opened or created.
func (e *Extractor) DumpRange(pid process.ProcessID, begin, end uint64, outputPath string) (count int, err error) {
	if begin >= end {
		return 0, fmt.Errorf("%w: begin 0x%x >= end 0x%x", process.ErrInvalidRange, begin, end)
	}

	mm, err := ListMappings(pid)
	if err != nil {
		return 0, err
	}

	first, err := locateRange(mm, begin, end)
	if err != nil {
		return 0, err
	}

	proc, err := e.open(pid)
	if err != nil {
		return 0, err
	}
	defer func() {
		err = closeProcess(proc, err)
	}()

	out, err := e.createOutput(outputPath)
	if err != nil {
		return 0, err
	}
	defer func() {
		err = out.finish(err)
	}()

	return e.extractRange(proc, mm, first, begin, end, out.file)
}

// DumpSelection copies the readable mappings of records into the file at outputPath,
// relative to the lowest begin address among them. An empty selection creates an
// empty file without touching the process.
func (e *Extractor) DumpSelection(pid process.ProcessID, records []memory_map.Mapping, outputPath string) (count int, err error) {
	if len(records) == 0 {
		out, err := e.createOutput(outputPath)
		if err != nil {
			return 0, err
		}
		return 0, out.finish(nil)
	}

	proc, err := e.open(pid)
	if err != nil {
		return 0, err
	}
	defer func() {
		err = closeProcess(proc, err)
	}()

	out, err := e.createOutput(outputPath)
	if err != nil {
		return 0, err
	}
	defer func() {
		err = out.finish(err)
	}()

	return e.ExtractSelection(proc, records, out.file)
}

// DumpLibrary reconstructs the image of the mapped file name into outputPath.
// When no mapping has that exact pathname it fails with process.ErrLibraryNotMapped
// and no file is created.
func (e *Extractor) DumpLibrary(pid process.ProcessID, records []memory_map.Mapping, name string, outputPath string) (int, error) {
	sel, err := selectLibrary(records, name)
	if err != nil {
		return 0, err
	}
	return e.DumpSelection(pid, sel, outputPath)
}

func closeProcess(proc process.Process, err error) error {
	if cerr := proc.Close(); cerr != nil {
		return errors.Join(err, cerr)
	}
	return err
}

// output is a destination file, optionally staged under a temporary name
type output struct {
	file   *os.File
	path   string
	atomic bool
}

func (e *Extractor) createOutput(path string) (*output, error) {
	if !e.atomic {
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("%w: create output: %w", process.ErrIO, err)
		}
		return &output{file: f, path: path}, nil
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("%w: create temporary output: %w", process.ErrIO, err)
	}
	if err := f.Chmod(0644); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("%w: chmod temporary output: %w", process.ErrIO, err)
	}
	return &output{file: f, path: path, atomic: true}, nil
}

// finish closes the file and, for atomic outputs, publishes it when err is nil or
// removes it otherwise. It returns err joined with any failure of its own.
func (o *output) finish(err error) error {
	if cerr := o.file.Close(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("%w: close output: %w", process.ErrIO, cerr))
	}

	if !o.atomic {
		return err
	}

	if err != nil {
		os.Remove(o.file.Name())
		return err
	}

	if rerr := os.Rename(o.file.Name(), o.path); rerr != nil {
		os.Remove(o.file.Name())
		return fmt.Errorf("%w: publish output: %w", process.ErrIO, rerr)
	}
	return nil
}
