// Package process_extract copies regions of a process's address space into ordinary files.
//
// Two addressing bases are used and must not be mixed up:
//
//   - range extraction places the byte at address a at output offset a-begin, where
//     begin is the start of the requested window;
//   - selection extraction places each mapping at m.Begin-base, where base is the lowest
//     Begin in the selection, preserving the layout of a multi-segment image.
//
// Unreadable mappings are skipped without error. Any read or write failure aborts the
// operation and leaves whatever was already written in place.
package process_extract

import (
	"fmt"
	"io"

	"procmem/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// DefaultChunkSize is the size of the copy buffer used per operation
const DefaultChunkSize = 1 << 20

// Extractor copies process memory into output sinks
type Extractor struct {
	log         *logger.Logger
	chunkSize   int
	atomic      bool
	openProcess func(pid process.ProcessID) (process.Process, error)
}

// Option is a function that configures an Extractor
type Option func(*Extractor)

// WithChunkSize sets the size of the copy buffer. Values below 1 are ignored.
func WithChunkSize(size int) Option {
	return func(e *Extractor) {
		if size > 0 {
			e.chunkSize = size
		}
	}
}

// WithLogger replaces the default logger
func WithLogger(l *logger.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.log = l
		}
	}
}

// WithAtomicOutput makes the Dump functions write to a temporary file and rename it
// over the destination only when the whole extraction succeeded
func WithAtomicOutput(atomic bool) Option {
	return func(e *Extractor) {
		e.atomic = atomic
	}
}

// WithProcessOpener sets how the Dump functions obtain a handle on process memory
func WithProcessOpener(open func(pid process.ProcessID) (process.Process, error)) Option {
	return func(e *Extractor) {
		e.openProcess = open
	}
}

// New creates an Extractor
func New(opts ...Option) *Extractor {
	e := &Extractor{
		log:       logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "extract")),
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// copyStats accumulates what one operation copied
type copyStats struct {
	regions int
	bytes   uint64
}

// copyRegion copies size bytes of src starting at address addr to dst at offset outOff
func (e *Extractor) copyRegion(src io.ReaderAt, dst io.WriterAt, buf []byte, addr, size, outOff uint64) error {
	for size > 0 {
		n := uint64(len(buf))
		if size < n {
			n = size
		}
		chunk := buf[:n]

		readOff, err := process.ProcessMemoryAddress(addr).Offset()
		if err != nil {
			return err
		}
		rn, err := src.ReadAt(chunk, readOff)
		if rn < len(chunk) {
			if err == nil {
				err = io.ErrUnexpectedEOF
			}
			return fmt.Errorf("%w: read %d bytes at 0x%x: %w", process.ErrIO, len(chunk), addr, err)
		}
		// A full read may still report io.EOF at the end of the source

		writeOff, err := process.ProcessMemoryAddress(outOff).Offset()
		if err != nil {
			return err
		}
		wn, err := dst.WriteAt(chunk, writeOff)
		if err == nil && wn < len(chunk) {
			err = io.ErrShortWrite
		}
		if err != nil {
			return fmt.Errorf("%w: write %d bytes at output offset 0x%x: %w", process.ErrIO, len(chunk), outOff, err)
		}

		addr += n
		outOff += n
		size -= n
	}
	return nil
}

func (e *Extractor) buffer(largest uint64) []byte {
	size := uint64(e.chunkSize)
	if largest < size {
		size = largest
	}
	return make([]byte, size)
}
