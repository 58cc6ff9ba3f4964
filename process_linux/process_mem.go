//go:build linux

package process_linux

import (
	"fmt"
	"io"
	"os"
)

// readProcMem reads from /proc/[pid]/mem. The kernel refuses reads of pages that are
// not currently accessible, which surfaces here as EIO or a short read.
func readProcMem(mem *os.File, buf []byte, off int64) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}

	n, err := mem.ReadAt(buf, off)
	if n == len(buf) {
		return n, nil
	}
	if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return n, fmt.Errorf("partial read: %d of %d bytes at 0x%x: %w", n, len(buf), off, err)
}
