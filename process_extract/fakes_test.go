package process_extract

import (
	"errors"
	"fmt"

	"procmem/process"
	"procmem/process/memory_map"
)

var errFault = errors.New("input/output error")

// pattern is the content of the fake address space at addr
func pattern(addr uint64) byte {
	return byte(addr*7 + addr>>8)
}

// fakeMemory serves pattern bytes for readable addresses and fails like
// /proc/[pid]/mem at the first inaccessible one
type fakeMemory struct {
	readable []memory_map.Mapping
	reads    []uint64
}

func newFakeMemory(mm []memory_map.Mapping) *fakeMemory {
	return &fakeMemory{readable: memory_map.Filter(mm, memory_map.Mapping.IsReadable)}
}

func (f *fakeMemory) ReadAt(p []byte, off int64) (int, error) {
	f.reads = append(f.reads, uint64(off))
	for i := range p {
		addr := uint64(off) + uint64(i)
		if memory_map.IndexOf(f.readable, addr) < 0 {
			return i, fmt.Errorf("read at 0x%x: %w", addr, errFault)
		}
		p[i] = pattern(addr)
	}
	return len(p), nil
}

// fakeSink records which output offsets were written
type fakeSink struct {
	data    []byte
	written []bool
	writes  int
	failAt  int // fail the n-th write (1-based), 0 never
}

func (s *fakeSink) WriteAt(p []byte, off int64) (int, error) {
	s.writes++
	if s.failAt > 0 && s.writes == s.failAt {
		return 0, errors.New("no space left on device")
	}
	end := int(off) + len(p)
	if end > len(s.data) {
		s.data = append(s.data, make([]byte, end-len(s.data))...)
		s.written = append(s.written, make([]bool, end-len(s.written))...)
	}
	copy(s.data[off:], p)
	for i := int(off); i < end; i++ {
		s.written[i] = true
	}
	return len(p), nil
}

// fakeProcess adapts fakeMemory to process.Process
type fakeProcess struct {
	*fakeMemory
	pid    process.ProcessID
	closed bool
}

func (p *fakeProcess) Open(pid process.ProcessID) error {
	p.pid = pid
	return nil
}

func (p *fakeProcess) Close() error {
	p.closed = true
	return nil
}

func (p *fakeProcess) GetPID() process.ProcessID {
	return p.pid
}

func (p *fakeProcess) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	data := make([]byte, size)
	_, err := p.ReadAt(data, int64(addr))
	return data, err
}

func rw(begin, end uint64, path string) memory_map.Mapping {
	return memory_map.Mapping{
		Begin:    begin,
		End:      end,
		Perms:    memory_map.Perms{Read: true, Write: true, Sharing: memory_map.SharingPrivate},
		Pathname: path,
	}
}

func none(begin, end uint64, path string) memory_map.Mapping {
	return memory_map.Mapping{
		Begin:    begin,
		End:      end,
		Perms:    memory_map.Perms{Sharing: memory_map.SharingPrivate},
		Pathname: path,
	}
}
