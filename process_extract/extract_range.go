package process_extract

import (
	"fmt"
	"io"

	"procmem/process"
	"procmem/process/memory_map"

	"github.com/dustin/go-humanize"
)

// locateRange validates [begin, end) and returns the index of the mapping containing begin
func locateRange(mm []memory_map.Mapping, begin, end uint64) (int, error) {
	if begin >= end {
		return -1, fmt.Errorf("%w: begin 0x%x >= end 0x%x", process.ErrInvalidRange, begin, end)
	}

	first := memory_map.IndexOf(mm, begin)
	if first < 0 {
		return -1, fmt.Errorf("%w: no mapping contains 0x%x", process.ErrAddressOutOfRange, begin)
	}
	return first, nil
}

// ExtractRange copies the readable parts of [begin, end) from src to dst. The byte at
// address a is written at output offset a-begin; gaps and unreadable mappings are left
// unwritten. begin must lie inside a mapping of mm. It returns the number of mappings
// copied from.
func (e *Extractor) ExtractRange(src io.ReaderAt, mm []memory_map.Mapping, begin, end uint64, dst io.WriterAt) (int, error) {
	first, err := locateRange(mm, begin, end)
	if err != nil {
		return 0, err
	}
	return e.extractRange(src, mm, first, begin, end, dst)
}

func (e *Extractor) extractRange(src io.ReaderAt, mm []memory_map.Mapping, first int, begin, end uint64, dst io.WriterAt) (int, error) {
	e.log.Infoln("Extracting range", fmt.Sprintf("0x%x-0x%x", begin, end))

	buf := e.buffer(end - begin)
	var stats copyStats

	for _, m := range mm[first:] {
		if m.Begin >= end {
			break
		}

		if !m.IsReadable() {
			e.log.Debugln("Skipping unreadable region", fmt.Sprintf("0x%x-0x%x", m.Begin, m.End), m.Perms)
			continue
		}

		lo := max(m.Begin, begin)
		hi := min(m.End, end)
		if lo >= hi {
			continue
		}

		if err := e.copyRegion(src, dst, buf, lo, hi-lo, lo-begin); err != nil {
			return stats.regions, err
		}

		stats.regions++
		stats.bytes += hi - lo
	}

	e.log.Infoln("Range extracted:", stats.regions, "regions,", humanize.IBytes(stats.bytes))
	return stats.regions, nil
}
