package process_extract

import (
	"fmt"
	"io"

	"procmem/process"
	"procmem/process/memory_map"

	"github.com/dustin/go-humanize"
)

// ExtractSelection copies every readable mapping of sel from src to dst. Mappings are
// laid out relative to the lowest Begin in the selection, so disjoint segments keep
// their distance from each other. An empty selection copies nothing and succeeds.
func (e *Extractor) ExtractSelection(src io.ReaderAt, sel []memory_map.Mapping, dst io.WriterAt) (int, error) {
	if len(sel) == 0 {
		return 0, nil
	}

	sorted := memory_map.SortByBegin(sel)
	base := sorted[0].Begin

	var largest uint64
	for _, m := range sorted {
		largest = max(largest, m.Size())
	}

	e.log.Infoln("Extracting", len(sorted), "regions from base", fmt.Sprintf("0x%x", base))

	buf := e.buffer(largest)
	var stats copyStats

	for _, m := range sorted {
		if !m.IsReadable() {
			e.log.Debugln("Skipping unreadable region", fmt.Sprintf("0x%x-0x%x", m.Begin, m.End), m.Perms)
			continue
		}

		if err := e.copyRegion(src, dst, buf, m.Begin, m.Size(), m.Begin-base); err != nil {
			return stats.regions, err
		}

		stats.regions++
		stats.bytes += m.Size()
	}

	e.log.Infoln("Selection extracted:", stats.regions, "regions,", humanize.IBytes(stats.bytes))
	return stats.regions, nil
}

// selectLibrary returns the mappings whose pathname is exactly name
func selectLibrary(mm []memory_map.Mapping, name string) ([]memory_map.Mapping, error) {
	sel := memory_map.FilterByPathExact(mm, name)
	if len(sel) == 0 {
		return nil, fmt.Errorf("%w: no mapping has pathname %q", process.ErrLibraryNotMapped, name)
	}
	return sel, nil
}

// ReconstructLibrary rebuilds the image of a mapped file from every mapping whose
// pathname equals name exactly. It fails with process.ErrLibraryNotMapped when there
// are none; use ExtractSelection directly to treat that as an empty image instead.
func (e *Extractor) ReconstructLibrary(src io.ReaderAt, mm []memory_map.Mapping, name string, dst io.WriterAt) (int, error) {
	sel, err := selectLibrary(mm, name)
	if err != nil {
		return 0, err
	}
	return e.ExtractSelection(src, sel, dst)
}
