package process_extract

import (
	"errors"
	"testing"

	"procmem/process"
	"procmem/process/memory_map"
)

// checkWritten verifies that output offset o holds the source byte at base+o
// exactly for the given [from, to) output spans and is unwritten elsewhere
func checkWritten(t *testing.T, sink *fakeSink, base uint64, spans ...[2]uint64) {
	t.Helper()

	inSpan := func(o uint64) bool {
		for _, s := range spans {
			if o >= s[0] && o < s[1] {
				return true
			}
		}
		return false
	}

	for o := range sink.data {
		off := uint64(o)
		if !inSpan(off) {
			if sink.written[o] {
				t.Fatalf("output offset 0x%x should be a hole", off)
			}
			continue
		}
		if !sink.written[o] {
			t.Fatalf("output offset 0x%x was not written", off)
		}
		if exp := pattern(base + off); sink.data[o] != exp {
			t.Fatalf("output offset 0x%x: expected 0x%02x - got 0x%02x", off, exp, sink.data[o])
		}
	}

	var last uint64
	for _, s := range spans {
		last = max(last, s[1])
	}
	if uint64(len(sink.data)) != last {
		t.Fatalf("expected output length 0x%x - got 0x%x", last, len(sink.data))
	}
}

func TestExtractRangeWithinOneMapping(t *testing.T) {
	mm := []memory_map.Mapping{rw(0x1000, 0x2000, "")}
	sink := &fakeSink{}

	count, err := New().ExtractRange(newFakeMemory(mm), mm, 0x1500, 0x1800, sink)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 page - got %d", count)
	}
	checkWritten(t, sink, 0x1500, [2]uint64{0, 0x300})
}

func TestExtractRangeInvalidRange(t *testing.T) {
	mm := []memory_map.Mapping{rw(0x1000, 0x2000, "")}

	for _, r := range [][2]uint64{{0x1800, 0x1500}, {0x1500, 0x1500}} {
		mem := newFakeMemory(mm)
		sink := &fakeSink{}

		_, err := New().ExtractRange(mem, mm, r[0], r[1], sink)
		if !errors.Is(err, process.ErrInvalidRange) {
			t.Fatalf("%x: expected invalid range - got %v", r, err)
		}
		if len(mem.reads) != 0 || sink.writes != 0 {
			t.Fatalf("%x: memory or output touched", r)
		}
	}
}

func TestExtractRangeBeginInGap(t *testing.T) {
	mm := []memory_map.Mapping{rw(0x1000, 0x2000, ""), rw(0x3000, 0x4000, "")}

	for _, begin := range []uint64{0x500, 0x2000, 0x2800, 0x4000} {
		mem := newFakeMemory(mm)
		sink := &fakeSink{}

		_, err := New().ExtractRange(mem, mm, begin, 0x5000, sink)
		if !errors.Is(err, process.ErrAddressOutOfRange) {
			t.Fatalf("0x%x: expected address out of range - got %v", begin, err)
		}
		if len(mem.reads) != 0 || sink.writes != 0 {
			t.Fatalf("0x%x: memory or output touched", begin)
		}
	}
}

func TestExtractRangeSkipsUnreadable(t *testing.T) {
	mm := []memory_map.Mapping{
		rw(0x1000, 0x2000, ""),
		none(0x2000, 0x3000, ""),
		rw(0x3000, 0x4000, "[heap]"),
	}
	sink := &fakeSink{}

	count, err := New().ExtractRange(newFakeMemory(mm), mm, 0x1800, 0x3800, sink)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 pages - got %d", count)
	}
	checkWritten(t, sink, 0x1800,
		[2]uint64{0, 0x800},
		[2]uint64{0x1800, 0x2000},
	)
}

func TestExtractRangeDiscontiguous(t *testing.T) {
	mm := []memory_map.Mapping{
		rw(0x1000, 0x2000, ""),
		rw(0x4000, 0x5000, ""),
		rw(0x6000, 0x7000, ""),
	}
	mem := newFakeMemory(mm)
	sink := &fakeSink{}

	count, err := New().ExtractRange(mem, mm, 0x1000, 0x4100, sink)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 pages - got %d", count)
	}
	checkWritten(t, sink, 0x1000,
		[2]uint64{0, 0x1000},
		[2]uint64{0x3000, 0x3100},
	)

	for _, addr := range mem.reads {
		if addr >= 0x6000 {
			t.Fatalf("read past the end of the window at 0x%x", addr)
		}
	}
}

func TestExtractRangeEndingExactlyAtMapping(t *testing.T) {
	mm := []memory_map.Mapping{rw(0x1000, 0x2000, ""), rw(0x2000, 0x3000, "")}
	sink := &fakeSink{}

	count, err := New().ExtractRange(newFakeMemory(mm), mm, 0x1000, 0x2000, sink)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 page - got %d", count)
	}
	checkWritten(t, sink, 0x1000, [2]uint64{0, 0x1000})
}

func TestExtractRangeChunked(t *testing.T) {
	mm := []memory_map.Mapping{rw(0x1000, 0x2000, ""), rw(0x2000, 0x2100, "")}

	whole := &fakeSink{}
	if _, err := New().ExtractRange(newFakeMemory(mm), mm, 0x1003, 0x20f1, whole); err != nil {
		t.Fatal(err)
	}

	chunked := &fakeSink{}
	if _, err := New(WithChunkSize(7)).ExtractRange(newFakeMemory(mm), mm, 0x1003, 0x20f1, chunked); err != nil {
		t.Fatal(err)
	}

	if string(whole.data) != string(chunked.data) {
		t.Fatal("chunked copy differs from single buffer copy")
	}
	if chunked.writes <= whole.writes {
		t.Fatalf("expected more writes with small chunks - got %d vs %d", chunked.writes, whole.writes)
	}
}

func TestExtractRangeReadFailure(t *testing.T) {
	// The listing claims the second region is readable but the memory refuses it
	listed := []memory_map.Mapping{rw(0x1000, 0x2000, ""), rw(0x2000, 0x3000, "[vvar]")}
	mem := newFakeMemory(listed[:1])
	sink := &fakeSink{}

	count, err := New().ExtractRange(mem, listed, 0x1000, 0x3000, sink)
	if !errors.Is(err, process.ErrIO) || !errors.Is(err, errFault) {
		t.Fatalf("expected wrapped i/o error - got %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 page copied before the failure - got %d", count)
	}
	// Output already written is kept
	checkWritten(t, sink, 0x1000, [2]uint64{0, 0x1000})
}

func TestExtractRangeWriteFailure(t *testing.T) {
	mm := []memory_map.Mapping{rw(0x1000, 0x2000, "")}
	sink := &fakeSink{failAt: 1}

	_, err := New().ExtractRange(newFakeMemory(mm), mm, 0x1000, 0x2000, sink)
	if !errors.Is(err, process.ErrIO) {
		t.Fatalf("expected i/o error - got %v", err)
	}
}

func TestExtractRangeAddressBeyondSeekableRange(t *testing.T) {
	mm := []memory_map.Mapping{rw(0xffffffffff600000, 0xffffffffff601000, "[vsyscall]")}

	_, err := New().ExtractRange(newFakeMemory(mm), mm, 0xffffffffff600000, 0xffffffffff601000, &fakeSink{})
	if !errors.Is(err, process.ErrIO) {
		t.Fatalf("expected i/o error - got %v", err)
	}
}
