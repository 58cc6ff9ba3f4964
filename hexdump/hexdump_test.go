package hexdump

import (
	"strings"
	"testing"

	"procmem/coloransi"
	"procmem/process/memory_map"
)

func plain(t *testing.T) {
	coloransi.Enabled = false
	t.Cleanup(func() { coloransi.Enabled = true })
}

func TestDump(t *testing.T) {
	plain(t)

	data := []byte("ABCDEFGHIJKLMNOPqr\x00\x01")
	options := DefaultOptions()
	options.StartAddress = 0x1000
	options.OffsetWidth = 8

	exp := "00001000  41 42 43 44 45 46 47 48  49 4a 4b 4c 4d 4e 4f 50  |ABCDEFGHIJKLMNOP|\n" +
		"00001010  71 72 00 01                                       |qr..|\n"

	if got := Dump(data, options); got != exp {
		t.Fatalf("unexpected dump:\n%s\nexpected:\n%s", got, exp)
	}
}

func TestDumpMaxLines(t *testing.T) {
	plain(t)

	options := DefaultOptions()
	options.MaxLines = 1

	got := Dump(make([]byte, 40), options)
	if !strings.HasSuffix(got, "... 24 more bytes\n") {
		t.Fatalf("missing truncation marker:\n%s", got)
	}
}

func TestDumpRegionHeaders(t *testing.T) {
	plain(t)

	mm := []memory_map.Mapping{
		{Begin: 0x1000, End: 0x1010, Perms: memory_map.Perms{Read: true}},
		{Begin: 0x1010, End: 0x2000, Perms: memory_map.Perms{Read: true}, Pathname: "[heap]"},
	}

	got := DumpAt(make([]byte, 48), 0x1000, mm)
	headers := 0
	for _, line := range strings.Split(got, "\n") {
		if strings.HasPrefix(line, "-- ") {
			headers++
		}
	}
	if headers != 2 {
		t.Fatalf("expected 2 region headers:\n%s", got)
	}
	if !strings.Contains(got, "[heap]") {
		t.Fatalf("missing heap header:\n%s", got)
	}
}
