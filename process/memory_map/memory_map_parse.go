package memory_map

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"procmem/process"
)

const fieldSeparators = " \t"

// Parse reads a mapping listing in /proc/[pid]/maps format.
// Records are returned in listing order; the first malformed line aborts the parse.
func Parse(r io.Reader) ([]Mapping, error) {
	var memoryMap []Mapping

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		mapping, err := ParseLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		memoryMap = append(memoryMap, mapping)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading mapping listing: %w", process.ErrIO, err)
	}

	return memoryMap, nil
}

// ParseLine parses a single listing line:
//
//	address           perms offset  dev   inode   pathname
//	00400000-00452000 r-xp 00000000 08:02 173521  /usr/bin/dbus-daemon
//
// The pathname is everything after the inode with leading whitespace removed,
// so paths containing spaces are kept whole.
func ParseLine(line string) (Mapping, error) {
	var fields [5]string
	rest := line
	for i := range fields {
		rest = strings.TrimLeft(rest, fieldSeparators)
		if rest == "" {
			return Mapping{}, malformed(line, "expected at least 5 fields, got %d", i)
		}
		end := strings.IndexAny(rest, fieldSeparators)
		if end < 0 {
			end = len(rest)
		}
		fields[i], rest = rest[:end], rest[end:]
	}

	var m Mapping
	var err error

	// Parse address range (e.g., "00400000-0040b000")
	beginStr, endStr, ok := strings.Cut(fields[0], "-")
	if !ok {
		return Mapping{}, malformed(line, "address range %q has no '-'", fields[0])
	}
	if m.Begin, err = strconv.ParseUint(beginStr, 16, 64); err != nil {
		return Mapping{}, malformed(line, "begin address %q: %v", beginStr, err)
	}
	if m.End, err = strconv.ParseUint(endStr, 16, 64); err != nil {
		return Mapping{}, malformed(line, "end address %q: %v", endStr, err)
	}
	if m.Begin >= m.End {
		return Mapping{}, malformed(line, "empty address range %q", fields[0])
	}

	if m.Perms, err = parsePerms(fields[1]); err != nil {
		return Mapping{}, malformed(line, "%v", err)
	}

	if m.Offset, err = strconv.ParseUint(fields[2], 16, 64); err != nil {
		return Mapping{}, malformed(line, "offset %q: %v", fields[2], err)
	}

	if m.Device, err = parseDevice(fields[3]); err != nil {
		return Mapping{}, malformed(line, "%v", err)
	}

	if m.Inode, err = strconv.ParseUint(fields[4], 10, 64); err != nil {
		return Mapping{}, malformed(line, "inode %q: %v", fields[4], err)
	}

	m.Pathname = strings.TrimLeft(rest, fieldSeparators)

	return m, nil
}

func parsePerms(s string) (Perms, error) {
	if len(s) != 4 {
		return Perms{}, fmt.Errorf("permission string %q is not 4 characters", s)
	}
	p := Perms{
		Read:    s[0] == 'r',
		Write:   s[1] == 'w',
		Execute: s[2] == 'x',
	}
	switch s[3] {
	case 's':
		p.Sharing = SharingShared
	case 'p':
		p.Sharing = SharingPrivate
	}
	return p, nil
}

func parseDevice(s string) (Device, error) {
	majorStr, minorStr, ok := strings.Cut(s, ":")
	if !ok {
		return Device{}, fmt.Errorf("device %q has no ':'", s)
	}
	major, err := strconv.ParseUint(majorStr, 16, 32)
	if err != nil {
		return Device{}, fmt.Errorf("device major %q: %v", majorStr, err)
	}
	minor, err := strconv.ParseUint(minorStr, 16, 32)
	if err != nil {
		return Device{}, fmt.Errorf("device minor %q: %v", minorStr, err)
	}
	return Device{Major: uint32(major), Minor: uint32(minor)}, nil
}

func malformed(line string, format string, args ...any) error {
	return fmt.Errorf("%w: %s in %q", process.ErrMalformedListing, fmt.Sprintf(format, args...), line)
}
