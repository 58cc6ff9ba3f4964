package memory_map

import (
	"fmt"
	"strings"
)

// Sharing is the fourth permission character of a mapping
type Sharing uint8

const (
	SharingNone    Sharing = iota // anything other than 's' or 'p'
	SharingShared                 // 's'
	SharingPrivate                // 'p'
)

func (s Sharing) char() byte {
	switch s {
	case SharingShared:
		return 's'
	case SharingPrivate:
		return 'p'
	default:
		return '-'
	}
}

// Perms holds the access flags of a mapping as reported by the kernel
type Perms struct {
	Read    bool
	Write   bool
	Execute bool
	Sharing Sharing
}

// String returns the four character permission string, e.g. "r-xp"
func (p Perms) String() string {
	b := [4]byte{'-', '-', '-', p.Sharing.char()}
	if p.Read {
		b[0] = 'r'
	}
	if p.Write {
		b[1] = 'w'
	}
	if p.Execute {
		b[2] = 'x'
	}
	return string(b[:])
}

// Shared reports whether the mapping is shared
func (p Perms) Shared() bool {
	return p.Sharing == SharingShared
}

// Private reports whether the mapping is private (copy on write)
func (p Perms) Private() bool {
	return p.Sharing == SharingPrivate
}

// Device identifies the device backing a mapping, 0:0 for anonymous regions
type Device struct {
	Major uint32
	Minor uint32
}

func (d Device) String() string {
	return fmt.Sprintf("%02x:%02x", d.Major, d.Minor)
}

// Mapping represents one contiguous region of a process's address space, [Begin, End)
type Mapping struct {
	Begin    uint64 // First address of the region
	End      uint64 // One past the last address of the region
	Perms    Perms  // Access flags
	Offset   uint64 // Offset into the backing file of the first byte
	Device   Device // Backing device
	Inode    uint64 // Backing inode, 0 for anonymous regions
	Pathname string // Backing path or pseudo-path, empty for anonymous regions
}

// Size returns the size of the region in bytes
func (m Mapping) Size() uint64 {
	return m.End - m.Begin
}

// Contains reports whether addr lies within the region
func (m Mapping) Contains(addr uint64) bool {
	return addr >= m.Begin && addr < m.End
}

// PathContains reports whether the pathname contains needle (case-sensitive)
func (m Mapping) PathContains(needle string) bool {
	return strings.Contains(m.Pathname, needle)
}

func (m Mapping) IsReadable() bool {
	return m.Perms.Read
}

func (m Mapping) IsWritable() bool {
	return m.Perms.Write
}

func (m Mapping) IsExecutable() bool {
	return m.Perms.Execute
}

// IsAnonymous reports whether the mapping has no backing path
func (m Mapping) IsAnonymous() bool {
	return m.Pathname == ""
}

// String returns a human readable representation of the mapping
func (m Mapping) String() string {
	name := m.Pathname
	if name == "" {
		name = "<anonymous>"
	}
	return fmt.Sprintf("%#x %#x %s %#x %s %d %s", m.Begin, m.End, m.Perms, m.Offset, m.Device, m.Inode, name)
}

// pathnameColumn is where the kernel starts the pathname on 64-bit systems
const pathnameColumn = 73

// MapsLine formats the mapping the way /proc/[pid]/maps does
func (m Mapping) MapsLine() string {
	line := fmt.Sprintf("%08x-%08x %s %08x %s %d ", m.Begin, m.End, m.Perms, m.Offset, m.Device, m.Inode)
	if m.Pathname == "" {
		return line
	}
	if len(line) < pathnameColumn {
		line += strings.Repeat(" ", pathnameColumn-len(line))
	}
	return line + m.Pathname
}
