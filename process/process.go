// Package process provides the shared types, interfaces and error kinds for process introspection
package process

import "errors"

// Every error returned by this module wraps exactly one of the kinds below, so callers
// can branch with errors.Is while the message keeps the diagnostic detail.
var (
	// ErrProcessNotFound is returned when a process cannot be resolved or its /proc entries are gone.
	ErrProcessNotFound = errors.New("process not found")

	// ErrMalformedListing is returned when a line of a mapping listing does not have the expected structure.
	ErrMalformedListing = errors.New("malformed mapping listing")

	// ErrInvalidRange is returned when a requested range has begin >= end.
	ErrInvalidRange = errors.New("invalid begin-end range")

	// ErrAddressOutOfRange is returned when the start of a requested range lies in no mapped region.
	ErrAddressOutOfRange = errors.New("begin address out of range")

	// ErrLibraryNotMapped is returned when a library reconstruction selects no mappings.
	ErrLibraryNotMapped = errors.New("library not mapped")

	// ErrIO wraps any underlying read, write, seek or close failure.
	ErrIO = errors.New("i/o error")

	// ErrProcessNotOpen is returned when an operation requiring an open process is attempted
	// before the process has been successfully opened or after it has been closed.
	ErrProcessNotOpen = errors.New("process not open")
)

var kinds = []error{
	ErrProcessNotFound,
	ErrMalformedListing,
	ErrInvalidRange,
	ErrAddressOutOfRange,
	ErrLibraryNotMapped,
	ErrIO,
	ErrProcessNotOpen,
}

// Kind returns the error kind err wraps, or nil if it wraps none of them.
func Kind(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
