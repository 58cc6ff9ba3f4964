package hexdump

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"

	"procmem/coloransi"
	"procmem/process/memory_map"
)

// Options defines options for customizing the hexdump output
type Options struct {
	// BytesPerLine defines the number of bytes to display per line
	BytesPerLine int

	// StartAddress is the address of the first byte, shown in the offset column
	StartAddress uint64

	// OffsetWidth is the width of the offset column in hex digits
	OffsetWidth int

	// ShowASCII determines whether to show the ASCII representation
	ShowASCII bool

	// MaxLines is the maximum number of lines to show (0 for no limit)
	MaxLines int

	// MemoryMap, when set, prints a header line each time the dump enters a new mapping
	MemoryMap []memory_map.Mapping

	OffsetColor       coloransi.ColorCode
	HexColor          coloransi.ColorCode
	ASCIIColor        coloransi.ColorCode
	NonPrintableColor coloransi.ColorCode
	ZeroColor         coloransi.ColorCode
}

// DefaultOptions returns the default hexdump options
func DefaultOptions() Options {
	return Options{
		BytesPerLine:      16,
		OffsetWidth:       12,
		ShowASCII:         true,
		OffsetColor:       coloransi.Cyan,
		HexColor:          coloransi.Green,
		ASCIIColor:        coloransi.White,
		NonPrintableColor: coloransi.BrightBlack,
		ZeroColor:         coloransi.BrightBlack,
	}
}

// Dump creates a hex dump of the given data with specified options
func Dump(data []byte, options Options) string {
	var buffer bytes.Buffer
	DumpToWriter(&buffer, data, options)
	return buffer.String()
}

// DumpToWriter writes a hex dump of the given data to the specified writer
func DumpToWriter(writer io.Writer, data []byte, options Options) {
	if options.BytesPerLine <= 0 {
		options.BytesPerLine = 16
	}
	if options.OffsetWidth <= 0 {
		options.OffsetWidth = 8
	}

	region := -1
	lineCount := 0
	for offset := 0; offset < len(data); offset += options.BytesPerLine {
		if options.MaxLines > 0 && lineCount >= options.MaxLines {
			fmt.Fprintf(writer, "... %d more bytes\n", len(data)-offset)
			break
		}

		addr := options.StartAddress + uint64(offset)
		if len(options.MemoryMap) > 0 {
			if i := memory_map.IndexOf(options.MemoryMap, addr); i >= 0 && i != region {
				region = i
				fmt.Fprintln(writer, coloransi.Foreground(coloransi.Yellow, "--", options.MemoryMap[i]))
			}
		}

		end := min(offset+options.BytesPerLine, len(data))
		formatLine(writer, data[offset:end], addr, options)

		lineCount++
	}
}

// formatLine formats a single line of the hex dump
func formatLine(writer io.Writer, data []byte, addr uint64, options Options) {
	offsetStr := fmt.Sprintf("%0*x", options.OffsetWidth, addr)
	fmt.Fprint(writer, coloransi.Foreground(options.OffsetColor, offsetStr), "  ")

	half := options.BytesPerLine / 2
	for i := 0; i < options.BytesPerLine; i++ {
		if i > 0 {
			if i == half && options.BytesPerLine >= 8 {
				fmt.Fprint(writer, " ")
			}
			fmt.Fprint(writer, " ")
		}

		// Pad short lines so the ASCII column stays aligned
		if i >= len(data) {
			fmt.Fprint(writer, "  ")
			continue
		}

		color := options.HexColor
		if data[i] == 0 {
			color = options.ZeroColor
		}
		fmt.Fprint(writer, coloransi.Foreground(color, fmt.Sprintf("%02x", data[i])))
	}

	if options.ShowASCII {
		fmt.Fprint(writer, "  |", formatASCII(data, options), "|")
	}

	fmt.Fprintln(writer)
}

// formatASCII formats the ASCII part of a hex dump line
func formatASCII(data []byte, options Options) string {
	var sb strings.Builder
	for _, b := range data {
		c := rune(b)
		switch {
		case b == 0:
			sb.WriteString(coloransi.Foreground(options.ZeroColor, "."))
		case b >= 0x80 || !unicode.IsPrint(c):
			sb.WriteString(coloransi.Foreground(options.NonPrintableColor, "."))
		default:
			sb.WriteString(coloransi.Foreground(options.ASCIIColor, string(c)))
		}
	}
	return sb.String()
}

// DumpAt is a shortcut for a default dump of data read from addr
func DumpAt(data []byte, addr uint64, mm []memory_map.Mapping) string {
	options := DefaultOptions()
	options.StartAddress = addr
	options.MemoryMap = mm
	return Dump(data, options)
}
