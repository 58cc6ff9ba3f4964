package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"procmem/coloransi"
	"procmem/hexdump"
	"procmem/process"
	"procmem/process/memory_map"
	"procmem/process_extract"
	"procmem/process_linux"

	"github.com/dustin/go-humanize"
)

const usage = `usage: process_maps <command> [flags] <package|pid> [args]

commands:
  maps          list memory mappings (-filter, -range)
  cmdline       print the process arguments
  dump-library  <library> <output>  rebuild a mapped file from memory
  peek          <address>  hexdump live memory
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "maps":
		err = runMaps(args)
	case "cmdline":
		err = runCmdline(args)
	case "dump-library":
		err = runDumpLibrary(args)
	case "peek":
		err = runPeek(args)
	default:
		fmt.Printf("Error: unknown command %q\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// command holds the flags every subcommand shares
type command struct {
	flags   *flag.FlagSet
	backend *string
	noColor *bool
}

func newCommand(name string) *command {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	return &command{
		flags:   fs,
		backend: fs.String("backend", "mem", "Memory backend: mem or vmreadv"),
		noColor: fs.Bool("no-color", false, "Disable colored output"),
	}
}

// parse parses args and resolves the first positional argument to a PID
func (c *command) parse(args []string, positional int) (*process_linux.LinuxProcessHelper, process.ProcessID, error) {
	c.flags.Parse(args)

	if c.flags.NArg() != positional+1 {
		c.flags.Usage()
		return nil, 0, fmt.Errorf("expected %d arguments, got %d", positional+1, c.flags.NArg())
	}
	if *c.noColor {
		coloransi.Enabled = false
	}

	backend, err := process_linux.ParseBackend(*c.backend)
	if err != nil {
		return nil, 0, err
	}

	helper := process_linux.NewHelper(backend)
	pid, err := helper.Resolve(c.flags.Arg(0))
	if err != nil {
		return nil, 0, err
	}
	return helper, pid, nil
}

func runMaps(args []string) error {
	cmd := newCommand("maps")
	filter := cmd.flags.String("filter", "", "Only show mappings whose pathname contains this text")
	rangeFlag := cmd.flags.String("range", "", "Only show the mapping containing this address (hex with 0x, or decimal)")

	_, pid, err := cmd.parse(args, 0)
	if err != nil {
		return err
	}

	mm, err := process_extract.ListMappings(pid)
	if err != nil {
		return err
	}
	all := len(mm)

	fmt.Printf("> list maps of %s\n", cmd.flags.Arg(0))

	if *filter != "" {
		fmt.Printf("> filter pathname %s\n", *filter)
		mm = memory_map.FilterByPathSubstring(mm, *filter)
	}
	if *rangeFlag != "" {
		addr, err := process.ParseAddress(*rangeFlag)
		if err != nil {
			return err
		}
		fmt.Printf("> range address %s\n", addr.ToString())
		mm = memory_map.FilterByAddress(mm, uint64(addr))
	}

	for _, m := range mm {
		fmt.Println(formatMapping(m))
	}

	if len(mm) == all {
		fmt.Printf("page count %d\n", all)
	} else {
		fmt.Printf("page count %d/%d(current/all)\n", len(mm), all)
	}
	return nil
}

func formatMapping(m memory_map.Mapping) string {
	name := m.Pathname
	if name == "" {
		name = coloransi.Foreground(coloransi.BrightBlack, "<anonymous>")
	} else if strings.HasPrefix(name, "[") {
		name = coloransi.Foreground(coloransi.Magenta, name)
	} else {
		name = coloransi.Foreground(coloransi.ColorFrom(m.Inode), name)
	}

	return fmt.Sprintf("%#x %#x %s %#x %s %d %9s %s",
		m.Begin, m.End, coloransi.Perms(m.Perms.String()), m.Offset, m.Device, m.Inode,
		humanize.IBytes(m.Size()), name)
}

func runCmdline(args []string) error {
	cmd := newCommand("cmdline")

	helper, pid, err := cmd.parse(args, 0)
	if err != nil {
		return err
	}

	cmdline, err := helper.Finder.CommandLine(pid)
	if err != nil {
		return err
	}

	fmt.Println(strings.Join(cmdline, " "))
	return nil
}

func runDumpLibrary(args []string) error {
	cmd := newCommand("dump-library")
	allowEmpty := cmd.flags.Bool("allow-empty", false, "Write an empty file instead of failing when the library is not mapped")
	atomic := cmd.flags.Bool("atomic", false, "Write to a temporary file and rename it on success")

	helper, pid, err := cmd.parse(args, 2)
	if err != nil {
		return err
	}
	library, output := cmd.flags.Arg(1), cmd.flags.Arg(2)

	mm, err := process_extract.ListMappings(pid)
	if err != nil {
		return err
	}

	extractor := process_extract.New(
		process_extract.WithAtomicOutput(*atomic),
		process_extract.WithBackend(helper.Backend),
	)

	var count int
	if *allowEmpty {
		count, err = extractor.DumpSelection(pid, memory_map.FilterByPathExact(mm, library), output)
	} else {
		count, err = extractor.DumpLibrary(pid, mm, library, output)
	}
	if err != nil {
		return err
	}

	fmt.Printf("dump %d pages of %s to %s\n", count, library, output)
	return nil
}

func runPeek(args []string) error {
	cmd := newCommand("peek")
	size := cmd.flags.Uint("size", 256, "Number of bytes to hexdump")

	helper, pid, err := cmd.parse(args, 1)
	if err != nil {
		return err
	}

	addr, err := process.ParseAddress(cmd.flags.Arg(1))
	if err != nil {
		return err
	}

	mm, err := process_extract.ListMappings(pid)
	if err != nil {
		return err
	}

	proc, err := helper.NewWithPID(pid)
	if err != nil {
		return err
	}
	defer proc.Close()

	data, err := proc.ReadMemory(addr, process.ProcessMemorySize(*size))
	if err != nil {
		return err
	}

	fmt.Print(hexdump.DumpAt(data, uint64(addr), mm))
	return nil
}
