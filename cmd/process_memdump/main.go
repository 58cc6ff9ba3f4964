package main

import (
	"flag"
	"fmt"
	"os"

	"procmem/process"
	"procmem/process_extract"
	"procmem/process_linux"
)

func main() {
	pidFlag := flag.Int("pid", 0, "Process ID to dump")
	beginFlag := flag.String("begin", "", "First address of the range (hex with 0x, or decimal)")
	endFlag := flag.String("end", "", "End address of the range, exclusive")
	outputFlag := flag.String("output", "", "Output file")
	atomicFlag := flag.Bool("atomic", false, "Write to a temporary file and rename it on success")
	backendFlag := flag.String("backend", "mem", "Memory backend: mem or vmreadv")
	flag.Parse()

	if *pidFlag == 0 || *beginFlag == "" || *endFlag == "" || *outputFlag == "" {
		fmt.Println("Error: --pid, --begin, --end and --output are required")
		flag.Usage()
		os.Exit(1)
	}

	begin, err := process.ParseAddress(*beginFlag)
	if err != nil {
		fmt.Printf("Error: invalid begin address: %v\n", err)
		os.Exit(1)
	}

	end, err := process.ParseAddress(*endFlag)
	if err != nil {
		fmt.Printf("Error: invalid end address: %v\n", err)
		os.Exit(1)
	}

	backend, err := process_linux.ParseBackend(*backendFlag)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	extractor := process_extract.New(
		process_extract.WithAtomicOutput(*atomicFlag),
		process_extract.WithBackend(backend),
	)

	count, err := extractor.DumpRange(process.ProcessID(*pidFlag), uint64(begin), uint64(end), *outputFlag)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("success: dump %d pages\n", count)
}
