package process

// ProcessFinder resolves processes and reads their static metadata
type ProcessFinder interface {
	// FindProcessByPID finds a process by its PID
	FindProcessByPID(pid ProcessID) (*ProcessInfo, error)

	// FindProcessByName finds processes whose comm or executable basename equals name
	FindProcessByName(name string) ([]ProcessInfo, error)

	// CommandLine returns the command line arguments of a process
	CommandLine(pid ProcessID) ([]string, error)
}
