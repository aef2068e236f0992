package dispatch

import "fmt"

// ModuleFlag switches the dispatcher into module mode when it directly follows the root directory.
const ModuleFlag = "-m"

// Invocation is a parsed command line.
type Invocation struct {
	// RootDir is the directory holding the bundled libraries.
	RootDir string
	// Module is set when ModuleFlag was given.
	Module bool
	// Script names the tool to run.
	Script string
	// Args starts with Script and holds everything after it.
	Args []string
}

// ParseArgs splits args (program name already removed) into an Invocation:
//
//	<root_dir> [-m] <script_name> [args...]
//
// Nothing after the optional flag is interpreted.
func ParseArgs(args []string) (Invocation, error) {
	var inv Invocation
	if len(args) == 0 {
		return inv, fmt.Errorf("%w: missing root directory", ErrInsufficientArgs)
	}
	inv.RootDir, args = args[0], args[1:]

	if len(args) > 0 && args[0] == ModuleFlag {
		inv.Module = true
		args = args[1:]
	}

	if len(args) == 0 {
		return inv, fmt.Errorf("%w: missing script name", ErrInsufficientArgs)
	}
	inv.Script = args[0]
	inv.Args = append([]string(nil), args...)
	return inv, nil
}

// Forwarded returns the arguments handed to the entry point. Module mode keeps
// the script name as element 0; otherwise it is dropped.
func (inv Invocation) Forwarded() []string {
	if inv.Module || len(inv.Args) == 0 {
		return append([]string{}, inv.Args...)
	}
	return append([]string{}, inv.Args[1:]...)
}
