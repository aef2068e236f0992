package dispatch

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientArgs means the argument list ran out before both the root
	// directory and the script name were read.
	ErrInsufficientArgs = errors.New("insufficient arguments")
	// ErrModuleNotFound means the script name is not registered.
	ErrModuleNotFound = errors.New("module not found")
	// ErrEntryPointMissing means the tool was found but has no Main.
	ErrEntryPointMissing = errors.New("entry point missing")
)

// ExitError carries a process exit status out of an entry point.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps the result of a dispatch to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
