// File: cmd/toolshim/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/xkilldash9x/toolshim/cmd"
	"github.com/xkilldash9x/toolshim/internal/observability"
)

const panicLogFile = "toolshim-panic.log"

// Function variables swapped out in tests.
var (
	osWriteFile = os.WriteFile
	osExit      = os.Exit
)

func main() {
	defer handlePanic()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cmd.Execute(ctx, os.Args[1:])
	stop()

	observability.Sync()
	osExit(code)
}

// handlePanic records a panic from the shim or a tool and exits with status 2.
func handlePanic() {
	r := recover()
	if r == nil {
		return
	}
	observability.Sync()

	panicMessage := fmt.Sprintf("panic: %v\n\n%s", r, debug.Stack())
	if err := osWriteFile(panicLogFile, []byte(panicMessage), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: Failed to write panic log: %v\n", err)
		fmt.Fprintln(os.Stderr, panicMessage)
		osExit(2)
		return
	}

	fmt.Fprintf(os.Stderr, "toolshim: panic: %v (details in %s)\n", r, panicLogFile)
	osExit(2)
}
