// Package tools holds the tools compiled into the shim.
package tools

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/xkilldash9x/toolshim/internal/dispatch"
	"go.uber.org/zap"
)

// Builtins installs the diagnostic tools: paths, which and tools.
type Builtins struct{}

// Register implements dispatch.Module.
func (Builtins) Register(r *dispatch.Registry) {
	r.MustRegister(dispatch.Tool{
		Name:    "paths",
		Summary: "print the library lookup roots in search order",
		Main:    paths,
	})
	r.MustRegister(dispatch.Tool{
		Name:    "which",
		Summary: "show which file a module name resolves to",
		Main:    which,
	})
	r.MustRegister(dispatch.Tool{
		Name:    "tools",
		Summary: "list the tools this binary can dispatch to",
		Main:    listTools(r),
	})
}

func paths(_ context.Context, env dispatch.Env, _ []string) error {
	for _, root := range env.Roots {
		if _, err := fmt.Fprintln(env.Stdout, root); err != nil {
			return err
		}
	}
	return nil
}

func which(_ context.Context, env dispatch.Env, args []string) error {
	if len(args) == 0 {
		return &dispatch.ExitError{Code: 2, Err: errors.New("usage: which <module>...")}
	}

	missing := 0
	for _, name := range args {
		file, err := env.Roots.Resolve(name)
		if errors.Is(err, dispatch.ErrModuleNotFound) {
			env.Logger.Debug("Module did not resolve.", zap.String("module", name))
			if _, err := fmt.Fprintf(env.Stderr, "%s: not found\n", name); err != nil {
				return err
			}
			missing++
			continue
		}
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(env.Stdout, "%s: %s\n", name, file); err != nil {
			return err
		}
	}
	if missing > 0 {
		return &dispatch.ExitError{Code: 1, Err: fmt.Errorf("%d module(s) not found", missing)}
	}
	return nil
}

func listTools(r *dispatch.Registry) dispatch.EntryPoint {
	return func(_ context.Context, env dispatch.Env, _ []string) error {
		w := tabwriter.NewWriter(env.Stdout, 0, 0, 2, ' ', 0)
		for _, t := range r.Tools() {
			if _, err := fmt.Fprintf(w, "%s\t%s\n", t.Name, t.Summary); err != nil {
				return err
			}
		}
		return w.Flush()
	}
}
