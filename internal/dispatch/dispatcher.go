package dispatch

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/xkilldash9x/toolshim/internal/config"
	"go.uber.org/zap"
)

// Dispatcher runs registered tools against the bundled library roots.
type Dispatcher struct {
	registry *Registry
	cfg      config.DispatchConfig
	logger   *zap.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// New creates a Dispatcher over registry using the process's standard streams.
func New(registry *Registry, cfg config.DispatchConfig, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		registry: registry,
		cfg:      cfg,
		logger:   logger.Named("dispatch"),
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
}

// WithStreams replaces the streams handed to entry points.
func (d *Dispatcher) WithStreams(stdin io.Reader, stdout, stderr io.Writer) *Dispatcher {
	d.stdin, d.stdout, d.stderr = stdin, stdout, stderr
	return d
}

// Run parses args (program name already removed) and dispatches them.
func (d *Dispatcher) Run(ctx context.Context, args []string) error {
	inv, err := ParseArgs(args)
	if err != nil {
		return err
	}
	return d.Dispatch(ctx, inv)
}

// Dispatch computes the lookup roots, resolves inv.Script and calls its entry point.
// Errors returned by the entry point are passed through untouched.
func (d *Dispatcher) Dispatch(ctx context.Context, inv Invocation) error {
	rootDir := inv.RootDir
	if d.cfg.ExpandHome {
		expanded, err := ExpandRoot(rootDir)
		if err != nil {
			return err
		}
		rootDir = expanded
	}
	roots := LibraryRoots(rootDir)

	logger := d.logger.With(
		zap.String("invocation_id", uuid.NewString()),
		zap.String("script", inv.Script),
		zap.Bool("module", inv.Module),
	)
	logger.Debug("Dispatching tool.", zap.Strings("roots", roots))

	tool, err := d.registry.Lookup(inv.Script)
	if err != nil {
		logger.Debug("Tool lookup failed.", zap.Error(err))
		return err
	}
	if tool.Main == nil {
		return fmt.Errorf("%w: %s has no main", ErrEntryPointMissing, tool.Name)
	}

	env := Env{
		RootDir: rootDir,
		Roots:   roots,
		Stdin:   d.stdin,
		Stdout:  d.stdout,
		Stderr:  d.stderr,
		Logger:  logger.Named(tool.Name),
	}
	return tool.Main(ctx, env, inv.Forwarded())
}
