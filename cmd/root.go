// -- cmd/root.go --
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xkilldash9x/toolshim/internal/config"
	"github.com/xkilldash9x/toolshim/internal/dispatch"
	"github.com/xkilldash9x/toolshim/internal/observability"
	"github.com/xkilldash9x/toolshim/internal/tools"
	"go.uber.org/zap"
)

type contextKey string

const configKey contextKey = "config"

const usageLine = "toolshim <root_dir> [-m] <script_name> [args...]"

// argsTerminator keeps cobra from matching root_dir against its own
// commands (__complete). Execute adds it and RunE removes it.
const argsTerminator = "--"

// NewRegistry returns a registry holding every tool compiled into the binary.
func NewRegistry() *dispatch.Registry {
	r := dispatch.NewRegistry()
	r.Install(tools.Builtins{})
	r.MustRegister(dispatch.Tool{
		Name:    "version",
		Summary: "print the toolshim version",
		Main: func(_ context.Context, env dispatch.Env, _ []string) error {
			_, err := fmt.Fprintln(env.Stdout, Version)
			return err
		},
	})
	return r
}

// commandArgs prefixes args with argsTerminator.
func commandArgs(args []string) []string {
	return append([]string{argsTerminator}, args...)
}

func stripTerminator(args []string) []string {
	if len(args) > 0 && args[0] == argsTerminator {
		return args[1:]
	}
	return args
}

// NewRootCommand builds the root command dispatching into registry.
// Flag parsing is disabled: every token after the program name belongs to the dispatcher.
func NewRootCommand(registry *dispatch.Registry) *cobra.Command {
	cmd := &cobra.Command{
		Use:   usageLine,
		Short: "Run a bundled tool with its library directories on the lookup path.",
		Long: `toolshim resolves <script_name> among the tools compiled into this binary and
runs it with <root_dir>/esptool and <root_dir>/pyserial as its lookup roots,
searched in that order.

With -m the script name is passed to the tool as its first argument.
Configuration comes from TOOLSHIM_* environment variables and the optional
yaml file named by TOOLSHIM_CONFIG.

Every argument is forwarded, so there is no --version flag; run
"toolshim <root_dir> version" instead.`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		CompletionOptions:  cobra.CompletionOptions{DisableDefaultCmd: true},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			config.SetDefaults(v)
			if err := config.Load(v, os.Getenv(config.ConfigFileEnv)); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}

			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				return fmt.Errorf("failed to load or validate config: %w", err)
			}

			observability.InitializeLogger(cfg.Logger())
			observability.GetLogger().Debug("Starting toolshim", zap.String("version", Version))

			cmd.SetContext(context.WithValue(cmd.Context(), configKey, cfg))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ok := cmd.Context().Value(configKey).(*config.Config)
			if !ok {
				cfg = config.NewDefaultConfig()
			}

			d := dispatch.New(registry, cfg.Dispatch(), observability.GetLogger()).
				WithStreams(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			err := d.Run(cmd.Context(), stripTerminator(args))
			if errors.Is(err, dispatch.ErrInsufficientArgs) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Usage: %s\n", usageLine)
			}
			return err
		},
	}
	return cmd
}

// Execute runs the shim with args (program name removed) and returns the process exit status.
func Execute(ctx context.Context, args []string) int {
	root := NewRootCommand(NewRegistry())
	root.SetArgs(commandArgs(args))
	err := root.ExecuteContext(ctx)
	reportError(root.ErrOrStderr(), err)
	return exitCode(err)
}

// reportError prints a failure the way an uncaught error would surface.
// An ExitError without a cause is a plain status and prints nothing.
func reportError(w io.Writer, err error) {
	if err == nil {
		return
	}
	var exitErr *dispatch.ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	observability.GetLogger().Debug("Command execution failed", zap.Error(err))
	fmt.Fprintf(w, "toolshim: %v\n", err)
}

func exitCode(err error) int {
	if errors.Is(err, context.Canceled) {
		return 130
	}
	return dispatch.ExitCode(err)
}
