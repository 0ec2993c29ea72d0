package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/specialistvlad/declc/internal/app"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	LogFormat   string
	LogLevel    string
	Manifests   []string
	Color       bool
	Width       uint
	Concurrency int
}

// NewRootCommand creates the root command of the declc CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "declc",
		Short: "declc - a declarative configuration compiler",
		Long: `Compile HCL configuration against a registered language.

Each language declares its entities, fields and sections, plus the passes
that rewrite and verify the entity tree. Compilation either produces a
resolved artifact or a diagnostic pointing at the offending configuration.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "text", "log output format (text|json)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringSliceVarP(&opts.Manifests, "manifests", "m", nil, "language manifest files or directories")
	cmd.PersistentFlags().BoolVar(&opts.Color, "color", false, "colorize diagnostics")
	cmd.PersistentFlags().UintVar(&opts.Width, "width", 0, "wrap width for text diagnostics (0 uses the default)")
	cmd.PersistentFlags().IntVarP(&opts.Concurrency, "concurrency", "j", 0, "units compiled at once (0 is unbounded)")

	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))
	cmd.AddCommand(NewLanguagesCommand(opts))

	return cmd
}

// Execute runs the CLI with args. Results go to outW and logs to errW. The
// returned error is always nil or an *ExitError.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	slog.Debug("CLI started.", "args", args)
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(outW)
	cmd.SetErr(errW)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	// Anything cobra rejects before a command runs is a usage error.
	return usageError(err)
}

// newApp turns the flags into a validated configuration and builds the app.
func newApp(cmd *cobra.Command, opts *RootOptions, cfg app.Config) (*app.App, error) {
	cfg.ManifestPaths = opts.Manifests
	cfg.LogFormat = opts.LogFormat
	cfg.LogLevel = opts.LogLevel
	cfg.Color = opts.Color
	cfg.WrapWidth = opts.Width
	cfg.Concurrency = opts.Concurrency

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, usageError(err)
	}
	slog.Debug("CLI configuration validated.", "config", config)
	a, err := app.NewApp(cmd.OutOrStdout(), cmd.ErrOrStderr(), config)
	if err != nil {
		return nil, appError(err)
	}
	return a, nil
}
