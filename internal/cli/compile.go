package cli

import (
	"github.com/specialistvlad/declc/internal/app"
	"github.com/spf13/cobra"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Language string
	Format   string
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <path>...",
		Short: "Compile configuration units",
		Long: `Compile every path as its own unit. A path is a single .hcl file or a
directory whose .hcl files are merged into one unit.

Each unit prints a one-line summary or its diagnostic. The command fails when
any unit fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts.RootOptions, app.Config{
				SourcePaths:  args,
				Language:     opts.Language,
				OutputFormat: opts.Format,
			})
			if err != nil {
				return err
			}
			return appError(a.Compile(cmd.Context()))
		},
	}

	cmd.Flags().StringVarP(&opts.Language, "lang", "l", "", "language to compile against")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "text", "diagnostic format (text|source|json)")
	_ = cmd.MarkFlagRequired("lang")

	return cmd
}
