package cli

import (
	"fmt"

	"github.com/specialistvlad/declc/internal/app"
	"github.com/specialistvlad/declc/internal/model"
	"github.com/spf13/cobra"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	Language string
	Format   string
	Sections []string
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect <path>",
		Short: "Print the compiled artifact of one unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sections := make([]model.SectionPath, 0, len(opts.Sections))
			for _, raw := range opts.Sections {
				p, err := model.ParseSectionPath(raw)
				if err != nil {
					return usageError(fmt.Errorf("invalid --section: %w", err))
				}
				sections = append(sections, p)
			}
			a, err := newApp(cmd, opts.RootOptions, app.Config{
				SourcePaths:  args,
				Language:     opts.Language,
				OutputFormat: opts.Format,
				Sections:     sections,
			})
			if err != nil {
				return err
			}
			return appError(a.Inspect(cmd.Context()))
		},
	}

	cmd.Flags().StringVarP(&opts.Language, "lang", "l", "", "language to compile against")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "yaml", "artifact format (yaml|json)")
	cmd.Flags().StringSliceVarP(&opts.Sections, "section", "s", nil, "only export these sections, e.g. schemas/properties")
	_ = cmd.MarkFlagRequired("lang")

	return cmd
}
