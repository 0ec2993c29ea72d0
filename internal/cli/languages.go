package cli

import (
	"github.com/specialistvlad/declc/internal/app"
	"github.com/spf13/cobra"
)

// NewLanguagesCommand creates the languages command.
func NewLanguagesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the registered languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, rootOpts, app.Config{})
			if err != nil {
				return err
			}
			return appError(a.Languages())
		},
	}
}
