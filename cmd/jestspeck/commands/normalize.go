package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bartekus/jestspeck/internal/interactions"
)

func newNormalizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <interaction>...",
		Short: "Print the test titles generated for interaction descriptions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, title := range interactions.FromStrings(args) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), title)
			}
			return nil
		},
	}
}
