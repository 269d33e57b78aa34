package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View previously saved check reports",
		Long:  "View the check reports saved in the reports directory, oldest first.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			reportsPath := m.Path(viper.GetString(outputFlagName))
			return workflow.Reports(commandContext(cmd), reportsPath)
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
