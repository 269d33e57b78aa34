package cmd

import (
	"github.com/spf13/cobra"
	"tracklogic.dev/pkg/tracklogic/internal/domain"
	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

// routeCmd represents the route command.
var routeCmd = newRouteCmd()

func newRouteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route <node>",
		Short: "Explain how a location gets its accessibility",
		Long: `Show the chain of connections, from Start, that gives the node its current
level, with the requirement of each connection.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			node, err := m.ParseRequirementNodeID(args[0])
			if err != nil {
				return err
			}

			return workflow.Route(commandContext(cmd), domain.RouteArgs{Profile: currentProfile(), Node: node})
		},
	}
}

func init() {
	rootCmd.AddCommand(routeCmd)
}
