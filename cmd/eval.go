package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"tracklogic.dev/pkg/tracklogic/internal/domain"
	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

var evalLevelFlag string

// evalCmd represents the eval command.
var evalCmd = newEvalCmd()

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval [nodes...]",
		Short: "Show the accessibility of locations",
		Long: `Evaluate the requirement graph against the saved state of the profile and
show the accessibility of the given nodes (default: every node).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			evalArgs, err := parseEvaluateArgs(args, evalLevelFlag)
			if err != nil {
				return err
			}

			return workflow.Evaluate(commandContext(cmd), evalArgs)
		},
	}

	configureLevelFlag(cmd, &evalLevelFlag)

	return cmd
}

func init() {
	rootCmd.AddCommand(evalCmd)
}

func configureLevelFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "level", "l", "", "only show nodes at this level (None, SequenceBreak, Normal)")
}

func parseEvaluateArgs(args []string, level string) (domain.EvaluateArgs, error) {
	nodes, err := parseNodes(args)
	if err != nil {
		return domain.EvaluateArgs{}, err
	}

	evalArgs := domain.EvaluateArgs{Profile: currentProfile(), Nodes: nodes}

	if level != "" {
		parsed, err := m.ParseAccessibilityLevel(level)
		if err != nil {
			return domain.EvaluateArgs{}, err
		}

		evalArgs.Level = &parsed
	}

	return evalArgs, nil
}

func parseNodes(args []string) ([]m.RequirementNodeID, error) {
	nodes := make([]m.RequirementNodeID, 0, len(args))

	for _, arg := range args {
		node, err := m.ParseRequirementNodeID(arg)
		if err != nil {
			return nil, err
		}

		nodes = append(nodes, node)
	}

	return nodes, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
