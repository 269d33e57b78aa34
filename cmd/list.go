package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"tracklogic.dev/pkg/tracklogic/internal/domain"
	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	kinds := catalogKindNames()

	cmd := &cobra.Command{
		Use:       "list <" + strings.Join(kinds, "|") + ">",
		Short:     "List the names other commands accept",
		Long:      "List graph nodes, items with their maxima, sequence breaks or seed mode settings.",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseCatalogKind(args[0])
			if err != nil {
				return err
			}

			return workflow.Catalog(commandContext(cmd), kind)
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func catalogKindNames() []string {
	kinds := domain.CatalogKinds()

	names := make([]string, len(kinds))
	for i, kind := range kinds {
		names[i] = string(kind)
	}

	return names
}

func parseCatalogKind(value string) (domain.CatalogKind, error) {
	for _, kind := range domain.CatalogKinds() {
		if string(kind) == value {
			return kind, nil
		}
	}

	return "", fmt.Errorf("list %q: %w", value, m.ErrUnknownValue)
}
