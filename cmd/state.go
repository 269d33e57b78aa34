package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"tracklogic.dev/pkg/tracklogic/internal/domain"
	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

// stateCmd represents the state command.
var stateCmd = newStateCmd()

func newStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Show or edit the saved tracker state",
		Long: `Show or edit the state of the current profile: seed mode, item counts and
enabled sequence breaks. Every edit is saved to the configured backend.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return workflow.ShowState(commandContext(cmd), currentProfile())
		},
	}

	cmd.AddCommand(
		newStateShowCmd(),
		newStateResetCmd(),
		newStateItemCmd(),
		newStateBreakCmd(),
		newStateModeCmd(),
	)

	return cmd
}

func init() {
	rootCmd.AddCommand(stateCmd)
}

func newStateShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the saved state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return workflow.ShowState(commandContext(cmd), currentProfile())
		},
	}
}

func newStateResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget the saved state and start over",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return workflow.ResetState(commandContext(cmd), currentProfile())
		},
	}
}

func newStateItemCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "item <item> <count|+n|-n>",
		Short: "Set an item count, or change it by a delta",
		Example: `  tracklogic state item Hookshot 1
  tracklogic state item Sword +1`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			update, err := parseItemUpdate(args[0], args[1])
			if err != nil {
				return err
			}

			return workflow.UpdateState(commandContext(cmd), currentProfile(), update)
		},
	}
}

func newStateBreakCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "break <sequence-break> <on|off>",
		Short:   "Allow or forbid a sequence break",
		Example: `  tracklogic state break DarkRoomDeathMountainEntry on`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			update, err := parseBreakUpdate(args[0], args[1])
			if err != nil {
				return err
			}

			return workflow.UpdateState(commandContext(cmd), currentProfile(), update)
		},
	}
}

func newStateModeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mode <setting> <value>",
		Short: "Change a seed mode setting",
		Long: fmt.Sprintf(`Change a seed mode setting. Settings: %s.
Run "tracklogic list modes" for the accepted values.`, strings.Join(m.ModeSettings(), ", ")),
		Example: `  tracklogic state mode worldState Inverted`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.UpdateState(commandContext(cmd), currentProfile(), modeUpdate(args[0], args[1]))
		},
	}
}

func parseItemUpdate(name, value string) (domain.StateUpdate, error) {
	itemType, err := m.ParseItemType(name)
	if err != nil {
		return nil, err
	}

	count, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("item count %q: %w", value, err)
	}

	if strings.HasPrefix(value, "+") || strings.HasPrefix(value, "-") {
		return func(tracker *domain.Tracker) error {
			return tracker.Items().Add(itemType, count)
		}, nil
	}

	return func(tracker *domain.Tracker) error {
		return tracker.Items().Set(itemType, count)
	}, nil
}

func parseBreakUpdate(name, value string) (domain.StateUpdate, error) {
	sb, err := m.ParseSequenceBreakType(name)
	if err != nil {
		return nil, err
	}

	enabled, err := m.ParseSwitch(value)
	if err != nil {
		return nil, fmt.Errorf("sequence break %s: %w", sb, err)
	}

	return func(tracker *domain.Tracker) error {
		return tracker.SequenceBreaks().SetEnabled(sb, enabled)
	}, nil
}

func modeUpdate(setting, value string) domain.StateUpdate {
	return func(tracker *domain.Tracker) error {
		mode := tracker.Mode()
		if err := mode.Set(setting, value); err != nil {
			return err
		}

		tracker.SetMode(mode)

		return nil
	}
}
