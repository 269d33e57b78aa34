package cmd

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"tracklogic.dev/pkg/tracklogic/internal/adapter"
	"tracklogic.dev/pkg/tracklogic/internal/domain"
)

var watchLevelFlag string
var watchDebounceFlag string

// errWatchNeedsFileBackend is returned when watch runs against a non-file backend.
var errWatchNeedsFileBackend = errors.New("watch requires the file state backend")

// watchCmd represents the watch command.
var watchCmd = newWatchCmd()

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [nodes...]",
		Short: "Re-evaluate whenever the saved state changes",
		Long: `Show the accessibility of the given nodes (default: every node) and refresh it
every time the profile's state file is written, for example by another
tracklogic process running "state item".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fileStore, ok := stateStore.(*adapter.FileStateStore)
			if !ok {
				return errWatchNeedsFileBackend
			}

			evalArgs, err := parseEvaluateArgs(args, watchLevelFlag)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return workflow.Watch(ctx, domain.WatchArgs{
				EvaluateArgs: evalArgs,
				StateFile:    fileStore.Location(ctx, evalArgs.Profile),
			})
		},
	}

	configureLevelFlag(cmd, &watchLevelFlag)
	cmd.Flags().StringVar(&watchDebounceFlag, watchDebounceFlagName, viper.GetString(watchDebounceKey), "quiet period before refreshing after a change")
	bindFlagToConfig(cmd.Flags().Lookup(watchDebounceFlagName), watchDebounceKey)

	return cmd
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
