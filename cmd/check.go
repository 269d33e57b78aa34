package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"tracklogic.dev/pkg/tracklogic/internal/domain"
	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

var checkParallelFlag int
var checkShardFlag string

// checkCmd represents the check command.
var checkCmd = newCheckCmd()

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check scenario tables against the logic",
		Long:  checkLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			shardIndex, totalShards := parseShardFlag(checkShardFlag)

			return workflow.Check(commandContext(cmd), domain.CheckArgs{
				Paths:           parsePaths(args),
				Exclude:         viper.GetStringSlice(excludeConfigKey),
				Reports:         m.Path(viper.GetString(outputFlagName)),
				Threads:         viper.GetInt(checkParallelKey),
				ShardIndex:      shardIndex,
				TotalShardCount: totalShards,
			})
		},
	}

	configureCheckFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func configureCheckFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&checkParallelFlag, checkParallelFlagName, "p", viper.GetInt(checkParallelKey), "number of parallel workers checking scenarios")
	bindFlagToConfig(cmd.Flags().Lookup(checkParallelFlagName), checkParallelKey)
	cmd.Flags().StringVarP(&checkShardFlag, "shard", "s", "", "shard index and total shard count in the format INDEX/TOTAL (e.g., 0/3)")
}

func parseShardFlag(shard string) (int, int) {
	if shard == "" {
		return 0, 1
	}

	var index, total int

	_, err := fmt.Sscanf(shard, "%d/%d", &index, &total)
	if err != nil || total <= 0 || index < 0 || index >= total {
		return 0, 1
	}

	return index, total
}
