// Package cmd provides the root command and CLI setup for tracklogic.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"tracklogic.dev/pkg/tracklogic/internal/adapter"
	"tracklogic.dev/pkg/tracklogic/internal/controller"
	"tracklogic.dev/pkg/tracklogic/internal/domain"
	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

var fsAdapter adapter.FSAdapter
var reportStore adapter.ReportStore
var scenarioSource adapter.ScenarioSource
var streamer domain.ScenarioStreamer

// Built per invocation from the resolved configuration.
var stateStore adapter.StateStore
var workflow domain.Workflow
var ui controller.UI

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

// excludePatterns is a root-level flag that filters scenario files.
var excludePatterns []string

var profileFlag string
var stateBackendFlag string
var logicFileFlag string
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	fsAdapter = adapter.NewLocalFSAdapter()
	reportStore = adapter.NewReportStore(fsAdapter)
	scenarioSource = adapter.NewScenarioSource(fsAdapter)
	streamer = domain.NewScenarioStreamer(scenarioSource)
}

const pathPatternsHelp = `Scenario tables are *.scenarios.yaml files. Supports Go-style path patterns:
  - ./...                   recursively scan current directory
  - ./scenarios/...         recursively scan the scenarios directory
  - ./a.scenarios.yaml ./b  individual files and directories`

const rootLongDescription = `Tracklogic tracks item and location accessibility for a randomized
Zelda: A Link to the Past seed. It evaluates a requirement graph against the
items you found, the sequence breaks you allow and the seed mode, and labels
every location Normal, SequenceBreak or None.`

const checkLongDescription = `Check scenario tables against the logic graph (default: ./...).

` + pathPatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "tracklogic",
		Short:        "Item tracker logic for randomized seeds",
		Long:         rootLongDescription,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return prepareCommand(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

// prepareCommand runs before every command except init and version. Tests
// replace it to keep injected dependencies.
var prepareCommand = defaultPrepareCommand

func defaultPrepareCommand(cmd *cobra.Command) error {
	if configErr != nil {
		return configErr
	}

	configureLogger(logSettingsFromConfig())

	return setupDependencies(cmd)
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for check reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringVar(&profileFlag, profileFlagName, viper.GetString(stateProfileKey), "tracker profile to read and update")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(profileFlagName), stateProfileKey)

	cmd.PersistentFlags().StringVar(&stateBackendFlag, stateBackendFlagName, viper.GetString(stateBackendKey), "state backend: file or redis")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(stateBackendFlagName), stateBackendKey)

	cmd.PersistentFlags().StringVar(&logicFileFlag, logicFlagName, viper.GetString(logicFileKey), "requirement graph file (default: bundled graph)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logicFlagName), logicFileKey)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude scenario files matching regex (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// setupDependencies builds the state store, UI and workflow for the command
// being run.
func setupDependencies(cmd *cobra.Command) error {
	store, err := newStateStore(viper.GetString(stateBackendKey))
	if err != nil {
		return err
	}

	stateStore = store
	ui = controller.NewUI(cmd, controller.IsTTY(cmd.OutOrStdout()))
	workflow = domain.NewWorkflow(
		adapter.NewLogicSource(fsAdapter, m.Path(viper.GetString(logicFileKey))),
		stateStore,
		reportStore,
		adapter.NewStateWatcher(viper.GetDuration(watchDebounceKey)),
		ui,
		streamer,
	)

	return nil
}

func newStateStore(backend string) (adapter.StateStore, error) {
	switch backend {
	case stateBackendFile, "":
		return adapter.NewFileStateStore(fsAdapter, m.Path(viper.GetString(stateDirKey))), nil
	case stateBackendRedis:
		client, err := adapter.NewRedisClient(viper.GetString(redisAddrKey), &adapter.RedisOptions{
			PoolSize:   viper.GetInt(redisPoolSizeKey),
			MaxRetries: viper.GetInt(redisMaxRetriesKey),
		})
		if err != nil {
			return nil, fmt.Errorf("redis state backend: %w", err)
		}

		return adapter.NewRedisStateStore(client, viper.GetString(redisKeyPrefixKey)), nil
	}

	return nil, fmt.Errorf("state backend %q: %w", backend, m.ErrUnknownValue)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

func currentProfile() string {
	return viper.GetString(stateProfileKey)
}
