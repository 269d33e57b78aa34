package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
	"tracklogic.dev/pkg/tracklogic/internal/adapter"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "tracklogic"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	outputFlagName        = "output"
	profileFlagName       = "profile"
	stateBackendFlagName  = "state-backend"
	logicFlagName         = "logic"
	excludeFlagName       = "exclude"
	verboseFlagName       = "verbose"
	checkParallelFlagName = "parallel"
	watchDebounceFlagName = "debounce"

	stateBackendKey    = "state.backend"
	stateDirKey        = "state.dir"
	stateProfileKey    = "state.profile"
	redisAddrKey       = "redis.addr"
	redisPoolSizeKey   = "redis.pool_size"
	redisMaxRetriesKey = "redis.max_retries"
	redisKeyPrefixKey  = "redis.key_prefix"
	logicFileKey       = "logic.file"
	checkParallelKey   = "check.parallel"
	watchDebounceKey   = "watch.debounce"
	excludeConfigKey   = "paths.exclude"

	stateBackendFile  = "file"
	stateBackendRedis = "redis"

	defaultReportsDir      = ".tracklogic-reports"
	defaultStateBackend    = stateBackendFile
	defaultStateDir        = ".tracklogic"
	defaultProfile         = "default"
	defaultRedisAddr       = "localhost:6379"
	defaultRedisPoolSize   = 10
	defaultRedisMaxRetries = 3
	defaultCheckParallel   = 1

	envPrefix = "TRACKLOGIC"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".tracklogic.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

// configErr holds a config file that exists but could not be read. It is
// reported by the first command that needs configuration.
var configErr error

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	registerDefaults()

	configErr = readConfigFile()
}

func registerDefaults() {
	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(outputFlagName, defaultReportsDir)
	viper.SetDefault(stateBackendKey, defaultStateBackend)
	viper.SetDefault(stateDirKey, defaultStateDir)
	viper.SetDefault(stateProfileKey, defaultProfile)
	viper.SetDefault(redisAddrKey, defaultRedisAddr)
	viper.SetDefault(redisPoolSizeKey, defaultRedisPoolSize)
	viper.SetDefault(redisMaxRetriesKey, defaultRedisMaxRetries)
	viper.SetDefault(redisKeyPrefixKey, adapter.DefaultRedisKeyPrefix)
	viper.SetDefault(logicFileKey, "")
	viper.SetDefault(checkParallelKey, defaultCheckParallel)
	viper.SetDefault(watchDebounceKey, adapter.DefaultWatchDebounce.String())
	viper.SetDefault(excludeConfigKey, []string{})

	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)
}

// readConfigFile loads tracklogic.yaml. A missing file is not an error.
func readConfigFile() error {
	err := viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("read config %s: %w", viper.ConfigFileUsed(), err)
}

var namedLevels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// parseSlogLevel accepts level names and numeric slog levels (-4 is debug).
func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	name := strings.ToLower(strings.TrimSpace(value))
	if name == "" {
		return defaultLevel
	}

	if level, ok := namedLevels[name]; ok {
		return level
	}

	if n, err := strconv.Atoi(name); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// logSettings is the resolved log.* configuration.
type logSettings struct {
	path       string
	level      slog.Level
	maxSize    int
	maxBackups int
	maxAge     int
	compress   bool
}

// logSettingsFromConfig resolves the log.* keys. Verbose wins over log.level.
func logSettingsFromConfig() logSettings {
	path := strings.TrimSpace(viper.GetString(logFilenameKey))
	if path == "" {
		path = defaultLogFilename
	}

	level := parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	if viper.GetBool(logVerboseKey) {
		level = slog.LevelDebug
	}

	return logSettings{
		path:       path,
		level:      level,
		maxSize:    viper.GetInt(logMaxSizeKey),
		maxBackups: viper.GetInt(logMaxBackupsKey),
		maxAge:     viper.GetInt(logMaxAgeKey),
		compress:   viper.GetBool(logCompressKey),
	}
}

// configureLogger installs a text slog handler over a rotating log file as
// the default logger.
func configureLogger(settings logSettings) {
	writer := &lumberjack.Logger{
		Filename:   settings.path,
		MaxSize:    settings.maxSize,
		MaxBackups: settings.maxBackups,
		MaxAge:     settings.maxAge,
		Compress:   settings.compress,
	}

	globalLogger = slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{
		AddSource: true,
		Level:     settings.level,
	}))
	slog.SetDefault(globalLogger)
}
