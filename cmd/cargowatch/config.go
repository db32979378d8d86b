package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/yacobolo/cargowatch"
	"github.com/yacobolo/cargowatch/internal/watch"
)

var k = koanf.New(".")

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = ".cargowatch.yaml"
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// Only flags that were explicitly set override file and env values
	flags := cmd.Flags()
	if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		return f.Name, posflag.FlagVal(flags, f)
	}), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// A local .env may supply CARGOWATCH_* variables; it is optional
	_ = godotenv.Load()

	if err := k.Load(env.Provider("CARGOWATCH_", ".", func(s string) string {
		// CARGOWATCH_CHECK_COMMAND -> check.command
		// CARGOWATCH_WATCH_DEBOUNCE -> watch.debounce
		// CARGOWATCH_VERBOSE -> verbose
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "CARGOWATCH_")),
			"_", ".",
		)
	}), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// buildCheckConfig constructs the library's Config from koanf state.
func buildCheckConfig() cargowatch.Config {
	def := cargowatch.DefaultConfig()
	config := cargowatch.Config{
		Command:      getStringWithFallback("command", "check.command", def.Command),
		ManifestName: getStringWithFallback("manifest", "check.manifest", def.ManifestName),
		Extension:    getStringWithFallback("extension", "check.extension", def.Extension),
	}

	if args := k.Strings("args"); len(args) > 0 {
		config.Args = args
	} else if args := k.Strings("check.args"); len(args) > 0 {
		config.Args = args
	} else {
		config.Args = def.Args
	}

	return config
}

// buildOutputConfig constructs terminal output settings from koanf state.
func buildOutputConfig(baseDir string) cargowatch.OutputConfig {
	return cargowatch.OutputConfig{
		BaseDir:         baseDir,
		UseColors:       getBoolWithFallback("color", "color", false),
		PrintLines:      getBoolWithFallback("print-lines", "output.print-lines", true),
		PrintSourceName: true,
		ShowHints:       getBoolWithFallback("show-hints", "output.show-hints", false),
	}
}

// buildWatchOptions constructs watcher settings from koanf state.
func buildWatchOptions(root string) watch.Options {
	opts := watch.Options{
		Root:         root,
		Debounce:     getDurationWithFallback("debounce", "watch.debounce", watch.DefaultDebounce),
		UseGitIgnore: getBoolWithFallback("gitignore", "watch.gitignore", true),
	}
	if ignore := k.Strings("ignore"); len(ignore) > 0 {
		opts.Ignore = ignore
	} else if ignore := k.Strings("watch.ignore"); len(ignore) > 0 {
		opts.Ignore = ignore
	} else {
		opts.Ignore = watch.DefaultIgnore
	}
	return opts
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getDurationWithFallback checks the flag key first, then the config file key, then returns the default.
func getDurationWithFallback(flagKey, configKey string, defaultVal time.Duration) time.Duration {
	if k.Exists(flagKey) {
		return k.Duration(flagKey)
	}
	if k.Exists(configKey) {
		return k.Duration(configKey)
	}
	return defaultVal
}
