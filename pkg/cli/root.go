package cli

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dshills/gomove/pkg/config"
)

const (
	// Version is the current version of gomove
	Version = "1.0.0"
)

// GlobalOptions holds the flags shared by all subcommands
type GlobalOptions struct {
	ConfigFile string
	ConfigDir  string
	Debug      bool
}

// GlobalConfig is the shared options instance
var GlobalConfig = &GlobalOptions{}

// NewRootCommand creates the root cobra command for gomove
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gomove",
		Short: "gomove - Accessible node move engine for canvas editors",
		Long: `gomove is a move engine for graphical node editors. It drives node
repositioning sessions across pointer, touch, and keyboard input, discovers
compatible connection targets near the moving node, and commits or restores
the result. The CLI loads workspace fixtures, replays recorded input traces,
and runs an interactive terminal demo.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Setup logging
			if GlobalConfig.Debug {
				log.SetOutput(os.Stderr)
				log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
			} else {
				log.SetOutput(io.Discard)
			}

			return nil
		},
	}

	// Persistent flags (available to all subcommands)
	cmd.PersistentFlags().BoolVar(&GlobalConfig.Debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&GlobalConfig.ConfigFile, "config", "", "Config file (default: gomove.yaml in ~/.gomove or cwd)")
	cmd.PersistentFlags().StringVar(&GlobalConfig.ConfigDir, "config-dir", "", "Configuration directory (default: ~/.gomove)")

	// Add subcommands
	cmd.AddCommand(NewDemoCommand())
	cmd.AddCommand(NewReplayCommand())
	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}

// GetConfigDir returns the configuration directory path.
// Priority order: 1) GOMOVE_CONFIG_DIR env var (for testing), 2) --config-dir, 3) ~/.gomove
func GetConfigDir() string {
	if envDir := os.Getenv("GOMOVE_CONFIG_DIR"); envDir != "" {
		return envDir
	}
	if GlobalConfig.ConfigDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to current directory if home dir cannot be determined
			return ".gomove"
		}
		return filepath.Join(homeDir, ".gomove")
	}
	return GlobalConfig.ConfigDir
}

// loadConfig resolves the engine configuration. Defaults are overlaid by
// the config file when one is found, then by GOMOVE_* environment
// variables.
func loadConfig() (*config.Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if GlobalConfig.ConfigFile != "" {
		v.SetConfigFile(GlobalConfig.ConfigFile)
	} else {
		v.SetConfigName("gomove")
		v.AddConfigPath(GetConfigDir())
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("GOMOVE")
	v.AutomaticEnv()

	def := config.Default()
	v.SetDefault("snap_distance", def.SnapDistance)
	v.SetDefault("step_size", def.StepSize)
	v.SetDefault("throttle_interval_ms", def.ThrottleIntervalMS)
	v.SetDefault("watchdog_timeout_ms", def.WatchdogTimeoutMS)
	v.SetDefault("double_tap_window_ms", def.DoubleTapWindowMS)
	v.SetDefault("history_path", def.HistoryPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if GlobalConfig.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &config.Config{
		SnapDistance:       v.GetFloat64("snap_distance"),
		StepSize:           v.GetFloat64("step_size"),
		ThrottleIntervalMS: v.GetInt("throttle_interval_ms"),
		WatchdogTimeoutMS:  v.GetInt("watchdog_timeout_ms"),
		DoubleTapWindowMS:  v.GetInt("double_tap_window_ms"),
		MovableRules:       v.GetStringMapString("movable_rules"),
		HistoryPath:        v.GetString("history_path"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}
