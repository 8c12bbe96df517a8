// Root command and global flags for the pinboard CLI.
package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/pinboard/internal/paths"
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
	flagLogLevel  string
	flagMetrics   bool
)

// settings holds config.yaml merged with the environment. Set by
// PersistentPreRunE so every subcommand can read it.
var settings *viper.Viper

var rootCmd = &cobra.Command{
	Use:           "pinboard",
	Short:         "Pinboard plans social content per client, offline first",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}
		v, err := loadConfig(configDir)
		if err != nil {
			return err
		}
		settings = v
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.pinboard-db)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (overrides log.level)")
	rootCmd.PersistentFlags().BoolVar(&flagMetrics, "metrics", false, "print metrics to stderr on exit")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(clientCmd)
	rootCmd.AddCommand(cardCmd)
}

// resolveDataDir applies: --data-dir flag > config.yaml data_dir >
// PINBOARD_DATA_DIR env > $(CWD)/.pinboard-db.
func resolveDataDir() (string, error) {
	configured := ""
	if settings != nil {
		configured = settings.GetString(cfgKeyDataDir)
	}
	return paths.ResolveDataDir(flagDataDir, configured)
}

// resolveConfigDir applies: --config-dir flag > PINBOARD_CONFIG_DIR env >
// platform default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}
