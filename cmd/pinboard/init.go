// Init command for the pinboard CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pinboard/internal/cache"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config file and the local cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// PersistentPreRunE already created the config directory and file.
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}
		dataDir, err := resolveDataDir()
		if err != nil {
			return fmt.Errorf("resolve data dir: %w", err)
		}
		cfg, err := buildConfig(settings, dataDir)
		if err != nil {
			return err
		}

		c, err := cache.Open(cfg.Cache)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		snap, err := c.Load()
		if err != nil {
			c.Close()
			return fmt.Errorf("read cache: %w", err)
		}
		// Writing the loaded snapshot back materializes the cache file.
		if err := c.Save(snap); err != nil {
			c.Close()
			return fmt.Errorf("write cache: %w", err)
		}
		if err := c.Close(); err != nil {
			return err
		}

		return printResult(cmd, map[string]string{
			"config": configDir,
			"data":   dataDir,
			"cache":  cfg.Cache.GetCacheBackend(),
		}, func(w *output) {
			w.line("pinboard initialized")
			w.line("  config: %s", configDir)
			w.line("  data:   %s (%s)", dataDir, cfg.Cache.GetCacheBackend())
		})
	},
}
