// Config loading for the pinboard CLI.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/pinboard/internal/paths"
	"github.com/mesh-intelligence/pinboard/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "PINBOARD"

	cfgKeyDataDir       = "data_dir"
	cfgKeyCacheBackend  = "cache.backend"
	cfgKeyRemoteURL     = "remote.url"
	cfgKeyRemoteTimeout = "remote.timeout"
	cfgKeyLogLevel      = "log.level"
	cfgKeyLogFormat     = "log.format"
	cfgKeyLogFile       = "log.file"
	cfgKeyNATSURL       = "notify.nats_url"
	cfgKeyNATSSubject   = "notify.subject"
	cfgKeyNATSToken     = "notify.token"

	defaultRemoteTimeout = 15 * time.Second
)

// envKeys are read from PINBOARD_* variables. data_dir goes through
// paths.ResolveDataDir instead.
var envKeys = []string{
	cfgKeyCacheBackend,
	cfgKeyRemoteURL,
	cfgKeyRemoteTimeout,
	cfgKeyLogLevel,
	cfgKeyLogFormat,
	cfgKeyLogFile,
	cfgKeyNATSURL,
	cfgKeyNATSSubject,
	cfgKeyNATSToken,
}

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# pinboard configuration

# Local cache driver: json, sqlite or memory
cache:
  backend: json

# Remote Postgres store. Leave url empty to work offline only.
# Secrets are better kept in .env as PINBOARD_REMOTE_URL.
remote:
  url: ""
  timeout: 15s

log:
  level: warn
  format: text
  # file: /var/log/pinboard.log

# Optional NATS change feed
notify:
  nats_url: ""
  subject: pinboard.state

# Data directory (optional; overridable by --data-dir flag)
# data_dir:
`

// loadConfig reads config.yaml from configDir, creating the directory and a
// default file on first run. A .env file next to it is loaded into the
// process environment first; existing variables win.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}
	if err := loadEnvFile(filepath.Join(configDir, paths.EnvFileName)); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault(cfgKeyCacheBackend, types.CacheJSON)
	v.SetDefault(cfgKeyRemoteTimeout, defaultRemoteTimeout)
	v.SetDefault(cfgKeyLogLevel, "warn")
	v.SetDefault(cfgKeyLogFormat, "text")
	v.SetDefault(cfgKeyNATSSubject, types.DefaultNotifySubject)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// loadEnvFile loads path with godotenv when it exists.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile writes defaultConfigYAML unless config.yaml exists.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, paths.ConfigFileName)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// buildConfig turns settings into a validated engine Config.
func buildConfig(v *viper.Viper, dataDir string) (types.Config, error) {
	cfg := types.Config{
		DataDir: dataDir,
		Cache: types.CacheConfig{
			Backend: v.GetString(cfgKeyCacheBackend),
			DataDir: dataDir,
		},
		Remote: types.RemoteConfig{
			URL:     v.GetString(cfgKeyRemoteURL),
			Timeout: v.GetDuration(cfgKeyRemoteTimeout),
		},
		Notify: types.NotifyConfig{
			NATSURL: v.GetString(cfgKeyNATSURL),
			Subject: v.GetString(cfgKeyNATSSubject),
		},
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, userError{err: fmt.Errorf("config: %w", err)}
	}
	return cfg, nil
}
