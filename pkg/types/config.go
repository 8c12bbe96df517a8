package types

import (
	"errors"
	"time"
)

// Config holds everything needed to assemble an engine.
type Config struct {
	DataDir string       `json:"data_dir" yaml:"data_dir"`
	Cache   CacheConfig  `json:"cache" yaml:"cache"`
	Remote  RemoteConfig `json:"remote" yaml:"remote"`
	Notify  NotifyConfig `json:"notify" yaml:"notify"`
}

// CacheConfig selects the local persistence driver.
type CacheConfig struct {
	Backend string `json:"backend" yaml:"backend"`
	// DataDir is filled from Config.DataDir when empty.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// RemoteConfig describes the remote relational store. An empty URL means
// the engine runs purely locally.
type RemoteConfig struct {
	URL     string        `json:"url" yaml:"url"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// Enabled reports whether a remote store is configured.
func (c RemoteConfig) Enabled() bool {
	return c.URL != ""
}

// NotifyConfig configures the optional NATS change feed.
type NotifyConfig struct {
	NATSURL string `json:"nats_url" yaml:"nats_url"`
	Subject string `json:"subject" yaml:"subject"`
}

// Supported cache backends.
const (
	CacheJSON   = "json"
	CacheSQLite = "sqlite"
	CacheMemory = "memory"
)

// DefaultNotifySubject is used when NotifyConfig.Subject is empty.
const DefaultNotifySubject = "pinboard.state"

// Config validation errors.
var (
	ErrCacheUnknown    = errors.New("unknown cache backend")
	ErrTimeoutNegative = errors.New("remote timeout must not be negative")
)

var knownCaches = map[string]bool{
	CacheJSON:   true,
	CacheSQLite: true,
	CacheMemory: true,
}

// Validate checks that the Config is well-formed. An empty cache backend is
// accepted and means CacheJSON.
func (c Config) Validate() error {
	if c.Cache.Backend != "" && !knownCaches[c.Cache.Backend] {
		return ErrCacheUnknown
	}
	if c.Remote.Timeout < 0 {
		return ErrTimeoutNegative
	}
	return nil
}

// GetCacheBackend returns the effective cache backend.
func (c CacheConfig) GetCacheBackend() string {
	if c.Backend == "" {
		return CacheJSON
	}
	return c.Backend
}
