// Package config provides configuration management for docforge using Viper
// for loading from files, environment variables, and command-line flags.
//
// Values are read from .docforge.yml (or the file named by --config or
// DOCFORGE_CONFIG_FILE) and may be overridden with DOCFORGE_ prefixed
// environment variables, e.g. DOCFORGE_CACHE_FOLDER or DOCFORGE_LOG_LEVEL.
// The runtime section describes the host runtime inspected at bootstrap.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/docforge/docforge/internal/errors"
	"github.com/docforge/docforge/internal/logging"
)

// Viper keys shared between flags, config files and the environment.
const (
	KeyLogLevel          = "log.level"
	KeyLogFormat         = "log.format"
	KeyInstallRoot       = "install_root"
	KeyCacheFolder       = "cache.folder"
	KeyRuntimeSettings   = "runtime.settings"
	KeyRuntimeExtensions = "runtime.extensions"
)

type Config struct {
	Log         LogConfig     `yaml:"log" json:"log"`
	InstallRoot string        `yaml:"install_root" json:"install_root"`
	Cache       CacheConfig   `yaml:"cache" json:"cache"`
	Runtime     RuntimeConfig `yaml:"runtime" json:"runtime"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

type CacheConfig struct {
	// Folder is left empty unless configured; there is no implicit default.
	Folder string `yaml:"folder" json:"folder"`
}

// RuntimeConfig describes the host runtime the generator's analysis layer
// runs under: its settings (e.g. "opcache.save_comments") and the
// extensions it has loaded.
//
// Setting names compare case-insensitively with "." and "_" treated alike,
// so DOCFORGE_RUNTIME_SETTINGS_OPCACHE_SAVE_COMMENTS=0 sets
// opcache.save_comments. Extensions given as a single string, as they are
// in DOCFORGE_RUNTIME_EXTENSIONS, are comma separated.
type RuntimeConfig struct {
	Settings   map[string]string `yaml:"settings" json:"settings"`
	Extensions []string          `yaml:"extensions" json:"extensions"`
}

// SettingsEnvPrefix introduces one runtime setting per environment variable.
const SettingsEnvPrefix = EnvPrefix + "_RUNTIME_SETTINGS_"

// SettingKey returns the canonical form of a runtime setting name.
func SettingKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), ".", "_")
}

// Setting looks up name by its canonical form.
func (r *RuntimeConfig) Setting(name string) (string, bool) {
	want := SettingKey(name)
	for k, v := range r.Settings {
		if SettingKey(k) == want {
			return v, true
		}
	}
	return "", false
}

// MergeSettings overlays src on the current settings. An entry in src
// replaces every existing spelling of the same setting.
func (r *RuntimeConfig) MergeSettings(src map[string]string) {
	if r.Settings == nil {
		r.Settings = make(map[string]string, len(src))
	}
	for name, value := range src {
		key := SettingKey(name)
		for existing := range r.Settings {
			if SettingKey(existing) == key {
				delete(r.Settings, existing)
			}
		}
		r.Settings[strings.ToLower(strings.TrimSpace(name))] = value
	}
}

// envSettings collects DOCFORGE_RUNTIME_SETTINGS_<NAME>=<value> entries.
func envSettings(environ []string) map[string]string {
	settings := make(map[string]string)
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, SettingsEnvPrefix) {
			continue
		}
		if key := strings.TrimPrefix(name, SettingsEnvPrefix); key != "" {
			settings[strings.ToLower(key)] = value
		}
	}
	return settings
}

// extensionList reads the extension names. A plain string, as delivered by
// the environment, is split on commas so names containing spaces survive.
func extensionList(v *viper.Viper) []string {
	raw, ok := v.Get(KeyRuntimeExtensions).(string)
	if !ok {
		return v.GetStringSlice(KeyRuntimeExtensions)
	}
	var names []string
	for _, name := range strings.Split(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.GetViper()
	}

	cfg := &Config{
		Log: LogConfig{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
		},
		InstallRoot: strings.TrimSpace(v.GetString(KeyInstallRoot)),
		Cache: CacheConfig{
			Folder: v.GetString(KeyCacheFolder),
		},
		Runtime: RuntimeConfig{
			Settings:   make(map[string]string),
			Extensions: extensionList(v),
		},
	}

	cfg.Runtime.MergeSettings(v.GetStringMapString(KeyRuntimeSettings))
	cfg.Runtime.MergeSettings(envSettings(os.Environ()))

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoggerConfig translates the log section into a logger configuration.
func (c *Config) LoggerConfig() *logging.LoggerConfig {
	lc := logging.DefaultConfig()
	if level, err := logging.ParseLevel(c.Log.Level); err == nil {
		lc.Level = level
	}
	lc.Format = c.Log.Format
	return lc
}

func validateConfig(cfg *Config) error {
	var vec errors.ValidationErrorCollection

	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		vec.AddField(KeyLogLevel, cfg.Log.Level, "unsupported log level (debug, info, warn, error)")
	}

	switch cfg.Log.Format {
	case "text", "json":
	default:
		vec.AddField(KeyLogFormat, cfg.Log.Format, "unsupported log format (text, json)")
	}

	if strings.ContainsRune(cfg.InstallRoot, 0) {
		vec.AddField(KeyInstallRoot, cfg.InstallRoot, "path contains NUL byte")
	}

	// The storage layer owns existence and permission checks for the cache
	// folder; only reject values no filesystem could accept.
	if strings.ContainsRune(cfg.Cache.Folder, 0) {
		vec.AddField(KeyCacheFolder, cfg.Cache.Folder, "path contains NUL byte")
	}

	for _, ext := range cfg.Runtime.Extensions {
		if strings.TrimSpace(ext) == "" {
			vec.AddField(KeyRuntimeExtensions, ext, "empty extension name")
		}
	}

	return vec.ErrOrNil()
}

// EnvPrefix is prepended to every environment override, e.g. DOCFORGE_LOG_LEVEL.
const EnvPrefix = "DOCFORGE"

// BindEnv enables DOCFORGE_ prefixed environment overrides on v.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}
