package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docforge/docforge/internal/logging"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(v *viper.Viper)
		expectError bool
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:  "defaults",
			setup: func(v *viper.Viper) {},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "info", cfg.Log.Level)
				assert.Equal(t, "text", cfg.Log.Format)
				assert.Empty(t, cfg.Cache.Folder, "cache folder has no implicit default")
				assert.Empty(t, cfg.InstallRoot)
			},
		},
		{
			name: "explicit values",
			setup: func(v *viper.Viper) {
				v.Set(KeyLogLevel, "debug")
				v.Set(KeyLogFormat, "json")
				v.Set(KeyInstallRoot, " /opt/docforge ")
				v.Set(KeyCacheFolder, "/var/cache/docforge")
				v.Set(KeyRuntimeSettings, map[string]string{"opcache.save_comments": "1"})
				v.Set(KeyRuntimeExtensions, []string{"Zend OPcache"})
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Log.Level)
				assert.Equal(t, "json", cfg.Log.Format)
				assert.Equal(t, "/opt/docforge", cfg.InstallRoot)
				assert.Equal(t, "/var/cache/docforge", cfg.Cache.Folder)
				assert.Equal(t, "1", cfg.Runtime.Settings["opcache.save_comments"])
				assert.Equal(t, []string{"Zend OPcache"}, cfg.Runtime.Extensions)
			},
		},
		{
			name:        "invalid log level",
			setup:       func(v *viper.Viper) { v.Set(KeyLogLevel, "loud") },
			expectError: true,
		},
		{
			name:        "invalid log format",
			setup:       func(v *viper.Viper) { v.Set(KeyLogFormat, "xml") },
			expectError: true,
		},
		{
			name:        "cache folder with NUL byte",
			setup:       func(v *viper.Viper) { v.Set(KeyCacheFolder, "cache\x00dir") },
			expectError: true,
		},
		{
			name:        "blank extension name",
			setup:       func(v *viper.Viper) { v.Set(KeyRuntimeExtensions, []string{" "}) },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			tt.setup(v)

			cfg, err := Load(v)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.check(t, cfg)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".docforge.yml")
	content := `log:
  level: warn
cache:
  folder: /tmp/docforge-cache
runtime:
  extensions:
    - Zend OPcache
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "/tmp/docforge-cache", cfg.Cache.Folder)
	assert.Equal(t, []string{"Zend OPcache"}, cfg.Runtime.Extensions)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DOCFORGE_CACHE_FOLDER", "/env/cache")
	t.Setenv("DOCFORGE_LOG_LEVEL", "error")

	v := viper.New()
	SetDefaults(v)
	BindEnv(v)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "/env/cache", cfg.Cache.Folder)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoggerConfig(t *testing.T) {
	cfg := &Config{Log: LogConfig{Level: "debug", Format: "json"}}

	lc := cfg.LoggerConfig()

	assert.Equal(t, logging.LevelDebug, lc.Level)
	assert.Equal(t, "json", lc.Format)
}

func TestLoadRuntimeFromEnvironment(t *testing.T) {
	t.Setenv("DOCFORGE_RUNTIME_EXTENSIONS", "Zend OPcache, Zend Optimizer+ ,")
	t.Setenv("DOCFORGE_RUNTIME_SETTINGS_OPCACHE_SAVE_COMMENTS", "0")
	t.Setenv("DOCFORGE_RUNTIME_SETTINGS_DATE_TIMEZONE", "Europe/Paris")

	v := viper.New()
	SetDefaults(v)
	BindEnv(v)
	v.Set(KeyRuntimeSettings, map[string]string{
		"opcache.save_comments": "1",
		"opcache.enable":        "1",
	})

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, []string{"Zend OPcache", "Zend Optimizer+"}, cfg.Runtime.Extensions)

	saveComments, ok := cfg.Runtime.Setting("opcache.save_comments")
	require.True(t, ok)
	assert.Equal(t, "0", saveComments, "environment overrides file")

	enable, ok := cfg.Runtime.Setting("opcache.enable")
	require.True(t, ok)
	assert.Equal(t, "1", enable)

	tz, ok := cfg.Runtime.Setting("date.timezone")
	require.True(t, ok)
	assert.Equal(t, "Europe/Paris", tz)

	assert.Len(t, cfg.Runtime.Settings, 3, "one entry per setting")
}

func TestMergeSettings(t *testing.T) {
	tests := []struct {
		name     string
		initial  map[string]string
		src      map[string]string
		lookup   string
		expected string
		size     int
	}{
		{
			name:     "into nil map",
			src:      map[string]string{"opcache.enable": "1"},
			lookup:   "opcache.enable",
			expected: "1",
			size:     1,
		},
		{
			name:     "underscore spelling replaces dotted",
			initial:  map[string]string{"opcache.save_comments": "1"},
			src:      map[string]string{"opcache_save_comments": "0"},
			lookup:   "opcache.save_comments",
			expected: "0",
			size:     1,
		},
		{
			name:     "case and whitespace are ignored",
			initial:  map[string]string{"Date.Timezone": "UTC"},
			src:      map[string]string{" date.timezone ": "Asia/Tokyo"},
			lookup:   "DATE_TIMEZONE",
			expected: "Asia/Tokyo",
			size:     1,
		},
		{
			name:     "unrelated settings are kept",
			initial:  map[string]string{"opcache.enable": "1"},
			src:      map[string]string{"opcache.enable_cli": "0"},
			lookup:   "opcache.enable",
			expected: "1",
			size:     2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &RuntimeConfig{Settings: tt.initial}

			r.MergeSettings(tt.src)

			value, ok := r.Setting(tt.lookup)
			require.True(t, ok)
			assert.Equal(t, tt.expected, value)
			assert.Len(t, r.Settings, tt.size)
		})
	}
}

func TestEnvSettings(t *testing.T) {
	settings := envSettings([]string{
		"DOCFORGE_RUNTIME_SETTINGS_OPCACHE_ENABLE_CLI=1",
		"DOCFORGE_RUNTIME_SETTINGS_EMPTY=",
		"DOCFORGE_RUNTIME_SETTINGS_=ignored",
		"DOCFORGE_LOG_LEVEL=debug",
		"PATH=/usr/bin",
		"malformed",
	})

	assert.Equal(t, map[string]string{
		"opcache_enable_cli": "1",
		"empty":              "",
	}, settings)
}
