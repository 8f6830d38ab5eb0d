package bootstrap

import (
	"fmt"
	"math"
	"os"
	"runtime/debug"
	"strings"
	"time"
)

// TimezoneSetting is the runtime setting consulted for an explicit timezone.
const TimezoneSetting = "date.timezone"

// DefaultTimezone is forced when the runtime has no timezone configured.
const DefaultTimezone = "UTC"

// Environment is the host runtime seen by the bootstrap: read access to its
// settings and loaded extensions, plus the two overrides normalization makes.
type Environment interface {
	LookupSetting(key string) (string, bool)
	ExtensionLoaded(name string) bool
	SetTimezone(name string) error
	DisableMemoryLimit() int64
}

// ProcessEnvironment is the Environment of the running process. Settings and
// extensions come from configuration; the timezone also honours TZ. Setting
// names match case-insensitively with "." and "_" treated alike.
type ProcessEnvironment struct {
	settings   map[string]string
	extensions map[string]struct{}
}

// NewProcessEnvironment builds an environment from configured runtime
// settings and extension names. Both may be nil.
func NewProcessEnvironment(settings map[string]string, extensions []string) *ProcessEnvironment {
	pe := &ProcessEnvironment{
		settings:   make(map[string]string, len(settings)),
		extensions: make(map[string]struct{}, len(extensions)),
	}
	for k, v := range settings {
		pe.settings[settingKey(k)] = v
	}
	for _, name := range extensions {
		pe.extensions[normalizeExtension(name)] = struct{}{}
	}
	return pe
}

// LookupSetting returns the configured value for key.
func (pe *ProcessEnvironment) LookupSetting(key string) (string, bool) {
	key = settingKey(key)
	if v, ok := pe.settings[key]; ok {
		return v, true
	}
	if key == settingKey(TimezoneSetting) {
		return os.LookupEnv("TZ")
	}
	return "", false
}

// ExtensionLoaded reports whether name is among the loaded extensions.
// Names compare case-insensitively.
func (pe *ProcessEnvironment) ExtensionLoaded(name string) bool {
	_, ok := pe.extensions[normalizeExtension(name)]
	return ok
}

// SetTimezone makes name the process-wide local timezone.
func (pe *ProcessEnvironment) SetTimezone(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", name, err)
	}
	time.Local = loc
	if err := os.Setenv("TZ", name); err != nil {
		return fmt.Errorf("export TZ: %w", err)
	}
	pe.settings[settingKey(TimezoneSetting)] = name
	return nil
}

// DisableMemoryLimit lifts the Go runtime soft memory limit and returns the
// limit that was in effect before.
func (pe *ProcessEnvironment) DisableMemoryLimit() int64 {
	return debug.SetMemoryLimit(math.MaxInt64)
}

func settingKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), ".", "_")
}

func normalizeExtension(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// truthy follows the usual ini conventions: empty, "0", "off", "false" and
// "no" are false, anything else is true.
func truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "0", "off", "false", "no":
		return false
	default:
		return true
	}
}
