package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

// secretKeys lists the dot-separated keys whose values should be masked.
var secretKeys = map[string]bool{
	"discord.token": true,
	"webhook.token": true,
}

// IsSecretKey returns true if the given dot-separated key is a secret.
func IsSecretKey(key string) bool {
	return secretKeys[key]
}

// ListValues returns every effective setting keyed by its dot-separated
// name. Secrets are masked when mask is set.
func (c *Config) ListValues(mask bool) map[string]any {
	if c.k == nil {
		return map[string]any{}
	}
	values := c.k.All()
	if mask {
		values = MaskSecrets(values)
	}
	return values
}

// Keys returns the keys of values in sorted order.
func Keys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetValue returns one effective setting.
func (c *Config) GetValue(key string) (any, bool) {
	if c.k == nil || !c.k.Exists(key) {
		return nil, false
	}
	return c.k.Get(key), true
}

// MaskSecrets returns a copy of the flat map with secret values masked.
// Secrets are shown as "***xxxx" where xxxx is the last 4 characters of the
// value. Empty values are left empty.
func MaskSecrets(flat map[string]any) map[string]any {
	out := make(map[string]any, len(flat))
	for k, v := range flat {
		s, ok := v.(string)
		if !secretKeys[k] || !ok || s == "" {
			out[k] = v
			continue
		}
		if len(s) <= 4 {
			out[k] = "***" + s
		} else {
			out[k] = "***" + s[len(s)-4:]
		}
	}
	return out
}

// WriteDefaults writes the built-in settings as TOML to path. An existing
// file is left untouched unless force is set.
func WriteDefaults(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}

	k := koanf.New(".")
	defaults := Defaults()
	// Durations are written in their string form so they read back through
	// the duration decode hook.
	for key, v := range defaults {
		if s, ok := v.(fmt.Stringer); ok {
			defaults[key] = s.String()
		}
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return fmt.Errorf("load defaults: %w", err)
	}
	data, err := k.Marshal(toml.Parser())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename default config: %w", err)
	}
	return nil
}
