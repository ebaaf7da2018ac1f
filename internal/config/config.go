// Package config loads ocrbot settings from defaults, a TOML file and the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/user/ocrbot/internal/errs"
)

// EnvPrefix starts every namespaced environment override. A double
// underscore separates sections: OCRBOT_FETCH__CONCURRENCY sets
// fetch.concurrency.
const EnvPrefix = "OCRBOT_"

type Config struct {
	LogLevel string `koanf:"log_level"`
	Discord  struct {
		Token    string `koanf:"token"`
		ClientID string `koanf:"client_id"`
	} `koanf:"discord"`
	Presence struct {
		Interval   time.Duration `koanf:"interval"`
		Activities []string      `koanf:"activities"`
	} `koanf:"presence"`
	Fetch struct {
		RetryLimit   int           `koanf:"retry_limit"`
		RetryDelay   time.Duration `koanf:"retry_delay"`
		Timeout      time.Duration `koanf:"timeout"`
		MaxBodyBytes int64         `koanf:"max_body_bytes"`
		Concurrency  int           `koanf:"concurrency"`
		UserAgent    string        `koanf:"user_agent"`
	} `koanf:"fetch"`
	OCR struct {
		Languages   []string `koanf:"languages"`
		TessdataDir string   `koanf:"tessdata_dir"`
	} `koanf:"ocr"`
	Webhook struct {
		Enabled bool   `koanf:"enabled"`
		Addr    string `koanf:"addr"`
		Token   string `koanf:"token"`
		MaxURLs int    `koanf:"max_urls"`
	} `koanf:"webhook"`

	k *koanf.Koanf
}

// Defaults returns the built-in settings as koanf keys.
func Defaults() map[string]any {
	return map[string]any{
		"log_level":            "info",
		"discord.token":        "",
		"discord.client_id":    "",
		"presence.interval":    30 * time.Minute,
		"presence.activities":  []string{"Having a bad time"},
		"fetch.retry_limit":    5,
		"fetch.retry_delay":    time.Second,
		"fetch.timeout":        30 * time.Second,
		"fetch.max_body_bytes": int64(25 << 20),
		"fetch.concurrency":    4,
		"fetch.user_agent":     "ocrbot/1.0",
		"ocr.languages":        []string{"eng", "chi_sim", "jpn", "kor"},
		"ocr.tessdata_dir":     "",
		"webhook.enabled":      false,
		"webhook.addr":         "127.0.0.1:8080",
		"webhook.token":        "",
		"webhook.max_urls":     10,
	}
}

// DefaultPath returns the config file location under the XDG config home.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "ocrbot", "config.toml")
}

// legacyEnv maps the bot's historical environment variables to keys.
// Millisecond values are converted to durations.
var legacyEnv = []struct {
	name string
	key  string
	ms   bool
}{
	{"DISCORD_TOKEN", "discord.token", false},
	{"DISCORD_CLIENT_ID", "discord.client_id", false},
	{"PRESENCE_INTERVAL", "presence.interval", true},
	{"FETCH_RETRY_LIMIT", "fetch.retry_limit", false},
	{"FETCH_RETRY_DELAY", "fetch.retry_delay", true},
}

// Load reads settings in increasing precedence: defaults, the TOML file at
// path (if it exists), legacy environment variables, then OCRBOT_*
// variables. An empty path selects DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, errs.Wrap(err, errs.Config, "load defaults")
	}

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errs.Wrapf(err, errs.Config, "load config from %s", path)
		}
	} else if !os.IsNotExist(err) {
		return nil, errs.Wrapf(err, errs.Config, "stat config %s", path)
	}

	legacy, err := legacyValues()
	if err != nil {
		return nil, err
	}
	if err := k.Load(confmap.Provider(legacy, "."), nil); err != nil {
		return nil, errs.Wrap(err, errs.Config, "load legacy env vars")
	}

	err = k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, errs.Wrap(err, errs.Config, "load env vars")
	}

	cfg := &Config{k: k}
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", cfg, unmarshalConf); err != nil {
		return nil, errs.Wrap(err, errs.Config, "unmarshal configuration")
	}
	return cfg, nil
}

func legacyValues() (map[string]any, error) {
	out := make(map[string]any)
	for _, e := range legacyEnv {
		v, ok := os.LookupEnv(e.name)
		if !ok || v == "" {
			continue
		}
		if !e.ms {
			out[e.key] = v
			continue
		}
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, errs.Wrapf(err, errs.Config, "%s must be a number of milliseconds", e.name)
		}
		out[e.key] = time.Duration(n) * time.Millisecond
	}
	return out, nil
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks settings that would make the bot misbehave at runtime.
func (c *Config) Validate() error {
	switch {
	case !logLevels[strings.ToLower(c.LogLevel)]:
		return errs.Newf(errs.Config, "log_level %q must be one of debug, info, warn, error", c.LogLevel)
	case c.Fetch.RetryLimit < 1:
		return errs.Newf(errs.Config, "fetch.retry_limit must be at least 1, got %d", c.Fetch.RetryLimit)
	case c.Fetch.RetryDelay < 0:
		return errs.Newf(errs.Config, "fetch.retry_delay must not be negative, got %s", c.Fetch.RetryDelay)
	case c.Fetch.Concurrency < 1:
		return errs.Newf(errs.Config, "fetch.concurrency must be at least 1, got %d", c.Fetch.Concurrency)
	case c.Fetch.MaxBodyBytes < 1:
		return errs.Newf(errs.Config, "fetch.max_body_bytes must be positive, got %d", c.Fetch.MaxBodyBytes)
	case c.Presence.Interval < time.Second:
		return errs.Newf(errs.Config, "presence.interval must be at least 1s, got %s", c.Presence.Interval)
	case len(c.OCR.Languages) == 0:
		return errs.New(errs.Config, "ocr.languages must not be empty")
	case c.Webhook.Enabled && c.Webhook.Addr == "":
		return errs.New(errs.Config, "webhook.addr is required when the webhook is enabled")
	}
	return nil
}

// RequireDiscord checks the credentials needed to talk to Discord.
func (c *Config) RequireDiscord() error {
	if c.Discord.Token == "" {
		return errs.New(errs.Config, "discord.token is not set (DISCORD_TOKEN)")
	}
	if c.Discord.ClientID == "" {
		return errs.New(errs.Config, "discord.client_id is not set (DISCORD_CLIENT_ID)")
	}
	return nil
}
