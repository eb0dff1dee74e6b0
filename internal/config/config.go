package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/jask/se/internal/httperr"
	"github.com/jask/se/internal/overlay"
	"github.com/jask/se/internal/store"
)

// Config holds application configuration.
type Config struct {
	Document  DocumentConfig  `mapstructure:"document"`
	Bootstrap BootstrapConfig `mapstructure:"bootstrap"`
	UI        UIConfig        `mapstructure:"ui"`
	Session   SessionConfig   `mapstructure:"session"`
	Log       LogConfig       `mapstructure:"log"`
}

// DocumentConfig describes the host page.
type DocumentConfig struct {
	BaseHref string `mapstructure:"base_href"`
}

// BootstrapConfig is the file form of the bootstrap document. Names read
// from a file are lowercased by viper.
type BootstrapConfig struct {
	Constants map[string]any    `mapstructure:"constants"`
	Values    map[string]any    `mapstructure:"values"`
	BaseURL   string            `mapstructure:"base_url"`
	APIURL    map[string]string `mapstructure:"api_url"`
	Resources map[string]string `mapstructure:"resources"`

	// HasBaseURL is set when base_url was given, even if empty.
	HasBaseURL bool `mapstructure:"-"`
}

// UIConfig overrides overlay texts and timings.
type UIConfig struct {
	BlockMessage    string        `mapstructure:"block_message"`
	BlockStyle      string        `mapstructure:"block_style"`
	BlockDelay      time.Duration `mapstructure:"block_delay"`
	DialogTitle     string        `mapstructure:"dialog_title"`
	DialogMessage   string        `mapstructure:"dialog_message"`
	DialogErrorText string        `mapstructure:"dialog_error_text"`
	OKText          string        `mapstructure:"ok_text"`
	CancelText      string        `mapstructure:"cancel_text"`
	NotifyStyle     string        `mapstructure:"notify_style"`
	NotifyDelay     time.Duration `mapstructure:"notify_delay"`

	NotFoundMessage         string `mapstructure:"not_found_message"`
	InternalErrorMessage    string `mapstructure:"internal_error_message"`
	ConnectionFailedMessage string `mapstructure:"connection_failed_message"`
}

// SessionConfig holds the sqlite session store settings.
type SessionConfig struct {
	Path string `mapstructure:"path"`
	ID   string `mapstructure:"id"`
	// SealToken encrypts the Authorization token entry.
	SealToken bool `mapstructure:"seal_token"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	File        string `mapstructure:"file"`
	Development bool   `mapstructure:"development"`
}

// boolKeys are the settings the schema types as boolean.
var boolKeys = []string{"session.seal_token", "log.development"}

// coerceBools replaces string values of keys, as read from SE_ variables,
// with the boolean they spell. Strings that are not booleans are left for the
// schema to reject.
func coerceBools(v *viper.Viper, settings map[string]any, keys ...string) {
	for _, key := range keys {
		raw, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		b, err := cast.ToBoolE(strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		parts := strings.Split(key, ".")
		section, ok := settings[parts[0]].(map[string]any)
		if !ok {
			continue
		}
		section[parts[1]] = b
	}
}

// Load reads configuration from SE_CONFIG or the default location. Env var
// overrides use prefix SE_.
func Load() (Config, error) {
	return LoadFile(os.Getenv("SE_CONFIG"))
}

// LoadFile reads configuration from path. An empty path searches
// ~/.config/se/config.toml and falls back to defaults when none exists.
func LoadFile(path string) (Config, error) {
	v := viper.New()

	// default values
	d := overlay.StandardDefaults()
	v.SetDefault("document.base_href", "/")
	v.SetDefault("ui.block_message", d.BlockMessage)
	v.SetDefault("ui.block_style", d.BlockStyle)
	v.SetDefault("ui.block_delay", d.BlockDelay.String())
	v.SetDefault("ui.dialog_title", d.DialogTitle)
	v.SetDefault("ui.dialog_message", d.DialogMessage)
	v.SetDefault("ui.dialog_error_text", d.DialogErrorText)
	v.SetDefault("ui.ok_text", d.OKText)
	v.SetDefault("ui.cancel_text", d.CancelText)
	v.SetDefault("ui.notify_style", d.NotifyStyle)
	v.SetDefault("ui.notify_delay", d.NotifyDelay.String())
	m := httperr.DefaultMessages()
	v.SetDefault("ui.not_found_message", m.NotFound)
	v.SetDefault("ui.internal_error_message", m.InternalError)
	v.SetDefault("ui.connection_failed_message", m.ConnectionFailed)
	v.SetDefault("session.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "se", "session.db"))
	v.SetDefault("session.id", "")
	v.SetDefault("session.seal_token", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.development", false)

	v.SetConfigType("toml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "se"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	settings := v.AllSettings()
	coerceBools(v, settings, boolKeys...)
	if err := Validate(settings); err != nil {
		return Config{}, err
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if v.IsSet("bootstrap.base_url") {
		c.Bootstrap.BaseURL = v.GetString("bootstrap.base_url")
		c.Bootstrap.HasBaseURL = true
	}
	return c, nil
}

// Save writes the provided config to path, creating the directory if needed.
func Save(cfg Config, path string) error {
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "se", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("document.base_href", cfg.Document.BaseHref)
	if cfg.Bootstrap.HasBaseURL {
		v.Set("bootstrap.base_url", cfg.Bootstrap.BaseURL)
	}
	setMap := func(key string, m map[string]any) {
		if len(m) > 0 {
			v.Set(key, m)
		}
	}
	setMap("bootstrap.constants", cfg.Bootstrap.Constants)
	setMap("bootstrap.values", cfg.Bootstrap.Values)
	if len(cfg.Bootstrap.APIURL) > 0 {
		v.Set("bootstrap.api_url", cfg.Bootstrap.APIURL)
	}
	if len(cfg.Bootstrap.Resources) > 0 {
		v.Set("bootstrap.resources", cfg.Bootstrap.Resources)
	}
	v.Set("ui.block_message", cfg.UI.BlockMessage)
	v.Set("ui.block_style", cfg.UI.BlockStyle)
	v.Set("ui.block_delay", cfg.UI.BlockDelay.String())
	v.Set("ui.dialog_title", cfg.UI.DialogTitle)
	v.Set("ui.dialog_message", cfg.UI.DialogMessage)
	v.Set("ui.dialog_error_text", cfg.UI.DialogErrorText)
	v.Set("ui.ok_text", cfg.UI.OKText)
	v.Set("ui.cancel_text", cfg.UI.CancelText)
	v.Set("ui.notify_style", cfg.UI.NotifyStyle)
	v.Set("ui.notify_delay", cfg.UI.NotifyDelay.String())
	v.Set("ui.not_found_message", cfg.UI.NotFoundMessage)
	v.Set("ui.internal_error_message", cfg.UI.InternalErrorMessage)
	v.Set("ui.connection_failed_message", cfg.UI.ConnectionFailedMessage)
	v.Set("session.path", cfg.Session.Path)
	v.Set("session.id", cfg.Session.ID)
	v.Set("session.seal_token", cfg.Session.SealToken)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("log.development", cfg.Log.Development)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// BootstrapDocument converts the file form into a store bootstrap document
// carrying handlers.
func (c Config) BootstrapDocument(handlers store.ErrorHandlers) *store.Bootstrap {
	b := &store.Bootstrap{
		Constants: c.Bootstrap.Constants,
		Values:    c.Bootstrap.Values,
		APIURL:    c.Bootstrap.APIURL,
		Resources: c.Bootstrap.Resources,
		HTTP:      &store.HTTPConfig{ErrorHandlers: handlers},
	}
	if c.Bootstrap.HasBaseURL {
		base := c.Bootstrap.BaseURL
		b.BaseURL = &base
	}
	return b
}

// OverlayDefaults returns the overlay defaults configured under [ui].
func (c Config) OverlayDefaults() overlay.Defaults {
	return overlay.Defaults{
		BlockMessage:    c.UI.BlockMessage,
		BlockStyle:      c.UI.BlockStyle,
		BlockDelay:      c.UI.BlockDelay,
		DialogTitle:     c.UI.DialogTitle,
		DialogMessage:   c.UI.DialogMessage,
		DialogErrorText: c.UI.DialogErrorText,
		OKText:          c.UI.OKText,
		CancelText:      c.UI.CancelText,
		NotifyStyle:     c.UI.NotifyStyle,
		NotifyDelay:     c.UI.NotifyDelay,
	}
}

// HTTPMessages returns the fixed HTTP failure notifications.
func (c Config) HTTPMessages() httperr.Messages {
	return httperr.Messages{
		NotFound:         c.UI.NotFoundMessage,
		InternalError:    c.UI.InternalErrorMessage,
		ConnectionFailed: c.UI.ConnectionFailedMessage,
	}
}
