package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// APIConfig holds settings for the REST backend connection.
type APIConfig struct {
	// BaseURL is the root of the REST API, including the /api prefix.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec bounds each HTTP request.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// Timeout returns the request timeout as a duration.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// NotifyConfig holds settings for overdue reminders and toasts.
type NotifyConfig struct {
	IntervalSec int `mapstructure:"interval_sec" yaml:"interval_sec"`
	ToastMs     int `mapstructure:"toast_ms" yaml:"toast_ms"`
}

// Interval returns the reminder scan period.
func (c NotifyConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSec) * time.Second
}

// ToastTTL returns how long a toast stays visible.
func (c NotifyConfig) ToastTTL() time.Duration {
	return time.Duration(c.ToastMs) * time.Millisecond
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// LogConfig controls the application log.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// CredentialConfig selects where the auth token is kept.
type CredentialConfig struct {
	// Backend forces a keyring backend (e.g. "file"). Empty uses the
	// platform default.
	Backend string `mapstructure:"backend" yaml:"backend"`
}

// DevServerConfig configures the bundled development backend.
type DevServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
	DB   string `mapstructure:"db" yaml:"db"`

	// Outbox is a directory verification mails are written to. Empty logs them.
	Outbox string `mapstructure:"outbox" yaml:"outbox"`
}

// MailboxConfig points at the IMAP inbox verification codes are read from.
// The password is kept in the keyring.
type MailboxConfig struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     string `mapstructure:"port" yaml:"port"`
	Username string `mapstructure:"username" yaml:"username"`
	TLS      bool   `mapstructure:"tls" yaml:"tls"`
	PollSec  int    `mapstructure:"poll_sec" yaml:"poll_sec"`
}

// PollInterval returns how often the inbox is checked, 5s when unset.
func (c MailboxConfig) PollInterval() time.Duration {
	if c.PollSec <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.PollSec) * time.Second
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API        APIConfig        `mapstructure:"api" yaml:"api"`
	Notify     NotifyConfig     `mapstructure:"notify" yaml:"notify"`
	Display    DisplayConfig    `mapstructure:"display" yaml:"display"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	Credential CredentialConfig `mapstructure:"credential" yaml:"credential"`
	DevServer  DevServerConfig  `mapstructure:"devserver" yaml:"devserver"`
	Mailbox    MailboxConfig    `mapstructure:"mailbox" yaml:"mailbox"`
}

// ConfigDir returns ~/.config/taskboard.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "taskboard")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/taskboard/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultAppConfig returns the configuration used when no file exists.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		API: APIConfig{
			BaseURL:    "http://localhost:8080/api",
			TimeoutSec: 30,
		},
		Notify: NotifyConfig{
			IntervalSec: 5,
			ToastMs:     2500,
		},
		Display: DisplayConfig{Theme: "light"},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(ConfigDir(), "taskboard.log"),
		},
		DevServer: DevServerConfig{
			Addr: ":8080",
			DB:   ":memory:",
		},
		Mailbox: MailboxConfig{Port: "993", TLS: true, PollSec: 5},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultAppConfig()
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout_sec", d.API.TimeoutSec)
	v.SetDefault("notify.interval_sec", d.Notify.IntervalSec)
	v.SetDefault("notify.toast_ms", d.Notify.ToastMs)
	v.SetDefault("display.theme", d.Display.Theme)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("credential.backend", d.Credential.Backend)
	v.SetDefault("devserver.addr", d.DevServer.Addr)
	v.SetDefault("devserver.db", d.DevServer.DB)
	v.SetDefault("devserver.outbox", d.DevServer.Outbox)
	v.SetDefault("mailbox.host", d.Mailbox.Host)
	v.SetDefault("mailbox.port", d.Mailbox.Port)
	v.SetDefault("mailbox.username", d.Mailbox.Username)
	v.SetDefault("mailbox.tls", d.Mailbox.TLS)
	v.SetDefault("mailbox.poll_sec", d.Mailbox.PollSec)
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Environment variables prefixed with TASKBOARD_ override file values. If the
// file does not exist, defaults (plus environment overrides) are returned.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("TASKBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.API.TimeoutSec <= 0 {
		cfg.API.TimeoutSec = 30
	}
	if cfg.Notify.IntervalSec <= 0 {
		cfg.Notify.IntervalSec = 5
	}
	if cfg.Notify.ToastMs <= 0 {
		cfg.Notify.ToastMs = 2500
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("notify", cfg.Notify)
	v.Set("display", cfg.Display)
	v.Set("log", cfg.Log)
	v.Set("credential", cfg.Credential)
	v.Set("devserver", cfg.DevServer)
	v.Set("mailbox", cfg.Mailbox)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
