package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// IMAPConfig holds the settings for the mailbox the extractor watches.
type IMAPConfig struct {
	// Host is the IMAP server hostname.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the IMAP server port.
	Port string `mapstructure:"port" yaml:"port"`

	// Username is the mailbox login. The password is read from the
	// system keyring, never from this file.
	Username string `mapstructure:"username" yaml:"username"`

	// TLS selects implicit TLS; when false STARTTLS is used.
	TLS bool `mapstructure:"tls" yaml:"tls"`

	// Mailbox is the folder to watch for task emails.
	Mailbox string `mapstructure:"mailbox" yaml:"mailbox"`

	// BatchSize caps how many messages one sync run processes.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// StoreConfig holds the local persistence settings.
type StoreConfig struct {
	// Path is the SQLite database file location.
	Path string `mapstructure:"path" yaml:"path"`
}

// AppConfig is the top-level service configuration.
type AppConfig struct {
	IMAP    IMAPConfig     `mapstructure:"imap" yaml:"imap"`
	Extract ExtractOptions `mapstructure:"extract" yaml:"extract"`
	Store   StoreConfig    `mapstructure:"store" yaml:"store"`

	// Timezone is the IANA zone used to anchor relative due dates.
	Timezone string `mapstructure:"timezone" yaml:"timezone"`

	// PollIntervalSec is how often (in seconds) to check the mailbox.
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/task-extractor/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "task-extractor", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		IMAP: IMAPConfig{
			Port:      "993",
			TLS:       true,
			Mailbox:   "INBOX",
			BatchSize: 50,
		},
		Extract: ExtractOptions{
			TitleFallback: TitleFromSubject,
			MailEmoji:     EmojiOmit,
			DateFormat:    DateOrderUS,
		},
		Store: StoreConfig{
			Path: filepath.Join(filepath.Dir(DefaultConfigPath()), "records.db"),
		},
		Timezone:        "UTC",
		PollIntervalSec: 120,
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("imap.port", "993")
	v.SetDefault("imap.tls", true)
	v.SetDefault("imap.mailbox", "INBOX")
	v.SetDefault("imap.batch_size", 50)
	v.SetDefault("extract.title_fallback", string(TitleFromSubject))
	v.SetDefault("extract.mail_emoji", string(EmojiOmit))
	v.SetDefault("extract.date_format", string(DateOrderUS))
	v.SetDefault("timezone", "UTC")
	v.SetDefault("poll_interval_sec", 120)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.Extract = cfg.Extract.Normalize()

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

	v.Set("imap", cfg.IMAP)
	v.Set("extract", cfg.Extract)
	v.Set("store", cfg.Store)
	v.Set("timezone", cfg.Timezone)
	v.Set("poll_interval_sec", cfg.PollIntervalSec)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
