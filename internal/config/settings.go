package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// envPrefix scopes overrides such as ORDERTRACK_SMTP_PASSWORD. Field names map
// to keys without envconfig tags so unprefixed variables like PORT are never read.
const envPrefix = "ORDERTRACK"

// NotificationSettings carries SMTP and SMS credentials for the order tool.
// They are held in memory for the life of the process and never persisted.
type NotificationSettings struct {
	SMTP SMTPSettings `toml:"smtp"`
	SMS  SMSSettings  `toml:"sms"`
}

type SMTPSettings struct {
	Server   string `toml:"server"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
}

// Configured reports whether credentials are present.
func (s SMTPSettings) Configured() bool {
	return s.Username != "" && s.Password != ""
}

// Sender falls back to the username when no from address is set.
func (s SMTPSettings) Sender() string {
	if s.From != "" {
		return s.From
	}
	return s.Username
}

type SMSSettings struct {
	Enabled bool   `toml:"enabled"`
	APIKey  string `toml:"api_key" split_words:"true"`
}

// DefaultNotificationSettings mirrors a stock Gmail submission setup with no credentials.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		SMTP: SMTPSettings{
			Server: "smtp.gmail.com",
			Port:   587,
		},
	}
}

// LoadNotificationSettings reads an optional TOML file and applies ORDERTRACK_* env overrides.
// An empty path or a missing file yields the defaults.
func LoadNotificationSettings(path string) (NotificationSettings, error) {
	settings := DefaultNotificationSettings()

	if path != "" {
		file, err := os.Open(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return settings, fmt.Errorf("open settings: %w", err)
		default:
			defer file.Close()
			if err := toml.NewDecoder(file).Decode(&settings); err != nil {
				return settings, fmt.Errorf("decode settings %s: %w", path, err)
			}
		}
	}

	if err := envconfig.Process(envPrefix, &settings); err != nil {
		return settings, fmt.Errorf("settings env: %w", err)
	}
	if settings.SMTP.Port <= 0 || settings.SMTP.Port > 65535 {
		return settings, fmt.Errorf("invalid smtp port %d", settings.SMTP.Port)
	}
	return settings, nil
}
