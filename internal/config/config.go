package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds console configuration values.
type Config struct {
	APIBaseURL      string        `mapstructure:"api_base_url" yaml:"api_base_url"`
	SocketURL       string        `mapstructure:"socket_url" yaml:"socket_url"`
	LogLevel        string        `mapstructure:"log_level" yaml:"log_level"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	TokenPath       string        `mapstructure:"token_path" yaml:"token_path"`
	AuditDBPath     string        `mapstructure:"audit_db_path" yaml:"audit_db_path"`
	DisplayTimezone string        `mapstructure:"display_timezone" yaml:"display_timezone"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		APIBaseURL:      "http://localhost:3000",
		SocketURL:       "ws://localhost:3000/socket",
		LogLevel:        "info",
		RequestTimeout:  15 * time.Second,
		TokenPath:       filepath.Join(stateDir(), "token"),
		AuditDBPath:     filepath.Join(stateDir(), "audit.db"),
		DisplayTimezone: "Africa/Lagos",
	}
}

func stateDir() string {
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, "escrowdesk")
	}
	return ".escrowdesk"
}
