package config

import (
	"fmt"
	"os"

	"autoinvoice/internal/ledger"
	"autoinvoice/internal/logger"
)

// Config holds process-level configuration: API credentials from the
// environment plus logging settings. Per-client billing configuration
// lives in the ledger file, not here.
type Config struct {
	// Toggl Configuration
	TogglAPIToken string

	// Xero Configuration
	XeroAccessToken string
	XeroTenantID    string

	// SendGrid Configuration
	SendGridAPIKey string

	// Ledger file location
	LedgerPath string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		TogglAPIToken:   getEnv("TOGGL_API_TOKEN", ""),
		XeroAccessToken: getEnv("XERO_ACCESS_TOKEN", ""),
		XeroTenantID:    getEnv("XERO_TENANT_ID", ""),
		SendGridAPIKey:  getEnv("SENDGRID_API_KEY", ""),
		LedgerPath:      getEnv("LEDGER_PATH", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:   getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:       getEnv("LOG_OUTPUT", "stderr"),
	}

	if config.LedgerPath == "" {
		path, err := ledger.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		config.LedgerPath = path
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.TogglAPIToken == "" {
		return fmt.Errorf("TOGGL_API_TOKEN is required")
	}
	if c.XeroAccessToken == "" {
		return fmt.Errorf("XERO_ACCESS_TOKEN is required")
	}
	if c.XeroTenantID == "" {
		return fmt.Errorf("XERO_TENANT_ID is required")
	}
	if c.SendGridAPIKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY is required")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
