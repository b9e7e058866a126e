// Package config loads DESAS settings from the environment and manages the CLI session file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting.
type Config struct {
	DBPath     string
	HTTPAddr   string
	JWTSecret  string
	TokenTTL   time.Duration
	FromEmail  string
	AdminEmail string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string

	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string

	SMSOnReject bool
	CORSOrigins []string

	LogLevel  string
	LogFormat string
}

// EmailEnabled reports whether an SMTP relay is configured.
func (c *Config) EmailEnabled() bool {
	return c.SMTPHost != ""
}

// SMSEnabled reports whether Twilio is fully configured. Any missing key disables SMS.
func (c *Config) SMSEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioPhoneNumber != ""
}

// Load reads settings from the process environment, falling back to envFile when set.
// Variables already present in the environment win over the file. A missing file is not an error.
func Load(envFile string) (*Config, error) {
	fileVals := map[string]string{}
	if envFile != "" {
		vals, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileVals = vals
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	return FromLookup(func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return fileVals[key]
	})
}

// FromLookup builds a Config from a key lookup function, applying defaults.
func FromLookup(get func(string) string) (*Config, error) {
	cfg := &Config{
		DBPath:            get("DESAS_DB_PATH"),
		HTTPAddr:          withDefault(get("DESAS_HTTP_ADDR"), ":8080"),
		JWTSecret:         get("DESAS_JWT_SECRET"),
		TokenTTL:          24 * time.Hour,
		FromEmail:         withDefault(get("DESAS_FROM_EMAIL"), "noreply@desas.local"),
		AdminEmail:        withDefault(get("DESAS_ADMIN_EMAIL"), "admin@desas.local"),
		SMTPHost:          get("SMTP_HOST"),
		SMTPPort:          587,
		SMTPUsername:      get("SMTP_USERNAME"),
		SMTPPassword:      get("SMTP_PASSWORD"),
		TwilioAccountSID:  get("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:   get("TWILIO_AUTH_TOKEN"),
		TwilioPhoneNumber: get("TWILIO_PHONE_NUMBER"),
		LogLevel:          withDefault(get("DESAS_LOG_LEVEL"), "info"),
		LogFormat:         withDefault(get("DESAS_LOG_FORMAT"), "text"),
	}

	if v := get("DESAS_TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl <= 0 {
			return nil, fmt.Errorf("invalid DESAS_TOKEN_TTL %q: expected a positive duration like 12h", v)
		}
		cfg.TokenTTL = ttl
	}

	if v := get("SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("invalid SMTP_PORT %q", v)
		}
		cfg.SMTPPort = port
	}

	if v := get("DESAS_SMS_ON_REJECT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DESAS_SMS_ON_REJECT %q: %w", v, err)
		}
		cfg.SMSOnReject = b
	}

	if v := get("DESAS_CORS_ORIGINS"); v != "" {
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
			}
		}
	}

	return cfg, nil
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// DefaultDir returns ~/.desas, where the database and session live by default.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".desas"), nil
}
