package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string `env:"PORT" envDefault:"5000"`
	Env  string `env:"ENV" envDefault:"development"` // development, production

	// Contacts
	DirectorySource string `env:"DIRECTORY_SOURCE" envDefault:"./hr_contacts.json"`

	// Delivery
	MailTransport        string `env:"MAIL_TRANSPORT" envDefault:"smtp"` // smtp, postmark, log
	SMTPHost             string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort             int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPTLSMode          string `env:"SMTP_TLS_MODE" envDefault:"starttls"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	DispatchWorkers      int    `env:"DISPATCH_WORKERS" envDefault:"1"`

	// Limits
	MaxUploadSizeMB    int `env:"MAX_UPLOAD_SIZE_MB" envDefault:"10"`
	RateLimitPerMinute int `env:"RATE_LIMIT_PER_MINUTE" envDefault:"10"`

	// Only enable behind a proxy that overwrites X-Forwarded-For; otherwise
	// callers choose their own rate limit key.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	Cors struct {
		TrustedOrigins []string `env:"CORS_TRUSTED_ORIGINS" envSeparator:","`
	}
}

// FromEnv reads the configuration from the environment and an optional .env
// file, without touching command line flags.
func FromEnv() (*Config, error) {
	// Load .env file if it exists (don't error if missing)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// Load reads the environment, applies -port and -env flags on top and validates.
func Load() (*Config, error) {
	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	flag.StringVar(&cfg.Port, "port", cfg.Port, "Server port")
	flag.StringVar(&cfg.Env, "env", cfg.Env, "Environment (development, production)")
	flag.StringVar(&cfg.DirectorySource, "directory", cfg.DirectorySource, "Contact directory (file path, s3:// or postgres:// URL)")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.MailTransport = strings.ToLower(strings.TrimSpace(c.MailTransport))
	c.SMTPTLSMode = strings.ToLower(strings.TrimSpace(c.SMTPTLSMode))

	var origins []string
	for _, origin := range c.Cors.TrustedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	c.Cors.TrustedOrigins = origins
}

func (c *Config) Validate() error {
	if c.DirectorySource == "" {
		return fmt.Errorf("DIRECTORY_SOURCE is required")
	}

	switch c.MailTransport {
	case "smtp":
		if c.SMTPHost == "" {
			return fmt.Errorf("SMTP_HOST is required for the smtp transport")
		}
	case "postmark", "log":
	default:
		return fmt.Errorf("MAIL_TRANSPORT must be smtp, postmark or log, got %q", c.MailTransport)
	}

	if c.DispatchWorkers < 1 {
		return fmt.Errorf("DISPATCH_WORKERS must be at least 1")
	}
	if c.MaxUploadSizeMB < 1 {
		return fmt.Errorf("MAX_UPLOAD_SIZE_MB must be at least 1")
	}
	if c.RateLimitPerMinute < 1 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be at least 1")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
