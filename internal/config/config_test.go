package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "DIRECTORY_SOURCE", "MAIL_TRANSPORT", "SMTP_HOST", "SMTP_PORT", "SMTP_TLS_MODE", "DISPATCH_WORKERS", "TRUST_PROXY_HEADERS", "CORS_TRUSTED_ORIGINS"} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "./hr_contacts.json", cfg.DirectorySource)
	assert.Equal(t, "smtp", cfg.MailTransport)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTPHost)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "starttls", cfg.SMTPTLSMode)
	assert.Equal(t, 1, cfg.DispatchWorkers)
	assert.False(t, cfg.TrustProxyHeaders)
	assert.True(t, cfg.IsDevelopment())
	assert.NoError(t, cfg.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "8080")
	t.Setenv("ENV", "production")
	t.Setenv("MAIL_TRANSPORT", " Postmark ")
	t.Setenv("DISPATCH_WORKERS", "4")
	t.Setenv("CORS_TRUSTED_ORIGINS", "https://a.example.com, ,https://b.example.com")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "postmark", cfg.MailTransport)
	assert.Equal(t, 4, cfg.DispatchWorkers)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Cors.TrustedOrigins)
}

func TestFromEnv_BadNumber(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SMTP_PORT", "five-eight-seven")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DirectorySource:    "contacts.json",
			MailTransport:      "smtp",
			SMTPHost:           "smtp.gmail.com",
			DispatchWorkers:    1,
			MaxUploadSizeMB:    10,
			RateLimitPerMinute: 10,
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no directory", func(c *Config) { c.DirectorySource = "" }},
		{"unknown transport", func(c *Config) { c.MailTransport = "pigeon" }},
		{"smtp without host", func(c *Config) { c.SMTPHost = "" }},
		{"zero workers", func(c *Config) { c.DispatchWorkers = 0 }},
		{"zero upload size", func(c *Config) { c.MaxUploadSizeMB = 0 }},
		{"zero rate limit", func(c *Config) { c.RateLimitPerMinute = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := valid()
	cfg.MailTransport = "log"
	cfg.SMTPHost = ""
	assert.NoError(t, cfg.Validate())
}
