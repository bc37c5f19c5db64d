package goGuard

import (
	"testing"
	"time"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.Token.SigningKey = testSigningKey
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.RateLimit.Threshold != 60 || cfg.RateLimit.Window != time.Minute {
		t.Errorf("rate limit defaults = %d per %v, want 60 per 1m", cfg.RateLimit.Threshold, cfg.RateLimit.Window)
	}
	if !cfg.RateLimit.FailOpen {
		t.Error("default fail policy is fail-closed, want fail-open")
	}
	if cfg.RateLimit.KeyPrefix != "rate_limit:" {
		t.Errorf("key prefix = %q", cfg.RateLimit.KeyPrefix)
	}
	if cfg.Account.DefaultRole != RoleUser {
		t.Errorf("default role = %q, want %q", cfg.Account.DefaultRole, RoleUser)
	}
	if cfg.Token.AccessTTL >= cfg.Token.RefreshTTL {
		t.Error("access TTL not shorter than refresh TTL")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults with key", func(c *Config) {}, true},
		{"missing signing key", func(c *Config) { c.Token.SigningKey = nil }, false},
		{"short signing key", func(c *Config) { c.Token.SigningKey = []byte("short") }, false},
		{"zero access TTL", func(c *Config) { c.Token.AccessTTL = 0 }, false},
		{"negative refresh TTL", func(c *Config) { c.Token.RefreshTTL = -time.Hour }, false},
		{"access TTL exceeds refresh", func(c *Config) {
			c.Token.AccessTTL = 48 * time.Hour
			c.Token.RefreshTTL = 24 * time.Hour
		}, false},
		{"excessive leeway", func(c *Config) { c.Token.Leeway = time.Hour }, false},
		{"relative public prefix", func(c *Config) { c.Auth.PublicPrefixes = []string{"api/auth/"} }, false},
		{"zero threshold", func(c *Config) { c.RateLimit.Threshold = 0 }, false},
		{"zero window", func(c *Config) { c.RateLimit.Window = 0 }, false},
		{"zero store timeout", func(c *Config) { c.RateLimit.StoreTimeout = 0 }, false},
		{"relative rate limit prefix", func(c *Config) { c.RateLimit.PathPrefixes = []string{"api/"} }, false},
		{"limiter disabled skips limiter checks", func(c *Config) {
			c.RateLimit.Enabled = false
			c.RateLimit.Threshold = 0
			c.RateLimit.Window = 0
		}, true},
		{"empty default role", func(c *Config) { c.Account.DefaultRole = "" }, false},
		{"default role outside allowed set", func(c *Config) {
			c.Account.AllowedRoles = []string{RoleAdmin}
		}, false},
		{"open allowed role set", func(c *Config) { c.Account.AllowedRoles = nil }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate failed: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("Validate accepted an invalid config")
			}
		})
	}
}

func TestParseConfigOverlaysDefaults(t *testing.T) {
	raw := []byte(`
token:
  signing_key: "0123456789abcdef0123456789abcdef"
  access_ttl: "5m"
  issuer: "edge-gateway"
rate_limit:
  threshold: 10
  window: "30s"
  fail_open: false
account:
  default_role: "ROLE_ADMIN"
  allowed_roles: ["ROLE_ADMIN"]
redis:
  address: "redis:6379"
  db: 3
`)

	cfg, err := parseConfig(raw)
	if err != nil {
		t.Fatalf("parseConfig failed: %v", err)
	}

	if string(cfg.Token.SigningKey) != "0123456789abcdef0123456789abcdef" {
		t.Errorf("signing key = %q", cfg.Token.SigningKey)
	}
	if cfg.Token.AccessTTL != 5*time.Minute {
		t.Errorf("access TTL = %v, want 5m", cfg.Token.AccessTTL)
	}
	if cfg.Token.RefreshTTL != 7*24*time.Hour {
		t.Errorf("refresh TTL = %v, want untouched default", cfg.Token.RefreshTTL)
	}
	if cfg.Token.Issuer != "edge-gateway" {
		t.Errorf("issuer = %q", cfg.Token.Issuer)
	}
	if cfg.RateLimit.Threshold != 10 || cfg.RateLimit.Window != 30*time.Second {
		t.Errorf("rate limit = %d per %v", cfg.RateLimit.Threshold, cfg.RateLimit.Window)
	}
	if cfg.RateLimit.FailOpen {
		t.Error("fail_open: false not applied")
	}
	if !cfg.RateLimit.Enabled {
		t.Error("enabled default lost during overlay")
	}
	if cfg.Account.DefaultRole != RoleAdmin {
		t.Errorf("default role = %q", cfg.Account.DefaultRole)
	}
	if cfg.Redis.Address != "redis:6379" || cfg.Redis.DB != 3 {
		t.Errorf("redis = %+v", cfg.Redis)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("overlaid config failed validation: %v", err)
	}
}

func TestParseConfigRejectsBadDuration(t *testing.T) {
	if _, err := parseConfig([]byte("token:\n  access_ttl: \"fifteen minutes\"\n")); err == nil {
		t.Error("parseConfig accepted a malformed duration")
	}
}

func TestParseConfigRejectsBadYAML(t *testing.T) {
	if _, err := parseConfig([]byte("token: [unclosed")); err == nil {
		t.Error("parseConfig accepted malformed YAML")
	}
}
