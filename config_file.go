package goGuard

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML wire form of [Config]. Durations are Go duration
// strings ("15m", "168h"). Zero-valued fields keep their defaults.
type fileConfig struct {
	Token struct {
		SigningKey string `yaml:"signing_key"`
		AccessTTL  string `yaml:"access_ttl"`
		RefreshTTL string `yaml:"refresh_ttl"`
		Issuer     string `yaml:"issuer"`
		Leeway     string `yaml:"leeway"`
	} `yaml:"token"`
	Auth struct {
		PublicPrefixes []string `yaml:"public_prefixes"`
	} `yaml:"auth"`
	RateLimit struct {
		Enabled      *bool    `yaml:"enabled"`
		Threshold    int      `yaml:"threshold"`
		Window       string   `yaml:"window"`
		KeyPrefix    string   `yaml:"key_prefix"`
		PathPrefixes []string `yaml:"path_prefixes"`
		FailOpen     *bool    `yaml:"fail_open"`
		StoreTimeout string   `yaml:"store_timeout"`
	} `yaml:"rate_limit"`
	Account struct {
		DefaultRole  string   `yaml:"default_role"`
		AllowedRoles []string `yaml:"allowed_roles"`
	} `yaml:"account"`
	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Metrics struct {
		Enabled *bool `yaml:"enabled"`
	} `yaml:"metrics"`
}

// LoadConfigFile reads a YAML configuration file and overlays it on
// [DefaultConfig]. The signing key is taken verbatim from the file; most
// deployments should leave it empty there and set it from the environment
// after loading.
func LoadConfigFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return parseConfig(raw)
}

func parseConfig(raw []byte) (Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := DefaultConfig()

	if fc.Token.SigningKey != "" {
		cfg.Token.SigningKey = []byte(fc.Token.SigningKey)
	}
	if err := overlayDuration(&cfg.Token.AccessTTL, fc.Token.AccessTTL); err != nil {
		return Config{}, err
	}
	if err := overlayDuration(&cfg.Token.RefreshTTL, fc.Token.RefreshTTL); err != nil {
		return Config{}, err
	}
	if err := overlayDuration(&cfg.Token.Leeway, fc.Token.Leeway); err != nil {
		return Config{}, err
	}
	if fc.Token.Issuer != "" {
		cfg.Token.Issuer = fc.Token.Issuer
	}

	if fc.Auth.PublicPrefixes != nil {
		cfg.Auth.PublicPrefixes = fc.Auth.PublicPrefixes
	}

	if fc.RateLimit.Enabled != nil {
		cfg.RateLimit.Enabled = *fc.RateLimit.Enabled
	}
	if fc.RateLimit.Threshold != 0 {
		cfg.RateLimit.Threshold = fc.RateLimit.Threshold
	}
	if err := overlayDuration(&cfg.RateLimit.Window, fc.RateLimit.Window); err != nil {
		return Config{}, err
	}
	if fc.RateLimit.KeyPrefix != "" {
		cfg.RateLimit.KeyPrefix = fc.RateLimit.KeyPrefix
	}
	if fc.RateLimit.PathPrefixes != nil {
		cfg.RateLimit.PathPrefixes = fc.RateLimit.PathPrefixes
	}
	if fc.RateLimit.FailOpen != nil {
		cfg.RateLimit.FailOpen = *fc.RateLimit.FailOpen
	}
	if err := overlayDuration(&cfg.RateLimit.StoreTimeout, fc.RateLimit.StoreTimeout); err != nil {
		return Config{}, err
	}

	if fc.Account.DefaultRole != "" {
		cfg.Account.DefaultRole = fc.Account.DefaultRole
	}
	if fc.Account.AllowedRoles != nil {
		cfg.Account.AllowedRoles = fc.Account.AllowedRoles
	}

	cfg.Redis.Address = fc.Redis.Address
	cfg.Redis.Password = fc.Redis.Password
	cfg.Redis.DB = fc.Redis.DB

	if fc.Metrics.Enabled != nil {
		cfg.Metrics.Enabled = *fc.Metrics.Enabled
	}

	return cfg, nil
}

func overlayDuration(dst *time.Duration, raw string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse config duration %q: %w", raw, err)
	}
	*dst = d
	return nil
}
