package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Defaults applied to unset profile fields.
const (
	DefaultRequestTimeout = 10 * time.Second
	DefaultReconnectDelay = 3 * time.Second
)

// Config represents the global ~/.mchat/config.toml.
type Config struct {
	DefaultProfile string             `toml:"default_profile"`
	Profiles       map[string]Profile `toml:"profiles"`
}

// Profile holds everything needed to talk to one messaging backend as one user.
type Profile struct {
	ServerURL      string   `toml:"server_url"`
	SessionCookie  string   `toml:"session_cookie"`
	UserID         int64    `toml:"user_id"`
	Timezone       string   `toml:"timezone"`
	RequestTimeout Duration `toml:"request_timeout"`
	ReconnectDelay Duration `toml:"reconnect_delay"`
	MetricsAddr    string   `toml:"metrics_addr"`
}

// Duration is a time.Duration that decodes from TOML strings like "10s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Load reads config from the given path. Returns zero config and error if file missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to the given path, creating parent dirs as needed.
// The file holds a session cookie, so it is only readable by the owner.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

// Profile returns the named profile with defaults filled in.
func (c *Config) Profile(name string) (Profile, error) {
	p, ok := c.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("profile %q not found in config", name)
	}
	if p.ServerURL == "" {
		return Profile{}, fmt.Errorf("profile %q: server_url is required", name)
	}
	if p.RequestTimeout.Duration <= 0 {
		p.RequestTimeout.Duration = DefaultRequestTimeout
	}
	if p.ReconnectDelay.Duration <= 0 {
		p.ReconnectDelay.Duration = DefaultReconnectDelay
	}
	if cookie := os.Getenv("MCHAT_SESSION_COOKIE"); cookie != "" {
		p.SessionCookie = cookie
	}
	return p, nil
}

// SetProfile adds or replaces a profile.
func (c *Config) SetProfile(name string, p Profile) {
	if c.Profiles == nil {
		c.Profiles = make(map[string]Profile)
	}
	c.Profiles[name] = p
}
