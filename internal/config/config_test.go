package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	cfg := &Config{DefaultProfile: "work"}
	cfg.SetProfile("work", Profile{
		ServerURL:      "http://clinic.local:5000",
		UserID:         7,
		RequestTimeout: Duration{5 * time.Second},
	})
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.DefaultProfile != "work" {
		t.Errorf("DefaultProfile = %q, want %q", loaded.DefaultProfile, "work")
	}
	p, err := loaded.Profile("work")
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if p.UserID != 7 || p.ServerURL != "http://clinic.local:5000" {
		t.Errorf("profile = %+v", p)
	}
	if p.RequestTimeout.Duration != 5*time.Second {
		t.Errorf("RequestTimeout = %v, want 5s", p.RequestTimeout.Duration)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("/nonexistent/config.toml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestSavePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	if err := Save(path, &Config{DefaultProfile: "main"}); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	perm := info.Mode().Perm()
	if perm != 0600 {
		t.Errorf("file permission = %o, want 0600", perm)
	}
}

func TestProfileDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.SetProfile("main", Profile{ServerURL: "http://x"})

	p, err := cfg.Profile("main")
	if err != nil {
		t.Fatal(err)
	}
	if p.RequestTimeout.Duration != DefaultRequestTimeout {
		t.Errorf("RequestTimeout = %v, want %v", p.RequestTimeout.Duration, DefaultRequestTimeout)
	}
	if p.ReconnectDelay.Duration != DefaultReconnectDelay {
		t.Errorf("ReconnectDelay = %v, want %v", p.ReconnectDelay.Duration, DefaultReconnectDelay)
	}
}

func TestProfileErrors(t *testing.T) {
	cfg := &Config{}
	if _, err := cfg.Profile("missing"); err == nil {
		t.Error("Profile(missing) expected error")
	}
	cfg.SetProfile("nourl", Profile{UserID: 1})
	if _, err := cfg.Profile("nourl"); err == nil {
		t.Error("Profile(nourl) expected error for empty server_url")
	}
}

func TestProfileCookieFromEnv(t *testing.T) {
	t.Setenv("MCHAT_SESSION_COOKIE", "session=abc")
	cfg := &Config{}
	cfg.SetProfile("main", Profile{ServerURL: "http://x", SessionCookie: "session=old"})

	p, err := cfg.Profile("main")
	if err != nil {
		t.Fatal(err)
	}
	if p.SessionCookie != "session=abc" {
		t.Errorf("SessionCookie = %q, want env override", p.SessionCookie)
	}
}
