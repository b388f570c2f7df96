package profile

import (
	"testing"

	"github.com/matheus3301/mchat/internal/config"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "main", false},
		{"valid with numbers", "clinic2", false},
		{"valid with hyphen", "front-desk", false},
		{"valid with underscore", "dr_smith", false},
		{"empty", "", true},
		{"uppercase", "Main", true},
		{"space", "my profile", true},
		{"dot", "my.profile", true},
		{"slash", "a/b", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestResolvePrecedence(t *testing.T) {
	t.Setenv("MCHAT_HOME", t.TempDir())

	if got := Resolve(""); got != DefaultName {
		t.Errorf("Resolve(\"\") without config = %q, want %q", got, DefaultName)
	}

	cfg := &config.Config{DefaultProfile: "ward"}
	if err := config.Save(ConfigPath(), cfg); err != nil {
		t.Fatal(err)
	}
	if got := Resolve(""); got != "ward" {
		t.Errorf("Resolve(\"\") = %q, want ward", got)
	}
	if got := Resolve("night"); got != "night" {
		t.Errorf("Resolve(night) = %q, want night", got)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("MCHAT_HOME", t.TempDir())

	cfg := &config.Config{DefaultProfile: "main"}
	cfg.SetProfile("main", config.Profile{ServerURL: "http://clinic", UserID: 3})
	if err := config.Save(ConfigPath(), cfg); err != nil {
		t.Fatal(err)
	}

	name, p, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if name != "main" || p.UserID != 3 {
		t.Errorf("Load() = %q, %+v", name, p)
	}

	if _, _, err := Load("Bad Name"); err == nil {
		t.Error("Load(Bad Name) expected validation error")
	}
}
