package timefmt

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolvePrecedence(t *testing.T) {
	tests := []struct {
		name, server, session, want string
	}{
		{"server wins", "Asia/Tokyo", "Europe/Lisbon", "Asia/Tokyo"},
		{"session when server empty", "", "Europe/Lisbon", "Europe/Lisbon"},
		{"invalid server skipped", "Not/AZone", "Europe/Lisbon", "Europe/Lisbon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, name := Resolve(tt.server, tt.session)
			if name != tt.want || loc.String() != tt.want {
				t.Errorf("Resolve() = %s/%s, want %s", loc, name, tt.want)
			}
		})
	}
}

func TestResolveFallsBackToLocal(t *testing.T) {
	t.Setenv("TZ", "America/Sao_Paulo")
	_, name := Resolve("", "")
	if name != "America/Sao_Paulo" {
		t.Errorf("Resolve() name = %q, want local zone from $TZ", name)
	}
}

func TestLocalZoneNameFromSymlink(t *testing.T) {
	dir := t.TempDir()
	zoneDir := filepath.Join(dir, "usr", "share", "zoneinfo", "Europe")
	if err := os.MkdirAll(zoneDir, 0755); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(zoneDir, "Berlin")
	if err := os.WriteFile(target, []byte("TZif"), 0644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "localtime")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	if got := localZoneName("", link); got != "Europe/Berlin" {
		t.Errorf("localZoneName() = %q, want Europe/Berlin", got)
	}
}

func TestLocalZoneNameFromEnv(t *testing.T) {
	if got := localZoneName(":Asia/Kolkata", "/nonexistent"); got != "Asia/Kolkata" {
		t.Errorf("localZoneName() = %q, want Asia/Kolkata", got)
	}
}
