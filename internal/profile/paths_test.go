package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDir(t *testing.T) {
	t.Setenv("MCHAT_HOME", "")
	home, _ := os.UserHomeDir()
	got := Dir("main")
	want := filepath.Join(home, ".mchat", "profiles", "main")
	if got != want {
		t.Errorf("Dir(main) = %q, want %q", got, want)
	}
}

func TestBaseDirOverride(t *testing.T) {
	t.Setenv("MCHAT_HOME", "/tmp/mchat-home")
	if got := BaseDir(); got != "/tmp/mchat-home" {
		t.Errorf("BaseDir() = %q, want /tmp/mchat-home", got)
	}
}

func TestPrefsAndLogPaths(t *testing.T) {
	if got := PrefsDBPath("test"); !strings.HasSuffix(got, filepath.Join("profiles", "test", "prefs.db")) {
		t.Errorf("PrefsDBPath(test) = %q", got)
	}
	if got := LogPath("test"); !strings.HasSuffix(got, filepath.Join("profiles", "test", "logs", "mchat.log")) {
		t.Errorf("LogPath(test) = %q", got)
	}
}

func TestEnsureDir(t *testing.T) {
	t.Setenv("MCHAT_HOME", t.TempDir())

	if err := EnsureDir("test"); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(LogDir("test"))
	if err != nil {
		t.Fatalf("log dir not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("log dir is not a directory")
	}
	if perm := info.Mode().Perm(); perm != 0700 {
		t.Errorf("log dir permission = %o, want 0700", perm)
	}
}
