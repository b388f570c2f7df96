package timefmt

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

const localtimePath = "/etc/localtime"

// LocalZoneName returns the IANA name of the machine's zone: $TZ if set,
// then the target of the /etc/localtime symlink, then time.Local's name.
func LocalZoneName() string {
	return localZoneName(os.Getenv("TZ"), localtimePath)
}

func localZoneName(tzEnv, linkPath string) string {
	if tz := strings.TrimPrefix(tzEnv, ":"); tz != "" {
		if _, err := time.LoadLocation(tz); err == nil {
			return tz
		}
	}
	if target, err := filepath.EvalSymlinks(linkPath); err == nil {
		if i := strings.Index(target, "zoneinfo/"); i >= 0 {
			name := target[i+len("zoneinfo/"):]
			if _, err := time.LoadLocation(name); err == nil {
				return name
			}
		}
	}
	if name := time.Local.String(); name != "" && name != "Local" {
		return name
	}
	return "UTC"
}

// Resolve picks the display zone: the server-provided name, then the
// session-stored preference, then the local zone. Unknown names are skipped.
// It returns the location and the name it was loaded from.
func Resolve(server, session string) (*time.Location, string) {
	for _, name := range []string{server, session} {
		if name == "" {
			continue
		}
		if loc, err := time.LoadLocation(name); err == nil {
			return loc, name
		}
	}
	name := LocalZoneName()
	if loc, err := time.LoadLocation(name); err == nil {
		return loc, name
	}
	return time.Local, time.Local.String()
}
