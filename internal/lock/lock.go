// Package lock keeps a single client running per profile.
package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// FileName is the lock file created inside a profile directory.
const FileName = "mchat.lock"

// Holder describes the process that owns a profile lock.
type Holder struct {
	PID     int
	Profile string
	Started time.Time
}

// HeldError is returned when another client already runs on the profile.
type HeldError struct {
	Holder Holder
	Path   string
}

func (e *HeldError) Error() string {
	if e.Holder.PID == 0 {
		return fmt.Sprintf("profile %q is in use (%s)", e.Holder.Profile, e.Path)
	}
	return fmt.Sprintf("profile %q is in use by PID %d since %s",
		e.Holder.Profile, e.Holder.PID, e.Holder.Started.Format(time.RFC3339))
}

// Lock is an acquired profile lock.
type Lock struct {
	file *os.File
	path string
}

// Acquire takes the exclusive lock of the profile stored in dir.
// Returns *HeldError if another process holds it.
func Acquire(dir, profile string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}
	path := filepath.Join(dir, FileName)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = f.Close()
		h, _ := ReadHolder(dir)
		if h.Profile == "" {
			h.Profile = profile
		}
		return nil, &HeldError{Holder: h, Path: path}
	}

	if err := f.Truncate(0); err != nil {
		_ = f.Close()
		return nil, err
	}
	h := Holder{PID: os.Getpid(), Profile: profile, Started: time.Now().UTC()}
	if _, err := f.WriteAt([]byte(h.encode()), 0); err != nil {
		_ = f.Close()
		return nil, err
	}

	return &Lock{file: f, path: path}, nil
}

// Release drops the lock. Safe on a nil or released lock.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	// Remove before close so a waiting process never reads a stale holder.
	_ = os.Remove(l.path)
	err := l.file.Close()
	l.file = nil
	return err
}

// ReadHolder reads the holder recorded in dir's lock file.
func ReadHolder(dir string) (Holder, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		return Holder{}, err
	}
	return parseHolder(string(data)), nil
}

func (h Holder) encode() string {
	return fmt.Sprintf("pid=%d\nprofile=%s\nstarted=%s\n",
		h.PID, h.Profile, h.Started.Format(time.RFC3339))
}

func parseHolder(content string) Holder {
	var h Holder
	for _, line := range strings.Split(content, "\n") {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch key {
		case "pid":
			h.PID, _ = strconv.Atoi(value)
		case "profile":
			h.Profile = value
		case "started":
			h.Started, _ = time.Parse(time.RFC3339, value)
		}
	}
	return h
}
