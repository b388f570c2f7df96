package chat

import (
	"context"

	"go.uber.org/zap"

	"github.com/matheus3301/mchat/internal/prefs"
	"github.com/matheus3301/mchat/internal/timefmt"
)

// Timezones keeps the backend's stored zone in step with the local one.
type Timezones struct {
	backend Backend
	prefs   prefs.Store
	format  *timefmt.Formatter
	detect  func() string
	logger  *zap.Logger
}

// NewTimezones creates a zone manager. detect returns the local zone name;
// nil uses timefmt.LocalZoneName.
func NewTimezones(backend Backend, store prefs.Store, format *timefmt.Formatter, detect func() string, logger *zap.Logger) *Timezones {
	if detect == nil {
		detect = timefmt.LocalZoneName
	}
	return &Timezones{backend: backend, prefs: store, format: format, detect: detect, logger: logger}
}

// Sync posts the local zone to the backend when it differs from the value
// stored for this session, then switches rendering to it. It returns the
// zone now in use.
func (t *Timezones) Sync(ctx context.Context) string {
	local := t.detect()
	stored, ok := t.prefs.Get(prefs.KeyTimezone)
	if !ok || stored != local {
		if err := t.backend.SetTimezone(ctx, local); err != nil {
			t.logger.Warn("failed to set timezone", zap.String("timezone", local), zap.Error(err))
		} else if err := t.prefs.Set(prefs.KeyTimezone, local); err != nil {
			t.logger.Warn("failed to store timezone", zap.Error(err))
		} else {
			t.logger.Info("timezone set", zap.String("timezone", local))
		}
	}
	return t.Apply("")
}

// Apply resolves the display zone, preferring server over the session
// preference over the local zone, and installs it in the formatter.
func (t *Timezones) Apply(server string) string {
	stored, _ := t.prefs.Get(prefs.KeyTimezone)
	loc, name := timefmt.Resolve(server, stored)
	t.format.SetLocation(loc)
	return name
}
