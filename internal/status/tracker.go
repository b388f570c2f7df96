package status

import "sync"

// maxEarly bounds receipts buffered for messages not yet tracked.
const maxEarly = 256

// Indicator is the view side of the tracker: it repaints one row's
// indicator and follows a row's change of key.
type Indicator interface {
	PatchStatus(key string, s Status)
	Rekey(oldKey, newKey string)
}

// Tracker maps message keys (temporary or server ids) to their status and
// patches only the affected row when a status changes.
type Tracker struct {
	mu       sync.Mutex
	statuses map[string]Status
	early    map[string]Status
	view     Indicator
}

// NewTracker creates a Tracker patching view. view may be nil.
func NewTracker(view Indicator) *Tracker {
	return &Tracker{
		statuses: make(map[string]Status),
		early:    make(map[string]Status),
		view:     view,
	}
}

// SetIndicator replaces the view after construction.
func (t *Tracker) SetIndicator(view Indicator) {
	t.mu.Lock()
	t.view = view
	t.mu.Unlock()
}

type patch struct {
	key string
	s   Status
}

func (t *Tracker) apply(view Indicator, patches []patch) {
	if view == nil {
		return
	}
	for _, p := range patches {
		view.PatchStatus(p.key, p.s)
	}
}

// Track starts tracking key with an initial status. The row is assumed to be
// painted with s already; a buffered receipt for key is merged and patched.
func (t *Tracker) Track(key string, s Status) {
	t.mu.Lock()
	var patches []patch
	if e, ok := t.early[key]; ok {
		delete(t.early, key)
		if merged := Merge(s, e); merged != s {
			s = merged
			patches = append(patches, patch{key, s})
		}
	}
	t.statuses[key] = s
	view := t.view
	t.mu.Unlock()
	t.apply(view, patches)
}

// Update merges s into key's status and patches the row if it changed.
// Receipts for keys not tracked yet are buffered until Track or Reconcile.
// It reports the resulting status and whether the row changed.
func (t *Tracker) Update(key string, s Status) (Status, bool) {
	t.mu.Lock()
	cur, ok := t.statuses[key]
	if !ok {
		if len(t.early) >= maxEarly {
			clear(t.early)
		}
		if e, ok := t.early[key]; ok {
			s = Merge(e, s)
		}
		t.early[key] = s
		t.mu.Unlock()
		return Unknown, false
	}
	merged := Merge(cur, s)
	if merged == cur {
		t.mu.Unlock()
		return cur, false
	}
	t.statuses[key] = merged
	view := t.view
	t.mu.Unlock()
	t.apply(view, []patch{{key, merged}})
	return merged, true
}

// Reconcile moves tempKey's entry to realKey, merges s and any receipt
// already received for realKey, and re-keys the row. It reports false when
// tempKey is not tracked, as after a conversation switch.
func (t *Tracker) Reconcile(tempKey, realKey string, s Status) (Status, bool) {
	t.mu.Lock()
	cur, ok := t.statuses[tempKey]
	if !ok {
		t.mu.Unlock()
		return Unknown, false
	}
	delete(t.statuses, tempKey)
	merged := Merge(cur, s)
	if e, ok := t.early[realKey]; ok {
		delete(t.early, realKey)
		merged = Merge(merged, e)
	}
	if prev, ok := t.statuses[realKey]; ok {
		merged = Merge(prev, merged)
	}
	t.statuses[realKey] = merged
	view := t.view
	t.mu.Unlock()

	if view != nil {
		view.Rekey(tempKey, realKey)
		view.PatchStatus(realKey, merged)
	}
	return merged, true
}

// Reset forgets every tracked message and buffered receipt.
func (t *Tracker) Reset() {
	t.mu.Lock()
	clear(t.statuses)
	clear(t.early)
	t.mu.Unlock()
}

// Status returns key's status, or Unknown when it is not tracked.
func (t *Tracker) Status(key string) Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.statuses[key]; ok {
		return s
	}
	return Unknown
}

// Len returns the number of tracked messages.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.statuses)
}
