package realtime

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// TypingTimeout is the idle period after which a typing signal stops itself.
const TypingTimeout = 3 * time.Second

// Emitter sends one realtime event.
type Emitter interface {
	Emit(event string, data any) error
}

// Typing debounces outbound typing signals. At most one recipient is
// flagged at a time. Signals are sent outside mu so a slow socket never
// holds up state changes; sendMu keeps them in the order they were decided.
type Typing struct {
	mu        sync.Mutex
	sendMu    sync.Mutex
	emitter   Emitter
	timeout   time.Duration
	logger    *zap.Logger
	active    bool
	recipient int64
	timer     *time.Timer
	gen       uint64
}

type signal struct {
	event     string
	recipient int64
}

// NewTyping creates a debouncer. A zero timeout uses TypingTimeout.
func NewTyping(e Emitter, timeout time.Duration, logger *zap.Logger) *Typing {
	if timeout <= 0 {
		timeout = TypingTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Typing{emitter: e, timeout: timeout, logger: logger}
}

// StartTyping flags typing to recipient, emitting typing_start only when not
// already flagged for it, and re-arms the idle timer.
func (t *Typing) StartTyping(recipient int64) {
	t.mu.Lock()
	var out []signal
	if !t.active || t.recipient != recipient {
		if t.active {
			out = append(out, signal{EventTypingStop, t.recipient})
		}
		t.active = true
		t.recipient = recipient
		out = append(out, signal{EventTypingStart, recipient})
	}

	t.gen++
	gen := t.gen
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.timeout, func() { t.expire(recipient, gen) })
	t.send(out)
}

// StopTyping emits typing_stop and cancels the idle timer if typing to
// recipient. A stop for any other recipient is ignored.
func (t *Typing) StopTyping(recipient int64) {
	t.mu.Lock()
	t.send(t.stopLocked(recipient))
}

// ForceStopTyping stops whichever recipient is flagged. It reports whether a
// stop was emitted.
func (t *Typing) ForceStopTyping() bool {
	t.mu.Lock()
	if !t.active {
		t.cancelTimer()
		t.mu.Unlock()
		return false
	}
	t.send(t.stopLocked(t.recipient))
	return true
}

// Active returns the flagged recipient, if any.
func (t *Typing) Active() (int64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.recipient, t.active
}

func (t *Typing) expire(recipient int64, gen uint64) {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.send(t.stopLocked(recipient))
}

func (t *Typing) stopLocked(recipient int64) []signal {
	if !t.active || t.recipient != recipient {
		return nil
	}
	t.cancelTimer()
	t.active = false
	t.recipient = 0
	return []signal{{EventTypingStop, recipient}}
}

func (t *Typing) cancelTimer() {
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// send releases mu, which the caller holds, and emits out. sendMu is taken
// before mu is released so signals leave in decision order.
func (t *Typing) send(out []signal) {
	if len(out) == 0 || t.emitter == nil {
		t.mu.Unlock()
		return
	}
	t.sendMu.Lock()
	t.mu.Unlock()
	defer t.sendMu.Unlock()
	for _, sg := range out {
		if err := t.emitter.Emit(sg.event, typingPayload{RecipientID: sg.recipient}); err != nil {
			t.logger.Debug("typing signal not sent", zap.String("event", sg.event), zap.Error(err))
		}
	}
}
