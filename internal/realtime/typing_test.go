package realtime

import (
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"
)

type recordingEmitter struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingEmitter) Emit(event string, data any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := data.(typingPayload)
	r.events = append(r.events, fmt.Sprintf("%s:%d", event, p.RecipientID))
	return nil
}

func (r *recordingEmitter) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func TestStartTypingEmitsOnce(t *testing.T) {
	e := &recordingEmitter{}
	ty := NewTyping(e, time.Hour, nil)

	ty.StartTyping(5)
	ty.StartTyping(5)
	ty.StartTyping(5)

	if got, want := e.snapshot(), []string{"typing_start:5"}; !reflect.DeepEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestStopTypingOnlyForActiveRecipient(t *testing.T) {
	e := &recordingEmitter{}
	ty := NewTyping(e, time.Hour, nil)

	ty.StopTyping(5)
	ty.StartTyping(5)
	ty.StopTyping(6)
	ty.StopTyping(5)
	ty.StopTyping(5)

	want := []string{"typing_start:5", "typing_stop:5"}
	if got := e.snapshot(); !reflect.DeepEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestForceStopTyping(t *testing.T) {
	e := &recordingEmitter{}
	ty := NewTyping(e, time.Hour, nil)

	if ty.ForceStopTyping() {
		t.Error("ForceStopTyping() with nothing active reported a stop")
	}
	ty.StartTyping(9)
	if !ty.ForceStopTyping() {
		t.Error("ForceStopTyping() did not report a stop")
	}
	if _, active := ty.Active(); active {
		t.Error("still active after ForceStopTyping")
	}

	want := []string{"typing_start:9", "typing_stop:9"}
	if got := e.snapshot(); !reflect.DeepEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestIdleTimeoutStops(t *testing.T) {
	e := &recordingEmitter{}
	ty := NewTyping(e, 20*time.Millisecond, nil)

	ty.StartTyping(3)
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(e.snapshot()) == 2 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	want := []string{"typing_start:3", "typing_stop:3"}
	if got := e.snapshot(); !reflect.DeepEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestStaleTimerIsNoop(t *testing.T) {
	e := &recordingEmitter{}
	ty := NewTyping(e, 30*time.Millisecond, nil)

	ty.StartTyping(3)
	ty.StopTyping(3)
	ty.StartTyping(3)
	ty.StopTyping(3)
	time.Sleep(80 * time.Millisecond)

	want := []string{"typing_start:3", "typing_stop:3", "typing_start:3", "typing_stop:3"}
	if got := e.snapshot(); !reflect.DeepEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestSwitchingRecipientStopsPrevious(t *testing.T) {
	e := &recordingEmitter{}
	ty := NewTyping(e, time.Hour, nil)

	ty.StartTyping(1)
	ty.StartTyping(2)

	want := []string{"typing_start:1", "typing_stop:1", "typing_start:2"}
	if got := e.snapshot(); !reflect.DeepEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	if r, active := ty.Active(); !active || r != 2 {
		t.Errorf("Active() = %d, %v", r, active)
	}
}

func TestStopForOtherRecipientKeepsIdleTimer(t *testing.T) {
	e := &recordingEmitter{}
	ty := NewTyping(e, 20*time.Millisecond, nil)

	ty.StartTyping(4)
	ty.StopTyping(8)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(e.snapshot()) == 2 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	want := []string{"typing_start:4", "typing_stop:4"}
	if got := e.snapshot(); !reflect.DeepEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	if _, active := ty.Active(); active {
		t.Error("recipient still flagged after idle timeout")
	}
}

type blockingEmitter struct {
	recordingEmitter
	entered chan struct{}
	release chan struct{}
}

func (b *blockingEmitter) Emit(event string, data any) error {
	b.entered <- struct{}{}
	<-b.release
	return b.recordingEmitter.Emit(event, data)
}

func TestSlowEmitDoesNotHoldState(t *testing.T) {
	e := &blockingEmitter{entered: make(chan struct{}, 1), release: make(chan struct{})}
	ty := NewTyping(e, time.Hour, nil)

	done := make(chan struct{})
	go func() {
		ty.StartTyping(7)
		close(done)
	}()
	<-e.entered

	active := make(chan bool, 1)
	go func() {
		_, ok := ty.Active()
		active <- ok
	}()
	select {
	case ok := <-active:
		if !ok {
			t.Error("Active() = false while typing_start is in flight")
		}
	case <-time.After(time.Second):
		t.Fatal("Active() blocked behind a pending emit")
	}

	close(e.release)
	<-done
	if got, want := e.snapshot(), []string{"typing_start:7"}; !reflect.DeepEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}
