package ui

import (
	"errors"
	"testing"
	"time"
)

func TestFlashExpires(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	f := NewFlashModel()
	f.now = func() time.Time { return now }

	f.Info("saved")
	if m := f.Current(); m == nil || m.Text != "saved" {
		t.Fatalf("Current() = %+v, want saved", m)
	}

	now = now.Add(5 * time.Second)
	if m := f.Current(); m != nil {
		t.Errorf("Current() after expiry = %+v, want nil", m)
	}
}

func TestToastSender(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	f := NewFlashModel()
	f.now = func() time.Time { return now }

	f.Err(errors.New("boom"))
	if _, ok := f.ToastSender(); ok {
		t.Error("error flash should not report a toast sender")
	}

	m := f.Toast("New message from Ana Ruiz", "Room 4 is ready", 2)
	if m.Text != "New message from Ana Ruiz: Room 4 is ready" {
		t.Errorf("toast text = %q", m.Text)
	}
	if id, ok := f.ToastSender(); !ok || id != 2 {
		t.Errorf("ToastSender() = %d, %v; want 2, true", id, ok)
	}

	now = now.Add(ToastDuration)
	if _, ok := f.ToastSender(); ok {
		t.Error("toast should expire after ToastDuration")
	}
}

func TestDismissIgnoresSuperseded(t *testing.T) {
	f := NewFlashModel()
	first := f.Toast("a", "", 2)
	f.Toast("b", "", 3)

	if f.Dismiss(first.Seq) {
		t.Error("Dismiss of a superseded toast should be a no-op")
	}
	if id, _ := f.ToastSender(); id != 3 {
		t.Errorf("ToastSender() = %d, want 3", id)
	}
}

func TestPagesStack(t *testing.T) {
	p := NewPages()
	var tops []string
	p.SetOnChange(func(top string) { tops = append(tops, top) })

	p.Base("main", NewMenu(DefaultTheme()))
	p.PushModal("help", NewMenu(DefaultTheme()), 40, 10)
	p.PushModal("help", NewMenu(DefaultTheme()), 40, 10)

	if p.Depth() != 2 || !p.HasModal() {
		t.Fatalf("Depth() = %d, want 2", p.Depth())
	}
	if got := p.Pop(); got != "help" {
		t.Errorf("Pop() = %q, want help", got)
	}
	if got := p.Pop(); got != "" {
		t.Errorf("Pop() on base = %q, want empty", got)
	}
	want := []string{"main", "help", "main"}
	if len(tops) != len(want) {
		t.Fatalf("onChange calls = %v, want %v", tops, want)
	}
	for i := range want {
		if tops[i] != want[i] {
			t.Errorf("onChange[%d] = %q, want %q", i, tops[i], want[i])
		}
	}
}

func TestFormatHints(t *testing.T) {
	got := FormatHints([]MenuHint{{Key: "q", Description: "Quit"}}, "blue")
	want := " [blue::b]<q>[-:-:-] Quit"
	if got != want {
		t.Errorf("FormatHints() = %q, want %q", got, want)
	}
}
