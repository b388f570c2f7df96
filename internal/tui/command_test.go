package tui

import (
	"testing"

	"github.com/matheus3301/mchat/internal/api"
	"github.com/matheus3301/mchat/internal/render"
	"github.com/matheus3301/mchat/internal/tui/keys"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{"quit", Command{Name: "quit"}},
		{":q", Command{Name: "quit"}},
		{"  open   Ana Ruiz ", Command{Name: "open", Args: "Ana Ruiz"}},
		{"S room 4", Command{Name: "search", Args: "room 4"}},
		{"compose", Command{Name: "compose"}},
		{"", Command{}},
	}
	for _, tt := range tests {
		if got := ParseCommand(tt.input); got != tt.want {
			t.Errorf("ParseCommand(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestCommandKey(t *testing.T) {
	if got := ParseCommand("sb").Key(); got != keys.ToggleSidebar {
		t.Errorf("sb key = %v", got)
	}
	if got := ParseCommand("compose Ana").Key(); got != keys.None {
		t.Errorf("compose with args key = %v, want none", got)
	}
	if got := ParseCommand("open Ana").Key(); got != keys.None {
		t.Errorf("open key = %v, want none", got)
	}
}

func TestMatchConversation(t *testing.T) {
	rows := []render.ConversationRow{
		{UserID: 2, Name: "Ana Ruiz"},
		{UserID: 3, Name: "Lee Park"},
	}
	if id, ok := matchConversation(rows, "park"); !ok || id != 3 {
		t.Errorf("match park = %d, %v", id, ok)
	}
	if _, ok := matchConversation(rows, "zoe"); ok {
		t.Error("zoe should not match")
	}
	if _, ok := matchConversation(rows, ""); ok {
		t.Error("empty term should not match")
	}
}

func TestMatchUser(t *testing.T) {
	users := []api.User{
		{ID: 4, FirstName: "Maria", LastName: "Lopes"},
		{ID: 5, FirstName: "Mario", LastName: "Silva"},
	}
	if id, ok := matchUser(users, "silva"); !ok || id != 5 {
		t.Errorf("match silva = %d, %v", id, ok)
	}
	if id, ok := matchUser(users, "mari"); !ok || id != 4 {
		t.Errorf("match mari = %d, %v, want first match", id, ok)
	}
	if _, ok := matchUser(users, ""); ok {
		t.Error("empty term should not match")
	}
}
