// Package chat holds the client-side messaging logic: conversation loading,
// optimistic sends, status reconciliation and push handling. Widgets are
// reached only through the View interface.
package chat

import (
	"slices"
	"sync"

	"github.com/matheus3301/mchat/internal/api"
	"github.com/matheus3301/mchat/internal/render"
)

// ThreadEntry is one message of the open thread together with the zone tag
// it was loaded with.
type ThreadEntry struct {
	Message  api.Message
	Timezone string
}

// Session is the mutable state shared by the chat components: who is
// logged in, which conversation is open and the last loaded data.
type Session struct {
	mu sync.RWMutex

	userID        int64
	activeChat    int64
	otherUser     api.User
	conversations []api.Conversation
	users         []api.User
	thread        []ThreadEntry
	timezone      string
	appliedLoad   uint64
}

// NewSession creates a session for the given user.
func NewSession(userID int64) *Session {
	return &Session{userID: userID}
}

// UserID returns the logged-in user's id.
func (s *Session) UserID() int64 {
	return s.userID
}

// ActiveChat returns the open conversation's user id, 0 when none.
func (s *Session) ActiveChat() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeChat
}

// SetActiveChat opens userID's conversation. The previous thread is dropped
// when the conversation changes. It returns the previously open id.
func (s *Session) SetActiveChat(userID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.activeChat
	if prev != userID {
		s.thread = nil
		s.otherUser = api.User{}
	}
	s.activeChat = userID
	return prev
}

// ApplyConversations replaces the list if seq is newer than the last
// applied load. It reports whether the list was replaced.
func (s *Session) ApplyConversations(seq uint64, list []api.Conversation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.appliedLoad {
		return false
	}
	s.appliedLoad = seq
	s.conversations = list
	return true
}

// Conversations returns a copy of the conversation list.
func (s *Session) Conversations() []api.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.conversations)
}

// SetUsers replaces the known users.
func (s *Session) SetUsers(users []api.User) {
	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
}

// Users returns a copy of the known users.
func (s *Session) Users() []api.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.users)
}

// User looks up a user by id among users and conversation partners.
func (s *Session) User(id int64) (api.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	for _, c := range s.conversations {
		if c.OtherUser.ID == id {
			return c.OtherUser, true
		}
	}
	return api.User{}, false
}

// SetThread stores a freshly loaded thread, but only while userID is still
// the open conversation. It reports whether the thread was stored.
func (s *Session) SetThread(userID int64, other api.User, entries []ThreadEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeChat != userID {
		return false
	}
	s.otherUser = other
	s.thread = entries
	return true
}

// AppendThread adds a message to the open thread if userID is still open.
func (s *Session) AppendThread(userID int64, e ThreadEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeChat != userID {
		return false
	}
	s.thread = append(s.thread, e)
	return true
}

// ReplaceInThread swaps the entry tracked under key for msg.
func (s *Session) ReplaceInThread(key string, msg api.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.thread {
		if render.MessageKey(s.thread[i].Message) == key {
			s.thread[i].Message = msg
			return
		}
	}
}

// Thread returns the open conversation's partner and a copy of its messages.
func (s *Session) Thread() (api.User, []ThreadEntry) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.otherUser, slices.Clone(s.thread)
}

// SetTimezone records the zone the backend reported for the user.
func (s *Session) SetTimezone(tz string) {
	s.mu.Lock()
	s.timezone = tz
	s.mu.Unlock()
}

// Timezone returns the zone the backend last reported.
func (s *Session) Timezone() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timezone
}
