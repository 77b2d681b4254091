// Package session owns the per-conversation state: the message history, the
// round counter, and the result cache. A session is created when a client
// connects and removed when it disconnects or goes idle.
package session

import (
	"sync"
	"time"

	"github.com/voyago/voyago/pkg/cache"
	"github.com/voyago/voyago/pkg/chat"
)

// Session is one client conversation. It implements chat.Conversation.
//
// The orchestration loop uses a session from a single goroutine, but the
// reaper inspects LastActive concurrently, so all state is mutex-guarded.
type Session struct {
	ID string

	mu         sync.Mutex
	history    []chat.Message
	rounds     int
	lastActive time.Time
	store      *cache.Store
}

func newSession(id string, batchSize int) *Session {
	return &Session{
		ID:         id,
		store:      cache.New(batchSize),
		lastActive: time.Now(),
	}
}

// Cache returns the session's result cache.
func (s *Session) Cache() *cache.Store {
	return s.store
}

// History returns a copy of the ordered message history.
func (s *Session) History() []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]chat.Message, len(s.history))
	copy(out, s.history)
	return out
}

// Append adds messages to the end of the history.
func (s *Session) Append(msgs ...chat.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, msgs...)
	s.lastActive = time.Now()
}

// ReplaceHistory swaps in a client-supplied history. The client is
// authoritative for user and assistant turns; the system prompt is
// re-inserted by the engine on the next turn if the client omitted it.
func (s *Session) ReplaceHistory(msgs []chat.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = make([]chat.Message, len(msgs))
	copy(s.history, msgs)
	s.lastActive = time.Now()
}

// EnsureSystemPrompt inserts a system message at position 0 if the history
// does not already start with one.
func (s *Session) EnsureSystemPrompt(prompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.history {
		if m.Role == chat.RoleSystem {
			return
		}
	}
	s.history = append([]chat.Message{{Role: chat.RoleSystem, Content: prompt}}, s.history...)
}

// RecordRound increments the loop iteration counter.
func (s *Session) RecordRound() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds++
	s.lastActive = time.Now()
}

// Rounds reports how many model rounds this session has run in total.
func (s *Session) Rounds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rounds
}

// LastActive reports when the session last saw activity.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}
