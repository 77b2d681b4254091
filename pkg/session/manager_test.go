package session

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voyago/voyago/pkg/chat"
)

func newTestManager() *Manager {
	return NewManager(ManagerConfig{Logger: zerolog.Nop()})
}

func TestManagerLifecycle(t *testing.T) {
	m := newTestManager()

	s1 := m.Create()
	s2 := m.Create()
	assert.NotEqual(t, s1.ID, s2.ID)
	assert.Equal(t, 2, m.Count())

	got, ok := m.Get(s1.ID)
	require.True(t, ok)
	assert.Same(t, s1, got)

	m.Remove(s1.ID)
	_, ok = m.Get(s1.ID)
	assert.False(t, ok)
	assert.Equal(t, 1, m.Count())

	// Removing twice is harmless.
	m.Remove(s1.ID)
	assert.Equal(t, 1, m.Count())
}

func TestSessionsAreIsolated(t *testing.T) {
	m := newTestManager()

	s1 := m.Create()
	s2 := m.Create()

	s1.Append(chat.Message{Role: chat.RoleUser, Content: "hello from one"})
	assert.Len(t, s1.History(), 1)
	assert.Empty(t, s2.History())
	assert.NotSame(t, s1.Cache(), s2.Cache())
}

func TestReapIdle(t *testing.T) {
	m := newTestManager()

	stale := m.Create()
	fresh := m.Create()

	stale.mu.Lock()
	stale.lastActive = time.Now().Add(-time.Hour)
	stale.mu.Unlock()

	reaped := m.ReapIdle(30 * time.Minute)
	assert.Equal(t, 1, reaped)

	_, ok := m.Get(stale.ID)
	assert.False(t, ok)
	_, ok = m.Get(fresh.ID)
	assert.True(t, ok)

	assert.Zero(t, m.ReapIdle(30*time.Minute))
}

func TestEnsureSystemPrompt(t *testing.T) {
	s := newSession("s1", 0)
	s.Append(chat.Message{Role: chat.RoleUser, Content: "hi"})

	s.EnsureSystemPrompt("be helpful")
	history := s.History()
	require.Len(t, history, 2)
	assert.Equal(t, chat.RoleSystem, history[0].Role)
	assert.Equal(t, "be helpful", history[0].Content)

	// A second call does not duplicate it.
	s.EnsureSystemPrompt("be helpful")
	assert.Len(t, s.History(), 2)
}

func TestReplaceHistory(t *testing.T) {
	s := newSession("s1", 0)
	s.Append(
		chat.Message{Role: chat.RoleUser, Content: "old"},
		chat.Message{Role: chat.RoleAssistant, Content: "old reply"},
	)

	s.ReplaceHistory([]chat.Message{
		{Role: chat.RoleUser, Content: "old"},
		{Role: chat.RoleAssistant, Content: "old reply"},
		{Role: chat.RoleUser, Content: "new question"},
	})

	history := s.History()
	require.Len(t, history, 3)
	assert.Equal(t, "new question", history[2].Content)
}

func TestHistoryReturnsCopy(t *testing.T) {
	s := newSession("s1", 0)
	s.Append(chat.Message{Role: chat.RoleUser, Content: "hi"})

	history := s.History()
	history[0].Content = "mutated"

	assert.Equal(t, "hi", s.History()[0].Content)
}

func TestRecordRound(t *testing.T) {
	s := newSession("s1", 0)
	before := s.LastActive()

	time.Sleep(time.Millisecond)
	s.RecordRound()
	s.RecordRound()

	assert.Equal(t, 2, s.Rounds())
	assert.True(t, s.LastActive().After(before))
}
