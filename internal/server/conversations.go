package server

import (
	"net/http"
	"time"

	"schoolhub/internal/assistant"
	"schoolhub/internal/logging"
)

// Chats idle longer than conversationIdle are dropped; past maxConversations
// the least recently used one goes first.
const (
	conversationIdle = 30 * time.Minute
	maxConversations = 500
)

type convEntry struct {
	conv     *assistant.Conversation
	lastUsed time.Time
}

// lookupConversation returns the session's chat without starting one.
func (s *Server) lookupConversation(id string) (*assistant.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneConversations()
	e, ok := s.convs[id]
	if !ok {
		return nil, false
	}
	e.lastUsed = s.now()
	return e.conv, true
}

// conversation returns the session's chat, starting one on first use.
func (s *Server) conversation(r *http.Request) (*assistant.Conversation, error) {
	if s.assistant == nil {
		return nil, assistant.ErrNotConfigured
	}
	id := sessionID(r)
	if conv, ok := s.lookupConversation(id); ok {
		return conv, nil
	}

	conv, err := s.assistant.StartChat(r.Context())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.convs[id]; ok {
		e.lastUsed = s.now()
		return e.conv, nil
	}
	s.pruneConversations()
	for s.maxConvs > 0 && len(s.convs) >= s.maxConvs {
		s.evictOldestConversation()
	}
	s.convs[id] = &convEntry{conv: conv, lastUsed: s.now()}
	return conv, nil
}

// pruneConversations drops idle chats. Caller holds mu.
func (s *Server) pruneConversations() {
	cutoff := s.now().Add(-s.convIdle)
	for id, e := range s.convs {
		if !e.lastUsed.After(cutoff) {
			logging.ServerDebug("dropping idle chat %s", e.conv.ID)
			delete(s.convs, id)
		}
	}
}

// evictOldestConversation drops the least recently used chat. Caller holds mu.
func (s *Server) evictOldestConversation() {
	var oldest string
	var at time.Time
	for id, e := range s.convs {
		if oldest == "" || e.lastUsed.Before(at) {
			oldest, at = id, e.lastUsed
		}
	}
	if oldest == "" {
		return
	}
	logging.ServerDebug("chat limit reached; dropping chat %s", s.convs[oldest].conv.ID)
	delete(s.convs, oldest)
}
