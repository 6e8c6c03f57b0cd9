// Package server keeps track of the games running on the SSH arcade so they
// can be told about shutdowns and announcements.
package server

import (
	"sync"
	"time"
)

// ClientHandle represents one connected player's game.
type ClientHandle struct {
	ID       int
	Username string
	EventsCh chan ClientEvent // Events sent to the game loop
	Joined   time.Time
}

// ClientEvent is sent from the server to a running game.
type ClientEvent struct {
	Type    ClientEventType
	Message string // For broadcasts
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
	EventBroadcast
)

// Server is the registry of connected games. It is safe for concurrent use.
type Server struct {
	mu           sync.RWMutex
	clients      map[int]*ClientHandle
	nextClientID int
}

// NewServer creates an empty registry.
func NewServer() *Server {
	return &Server{
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
	}
}

// RegisterClient registers a new game for username and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle := &ClientHandle{
		ID:       s.nextClientID,
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
		Joined:   time.Now(),
	}
	s.nextClientID++
	s.clients[handle.ID] = handle
	return handle
}

// UnregisterClient removes a game from the registry.
func (s *Server) UnregisterClient(clientID int) {
	s.mu.Lock()
	delete(s.clients, clientID)
	s.mu.Unlock()
}

// Count returns the number of connected games.
func (s *Server) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Broadcast sends msg to every game except the one with id skip.
// Games whose event queue is full miss the message.
func (s *Server) Broadcast(msg string, skip int) {
	s.send(ClientEvent{Type: EventBroadcast, Message: msg}, skip)
}

func (s *Server) send(ev ClientEvent, skip int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, handle := range s.clients {
		if id == skip {
			continue
		}
		select {
		case handle.EventsCh <- ev:
		default:
		}
	}
}

// Shutdown notifies all connected games about the shutdown and waits for
// them to disconnect, up to timeout.
func (s *Server) Shutdown(timeout time.Duration) {
	s.send(ClientEvent{Type: EventServerShutdown}, 0)

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			if s.Count() == 0 {
				return
			}
		}
	}
}
