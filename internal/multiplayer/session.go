package multiplayer

import (
	"sort"
	"sync"
	"sync/atomic"
)

// SessionHandle is what the coordinator and matches know about a player
// connection. Implementations must never block in Send.
type SessionHandle interface {
	ID() SessionID
	Send(evt SessionEvent)
	Done() <-chan struct{}
}

// ChannelSession is a SessionHandle backed by a buffered channel.
// The TUI reads Events() from its Bubble Tea loop.
type ChannelSession struct {
	id       SessionID
	events   chan SessionEvent
	done     chan struct{}
	doneOnce sync.Once
	dropped  atomic.Uint64
}

// NewChannelSession creates a session with room for bufferSize pending
// events; values below 1 mean 64.
func NewChannelSession(id SessionID, bufferSize int) *ChannelSession {
	if bufferSize < 1 {
		bufferSize = 64
	}
	return &ChannelSession{
		id:     id,
		events: make(chan SessionEvent, bufferSize),
		done:   make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *ChannelSession) ID() SessionID {
	return s.id
}

// Send queues evt. When the buffer is full the oldest queued event is
// dropped; snapshots supersede each other so the newest one wins.
func (s *ChannelSession) Send(evt SessionEvent) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- evt:
		return
	default:
	}

	select {
	case <-s.events:
		s.dropped.Add(1)
	default:
	}
	select {
	case s.events <- evt:
	default:
		s.dropped.Add(1)
	}
}

// Events returns the receive side of the event queue.
func (s *ChannelSession) Events() <-chan SessionEvent {
	return s.events
}

// Done returns a channel closed by Close.
func (s *ChannelSession) Done() <-chan struct{} {
	return s.done
}

// Dropped returns how many events were discarded on a full buffer.
func (s *ChannelSession) Dropped() uint64 {
	return s.dropped.Load()
}

// Close marks the session as done. Safe to call multiple times.
func (s *ChannelSession) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// SessionRegistry tracks connected sessions. Safe for concurrent use.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[SessionID]SessionHandle
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[SessionID]SessionHandle),
	}
}

// Register adds a session, replacing any with the same id.
func (r *SessionRegistry) Register(session SessionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID()] = session
}

// Unregister removes a session.
func (r *SessionRegistry) Unregister(id SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Get retrieves a session by ID.
func (r *SessionRegistry) Get(id SessionID) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Count returns the number of registered sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// IDs returns the registered session ids in sorted order.
func (r *SessionRegistry) IDs() []SessionID {
	r.mu.RLock()
	ids := make([]SessionID, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
