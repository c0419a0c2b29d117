// Package channel exposes the coordinator over a realtime WebSocket
// plus a small stateless HTTP surface. Each connection gets a session
// with a serial worker so results for one client never interleave.
package channel

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"assistant-core/internal/common/metrics"
)

// inboundCommand is one accepted command frame queued for the session
// worker.
type inboundCommand struct {
	CorrelationID string
	Utterance     string
}

// Session is the server-side state of one WebSocket connection.
type Session struct {
	ID   string
	conn *websocket.Conn

	// writeMu serializes frames: the worker goroutine and the read
	// loop's pong replies share the connection.
	writeMu sync.Mutex

	commands chan inboundCommand

	lastSeen atomic.Int64
	closed   atomic.Bool
}

func newSession(conn *websocket.Conn, buffer int) *Session {
	s := &Session{
		ID:       uuid.New().String(),
		conn:     conn,
		commands: make(chan inboundCommand, buffer),
	}
	s.touch()
	return s
}

func (s *Session) touch() {
	s.lastSeen.Store(time.Now().UnixNano())
}

func (s *Session) idleSince() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// writeJSON sends one frame, serialized against concurrent writers.
func (s *Session) writeJSON(v interface{}) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(v)
}

// close is idempotent; the first caller tears down the socket.
func (s *Session) close() {
	if s.closed.CompareAndSwap(false, true) {
		s.conn.Close()
	}
}

// sessionTable tracks live sessions for the sweeper and the active
// session gauge.
type sessionTable struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func newSessionTable() *sessionTable {
	return &sessionTable{sessions: make(map[string]*Session)}
}

func (t *sessionTable) add(s *Session) {
	t.mu.Lock()
	t.sessions[s.ID] = s
	t.mu.Unlock()
	metrics.ActiveSessions.Inc()
}

func (t *sessionTable) remove(id string) {
	t.mu.Lock()
	_, ok := t.sessions[id]
	delete(t.sessions, id)
	t.mu.Unlock()
	if ok {
		metrics.ActiveSessions.Dec()
	}
}

// sweepStale closes sessions that have not sent any frame within
// maxIdle. Closing the socket unblocks the read loop, which performs
// the ordinary teardown.
func (t *sessionTable) sweepStale(maxIdle time.Duration) []string {
	cutoff := time.Now().Add(-maxIdle)

	t.mu.Lock()
	var stale []*Session
	for _, s := range t.sessions {
		if s.idleSince().Before(cutoff) {
			stale = append(stale, s)
		}
	}
	t.mu.Unlock()

	ids := make([]string, 0, len(stale))
	for _, s := range stale {
		s.close()
		ids = append(ids, s.ID)
	}
	return ids
}
