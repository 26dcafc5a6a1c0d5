package relay

import (
	"net"
	"sync"
	"testing"
	"time"
)

const eventTimeout = 2 * time.Second

// eventObserver turns relay events into channels tests can wait on.
type eventObserver struct {
	accepted   chan string
	closed     chan error
	sent       chan string
	suppressed chan struct{}
	failed     chan error
}

func newEventObserver() *eventObserver {
	return &eventObserver{
		accepted:   make(chan string, 64),
		closed:     make(chan error, 64),
		sent:       make(chan string, 64),
		suppressed: make(chan struct{}, 64),
		failed:     make(chan error, 64),
	}
}

func (o *eventObserver) ConnectionAccepted(remote string)        { o.accepted <- remote }
func (o *eventObserver) ConnectionClosed(_ string, reason error) { o.closed <- reason }
func (o *eventObserver) RecordSent(reading string)               { o.sent <- reading }
func (o *eventObserver) RecordSuppressed()                       { o.suppressed <- struct{}{} }
func (o *eventObserver) WriteFailed(err error)                   { o.failed <- err }

func waitFor[T any](t *testing.T, ch <-chan T, what string) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(eventTimeout):
		t.Fatalf("timed out waiting for %s", what)
	}
	var zero T
	return zero
}

// recordingConn captures pump writes without a network.
type recordingConn struct {
	net.Conn

	mu       sync.Mutex
	writes   [][]byte
	err      error
	short    bool
	deadline time.Time
}

func (c *recordingConn) Write(b []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return 0, c.err
	}
	c.writes = append(c.writes, append([]byte(nil), b...))
	if c.short {
		return len(b) - 1, nil
	}
	return len(b), nil
}

func (c *recordingConn) SetWriteDeadline(t time.Time) error {
	c.mu.Lock()
	c.deadline = t
	c.mu.Unlock()
	return nil
}

func (c *recordingConn) Close() error { return nil }

func (c *recordingConn) texts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.writes))
	for _, w := range c.writes {
		var rec Record
		copy(rec[:], w)
		out = append(out, rec.Text())
	}
	return out
}

type readingEntry struct {
	at      time.Time
	reading string
}

type memorySink struct {
	mu      sync.Mutex
	entries []readingEntry
	err     error
}

func (s *memorySink) LogReading(at time.Time, reading string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, readingEntry{at: at, reading: reading})
	return s.err
}

func (s *memorySink) readings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.reading)
	}
	return out
}
