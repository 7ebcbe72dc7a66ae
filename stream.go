package a3s

import "sync"

// StreamHandle is the push side of a live server stream. Registrations
// are one-shot: arming covers the next emission only, and firing any one
// listener consumes the whole armed set. Implementations block emission
// until a matching listener is armed, so a slow consumer applies
// backpressure instead of losing items.
type StreamHandle interface {
	// OnItem arms fn to receive the next streamed item.
	OnItem(fn func(StreamChunk))
	// OnEnd arms fn to observe normal termination.
	OnEnd(fn func())
	// OnError arms fn to observe a transport failure.
	OnError(fn func(error))
	// Cancel releases the underlying stream. It is idempotent and unblocks
	// any in-flight emission.
	Cancel()
}

// streamState tracks the adapter's position in its lifecycle.
type streamState int

const (
	streamIdle     streamState = iota // no pending pull
	streamAwaiting                    // a Next call is outstanding
	streamEnded                       // terminal: ended normally or closed
	streamFailed                      // terminal: holds a transport error
)

// streamEvent is one resolved emission delivered to a pending Next call.
type streamEvent struct {
	kind  streamEventKind
	chunk StreamChunk
	err   error
}

type streamEventKind int

const (
	eventItem streamEventKind = iota
	eventEnd
	eventError
)

// Stream converts a push-style [StreamHandle] into a pull iterator.
// Usage:
//
//	stream, err := client.StreamMessage(ctx, sessionID, msg)
//	if err != nil { ... }
//	defer stream.Close()
//	for stream.Next() {
//	    chunk := stream.Current()
//	    // handle chunk
//	}
//	if err := stream.Err(); err != nil {
//	    // handle transport error
//	}
//
// A Stream serves exactly one consumer: Next must not be called
// concurrently. After the stream ends or fails, further Next calls return
// false immediately and Err keeps reporting the same outcome. The handle
// registration is released on every exit path: normal end, transport
// error, or an early Close.
type Stream struct {
	handle StreamHandle

	mu      sync.Mutex
	state   streamState
	current StreamChunk
	err     error
	closing bool
	closed  chan struct{}
	arrived chan streamEvent
	release sync.Once
}

// NewStream wraps a stream handle in a pull iterator.
func NewStream(handle StreamHandle) *Stream {
	return &Stream{
		handle: handle,
		closed: make(chan struct{}),
		// At most one in-flight item plus one terminal event can be
		// pending at once; the buffer keeps handle callbacks from
		// ever blocking.
		arrived: make(chan streamEvent, 2),
	}
}

// Next blocks until the next item arrives and returns true, or returns
// false once the stream has ended, failed, or been closed. It panics if
// called while another Next is in flight.
func (s *Stream) Next() bool {
	s.mu.Lock()
	if s.state == streamAwaiting {
		s.mu.Unlock()
		panic("a3s: concurrent Next on Stream")
	}
	if s.closing && s.state != streamFailed {
		s.state = streamEnded
	}
	if s.state == streamEnded || s.state == streamFailed {
		s.mu.Unlock()
		return false
	}
	s.state = streamAwaiting
	s.mu.Unlock()

	// Arm a fresh one-shot listener set. If a terminal event from the
	// previous set is already queued, these registrations stay inert and
	// the select below picks the queued event up instead.
	s.handle.OnItem(func(chunk StreamChunk) { s.arrived <- streamEvent{kind: eventItem, chunk: chunk} })
	s.handle.OnEnd(func() { s.arrived <- streamEvent{kind: eventEnd} })
	s.handle.OnError(func(err error) { s.arrived <- streamEvent{kind: eventError, err: err} })

	var ev streamEvent
	select {
	case ev = <-s.arrived:
	case <-s.closed:
		s.mu.Lock()
		s.state = streamEnded
		s.mu.Unlock()
		s.releaseHandle()
		return false
	}

	s.mu.Lock()
	switch ev.kind {
	case eventItem:
		if s.closing {
			s.state = streamEnded
			s.mu.Unlock()
			s.releaseHandle()
			return false
		}
		s.state = streamIdle
		s.current = ev.chunk
		s.mu.Unlock()
		return true
	case eventEnd:
		s.state = streamEnded
		s.mu.Unlock()
		s.releaseHandle()
		return false
	default:
		s.state = streamFailed
		s.err = ev.err
		s.mu.Unlock()
		s.releaseHandle()
		return false
	}
}

// Current returns the most recent item returned by Next. It is the zero
// chunk before the first successful Next.
func (s *Stream) Current() StreamChunk {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Err returns the transport error that failed the stream, unmodified, or
// nil after a normal end or close.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close releases the handle registration and marks the stream ended unless
// it already failed. It is idempotent, unblocks a pending Next, and must be
// called when abandoning iteration early; streams that end or fail on their
// own release themselves.
func (s *Stream) Close() error {
	s.mu.Lock()
	if !s.closing {
		s.closing = true
		close(s.closed)
		if s.state != streamFailed && s.state != streamAwaiting {
			s.state = streamEnded
		}
	}
	s.mu.Unlock()
	s.releaseHandle()
	return nil
}

// releaseHandle cancels the handle registration exactly once across all
// exit paths.
func (s *Stream) releaseHandle() {
	s.release.Do(s.handle.Cancel)
}
