package connections

import (
	"errors"
	"io"
	"sync"
)

// fakeConn is a scriptable transport: frames pushed into the channel are
// handed to ReadMessage, written frames are recorded for assertions.
type fakeConn struct {
	frames chan []byte

	mu       sync.Mutex
	sent     [][]byte
	writeErr error
	closed   bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{frames: make(chan []byte, 16)}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	raw, ok := <-f.frames
	if !ok {
		return 0, nil, io.EOF
	}
	return 1, raw, nil
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.sent = append(f.sent, data)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeConn) failWrites() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeErr = errors.New("broken pipe")
}
