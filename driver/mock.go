package driver

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"time"
)

// ErrLinkLost is what a MockPort returns from Read after Drop.
var ErrLinkLost = errors.New("mock link lost")

// MockPort simulates a sensor link. Bytes queued with Feed are returned by
// Read; an empty queue behaves like a serial read timeout.
type MockPort struct {
	mu       sync.Mutex
	readBuf  *bytes.Buffer
	writeBuf *bytes.Buffer
	closed   bool
	dropped  bool
	resets   int
	wake     chan struct{}

	// Timeout is how long Read waits for data before returning (0, nil).
	Timeout time.Duration
}

var _ Port = (*MockPort)(nil)

func NewMockPort() *MockPort {
	return &MockPort{
		readBuf:  new(bytes.Buffer),
		writeBuf: new(bytes.Buffer),
		wake:     make(chan struct{}, 1),
		Timeout:  10 * time.Millisecond,
	}
}

// Feed queues data as if the sensor had sent it.
func (m *MockPort) Feed(data string) {
	m.mu.Lock()
	m.readBuf.WriteString(data)
	m.mu.Unlock()
	m.signal()
}

// Drop simulates the cable being pulled: the next Read fails.
func (m *MockPort) Drop() {
	m.mu.Lock()
	m.dropped = true
	m.mu.Unlock()
	m.signal()
}

func (m *MockPort) signal() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

func (m *MockPort) Read(p []byte) (n int, err error) {
	if ok, n, err := m.tryRead(p); ok {
		return n, err
	}

	select {
	case <-m.wake:
	case <-time.After(m.Timeout):
	}

	_, n, err = m.tryRead(p)
	return n, err
}

func (m *MockPort) tryRead(p []byte) (bool, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return true, 0, io.EOF
	}
	if m.readBuf.Len() > 0 {
		n, err := m.readBuf.Read(p)
		return true, n, err
	}
	if m.dropped {
		return true, 0, ErrLinkLost
	}
	return false, 0, nil
}

func (m *MockPort) Write(p []byte) (n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, io.ErrClosedPipe
	}
	return m.writeBuf.Write(p)
}

func (m *MockPort) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *MockPort) ResetInputBuffer() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readBuf.Reset()
	m.resets++
	return nil
}

// Closed reports whether Close has been called.
func (m *MockPort) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Resets returns how many times the input buffer was cleared.
func (m *MockPort) Resets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resets
}
