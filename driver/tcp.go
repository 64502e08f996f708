package driver

import (
	"errors"
	"fmt"
	"net"
	"time"
)

const (
	tcpDialTimeout = 2 * time.Second

	// drainPoll is how long ResetInputBuffer waits for more stale bytes;
	// drainLimit caps the whole drain so a peer that never pauses cannot
	// hold the connect step.
	drainPoll  = 10 * time.Millisecond
	drainLimit = 200 * time.Millisecond
)

// TCPPort wraps a TCP connection as a Port interface
// Used for serial-over-TCP bridges and the mock sensor
type TCPPort struct {
	conn net.Conn
}

// Ensure TCPPort implements Port interface
var _ Port = (*TCPPort)(nil)

// OpenTCP opens a TCP connection to a sensor endpoint
func OpenTCP(address string) (Port, error) {
	conn, err := net.DialTimeout("tcp", address, tcpDialTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	return &TCPPort{conn: conn}, nil
}

func (t *TCPPort) Read(p []byte) (n int, err error) {
	// Set read deadline to prevent blocking forever
	if err := t.conn.SetReadDeadline(time.Now().Add(ReadTimeout)); err != nil {
		return 0, err
	}
	n, err = t.conn.Read(p)

	// Convert timeout to nil error (expected behavior)
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return n, nil
	}
	return n, err
}

func (t *TCPPort) Write(p []byte) (n int, err error) {
	return t.conn.Write(p)
}

func (t *TCPPort) Close() error {
	return t.conn.Close()
}

// ResetInputBuffer drains whatever the peer sent before we started reading.
// It stops at the first quiet poll or after drainLimit.
func (t *TCPPort) ResetInputBuffer() error {
	buf := make([]byte, 1024)
	defer t.conn.SetReadDeadline(time.Time{})

	stop := time.Now().Add(drainLimit)
	for time.Now().Before(stop) {
		deadline := time.Now().Add(drainPoll)
		if deadline.After(stop) {
			deadline = stop
		}
		if err := t.conn.SetReadDeadline(deadline); err != nil {
			return err
		}
		n, err := t.conn.Read(buf)
		if n == 0 || err != nil {
			return nil
		}
	}
	return nil
}
