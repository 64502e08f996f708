package driver

import (
	"context"
	"fmt"
	"time"

	"gesture-bridge/logger"
	"gesture-bridge/protocol"
)

const (
	// DefaultBackoff is the fixed wait between reconnect attempts.
	DefaultBackoff = 2 * time.Second

	// MinLineLen drops boot-time noise before it reaches the handler.
	MinLineLen = 2

	// failureLogEvery keeps a permanently absent device from flooding the
	// error log: only the first failure of a streak and every Nth after it
	// are logged at error level.
	failureLogEvery = 30
)

// LineHandler processes one line read from the sensor. Errors and panics
// are logged by the manager and never stop the read loop.
type LineHandler func(ctx context.Context, line string) error

// OpenFunc opens the port named portName.
type OpenFunc func(portName string, baudRate int) (Port, error)

// Manager keeps a live link to one port, reconnecting forever with a fixed
// backoff, and hands every line it reads to a LineHandler.
type Manager struct {
	portName string
	baudRate int
	state    *StateMachine

	// Backoff is the wait after a failed open or a lost link.
	Backoff time.Duration
	// Open opens the port. Defaults to OpenPort.
	Open OpenFunc

	// Owned by the Run goroutine.
	port     Port
	lines    protocol.LineBuffer
	failures int
}

func NewManager(portName string, baudRate int) *Manager {
	return &Manager{
		portName: portName,
		baudRate: baudRate,
		state:    NewStateMachine(portName),
		Backoff:  DefaultBackoff,
		Open:     OpenPort,
	}
}

// State exposes the connection state machine for observation.
func (m *Manager) State() *StateMachine {
	return m.state
}

// PortName returns the port the manager (re)connects to.
func (m *Manager) PortName() string {
	return m.portName
}

// Run connects, reads and reconnects until ctx is cancelled. On return the
// port is closed and the state is Terminated.
func (m *Manager) Run(ctx context.Context, handle LineHandler) {
	logger.Info("Attempting to connect to %s...", m.portName)
	buf := make([]byte, 256)

	for {
		if ctx.Err() != nil {
			m.shutdown()
			return
		}

		if m.port == nil {
			if err := m.connect(); err != nil {
				m.logFailure("Failed to open %s: %v. Retrying in %s...", m.portName, err, m.Backoff)
				if !m.wait(ctx) {
					m.shutdown()
					return
				}
			}
			continue
		}

		n, err := m.port.Read(buf)
		if n > 0 {
			logger.Wire("read", buf[:n])
			for _, line := range m.lines.Feed(buf[:n]) {
				m.deliver(ctx, handle, line)
			}
		}
		if err != nil {
			m.failures = 0
			m.logFailure("Connection lost with %s: %v. Retrying in %s...", m.portName, err, m.Backoff)
			m.disconnect(err)
			if !m.wait(ctx) {
				m.shutdown()
				return
			}
		}
	}
}

// connect performs one open attempt.
func (m *Manager) connect() error {
	m.transition(StateConnecting)

	port, err := m.Open(m.portName, m.baudRate)
	if err != nil {
		m.failures++
		m.fail(err)
		return err
	}

	// Discard whatever arrived before we were listening
	if err := port.ResetInputBuffer(); err != nil {
		logger.Warn("Failed to clear input buffer on %s: %v", m.portName, err)
	}
	m.lines.Reset()
	m.port = port
	m.transition(StateConnected)

	if m.failures > 0 {
		logger.Info("Successfully connected to %s after %d failed attempts.", m.portName, m.failures)
	} else {
		logger.Info("Successfully connected to %s.", m.portName)
	}
	m.failures = 0
	logger.Info("Listening for gestures. Press Ctrl+C to exit.")
	return nil
}

// deliver hands one line to the handler. Nothing the handler does can
// escape this call.
func (m *Manager) deliver(ctx context.Context, handle LineHandler, line string) {
	if len(line) < MinLineLen {
		if line != "" {
			logger.Debug("Dropped noise line %q", line)
		}
		return
	}

	logger.Info("Received command: %s", line)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic while handling %q: %v", line, r)
		}
	}()
	if err := handle(ctx, line); err != nil {
		logger.Error("Error handling %q: %v", line, err)
	}
}

// disconnect releases the handle after a lost link.
func (m *Manager) disconnect(cause error) {
	m.closePort()
	m.fail(cause)
}

// shutdown releases everything on cancellation.
func (m *Manager) shutdown() {
	logger.Info("Exiting program.")
	if m.port != nil {
		m.closePort()
		m.transition(StateDisconnected)
	}
	m.transition(StateTerminated)
}

func (m *Manager) closePort() {
	if m.port == nil {
		return
	}
	if err := m.port.Close(); err != nil {
		logger.Debug("Error closing %s: %v", m.portName, err)
	}
	m.port = nil
	m.lines.Reset()
}

// wait sleeps for the backoff. It returns false if ctx was cancelled first.
func (m *Manager) wait(ctx context.Context) bool {
	t := time.NewTimer(m.Backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (m *Manager) logFailure(format string, args ...interface{}) {
	if m.failures <= 1 || m.failures%failureLogEvery == 0 {
		logger.Error(format, args...)
		return
	}
	logger.Debug("(attempt %d) %s", m.failures, fmt.Sprintf(format, args...))
}

func (m *Manager) transition(to ConnectionState) {
	if err := m.state.TransitionTo(to); err != nil {
		logger.Error("%v", err)
	}
}

func (m *Manager) fail(cause error) {
	if err := m.state.TransitionToError(cause); err != nil {
		logger.Error("%v", err)
	}
}
