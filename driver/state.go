package driver

import (
	"fmt"
	"sync"
	"time"
)

// ConnectionState represents the current state of the sensor link
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
	StateTerminated
)

// String returns the string representation of the state
func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	case StateTerminated:
		return "TERMINATED"
	default:
		return "UNKNOWN"
	}
}

// validTransitions lists the edges of the connection state machine.
var validTransitions = map[ConnectionState][]ConnectionState{
	StateDisconnected: {StateConnecting, StateTerminated},
	StateConnecting:   {StateConnected, StateDisconnected},
	StateConnected:    {StateDisconnected},
}

// CanTransition reports whether from -> to is an edge of the state machine.
func CanTransition(from, to ConnectionState) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// StatusInfo contains detailed status information for broadcasting
type StatusInfo struct {
	State       string    `json:"state"`
	Message     string    `json:"message"`
	Port        string    `json:"port"`
	Since       time.Time `json:"since"`
	LastError   string    `json:"last_error,omitempty"`
	Attempts    int       `json:"attempts,omitempty"`
	IsConnected bool      `json:"is_connected"`
}

// StateChangeCallback is called when state changes
type StateChangeCallback func(info StatusInfo)

// StateMachine tracks the connection state with thread-safety. Only the
// connection manager drives it; everyone else reads snapshots.
type StateMachine struct {
	mu sync.RWMutex

	currentState ConnectionState
	stateStarted time.Time
	portName     string
	lastError    string
	attempts     int

	onStateChange StateChangeCallback
}

// NewStateMachine creates a new state machine
func NewStateMachine(portName string) *StateMachine {
	return &StateMachine{
		currentState: StateDisconnected,
		stateStarted: time.Now(),
		portName:     portName,
	}
}

// SetCallback sets the state change callback. The callback runs with the
// state machine locked and must not call back into it.
func (sm *StateMachine) SetCallback(cb StateChangeCallback) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.onStateChange = cb
}

// GetState returns the current state
func (sm *StateMachine) GetState() ConnectionState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.currentState
}

// GetStatusInfo returns the current status information
func (sm *StateMachine) GetStatusInfo() StatusInfo {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.getStatusInfoLocked()
}

func (sm *StateMachine) getStatusInfoLocked() StatusInfo {
	info := StatusInfo{
		State:       sm.currentState.String(),
		Port:        sm.portName,
		Since:       sm.stateStarted,
		LastError:   sm.lastError,
		Attempts:    sm.attempts,
		IsConnected: sm.currentState == StateConnected,
	}

	switch sm.currentState {
	case StateDisconnected:
		if sm.lastError != "" {
			info.Message = "Connection lost: " + sm.lastError
		} else {
			info.Message = "Not connected"
		}
	case StateConnecting:
		info.Message = "Opening " + sm.portName + "..."
	case StateConnected:
		info.Message = "Listening for gestures"
	case StateTerminated:
		info.Message = "Stopped"
	}

	return info
}

// TransitionError reports an attempt to move along an edge that does not
// exist.
type TransitionError struct {
	From, To ConnectionState
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid state transition %s -> %s", e.From, e.To)
}

// TransitionTo changes to a new state
func (sm *StateMachine) TransitionTo(newState ConnectionState) error {
	return sm.transition(newState, "")
}

// TransitionToError moves to Disconnected and records why.
func (sm *StateMachine) TransitionToError(err error) error {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return sm.transition(StateDisconnected, msg)
}

func (sm *StateMachine) transition(newState ConnectionState, lastError string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !CanTransition(sm.currentState, newState) {
		return &TransitionError{From: sm.currentState, To: newState}
	}

	switch newState {
	case StateConnecting:
		sm.attempts++
	case StateConnected:
		sm.attempts = 0
		sm.lastError = ""
	}
	if lastError != "" {
		sm.lastError = lastError
	}

	sm.currentState = newState
	sm.stateStarted = time.Now()

	// Notify callback
	if sm.onStateChange != nil {
		sm.onStateChange(sm.getStatusInfoLocked())
	}
	return nil
}
