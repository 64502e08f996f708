package driver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateMachineHappyPath(t *testing.T) {
	sm := NewStateMachine("/dev/ttyUSB0")
	var seen []StatusInfo
	sm.SetCallback(func(info StatusInfo) { seen = append(seen, info) })

	assert.Equal(t, StateDisconnected, sm.GetState())
	require.NoError(t, sm.TransitionTo(StateConnecting))
	require.NoError(t, sm.TransitionTo(StateConnected))
	require.NoError(t, sm.TransitionToError(errors.New("unplugged")))
	require.NoError(t, sm.TransitionTo(StateTerminated))

	require.Len(t, seen, 4)
	assert.Equal(t, "CONNECTING", seen[0].State)
	assert.Equal(t, 1, seen[0].Attempts)
	assert.True(t, seen[1].IsConnected)
	assert.Equal(t, "Listening for gestures", seen[1].Message)
	assert.Equal(t, "DISCONNECTED", seen[2].State)
	assert.Equal(t, "unplugged", seen[2].LastError)
	assert.Equal(t, "Connection lost: unplugged", seen[2].Message)
	assert.Equal(t, "TERMINATED", seen[3].State)
	assert.Equal(t, "/dev/ttyUSB0", seen[3].Port)
}

func TestStateMachineRejectsInvalidEdges(t *testing.T) {
	tests := []struct {
		name string
		path []ConnectionState
		bad  ConnectionState
	}{
		{"disconnected to connected", nil, StateConnected},
		{"connected to connecting", []ConnectionState{StateConnecting, StateConnected}, StateConnecting},
		{"connected to terminated", []ConnectionState{StateConnecting, StateConnected}, StateTerminated},
		{"connecting twice", []ConnectionState{StateConnecting}, StateConnecting},
		{"terminated is final", []ConnectionState{StateTerminated}, StateConnecting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := NewStateMachine("COM3")
			for _, s := range tt.path {
				require.NoError(t, sm.TransitionTo(s))
			}
			before := sm.GetState()

			err := sm.TransitionTo(tt.bad)
			var te *TransitionError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, before, te.From)
			assert.Equal(t, tt.bad, te.To)
			assert.Equal(t, before, sm.GetState())
		})
	}
}

func TestStateMachineCountsAttempts(t *testing.T) {
	sm := NewStateMachine("COM3")

	for i := 0; i < 3; i++ {
		require.NoError(t, sm.TransitionTo(StateConnecting))
		require.NoError(t, sm.TransitionToError(errors.New("busy")))
	}
	info := sm.GetStatusInfo()
	assert.Equal(t, 3, info.Attempts)
	assert.Equal(t, "busy", info.LastError)

	require.NoError(t, sm.TransitionTo(StateConnecting))
	require.NoError(t, sm.TransitionTo(StateConnected))
	info = sm.GetStatusInfo()
	assert.Zero(t, info.Attempts)
	assert.Empty(t, info.LastError)
}

func TestConnectionStateString(t *testing.T) {
	assert.Equal(t, "UNKNOWN", ConnectionState(99).String())
}
