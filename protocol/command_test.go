package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want Command
		ok   bool
	}{
		{"PLAY_PAUSE", PlayPause, true},
		{"NEXT", Next, true},
		{"PREV", Previous, true},
		{"VOL_UP", VolumeUp, true},
		{"VOL_DOWN", VolumeDown, true},

		{"", 0, false},
		{"N", 0, false},
		{"next", 0, false},
		{"PREVIOUS", 0, false},
		{" NEXT", 0, false},
		{"NEXT ", 0, false},
		{"garbage", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := Parse(tt.line)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCommandStringRoundTrip(t *testing.T) {
	for _, c := range Commands {
		got, ok := Parse(c.String())
		assert.True(t, ok, c.String())
		assert.Equal(t, c, got)
	}
	assert.Equal(t, "UNKNOWN", Command(42).String())
}
