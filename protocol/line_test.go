package protocol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineBufferSplitsAcrossReads(t *testing.T) {
	var lb LineBuffer

	assert.Empty(t, lb.Feed([]byte("PLAY_")))
	assert.Equal(t, 5, lb.Pending())
	assert.Equal(t, []string{"PLAY_PAUSE"}, lb.Feed([]byte("PAUSE\nNE")))
	assert.Equal(t, []string{"NEXT", "garbage"}, lb.Feed([]byte("XT\ngarbage\n")))
	assert.Zero(t, lb.Pending())
}

func TestLineBufferTrimsAndKeepsEmptyLines(t *testing.T) {
	var lb LineBuffer

	got := lb.Feed([]byte("VOL_UP\r\n\nPREV  \t\n"))
	assert.Equal(t, []string{"VOL_UP", "", "PREV"}, got)
}

func TestLineBufferDropsInvalidUTF8(t *testing.T) {
	var lb LineBuffer

	got := lb.Feed([]byte{0xff, 0xfe, 'N', 'E', 'X', 'T', 0xc3, '\n'})
	assert.Equal(t, []string{"NEXT"}, got)
}

func TestLineBufferDiscardsOverlongLineAcrossReads(t *testing.T) {
	var lb LineBuffer

	assert.Empty(t, lb.Feed(bytes.Repeat([]byte{'x'}, MaxLineLen+1)))
	assert.Zero(t, lb.Pending())
	assert.Empty(t, lb.Feed([]byte("NEXT\n")))
	assert.Equal(t, []string{"NEXT"}, lb.Feed([]byte("NEXT\n")))
}

func TestLineBufferOverlongLineIndependentOfSplits(t *testing.T) {
	line := append(bytes.Repeat([]byte{'x'}, MaxLineLen-1), []byte("NEXT\nPREV\n")...)

	for split := 0; split <= len(line); split += 37 {
		var lb LineBuffer
		got := append(lb.Feed(line[:split]), lb.Feed(line[split:])...)
		assert.Equal(t, []string{"PREV"}, got, "split at %d", split)
	}
}

func TestLineBufferKeepsLineAtLimit(t *testing.T) {
	var lb LineBuffer

	long := string(bytes.Repeat([]byte{'x'}, MaxLineLen))
	assert.Empty(t, lb.Feed([]byte(long[:100])))
	assert.Equal(t, []string{long}, lb.Feed([]byte(long[100:]+"\n")))
}

func TestLineBufferResetClearsDiscard(t *testing.T) {
	var lb LineBuffer

	lb.Feed(bytes.Repeat([]byte{'x'}, MaxLineLen+1))
	lb.Reset()
	assert.Equal(t, []string{"VOL_UP"}, lb.Feed([]byte("VOL_UP\n")))
}

func TestLineBufferReset(t *testing.T) {
	var lb LineBuffer

	lb.Feed([]byte("VOL_"))
	lb.Reset()
	assert.Equal(t, []string{"DOWN"}, lb.Feed([]byte("DOWN\n")))
}
