package logger

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestDebugIsGated(t *testing.T) {
	buf := captureOutput(t)
	t.Cleanup(func() { SetDebug(false) })

	SetDebug(false)
	Debug("hidden %d", 1)
	Wire("read", []byte("NEXT\n"))
	assert.Empty(t, buf.String())

	SetDebug(true)
	Debug("shown %d", 2)
	Wire("read", []byte("NEXT\n"))
	assert.Contains(t, buf.String(), "[DEBUG] shown 2")
	assert.Contains(t, buf.String(), `[WIRE] read data="NEXT\n"`)
}

func TestLevels(t *testing.T) {
	buf := captureOutput(t)

	Info("connected to %s", "/dev/ttyUSB0")
	Warn("slow")
	Error("boom: %v", errors.New("x"))
	Command("VOL_UP", "failed", errors.New("no mixer"))
	Command("NEXT", "succeeded", nil)

	out := buf.String()
	assert.Contains(t, out, "[INFO] connected to /dev/ttyUSB0")
	assert.Contains(t, out, "[WARN] slow")
	assert.Contains(t, out, "[ERROR] boom: x")
	assert.Contains(t, out, "[CMD] Command=VOL_UP Outcome=failed Error=no mixer")
	assert.Contains(t, out, "[CMD] Command=NEXT Outcome=succeeded")
}

func TestInitWritesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	t.Cleanup(Close)

	Info("hello file")
	Close()

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "[INFO] hello file")
}
