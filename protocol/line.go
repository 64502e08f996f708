package protocol

import (
	"bytes"
	"strings"
)

const (
	// Delimiter terminates every line on the wire.
	Delimiter byte = '\n'

	// MaxLineLen bounds a line, delimiter excluded. Longer lines are
	// discarded up to and including their delimiter.
	MaxLineLen = 256
)

// LineBuffer accumulates bytes read from the link and cuts them into lines.
// A line longer than MaxLineLen is dropped whole, however the reads split
// it. It is not safe for concurrent use.
type LineBuffer struct {
	buf        bytes.Buffer
	discarding bool
}

// Feed appends p and returns every line completed by it, decoded and
// trimmed. Empty lines are returned as empty strings.
func (lb *LineBuffer) Feed(p []byte) []string {
	var lines []string
	for len(p) > 0 {
		idx := bytes.IndexByte(p, Delimiter)
		if idx < 0 {
			lb.append(p)
			break
		}
		lb.append(p[:idx])
		if !lb.discarding {
			lines = append(lines, Decode(lb.buf.Bytes()))
		}
		lb.buf.Reset()
		lb.discarding = false
		p = p[idx+1:]
	}
	return lines
}

// append buffers part of the current line, switching to discard mode once
// the line outgrows MaxLineLen.
func (lb *LineBuffer) append(p []byte) {
	if lb.discarding {
		return
	}
	if lb.buf.Len()+len(p) > MaxLineLen {
		lb.buf.Reset()
		lb.discarding = true
		return
	}
	lb.buf.Write(p)
}

// Reset drops any partial line.
func (lb *LineBuffer) Reset() {
	lb.buf.Reset()
	lb.discarding = false
}

// Pending returns the number of buffered bytes not yet terminated.
func (lb *LineBuffer) Pending() int {
	return lb.buf.Len()
}

// Decode turns raw line bytes into text. Invalid UTF-8 sequences are
// dropped and trailing whitespace is trimmed.
func Decode(raw []byte) string {
	return strings.TrimRightFunc(strings.ToValidUTF8(string(raw), ""), isSpace)
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\r', '\n', '\v', '\f', 0x00:
		return true
	}
	return false
}
