package driver

import (
	"io"
	"time"
)

const (
	// BaudRate of the gesture sensor link (8N1).
	BaudRate = 115200

	// ReadTimeout bounds every Read so the manager can observe
	// cancellation between polls.
	ReadTimeout = time.Second
)

// Port is one open link to the gesture sensor. Read returns (0, nil) when
// the read timeout expires without data; any error means the link is gone.
type Port interface {
	io.ReadWriteCloser
	ResetInputBuffer() error
}
