package driver

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.bug.st/serial"
)

// TCPScheme prefixes port identifiers that name a TCP endpoint (serial
// servers, the mock sensor) rather than a local tty.
const TCPScheme = "tcp://"

// ============================================================================
// Serial Port (USB/UART)
// ============================================================================

// SerialPort wraps go.bug.st/serial for the sensor link
type SerialPort struct {
	serial.Port
}

var _ Port = (*SerialPort)(nil)

// openSerialPort opens a physical serial port at 8N1
func openSerialPort(portName string, baudRate int) (Port, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		var portErr *serial.PortError
		if os.IsNotExist(err) || (errors.As(err, &portErr) && portErr.Code() == serial.PortNotFound) {
			return nil, fmt.Errorf("the port '%s' was not found: %w", portName, err)
		}
		return nil, fmt.Errorf("failed to open %s: %w", portName, err)
	}

	// Set read timeout to prevent blocking forever
	if err := port.SetReadTimeout(ReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}

	return &SerialPort{Port: port}, nil
}

// ============================================================================
// Unified Open Function
// ============================================================================

// OpenPort opens a port - either physical serial or TCP based on the address format
// TCP addresses should be in format: "tcp://host:port"
// Serial ports: "COM3", "/dev/ttyUSB0", etc.
func OpenPort(portName string, baudRate int) (Port, error) {
	if strings.HasPrefix(portName, TCPScheme) {
		return OpenTCP(strings.TrimPrefix(portName, TCPScheme))
	}
	return openSerialPort(portName, baudRate)
}
