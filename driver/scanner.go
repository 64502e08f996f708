package driver

import (
	"runtime"
	"strings"

	"gesture-bridge/logger"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// PortInfo is one enumerated serial port.
type PortInfo struct {
	Name        string
	Description string
	IsUSB       bool
}

// Scanner picks the port the sensor is most likely attached to. It runs once
// at startup; the manager never re-resolves the port.
type Scanner struct {
	// List enumerates candidate ports. Defaults to ListPorts.
	List func() ([]PortInfo, error)
	// GOOS selects the fallback path. Defaults to runtime.GOOS.
	GOOS string
}

func NewScanner() *Scanner {
	return &Scanner{List: ListPorts, GOOS: runtime.GOOS}
}

// DetectPort returns the first likely sensor port, or the platform default.
func DetectPort() string {
	return NewScanner().Detect()
}

// Detect enumerates ports and selects one. Enumeration failures fall back
// to the platform default.
func (s *Scanner) Detect() string {
	ports, err := s.List()
	if err != nil {
		logger.Error("Failed to list serial ports: %v", err)
	}
	logger.Debug("Found %d serial ports: %v", len(ports), ports)

	if p, ok := SelectPort(ports); ok {
		logger.Info("Auto-detected serial port: %s", p)
		return p
	}

	p := DefaultPort(s.GOOS)
	logger.Info("No USB serial adapter found, using default port %s", p)
	return p
}

// ListPorts enumerates serial ports with their USB product description when
// the platform enumerator supports it, else by name only.
func ListPorts() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err == nil {
		ports := make([]PortInfo, 0, len(details))
		for _, d := range details {
			ports = append(ports, PortInfo{Name: d.Name, Description: d.Product, IsUSB: d.IsUSB})
		}
		return ports, nil
	}
	logger.Debug("Detailed port enumeration failed, falling back to names: %v", err)

	names, err := serial.GetPortsList()
	if err != nil {
		return nil, err
	}
	ports := make([]PortInfo, 0, len(names))
	for _, n := range names {
		ports = append(ports, PortInfo{Name: n})
	}
	return ports, nil
}

// SelectPort returns the first port that looks like a USB serial adapter.
func SelectPort(ports []PortInfo) (string, bool) {
	for _, p := range ports {
		if isLikelySensor(p) {
			return p.Name, true
		}
	}
	return "", false
}

func isLikelySensor(p PortInfo) bool {
	lower := strings.ToLower(p.Name)
	if strings.Contains(lower, "bluetooth") || strings.Contains(strings.ToLower(p.Description), "bluetooth") {
		return false
	}

	if p.IsUSB {
		return true
	}
	if strings.Contains(p.Description, "USB") || strings.Contains(p.Description, "Serial") {
		return true
	}
	return strings.Contains(lower, "usbserial") ||
		strings.Contains(lower, "usbmodem") ||
		strings.Contains(lower, "ttyusb") ||
		strings.Contains(lower, "ttyacm")
}

// DefaultPort returns the conventional sensor path for goos.
func DefaultPort(goos string) string {
	switch goos {
	case "darwin":
		return "/dev/tty.usbserial-0001"
	case "windows":
		return "COM3"
	default:
		return "/dev/ttyUSB0"
	}
}
