package link

import (
	"errors"
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// DefaultBaudRate is the baud rate of the robot's bluetooth module.
const DefaultBaudRate = 74880

// Port is an open serial port.
// A Read returns 0 bytes without error when the read timeout expires.
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
}

// Opener opens a port by name.
type Opener func(name string, baudRate int) (Port, error)

// Enumerator lists the names of available ports.
type Enumerator func() ([]string, error)

// OpenSerial opens a serial port in 8N1.
func OpenSerial(name string, baudRate int) (Port, error) {
	p, err := serial.Open(name, &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, classifyOpenError(name, err)
	}
	return p, nil
}

// ListSerialPorts lists serial ports on the system.
func ListSerialPorts() ([]string, error) {
	return serial.GetPortsList()
}

func classifyOpenError(name string, err error) error {
	var perr *serial.PortError
	if errors.As(err, &perr) {
		switch perr.Code() {
		case serial.PortBusy:
			return fmt.Errorf("%s: %w", name, ErrPortBusy)
		case serial.PortNotFound, serial.PermissionDenied:
			return fmt.Errorf("%s: %w: %v", name, ErrPortUnavailable, err)
		}
	}
	return fmt.Errorf("%s: %w: %v", name, ErrPortUnavailable, err)
}

// PortInfo describes a port with USB details if present.
type PortInfo struct {
	Name         string
	USB          bool
	VID          string
	PID          string
	SerialNumber string
	Product      string
}

// String implements fmt.Stringer.
func (p PortInfo) String() string {
	if !p.USB {
		return p.Name
	}
	s := fmt.Sprintf("%s [%s:%s]", p.Name, p.VID, p.PID)
	if p.Product != "" {
		s += " " + p.Product
	}
	if p.SerialNumber != "" {
		s += " sn=" + p.SerialNumber
	}
	return s
}

// DetailedPorts lists serial ports with USB details.
func DetailedPorts() ([]PortInfo, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}
	infos := make([]PortInfo, 0, len(ports))
	for _, p := range ports {
		infos = append(infos, PortInfo{
			Name:         p.Name,
			USB:          p.IsUSB,
			VID:          p.VID,
			PID:          p.PID,
			SerialNumber: p.SerialNumber,
			Product:      p.Product,
		})
	}
	return infos, nil
}
