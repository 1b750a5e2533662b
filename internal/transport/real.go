package transport

import (
	"fmt"

	"go.bug.st/serial"
)

// BaudRate is the fixed device line speed (spec.md §6).
const BaudRate = 115200

// OpenReal opens the serial port at path with the device's fixed
// parameters (115200 8N1) and asserts RTS/DTR, as required by the
// device's power-on sequencing.
func OpenReal(path string) (*Framer, error) {
	mode := &serial.Mode{
		BaudRate: BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("transport: open %s: %w", path, err)
	}
	if err := port.SetRTS(true); err != nil {
		port.Close()
		return nil, fmt.Errorf("transport: set RTS: %w", err)
	}
	if err := port.SetDTR(true); err != nil {
		port.Close()
		return nil, fmt.Errorf("transport: set DTR: %w", err)
	}

	return NewFramer(port), nil
}
