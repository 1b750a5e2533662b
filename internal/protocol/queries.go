package protocol

import (
	"context"
	"strings"
	"time"

	"github.com/barncastle/SindenLib/internal/settings"
)

// queryResponseWindow bounds how long a single-shot query waits for its
// reply before giving up.
const queryResponseWindow = 200 * time.Millisecond

// RequestFirmware queries and caches the device's firmware version.
func (e *Engine) RequestFirmware() (settings.Version, error) {
	raw, err := e.request16(OpRequestFirmware)
	if err != nil {
		return settings.Version{}, err
	}
	v := settings.DecodeVersion(raw)
	e.info.FirmwareVersion = v
	return v, nil
}

// RequestCamera reads the linked camera name, one ASCII character per
// frame for settings.LinkedCameraNameLength frames, and caches it
// trimmed of its space padding.
func (e *Engine) RequestCamera() (string, error) {
	var b strings.Builder
	for i := 0; i < settings.LinkedCameraNameLength; i++ {
		if err := e.framer.WriteFrame(byte(OpRequestCamera), [4]byte{}); err != nil {
			return "", err
		}
		ch, err := e.readResponseByte()
		if err != nil {
			return "", err
		}
		b.WriteByte(ch)
	}
	name := strings.TrimRight(b.String(), " ")
	e.info.LinkedCameraName = name
	return name, nil
}

// UpdateCamera writes name to the device, one character per frame,
// space-padded to settings.LinkedCameraNameLength bytes. Each frame
// carries the character's index in p1 and the character itself in p3,
// mirroring AssignButton's payload layout.
func (e *Engine) UpdateCamera(name string) error {
	padded := settings.PadCameraName(name)
	for i, ch := range padded {
		payload := [4]byte{0, byte(i), 0, ch}
		if err := e.framer.WriteFrame(byte(OpUpdateCamera), payload); err != nil {
			return err
		}
	}
	e.info.LinkedCameraName = name
	return nil
}

// RequestCalibrationX queries and caches the horizontal calibration
// percentage.
func (e *Engine) RequestCalibrationX() (float64, error) {
	raw, err := e.request16(OpRequestCalibrationX)
	if err != nil {
		return 0, err
	}
	v := settings.DecodeCalibration(raw)
	e.info.CalibrationX = v
	return v, nil
}

// RequestCalibrationY queries and caches the vertical calibration
// percentage.
func (e *Engine) RequestCalibrationY() (float64, error) {
	raw, err := e.request16(OpRequestCalibrationY)
	if err != nil {
		return 0, err
	}
	v := settings.DecodeCalibration(raw)
	e.info.CalibrationY = v
	return v, nil
}

// UpdateCalibrationX writes the horizontal calibration percentage.
func (e *Engine) UpdateCalibrationX(v float64) error {
	return e.updateCalibration(OpUpdateCalibrationX, v, func() { e.info.CalibrationX = v })
}

// UpdateCalibrationY writes the vertical calibration percentage.
func (e *Engine) UpdateCalibrationY(v float64) error {
	return e.updateCalibration(OpUpdateCalibrationY, v, func() { e.info.CalibrationY = v })
}

func (e *Engine) updateCalibration(op Opcode, v float64, commit func()) error {
	raw := settings.EncodeCalibration(v)
	payload := [4]byte{byte(raw >> 8), byte(raw)}
	if err := e.framer.WriteFrame(byte(op), payload); err != nil {
		return err
	}
	commit()
	return nil
}

// RequestColour queries and caches the device's colour variation, a
// variable-length ASCII string terminated by the device's usual line
// framing.
func (e *Engine) RequestColour() (string, error) {
	if err := e.framer.WriteFrame(byte(OpRequestColour), [4]byte{}); err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryResponseWindow)
	defer cancel()
	line, err := e.framer.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	e.info.Colour = line
	return line, nil
}

// RequestManufactureDate queries and caches the device's manufacture
// date. The original source collapsed this onto the UniqueID response;
// here it reads and returns its own line, per spec.md §9.
func (e *Engine) RequestManufactureDate() (string, error) {
	if err := e.framer.WriteFrame(byte(OpRequestManufactureDate), [4]byte{}); err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryResponseWindow)
	defer cancel()
	line, err := e.framer.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	e.info.ManufactureDate = line
	return line, nil
}

// RequestUniqueID queries and caches the device's unique identifier,
// using its own dedicated opcode (see OpRequestUniqueID).
func (e *Engine) RequestUniqueID() (string, error) {
	if err := e.framer.WriteFrame(byte(OpRequestUniqueID), [4]byte{}); err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryResponseWindow)
	defer cancel()
	line, err := e.framer.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	e.info.UniqueID = line
	return line, nil
}

// request16 writes a bare request frame for op and reads back a
// 2-byte big-endian response.
func (e *Engine) request16(op Opcode) (uint16, error) {
	if err := e.framer.WriteFrame(byte(op), [4]byte{}); err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryResponseWindow)
	defer cancel()
	raw, err := e.framer.ReadExact(ctx, 2)
	if err != nil {
		return 0, err
	}
	return uint16(raw[0])<<8 | uint16(raw[1]), nil
}

// readResponseByte reads a single response byte within the query
// response window.
func (e *Engine) readResponseByte() (byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryResponseWindow)
	defer cancel()
	return e.framer.ReadByte(ctx)
}
