package protocol

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/barncastle/SindenLib/internal/settings"
)

// firmwareV1_6 bounds the legacy CursorOffset status-byte and resend
// behaviour documented in spec.md §4.7.
var firmwareV1_6 = settings.Version{Major: 1, Minor: 6}

const (
	statusUnassignTriggerPump = 200
	statusRequiresRecalibration = 201
	statusResyncTriggerPump   = 202
	statusButtonPush          = 254
)

// SendCursorOffset writes a CursorOffset frame carrying the 16-bit
// signed X/Y aim offsets, then atomically (per spec.md §5) reads and
// interprets any immediate status byte before returning. On firmware
// v1.5 and earlier, the same payload is immediately resent as an
// EnableSleepMode frame.
func (e *Engine) SendCursorOffset(x, y int16) error {
	payload := cursorPayload(x, y)
	if err := e.framer.WriteFrame(byte(OpCursorOffset), payload); err != nil {
		return err
	}

	if err := e.handleCursorStatusByte(); err != nil {
		return err
	}

	if !e.info.FirmwareVersion.AtLeast(firmwareV1_6) {
		if err := e.framer.WriteFrame(byte(OpEnableSleepMode), payload); err != nil {
			return err
		}
	}
	return nil
}

func cursorPayload(x, y int16) [4]byte {
	var p [4]byte
	binary.BigEndian.PutUint16(p[0:2], uint16(x))
	binary.BigEndian.PutUint16(p[2:4], uint16(y))
	return p
}

// handleCursorStatusByte examines any byte that arrived immediately
// after the cursor-offset write, per the status table in spec.md §4.7.
// An unrecognised byte, or no byte at all, is silently ignored
// (spec.md §7: "loose device contract").
func (e *Engine) handleCursorStatusByte() error {
	// Give the device a brief window to react; this mirrors the "may
	// elicit a status byte" phrasing rather than a fixed protocol delay.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_ = e.framer.Poll(ctx, 1)

	if e.framer.Available() == 0 {
		return nil
	}

	status, err := e.framer.ReadByte(context.Background())
	if err != nil {
		return err
	}

	switch status {
	case statusUnassignTriggerPump:
		e.unassignTriggerAndPump()
	case statusRequiresRecalibration:
		e.info.RequiresRecalibrationPush = true
		return e.resyncTriggerAndPump()
	case statusResyncTriggerPump:
		return e.resyncTriggerAndPump()
	case statusButtonPush:
		return e.handleButtonPushStatus()
	default:
		// Unrecognised status byte: ignored per the device's loose contract.
	}
	return nil
}

// handleButtonPushStatus reads the button-push trailer that follows a
// 254 status byte; the trailer length and validity rule depend on
// firmware version (spec.md §4.7).
func (e *Engine) handleButtonPushStatus() error {
	if e.info.FirmwareVersion.AtLeast(firmwareV1_6) {
		if e.framer.Available() < 3 {
			return nil
		}
		if _, err := e.framer.ReadExact(context.Background(), 3); err != nil {
			return err
		}
		e.info.LastButtonPush = time.Now()
		return nil
	}

	// Firmware < v1.6: 10-byte body plus one trailing byte, timestamped
	// only if any body byte is non-zero.
	if e.framer.Available() < 11 {
		return nil
	}
	body, err := e.framer.ReadExact(context.Background(), 10)
	if err != nil {
		return err
	}
	if _, err := e.framer.ReadExact(context.Background(), 1); err != nil { // trailing byte
		return err
	}
	for _, b := range body {
		if b != 0 {
			e.info.LastButtonPush = time.Now()
			break
		}
	}
	return nil
}
