package protocol

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/barncastle/SindenLib/internal/settings"
	"github.com/barncastle/SindenLib/internal/transport"
)

// ConnectionState tracks progress through the connect handshake.
type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Opening
	AwaitingDeviceKey
	AwaitingHandshakeAck
	Authenticated
)

// Opener opens a raw serial port given a path, returning the transport
// Framer wrapping it. Tests inject a fake; production uses
// transport.OpenReal.
type Opener func(path string) (*transport.Framer, error)

// Engine is the protocol state machine: session keys, device info, and
// button map are single-owner here per spec.md §5 — only Engine mutates
// DeviceInfo and the session key; the vision pipeline only ever calls
// back into Engine to push calibration or a cursor offset.
type Engine struct {
	open   Opener
	timing Timing

	framer *transport.Framer
	state  ConnectionState

	info    *settings.DeviceInfo
	buttons *settings.ButtonMap

	sessionKey [32]byte
}

// NewEngine returns an Engine ready to Connect. open is typically
// transport.OpenReal; tests supply a fake opener backed by
// transport.FakePort.
func NewEngine(open Opener, timing Timing) *Engine {
	return &Engine{
		open:    open,
		timing:  timing,
		state:   Disconnected,
		info:    settings.NewDeviceInfo(),
		buttons: settings.NewButtonMap(),
	}
}

// Info returns the device info record mutated by the connect sequence
// and subsequent queries.
func (e *Engine) Info() *settings.DeviceInfo { return e.info }

// Buttons returns the live button map. CursorOffset status-byte
// handling and AssignButton both operate on this map in place.
func (e *Engine) Buttons() *settings.ButtonMap { return e.buttons }

// State returns the current connection state.
func (e *Engine) State() ConnectionState { return e.state }

// Connect runs the full six-step handshake against path (spec.md
// §4.7). A double-connect is a no-op returning ErrAlreadyConnected.
// The whole sequence is bounded by Timing.ConnectTimeout as a safety
// net; exceeding it surfaces as ErrDeviceNotResponding.
func (e *Engine) Connect(path string) error {
	if e.state != Disconnected {
		return ErrAlreadyConnected
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.timing.ConnectTimeout)
	defer cancel()

	e.state = Opening
	framer, err := e.open(path)
	if err != nil {
		e.state = Disconnected
		return fmt.Errorf("%w: %v", ErrDeviceNotResponding, err)
	}
	e.framer = framer

	if err := e.runHandshake(ctx); err != nil {
		e.framer.Close()
		e.framer = nil
		e.state = Disconnected
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", ErrDeviceNotResponding, err)
		}
		return err
	}

	e.state = Authenticated
	return nil
}

// runHandshake performs steps 2-6 of the connect sequence.
func (e *Engine) runHandshake(ctx context.Context) error {
	// Step 2: Connect frame, settle.
	if err := e.framer.WriteFrame(byte(OpConnect), [4]byte{}); err != nil {
		return wrapIOErr(err)
	}
	e.framer.Flush(e.timing.ConnectFlushDelay)

	// Step 3: fresh 32-byte nonce = SHA-256(random 16-byte identifier).
	e.state = AwaitingDeviceKey
	identifier, err := uuid.New().MarshalBinary()
	if err != nil {
		return fmt.Errorf("protocol: generate client identifier: %w", err)
	}
	nonce := sha256.Sum256(identifier)
	if err := e.framer.WriteBytes(nonce[:]); err != nil {
		return wrapIOErr(err)
	}

	// Step 4: device echoes SHA-256(nonce || PrivateKey); must match ours.
	expected := sessionKeyFor(nonce)
	if err := e.framer.Poll(ctx, 32); err != nil {
		return wrapIOErr(err)
	}
	deviceKey, err := e.framer.ReadExact(ctx, 32)
	if err != nil {
		return wrapIOErr(err)
	}
	if [32]byte(deviceKey) != expected {
		return ErrInvalidAuthentication
	}
	e.sessionKey = expected

	// Step 5: Handshake frame, settle, read device handshake value,
	// respond with SHA-256(handshake || HandshakeKey), expect "true".
	e.state = AwaitingHandshakeAck
	if err := e.framer.WriteFrame(byte(OpHandshake), [4]byte{}); err != nil {
		return wrapIOErr(err)
	}
	sleep(e.timing.HandshakeSettleDelay)

	if err := e.framer.Poll(ctx, 32); err != nil {
		return wrapIOErr(err)
	}
	handshake, err := e.framer.ReadExact(ctx, 32)
	if err != nil {
		return wrapIOErr(err)
	}

	var buf [64]byte
	copy(buf[:32], handshake)
	copy(buf[32:], handshakeKey[:])
	ack := sha256.Sum256(buf[:])
	if err := e.framer.WriteBytes(ack[:]); err != nil {
		return wrapIOErr(err)
	}

	if err := e.framer.Poll(ctx, 5); err != nil {
		return wrapIOErr(err)
	}
	line, err := e.framer.ReadLine(ctx)
	if err != nil {
		return wrapIOErr(err)
	}
	if line != "true" {
		return ErrInvalidAuthentication
	}

	// Step 6: Authenticated, sent twice 100ms apart.
	if err := e.framer.WriteFrame(byte(OpAuthenticated), [4]byte{}); err != nil {
		return wrapIOErr(err)
	}
	sleep(e.timing.AuthenticatedRepeatDelay)
	if err := e.framer.WriteFrame(byte(OpAuthenticated), [4]byte{}); err != nil {
		return wrapIOErr(err)
	}

	return nil
}

// sessionKeyFor derives the session key the device is expected to echo
// back during step 4 of the connect sequence.
func sessionKeyFor(nonce [32]byte) [32]byte {
	var buf [32 + 41]byte
	copy(buf[:32], nonce[:])
	copy(buf[32:], privateKey[:])
	return sha256.Sum256(buf[:])
}

// wrapIOErr converts a transport read/write failure during the connect
// sequence into a fatal error that propagates to the caller, per
// spec.md §7 ("the connect path converts port-open failures to
// DeviceNotResponding but lets later read failures propagate as fatal").
func wrapIOErr(err error) error {
	return fmt.Errorf("protocol: connect sequence I/O: %w", err)
}

// StartProcedure runs the post-connect initialisation sequence: enable
// sleep mode, edge-click reload, and calibration; resync every button
// assignment; enable recoil; settle and drain residual input.
func (e *Engine) StartProcedure() error {
	if e.state != Authenticated {
		return fmt.Errorf("protocol: StartProcedure called while not authenticated")
	}
	if err := e.SetSleepMode(true); err != nil {
		return err
	}
	if err := e.SetEdgeClickReload(true); err != nil {
		return err
	}
	if err := e.SetCalibrationEnabled(true); err != nil {
		return err
	}
	if err := e.resyncAllButtons(); err != nil {
		return err
	}
	if err := e.SetRecoilEnabled(true); err != nil {
		return err
	}
	sleep(e.timing.StartSettleDelay)
	e.framer.ReadAll() // drain residual input
	return nil
}

// Disconnect closes the serial port and resets session state. It is a
// no-op if already disconnected.
func (e *Engine) Disconnect() error {
	if e.state == Disconnected {
		return nil
	}
	err := e.framer.Close()
	e.framer = nil
	e.state = Disconnected
	e.sessionKey = [32]byte{}
	return err
}
