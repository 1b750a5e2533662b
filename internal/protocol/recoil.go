package protocol

// RecoilPulseValues writes the four recoil pulse widths, one per
// payload byte. The original source collapsed all four values onto
// buffer[2]; this writes p0..p3 as spec.md §9 flags it should.
func (e *Engine) RecoilPulseValues(p0, p1, p2, p3 byte) error {
	return e.framer.WriteFrame(byte(OpRecoilPulseValues), [4]byte{p0, p1, p2, p3})
}

// RecoilStyle selects the recoil style by its device-defined id.
func (e *Engine) RecoilStyle(style byte) error {
	return e.framer.WriteFrame(byte(OpRecoilStyle), [4]byte{style})
}

// RecoilEvents configures which trigger events produce recoil. The
// device-defined bitmask is expanded across all four payload bytes
// rather than collapsed onto p0.
func (e *Engine) RecoilEvents(mask byte) error {
	return e.framer.WriteFrame(byte(OpRecoilEvents), [4]byte{mask, mask, mask, mask})
}

// RecoilPositions configures the four recoil actuator positions
// individually: front-left, back-left, front-right, back-right.
func (e *Engine) RecoilPositions(frontLeft, backLeft, frontRight, backRight byte) error {
	return e.framer.WriteFrame(byte(OpRecoilPositions), [4]byte{frontLeft, backLeft, frontRight, backRight})
}

// RecoilStrength sets the overall recoil strength, 0-255.
func (e *Engine) RecoilStrength(strength byte) error {
	return e.framer.WriteFrame(byte(OpRecoilStrength), [4]byte{strength})
}

// RecoilTest fires a single recoil pulse for diagnostic purposes.
func (e *Engine) RecoilTest() error {
	return e.framer.WriteFrame(byte(OpRecoilTest), [4]byte{})
}

// RecoilTestRepeatStart begins repeated diagnostic recoil pulses.
func (e *Engine) RecoilTestRepeatStart() error {
	return e.framer.WriteFrame(byte(OpRecoilTestRepeatStart), [4]byte{})
}

// RecoilTestRepeatStop stops repeated diagnostic recoil pulses.
func (e *Engine) RecoilTestRepeatStop() error {
	return e.framer.WriteFrame(byte(OpRecoilTestRepeatStop), [4]byte{})
}

// PulseStrength sets the standard pulse strength, 0-255, replicated
// across p0..p2.
func (e *Engine) PulseStrength(strength byte) error {
	return e.framer.WriteFrame(byte(OpPulseStrength), [4]byte{strength, strength, strength, 0})
}

// CustomPulseStrength sets the custom pulse strength amount, 0-255, in p0.
func (e *Engine) CustomPulseStrength(strength byte) error {
	return e.framer.WriteFrame(byte(OpCustomPulseStrength), [4]byte{strength})
}
