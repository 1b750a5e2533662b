package protocol

// boolPayload builds a 4-byte payload with a single 0/1 flag in p0.
func boolPayload(v bool) [4]byte {
	if v {
		return [4]byte{1, 0, 0, 0}
	}
	return [4]byte{0, 0, 0, 0}
}

// SetSleepMode enables or disables sleep mode using the dedicated
// enable/disable opcode pair.
func (e *Engine) SetSleepMode(enabled bool) error {
	op := OpDisableSleepMode
	if enabled {
		op = OpEnableSleepMode
	}
	return e.framer.WriteFrame(byte(op), [4]byte{})
}

// SetEdgeReload enables or disables edge reload.
func (e *Engine) SetEdgeReload(enabled bool) error {
	op := OpDisableEdgeReload
	if enabled {
		op = OpEnableEdgeReload
	}
	return e.framer.WriteFrame(byte(op), [4]byte{})
}

// SetEdgeClickReload enables or disables edge-click reload.
func (e *Engine) SetEdgeClickReload(enabled bool) error {
	op := OpDisableEdgeClickReload
	if enabled {
		op = OpEnableEdgeClickReload
	}
	return e.framer.WriteFrame(byte(op), [4]byte{})
}

// SetCalibrationEnabled toggles calibration mode (single opcode, boolean
// payload in p0).
func (e *Engine) SetCalibrationEnabled(enabled bool) error {
	return e.framer.WriteFrame(byte(OpEnableCalibration), boolPayload(enabled))
}

// SetRecoilEnabled toggles recoil (single opcode, boolean payload in p0).
func (e *Engine) SetRecoilEnabled(enabled bool) error {
	return e.framer.WriteFrame(byte(OpEnableRecoil), boolPayload(enabled))
}
