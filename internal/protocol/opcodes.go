// Package protocol implements the device-facing half of the serial
// protocol: opcode framing, the mutually-authenticated connect
// handshake, device-info queries, configuration writes, and the
// asynchronous cursor-offset status byte.
package protocol

// Opcode is a single request opcode, embedded as byte 1 of every frame.
type Opcode byte

// The full opcode table from spec.md §4.7. Numeric values are part of
// the wire format and must not be renumbered.
const (
	OpCursorOffset Opcode = 40

	OpEnableSleepMode  Opcode = 50
	OpDisableSleepMode Opcode = 51

	OpEnableEdgeReload  Opcode = 52
	OpDisableEdgeReload Opcode = 53

	OpEnableEdgeClickReload  Opcode = 54
	OpDisableEdgeClickReload Opcode = 55

	OpAssignButton Opcode = 60

	OpRequestFirmware Opcode = 101
	OpRequestCamera   Opcode = 102
	OpUpdateCamera    Opcode = 103

	OpRequestCalibrationX Opcode = 104
	OpRequestCalibrationY Opcode = 105
	OpUpdateCalibrationX  Opcode = 106
	OpUpdateCalibrationY  Opcode = 107

	OpHandshake Opcode = 109
	OpConnect   Opcode = 110

	OpRequestColour Opcode = 111

	// OpRequestUniqueID is assigned its own opcode rather than reusing
	// OpRequestColour (111), which the original source did — flagged in
	// spec.md §9 as a probable bug. This value is not attested against
	// real firmware; verify before shipping against real hardware.
	OpRequestUniqueID Opcode = 116

	OpRequestManufactureDate Opcode = 115

	OpAuthenticated Opcode = 121

	OpEnableRecoil          Opcode = 161
	OpRecoilPulseValues     Opcode = 162
	OpRecoilStyle           Opcode = 163
	OpRecoilEvents          Opcode = 164
	OpRecoilPositions       Opcode = 165
	OpRecoilStrength        Opcode = 167
	OpRecoilTest            Opcode = 168
	OpRecoilTestRepeatStart Opcode = 169
	OpRecoilTestRepeatStop  Opcode = 170
	OpPulseStrength         Opcode = 171
	OpCustomPulseStrength   Opcode = 172

	OpEnableCalibration Opcode = 180
)
