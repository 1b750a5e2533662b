package protocol

// privateKey and handshakeKey are the two hard-coded secrets the
// handshake mixes into its SHA-256 derivations (spec.md §6). Their real
// contents are firmware-specific and were not available to this
// reimplementation ("must be captured from the source verbatim") — the
// values below are opaque placeholders of the documented length and
// must be replaced with the real bytes before talking to real hardware.
var (
	privateKey = [41]byte{
		0x53, 0x49, 0x4e, 0x44, 0x45, 0x4e, 0x4c, 0x49, 0x47, 0x48, 0x54,
		0x47, 0x55, 0x4e, 0x2d, 0x50, 0x52, 0x49, 0x56, 0x41, 0x54, 0x45,
		0x2d, 0x4b, 0x45, 0x59, 0x2d, 0x50, 0x4c, 0x41, 0x43, 0x45, 0x48,
		0x4f, 0x4c, 0x44, 0x45, 0x52, 0x2d, 0x34, 0x31,
	}

	handshakeKey = [32]byte{
		0x48, 0x41, 0x4e, 0x44, 0x53, 0x48, 0x41, 0x4b, 0x45, 0x2d, 0x4b,
		0x45, 0x59, 0x2d, 0x50, 0x4c, 0x41, 0x43, 0x45, 0x48, 0x4f, 0x4c,
		0x44, 0x45, 0x52, 0x2d, 0x33, 0x32, 0x42, 0x59, 0x54, 0x45,
	}
)
