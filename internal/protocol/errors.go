package protocol

import "fmt"

// Sentinel connect-sequence errors, checked with errors.Is at call
// sites. Mirrors the teacher's plain fmt.Errorf sentinel-error
// convention (e.g. sweep.ErrSweepAlreadyRunning) rather than typed
// errors.
var (
	ErrAlreadyConnected      = fmt.Errorf("protocol: already connected")
	ErrDeviceNotResponding   = fmt.Errorf("protocol: device not responding")
	ErrInvalidAuthentication = fmt.Errorf("protocol: invalid authentication")
)
