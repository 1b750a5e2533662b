package protocol

import "time"

// sleep is a package-level indirection over time.Sleep so tests can
// replace it with a no-op and run the connect sequence without paying
// real wall-clock delays.
var sleep = time.Sleep

// Timing names every hidden sleep interval the connect sequence and
// cursor-offset path depend on, so tests can inject a faster table
// instead of waiting out the device's real timing (spec.md §9, "Hidden
// global timing").
type Timing struct {
	// ConnectFlushDelay is the settle time after sending Connect, before
	// any buffered input received from the device is discarded.
	ConnectFlushDelay time.Duration
	// HandshakeSettleDelay is the settle time after sending Handshake,
	// before polling for the device's handshake bytes.
	HandshakeSettleDelay time.Duration
	// AuthenticatedRepeatDelay separates the two Authenticated sends
	// that terminate the handshake.
	AuthenticatedRepeatDelay time.Duration
	// StartSettleDelay is the pause after the start procedure enables
	// recoil, before draining residual input.
	StartSettleDelay time.Duration
	// DebugResponseWindow is how long Debug waits for response bytes to
	// accumulate before reading whatever arrived.
	DebugResponseWindow time.Duration
	// ConnectTimeout bounds the whole connect sequence; exceeding it is
	// reported as ErrDeviceNotResponding. This is a safety net recommended
	// by spec.md §5, not part of the original protocol.
	ConnectTimeout time.Duration
}

// DefaultTiming returns the production timing table, matching the
// intervals spec.md §4.7 documents (5ms/100ms settle delays) plus the
// recommended 2s connect timeout.
func DefaultTiming() Timing {
	return Timing{
		ConnectFlushDelay:        100 * time.Millisecond,
		HandshakeSettleDelay:     5 * time.Millisecond,
		AuthenticatedRepeatDelay: 100 * time.Millisecond,
		StartSettleDelay:         100 * time.Millisecond,
		DebugResponseWindow:      100 * time.Millisecond,
		ConnectTimeout:           2 * time.Second,
	}
}

// FastTestTiming scales every interval down so connect-sequence tests
// don't pay real device latency.
func FastTestTiming() Timing {
	return Timing{
		ConnectFlushDelay:        time.Millisecond,
		HandshakeSettleDelay:     time.Millisecond,
		AuthenticatedRepeatDelay: time.Millisecond,
		StartSettleDelay:         time.Millisecond,
		DebugResponseWindow:      time.Millisecond,
		ConnectTimeout:           2 * time.Second,
	}
}
