package protocol

import (
	"context"
	"fmt"
	"strings"
)

// Debug transmits an arbitrary opcode/payload frame and returns
// whatever response bytes accumulate within the debug response window,
// concatenated as dash-separated decimal values. It exists for
// exercising opcodes this package doesn't otherwise wrap.
func (e *Engine) Debug(opcode byte, payload [4]byte) (string, error) {
	if err := e.framer.WriteFrame(opcode, payload); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.timing.DebugResponseWindow)
	defer cancel()
	<-ctx.Done()

	raw := e.framer.ReadAll()
	if len(raw) == 0 {
		return "", nil
	}

	parts := make([]string, len(raw))
	for i, b := range raw {
		parts[i] = fmt.Sprintf("%d", b)
	}
	return strings.Join(parts, "-"), nil
}
