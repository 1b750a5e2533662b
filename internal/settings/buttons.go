// Package settings holds the device-facing value objects that are not
// part of either hard subsystem: the button-to-key map, video/vision
// tuning settings, and the device info record.
package settings

// Button enumerates every physical (and "offscreen" virtual) button the
// device can report.
type Button int

const (
	ButtonTrigger Button = iota
	ButtonPumpAction
	ButtonFrontLeft
	ButtonRearLeft
	ButtonFrontRight
	ButtonRearRight
	ButtonDPad
	ButtonTriggerOffscreen
	ButtonPumpActionOffscreen
	ButtonFrontLeftOffscreen
	ButtonRearLeftOffscreen
	ButtonFrontRightOffscreen
	ButtonRearRightOffscreen
	ButtonDPadOffscreen

	buttonCount
)

// allButtons is the fixed enumeration a ButtonMap is constructed over.
var allButtons = func() []Button {
	bs := make([]Button, buttonCount)
	for i := range bs {
		bs[i] = Button(i)
	}
	return bs
}()

// Key is a host key code. The ASCII range is used directly; KeyNone is
// the sentinel for "unassigned".
type Key int

// KeyNone marks a button as unassigned.
const KeyNone Key = -1

// ButtonMap maps every Button to a Key. The key set is fixed at
// construction by NewButtonMap and never grows or shrinks afterward;
// only Set reassigns values.
type ButtonMap struct {
	values map[Button]Key
}

// NewButtonMap returns a ButtonMap with every defined Button present and
// set to KeyNone.
func NewButtonMap() *ButtonMap {
	m := &ButtonMap{values: make(map[Button]Key, len(allButtons))}
	for _, b := range allButtons {
		m.values[b] = KeyNone
	}
	return m
}

// Get returns the key assigned to b, or KeyNone if b isn't a recognised
// button (which cannot happen for any Button constant defined above).
func (m *ButtonMap) Get(b Button) Key {
	k, ok := m.values[b]
	if !ok {
		return KeyNone
	}
	return k
}

// Set reassigns the key bound to b. b must already be a key in the map;
// Set never adds or removes entries.
func (m *ButtonMap) Set(b Button, k Key) {
	if _, ok := m.values[b]; ok {
		m.values[b] = k
	}
}

// Unassign is shorthand for Set(b, KeyNone).
func (m *ButtonMap) Unassign(b Button) { m.Set(b, KeyNone) }

// Len returns the number of buttons tracked (always len(allButtons)).
func (m *ButtonMap) Len() int { return len(m.values) }

// DefaultButtonMap returns the factory button layout: digit keys '1'
// through '7' for the seven physical buttons, with every offscreen
// variant left unassigned. Kept as a
// convenience starting point for callers that want a populated map
// rather than all-KeyNone.
func DefaultButtonMap() *ButtonMap {
	m := NewButtonMap()
	m.Set(ButtonTrigger, Key('1'))
	m.Set(ButtonPumpAction, Key('2'))
	m.Set(ButtonFrontLeft, Key('3'))
	m.Set(ButtonRearLeft, Key('4'))
	m.Set(ButtonFrontRight, Key('5'))
	m.Set(ButtonRearRight, Key('6'))
	m.Set(ButtonDPad, Key('7'))
	return m
}
