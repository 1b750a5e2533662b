package protocol

import "github.com/barncastle/SindenLib/internal/settings"

// AssignButton writes a single button->key assignment (opcode 60:
// button id in p1, key code in p3) and updates the in-memory map to
// match.
func (e *Engine) AssignButton(b settings.Button, k settings.Key) error {
	payload := [4]byte{0, byte(b), 0, byte(k)}
	if err := e.framer.WriteFrame(byte(OpAssignButton), payload); err != nil {
		return err
	}
	e.buttons.Set(b, k)
	return nil
}

// resyncAllButtons re-transmits every current button assignment, used
// by StartProcedure. The CursorOffset 201/202 status handling uses
// resyncTriggerAndPump instead.
func (e *Engine) resyncAllButtons() error {
	for b := settings.ButtonTrigger; int(b) < e.buttons.Len(); b++ {
		if err := e.AssignButton(b, e.buttons.Get(b)); err != nil {
			return err
		}
	}
	return nil
}

// resyncTriggerAndPump re-syncs only the trigger and pump-action
// mappings, per the CursorOffset status byte 202 behaviour.
func (e *Engine) resyncTriggerAndPump() error {
	if err := e.AssignButton(settings.ButtonTrigger, e.buttons.Get(settings.ButtonTrigger)); err != nil {
		return err
	}
	return e.AssignButton(settings.ButtonPumpAction, e.buttons.Get(settings.ButtonPumpAction))
}

// unassignTriggerAndPump clears the trigger and pump-action mappings
// locally (no wire traffic), per CursorOffset status byte 200.
func (e *Engine) unassignTriggerAndPump() {
	e.buttons.Unassign(settings.ButtonTrigger)
	e.buttons.Unassign(settings.ButtonPumpAction)
}
