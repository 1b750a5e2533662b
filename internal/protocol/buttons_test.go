package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/barncastle/SindenLib/internal/settings"
)

func TestAssignButtonUpdatesMapAndWritesFrame(t *testing.T) {
	e, port := newConnectedEngine(t)

	require.NoError(t, e.AssignButton(settings.ButtonFrontLeft, settings.Key('x')))

	require.Equal(t, settings.Key('x'), e.buttons.Get(settings.ButtonFrontLeft))
	written := port.WrittenBytes()
	require.Equal(t, byte(OpAssignButton), written[1])
	require.Equal(t, byte(settings.ButtonFrontLeft), written[3])
	require.Equal(t, byte('x'), written[5])
}

func TestUnassignTriggerAndPumpIsLocalOnly(t *testing.T) {
	e, _ := newConnectedEngine(t)
	e.buttons.Set(settings.ButtonTrigger, settings.Key('1'))
	e.buttons.Set(settings.ButtonPumpAction, settings.Key('2'))

	e.unassignTriggerAndPump()

	require.Equal(t, settings.KeyNone, e.buttons.Get(settings.ButtonTrigger))
	require.Equal(t, settings.KeyNone, e.buttons.Get(settings.ButtonPumpAction))
}

func TestResyncAllButtonsWritesOneFramePerButton(t *testing.T) {
	e, port := newConnectedEngine(t)

	require.NoError(t, e.resyncAllButtons())

	written := port.WrittenBytes()
	require.Len(t, written, e.buttons.Len()*7)
}
