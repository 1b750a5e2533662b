package settings

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewButtonMapStartsAllUnassigned(t *testing.T) {
	m := NewButtonMap()
	require.Equal(t, KeyNone, m.Get(ButtonTrigger))
	require.Equal(t, KeyNone, m.Get(ButtonDPadOffscreen))
}

func TestButtonMapSetAndGet(t *testing.T) {
	m := NewButtonMap()
	m.Set(ButtonTrigger, Key('1'))
	require.Equal(t, Key('1'), m.Get(ButtonTrigger))
}

func TestButtonMapUnassign(t *testing.T) {
	m := DefaultButtonMap()
	m.Unassign(ButtonTrigger)
	require.Equal(t, KeyNone, m.Get(ButtonTrigger))
}

func TestButtonMapLenMatchesEnumeration(t *testing.T) {
	m := NewButtonMap()
	require.Equal(t, int(buttonCount), m.Len())
}

func TestDefaultButtonMapAssignsPrimaryButtons(t *testing.T) {
	m := DefaultButtonMap()
	require.Equal(t, Key('1'), m.Get(ButtonTrigger))
	require.Equal(t, Key('2'), m.Get(ButtonPumpAction))
	require.Equal(t, KeyNone, m.Get(ButtonTriggerOffscreen))
}
