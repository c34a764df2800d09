package pads

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShotaTanemura/TermiGroove/internal/audio"
)

func TestNewMappingRequiresSelection(t *testing.T) {
	t.Parallel()

	_, err := NewMapping(nil)
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestNewMappingRejectsNonWav(t *testing.T) {
	t.Parallel()

	_, err := NewMapping([]string{"kick.wav", "loop.mp3"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loop.mp3")
}

func TestNewMappingAssignsKeysInSelectionOrder(t *testing.T) {
	t.Parallel()

	m, err := NewMapping([]string{"/samples/kick.wav", "/samples/snare.wav"})
	require.NoError(t, err)
	require.Equal(t, 2, m.Len())

	q, ok := m.Slot('q')
	require.True(t, ok)
	assert.Equal(t, "kick.wav", q.Name)

	w, ok := m.Slot('w')
	require.True(t, ok)
	assert.Equal(t, "snare.wav", w.Name)

	_, ok = m.Slot('e')
	assert.False(t, ok)
}

func TestNewMappingIgnoresOverflow(t *testing.T) {
	t.Parallel()

	var paths []string
	for i := 0; i < len(defaultKeys)+5; i++ {
		paths = append(paths, fmt.Sprintf("s%02d.wav", i))
	}
	m, err := NewMapping(paths)
	require.NoError(t, err)
	assert.Equal(t, len(defaultKeys), m.Len())
}

func TestPreloadSendsOneCommandPerPad(t *testing.T) {
	t.Parallel()

	m, err := NewMapping([]string{"kick.wav", "snare.wav", "hat.wav"})
	require.NoError(t, err)

	bus := audio.NewChannelBus(8)
	require.NoError(t, m.Preload(bus))
	bus.Close()

	var got []audio.Command
	for cmd := range bus.Commands() {
		got = append(got, cmd)
	}
	require.Len(t, got, 3)
	assert.Equal(t, audio.Preload('q', "kick.wav"), got[0])
	assert.Equal(t, audio.Preload('w', "snare.wav"), got[1])
	assert.Equal(t, audio.Preload('e', "hat.wav"), got[2])
}

func TestIsWav(t *testing.T) {
	t.Parallel()

	assert.True(t, IsWav("KICK.WAV"))
	assert.True(t, IsWav("/a/b/snare.wav"))
	assert.False(t, IsWav("notwav.txt"))
	assert.False(t, IsWav("wav"))
}
