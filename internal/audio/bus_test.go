package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelBusPreservesOrder(t *testing.T) {
	t.Parallel()

	bus := NewChannelBus(8)
	sent := []Command{
		PlayMetronomeTick(),
		PlayPad('q'),
		PauseAll(),
		ResumeAll(),
		StopAll(),
	}
	for _, cmd := range sent {
		require.NoError(t, bus.Send(cmd))
	}
	bus.Close()

	var got []Command
	for cmd := range bus.Commands() {
		got = append(got, cmd)
	}
	assert.Equal(t, sent, got)
}

func TestChannelBusBackpressure(t *testing.T) {
	t.Parallel()

	bus := NewChannelBus(2)
	require.NoError(t, bus.Send(PlayPad('q')))
	require.NoError(t, bus.Send(PlayPad('w')))

	err := bus.Send(PlayPad('e'))
	assert.ErrorIs(t, err, ErrBusFull)

	// Draining makes room again.
	<-bus.Commands()
	assert.NoError(t, bus.Send(PlayPad('e')))
}

func TestChannelBusSendAfterClose(t *testing.T) {
	t.Parallel()

	bus := NewChannelBus(2)
	bus.Close()
	assert.ErrorIs(t, bus.Send(PlayPad('q')), ErrBusClosed)

	// Closing twice is harmless.
	bus.Close()
}

func TestCommandString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "PlayPad{q}", PlayPad('q').String())
	assert.Equal(t, "PlayMetronomeTick", PlayMetronomeTick().String())
	assert.Equal(t, "StopAll", StopAll().String())
	assert.Equal(t, "Preload{w, kick.wav}", Preload('w', "kick.wav").String())
}
