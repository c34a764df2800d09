package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/ShotaTanemura/TermiGroove/internal/audio"
	"github.com/ShotaTanemura/TermiGroove/internal/loopengine"
	"github.com/ShotaTanemura/TermiGroove/internal/pads"
	"github.com/ShotaTanemura/TermiGroove/internal/timing"
)

func newTestModel(t *testing.T) (Model, *audio.ChannelBus, *clocktesting.FakeClock) {
	t.Helper()

	fake := clocktesting.NewFakeClock(time.Unix(0, 0))
	bus := audio.NewChannelBus(64)
	engine := loopengine.New(timing.FromPassive(fake), bus, 120, 1)

	m := New(engine, bus, t.TempDir(), nil)
	mapping, err := pads.NewMapping([]string{"kick.wav", "snare.wav"})
	require.NoError(t, err)
	m.mapping = mapping
	m.mode = modePads
	return m, bus, fake
}

func drain(bus *audio.ChannelBus) []audio.Command {
	var out []audio.Command
	for {
		select {
		case cmd := <-bus.Commands():
			out = append(out, cmd)
		default:
			return out
		}
	}
}

func keyRunes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestSpaceStartsCountIn(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestModel(t)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = updated.(Model)

	snap := m.engine.Snapshot()
	assert.Equal(t, loopengine.StateReady, snap.Kind)
	assert.Equal(t, 4, snap.Countdown)
	assert.Contains(t, m.status, "Count-in")
}

func TestMappedPadMonitorsWhileIdle(t *testing.T) {
	t.Parallel()

	m, bus, _ := newTestModel(t)
	updated, _ := m.Update(keyRunes('q'))
	m = updated.(Model)

	cmds := drain(bus)
	require.Len(t, cmds, 1)
	assert.Equal(t, audio.PlayPad('q'), cmds[0])
	// The engine stored nothing.
	assert.Equal(t, loopengine.StateIdle, m.engine.Snapshot().Kind)
}

func TestUnmappedPadIgnored(t *testing.T) {
	t.Parallel()

	m, bus, _ := newTestModel(t)
	updated, _ := m.Update(keyRunes('z'))
	m = updated.(Model)

	assert.Empty(t, drain(bus))
	assert.Equal(t, loopengine.StateIdle, m.engine.Snapshot().Kind)
}

func TestControlSpaceClearsLoop(t *testing.T) {
	t.Parallel()

	m, bus, fake := newTestModel(t)

	// Record a one-event base loop.
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = updated.(Model)
	for _, ms := range []int{0, 500, 1000, 1500, 2000} {
		fake.SetTime(time.Unix(0, 0).Add(time.Duration(ms) * time.Millisecond))
		require.NoError(t, m.engine.Update())
	}
	fake.SetTime(time.Unix(0, 0).Add(2100 * time.Millisecond))
	updated, _ = m.Update(keyRunes('q'))
	m = updated.(Model)
	fake.SetTime(time.Unix(0, 0).Add(4000 * time.Millisecond))
	require.NoError(t, m.engine.Update())
	require.Equal(t, loopengine.StatePlaying, m.engine.Snapshot().Kind)

	drain(bus)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlAt})
	m = updated.(Model)

	assert.Equal(t, loopengine.StateIdle, m.engine.Snapshot().Kind)
	assert.Equal(t, 0, m.engine.Snapshot().TrackCount)
	cmds := drain(bus)
	require.Len(t, cmds, 1)
	assert.Equal(t, audio.StopAll(), cmds[0])
	assert.Equal(t, "Loop cleared", m.status)
}

func TestPopupAppliesTempoAndClears(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestModel(t)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	require.True(t, m.popup.open)

	m.popup.bpm.SetValue("140")
	m.popup.bars.SetValue("2")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	assert.False(t, m.popup.open)
	snap := m.engine.Snapshot()
	assert.Equal(t, uint16(140), snap.BPM)
	assert.Equal(t, uint16(2), snap.Bars)
	assert.Equal(t, loopengine.StateIdle, snap.Kind)
}

func TestPopupClampsOutOfRangeValues(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestModel(t)
	m.popup.openWith(120, 16)
	m.popup.bpm.SetValue("999")
	m.popup.bars.SetValue("0")

	bpm, bars := m.popup.values(120, 16)
	assert.Equal(t, uint16(300), bpm)
	assert.Equal(t, uint16(1), bars)
}

func TestEscReturnsToBrowser(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestModel(t)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	assert.Equal(t, modeBrowse, m.mode)
}

func TestTransportStatusStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Loop idle", transportStatus(loopengine.Snapshot{Kind: loopengine.StateIdle}))
	assert.Equal(t, "Count-in 3", transportStatus(loopengine.Snapshot{Kind: loopengine.StateReady, Countdown: 3}))
	assert.Equal(t, "Recording", transportStatus(loopengine.Snapshot{Kind: loopengine.StateRecording}))
	assert.Equal(t, "Loop playing (1 track)", transportStatus(loopengine.Snapshot{Kind: loopengine.StatePlaying, TrackCount: 1}))
	assert.Equal(t, "Loop paused (2 tracks)", transportStatus(loopengine.Snapshot{Kind: loopengine.StatePaused, TrackCount: 2}))
}
