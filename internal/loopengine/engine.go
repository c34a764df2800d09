// Package loopengine implements the live-looping transport: metronome
// count-in, timestamped pad capture, sealed overdub layers, cycle-accurate
// playback scheduling, and pause/resume/clear.
//
// The engine is owned by the application's main goroutine. It holds no locks
// and never blocks: the only I/O is a non-blocking push onto the audio bus.
// All timing flows through the injected timing.Clock, so tests drive it with
// a fake clock and explicit Update calls.
package loopengine

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ShotaTanemura/TermiGroove/internal/audio"
	"github.com/ShotaTanemura/TermiGroove/internal/logger"
	"github.com/ShotaTanemura/TermiGroove/internal/tempo"
	"github.com/ShotaTanemura/TermiGroove/internal/timing"
)

const countInTicks = 4

// Engine is the loop state machine and scheduler.
type Engine struct {
	clock timing.Clock
	bus   audio.Bus
	log   *logrus.Logger

	bpm  uint16
	bars uint16

	kind StateKind

	// Ready
	countdown    int
	nextTickAt   time.Duration
	tickInterval time.Duration

	// Recording
	startedAt time.Duration
	pending   []Event
	isOverdub bool

	// Playing; loopLength is valid in Recording, Playing and Paused.
	loopLength time.Duration
	cycleStart time.Duration
	lastCycle  uint64

	// Paused; WasRecording carries the prior state kind.
	pauseSnap PauseSnapshot

	tracks      []*Track
	nextTrackID uint64
	cycleIndex  uint64

	closed bool
}

// New constructs an Idle engine with no tracks. The tempo is clamped to the
// valid ranges.
func New(clk timing.Clock, bus audio.Bus, bpm, bars uint16) *Engine {
	return &Engine{
		clock:       clk,
		bus:         bus,
		log:         logger.GetProjectLogger(),
		bpm:         tempo.ClampBPM(bpm),
		bars:        tempo.ClampBars(bars),
		kind:        StateIdle,
		nextTrackID: 1,
	}
}

// since returns a-b, treating a clock that stepped backwards as zero progress.
func since(a, b time.Duration) time.Duration {
	if a < b {
		return 0
	}
	return a - b
}

// HandleSpace is the transport toggle: start or cancel the count-in, abort a
// base take, punch out of an overdub, or pause/resume playback.
func (e *Engine) HandleSpace() error {
	if e.closed {
		return audio.ErrBusClosed
	}
	now := e.clock.Now()

	switch e.kind {
	case StateIdle:
		e.beginCountIn(now)

	case StateReady:
		e.countdown = 0
		e.kind = StateIdle
		e.log.Debug("count-in cancelled")

	case StateRecording:
		if !e.isOverdub {
			// The base take is discarded, not sealed.
			e.pending = nil
			e.kind = StateIdle
			e.log.Debug("base take aborted")
			return nil
		}
		return e.punchOut(now)

	case StatePlaying:
		if err := e.advancePlayback(now); err != nil {
			return err
		}
		phase := tempo.NormalizeOffset(since(now, e.cycleStart), e.loopLength)
		e.pauseSnap = PauseSnapshot{PlaybackOffset: phase}
		if err := e.send(audio.PauseAll()); err != nil {
			if errors.Is(err, audio.ErrBusClosed) {
				return err
			}
			e.log.Warnf("pause command dropped: %v", err)
		}
		e.kind = StatePaused

	case StatePaused:
		if e.pauseSnap.WasRecording {
			e.startedAt = since(now, e.pauseSnap.OverdubOffset)
			e.isOverdub = true
			e.kind = StateRecording
		} else {
			e.cycleStart = since(now, e.pauseSnap.PlaybackOffset)
			e.lastCycle = 0
			e.kind = StatePlaying
		}
		if err := e.send(audio.ResumeAll()); err != nil {
			if errors.Is(err, audio.ErrBusClosed) {
				return err
			}
			e.log.Warnf("resume command dropped: %v", err)
		}
	}
	return nil
}

// HandlePad captures a pad press. During recording the event is appended to
// the pending take; during playback it punches in a new overdub aligned to
// the current cycle. In Idle, Ready and Paused it is ignored.
func (e *Engine) HandlePad(key rune) error {
	if e.closed {
		return audio.ErrBusClosed
	}
	now := e.clock.Now()

	switch e.kind {
	case StateRecording:
		offset := since(now, e.startedAt)
		if e.loopLength > 0 && offset >= e.loopLength {
			offset = e.loopLength - time.Millisecond
		}
		// Monitoring is heard before the event is stored.
		if err := e.send(audio.PlayPad(key)); err != nil {
			if errors.Is(err, audio.ErrBusClosed) {
				return err
			}
			e.log.Warnf("pad monitor dropped for %q: %v", string(key), err)
		}
		e.pending = append(e.pending, Event{Key: key, Offset: offset})

	case StatePlaying:
		if err := e.advancePlayback(now); err != nil {
			return err
		}
		elapsed := since(now, e.cycleStart)
		k := uint64(0)
		if e.loopLength > 0 {
			k = uint64(elapsed / e.loopLength)
		}
		phase := tempo.NormalizeOffset(elapsed, e.loopLength)
		if err := e.send(audio.PlayPad(key)); err != nil {
			if errors.Is(err, audio.ErrBusClosed) {
				return err
			}
			e.log.Warnf("pad monitor dropped for %q: %v", string(key), err)
		}
		// Punch in: the overdub's start aligns with the current cycle's
		// start so captured offsets stay phase-aligned with sealed tracks.
		e.startedAt = e.cycleStart + time.Duration(k)*e.loopLength
		e.isOverdub = true
		e.pending = []Event{{Key: key, Offset: phase}}
		e.kind = StateRecording

	default:
		e.log.Debugf("pad %q ignored in %s", string(key), e.kind)
	}
	return nil
}

// HandleControlSpace clears the loop: every sealed track and any pending
// take are dropped and all sinks are stopped. From an empty Idle engine it
// is a no-op.
func (e *Engine) HandleControlSpace() error {
	if e.closed {
		return audio.ErrBusClosed
	}
	if e.kind == StateIdle && len(e.tracks) == 0 && len(e.pending) == 0 {
		e.log.Debug("clear ignored: nothing to clear")
		return nil
	}
	// StopAll goes out before the tracks are dropped.
	if err := e.send(audio.StopAll()); err != nil {
		if errors.Is(err, audio.ErrBusClosed) {
			return err
		}
		e.log.Warnf("stop command dropped: %v", err)
	}
	e.clear()
	return nil
}

// ResetForTempoChange adopts a new tempo and clears all recorded state.
// Future cycles use the new bpm/bars.
func (e *Engine) ResetForTempoChange(bpm, bars uint16) error {
	if e.closed {
		return audio.ErrBusClosed
	}
	e.bpm = tempo.ClampBPM(bpm)
	e.bars = tempo.ClampBars(bars)
	if err := e.send(audio.StopAll()); err != nil {
		if errors.Is(err, audio.ErrBusClosed) {
			return err
		}
		e.log.Warnf("stop command dropped: %v", err)
	}
	e.clear()
	return nil
}

// Update advances the transport to the clock's current time. It is polled
// from the main loop at frame rate and completes without blocking.
func (e *Engine) Update() error {
	if e.closed {
		return nil
	}
	now := e.clock.Now()

	switch e.kind {
	case StateReady:
		return e.updateReady(now)
	case StateRecording:
		return e.updateRecording(now)
	case StatePlaying:
		return e.advancePlayback(now)
	}
	return nil
}

// Snapshot returns the read-only view for the UI.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Kind:         e.kind,
		TrackCount:   len(e.tracks),
		IsPaused:     e.kind == StatePaused,
		LoopLengthMs: uint32(e.loopLength / time.Millisecond),
		BPM:          e.bpm,
		Bars:         e.bars,
	}
	now := e.clock.Now()
	switch e.kind {
	case StateReady:
		s.Countdown = e.countdown
	case StateRecording:
		pos := since(now, e.startedAt)
		s.CyclePositionMs = uint32(pos / time.Millisecond)
		if e.isOverdub {
			s.HasOverdub = true
			s.OverdubOffsetMs = s.CyclePositionMs
		}
	case StatePlaying:
		phase := tempo.NormalizeOffset(since(now, e.cycleStart), e.loopLength)
		s.CyclePositionMs = uint32(phase / time.Millisecond)
	case StatePaused:
		s.CyclePositionMs = uint32(e.pauseSnap.PlaybackOffset / time.Millisecond)
		if e.pauseSnap.WasRecording {
			s.HasOverdub = true
			s.OverdubOffsetMs = uint32(e.pauseSnap.OverdubOffset / time.Millisecond)
		}
	}
	return s
}

// Tracks returns the sealed tracks in creation order.
func (e *Engine) Tracks() []*Track {
	return e.tracks
}

// BPM returns the engine's current tempo.
func (e *Engine) BPM() uint16 { return e.bpm }

// Bars returns the engine's current loop length in bars.
func (e *Engine) Bars() uint16 { return e.bars }

func (e *Engine) beginCountIn(now time.Duration) {
	e.countdown = countInTicks
	e.nextTickAt = now
	e.tickInterval = tempo.TickInterval(e.bpm)
	e.kind = StateReady
}

func (e *Engine) updateReady(now time.Duration) error {
	// Drain every overdue tick so a stalled frame cannot lag the count-in.
	for e.countdown > 0 && now >= e.nextTickAt {
		if err := e.send(audio.PlayMetronomeTick()); err != nil {
			if errors.Is(err, audio.ErrBusClosed) {
				return err
			}
			// The countdown keeps going even when a click is lost.
			e.log.Warnf("metronome tick dropped: %v", err)
		}
		e.countdown--
		e.nextTickAt += e.tickInterval
	}
	if e.countdown == 0 && now >= e.nextTickAt {
		// Count-in complete; recording starts on the scheduled boundary.
		// A fresh base take supersedes any previously sealed loop.
		e.startedAt = e.nextTickAt
		e.loopLength = tempo.LoopLength(e.bpm, e.bars)
		e.tracks = nil
		e.pending = nil
		e.isOverdub = false
		e.cycleIndex = 0
		e.kind = StateRecording
	}
	return nil
}

func (e *Engine) updateRecording(now time.Duration) error {
	elapsed := since(now, e.startedAt)
	if e.isOverdub {
		// Sealed layers keep playing underneath the overdub pass.
		limit := elapsed
		if limit > e.loopLength {
			limit = e.loopLength
		}
		if err := e.fireCrossed(limit); err != nil {
			return err
		}
	}
	if e.loopLength > 0 && elapsed >= e.loopLength {
		e.seal()
	}
	return nil
}

// seal moves the pending take into a new track and starts the next cycle on
// the grid boundary. Empty takes are dropped.
func (e *Engine) seal() {
	if len(e.pending) > 0 {
		e.tracks = append(e.tracks, &Track{
			ID:           e.nextTrackID,
			CreatedCycle: e.cycleIndex,
			events:       e.pending,
		})
		e.nextTrackID++
	}
	e.pending = nil
	e.cycleIndex++
	e.cycleStart = e.startedAt + e.loopLength
	e.lastCycle = 0
	for _, t := range e.tracks {
		t.cursor = 0
	}
	e.isOverdub = false
	e.kind = StatePlaying
}

// punchOut seals a partial overdub and keeps playing within the same cycle.
func (e *Engine) punchOut(now time.Duration) error {
	elapsed := since(now, e.startedAt)
	if e.loopLength > 0 && elapsed >= e.loopLength {
		// The take already ran its full length; seal it on the boundary.
		e.seal()
		return nil
	}
	if len(e.pending) > 0 {
		trk := &Track{
			ID:           e.nextTrackID,
			CreatedCycle: e.cycleIndex,
			events:       e.pending,
		}
		e.nextTrackID++
		// The punched events were just heard live; skip them for the
		// remainder of this cycle.
		for trk.cursor < len(trk.events) && trk.events[trk.cursor].Offset <= elapsed {
			trk.cursor++
		}
		e.tracks = append(e.tracks, trk)
	}
	e.pending = nil
	e.cycleStart = e.startedAt
	e.lastCycle = 0
	e.isOverdub = false
	e.kind = StatePlaying
	return nil
}

// advancePlayback fires every event whose offset was crossed since the last
// call. A single cycle wrap flushes the previous cycle's tail first; a
// multi-cycle stall drops the missed cycles so the audio thread is not
// flooded.
func (e *Engine) advancePlayback(now time.Duration) error {
	if e.loopLength <= 0 {
		return nil
	}
	elapsed := since(now, e.cycleStart)
	k := uint64(elapsed / e.loopLength)
	phase := elapsed % e.loopLength

	if k != e.lastCycle {
		if k == e.lastCycle+1 {
			if err := e.fireCrossed(e.loopLength); err != nil {
				return err
			}
		} else {
			e.log.Debugf("dropping %d stalled cycle(s)", k-e.lastCycle-1)
		}
		for _, t := range e.tracks {
			t.cursor = 0
		}
		e.cycleIndex += k - e.lastCycle
		e.lastCycle = k
	}
	return e.fireCrossed(phase)
}

// fireCrossed emits PlayPad for every not-yet-fired event at offset <= limit,
// in track-creation order. On backpressure the cursor stays put so the event
// retries next update; if the bus stays saturated for a whole cycle the wrap
// reset drops that cycle.
func (e *Engine) fireCrossed(limit time.Duration) error {
	for _, t := range e.tracks {
		for t.cursor < len(t.events) {
			ev := t.events[t.cursor]
			if ev.Offset > limit {
				break
			}
			if err := e.send(audio.PlayPad(ev.Key)); err != nil {
				if errors.Is(err, audio.ErrBusClosed) {
					return err
				}
				e.log.Warnf("scheduled pad %q dropped: %v", string(ev.Key), err)
				break
			}
			t.cursor++
		}
	}
	return nil
}

// send pushes a command onto the bus. A closed bus is fatal: the engine
// drops all state and refuses further work.
func (e *Engine) send(cmd audio.Command) error {
	err := e.bus.Send(cmd)
	if err == nil {
		return nil
	}
	if errors.Is(err, audio.ErrBusClosed) {
		e.log.Errorf("audio bus closed; shutting the loop engine down")
		e.clear()
		e.closed = true
		return audio.ErrBusClosed
	}
	return err
}

func (e *Engine) clear() {
	e.kind = StateIdle
	e.tracks = nil
	e.pending = nil
	e.countdown = 0
	e.isOverdub = false
	e.cycleIndex = 0
	e.lastCycle = 0
	e.loopLength = 0
	e.pauseSnap = PauseSnapshot{}
}
