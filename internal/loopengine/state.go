package loopengine

import "time"

// StateKind names the loop transport states.
type StateKind int

const (
	// StateIdle means no loop, no count-in, no playback.
	StateIdle StateKind = iota
	// StateReady means the metronome count-in is running.
	StateReady
	// StateRecording means pad events are being captured.
	StateRecording
	// StatePlaying means sealed tracks are being scheduled each cycle.
	StatePlaying
	// StatePaused means the transport is halted with a resume snapshot.
	StatePaused
)

func (k StateKind) String() string {
	switch k {
	case StateIdle:
		return "Idle"
	case StateReady:
		return "Ready"
	case StateRecording:
		return "Recording"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	}
	return "Unknown"
}

// PauseSnapshot captures where the transport was when it paused, so resume
// can re-anchor the cycle without losing phase.
type PauseSnapshot struct {
	PlaybackOffset time.Duration
	OverdubOffset  time.Duration
	WasRecording   bool
}

// Snapshot is the read-only view the UI polls. All durations are reported in
// whole milliseconds.
type Snapshot struct {
	Kind            StateKind
	Countdown       int
	CyclePositionMs uint32
	LoopLengthMs    uint32
	TrackCount      int
	IsPaused        bool
	HasOverdub      bool
	OverdubOffsetMs uint32
	BPM             uint16
	Bars            uint16
}
