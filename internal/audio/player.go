package audio

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/sirupsen/logrus"

	"github.com/ShotaTanemura/TermiGroove/internal/logger"
)

const (
	outputRate      = beep.SampleRate(44100)
	speakerBufferMs = 50
)

// sink pairs a playing streamer's pause control with a done flag set from the
// speaker goroutine when the streamer drains.
type sink struct {
	ctrl *beep.Ctrl
	done *int32
}

// Player owns the output device. It consumes bus commands in FIFO order on
// its own goroutine, caches decoded samples, and keeps handles to every
// active sink so PauseAll/ResumeAll/StopAll can reach them.
type Player struct {
	bus    *ChannelBus
	format beep.Format
	cache  map[rune]*beep.Buffer
	metro  *beep.Buffer
	active []sink
	volume float64
	log    *logrus.Logger
}

// NewPlayer initializes the speaker and starts the consume goroutine. The
// returned Player is owned by that goroutine; callers interact with it only
// through the bus.
func NewPlayer(bus *ChannelBus, masterVolume float64) (*Player, error) {
	format := beep.Format{SampleRate: outputRate, NumChannels: 2, Precision: 2}
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(speakerBufferMs*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("initializing speaker: %w", err)
	}

	p := &Player{
		bus:    bus,
		format: format,
		cache:  make(map[rune]*beep.Buffer),
		metro:  metronomeBuffer(format),
		volume: masterVolume,
		log:    logger.GetProjectLogger(),
	}
	go p.run()
	return p, nil
}

func (p *Player) run() {
	for cmd := range p.bus.Commands() {
		p.handle(cmd)
	}
	speaker.Clear()
	p.log.Debug("audio bus closed; player exiting")
}

func (p *Player) handle(cmd Command) {
	switch cmd.Kind {
	case KindPreload:
		if err := p.preload(cmd.Key, cmd.Path); err != nil {
			p.log.WithFields(logrus.Fields{"key": string(cmd.Key), "path": cmd.Path}).
				Warnf("preload failed: %v", err)
		}
	case KindPlayPad:
		buf, ok := p.cache[cmd.Key]
		if !ok {
			p.log.Debugf("play requested for key %q but not cached", string(cmd.Key))
			return
		}
		p.trigger(buf)
	case KindPlayMetronomeTick:
		if p.metro == nil || p.metro.Len() == 0 {
			p.log.Warn("metronome click unavailable")
			return
		}
		p.trigger(p.metro)
	case KindPauseAll:
		p.setPaused(true)
	case KindResumeAll:
		p.setPaused(false)
	case KindStopAll:
		speaker.Clear()
		p.active = nil
	}
}

func (p *Player) preload(key rune, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if format.SampleRate != p.format.SampleRate {
		s = beep.Resample(4, format.SampleRate, p.format.SampleRate, s)
	}

	buf := beep.NewBuffer(p.format)
	buf.Append(s)
	p.cache[key] = buf
	return nil
}

// trigger starts one playback of the buffer and tracks its sink.
func (p *Player) trigger(buf *beep.Buffer) {
	p.prune()

	done := new(int32)
	ctrl := &beep.Ctrl{Streamer: buf.Streamer(0, buf.Len())}
	vol := &effects.Volume{Streamer: ctrl, Base: 2, Volume: p.volume}
	speaker.Play(beep.Seq(vol, beep.Callback(func() {
		atomic.StoreInt32(done, 1)
	})))
	p.active = append(p.active, sink{ctrl: ctrl, done: done})
}

func (p *Player) setPaused(paused bool) {
	p.prune()
	speaker.Lock()
	for _, s := range p.active {
		s.ctrl.Paused = paused
	}
	speaker.Unlock()
}

// prune drops sinks whose streamers have drained.
func (p *Player) prune() {
	kept := p.active[:0]
	for _, s := range p.active {
		if atomic.LoadInt32(s.done) == 0 {
			kept = append(kept, s)
		}
	}
	p.active = kept
}
