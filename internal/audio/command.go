// Package audio carries commands from the loop engine to the goroutine that
// owns the output device. The engine side never blocks; the player side
// executes commands in submission order.
package audio

import "fmt"

// CommandKind enumerates the operations the player executes.
type CommandKind int

const (
	// KindPreload decodes and caches the sample at Path under Key.
	KindPreload CommandKind = iota
	// KindPlayPad triggers the cached sample mapped to Key.
	KindPlayPad
	// KindPlayMetronomeTick plays the synthesized count-in click.
	KindPlayMetronomeTick
	// KindPauseAll pauses every active sink, retaining it for resume.
	KindPauseAll
	// KindResumeAll restarts paused sinks from their current position.
	KindResumeAll
	// KindStopAll drops all sinks.
	KindStopAll
)

// Command is one instruction for the audio player. Key is set for Preload and
// PlayPad; Path only for Preload.
type Command struct {
	Kind CommandKind
	Key  rune
	Path string
}

func (c Command) String() string {
	switch c.Kind {
	case KindPreload:
		return fmt.Sprintf("Preload{%c, %s}", c.Key, c.Path)
	case KindPlayPad:
		return fmt.Sprintf("PlayPad{%c}", c.Key)
	case KindPlayMetronomeTick:
		return "PlayMetronomeTick"
	case KindPauseAll:
		return "PauseAll"
	case KindResumeAll:
		return "ResumeAll"
	case KindStopAll:
		return "StopAll"
	}
	return fmt.Sprintf("Command(%d)", int(c.Kind))
}

// Preload builds a preload command.
func Preload(key rune, path string) Command {
	return Command{Kind: KindPreload, Key: key, Path: path}
}

// PlayPad builds a pad trigger command.
func PlayPad(key rune) Command {
	return Command{Kind: KindPlayPad, Key: key}
}

// PlayMetronomeTick builds a metronome click command.
func PlayMetronomeTick() Command {
	return Command{Kind: KindPlayMetronomeTick}
}

// PauseAll builds a pause command.
func PauseAll() Command {
	return Command{Kind: KindPauseAll}
}

// ResumeAll builds a resume command.
func ResumeAll() Command {
	return Command{Kind: KindResumeAll}
}

// StopAll builds a stop command.
func StopAll() Command {
	return Command{Kind: KindStopAll}
}
