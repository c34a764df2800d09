package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ShotaTanemura/TermiGroove/internal/loopengine"
)

const cycleBarWidth = 50

func transportStatus(snap loopengine.Snapshot) string {
	switch snap.Kind {
	case loopengine.StateIdle:
		return "Loop idle"
	case loopengine.StateReady:
		return fmt.Sprintf("Count-in %d", snap.Countdown)
	case loopengine.StateRecording:
		if snap.HasOverdub {
			return fmt.Sprintf("Overdubbing (%d track%s)", snap.TrackCount, plural(snap.TrackCount))
		}
		return "Recording"
	case loopengine.StatePlaying:
		return fmt.Sprintf("Loop playing (%d track%s)", snap.TrackCount, plural(snap.TrackCount))
	case loopengine.StatePaused:
		return fmt.Sprintf("Loop paused (%d track%s)", snap.TrackCount, plural(snap.TrackCount))
	}
	return ""
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func (m Model) viewPads() string {
	snap := m.engine.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render("TermiGroove — Pads") + "\n\n")
	b.WriteString(fmt.Sprintf("BPM: %d   Bars: %d   (tab to edit)\n\n", snap.BPM, snap.Bars))

	b.WriteString(renderCycleBar(snap) + "\n\n")
	b.WriteString(renderTransport(snap) + "\n\n")

	// Pad grid
	var cells []string
	for _, slot := range m.mapping.Slots() {
		label := fmt.Sprintf("%s  %s", strings.ToUpper(string(slot.Key)), slot.Name)
		style := padStyle
		if slot.Key == m.lastPad {
			style = padActiveStyle
		}
		cells = append(cells, style.Render(label))
	}
	const perRow = 4
	for i := 0; i < len(cells); i += perRow {
		end := i + perRow
		if end > len(cells) {
			end = len(cells)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells[i:end]...) + "\n")
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(helpStyle.Render(m.status) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("Pad keys: trigger/record • Space: count-in, punch out, pause/resume"))
	b.WriteString("\n" + helpStyle.Render("Ctrl+Space: clear loop • Tab: BPM/bars • Esc: back • Ctrl+C: quit"))

	return b.String()
}

func renderTransport(snap loopengine.Snapshot) string {
	label := transportStatus(snap)
	switch snap.Kind {
	case loopengine.StateRecording:
		return recordingStyle.Render("● " + label)
	case loopengine.StatePlaying:
		return playingStyle.Render("▶ " + label)
	case loopengine.StatePaused:
		return helpStyle.Render("⏸ " + label)
	case loopengine.StateReady:
		return recordingStyle.Render(label)
	}
	return helpStyle.Render(label)
}

// renderCycleBar draws the position within the current cycle.
func renderCycleBar(snap loopengine.Snapshot) string {
	bar := strings.Builder{}
	bar.WriteString("Cycle [")

	filled := 0
	active := snap.Kind == loopengine.StateRecording ||
		snap.Kind == loopengine.StatePlaying ||
		snap.Kind == loopengine.StatePaused
	if active && snap.LoopLengthMs > 0 {
		filled = int(uint64(snap.CyclePositionMs) * cycleBarWidth / uint64(snap.LoopLengthMs))
		if filled >= cycleBarWidth {
			filled = cycleBarWidth - 1
		}
	}

	for i := 0; i < cycleBarWidth; i++ {
		switch {
		case !active:
			bar.WriteString("─")
		case i < filled:
			bar.WriteString("█")
		case i == filled:
			bar.WriteString("▶")
		default:
			bar.WriteString("─")
		}
	}
	bar.WriteString("]")

	if active {
		bar.WriteString(fmt.Sprintf(" %d/%d ms", snap.CyclePositionMs, snap.LoopLengthMs))
	}
	return bar.String()
}
