package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ShotaTanemura/TermiGroove/internal/tempo"
)

// popupFocus tracks which popup field has keyboard focus.
type popupFocus int

const (
	focusBPM popupFocus = iota
	focusBars
)

// popupModel is the BPM/Bars editor. Confirming applies the tempo through
// the engine reset, which drops all recorded tracks.
type popupModel struct {
	open  bool
	focus popupFocus
	bpm   textinput.Model
	bars  textinput.Model
}

func newPopup() popupModel {
	bpm := textinput.New()
	bpm.Placeholder = "120"
	bpm.CharLimit = 3
	bpm.Width = 5

	bars := textinput.New()
	bars.Placeholder = "16"
	bars.CharLimit = 3
	bars.Width = 5

	return popupModel{bpm: bpm, bars: bars}
}

func (p *popupModel) openWith(bpm, bars uint16) {
	p.open = true
	p.focus = focusBPM
	p.bpm.SetValue(strconv.Itoa(int(bpm)))
	p.bars.SetValue(strconv.Itoa(int(bars)))
	p.bpm.Focus()
	p.bars.Blur()
}

func (p *popupModel) focusCmd() tea.Cmd {
	return textinput.Blink
}

func (p *popupModel) toggleFocus() {
	if p.focus == focusBPM {
		p.focus = focusBars
		p.bpm.Blur()
		p.bars.Focus()
	} else {
		p.focus = focusBPM
		p.bars.Blur()
		p.bpm.Focus()
	}
}

// values parses and clamps the draft fields, falling back to the given
// current values when a field does not parse.
func (p *popupModel) values(curBPM, curBars uint16) (uint16, uint16) {
	bpm := curBPM
	if v, err := strconv.ParseUint(p.bpm.Value(), 10, 16); err == nil {
		bpm = tempo.ClampBPM(uint16(v))
	}
	bars := curBars
	if v, err := strconv.ParseUint(p.bars.Value(), 10, 16); err == nil {
		bars = tempo.ClampBars(uint16(v))
	}
	return bpm, bars
}

func (m Model) updatePopup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.popup.open = false
		m.status = "Tempo unchanged"
		return m, nil

	case "tab", "shift+tab", "up", "down":
		m.popup.toggleFocus()
		return m, nil

	case "enter":
		bpm, bars := m.popup.values(m.engine.BPM(), m.engine.Bars())
		changed := bpm != m.engine.BPM() || bars != m.engine.Bars()
		m.popup.open = false
		if !changed {
			m.status = "Tempo unchanged"
			return m, nil
		}
		if err := m.engine.ResetForTempoChange(bpm, bars); err != nil {
			m.status = "Audio unavailable"
			return m, nil
		}
		if m.cfg != nil {
			m.cfg.DefaultBPM = bpm
			m.cfg.DefaultBars = bars
			if err := m.cfg.Save(); err != nil {
				m.log.Warnf("saving config: %v", err)
			}
		}
		m.status = fmt.Sprintf("Tempo set: %d BPM, %d bars (loop cleared)", bpm, bars)
		return m, nil
	}

	var cmd tea.Cmd
	if m.popup.focus == focusBPM {
		m.popup.bpm, cmd = m.popup.bpm.Update(msg)
	} else {
		m.popup.bars, cmd = m.popup.bars.Update(msg)
	}
	return m, cmd
}

func (m Model) viewPopup() string {
	body := titleStyle.Render("Tempo") + "\n\n" +
		fmt.Sprintf("BPM  (%d-%d): %s\n", tempo.BPMMin, tempo.BPMMax, m.popup.bpm.View()) +
		fmt.Sprintf("Bars (%d-%d): %s\n\n", tempo.BarsMin, tempo.BarsMax, m.popup.bars.View()) +
		errorStyle.Render("Applying a new tempo clears the recorded loop.") + "\n\n" +
		helpStyle.Render("tab: switch field • enter: apply • esc: cancel")
	return popupStyle.Render(body)
}
