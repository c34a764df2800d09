// Package tui is the bubbletea front end: a file browser for picking
// samples, a pads screen driving the loop engine, and a tempo popup.
package tui

import (
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/ShotaTanemura/TermiGroove/internal/audio"
	"github.com/ShotaTanemura/TermiGroove/internal/config"
	"github.com/ShotaTanemura/TermiGroove/internal/logger"
	"github.com/ShotaTanemura/TermiGroove/internal/loopengine"
	"github.com/ShotaTanemura/TermiGroove/internal/pads"
)

// Mode selects the active screen.
type Mode int

const (
	modeBrowse Mode = iota
	modePads
)

// frameInterval is the engine poll rate; the loop scheduler is driven from
// this tick.
const frameInterval = 16 * time.Millisecond

// tickMsg drives the engine update loop.
type tickMsg time.Time

// Model is the application state.
type Model struct {
	mode    Mode
	browser browserModel
	popup   popupModel

	engine  *loopengine.Engine
	bus     audio.Bus
	mapping *pads.Mapping
	cfg     *config.Config
	log     *logrus.Logger

	width   int
	height  int
	status  string
	lastPad rune
}

// New builds the initial model with the browser opened at startDir.
func New(engine *loopengine.Engine, bus audio.Bus, startDir string, cfg *config.Config) Model {
	b := newBrowser(startDir)
	return Model{
		mode:    modeBrowse,
		browser: b,
		popup:   newPopup(),
		engine:  engine,
		bus:     bus,
		cfg:     cfg,
		log:     logger.GetProjectLogger(),
		status:  "Ready",
	}
}

func (m Model) Init() tea.Cmd {
	return frameTick()
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if err := m.engine.Update(); err != nil {
			m.status = "Audio unavailable"
		}
		return m, frameTick()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.popup.open {
			return m.updatePopup(msg)
		}
		switch m.mode {
		case modeBrowse:
			return m.updateBrowser(msg)
		case modePads:
			return m.updatePads(msg)
		}
	}

	return m, nil
}

func (m Model) updatePads(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.status = "Browse: pick samples, Enter returns to pads"
		return m, nil

	case " ":
		if err := m.engine.HandleSpace(); err != nil {
			m.status = "Audio unavailable"
			return m, nil
		}
		m.status = transportStatus(m.engine.Snapshot())
		return m, nil

	case "ctrl+@", "ctrl+space":
		if err := m.engine.HandleControlSpace(); err != nil {
			m.status = "Audio unavailable"
			return m, nil
		}
		m.status = "Loop cleared"
		return m, nil

	case "tab":
		m.popup.openWith(m.engine.BPM(), m.engine.Bars())
		return m, m.popup.focusCmd()
	}

	key := padKeyOf(msg)
	if key == 0 {
		return m, nil
	}
	if _, ok := m.mapping.Slot(key); !ok {
		m.log.Debugf("unmapped pad %q", string(key))
		return m, nil
	}
	m.lastPad = key

	snap := m.engine.Snapshot()
	switch snap.Kind {
	case loopengine.StateIdle, loopengine.StateReady:
		// The engine stores nothing here; monitoring is the app's choice.
		if err := m.bus.Send(audio.PlayPad(key)); err != nil {
			m.log.Warnf("pad monitor dropped: %v", err)
		}
	default:
		if err := m.engine.HandlePad(key); err != nil {
			m.status = "Audio unavailable"
			return m, nil
		}
	}
	m.status = transportStatus(m.engine.Snapshot())
	return m, nil
}

// padKeyOf extracts a single printable key from the message, folding shifted
// letters onto their pad.
func padKeyOf(msg tea.KeyMsg) rune {
	s := msg.String()
	runes := []rune(strings.ToLower(s))
	if len(runes) != 1 {
		return 0
	}
	return runes[0]
}

// enterPads validates the selection, builds the mapping, preloads samples
// and switches screens.
func (m Model) enterPads() (tea.Model, tea.Cmd) {
	mapping, err := pads.NewMapping(m.browser.selection)
	if err != nil {
		m.status = selectionErrorStatus(err)
		return m, nil
	}
	if err := mapping.Preload(m.bus); err != nil {
		m.status = "Audio unavailable"
		return m, nil
	}
	m.mapping = mapping
	m.mode = modePads
	m.status = "[Pads] Space: record loop / Ctrl+Space: clear / Tab: tempo / Esc: back"
	return m, nil
}

func selectionErrorStatus(err error) string {
	if errors.Is(err, pads.ErrNoSelection) {
		return "Select at least one file first"
	}
	return err.Error()
}

func (m Model) View() string {
	if m.popup.open {
		return m.viewPopup()
	}
	switch m.mode {
	case modeBrowse:
		return m.viewBrowser()
	case modePads:
		return m.viewPads()
	}
	return ""
}
