package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ShotaTanemura/TermiGroove/internal/pads"
)

// browserModel manages the sample picker state.
type browserModel struct {
	currentDir string
	files      []fileInfo
	cursor     int
	// selection keeps the picked files in selection order; that order
	// decides which pad each sample lands on.
	selection []string
	message   string
}

type fileInfo struct {
	name  string
	path  string
	isDir bool
}

func newBrowser(startDir string) browserModel {
	dir := startDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dir = home
	}
	b := browserModel{currentDir: dir}
	b.loadFiles()
	return b
}

func (b *browserModel) loadFiles() {
	b.files = []fileInfo{}

	// Add parent directory entry
	if b.currentDir != "/" {
		b.files = append(b.files, fileInfo{
			name:  "..",
			path:  filepath.Dir(b.currentDir),
			isDir: true,
		})
	}

	entries, err := os.ReadDir(b.currentDir)
	if err != nil {
		b.message = fmt.Sprintf("Error reading directory: %v", err)
		return
	}

	for _, entry := range entries {
		// Skip hidden files
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		// Include directories and wav samples
		if entry.IsDir() || pads.IsWav(entry.Name()) {
			b.files = append(b.files, fileInfo{
				name:  entry.Name(),
				path:  filepath.Join(b.currentDir, entry.Name()),
				isDir: entry.IsDir(),
			})
		}
	}

	// Reset cursor if out of bounds
	if b.cursor >= len(b.files) && len(b.files) > 0 {
		b.cursor = len(b.files) - 1
	}
	if b.cursor < 0 {
		b.cursor = 0
	}
}

// toggleSelect adds the file to the selection, or removes it when it is
// already picked.
func (b *browserModel) toggleSelect(path string) {
	for i, p := range b.selection {
		if p == path {
			b.selection = append(b.selection[:i], b.selection[i+1:]...)
			b.message = fmt.Sprintf("Removed %s", filepath.Base(path))
			return
		}
	}
	b.selection = append(b.selection, path)
	b.message = fmt.Sprintf("Selected %s (%d)", filepath.Base(path), len(b.selection))
}

func (b *browserModel) selectionIndex(path string) int {
	for i, p := range b.selection {
		if p == path {
			return i + 1
		}
	}
	return 0
}

func (m Model) updateBrowser(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := &m.browser

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if b.cursor > 0 {
			b.cursor--
		}
	case "down", "j":
		if b.cursor < len(b.files)-1 {
			b.cursor++
		}
	case "backspace", "left", "h":
		if b.currentDir != "/" {
			b.currentDir = filepath.Dir(b.currentDir)
			b.cursor = 0
			b.message = ""
			b.loadFiles()
		}
	case " ":
		if len(b.files) == 0 {
			return m, nil
		}
		selected := b.files[b.cursor]
		if !selected.isDir {
			b.toggleSelect(selected.path)
		}
	case "enter":
		if len(b.files) == 0 {
			return m, nil
		}
		selected := b.files[b.cursor]
		if selected.isDir {
			b.currentDir = selected.path
			b.cursor = 0
			b.message = ""
			b.loadFiles()
			return m, nil
		}
		// Entering pads with nothing picked picks the file under the
		// cursor first.
		if len(b.selection) == 0 {
			b.toggleSelect(selected.path)
		}
		return m.enterPads()
	case "d", "delete":
		b.selection = nil
		b.message = "Selection cleared"
	}

	return m, nil
}

func (m Model) viewBrowser() string {
	b := m.browser

	s := titleStyle.Render("TermiGroove") + "\n\n"
	s += fmt.Sprintf("Current Directory: %s\n\n", b.currentDir)

	if len(b.files) == 0 {
		s += "No wav files or directories found.\n"
	} else {
		for i, file := range b.files {
			cursor := " "
			if i == b.cursor {
				cursor = ">"
			}

			name := file.name
			if file.isDir {
				name = dirStyle.Render(name + "/")
			} else {
				name = wavStyle.Render(name)
				if idx := b.selectionIndex(file.path); idx > 0 {
					name += helpStyle.Render(fmt.Sprintf("  [%d]", idx))
				}
			}

			if i == b.cursor {
				s += selectedStyle.Render(fmt.Sprintf("%s %s", cursor, name)) + "\n"
			} else {
				s += fmt.Sprintf("%s %s\n", cursor, name)
			}
		}
	}

	s += "\n"
	if b.message != "" {
		s += errorStyle.Render(b.message) + "\n"
	}
	if m.status != "" {
		s += helpStyle.Render(m.status) + "\n"
	}

	s += "\n" + helpStyle.Render("↑/k: up • ↓/j: down • enter: open/to pads • space: select • d: clear selection • q: quit")

	return s
}
