package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *App) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editingNotes {
		switch msg.String() {
		case "esc":
			m.editingNotes = false
			m.notesInput.Blur()
			m.notesInput.SetValue("")
			return m, nil
		case "enter":
			if len(m.interventions) == 0 {
				m.editingNotes = false
				return m, nil
			}
			iv := m.interventions[m.ivCursor]
			m.setStatus("Completing...")
			return m, m.completeCmd(iv.ID, m.notesInput.Value())
		}
		var cmd tea.Cmd
		m.notesInput, cmd = m.notesInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "q", "backspace":
		return m.gotoDashboard()
	case "up", "k":
		if m.ivCursor > 0 {
			m.ivCursor--
		}
		return m, nil
	case "down", "j":
		if m.ivCursor < len(m.interventions)-1 {
			m.ivCursor++
		}
		return m, nil
	case "r":
		return m, m.loadInterventionsCmd(m.detailStudent.ID)
	case "enter", "c":
		// completion applies to Pending entries only
		if len(m.interventions) == 0 {
			return m, nil
		}
		iv := m.interventions[m.ivCursor]
		if !iv.Pending() {
			m.setError("Already completed; no further transitions.")
			return m, nil
		}
		m.editingNotes = true
		m.notesInput.Focus()
		return m, textinput.Blink
	case "L":
		return m.logout()
	}
	return m, nil
}
