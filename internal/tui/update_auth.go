package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *App) updateAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		m.loginFocus = 1 - m.loginFocus
		if m.loginFocus == 0 {
			m.userInput.Focus()
			m.passInput.Blur()
		} else {
			m.passInput.Focus()
			m.userInput.Blur()
		}
		return m, textinput.Blink
	case "ctrl+r":
		// toggle between login and register
		if m.screen == screenLogin {
			m.screen = screenRegister
			m.setStatus("Create a new account.")
		} else {
			m.screen = screenLogin
			m.setStatus("")
		}
		return m, nil
	case "enter":
		if m.authBusy {
			return m, nil
		}
		user := strings.TrimSpace(m.userInput.Value())
		pass := m.passInput.Value()
		if user == "" || pass == "" {
			m.setError("Username and password are required.")
			return m, nil
		}
		m.authBusy = true
		m.setStatus("...")
		if m.screen == screenRegister {
			return m, m.registerCmd(user, pass)
		}
		return m, m.loginCmd(user, pass)
	}

	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.userInput, cmd = m.userInput.Update(msg)
	} else {
		m.passInput, cmd = m.passInput.Update(msg)
	}
	return m, cmd
}
