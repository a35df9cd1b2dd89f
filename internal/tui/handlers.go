package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"riskwatch/internal/api"
	"riskwatch/internal/ledger"
)

// Completion-message handlers. Stale generations are dropped before
// any state is touched.

func (m *App) onLoggedIn(msg loggedInMsg) (tea.Model, tea.Cmd) {
	m.authBusy = false
	if msg.Err != nil {
		m.setError(msg.Err.Error())
		return m, nil
	}
	m.setStatus("")
	return m.gotoDashboard()
}

func (m *App) onRegistered(msg registeredMsg) (tea.Model, tea.Cmd) {
	m.authBusy = false
	if msg.Err != nil {
		m.setError(msg.Err.Error())
		return m, nil
	}
	m.setStatus(msg.Message + " You can log in now.")
	m.screen = screenLogin
	m.passInput.SetValue("")
	m.loginFocus = 0
	m.userInput.Focus()
	m.passInput.Blur()
	return m, nil
}

func (m *App) onRosterLoaded(msg rosterLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.gen {
		return m, nil
	}
	m.loading = false
	if msg.Err != nil {
		if api.IsAuth(msg.Err) {
			return m.logout()
		}
		// stale-on-error: prior roster stays visible
		m.setError(msg.Err.Error())
		return m, nil
	}
	m.clampCursor()
	m.setStatus(fmt.Sprintf("Loaded %d students.", len(m.svc.Roster.Students())))
	return m, tea.Batch(
		m.refreshPredictionsCmd(m.gen, m.reqCtx),
		m.statsCmd(m.gen, m.reqCtx),
	)
}

func (m *App) onPredictions(msg predictionsMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.gen {
		return m, nil
	}
	m.svc.Roster.MergePredictions(msg.Result.Predictions)
	if err := msg.Result.Err(); err != nil {
		m.setError(err.Error())
	}
	return m, nil
}

func (m *App) onPredicted(msg predictedMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.gen {
		return m, nil
	}
	if msg.Err != nil {
		if api.IsAuth(msg.Err) {
			return m.logout()
		}
		m.setError(msg.Err.Error())
		return m, nil
	}
	m.svc.Roster.SetPrediction(msg.StudentID, msg.Prediction)
	modal := &predictionModal{Prediction: msg.Prediction}
	switch {
	case msg.TrackErr != nil:
		modal.TrackNote = "Intervention tracking failed: " + msg.TrackErr.Error()
	case msg.Prediction.AtRisk():
		modal.TrackNote = "Recommendation tracked in the intervention log."
	}
	m.modal = modal
	return m, nil
}

func (m *App) onStats(msg statsMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.gen {
		return m, nil
	}
	if msg.Err != nil {
		// charts are decorative; keep the previous ones
		return m, nil
	}
	m.overview = msg.Overview
	return m, nil
}

func (m *App) onStudentSaved(msg studentSavedMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.gen || m.screen != screenDashboard {
		return m, nil
	}
	if msg.Err != nil {
		m.setError(msg.Err.Error())
		return m, nil
	}
	m.form = nil
	if msg.Editing {
		m.setStatus("Student updated.")
	} else {
		m.setStatus("Student added.")
	}
	// full reconciliation, no incremental patching
	m.loading = true
	return m, m.loadRosterCmd()
}

func (m *App) onStudentDeleted(msg studentDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.gen || m.screen != screenDashboard {
		return m, nil
	}
	m.confirmDel = nil
	if msg.Err != nil {
		m.setError(msg.Err.Error())
		return m, nil
	}
	m.setStatus("Student deleted.")
	m.loading = true
	return m, m.loadRosterCmd()
}

func (m *App) onInterventions(msg interventionsMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.gen || m.screen != screenDetail || msg.StudentID != m.detailStudent.ID {
		return m, nil
	}
	if msg.Err != nil {
		if api.IsAuth(msg.Err) {
			return m.logout()
		}
		m.setError(msg.Err.Error())
		return m, nil
	}
	m.interventions = msg.Items
	if m.ivCursor >= len(m.interventions) {
		m.ivCursor = 0
	}
	return m, nil
}

func (m *App) onCompleted(msg completedMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.gen || m.screen != screenDetail {
		return m, nil
	}
	if msg.Err != nil {
		switch {
		case errors.Is(msg.Err, ledger.ErrAlreadyCompleted):
			m.setError("Already completed; no further transitions.")
		case api.IsNotFound(msg.Err):
			m.setError("Intervention no longer exists.")
		default:
			m.setError(msg.Err.Error())
		}
		return m, nil
	}
	m.editingNotes = false
	m.notesInput.SetValue("")
	m.setStatus("Intervention completed.")
	return m, m.loadInterventionsCmd(m.detailStudent.ID)
}

func (m *App) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
