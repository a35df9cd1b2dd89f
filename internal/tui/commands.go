package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"riskwatch/internal/api"
	"riskwatch/internal/predict"
)

// beginRequest cancels the in-flight work owned by the current screen
// and opens a new generation. Late completions from the old generation
// still arrive as messages but carry a stale Gen and are dropped.
func (m *App) beginRequest() (context.Context, int) {
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.reqCtx = ctx
	m.cancel = cancel
	m.gen++
	return ctx, m.gen
}

func (m *App) loginCmd(username, password string) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		token, err := m.svc.Client.Login(ctx, api.Credentials{Username: username, Password: password})
		if err != nil {
			return loggedInMsg{Err: err}
		}
		if err := m.svc.Session.Set(token); err != nil {
			return loggedInMsg{Err: err}
		}
		return loggedInMsg{}
	}
}

func (m *App) registerCmd(username, password string) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		msg, err := m.svc.Client.Register(ctx, api.Credentials{Username: username, Password: password})
		return registeredMsg{Message: msg, Err: err}
	}
}

// loadRosterCmd reloads the roster; on success it chains into a full
// prediction refresh and a stats fetch, mirroring a dashboard mount.
func (m *App) loadRosterCmd() tea.Cmd {
	ctx, gen := m.beginRequest()
	store := m.svc.Roster
	return func() tea.Msg {
		err := store.Load(ctx)
		return rosterLoadedMsg{Gen: gen, Err: err}
	}
}

func (m *App) refreshPredictionsCmd(gen int, ctx context.Context) tea.Cmd {
	orch := m.svc.Predict
	students := m.svc.Roster.Students()
	return func() tea.Msg {
		return predictionsMsg{Gen: gen, Result: orch.RefreshAll(ctx, students)}
	}
}

func (m *App) statsCmd(gen int, ctx context.Context) tea.Cmd {
	svc := m.svc.Stats
	return func() tea.Msg {
		ov, err := svc.Overview(ctx)
		return statsMsg{Gen: gen, Overview: ov, Err: err}
	}
}

func (m *App) predictOneCmd(studentID int) tea.Cmd {
	ctx, gen := m.beginRequest()
	orch := m.svc.Predict
	return func() tea.Msg {
		p, err := orch.PredictOne(ctx, studentID)
		msg := predictedMsg{Gen: gen, StudentID: studentID, Prediction: p}
		if err != nil {
			var te *predict.TrackingError
			if errors.As(err, &te) {
				msg.TrackErr = err
			} else {
				msg.Err = err
			}
		}
		return msg
	}
}

func (m *App) saveStudentCmd(editing bool, st api.Student) tea.Cmd {
	ctx := m.ctx
	gen := m.gen
	store := m.svc.Roster
	return func() tea.Msg {
		var err error
		if editing {
			err = store.Update(ctx, st.ID, st)
		} else {
			err = store.Create(ctx, st)
		}
		return studentSavedMsg{Gen: gen, Editing: editing, Err: err}
	}
}

func (m *App) deleteStudentCmd(id int) tea.Cmd {
	ctx := m.ctx
	gen := m.gen
	store := m.svc.Roster
	return func() tea.Msg {
		return studentDeletedMsg{Gen: gen, Err: store.Delete(ctx, id)}
	}
}

func (m *App) loadInterventionsCmd(studentID int) tea.Cmd {
	ctx, gen := m.beginRequest()
	led := m.svc.Ledger
	return func() tea.Msg {
		items, err := led.ListFor(ctx, studentID)
		return interventionsMsg{Gen: gen, StudentID: studentID, Items: items, Err: err}
	}
}

func (m *App) completeCmd(interventionID int, notes string) tea.Cmd {
	ctx := m.ctx
	gen := m.gen
	led := m.svc.Ledger
	return func() tea.Msg {
		return completedMsg{Gen: gen, Err: led.Complete(ctx, interventionID, notes)}
	}
}
