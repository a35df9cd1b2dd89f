// Package tui is the terminal front end: login, the roster dashboard,
// and the per-student intervention log. All I/O runs inside commands;
// the model mutates only when a completion message arrives, so two
// completions never interleave writes.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"riskwatch/internal/api"
	"riskwatch/internal/config"
	"riskwatch/internal/ledger"
	"riskwatch/internal/predict"
	"riskwatch/internal/roster"
	"riskwatch/internal/session"
	"riskwatch/internal/stats"
	"riskwatch/internal/view"
)

type screen int

const (
	screenLogin screen = iota
	screenRegister
	screenDashboard
	screenDetail
)

// Services bundles the collaborators the TUI drives.
type Services struct {
	Client  *api.Client
	Session *session.Store
	Roster  *roster.Store
	Predict *predict.Orchestrator
	Ledger  *ledger.Ledger
	Stats   *stats.Service
}

// App is the bubbletea model.
type App struct {
	ctx    context.Context
	cfg    config.Config
	svc    Services
	screen screen
	width  int
	height int

	status    string
	statusErr bool

	// request lifecycle: one in-flight generation per screen
	gen    int
	reqCtx context.Context
	cancel context.CancelFunc

	// login / register
	userInput  textinput.Model
	passInput  textinput.Model
	loginFocus int
	authBusy   bool

	// dashboard
	filter      view.RiskFilter
	sortCfg     view.SortConfig
	searchInput textinput.Model
	searching   bool
	cursor      int
	overview    stats.Overview
	showCharts  bool
	modal       *predictionModal
	form        *studentForm
	confirmDel  *api.Student
	loading     bool

	// detail
	detailStudent api.Student
	interventions []api.Intervention
	ivCursor      int
	notesInput    textinput.Model
	editingNotes  bool
}

// predictionModal holds a single-prediction result plus the outcome of
// the intervention side effect for display.
type predictionModal struct {
	Prediction api.Prediction
	TrackNote  string
}

// New builds the app. The context bounds every request the TUI issues.
func New(ctx context.Context, cfg config.Config, svc Services) *App {
	user := textinput.New()
	user.Placeholder = "username"
	user.Focus()
	pass := textinput.New()
	pass.Placeholder = "password"
	pass.EchoMode = textinput.EchoPassword

	search := textinput.New()
	search.Placeholder = "search name"

	notes := textinput.New()
	notes.Placeholder = "completion notes"

	first := screenLogin
	if svc.Session.LoggedIn() {
		first = screenDashboard
	}

	sortCfg := view.DefaultSort()
	if cfg.UI.DefaultSort != "" {
		sortCfg.Key = cfg.UI.DefaultSort
	}

	return &App{
		ctx:         ctx,
		cfg:         cfg,
		svc:         svc,
		screen:      first,
		userInput:   user,
		passInput:   pass,
		searchInput: search,
		notesInput:  notes,
		sortCfg:     sortCfg,
		showCharts:  true,
	}
}

func (m *App) Init() tea.Cmd {
	if m.screen == screenDashboard {
		m.loading = true
		return m.loadRosterCmd()
	}
	return textinput.Blink
}

// rows recomputes the projected roster view for the current filter,
// search, and sort state.
func (m *App) rows() []view.Row {
	return view.Project(m.svc.Roster.Students(), m.svc.Roster.Predictions(), m.filter, m.searchInput.Value(), m.sortCfg)
}

func (m *App) setStatus(text string) {
	m.status = text
	m.statusErr = false
}

func (m *App) setError(text string) {
	m.status = text
	m.statusErr = true
}

func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loggedInMsg:
		return m.onLoggedIn(msg)
	case registeredMsg:
		return m.onRegistered(msg)
	case rosterLoadedMsg:
		return m.onRosterLoaded(msg)
	case predictionsMsg:
		return m.onPredictions(msg)
	case predictedMsg:
		return m.onPredicted(msg)
	case statsMsg:
		return m.onStats(msg)
	case studentSavedMsg:
		return m.onStudentSaved(msg)
	case studentDeletedMsg:
		return m.onStudentDeleted(msg)
	case interventionsMsg:
		return m.onInterventions(msg)
	case completedMsg:
		return m.onCompleted(msg)

	case tea.KeyMsg:
		switch m.screen {
		case screenLogin, screenRegister:
			return m.updateAuth(msg)
		case screenDashboard:
			return m.updateDashboard(msg)
		case screenDetail:
			return m.updateDetail(msg)
		}
	}
	return m, nil
}

// teardown cancels the current screen's in-flight requests before a
// screen switch. Their completions arrive with a stale generation and
// are ignored.
func (m *App) teardown() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.gen++
}

// gotoDashboard switches to the dashboard and kicks off a full load.
func (m *App) gotoDashboard() (tea.Model, tea.Cmd) {
	m.teardown()
	m.screen = screenDashboard
	m.loading = true
	m.modal = nil
	m.form = nil
	m.confirmDel = nil
	return m, m.loadRosterCmd()
}

// gotoDetail opens a student's intervention log.
func (m *App) gotoDetail(st api.Student) (tea.Model, tea.Cmd) {
	m.teardown()
	m.screen = screenDetail
	m.detailStudent = st
	m.interventions = nil
	m.ivCursor = 0
	m.editingNotes = false
	m.notesInput.SetValue("")
	return m, m.loadInterventionsCmd(st.ID)
}

// logout clears the session and returns to the login screen.
func (m *App) logout() (tea.Model, tea.Cmd) {
	m.teardown()
	if err := m.svc.Session.Clear(); err != nil {
		m.setError("logout: " + err.Error())
	} else {
		m.setStatus("Logged out.")
	}
	m.screen = screenLogin
	m.passInput.SetValue("")
	m.loginFocus = 0
	m.userInput.Focus()
	m.passInput.Blur()
	return m, textinput.Blink
}
