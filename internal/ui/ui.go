package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kdlcruz/tito/internal/models"
	"github.com/kdlcruz/tito/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	DashboardView ViewState = iota
	LogListView
	ConfirmView
	ResultView
)

// pendingAction is the confirmed-but-not-yet-run attendance action.
type pendingAction int

const (
	actionNone pendingAction = iota
	actionTimeInF2F
	actionTimeInAsync
	actionTimeOut
)

func (a pendingAction) String() string {
	switch a {
	case actionTimeInF2F:
		return "Time in (face to face)"
	case actionTimeInAsync:
		return "Time in (async)"
	case actionTimeOut:
		return "Time out"
	}
	return ""
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	engine  *tasks.AttendanceEngine
	width   int
	height  int
	logList list.Model
	state   models.AttendanceState
	pending pendingAction
	result  *models.AttendanceLog
	busy    bool
	err     error
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine *tasks.AttendanceEngine) *Model {
	return &Model{
		ctx:    ctx,
		view:   DashboardView,
		engine: engine,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init initializes the TUI by syncing attendance state from the server.
func (m *Model) Init() tea.Cmd {
	m.busy = true
	return m.syncState()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.logList.Width() == 0 {
			m.logList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case DashboardView:
			return m.handleDashboardKeys(msg)
		case LogListView:
			return m.handleLogListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case stateSyncedMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.state = msg.state
		items := make([]list.Item, len(msg.state.AttendanceLogs))
		for i, entry := range msg.state.AttendanceLogs {
			items[i] = logItem{log: entry}
		}
		m.logList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.logList.Title = "Attendance Logs"
		m.logList.SetSize(m.width-4, m.height-8)
		return m, nil

	case actionDoneMsg:
		m.busy = false
		m.result = msg.entry
		m.err = msg.err
		m.view = ResultView
		if msg.err == nil {
			// Refresh derived state so the dashboard reflects the new log.
			return m, m.syncState()
		}
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case DashboardView:
		return m.renderDashboard()
	case LogListView:
		return m.renderLogList()
	case ConfirmView:
		return m.renderConfirm()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.logs):
		m.view = LogListView
		return m, nil
	case key.Matches(msg, m.keys.sync):
		m.busy = true
		return m, m.syncState()
	case key.Matches(msg, m.keys.timeF2F):
		m.pending = actionTimeInF2F
		m.view = ConfirmView
		return m, nil
	case key.Matches(msg, m.keys.timeAsy):
		m.pending = actionTimeInAsync
		m.view = ConfirmView
		return m, nil
	case key.Matches(msg, m.keys.timeOut):
		m.pending = actionTimeOut
		m.view = ConfirmView
		return m, nil
	}
	return m, nil
}

func (m *Model) handleLogListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = DashboardView
		return m, nil
	}

	var cmd tea.Cmd
	m.logList, cmd = m.logList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.pending = actionNone
		m.view = DashboardView
		return m, nil
	case "y":
		action := m.pending
		m.pending = actionNone
		m.busy = true
		m.view = DashboardView
		return m, m.runAction(action)
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r", "esc":
		m.view = DashboardView
		m.result = nil
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == LogListView {
		m.logList, cmd = m.logList.Update(msg)
	}
	return m, cmd
}

func (m *Model) syncState() tea.Cmd {
	return func() tea.Msg {
		if err := m.engine.SyncState(m.ctx); err != nil {
			return stateSyncedMsg{err: err}
		}
		return stateSyncedMsg{state: m.engine.Store().Snapshot()}
	}
}

func (m *Model) runAction(action pendingAction) tea.Cmd {
	return func() tea.Msg {
		var entry *models.AttendanceLog
		var err error
		switch action {
		case actionTimeInF2F:
			entry, err = m.engine.TimeIn(m.ctx, models.TaskF2F)
		case actionTimeInAsync:
			entry, err = m.engine.TimeIn(m.ctx, models.TaskAsync)
		case actionTimeOut:
			entry, err = m.engine.TimeOut(m.ctx)
		}
		return actionDoneMsg{entry: entry, err: err}
	}
}

func (m *Model) renderDashboard() string {
	title := styles.title.Render("Attendance Dashboard")

	var status string
	if m.state.IsTimedIn {
		status = styles.ok.Render(fmt.Sprintf("Timed in [%s] log %s", m.state.CurrentLogType, m.state.TimedInLogID))
	} else if m.state.TimedOutForTheDay {
		status = styles.warn.Render("Timed out for the day")
	} else {
		status = "Timed out"
	}

	info := fmt.Sprintf("\n%s\nTasks today: %d\nIntern status: %s\n", status, m.state.TasksForTheDay, m.state.InternStatus)
	if m.state.MostRecentAttendance != nil {
		last := m.state.MostRecentAttendance
		info += fmt.Sprintf("Last log: %s [%s] %s\n", last.Date, last.LogType, last.Status)
	}
	if m.busy {
		info += "\nSyncing...\n"
	}
	if m.err != nil {
		info += "\n" + styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	}

	helpKeys := []key.Binding{m.keys.timeF2F, m.keys.timeAsy, m.keys.timeOut, m.keys.logs, m.keys.sync, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s%s\n%s", title, info, helpView)
}

func (m *Model) renderLogList() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.logList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("%s?", m.pending))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s", title, helpView)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Action failed: %v\n\nPress r to go back, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to go back, q to quit")
	}

	title := styles.ok.Render("✓ Recorded")
	info := fmt.Sprintf("\nDate: %s\nType: %s\nTime in: %s\nTime out: %s\nStatus: %s\n",
		m.result.Date, m.result.LogType, m.result.TimeIn, m.result.TimeOut, m.result.Status)

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s%s\n%s", title, info, helpView)
}
