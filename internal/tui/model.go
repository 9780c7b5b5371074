package tui

import (
	"context"
	"fmt"
	"net"
	"time"

	"adapterctl/internal/adapters"
	"adapterctl/internal/discovery"
	"adapterctl/internal/manage"
	"adapterctl/internal/state"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState represents the current view state
type ViewState int

const (
	ViewConfig ViewState = iota // Configuration view
	ViewPlay                    // Play view
	ViewForm                    // Location or navigation prompt
	ViewRemove                  // Remove confirmation dialog
	ViewHelp                    // Help panel
)

// Pane identifies a list in the configuration view
type Pane int

const (
	PaneAvailable  Pane = iota // available adapter options
	PaneConfigured             // configured adapter options
	PaneAdapters               // configured adapter chips
	paneCount
)

const expireInterval = 500 * time.Millisecond

// Model is the core state model for TUI
type Model struct {
	ctx  context.Context
	ctrl *manage.Controller

	snap       state.State // last store snapshot
	viewState  ViewState
	returnView ViewState // view restored when a prompt or help closes
	pane       Pane
	cursors    [paneCount]int
	playCursor int

	// Prompt
	formKind FormKind
	input    textinput.Model
	formErr  string

	pendingRemove adapters.Adapter

	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	probeHost    string
	refreshEvery time.Duration
	initialQuery string

	errorMsg string

	width  int
	height int
}

// Option configures a Model
type Option func(*Model)

// WithProbeHost sets the host available adapters are configured on
func WithProbeHost(host string) Option {
	return func(m *Model) {
		if host != "" {
			m.probeHost = host
		}
	}
}

// WithRefreshInterval re-fetches the lists every d. Zero disables it.
func WithRefreshInterval(d time.Duration) Option {
	return func(m *Model) {
		m.refreshEvery = d
	}
}

// WithInitialQuery opens the play view on the adapter at port once the
// adapter list is loaded
func WithInitialQuery(port string) Option {
	return func(m *Model) {
		if port != "" {
			m.initialQuery = port
			m.viewState = ViewPlay
		}
	}
}

// WithStartView sets the first view shown
func WithStartView(v ViewState) Option {
	return func(m *Model) {
		m.viewState = v
	}
}

// NewModel creates a new TUI model
func NewModel(ctx context.Context, ctrl *manage.Controller, opts ...Option) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = activeStyle

	m := Model{
		ctx:       ctx,
		ctrl:      ctrl,
		snap:      ctrl.Store().Snapshot(),
		viewState: ViewConfig,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   sp,
		probeHost: discovery.DefaultProbeHost,
		width:     80,
		height:    24,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init initializes the model and returns initial commands
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		refreshCmd(m.ctx, m.ctrl, m.initialQuery),
		expireTick(),
	}
	if m.refreshEvery > 0 {
		cmds = append(cmds, refreshTick(m.refreshEvery))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case StateChangedMsg:
		m.setSnapshot(msg.State)
		return m, nil

	case ActionDoneMsg, PingDoneMsg:
		m.setSnapshot(m.ctrl.Store().Snapshot())
		return m, nil

	case SelectedMsg:
		m.setSnapshot(m.ctrl.Store().Snapshot())
		if msg.Err != nil {
			m.errorMsg = msg.Err.Error()
			return m, nil
		}
		m.errorMsg = ""
		m.viewState = ViewPlay
		return m, nil

	case refreshTickMsg:
		return m, tea.Batch(refreshCmd(m.ctx, m.ctrl, ""), refreshTick(m.refreshEvery))

	case expireTickMsg:
		if m.hasExpired(time.Time(msg)) {
			m.ctrl.Expire()
			m.setSnapshot(m.ctrl.Store().Snapshot())
		}
		return m, expireTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.viewState == ViewForm {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// setSnapshot stores s and keeps the cursors inside the new lists
func (m *Model) setSnapshot(s state.State) {
	m.snap = s
	for p := Pane(0); p < paneCount; p++ {
		m.cursors[p] = clamp(m.cursors[p], m.paneLen(p))
	}
	m.playCursor = clamp(m.playCursor, len(m.snap.Adapters))
}

func clamp(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

func (m Model) paneLen(p Pane) int {
	switch p {
	case PaneAvailable:
		return len(m.snap.Available)
	case PaneConfigured:
		return len(m.snap.Configured)
	default:
		return len(m.snap.Adapters)
	}
}

func (m Model) hasExpired(now time.Time) bool {
	for _, n := range m.snap.Notifications {
		if n.Expired(now) {
			return true
		}
	}
	return false
}

// handleKeyMsg handles keyboard input based on current view state
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.viewState {
	case ViewConfig:
		return m.handleConfigViewKeys(msg)
	case ViewPlay:
		return m.handlePlayViewKeys(msg)
	case ViewForm:
		return m.handleFormKeys(msg)
	case ViewRemove:
		return m.handleRemoveKeys(msg)
	case ViewHelp:
		return m.handleHelpKeys(msg)
	}
	return m, nil
}

// handleCommonKeys handles keys shared by the configuration and play views
func (m Model) handleCommonKeys(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit, true
	case key.Matches(msg, m.keys.Help):
		m.returnView = m.viewState
		m.viewState = ViewHelp
		return m, nil, true
	case key.Matches(msg, m.keys.Refresh):
		m.errorMsg = ""
		return m, refreshCmd(m.ctx, m.ctrl, ""), true
	case key.Matches(msg, m.keys.Dismiss):
		if n := len(m.snap.Notifications); n > 0 {
			m.ctrl.Dismiss(m.snap.Notifications[n-1].ID)
			m.setSnapshot(m.ctrl.Store().Snapshot())
		}
		m.errorMsg = ""
		return m, nil, true
	}
	return m, nil, false
}

// handleConfigViewKeys handles keys in the configuration view
func (m Model) handleConfigViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if next, cmd, ok := m.handleCommonKeys(msg); ok {
		return next, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursors[m.pane] > 0 {
			m.cursors[m.pane]--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursors[m.pane] < m.paneLen(m.pane)-1 {
			m.cursors[m.pane]++
		}
	case key.Matches(msg, m.keys.NextPane):
		m.pane = (m.pane + 1) % paneCount
	case key.Matches(msg, m.keys.Play):
		m.viewState = ViewPlay
	case key.Matches(msg, m.keys.Add):
		m.openForm(FormLocation)
	case key.Matches(msg, m.keys.Select):
		return m.selectInPane()
	case key.Matches(msg, m.keys.Delete):
		if a, ok := m.cursorAdapter(); ok {
			m.pendingRemove = a
			m.viewState = ViewRemove
		}
	case key.Matches(msg, m.keys.Ping):
		if a, ok := m.cursorAdapter(); ok {
			return m, pingCmd(m.ctx, m.ctrl, a.Location)
		}
	}
	return m, nil
}

// selectInPane configures the option under the cursor, or selects the adapter
// chip under the cursor for the play view
func (m Model) selectInPane() (tea.Model, tea.Cmd) {
	i := m.cursors[m.pane]
	switch m.pane {
	case PaneAvailable:
		if i < len(m.snap.Available) {
			loc := net.JoinHostPort(m.probeHost, m.snap.Available[i].Value)
			return m, configureCmd(m.ctx, m.ctrl, loc)
		}
	case PaneConfigured:
		if i < len(m.snap.Configured) {
			return m, configureCmd(m.ctx, m.ctrl, m.snap.Configured[i].Label)
		}
	case PaneAdapters:
		if a, ok := m.cursorAdapter(); ok {
			return m, selectCmd(m.ctrl, a.Port)
		}
	}
	return m, nil
}

// cursorAdapter returns the adapter chip under the cursor
func (m Model) cursorAdapter() (adapters.Adapter, bool) {
	if m.pane != PaneAdapters {
		return adapters.Adapter{}, false
	}
	i := m.cursors[PaneAdapters]
	if i < 0 || i >= len(m.snap.Adapters) {
		return adapters.Adapter{}, false
	}
	return m.snap.Adapters[i], true
}

// handlePlayViewKeys handles keys in the play view
func (m Model) handlePlayViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if next, cmd, ok := m.handleCommonKeys(msg); ok {
		return next, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.playCursor > 0 {
			m.playCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.playCursor < len(m.snap.Adapters)-1 {
			m.playCursor++
		}
	case key.Matches(msg, m.keys.Select):
		if m.playCursor < len(m.snap.Adapters) {
			return m, selectCmd(m.ctrl, m.snap.Adapters[m.playCursor].Port)
		}
	case key.Matches(msg, m.keys.Navigate):
		m.openForm(FormNavigate)
	case key.Matches(msg, m.keys.Play), key.Matches(msg, m.keys.Cancel):
		m.viewState = ViewConfig
	}
	return m, nil
}

// openForm shows a prompt of kind over the current view
func (m *Model) openForm(kind FormKind) {
	m.returnView = m.viewState
	m.viewState = ViewForm
	m.formKind = kind
	m.formErr = ""
	m.input = NewFormInput(kind)
}

// handleFormKeys handles keys in a prompt
func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.viewState = m.returnView
		m.formErr = ""
		return m, nil

	case key.Matches(msg, m.keys.Select):
		value, err := ValidateFormValue(m.formKind, m.input.Value())
		if err != nil {
			m.formErr = err.Error()
			return m, nil
		}
		m.formErr = ""
		m.viewState = m.returnView

		if m.formKind == FormLocation {
			return m, configureCmd(m.ctx, m.ctrl, value)
		}
		m.setSnapshot(m.ctrl.SelectFromQuery(value))
		if _, ok := adapters.FindByPort(m.snap.Adapters, value); !ok {
			m.errorMsg = fmt.Sprintf("no adapter on port %s", value)
		} else {
			m.errorMsg = ""
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleRemoveKeys handles keys in the remove confirmation dialog
func (m Model) handleRemoveKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		loc := m.pendingRemove.Location
		m.pendingRemove = adapters.Adapter{}
		m.viewState = ViewConfig
		return m, removeCmd(m.ctx, m.ctrl, loc)
	case msg.String() == "n", key.Matches(msg, m.keys.Cancel):
		m.pendingRemove = adapters.Adapter{}
		m.viewState = ViewConfig
	}
	return m, nil
}

// handleHelpKeys handles keys in the help panel
func (m Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Quit):
		m.viewState = m.returnView
	}
	return m, nil
}

// refreshCmd syncs the adapter list and reloads both option lists, then
// applies a pending navigation query
func refreshCmd(ctx context.Context, ctrl *manage.Controller, query string) tea.Cmd {
	return func() tea.Msg {
		err := ctrl.Refresh(ctx)
		if query != "" {
			ctrl.SelectFromQuery(query)
		}
		return ActionDoneMsg{Action: "refresh", Err: err}
	}
}

func configureCmd(ctx context.Context, ctrl *manage.Controller, location string) tea.Cmd {
	return func() tea.Msg {
		return ActionDoneMsg{Action: "configure", Err: ctrl.Configure(ctx, location)}
	}
}

func removeCmd(ctx context.Context, ctrl *manage.Controller, location string) tea.Cmd {
	return func() tea.Msg {
		return ActionDoneMsg{Action: "remove", Err: ctrl.Remove(ctx, location)}
	}
}

func pingCmd(ctx context.Context, ctrl *manage.Controller, location string) tea.Cmd {
	return func() tea.Msg {
		return PingDoneMsg{Location: location, OK: ctrl.PingOne(ctx, location)}
	}
}

func selectCmd(ctrl *manage.Controller, port string) tea.Cmd {
	return func() tea.Msg {
		return SelectedMsg{Port: port, Err: ctrl.SelectExplicit(port)}
	}
}

func refreshTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

func expireTick() tea.Cmd {
	return tea.Tick(expireInterval, func(t time.Time) tea.Msg {
		return expireTickMsg(t)
	})
}
