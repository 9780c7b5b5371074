package tui

import (
	"fmt"
	"strings"

	"adapterctl/internal/adapters"
	"adapterctl/internal/play"
	"adapterctl/internal/state"

	"github.com/charmbracelet/lipgloss"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	paneTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(true)

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			MarginTop(1)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))
)

// View renders the current view
func (m Model) View() string {
	switch m.viewState {
	case ViewPlay:
		return m.RenderPlayView()
	case ViewForm:
		return m.RenderForm()
	case ViewRemove:
		return m.RenderRemoveConfirm()
	case ViewHelp:
		return m.RenderHelpView()
	default:
		return m.RenderConfigView()
	}
}

// getEffectiveWidth returns the effective width for rendering, with a minimum and maximum
func (m Model) getEffectiveWidth(defaultWidth int) int {
	if m.width <= 0 {
		return defaultWidth
	}
	maxWidth := 80
	if m.width < maxWidth {
		return m.width - 2
	}
	return maxWidth
}

func (m Model) separator() string {
	return separatorStyle.Render(strings.Repeat("─", m.getEffectiveWidth(40)))
}

// renderHeader renders a view title with the progress indicator
func (m Model) renderHeader(title string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	if m.snap.ShowProgress() {
		b.WriteString("  ")
		b.WriteString(m.spinner.View())
		b.WriteString(dimStyle.Render(" working..."))
	}
	b.WriteString("\n")
	b.WriteString(m.separator())
	b.WriteString("\n")
	return b.String()
}

// RenderConfigView renders the configuration view
func (m Model) RenderConfigView() string {
	var b strings.Builder
	b.WriteString(m.renderHeader("Mesh Adapter Configuration"))

	b.WriteString(m.renderPaneTitle(PaneAvailable, "Available adapters"))
	if len(m.snap.Available) == 0 {
		b.WriteString(dimStyle.Render("  No available adapters"))
		b.WriteString("\n")
	}
	for i, opt := range m.snap.Available {
		b.WriteString(m.renderOption(PaneAvailable, i, opt))
	}

	b.WriteString(m.renderPaneTitle(PaneConfigured, "Configured adapters"))
	if len(m.snap.Configured) == 0 {
		b.WriteString(dimStyle.Render("  No configured adapters"))
		b.WriteString("\n")
	}
	for i, opt := range m.snap.Configured {
		b.WriteString(m.renderOption(PaneConfigured, i, opt))
	}

	b.WriteString(m.renderPaneTitle(PaneAdapters, "Connected adapters"))
	if len(m.snap.Adapters) == 0 {
		b.WriteString(dimStyle.Render("  No adapters connected, press 'a' to configure one"))
		b.WriteString("\n")
	}
	for i, a := range m.snap.Adapters {
		b.WriteString(m.renderChip(i, a))
	}
	if a, ok := m.cursorAdapter(); ok {
		b.WriteString(dimStyle.Render("  " + a.Tooltip()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.RenderStatusBar())
	return b.String()
}

func (m Model) renderPaneTitle(p Pane, title string) string {
	if m.pane == p {
		return sectionStyle.Render("▸ "+title) + "\n"
	}
	return sectionStyle.Foreground(lipgloss.Color("241")).Render("  "+title) + "\n"
}

// renderOption renders one probed option line
func (m Model) renderOption(p Pane, index int, opt adapters.Option) string {
	marker := dimStyle.Render("○")
	if opt.Pingable {
		marker = activeStyle.Render("●")
	}
	content := opt.Label
	if m.pane == p && m.cursors[p] == index {
		content = selectedStyle.Render(content)
	} else {
		content = normalStyle.Render(content)
	}
	return fmt.Sprintf("  %s %s\n", marker, content)
}

// renderChip renders one configured adapter
func (m Model) renderChip(index int, a adapters.Adapter) string {
	content := fmt.Sprintf("%s  %s", a.Location, a.Name)
	if a.Version != "" {
		content += "  " + a.Version
	}
	cursor := "  "
	if m.pane == PaneAdapters && m.cursors[PaneAdapters] == index {
		cursor = "> "
		content = selectedStyle.Render(content)
	} else if a.Port == m.snap.SelectedPort {
		content = activeStyle.Render(content)
	} else {
		content = normalStyle.Render(content)
	}
	return "  " + cursor + content + "\n"
}

// RenderPlayView renders the adapter selector and the selected adapter's
// operations grouped by category
func (m Model) RenderPlayView() string {
	var b strings.Builder
	b.WriteString(m.renderHeader("Play"))

	if len(m.snap.Adapters) == 0 {
		b.WriteString(dimStyle.Render("No adapters connected"))
		b.WriteString("\n")
	}
	for i, a := range m.snap.Adapters {
		cursor := "  "
		mark := " "
		if a.Port == m.snap.SelectedPort {
			mark = activeStyle.Render("★")
		}
		content := a.Location
		if i == m.playCursor {
			cursor = "> "
			content = selectedStyle.Render(content)
		} else {
			content = normalStyle.Render(content)
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", cursor, mark, content))
	}
	b.WriteString(m.separator())
	b.WriteString("\n")

	summary, ok := play.Summarize(m.snap.Adapters, m.snap.SelectedPort)
	if !ok {
		b.WriteString(dimStyle.Render("No adapter selected. Press Enter on an adapter or '/' to go to a port."))
		b.WriteString("\n\n")
		b.WriteString(m.RenderStatusBar())
		return b.String()
	}

	b.WriteString(activeStyle.Render(summary.Adapter.Name))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %s  (%d configured)", summary.Adapter.Location, summary.Count)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(summary.Adapter.Tooltip()))
	b.WriteString("\n")

	if len(summary.Groups) == 0 {
		b.WriteString(dimStyle.Render("This adapter offers no operations"))
		b.WriteString("\n")
	}
	for _, g := range summary.Groups {
		b.WriteString(sectionStyle.Render(g.Name))
		b.WriteString("\n")
		for _, op := range g.Ops {
			b.WriteString(fmt.Sprintf("  • %s %s\n", normalStyle.Render(op.Value), dimStyle.Render(op.Key)))
		}
	}

	b.WriteString("\n")
	b.WriteString(m.RenderStatusBar())
	return b.String()
}

// RenderForm renders a location or navigation prompt
func (m Model) RenderForm() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(formTitle(m.formKind)))
	b.WriteString("\n")
	b.WriteString(m.separator())
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	if m.formErr != "" {
		b.WriteString(formErrorStyle.Render("✗ " + m.formErr))
		b.WriteString("\n")
	}
	b.WriteString(formHintStyle.Render("Enter: submit  Esc: cancel"))
	b.WriteString("\n")
	return b.String()
}

// RenderRemoveConfirm renders the remove confirmation dialog
func (m Model) RenderRemoveConfirm() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Remove adapter"))
	b.WriteString("\n")
	b.WriteString(m.separator())
	b.WriteString("\n\n")
	b.WriteString(formLabelStyle.Render("Remove the adapter at "))
	b.WriteString(errorStyle.Render(m.pendingRemove.Location))
	b.WriteString(formLabelStyle.Render("?"))
	b.WriteString("\n\n")
	b.WriteString(formHintStyle.Render("y: remove  n/Esc: cancel"))
	b.WriteString("\n")
	return b.String()
}

// RenderHelpView renders the help panel
func (m Model) RenderHelpView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Keyboard shortcuts"))
	b.WriteString("\n")
	b.WriteString(m.separator())
	b.WriteString("\n\n")
	full := m.help
	full.ShowAll = true
	b.WriteString(full.View(m.keys))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("Available: Enter configures the adapter on the probe host"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Configured: Enter re-registers the adapter location"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Connected: Enter opens it in the play view, d removes, p pings"))
	b.WriteString("\n")
	return b.String()
}

// RenderStatusBar renders notifications and the short help line
func (m Model) RenderStatusBar() string {
	var b strings.Builder

	for _, n := range m.snap.Notifications {
		b.WriteString(renderNotification(n))
		b.WriteString("\n")
	}
	if m.errorMsg != "" {
		b.WriteString(errorStyle.Render("✗ " + m.errorMsg))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func renderNotification(n state.Notification) string {
	switch n.Severity {
	case state.SeveritySuccess:
		return messageStyle.Render("✓ " + n.Message)
	case state.SeverityError:
		return errorStyle.Render("✗ " + n.Message)
	default:
		return normalStyle.Render("• " + n.Message)
	}
}
