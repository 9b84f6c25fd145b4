package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/accredit/internal/cli/formatter"
	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func newDashboardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"ui"},
		Short:   "Browse projects and set item statuses in a terminal UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("dashboard requires an interactive terminal")
			}
			p := tea.NewProgram(newDashboardModel(cmd.Context(), app),
				tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err := p.Run()
			return err
		},
	}
}

// ── keys ─────────────────────────────────────────────────────────────────────

type dashboardKeyMap struct {
	Up            key.Binding
	Down          key.Binding
	SwitchPane    key.Binding
	Compliant     key.Binding
	Partial       key.Binding
	NonCompliant  key.Binding
	NotApplicable key.Binding
	Refresh       key.Binding
	Quit          key.Binding
}

func newDashboardKeyMap() dashboardKeyMap {
	return dashboardKeyMap{
		Up:            key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:          key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		SwitchPane:    key.NewBinding(key.WithKeys("tab", "enter"), key.WithHelp("tab", "switch pane")),
		Compliant:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "compliant")),
		Partial:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "partial")),
		NonCompliant:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "non-compliant")),
		NotApplicable: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "n/a")),
		Refresh:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k dashboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SwitchPane, k.Compliant, k.Partial, k.NonCompliant, k.NotApplicable, k.Refresh, k.Quit}
}

func (k dashboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.SwitchPane},
		{k.Compliant, k.Partial, k.NonCompliant, k.NotApplicable},
		{k.Refresh, k.Quit},
	}
}

// statusFor maps a status key to the status it sets.
func (k dashboardKeyMap) statusFor(msg tea.KeyMsg) (domain.ComplianceStatus, bool) {
	switch {
	case key.Matches(msg, k.Compliant):
		return domain.StatusCompliant, true
	case key.Matches(msg, k.Partial):
		return domain.StatusPartiallyCompliant, true
	case key.Matches(msg, k.NonCompliant):
		return domain.StatusNonCompliant, true
	case key.Matches(msg, k.NotApplicable):
		return domain.StatusNotApplicable, true
	}
	return "", false
}

// ── messages ─────────────────────────────────────────────────────────────────

type projectsLoadedMsg struct {
	projects []*domain.Project
	err      error
}

type itemUpdatedMsg struct {
	item *domain.ChecklistItem
	err  error
}

// ── model ────────────────────────────────────────────────────────────────────

type dashboardPane int

const (
	paneProjects dashboardPane = iota
	paneChecklist
)

const (
	dashLeftPaneWidth = 40
	dashChromeHeight  = 6
)

// dashboardModel shows projects on the left and the selected project's
// checklist on the right. Status keys act on the highlighted item.
type dashboardModel struct {
	ctx  context.Context
	app  *App
	keys dashboardKeyMap
	help help.Model

	width, height int

	projects   []*domain.Project
	cursor     int
	itemCursor int
	focus      dashboardPane
	list       viewport.Model

	loading bool
	flash   string
	err     error
}

func newDashboardModel(ctx context.Context, app *App) *dashboardModel {
	return &dashboardModel{
		ctx:     ctx,
		app:     app,
		keys:    newDashboardKeyMap(),
		help:    help.New(),
		list:    viewport.New(60, 20),
		width:   100,
		height:  30,
		loading: true,
	}
}

func (m *dashboardModel) Init() tea.Cmd {
	return m.loadProjects()
}

func (m *dashboardModel) loadProjects() tea.Cmd {
	ctx, app := m.ctx, m.app
	return func() tea.Msg {
		projects, err := app.Projects.List(ctx)
		return projectsLoadedMsg{projects: projects, err: err}
	}
}

func (m *dashboardModel) setStatus(projectID, itemID string, status domain.ComplianceStatus) tea.Cmd {
	ctx, app := m.ctx, m.app
	return func() tea.Msg {
		item, err := app.Checklist.UpdateItem(ctx, projectID, itemID, domain.SetStatus{Status: status})
		if err == nil {
			err = app.persist(ctx, fmt.Sprintf("dashboard set-status %s", itemID))
		}
		return itemUpdatedMsg{item: item, err: err}
	}
}

// selected returns the highlighted project, or nil.
func (m *dashboardModel) selected() *domain.Project {
	if m.cursor < 0 || m.cursor >= len(m.projects) {
		return nil
	}
	return m.projects[m.cursor]
}

// selectedItem returns the highlighted checklist item, or nil.
func (m *dashboardModel) selectedItem() *domain.ChecklistItem {
	p := m.selected()
	if p == nil || m.itemCursor < 0 || m.itemCursor >= len(p.Checklist) {
		return nil
	}
	return &p.Checklist[m.itemCursor]
}

func (m *dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.list.Width = max(20, msg.Width-dashLeftPaneWidth-3)
		m.list.Height = max(3, msg.Height-dashChromeHeight)
		m.syncList()
		return m, nil

	case projectsLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.projects = msg.projects
		if m.cursor >= len(m.projects) {
			m.cursor = max(0, len(m.projects)-1)
		}
		if p := m.selected(); p != nil && m.itemCursor >= len(p.Checklist) {
			m.itemCursor = max(0, len(p.Checklist)-1)
		}
		m.syncList()
		return m, nil

	case itemUpdatedMsg:
		if msg.err != nil {
			m.flash = formatter.StyleRed.Render("Error: " + msg.err.Error())
			return m, nil
		}
		m.flash = fmt.Sprintf("%s is now %s", msg.item.ID, msg.item.Status)
		return m, m.loadProjects()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *dashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		m.flash = ""
		return m, m.loadProjects()
	case key.Matches(msg, m.keys.SwitchPane):
		if m.focus == paneProjects && m.selected() != nil {
			m.focus = paneChecklist
		} else {
			m.focus = paneProjects
		}
		m.syncList()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.move(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.move(1)
		return m, nil
	}

	if status, ok := m.keys.statusFor(msg); ok && m.focus == paneChecklist {
		item := m.selectedItem()
		if item == nil {
			return m, nil
		}
		return m, m.setStatus(m.selected().ID, item.ID, status)
	}
	return m, nil
}

func (m *dashboardModel) move(delta int) {
	if m.focus == paneProjects {
		next := m.cursor + delta
		if next >= 0 && next < len(m.projects) {
			m.cursor = next
			m.itemCursor = 0
			m.list.GotoTop()
		}
	} else if p := m.selected(); p != nil {
		next := m.itemCursor + delta
		if next >= 0 && next < len(p.Checklist) {
			m.itemCursor = next
		}
	}
	m.syncList()
}

// syncList re-renders the checklist pane and keeps the cursor row visible.
func (m *dashboardModel) syncList() {
	p := m.selected()
	if p == nil {
		m.list.SetContent("")
		return
	}
	names := userNames(m.ctx, m.app)
	now := m.app.now()

	lines := make([]string, len(p.Checklist))
	for i, item := range p.Checklist {
		cursor := "  "
		text := formatter.Truncate(item.Description, max(10, m.list.Width-30))
		if i == m.itemCursor && m.focus == paneChecklist {
			cursor = formatter.StyleGreen.Render("▸ ")
			text = formatter.StyleBold.Render(text)
		}
		due := ""
		if item.DueDate != nil {
			due = " " + formatter.DueDateStyled(*item.DueDate, now)
		}
		lines[i] = fmt.Sprintf("%s%-8s %-5s %s %s%s",
			cursor, item.ID, formatter.ComplianceBadge(item.Status), text,
			formatter.Dim(formatter.NameOrDash(item.AssigneeID, names)), due)
	}
	m.list.SetContent(strings.Join(lines, "\n"))

	if m.itemCursor < m.list.YOffset {
		m.list.SetYOffset(m.itemCursor)
	} else if m.itemCursor >= m.list.YOffset+m.list.Height {
		m.list.SetYOffset(m.itemCursor - m.list.Height + 1)
	}
}

// ── view ─────────────────────────────────────────────────────────────────────

func (m *dashboardModel) View() string {
	if m.loading && m.projects == nil {
		return "\n  " + formatter.Dim("Loading...")
	}
	if m.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+m.err.Error())
	}

	var b strings.Builder
	b.WriteString("\n")
	if len(m.projects) == 0 {
		b.WriteString("  " + formatter.Dim("No projects yet. Create one with 'accredit project create'."))
		b.WriteString("\n")
		return b.String()
	}

	left := lipgloss.NewStyle().Width(dashLeftPaneWidth).Render(m.renderProjects())
	divider := lipgloss.NewStyle().Foreground(formatter.ColorDim).Render("│")
	right := m.renderChecklist()

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " "+divider+" ", right))
	b.WriteString("\n\n")
	if m.flash != "" {
		b.WriteString("  " + m.flash + "\n")
	}
	b.WriteString("  " + m.help.View(m.keys))
	return b.String()
}

func (m *dashboardModel) renderProjects() string {
	var b strings.Builder
	title := "PROJECTS"
	if m.focus == paneProjects {
		title = "▸ " + title
	}
	b.WriteString(formatter.StyleHeader.Render(title) + "\n\n")

	for i, p := range m.projects {
		cursor := "  "
		nameStyle := formatter.StyleFg
		if i == m.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
			nameStyle = formatter.StyleBold
		}
		fmt.Fprintf(&b, "%s%s %s\n",
			cursor,
			nameStyle.Render(padRight(formatter.Truncate(p.Name, 22), 22)),
			formatter.RenderCompactBar(p.Progress(), 8, p.IsFinalized()),
		)
	}
	return b.String()
}

func (m *dashboardModel) renderChecklist() string {
	p := m.selected()
	if p == nil {
		return formatter.Dim("Select a project to see its checklist.")
	}

	var b strings.Builder
	title := p.Name
	if m.focus == paneChecklist {
		title = "▸ " + title
	}
	b.WriteString(formatter.StyleHeader.Render(title) + "  " + formatter.StatusPill(p.Status) + "\n")
	bd := p.Breakdown()
	fmt.Fprintf(&b, "%s  %s\n\n",
		formatter.RenderProgress(p.Progress(), 16),
		formatter.Dim(fmt.Sprintf("%d C · %d PC · %d NC · %d NA", bd.Compliant, bd.PartiallyCompliant, bd.NonCompliant, bd.NotApplicable)),
	)
	if len(p.Checklist) == 0 {
		b.WriteString(formatter.Dim("No checklist items."))
		return b.String()
	}
	b.WriteString(m.list.View())
	return b.String()
}

// padRight pads s with spaces to the given display width.
func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
