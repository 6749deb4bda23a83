// Package tui provides a Bubble Tea TUI for reviewing a hunt session and
// its settlement.
package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fakeyudi/huntsplit/internal/report"
	"github.com/fakeyudi/huntsplit/internal/settle"
)

// ── Styles ────────────

var (
	// Title bar at the very top
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("94")).
			Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("94")).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	tabSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Background(lipgloss.Color("235"))

	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	gainStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	lossStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	leaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("237"))
)

// ── Tab definitions ─────────────────

type tabID int

const (
	tabSummary tabID = iota
	tabTransfers
	tabPlayers
	tabCount
)

var tabNames = [tabCount]string{"Summary", "Transfers", "Players"}

// copiedMsg reports the outcome of a clipboard write.
type copiedMsg struct {
	what string
	err  error
}

// ── Model ────────────────────

// Model is the root Bubble Tea model for the TUI.
type Model struct {
	session   *report.Session
	source    string
	warnings  []string
	mode      settle.Mode
	transfers []settle.Transfer

	activeTab tabID
	viewports [tabCount]viewport.Model
	width     int
	height    int
	ready     bool
	status    string

	// Transfers tab cursor
	transferCursor int
	// Players tab: cursor position and expanded set
	playerCursor    int
	expandedPlayers map[int]bool

	copy func(string) error
}

// New creates a TUI model for s. source is the report file name shown in
// the title bar and warnings are the parse warnings to list on the summary.
func New(s *report.Session, source string, mode settle.Mode, warnings []string) Model {
	if source == "" || source == "-" {
		source = "stdin"
	}
	m := Model{
		session:         s,
		source:          filepath.Base(source),
		warnings:        warnings,
		mode:            mode,
		expandedPlayers: make(map[int]bool),
		copy:            clipboard.WriteAll,
	}
	m.transfers = settle.Calculator{Mode: mode}.Settle(s)
	return m
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "l", "right":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab", "h", "left":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		case "1", "2", "3":
			m.activeTab = tabID(msg.String()[0] - '1')
			return m, nil
		case "c":
			if len(m.transfers) == 0 {
				m.status = "nothing to copy"
				return m, nil
			}
			return m, m.copyCmd(settle.Commands(m.transfers), fmt.Sprintf("%d transfer commands", len(m.transfers)))
		case "m":
			m.toggleMode()
			return m, nil
		case "up", "k":
			if m.moveCursor(-1) {
				return m, nil
			}
		case "down", "j":
			if m.moveCursor(1) {
				return m, nil
			}
		case "enter", " ":
			switch m.activeTab {
			case tabTransfers:
				if len(m.transfers) > 0 {
					t := m.transfers[m.transferCursor]
					what := "transfer to " + t.To
					if t.ToLeader {
						what = "transfer from " + t.From
					}
					return m, m.copyCmd(settle.Command(t), what)
				}
				return m, nil
			case tabPlayers:
				if len(m.session.Players) > 0 {
					if m.expandedPlayers[m.playerCursor] {
						delete(m.expandedPlayers, m.playerCursor)
					} else {
						m.expandedPlayers[m.playerCursor] = true
					}
					m.rebuildViewport(tabPlayers)
				}
				return m, nil
			}
		}
		var cmd tea.Cmd
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd

	case copiedMsg:
		if msg.err != nil {
			m.status = "clipboard unavailable: " + msg.err.Error()
		} else {
			m.status = "copied " + msg.what
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.initViewports()
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := titleStyle.Width(m.width).Render("  huntsplit  " + m.source)

	var tabParts []string
	for i := tabID(0); i < tabCount; i++ {
		label := fmt.Sprintf(" %d %s ", i+1, tabNames[i])
		if i == m.activeTab {
			tabParts = append(tabParts, activeTabStyle.Render(label))
		} else {
			tabParts = append(tabParts, inactiveTabStyle.Render(label))
		}
		if i < tabCount-1 {
			tabParts = append(tabParts, tabSepStyle.Render("│"))
		}
	}
	tabRow := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Width(m.width).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, tabParts...))

	content := m.viewports[m.activeTab].View()

	hint := "  ←/→ tab  ↑/↓ scroll  1-3 jump  c copy all  m mode (" + string(m.mode) + ")  q quit"
	switch m.activeTab {
	case tabTransfers:
		hint += "  enter copy selected"
	case tabPlayers:
		hint += "  enter expand/collapse"
	}
	right := fmt.Sprintf("%3.0f%%", m.viewports[m.activeTab].ScrollPercent()*100)
	if m.status != "" {
		right = m.status + "  " + right
	}
	pad := m.width - lipgloss.Width(hint) - lipgloss.Width(right) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(
		hint + strings.Repeat(" ", pad) + right,
	)

	return lipgloss.JoinVertical(lipgloss.Left, title, tabRow, content, statusBar)
}

// copyCmd writes text to the clipboard off the update loop.
func (m Model) copyCmd(text, what string) tea.Cmd {
	write := m.copy
	return func() tea.Msg {
		return copiedMsg{what: what, err: write(text)}
	}
}

// moveCursor moves the selection on list tabs. It reports whether the key
// was consumed.
func (m *Model) moveCursor(delta int) bool {
	switch m.activeTab {
	case tabTransfers:
		next := m.transferCursor + delta
		if next < 0 || next >= len(m.transfers) {
			return true
		}
		m.transferCursor = next
		m.rebuildViewport(tabTransfers)
		return true
	case tabPlayers:
		next := m.playerCursor + delta
		if next < 0 || next >= len(m.session.Players) {
			return true
		}
		m.playerCursor = next
		m.rebuildViewport(tabPlayers)
		return true
	}
	return false
}

func (m *Model) toggleMode() {
	if m.mode == settle.ModeConserve {
		m.mode = settle.ModeNearest
	} else {
		m.mode = settle.ModeConserve
	}
	m.transfers = settle.Calculator{Mode: m.mode}.Settle(m.session)
	if m.transferCursor >= len(m.transfers) {
		m.transferCursor = 0
	}
	m.status = "rounding: " + string(m.mode)
	if m.ready {
		m.rebuildViewport(tabSummary)
		m.rebuildViewport(tabTransfers)
		m.rebuildViewport(tabPlayers)
	}
}

// ── Viewport management ───────────────────────────────────────────────────────

func (m *Model) initViewports() {
	// title(1) + tabRow(1) + statusBar(1) = 3 fixed rows
	vpHeight := m.height - 3
	if vpHeight < 1 {
		vpHeight = 1
	}
	for i := tabID(0); i < tabCount; i++ {
		vp := viewport.New(m.width, vpHeight)
		vp.SetContent(m.renderTab(i))
		m.viewports[i] = vp
	}
}

func (m *Model) rebuildViewport(t tabID) {
	m.viewports[t].SetContent(m.renderTab(t))
}

// ── Tab renderers ─────────────────────────────────────────────────────────────

func (m *Model) renderTab(t tabID) string {
	switch t {
	case tabSummary:
		return m.renderSummary()
	case tabTransfers:
		return m.renderTransfers()
	case tabPlayers:
		return m.renderPlayers()
	}
	return ""
}

func heading(s string) string {
	return "\n" + sectionHeader.Render("  "+s) + "\n\n"
}

func signed(n int64) string {
	s := report.FormatAmount(n)
	switch {
	case n > 0:
		return gainStyle.Render(s)
	case n < 0:
		return lossStyle.Render(s)
	}
	return s
}

func (m *Model) renderSummary() string {
	s := m.session
	var sb strings.Builder
	sb.WriteString(heading("Hunt Session"))

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-16s", label)) + "  " + value + "\n")
	}
	row("Started:", timeStyle.Render(s.StartTime.Format("2006-01-02 15:04:05")))
	row("Ended:", timeStyle.Render(s.EndTime.Format("2006-01-02 15:04:05")))
	row("Duration:", s.Duration)
	row("Loot Type:", string(s.LootType))
	row("Players:", fmt.Sprintf("%d", len(s.Players)))

	sb.WriteString(heading("Totals"))
	sum := settle.Summarize(s)
	row("Loot:", report.FormatAmount(s.TotalLoot))
	row("Supplies:", report.FormatAmount(s.TotalSupplies))
	row("Balance:", signed(s.TotalBalance))
	row("Profit:", signed(sum.Profit))
	row("Profit/player:", fmt.Sprintf("%.0f", sum.ProfitPerPlayer))
	row("Balance/player:", fmt.Sprintf("%.0f", sum.BalancePerPlayer))

	sb.WriteString(heading("Settlement"))
	row("Rounding:", string(m.mode))
	if leader, ok := s.Leader(); ok {
		row("Leader:", leaderStyle.Render(leader.Name))
		if keeps, err := (settle.Calculator{Mode: m.mode}).LeaderShare(s); err == nil {
			row("Leader keeps:", report.FormatAmount(keeps))
		}
		paid, received := settle.LeaderFlow(m.transfers)
		row("Paid out:", report.FormatAmount(paid))
		if received > 0 {
			row("Received:", report.FormatAmount(received))
		}
	} else if err := settle.Check(s); err != nil {
		sb.WriteString(dimStyle.Render("  nothing to settle: "+err.Error()) + "\n")
	}

	if len(m.warnings) > 0 {
		sb.WriteString(heading(fmt.Sprintf("Warnings (%d)", len(m.warnings))))
		for _, w := range m.warnings {
			sb.WriteString(warnStyle.Render("  ! ") + w + "\n")
		}
	}
	return sb.String()
}

func (m *Model) renderTransfers() string {
	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("Transfers (%d)", len(m.transfers))))
	if len(m.transfers) == 0 {
		msg := "(none)"
		if err := settle.Check(m.session); err != nil {
			msg = "(none: " + err.Error() + ")"
		}
		sb.WriteString(dimStyle.Render("  "+msg) + "\n")
		return sb.String()
	}
	for i, t := range m.transfers {
		line := fmt.Sprintf("  %3d.  %s", i+1, settle.Command(t))
		if i == m.transferCursor {
			line = selectedRowStyle.Width(m.width - 2).Render(line)
		}
		sb.WriteString(line + "\n")
		sb.WriteString(dimStyle.Render(fmt.Sprintf("        %s → %s  %s", t.From, t.To, report.FormatAmount(t.Amount))) + "\n\n")
	}
	return sb.String()
}

func (m *Model) renderPlayers() string {
	s := m.session
	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("Players (%d)", len(s.Players))))
	if len(s.Players) == 0 {
		sb.WriteString(dimStyle.Render("  (none)") + "\n")
		return sb.String()
	}
	for i, p := range s.Players {
		toggle := dimStyle.Render("  ▶ ")
		if m.expandedPlayers[i] {
			toggle = dimStyle.Render("  ▼ ")
		}
		name := p.Name
		if p.IsLeader {
			name += " " + leaderStyle.Render("(Leader)")
		}
		row := fmt.Sprintf("%s%-28s  balance %s", toggle, name, report.FormatAmount(p.Balance))
		if i == m.playerCursor {
			row = selectedRowStyle.Width(m.width - 2).Render(row)
		}
		sb.WriteString(row + "\n")

		if m.expandedPlayers[i] {
			detail := func(label string, v int64) {
				sb.WriteString(labelStyle.Render(fmt.Sprintf("        %-16s", label)) + "  " + report.FormatAmount(v) + "\n")
			}
			detail("Loot:", p.Loot)
			detail("Supplies:", p.Supplies)
			detail("Balance:", p.Balance)
			detail("Damage:", p.Damage)
			detail("Healing:", p.Healing)
			detail("Should receive:", settle.ShouldReceive(s, p))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Run starts the TUI for the given session.
func Run(s *report.Session, source string, mode settle.Mode, warnings []string) error {
	p := tea.NewProgram(New(s, source, mode, warnings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
