package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	cl "ratrace/internal/cli"
	"ratrace/internal/game"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

const dashRefreshInterval = 2 * time.Second

var (
	dashTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#6B50FF")).
			Padding(0, 1)
	dashPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4D4C57")).
			Padding(0, 1)
	dashGoodStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FFB2"))
	dashBadStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E94090"))
	dashMuteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#858392"))
	dashWarnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD300"))
)

func newDashCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "dash",
		Short: "Live dashboard for the running game",
		RunE: func(cmd *cobra.Command, args []string) error {
			model := newDashModel(newClient(apiBase))
			_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		},
	}
}

type sessionMsg struct {
	view cl.SessionView
	err  error
}

type advanceMsg struct {
	err error
}

type dashTickMsg time.Time

type dashModel struct {
	client *cl.Client

	view    cl.SessionView
	loaded  bool
	lastErr error

	holdings table.Model
	width    int
}

func newDashModel(client *cl.Client) dashModel {
	columns := []table.Column{
		{Title: "Asset", Width: 26},
		{Title: "Type", Width: 12},
		{Title: "Value", Width: 12},
		{Title: "Income/mo", Width: 12},
		{Title: "Risk", Width: 8},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(8),
		table.WithFocused(true),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(lipgloss.Color("#BFBCC8"))
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("#FF60FF"))
	t.SetStyles(styles)

	return dashModel{client: client, holdings: t}
}

func (m dashModel) Init() tea.Cmd {
	return tea.Batch(fetchSession(m.client), scheduleDashTick())
}

func fetchSession(client *cl.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		view, err := client.Session(ctx)
		return sessionMsg{view: view, err: err}
	}
}

func advanceOnce(client *cl.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_, err := client.AdvanceRound(ctx)
		return advanceMsg{err: err}
	}
}

func scheduleDashTick() tea.Cmd {
	return tea.Tick(dashRefreshInterval, func(t time.Time) tea.Msg {
		return dashTickMsg(t)
	})
}

func (m dashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "a":
			cmds = append(cmds, advanceOnce(m.client))
		case "r":
			cmds = append(cmds, fetchSession(m.client))
		}

	case dashTickMsg:
		cmds = append(cmds, fetchSession(m.client), scheduleDashTick())

	case sessionMsg:
		m.lastErr = msg.err
		if msg.err == nil {
			m.view = msg.view
			m.loaded = true
			m.holdings.SetRows(holdingRows(currentPlayer(m.view.State)))
		}

	case advanceMsg:
		m.lastErr = msg.err
		cmds = append(cmds, fetchSession(m.client))
	}

	var tableCmd tea.Cmd
	m.holdings, tableCmd = m.holdings.Update(msg)
	cmds = append(cmds, tableCmd)

	return m, tea.Batch(cmds...)
}

func holdingRows(p game.Player) []table.Row {
	rows := make([]table.Row, 0, len(p.Assets))
	for _, a := range p.Assets {
		rows = append(rows, table.Row{
			truncate(a.Name, 26),
			string(a.Type),
			formatMicros(a.CurrentValueMicros),
			formatMicros(a.MonthlyIncomeMicros),
			string(a.Risk),
		})
	}
	return rows
}

func (m dashModel) View() string {
	if !m.loaded {
		if m.lastErr != nil {
			return dashBadStyle.Render("cannot reach server: "+m.lastErr.Error()) + "\n" +
				dashMuteStyle.Render("q quit  r retry")
		}
		return dashMuteStyle.Render("loading...")
	}

	state := m.view.State
	p := currentPlayer(state)
	fin := p.Finances

	title := dashTitleStyle.Render(fmt.Sprintf("RAT RACE  %s the %s  round %d/%d  market %s",
		p.Name, p.Profession.Title, state.CurrentRound, state.MaxRounds, state.MarketConditions.Trend))

	var sheet strings.Builder
	fmt.Fprintf(&sheet, "Cash       %s\n", dashSigned(fin.CashOnHandMicros))
	fmt.Fprintf(&sheet, "Salary     %s/mo\n", formatMicros(fin.MonthlyIncomeMicros))
	fmt.Fprintf(&sheet, "Passive    %s/mo\n", formatMicros(fin.PassiveIncomeMicros))
	fmt.Fprintf(&sheet, "Expenses   %s/mo\n", formatMicros(fin.MonthlyExpensesMicros))
	fmt.Fprintf(&sheet, "Cash flow  %s/mo\n", dashSigned(fin.TotalIncomeMicros-fin.MonthlyExpensesMicros))
	fmt.Fprintf(&sheet, "Net worth  %s", dashSigned(fin.NetWorthMicros))

	var status string
	switch {
	case state.Phase == game.PhaseCompleted && state.WinnerID != "":
		status = dashGoodStyle.Render("OUT OF THE RAT RACE")
	case state.Phase == game.PhaseCompleted:
		status = dashBadStyle.Render("GAME OVER")
	case p.IsFinancialFree:
		status = dashGoodStyle.Render("passive income covers expenses")
	default:
		gap := fin.MonthlyExpensesMicros - fin.PassiveIncomeMicros
		status = dashMuteStyle.Render(fmt.Sprintf("%s/mo passive income short of freedom", formatMicros(gap)))
	}

	extras := make([]string, 0, 2)
	if n := len(state.ActiveEvents); n > 0 {
		extras = append(extras, dashWarnStyle.Render(fmt.Sprintf("%d pending event(s)", n)))
	}
	if m.view.TransientError != "" {
		extras = append(extras, dashBadStyle.Render("rejected: "+m.view.TransientError))
	}
	if m.lastErr != nil {
		extras = append(extras, dashBadStyle.Render("error: "+m.lastErr.Error()))
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		dashPanelStyle.Render(sheet.String()),
		status,
		dashPanelStyle.Render(m.holdings.View()),
	)
	if len(extras) > 0 {
		body = lipgloss.JoinVertical(lipgloss.Left, body, strings.Join(extras, "\n"))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		body,
		dashMuteStyle.Render("a advance round  r refresh  q quit"),
	)
}

func dashSigned(v int64) string {
	text := signedMicros(v)
	switch {
	case v > 0:
		return dashGoodStyle.Render(text)
	case v < 0:
		return dashBadStyle.Render(text)
	default:
		return dashMuteStyle.Render(text)
	}
}
