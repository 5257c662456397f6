package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kwacihq/grow/internal/core"
	"github.com/spf13/cobra"
)

// Dashboard panel indices.
const (
	panelPlans = iota
	panelSales
	panelAlerts
	panelCount
)

type dashboardModel struct {
	activePanel int
	width       int
	height      int

	// Data.
	planCounts map[string]int
	taskCounts map[string]int
	salesData  *salesSnapshot
	alerts     []alertSnapshot

	// State.
	loading bool
	err     error
}

type salesSnapshot struct {
	saleCount int
	revenue   string
	expenses  string
}

type alertSnapshot struct {
	severity string
	message  string
	time     string
}

// dataLoadedMsg carries loaded data back to the model.
type dataLoadedMsg struct {
	planCounts map[string]int
	taskCounts map[string]int
	sales      *salesSnapshot
	alerts     []alertSnapshot
	err        error
}

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("29")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("29")).
				Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("29")).
			MarginBottom(1)

	statusInProgress = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	statusDone       = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	statusBlocked    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusNotStarted = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusCancelled  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	severityHigh   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	severityMedium = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	severityLow    = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newDashboardModel() dashboardModel {
	return dashboardModel{
		activePanel: panelPlans,
		loading:     true,
		planCounts:  make(map[string]int),
		taskCounts:  make(map[string]int),
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return loadData
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activePanel = (m.activePanel + 1) % panelCount
			return m, nil
		case "shift+tab":
			m.activePanel = (m.activePanel - 1 + panelCount) % panelCount
			return m, nil
		case "r":
			m.loading = true
			return m, loadData
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dataLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.planCounts = msg.planCounts
		m.taskCounts = msg.taskCounts
		m.salesData = msg.sales
		m.alerts = msg.alerts
		m.err = nil
		return m, nil
	}

	return m, nil
}

func (m dashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render(" KWACI Grow ")
	help := helpStyle.Render("tab: switch panel | r: refresh | q: quit")

	if m.loading {
		return fmt.Sprintf("%s\n\n  Loading data...\n\n%s", title, help)
	}

	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	plansPanel := m.renderPlansPanel()
	salesPanel := m.renderSalesPanel()
	alertsPanel := m.renderAlertsPanel()

	// Available width for panels after accounting for margins.
	availableWidth := m.width - 2

	var body string
	if availableWidth > 120 {
		// Horizontal layout: three columns.
		colWidth := availableWidth / 3
		plansPanel = m.applyPanelStyle(panelPlans, plansPanel, colWidth-4)
		salesPanel = m.applyPanelStyle(panelSales, salesPanel, colWidth-4)
		alertsPanel = m.applyPanelStyle(panelAlerts, alertsPanel, colWidth-4)
		body = lipgloss.JoinHorizontal(lipgloss.Top, plansPanel, salesPanel, alertsPanel)
	} else {
		// Vertical layout: stacked.
		panelWidth := availableWidth - 4
		if panelWidth < 20 {
			panelWidth = 20
		}
		plansPanel = m.applyPanelStyle(panelPlans, plansPanel, panelWidth)
		salesPanel = m.applyPanelStyle(panelSales, salesPanel, panelWidth)
		alertsPanel = m.applyPanelStyle(panelAlerts, alertsPanel, panelWidth)
		body = lipgloss.JoinVertical(lipgloss.Left, plansPanel, salesPanel, alertsPanel)
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, help)
}

func (m dashboardModel) applyPanelStyle(panel int, content string, width int) string {
	style := panelStyle
	if m.activePanel == panel {
		style = activePanelStyle
	}
	return style.Width(width).Render(content)
}

func (m dashboardModel) renderPlansPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Plans"))
	b.WriteString("\n")

	if len(m.planCounts) == 0 {
		b.WriteString("  No plans found.")
		return b.String()
	}

	planOrder := []string{"active", "draft", "completed", "cancelled"}
	for _, status := range planOrder {
		count, ok := m.planCounts[status]
		if !ok || count == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("  %-14s %d\n", status, count))
	}

	if len(m.taskCounts) > 0 {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render("Tasks"))
		b.WriteString("\n")
		taskOrder := []string{"in_progress", "blocked", "not_started", "done", "cancelled"}
		for _, status := range taskOrder {
			count, ok := m.taskCounts[status]
			if !ok || count == 0 {
				continue
			}
			label := fmt.Sprintf("  %-14s %d", status, count)
			b.WriteString(styleForStatus(status).Render(label))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m dashboardModel) renderSalesPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Money (7d)"))
	b.WriteString("\n")

	if m.salesData == nil {
		b.WriteString("  No sales data available.")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("  %-16s %d\n", "Sales", m.salesData.saleCount))
	b.WriteString(fmt.Sprintf("  %-16s %s %s\n", "Revenue", Currency, m.salesData.revenue))
	b.WriteString(fmt.Sprintf("  %-16s %s %s\n", "Monthly expenses", Currency, m.salesData.expenses))

	return b.String()
}

func (m dashboardModel) renderAlertsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Alerts"))
	b.WriteString("\n")

	if len(m.alerts) == 0 {
		b.WriteString("  No active alerts.")
		return b.String()
	}

	for _, a := range m.alerts {
		sev := styleForSeverity(a.severity).Render(fmt.Sprintf("[%s]", strings.ToUpper(a.severity)))
		b.WriteString(fmt.Sprintf("  %s %s\n", sev, a.message))
	}

	b.WriteString(fmt.Sprintf("\n  Total: %d alert(s)", len(m.alerts)))

	return b.String()
}

func styleForStatus(status string) lipgloss.Style {
	switch status {
	case "in_progress":
		return statusInProgress
	case "done":
		return statusDone
	case "blocked":
		return statusBlocked
	case "not_started":
		return statusNotStarted
	case "cancelled":
		return statusCancelled
	default:
		return lipgloss.NewStyle()
	}
}

func styleForSeverity(severity string) lipgloss.Style {
	switch strings.ToLower(severity) {
	case "high":
		return severityHigh
	case "medium":
		return severityMedium
	case "low":
		return severityLow
	default:
		return lipgloss.NewStyle()
	}
}

func loadData() tea.Msg {
	result := dataLoadedMsg{
		planCounts: make(map[string]int),
		taskCounts: make(map[string]int),
	}

	// Plan and task counts from PlanMgr.
	if PlanMgr != nil {
		plans, err := PlanMgr.ListPlans()
		if err != nil {
			result.err = fmt.Errorf("loading plans: %w", err)
			return result
		}
		for _, p := range plans {
			result.planCounts[string(p.Status)]++
			detail, err := PlanMgr.GetPlanDetail(p.ID)
			if err != nil {
				result.err = fmt.Errorf("loading plan %s: %w", p.ID, err)
				return result
			}
			for _, t := range detail.Tasks {
				result.taskCounts[string(t.Status)]++
			}
		}
	}

	// Revenue and expense figures.
	if SalesMgr != nil {
		summary, err := SalesMgr.Summarize(core.SalesFilter{
			From: time.Now().UTC().AddDate(0, 0, -7),
		})
		if err != nil {
			result.err = fmt.Errorf("loading sales: %w", err)
			return result
		}
		snapshot := &salesSnapshot{
			saleCount: summary.SaleCount,
			revenue:   summary.TotalRevenue.StringFixed(2),
			expenses:  "0.00",
		}
		if ExpenseMgr != nil {
			report, err := ExpenseMgr.MonthlyReport()
			if err != nil {
				result.err = fmt.Errorf("loading expenses: %w", err)
				return result
			}
			snapshot.expenses = report.Total.StringFixed(2)
		}
		result.sales = snapshot
	}

	// Alerts from AlertEngine.
	if AlertEngine != nil {
		alerts, err := AlertEngine.Evaluate()
		if err != nil {
			result.err = fmt.Errorf("loading alerts: %w", err)
			return result
		}
		result.alerts = make([]alertSnapshot, 0, len(alerts))

		// Sort alerts by severity: high first, then medium, then low.
		sort.Slice(alerts, func(i, j int) bool {
			return severityRank(string(alerts[i].Severity)) < severityRank(string(alerts[j].Severity))
		})

		for _, a := range alerts {
			result.alerts = append(result.alerts, alertSnapshot{
				severity: string(a.Severity),
				message:  a.Message,
				time:     a.TriggeredAt.Format("2006-01-02 15:04 UTC"),
			})
		}
	}

	return result
}

func severityRank(s string) int {
	switch s {
	case "high":
		return 0
	case "medium":
		return 1
	case "low":
		return 2
	default:
		return 3
	}
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive TUI dashboard for plans, sales, and alerts",
	Long: `Launch an interactive terminal dashboard showing plan and task status,
recent sales figures, and active alerts.

Navigate between panels with Tab, refresh with r, quit with q.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if PlanMgr == nil {
			return fmt.Errorf("plan manager not initialized")
		}
		p := tea.NewProgram(newDashboardModel(), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
