package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/fractals/pkg/history"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// HistoryListModel - Interactive render history selection
// =============================================================================

// HistoryListModel is the bubbletea model for picking a past render.
type HistoryListModel struct {
	Records  []*history.Record
	Cursor   int
	Selected *history.Record
	Height   int
	Offset   int

	now func() time.Time
}

// NewHistoryListModel creates a new history list model.
func NewHistoryListModel(records []*history.Record) HistoryListModel {
	return HistoryListModel{
		Records: records,
		Height:  15,
		now:     time.Now,
	}
}

func (m HistoryListModel) Init() tea.Cmd {
	return nil
}

func (m HistoryListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Records)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Records) == 0 {
				return m, tea.Quit
			}
			m.Selected = m.Records[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m HistoryListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Render History"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ render again  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Records))

	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, append([]string{cursor}, m.recordRow(m.Records[i])...))
	}

	b.WriteString(historyTable(rows, func(row int) bool { return m.Offset+row == m.Cursor }).Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Records))))

	return b.String()
}

// recordRow returns the table cells for a record, without the cursor column.
func (m HistoryListModel) recordRow(rec *history.Record) []string {
	now := time.Now
	if m.now != nil {
		now = m.now
	}
	return historyRow(rec, now())
}

// historyTable builds the bordered table shared by "history list" and the
// picker. Rows carry a leading cursor column; current reports which row is
// highlighted.
func historyTable(rows [][]string, current func(row int) bool) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Fractal", "Size", "Format", "Created").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle()
			if col == 1 || col == 5 {
				base = base.Foreground(colorDim)
			}
			if current != nil && current(row) {
				return base.Foreground(colorGreen).Bold(true)
			}
			return base
		})
}

// =============================================================================
// Helpers
// =============================================================================

// shortID returns the first block of a UUID.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

func formatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
