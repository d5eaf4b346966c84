package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/codeviz/pkg/examples"
	"github.com/matzehuels/codeviz/pkg/extract"
	"github.com/matzehuels/codeviz/pkg/graph"
)

// List styles
var (
	listDimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// Example table
// =============================================================================

// exampleRow is one row of the examples table.
type exampleRow struct {
	example examples.Example
	stats   graph.Stats
}

func newExampleRows(list []examples.Example) []exampleRow {
	rows := make([]exampleRow, len(list))
	for i, ex := range list {
		rows[i] = exampleRow{example: ex, stats: extract.Parse(ex.Source).Stats()}
	}
	return rows
}

func (r exampleRow) cells(cursor string) []string {
	lines := strings.Count(r.example.Source, "\n") + 1
	return []string{
		cursor,
		r.example.Name,
		r.example.Slug,
		strconv.Itoa(lines),
		strconv.Itoa(r.stats.Nodes),
		strconv.Itoa(r.stats.Edges),
	}
}

var exampleHeaders = []string{"", "Example", "Slug", "Lines", "Nodes", "Edges"}

// exampleTable renders rows[from:to] with a rounded border. style is
// called for every body cell with the absolute row index.
func exampleTable(rows []exampleRow, from, to, cursor int, style func(idx, col int) lipgloss.Style) string {
	body := make([][]string, 0, to-from)
	for i := from; i < to; i++ {
		mark := "  "
		if i == cursor {
			mark = "▸ "
		}
		body = append(body, rows[i].cells(mark))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(exampleHeaders...).
		Rows(body...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			return style(from+row, col)
		})
	return t.Render()
}

// =============================================================================
// ExampleListModel - Interactive example selection
// =============================================================================

// ExampleListModel is the bubbletea model for interactive example selection.
type ExampleListModel struct {
	Rows     []exampleRow
	Cursor   int
	Selected *examples.Example
	Height   int
	Offset   int
}

// NewExampleListModel creates a new example list model.
func NewExampleListModel(list []examples.Example) ExampleListModel {
	return ExampleListModel{
		Rows:   newExampleRows(list),
		Height: 15,
	}
}

func (m ExampleListModel) Init() tea.Cmd {
	return nil
}

func (m ExampleListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Rows) == 0 {
				return m, nil
			}
			ex := m.Rows[m.Cursor].example
			m.Selected = &ex
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ExampleListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Example"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Rows))
	b.WriteString(exampleTable(m.Rows, m.Offset, end, m.Cursor, func(idx, col int) lipgloss.Style {
		base := lipgloss.NewStyle()
		if col >= 3 {
			base = base.Foreground(colorGray)
		}
		if idx == m.Cursor {
			if col < 3 {
				return base.Foreground(colorCyan).Bold(true)
			}
			return base.Bold(true)
		}
		return base
	}))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}
