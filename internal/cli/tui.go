package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ifuentes/raceway/pkg/engine"
	"github.com/ifuentes/raceway/pkg/fill"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ResultListModel - Interactive fill result browser
// =============================================================================

// ResultListModel is the bubbletea model for browsing per-segment fill
// results. Up/down moves the cursor; the detail pane follows it.
type ResultListModel struct {
	Result  *engine.Result
	EdgeIDs []string
	Cursor  int
	Height  int
	Offset  int
}

// NewResultListModel creates a result browser over the evaluated segments,
// sorted by edge id.
func NewResultListModel(result *engine.Result) ResultListModel {
	ids := make([]string, 0, len(result.Fill))
	for id := range result.Fill {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ResultListModel{
		Result:  result,
		EdgeIDs: ids,
		Height:  15,
	}
}

func (m ResultListModel) Init() tea.Cmd {
	return nil
}

func (m ResultListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.EdgeIDs)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ResultListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Fill results"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.EdgeIDs) {
		end = len(m.EdgeIDs)
	}

	for i := m.Offset; i < end; i++ {
		id := m.EdgeIDs[i]
		res := m.Result.Fill[id]

		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}

		line := fmt.Sprintf("%-12s", id)
		if res != nil {
			line = fmt.Sprintf("%-12s %6.1f%% %s", id, res.FillPct, bandStyle(res.Band).Render(string(res.Band)))
		}
		b.WriteString(cursor + style.Render(line))
		b.WriteString("\n")
	}

	if m.Cursor < len(m.EdgeIDs) {
		if res := m.Result.Fill[m.EdgeIDs[m.Cursor]]; res != nil {
			b.WriteString("\n")
			b.WriteString(renderResultDetail(res, m.Result.EdgeCircuits[res.EdgeID]))
		}
	}

	return b.String()
}

// renderResultDetail renders the detail pane for one segment.
func renderResultDetail(res *fill.Result, circuits []string) string {
	var b strings.Builder
	b.WriteString(listDimStyle.Render(fmt.Sprintf("kind %s · qty %d · conductors %d", res.Kind, res.Quantity, res.ConductorCount)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("load %.1f mm² / usable %.1f mm²", res.LoadAreaMM2, res.UsableAreaMM2)))
	b.WriteString("\n")
	if res.MaterialLabel != "" {
		b.WriteString(listDimStyle.Render("material " + res.MaterialLabel))
		b.WriteString("\n")
	}
	if len(circuits) > 0 {
		b.WriteString(listDimStyle.Render("circuits " + strings.Join(circuits, ", ")))
		b.WriteString("\n")
	}
	return b.String()
}
