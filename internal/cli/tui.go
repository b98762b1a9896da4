package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/kfmtool/pkg/kfm"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ClipListModel - Interactive anim browser
// =============================================================================

// ClipListModel is the bubbletea model for browsing the anims of an asset.
// The selected anim's transitions are listed below the anim list.
type ClipListModel struct {
	Title  string
	Clips  []kfm.Clip
	Cursor int
	Height int
	Offset int

	// paths maps anim ids to their paths for labelling transitions.
	paths map[uint32]string
}

// NewClipListModel creates a new anim browser over g.
func NewClipListModel(title string, g kfm.Graph) ClipListModel {
	paths := make(map[uint32]string, len(g.Clips))
	for _, c := range g.Clips {
		paths[c.ID] = c.Path
	}
	return ClipListModel{
		Title:  title,
		Clips:  g.Clips,
		Height: 10,
		paths:  paths,
	}
}

func (m ClipListModel) Init() tea.Cmd {
	return nil
}

func (m ClipListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Clips)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if n := len(m.Clips); n > 0 {
				m.Cursor = n - 1
				m.Offset = max(0, n-m.Height)
			}
		}
	case tea.WindowSizeMsg:
		// Half the screen for the list, the rest for transitions.
		m.Height = max(5, msg.Height/2-4)
	}
	return m, nil
}

func (m ClipListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	if len(m.Clips) == 0 {
		b.WriteString(listDimStyle.Render("  no anims"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Clips))
	for i := m.Offset; i < end; i++ {
		c := m.Clips[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%4d  %s", cursor, c.ID, c.Path)
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Clips))))
	b.WriteString("\n\n")

	b.WriteString(m.edgeView(m.Clips[m.Cursor]))
	return b.String()
}

// edgeView lists the transitions of c.
func (m ClipListModel) edgeView(c kfm.Clip) string {
	var b strings.Builder
	b.WriteString(StyleHighlight.Render(fmt.Sprintf("trans from %d", c.ID)))
	b.WriteString("\n")
	if len(c.Edges) == 0 {
		b.WriteString(listDimStyle.Render("  none"))
		b.WriteString("\n")
		return b.String()
	}
	for _, e := range c.Edges {
		target, ok := m.paths[e.Target]
		if !ok {
			target = StyleWarning.Render("missing")
		}
		line := fmt.Sprintf("  %s %4d  %-18s %s", iconArrow, e.Target, e.Kind, listDimStyle.Render(target))
		if e.Ext != nil {
			line += listDimStyle.Render(fmt.Sprintf("  %gs", e.Ext.Duration))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
