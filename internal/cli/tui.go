package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/mindgraft/pkg/errors"
	"github.com/matzehuels/mindgraft/pkg/graph"
	"github.com/matzehuels/mindgraft/pkg/layout"
	"github.com/matzehuels/mindgraft/pkg/session"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorText)
	listManualStyle   = lipgloss.NewStyle().Foreground(colorManual)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorMuted)

	detailBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
)

// =============================================================================
// MapModel - Interactive mind-map browser
// =============================================================================

// mapRow is one visible line of the outline.
type mapRow struct {
	ID    string
	Depth int
}

// MapModel is the bubbletea model for browsing and grafting a mind map.
// It renders the graph as an outline: roots first, children indented in
// edge order.
type MapModel struct {
	Session *session.Session
	Layout  layout.Options
	Save    func(graph.Graph) error

	Rows   []mapRow
	Cursor int
	Height int
	Offset int
	Status string
	Dirty  bool
}

// NewMapModel creates a model over the session's graph. 'r' relayouts with
// opts.
func NewMapModel(s *session.Session, opts layout.Options, save func(graph.Graph) error) MapModel {
	m := MapModel{
		Session: s,
		Layout:  opts,
		Save:    save,
		Height:  20,
	}
	m.refresh()
	return m
}

func (m MapModel) Init() tea.Cmd {
	return nil
}

func (m MapModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.Status = ""
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.Session.CloseDetail()
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
			if id, ok := m.current(); ok {
				if m.Session.State().Selected == id {
					m.Session.CloseDetail()
				} else if err := m.Session.Select(id); err != nil {
					m.Status = errors.UserMessage(err)
				}
			}
		case "a":
			m.graft()
		case "r":
			m.relayout()
		case "w":
			m.save()
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 12
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// graft adds a manual child under the cursor and moves the cursor onto it.
func (m *MapModel) graft() {
	id, ok := m.current()
	if !ok {
		return
	}
	if n, found := m.Session.Store().Node(id); !found || !n.Kind.Extensible() {
		return
	}
	node, _, err := m.Session.Store().AddChild(id)
	if err != nil {
		m.Status = errors.UserMessage(err)
		return
	}
	m.Dirty = true
	m.refresh()
	for i, r := range m.Rows {
		if r.ID == node.ID {
			m.Cursor = i
			break
		}
	}
	m.clampOffset()
	m.Status = "Added " + node.Data.Label
}

func (m *MapModel) relayout() {
	if err := m.Session.Store().Relayout(m.Layout); err != nil {
		m.Status = errors.UserMessage(err)
		return
	}
	m.Dirty = true
	m.Status = "Layout recomputed"
}

func (m *MapModel) save() {
	if m.Save == nil {
		return
	}
	if err := m.Save(m.Session.Store().Snapshot()); err != nil {
		m.Status = "Save failed: " + err.Error()
		return
	}
	m.Dirty = false
	m.Status = "Saved"
}

func (m MapModel) current() (string, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Rows) {
		return "", false
	}
	return m.Rows[m.Cursor].ID, true
}

func (m *MapModel) refresh() {
	m.Rows = outline(m.Session.Store().Snapshot())
	if m.Cursor >= len(m.Rows) {
		m.Cursor = max(len(m.Rows)-1, 0)
	}
}

func (m *MapModel) clampOffset() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m MapModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Mind Map"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ detail  a add child  r relayout  w save  q quit"))
	b.WriteString("\n\n")

	if len(m.Rows) == 0 {
		b.WriteString(listDimStyle.Render("  (empty)"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Rows))
	store := m.Session.Store()
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		n, _ := store.Node(r.ID)

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := cursor + strings.Repeat("  ", r.Depth) + n.DisplayLabel()

		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case n.Manual:
			b.WriteString(listManualStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	nodes, edges := store.Len()
	dirty := ""
	if m.Dirty {
		dirty = "  modified"
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d nodes · %d edges%s", m.Cursor+1, len(m.Rows), nodes, edges, dirty)))
	b.WriteString("\n")

	if data, ok := m.Session.Detail(); ok {
		b.WriteString("\n")
		b.WriteString(detailBoxStyle.Render(renderDetail(data)))
		b.WriteString("\n")
	}
	if m.Status != "" {
		b.WriteString("\n")
		b.WriteString(styleAccent.Render(m.Status))
		b.WriteString("\n")
	}

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// renderDetail formats the read-only detail view of a card.
func renderDetail(d graph.NodeData) string {
	var b strings.Builder
	b.WriteString(styleTitle.Render(d.Label))
	if d.Summary != "" {
		b.WriteString("\n\n")
		b.WriteString(d.Summary)
	}
	if d.ImageURL != "" {
		b.WriteString("\n\n")
		b.WriteString(styleLink.Render(d.ImageURL))
	}
	return b.String()
}

// outline orders nodes depth-first from the roots, following edges in
// their stored order. Nodes reachable only through a cycle are appended at
// depth 0 so every node appears exactly once.
func outline(g graph.Graph) []mapRow {
	children := make(map[string][]string, len(g.Nodes))
	hasParent := make(map[string]bool, len(g.Nodes))
	for _, e := range g.Edges {
		children[e.Source] = append(children[e.Source], e.Target)
		hasParent[e.Target] = true
	}

	rows := make([]mapRow, 0, len(g.Nodes))
	seen := make(map[string]bool, len(g.Nodes))
	visit := func(root string) {
		stack := []mapRow{{ID: root}}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if seen[top.ID] {
				continue
			}
			seen[top.ID] = true
			rows = append(rows, top)
			kids := children[top.ID]
			for i := len(kids) - 1; i >= 0; i-- {
				if !seen[kids[i]] {
					stack = append(stack, mapRow{ID: kids[i], Depth: top.Depth + 1})
				}
			}
		}
	}

	for _, n := range g.Nodes {
		if !hasParent[n.ID] {
			visit(n.ID)
		}
	}
	for _, n := range g.Nodes {
		if !seen[n.ID] {
			visit(n.ID)
		}
	}
	return rows
}
