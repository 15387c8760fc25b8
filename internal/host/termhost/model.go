package termhost

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/hoverword/internal/agent"
	"github.com/mattn/go-runewidth"
)

const (
	headerRows = 1 // Title bar
	footerRows = 1 // Status bar
	leftPad    = 1 // Blank column left of the text
	wheelStep  = 3
)

type keyMap struct {
	Quit     key.Binding
	Clear    key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Clear:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear selection")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", " ", "f"), key.WithHelp("pgdn", "page down")),
	}
}

// model renders the document and turns mouse input into agent events.
type model struct {
	host *Host
	keys keyMap

	width  int
	height int

	dragging  bool
	dragX     int // Drag start, in text-area cells
	dragY     int
	dragMoved bool
}

func newModel(h *Host) model {
	return model{host: h, keys: defaultKeyMap()}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.host.doc.SetHeight(msg.Height - headerRows - footerRows)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Clear):
			m.clearSelection()
		case key.Matches(msg, m.keys.Up):
			m.host.doc.Scroll(-1)
		case key.Matches(msg, m.keys.Down):
			m.host.doc.Scroll(1)
		case key.Matches(msg, m.keys.PageUp):
			m.host.doc.Scroll(-m.textRows())
		case key.Matches(msg, m.keys.PageDown):
			m.host.doc.Scroll(m.textRows())
		}

	case tea.MouseMsg:
		m = m.handleMouse(msg)

	case refreshMsg:
		// Status changed; re-render.
	}

	return m, nil
}

func (m model) handleMouse(msg tea.MouseMsg) model {
	x, y := msg.X-leftPad, msg.Y-headerRows
	doc := m.host.doc

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		doc.Scroll(-wheelStep)

	case msg.Button == tea.MouseButtonWheelDown:
		doc.Scroll(wheelStep)

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.dragging = true
		m.dragMoved = false
		m.dragX, m.dragY = x, y

	case msg.Action == tea.MouseActionMotion && msg.Button == tea.MouseButtonLeft && m.dragging:
		m.dragMoved = true
		if doc.Select(m.dragX, m.dragY, x, y) {
			m.host.publish(agent.Event{Kind: agent.SelectionChange})
		}

	case msg.Action == tea.MouseActionRelease:
		if m.dragging && !m.dragMoved {
			m.clearSelection()
		}
		m.dragging = false

	case msg.Action == tea.MouseActionMotion:
		m.host.publish(agent.Event{
			Kind:   agent.PointerMove,
			Target: m.host.target,
			X:      float64(x),
			Y:      float64(y),
		})
	}

	return m
}

func (m model) clearSelection() {
	if m.host.doc.ClearSelection() {
		m.host.publish(agent.Event{Kind: agent.SelectionChange})
	}
}

func (m model) textRows() int {
	return max(1, m.height-headerRows-footerRows)
}

func (m model) View() string {
	if m.width == 0 {
		return ""
	}

	var b strings.Builder

	const help = " drag to select, esc clears, q quits"
	title := runewidth.Truncate(m.host.title, max(0, m.width-2), "…")
	header := TitleStyle.Render(title)
	if rest := m.width - lipgloss.Width(header); rest > 0 {
		header += HelpStyle.Render(runewidth.Truncate(help, rest, ""))
	}
	b.WriteString(header)
	b.WriteString("\n")

	rows := m.host.doc.visible()
	textWidth := max(0, m.width-leftPad)
	for i := 0; i < m.textRows(); i++ {
		b.WriteString(strings.Repeat(" ", leftPad))
		if i < len(rows) {
			b.WriteString(renderRow(rows[i], textWidth))
		}
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatus())
	return b.String()
}

// renderRow truncates a row to width cells and highlights its selected part.
func renderRow(row visibleLine, width int) string {
	var out strings.Builder
	remaining := width

	for _, part := range []struct {
		text  string
		style lipgloss.Style
	}{
		{row.before, TextStyle},
		{row.selected, SelectionStyle},
		{row.after, TextStyle},
	} {
		if part.text == "" || remaining <= 0 {
			continue
		}
		text := runewidth.Truncate(part.text, remaining, "")
		remaining -= runewidth.StringWidth(text)
		out.WriteString(part.style.Render(text))
	}
	return out.String()
}

func (m model) renderStatus() string {
	st := m.host.status()

	state := st.state.String()
	if st.state == agent.StateActive {
		state = StatusActiveStyle.Render("● " + state)
	}

	line := state
	if st.lookups > 0 {
		line += fmt.Sprintf("  lookups: %d  last: ", st.lookups) + StatusWordStyle.Render(fmt.Sprintf("%q", st.lastWord))
	}
	return StatusBarStyle.Width(m.width).Render(line)
}
