package termhost

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/hoverword/internal/agent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(ch <-chan agent.Event) []agent.Event {
	var out []agent.Event
	for {
		select {
		case ev := <-ch:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func sized(t *testing.T, h *Host) model {
	t.Helper()
	next, _ := newModel(h).Update(tea.WindowSizeMsg{Width: 80, Height: 12})
	return next.(model)
}

func mouse(m model, x, y int, action tea.MouseAction, button tea.MouseButton) model {
	next, _ := m.Update(tea.MouseMsg{X: x, Y: y, Action: action, Button: button})
	return next.(model)
}

func TestModelPointerMove(t *testing.T) {
	h := New("sample", NewDocument(sample), nil)
	events, cancel := h.Subscribe()
	defer cancel()

	m := sized(t, h)
	mouse(m, 5, 1, tea.MouseActionMotion, tea.MouseButtonNone)

	got := drain(events)
	require.Len(t, got, 1)
	assert.Equal(t, agent.PointerMove, got[0].Kind)
	assert.Equal(t, 4.0, got[0].X, "left padding removed")
	assert.Equal(t, 0.0, got[0].Y, "header removed")
	assert.NotNil(t, got[0].Target)
}

func TestModelDragSelects(t *testing.T) {
	h := New("sample", NewDocument(sample), nil)
	events, cancel := h.Subscribe()
	defer cancel()

	m := sized(t, h)
	m = mouse(m, 5, 1, tea.MouseActionPress, tea.MouseButtonLeft)
	m = mouse(m, 8, 1, tea.MouseActionMotion, tea.MouseButtonLeft)
	m = mouse(m, 11, 1, tea.MouseActionMotion, tea.MouseButtonLeft)
	m = mouse(m, 11, 1, tea.MouseActionRelease, tea.MouseButtonNone)

	got := drain(events)
	require.Len(t, got, 2)
	for _, ev := range got {
		assert.Equal(t, agent.SelectionChange, ev.Kind)
	}
	assert.Equal(t, "cat-sat", h.SelectionText())

	// A click without dragging clears the selection.
	m = mouse(m, 2, 2, tea.MouseActionPress, tea.MouseButtonLeft)
	mouse(m, 2, 2, tea.MouseActionRelease, tea.MouseButtonNone)

	got = drain(events)
	require.Len(t, got, 1)
	assert.Equal(t, agent.SelectionChange, got[0].Kind)
	assert.Empty(t, h.SelectionText())
}

func TestModelQuitAndClear(t *testing.T) {
	h := New("sample", NewDocument(sample), nil)
	events, cancel := h.Subscribe()
	defer cancel()

	m := sized(t, h)
	h.doc.Select(0, 0, 2, 0)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.Len(t, drain(events), 1)
	assert.Empty(t, h.SelectionText())

	_, cmd = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModelView(t *testing.T) {
	h := New("sample", NewDocument(sample), nil)
	h.StateChanged(agent.StateActive)
	h.WordDispatched("cat-sat")

	view := sized(t, h).View()
	assert.Contains(t, view, "sample")
	assert.Contains(t, view, "cat-sat")
	assert.Contains(t, view, "indented line")
	assert.Contains(t, view, "lookups: 1")
}

func TestSubscribeAfterClose(t *testing.T) {
	h := New("sample", NewDocument(sample), nil)
	events, _ := h.Subscribe()
	h.closeSubscribers()

	_, ok := <-events
	assert.False(t, ok)

	late, cancel := h.Subscribe()
	defer cancel()
	_, ok = <-late
	assert.False(t, ok)
}
