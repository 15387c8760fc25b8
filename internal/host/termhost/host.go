// Package termhost attaches the lookup agent to a plain-text document shown
// in the terminal. Mouse motion over the text plays the role of the pointer
// and a left-button drag makes a selection.
package termhost

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/hoverword/internal/agent"
	"github.com/f3rmion/hoverword/internal/dom"
	"go.uber.org/zap"
)

const eventBuffer = 64

// Host shows a Document in the terminal. It implements agent.Host and
// agent.Observer; observer updates are shown in the status bar.
type Host struct {
	title  string
	doc    *Document
	target dom.Element
	logger *zap.Logger

	mu       sync.Mutex
	subs     map[int]chan agent.Event
	nextID   int
	closed   bool
	state    agent.State
	lastWord string
	lookups  int
	program  *tea.Program
}

var (
	_ agent.Host     = (*Host)(nil)
	_ agent.Observer = (*Host)(nil)
)

// New creates a host for doc. title is shown in the header.
func New(title string, doc *Document, logger *zap.Logger) *Host {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Host{
		title:  title,
		doc:    doc,
		target: dom.NewElement(doc),
		logger: logger,
		subs:   make(map[int]chan agent.Event),
	}
}

// Run shows the document until the user quits or ctx is done. Subscriptions
// are closed when it returns.
func (h *Host) Run(ctx context.Context, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	}, opts...)
	p := tea.NewProgram(newModel(h), opts...)

	h.mu.Lock()
	h.program = p
	h.mu.Unlock()

	defer h.closeSubscribers()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Subscribe starts forwarding mouse and selection events.
func (h *Host) Subscribe() (<-chan agent.Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan agent.Event, eventBuffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	id := h.nextID
	h.nextID++
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if c, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(c)
			}
		})
	}
}

// SelectionText returns the selected text.
func (h *Host) SelectionText() string {
	return h.doc.SelectionText()
}

// StateChanged records the agent state for the status bar.
func (h *Host) StateChanged(s agent.State) {
	h.mu.Lock()
	h.state = s
	h.mu.Unlock()
	h.refresh()
}

// WordDispatched records the last looked-up word for the status bar.
func (h *Host) WordDispatched(word string) {
	h.mu.Lock()
	h.lastWord = word
	h.lookups++
	h.mu.Unlock()
	h.refresh()
}

type refreshMsg struct{}

func (h *Host) refresh() {
	h.mu.Lock()
	p := h.program
	h.mu.Unlock()
	if p != nil {
		p.Send(refreshMsg{})
	}
}

// status is a snapshot of what the status bar shows.
type status struct {
	state    agent.State
	lastWord string
	lookups  int
}

func (h *Host) status() status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return status{state: h.state, lastWord: h.lastWord, lookups: h.lookups}
}

// publish hands ev to every subscriber without blocking the UI.
func (h *Host) publish(ev agent.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
			h.logger.Debug("event dropped, subscriber busy", zap.Stringer("kind", ev.Kind))
		}
	}
}

func (h *Host) closeSubscribers() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		close(ch)
		delete(h.subs, id)
	}
}
