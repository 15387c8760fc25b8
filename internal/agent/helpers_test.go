package agent

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/f3rmion/hoverword/internal/dom"
)

// fakeHost hands out one event channel per subscription and tracks how many
// listeners are installed.
type fakeHost struct {
	mu        sync.Mutex
	selection string
	active    int
	installed int
	current   chan Event
}

func (h *fakeHost) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event)
	h.active++
	h.installed++
	h.current = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			h.active--
			h.mu.Unlock()
		})
	}
}

func (h *fakeHost) SelectionText() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.selection
}

func (h *fakeHost) setSelection(s string) {
	h.mu.Lock()
	h.selection = s
	h.mu.Unlock()
}

func (h *fakeHost) counts() (active, installed int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active, h.installed
}

// send delivers ev to the latest subscription and returns once the receiver
// has taken it.
func (h *fakeHost) send(t *testing.T, ev Event) {
	t.Helper()

	h.mu.Lock()
	ch := h.current
	h.mu.Unlock()

	select {
	case ch <- ev:
	case <-time.After(2 * time.Second):
		t.Fatalf("event %v not received", ev.Kind)
	}
}

// recordingDispatcher stores every dispatched word.
type recordingDispatcher struct {
	mu    sync.Mutex
	words []string
}

func (d *recordingDispatcher) Dispatch(word string) {
	d.mu.Lock()
	d.words = append(d.words, word)
	d.mu.Unlock()
}

func (d *recordingDispatcher) Words() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.words...)
}

// lineDoc is a one-line document where x is the caret offset into text.
func lineDoc(text string) dom.Element {
	node := dom.Text(text)
	return dom.NewElement(dom.DocumentFunc(func(x, y float64) (dom.CaretPosition, bool) {
		if y != 0 || x < 0 {
			return dom.CaretPosition{}, false
		}
		return dom.CaretPosition{Node: node, Offset: int(x)}, true
	}))
}

func pointerAt(el dom.Element, x float64) Event {
	return Event{Kind: PointerMove, Target: el, X: x}
}

var errConnRefused = errors.New("connection refused")

// scriptedProber fails until `failures` attempts have been made.
type scriptedProber struct {
	mu       sync.Mutex
	failures int
	calls    int
}

func (p *scriptedProber) Ack(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.calls <= p.failures {
		return errConnRefused
	}
	return nil
}

func (p *scriptedProber) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
