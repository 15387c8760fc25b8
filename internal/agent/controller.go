package agent

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/f3rmion/hoverword/internal/resolve"
	"github.com/f3rmion/hoverword/internal/token"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// ErrHostClosed is returned by Run when the host's event stream ends.
var ErrHostClosed = errors.New("host event stream closed")

// Controller owns the per-document session state and decides when a lookup
// is sent. All methods must be called from a single goroutine; Run is that
// goroutine when the controller is driven by a host.
type Controller struct {
	host       Host
	dispatcher Dispatcher
	resolver   resolve.Resolver
	clock      clockwork.Clock
	logger     *zap.Logger
	observer   Observer
	debounce   time.Duration
	emptySel   EmptySelectionPolicy

	lastWord     string
	selectedWord string

	// Debounce timer for selection changes. gen identifies the most recently
	// scheduled timer; fires carrying an older gen are ignored.
	timer   clockwork.Timer
	gen     uint64
	settled chan uint64
	stop    chan struct{}
}

// NewController creates a controller for host. Zero options take defaults.
func NewController(host Host, dispatcher Dispatcher, opts Options) *Controller {
	opts = opts.withDefaults()

	return &Controller{
		host:       host,
		dispatcher: dispatcher,
		resolver:   opts.Resolver,
		clock:      opts.Clock,
		logger:     opts.Logger,
		observer:   opts.Observer,
		debounce:   opts.Debounce,
		emptySel:   opts.EmptySelection,
		settled:    make(chan uint64, 1),
		stop:       make(chan struct{}),
	}
}

// LastWord returns the most recently dispatched word.
func (c *Controller) LastWord() string { return c.lastWord }

// SelectedWord returns the settled selection, empty when nothing is selected.
func (c *Controller) SelectedWord() string { return c.selectedWord }

// Run handles events until ctx is done or the channel is closed. Timer fires
// are delivered on the same goroutine, so session state is never shared.
func (c *Controller) Run(ctx context.Context, events <-chan Event) error {
	defer close(c.stop)
	defer c.cancelTimer()

	for {
		select {
		case <-ctx.Done():
			return nil
		case gen := <-c.settled:
			c.handleSettled(gen)
		case ev, ok := <-events:
			if !ok {
				return ErrHostClosed
			}
			c.Handle(ev)
		}
	}
}

// Handle routes a single event to its channel handler.
func (c *Controller) Handle(ev Event) {
	switch ev.Kind {
	case PointerMove:
		c.HandlePointerMove(ev)
	case SelectionChange:
		c.HandleSelectionChange()
	default:
		c.logger.Debug("ignoring event", zap.Stringer("kind", ev.Kind))
	}
}

// HandlePointerMove looks up the word under the pointer. An active selection
// suppresses pointer lookups entirely.
func (c *Controller) HandlePointerMove(ev Event) {
	if c.selectedWord != "" {
		return
	}

	word, ok := c.resolver.Resolve(ev.Target, ev.X, ev.Y)
	if !ok || word == c.lastWord || !token.HasWordChar(word) {
		return
	}

	c.dispatch(word)
}

// HandleSelectionChange restarts the debounce timer. Only the selection that
// is still current when the timer fires is looked up.
func (c *Controller) HandleSelectionChange() {
	c.cancelTimer()

	c.gen++
	gen := c.gen
	c.timer = c.clock.AfterFunc(c.debounce, func() {
		select {
		case c.settled <- gen:
		case <-c.stop:
		}
	})
}

func (c *Controller) handleSettled(gen uint64) {
	if gen != c.gen || c.timer == nil {
		return
	}
	c.timer = nil

	c.selectedWord = strings.TrimSpace(c.host.SelectionText())
	if c.selectedWord == "" && c.emptySel == SuppressEmpty {
		return
	}

	c.dispatch(c.selectedWord)
}

func (c *Controller) cancelTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) dispatch(word string) {
	c.lastWord = word
	c.logger.Debug("dispatching lookup", zap.String("word", word))
	c.dispatcher.Dispatch(word)
	if c.observer != nil {
		c.observer.WordDispatched(word)
	}
}
