// Package rodhost attaches the lookup agent to a live browser page over the
// Chrome DevTools Protocol. Pointer and selection events are forwarded from
// an injected page script; caret lookups and selection reads are evaluated
// in the page on demand.
package rodhost

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/f3rmion/hoverword/internal/agent"
	"github.com/f3rmion/hoverword/internal/dom"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
	"go.uber.org/zap"
)

const (
	evalTimeout = 2 * time.Second
	eventBuffer = 64
)

// Config holds browser connection settings.
type Config struct {
	Headless   bool
	Bin        string // Chrome binary, empty to let rod find or download one
	ControlURL string // DevTools WebSocket URL of a running browser
}

// Host is a browser page the agent can subscribe to. It implements
// agent.Host and dom.Document.
type Host struct {
	cfg    Config
	logger *zap.Logger

	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	ctx      context.Context

	mu     sync.Mutex
	subs   map[int]chan agent.Event
	nextID int
	closed bool
}

var (
	_ agent.Host   = (*Host)(nil)
	_ dom.Document = (*Host)(nil)
)

// Open connects to (or launches) a browser, installs the page bridge and
// navigates to url.
func Open(ctx context.Context, cfg Config, url string, logger *zap.Logger) (*Host, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &Host{
		cfg:    cfg,
		logger: logger,
		ctx:    ctx,
		subs:   make(map[int]chan agent.Event),
	}

	controlURL := cfg.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(cfg.Headless)
		if cfg.Bin != "" {
			l = l.Bin(cfg.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
		h.launcher = l
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		h.cleanupLauncher()
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	h.browser = browser

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		h.Close()
		return nil, fmt.Errorf("create page: %w", err)
	}
	h.page = page

	if _, err := page.Expose(bindingName, h.onBridgeMessage); err != nil {
		h.Close()
		return nil, fmt.Errorf("expose event binding: %w", err)
	}
	if _, err := page.EvalOnNewDocument("(" + bridgeJS + ")()"); err != nil {
		h.Close()
		return nil, fmt.Errorf("install page bridge: %w", err)
	}

	go h.watchTarget()

	if err := page.Navigate(url); err != nil {
		h.Close()
		return nil, fmt.Errorf("navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		logger.Debug("page load wait failed", zap.String("url", url), zap.Error(err))
	}

	logger.Info("page opened", zap.String("url", url))
	return h, nil
}

// Close closes the browser (or the page, when attached to an existing
// browser) and ends every subscription.
func (h *Host) Close() error {
	h.closeSubscribers()

	var err error
	if h.launcher != nil {
		if h.browser != nil {
			err = h.browser.Close()
		}
		h.cleanupLauncher()
	} else if h.page != nil {
		err = h.page.Close()
	}
	return err
}

func (h *Host) cleanupLauncher() {
	if h.launcher != nil {
		h.launcher.Kill()
		h.launcher.Cleanup()
	}
}

// Subscribe starts forwarding pointer and selection events from the page.
func (h *Host) Subscribe() (<-chan agent.Event, func()) {
	h.mu.Lock()
	ch := make(chan agent.Event, eventBuffer)
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	first := len(h.subs) == 1
	h.mu.Unlock()

	if first {
		h.setListening(true)
	}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			if c, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(c)
			}
			last := len(h.subs) == 0 && !h.closed
			h.mu.Unlock()

			if last {
				h.setListening(false)
			}
		})
	}
}

// SelectionText returns the page's current selection.
func (h *Host) SelectionText() string {
	res, err := h.eval(selectionJS)
	if err != nil {
		h.logger.Debug("reading selection failed", zap.Error(err))
		return ""
	}
	return res.Value.Str()
}

// CaretPositionFromPoint resolves a viewport point in the page.
func (h *Host) CaretPositionFromPoint(x, y float64) (dom.CaretPosition, bool) {
	res, err := h.eval(caretJS, x, y)
	if err != nil {
		h.logger.Debug("caret lookup failed", zap.Float64("x", x), zap.Float64("y", y), zap.Error(err))
		return dom.CaretPosition{}, false
	}
	return parseCaret(res.Value)
}

// OwnerDocument makes the host its own event target.
func (h *Host) OwnerDocument() dom.Document {
	return h
}

func (h *Host) eval(js string, args ...interface{}) (*proto.RuntimeRemoteObject, error) {
	ctx, cancel := context.WithTimeout(h.ctx, evalTimeout)
	defer cancel()
	return h.page.Context(ctx).Eval(js, args...)
}

func (h *Host) setListening(on bool) {
	if _, err := h.eval(setListeningJS, on); err != nil {
		h.logger.Debug("toggling page listeners failed", zap.Bool("on", on), zap.Error(err))
	}
}

func (h *Host) listening() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs) > 0
}

// onBridgeMessage receives every message from the page script. The reply
// tells the script whether to keep forwarding.
func (h *Host) onBridgeMessage(msg gson.JSON) (interface{}, error) {
	ev, ok := parseEvent(msg, h)
	if ok {
		h.publish(ev)
	}
	return h.listening(), nil
}

// publish fans ev out to subscribers without blocking the CDP event loop.
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

// watchTarget ends subscriptions when the page is closed by the user.
func (h *Host) watchTarget() {
	if err := (proto.TargetSetDiscoverTargets{Discover: true}).Call(h.browser); err != nil {
		h.logger.Debug("target discovery unavailable", zap.Error(err))
	}

	targetID := h.page.TargetID
	wait := h.browser.EachEvent(func(e *proto.TargetTargetDestroyed) bool {
		return e.TargetID == targetID
	})
	wait()

	if h.ctx.Err() == nil {
		h.logger.Info("page closed")
	}
	h.closeSubscribers()
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
