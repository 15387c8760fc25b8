package agent

import (
	"context"
	"time"

	"github.com/f3rmion/hoverword/internal/resolve"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Options tunes an Agent or Controller.
type Options struct {
	Resolver       resolve.Resolver
	Debounce       time.Duration // Selection settle time, default 100ms
	RetryDelay     time.Duration // Delay before re-probing, default 500ms
	RetryPolicy    RetryPolicy
	EmptySelection EmptySelectionPolicy
	Clock          clockwork.Clock
	Logger         *zap.Logger
	Observer       Observer
}

func (o Options) withDefaults() Options {
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = DefaultRetryDelay
	}
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Prober checks whether the lookup service is ready.
type Prober interface {
	Ack(ctx context.Context) error
}

// Agent activates a Controller once the lookup service acknowledges.
type Agent struct {
	host       Host
	prober     Prober
	dispatcher Dispatcher
	opts       Options
}

// New creates an agent for host.
func New(host Host, prober Prober, dispatcher Dispatcher, opts Options) *Agent {
	return &Agent{
		host:       host,
		prober:     prober,
		dispatcher: dispatcher,
		opts:       opts.withDefaults(),
	}
}

// Run probes the service until it acknowledges, then installs the host
// listeners and handles events until ctx is done. Probe failures are retried
// without limit and are only logged at debug level.
func (a *Agent) Run(ctx context.Context) error {
	defer a.setState(StateStopped)

	for attempt := 1; ; attempt++ {
		a.setState(StateProbing)

		err := a.prober.Ack(ctx)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			return nil
		}

		a.opts.Logger.Debug("lookup service not ready",
			zap.Int("attempt", attempt),
			zap.Stringer("retry_policy", a.opts.RetryPolicy),
			zap.Error(err))
		a.setState(StateWaiting)

		if !a.waitRetry(ctx) {
			return nil
		}
	}

	events, unsubscribe := a.host.Subscribe()
	defer unsubscribe()

	a.opts.Logger.Info("lookup service ready, listening for words")
	a.setState(StateActive)

	return NewController(a.host, a.dispatcher, a.opts).Run(ctx, events)
}

// waitRetry blocks until the next probe is due. It returns false when ctx
// is done first.
func (a *Agent) waitRetry(ctx context.Context) bool {
	if a.opts.RetryPolicy == RetryOnInteraction {
		if !a.waitSelectionChange(ctx) {
			return false
		}
	}

	select {
	case <-ctx.Done():
		return false
	case <-a.opts.Clock.After(a.opts.RetryDelay):
		return true
	}
}

// waitSelectionChange listens for a single selection change and removes the
// listener again.
func (a *Agent) waitSelectionChange(ctx context.Context) bool {
	events, unsubscribe := a.host.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-events:
			if !ok {
				return false
			}
			if ev.Kind == SelectionChange {
				return true
			}
		}
	}
}

func (a *Agent) setState(s State) {
	if a.opts.Observer != nil {
		a.opts.Observer.StateChanged(s)
	}
}
