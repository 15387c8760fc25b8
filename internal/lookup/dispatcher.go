package lookup

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxInFlight bounds concurrent lookup requests.
const DefaultMaxInFlight = 4

// WordSender sends a single lookup request.
type WordSender interface {
	Word(ctx context.Context, word string) error
}

// Dispatcher fires lookup requests without waiting for them. Every Dispatch
// call results in exactly one request; at most maxInFlight requests run at a
// time and the rest wait for a free slot.
type Dispatcher struct {
	sender WordSender
	logger *zap.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	group   errgroup.Group
	pending sync.WaitGroup // Dispatch calls not yet handed to group
}

// NewDispatcher creates a dispatcher. Requests are bound to ctx and are
// aborted when it is cancelled.
func NewDispatcher(ctx context.Context, sender WordSender, maxInFlight int, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxInFlight <= 0 {
		maxInFlight = DefaultMaxInFlight
	}

	ctx, cancel := context.WithCancel(ctx)
	d := &Dispatcher{
		sender: sender,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
	d.group.SetLimit(maxInFlight)

	return d
}

// Dispatch sends a lookup for word in the background and returns at once.
// Failures are logged at debug level and otherwise ignored.
func (d *Dispatcher) Dispatch(word string) {
	d.pending.Add(1)
	go func() {
		defer d.pending.Done()

		// Go blocks until a slot frees up.
		d.group.Go(func() error {
			if err := d.sender.Word(d.ctx, word); err != nil {
				d.logger.Debug("lookup failed", zap.String("word", word), zap.Error(err))
				return nil
			}
			d.logger.Debug("lookup sent", zap.String("word", word))
			return nil
		})
	}()
}

// Wait blocks until every request dispatched so far has finished.
func (d *Dispatcher) Wait() {
	d.pending.Wait()
	_ = d.group.Wait()
}

// Close waits for in-flight requests and releases the dispatcher's context.
// The dispatcher must not be used afterwards.
func (d *Dispatcher) Close() {
	d.Wait()
	d.cancel()
}
