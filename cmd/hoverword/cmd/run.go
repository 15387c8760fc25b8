package cmd

import (
	"context"
	"errors"

	"github.com/f3rmion/hoverword/internal/agent"
	"github.com/f3rmion/hoverword/internal/lookup"
	"go.uber.org/zap"
)

// runAgent probes the lookup service and, once it answers, feeds host events
// into the controller until ctx is done or the host goes away.
func runAgent(ctx context.Context, host agent.Host, observer agent.Observer) error {
	cfg, err := loadUserConfig()
	if err != nil {
		return err
	}

	endpoint, err := resolveEndPoint(ctx)
	if err != nil {
		return err
	}

	opts, err := cfg.AgentOptions()
	if err != nil {
		return err
	}
	opts.Logger = logger
	opts.Observer = observer

	client := lookup.NewClient(endpoint, cfg.RequestTimeout)
	dispatcher := lookup.NewDispatcher(ctx, client, cfg.MaxInFlight, logger)
	defer dispatcher.Close()

	logger.Info("starting agent",
		zap.String("endpoint", client.BaseURL()),
		zap.String("variant", cfg.Variant),
		zap.String("retry_policy", cfg.RetryPolicy))

	err = agent.New(host, client, dispatcher, opts).Run(ctx)
	if errors.Is(err, agent.ErrHostClosed) {
		return nil
	}
	return err
}
