package jobs

import (
	"context"
	"log/slog"

	"circulation/internal/core/application/usecases/commands"
	"circulation/internal/core/domain/model/kernel"

	"github.com/robfig/cron/v3"
)

// OrderFulfillmentJob sweeps confirmed reading-room orders and fulfills
// those whose member items have all been staged. Manual fulfillment stays
// possible; the sweep only catches orders whose last item arrived without
// anyone firing the order event.
type OrderFulfillmentJob struct {
	handler      commands.FulfillReadyOrdersCommandHandler
	systemUserID kernel.UUID
	cron         *cron.Cron
	logger       *slog.Logger
}

// NewOrderFulfillmentJob creates the fulfillment sweep job. Transitions it
// produces are attributed to the given system user.
func NewOrderFulfillmentJob(
	handler commands.FulfillReadyOrdersCommandHandler,
	systemUserID kernel.UUID,
	logger *slog.Logger,
) *OrderFulfillmentJob {
	return &OrderFulfillmentJob{
		handler:      handler,
		systemUserID: systemUserID,
		cron:         cron.New(cron.WithSeconds()),
		logger:       logger.With("component", "order_fulfillment_job"),
	}
}

// Start begins the fulfillment sweep, running every 30 seconds.
func (j *OrderFulfillmentJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewFulfillReadyOrdersCommand(j.systemUserID)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Order fulfillment job misconfigured", "error", cmdErr)
			return
		}

		if handleErr := j.handler.Handle(ctx, cmd); handleErr != nil {
			j.logger.ErrorContext(ctx, "Order fulfillment job failed", "error", handleErr)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Order fulfillment job started (running every 30 seconds)")
	return nil
}

// Stop stops the fulfillment sweep.
func (j *OrderFulfillmentJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Order fulfillment job stopped")
}
