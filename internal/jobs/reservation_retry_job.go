package jobs

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// ReservationRetryJob re-attempts stock reservation for orders parked on
// backorder hold. Runs every minute, oldest hold first; each order gets
// exactly one attempt per sweep so a restocked SKU unblocks the whole
// queue within one interval.
type ReservationRetryJob struct {
	handler    commands.ReserveOrderItemsCommandHandler
	uowFactory ports.UnitOfWorkFactory
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewReservationRetryJob creates the backorder retry sweep.
func NewReservationRetryJob(
	handler commands.ReserveOrderItemsCommandHandler,
	uowFactory ports.UnitOfWorkFactory,
	logger *slog.Logger,
) *ReservationRetryJob {
	return &ReservationRetryJob{
		handler:    handler,
		uowFactory: uowFactory,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "reservation_retry_job"),
	}
}

// Start begins the retry sweep, running once per minute.
func (j *ReservationRetryJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		j.sweep(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Reservation retry job started (running every minute)")
	return nil
}

// Stop stops the retry sweep.
func (j *ReservationRetryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Reservation retry job stopped")
}

func (j *ReservationRetryJob) sweep(ctx context.Context) {
	uow := j.uowFactory.Create()

	orders, err := uow.OrderRepository().GetAllOnHold(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to load on-hold orders", "error", err)
		return
	}

	for _, onHold := range orders {
		cmd, cmdErr := commands.NewReserveOrderItemsCommand(onHold.ID())
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Failed to build reservation command",
				"order_id", onHold.ID().String(), "error", cmdErr)
			continue
		}

		if handleErr := j.handler.Handle(ctx, cmd); handleErr != nil {
			// Shortages and exhausted retry budgets are expected outcomes
			// of a retry sweep, not system failures.
			if errors.Is(handleErr, errs.ErrInsufficientStock) ||
				errors.Is(handleErr, commands.ErrBackorderExhausted) ||
				errors.Is(handleErr, commands.ErrOrderNotReservable) {
				continue
			}
			j.logger.ErrorContext(ctx, "Reservation retry failed",
				"order_id", onHold.ID().String(), "error", handleErr)
		}
	}
}
