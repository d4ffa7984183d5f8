package commands

import (
	"context"

	"marketplace/internal/core/application/orchestration"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// applyFunc mutates a loaded order and reports the resulting change.
type applyFunc func(ctx context.Context, o *order.Order) (orchestration.Change, error)

// transitionOrder loads the order, applies the transition and writes it back
// under the optimistic version check. A no-op change is not written.
func transitionOrder(
	ctx context.Context,
	uowFactory OrderUoWFactory,
	orchestrator Orchestrator,
	orderID kernel.UUID,
	apply applyFunc,
) (*order.Order, error) {
	return orchestrator.Execute(ctx, func(ctx context.Context) (orchestration.Change, error) {
		uow := uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return orchestration.Change{}, err
		}

		defer func() {
			_ = uow.Rollback(ctx)
		}()

		repo := uow.OrderRepository()
		o, err := repo.Get(ctx, orderID)
		if err != nil {
			return orchestration.Change{}, err
		}

		change, err := apply(ctx, o)
		if err != nil {
			return orchestration.Change{}, err
		}
		if change.Noop {
			return change, nil
		}

		if err = repo.Update(ctx, o); err != nil {
			return orchestration.Change{}, err
		}

		if err = uow.Commit(ctx); err != nil {
			return orchestration.Change{}, err
		}

		return change, nil
	})
}
