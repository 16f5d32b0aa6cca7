package commands

import (
	"context"
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
)

// defaultCommitAttempts bounds the retry budget for optimistic commit
// conflicts. Business failures (validation, not found) are never retried.
const defaultCommitAttempts = 3

// mutateOrder is the concurrency guard around every order mutation: it runs a
// fetch-current -> validate-and-compute-next -> atomic conditional commit
// cycle, retrying the whole cycle on optimistic commit conflicts up to the
// given attempt budget.
//
// The mutate callback works on a fresh snapshot each attempt and reports
// whether a write is needed; returning false skips the write entirely (used by
// the tracking amender when a patch is a no-op). A failure at any point rolls
// the transaction back, leaving the order entirely unchanged.
func mutateOrder(
	ctx context.Context,
	uowFactory OrderUoWFactory,
	orderID kernel.UUID,
	attempts int,
	mutate func(*order.Order) (bool, error),
) (*order.Order, error) {
	if attempts <= 0 {
		attempts = defaultCommitAttempts
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		aggregate, err := mutateOrderOnce(ctx, uowFactory, orderID, mutate)
		if err == nil {
			return aggregate, nil
		}
		if !errors.Is(err, errs.ErrCommitConflict) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

func mutateOrderOnce(
	ctx context.Context,
	uowFactory OrderUoWFactory,
	orderID kernel.UUID,
	mutate func(*order.Order) (bool, error),
) (*order.Order, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	write, err := mutate(aggregate)
	if err != nil {
		return nil, err
	}

	if write {
		if err = orderRepo.Update(ctx, aggregate); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
