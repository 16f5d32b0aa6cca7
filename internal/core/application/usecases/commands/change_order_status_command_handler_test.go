package commands_test

import (
	"io"
	"log/slog"
	"testing"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// expectMutation wires one fetch-mutate-commit cycle onto the mocks.
func expectMutation(uow *MockOrderUoW, repo *MockOrderRepository, aggregate *order.Order, updateErr error) {
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()
	repo.On("Update", mock.Anything, aggregate).Return(updateErr).Once()
	if updateErr == nil {
		uow.On("Commit", mock.Anything).Return(nil).Once()
	}
	uow.On("Rollback", mock.Anything).Return(nil).Once()
}

func TestChangeOrderStatusCommandHandler_Handle_GraphTransition(t *testing.T) {
	ctx := t.Context()
	aggregate := newTestAggregate(t)
	cmd, err := commands.NewChangeOrderStatusCommand(aggregate.ID(), order.Confirmed,
		commands.WithTransitionNotes("payment verified"),
		commands.WithTransitionActor("admin-42"),
	)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	expectMutation(uow, repo, aggregate, nil)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	outbox := new(MockOutbox)
	outbox.On("Enqueue", mock.MatchedBy(func(msg ports.OrderConfirmation) bool {
		return msg.OrderNumber == aggregate.OrderNumber() &&
			msg.CustomerEmail == "jo@example.com"
	})).Once()

	h := commands.NewChangeOrderStatusCommandHandler(factory, outbox, testLogger())
	updated, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Confirmed, updated.Status())
	require.Len(t, updated.History(), 2)
	assert.Equal(t, "admin-42", updated.History()[1].UpdatedBy)
	outbox.AssertExpectations(t)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_OutOfGraphOverride(t *testing.T) {
	ctx := t.Context()
	aggregate := newTestAggregate(t)
	// pending -> delivered skips the whole fulfilment chain
	cmd, err := commands.NewChangeOrderStatusCommand(aggregate.ID(), order.Delivered)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	expectMutation(uow, repo, aggregate, nil)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	outbox := new(MockOutbox)

	h := commands.NewChangeOrderStatusCommandHandler(factory, outbox, testLogger())
	updated, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Delivered, updated.Status())
	assert.Equal(t, order.PaymentPaid, updated.PaymentStatus())
	assert.NotNil(t, updated.DeliveredAt())
	outbox.AssertNotCalled(t, "Enqueue", mock.Anything)
}

func TestChangeOrderStatusCommandHandler_Handle_RetriesCommitConflict(t *testing.T) {
	ctx := t.Context()
	first := newTestAggregate(t)
	second := newTestAggregate(t)
	conflict := errs.NewCommitConflictError("order", first.ID().String())

	cmd, err := commands.NewChangeOrderStatusCommand(first.ID(), order.Confirmed)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)

	// first attempt loses the version race
	uow.On("Begin", mock.Anything).Return(nil).Times(2)
	uow.On("OrderRepository").Return(repo).Times(2)
	repo.On("Get", mock.Anything, first.ID()).Return(first, nil).Once()
	repo.On("Update", mock.Anything, first).Return(conflict).Once()

	// second attempt re-reads a fresh snapshot and commits
	repo.On("Get", mock.Anything, first.ID()).Return(second, nil).Once()
	repo.On("Update", mock.Anything, second).Return(nil).Once()
	uow.On("Commit", mock.Anything).Return(nil).Once()
	uow.On("Rollback", mock.Anything).Return(nil).Times(2)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Times(2)

	outbox := new(MockOutbox)
	outbox.On("Enqueue", mock.Anything).Once()

	h := commands.NewChangeOrderStatusCommandHandler(factory, outbox, testLogger())
	updated, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Confirmed, updated.Status())
	repo.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_ConflictBudgetExhausted(t *testing.T) {
	ctx := t.Context()
	conflict := errs.NewCommitConflictError("order", "any")
	aggregates := []*order.Order{newTestAggregate(t), newTestAggregate(t), newTestAggregate(t)}
	orderID := aggregates[0].ID()

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, order.Confirmed)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", mock.Anything).Return(nil).Times(3)
	uow.On("OrderRepository").Return(repo).Times(3)
	for _, aggregate := range aggregates {
		repo.On("Get", mock.Anything, orderID).Return(aggregate, nil).Once()
		repo.On("Update", mock.Anything, aggregate).Return(conflict).Once()
	}
	uow.On("Rollback", mock.Anything).Return(nil).Times(3)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Times(3)

	outbox := new(MockOutbox)

	h := commands.NewChangeOrderStatusCommandHandler(factory, outbox, testLogger())
	updated, err := h.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrCommitConflict)
	assert.Nil(t, updated)
	outbox.AssertNotCalled(t, "Enqueue", mock.Anything)
	factory.AssertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_OrderNotFound(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	notFound := errs.NewObjectNotFoundError("order", orderID.String())

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, order.Confirmed)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", mock.Anything).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, orderID).Return(nil, notFound).Once(),
		uow.On("Rollback", mock.Anything).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewChangeOrderStatusCommandHandler(factory, new(MockOutbox), testLogger())
	updated, err := h.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.Nil(t, updated)
	// not-found is a business failure, never retried
	factory.AssertNumberOfCalls(t, "Create", 1)
}
