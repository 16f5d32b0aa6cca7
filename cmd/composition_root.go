package cmd

import (
	"log/slog"

	"storefront/internal/adapters/out/notify"
	"storefront/internal/adapters/out/postgres"
	"storefront/internal/adapters/out/rediscache"
	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/ports"
	"storefront/internal/jobs"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot wires adapters into use case handlers. All handlers share
// the same unit of work factory, outbox and logger.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	outbox     *notify.InMemoryOutbox
	notifier   ports.Notifier
	cache      queries.TimelineCache
	logger     *slog.Logger
}

// NewCompositionRoot assembles the object graph. The Redis client may be nil,
// in which case timeline queries always hit the database.
func NewCompositionRoot(
	_ Config,
	gormDB *gorm.DB,
	redisClient *redis.Client,
	logger *slog.Logger,
) CompositionRoot {
	var cache queries.TimelineCache
	if redisClient != nil {
		cache = rediscache.NewTimelineCache(redisClient, logger)
	}

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		outbox:     notify.NewInMemoryOutbox(),
		notifier:   notify.NewLogNotifier(logger),
		cache:      cache,
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(c.orderUoWFactory(), c.outbox, c.logger)
}

func (c *CompositionRoot) CreateAmendTrackingCommandHandler() commands.AmendTrackingCommandHandler {
	return commands.NewAmendTrackingCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateAddDeliveryAttemptCommandHandler() commands.AddDeliveryAttemptCommandHandler {
	return commands.NewAddDeliveryAttemptCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.uowFactory.Create().OrderRepository())
}

func (c *CompositionRoot) CreateGetOrderTimelineQueryHandler() queries.GetOrderTimelineQueryHandler {
	return queries.NewGetOrderTimelineQueryHandler(c.gormDB, c.cache, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.outbox, c.notifier, c.logger)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

// FuncOrderUoWFactory adapts a closure to the OrderUoWFactory interface.
type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
