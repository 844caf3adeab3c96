package cmd

import (
	"log/slog"

	httpin "circulation/internal/adapters/in/http"
	"circulation/internal/adapters/out/catalog"
	"circulation/internal/adapters/out/notifier"
	"circulation/internal/adapters/out/postgres"
	"circulation/internal/core/application/usecases/commands"
	"circulation/internal/core/application/usecases/queries"
	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/core/domain/services"
	"circulation/internal/core/ports"
	"circulation/internal/jobs"
	"circulation/internal/pkg/locker"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters, domain services, and use case handlers.
// The lock registry and workflow service are shared singletons: every
// handler must serialize on the same keyed mutexes.
type CompositionRoot struct {
	gormDB       *gorm.DB
	uowFactory   *postgres.GormUnitOfWorkFactory
	locks        *locker.Registry
	workflow     services.WorkflowService
	notifier     ports.WorkCompleteNotifier
	catalog      ports.CatalogClient
	systemUserID kernel.UUID
	logger       *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (CompositionRoot, error) {
	systemUserID, err := kernel.UUIDFromString(config.SystemUserID)
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		gormDB:       gormDB,
		uowFactory:   postgres.NewGormUnitOfWorkFactory(gormDB),
		locks:        locker.NewRegistry(),
		workflow:     services.NewWorkflowService(),
		notifier:     notifier.NewWebhookNotifier(config.NotifierURL, config.PublicBaseURL, logger),
		catalog:      catalog.NewClient(config.CatalogBaseURL),
		systemUserID: systemUserID,
		logger:       logger,
	}, nil
}

func (c *CompositionRoot) SystemUserID() kernel.UUID {
	return c.systemUserID
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateCreateItemCommandHandler() commands.CreateItemCommandHandler {
	var f commands.ItemUoWFactory = FuncItemUoWFactory(func() commands.ItemUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateItemCommandHandler(f)
}

func (c *CompositionRoot) CreateAddItemToOrderCommandHandler() commands.AddItemToOrderCommandHandler {
	return commands.NewAddItemToOrderCommandHandler(c.createUoWFactory(), c.locks)
}

func (c *CompositionRoot) CreateTriggerOrderEventCommandHandler() commands.TriggerOrderEventCommandHandler {
	return commands.NewTriggerOrderEventCommandHandler(
		c.createUoWFactory(), c.workflow, c.locks, c.notifier, c.logger,
	)
}

func (c *CompositionRoot) CreateTriggerItemEventCommandHandler() commands.TriggerItemEventCommandHandler {
	return commands.NewTriggerItemEventCommandHandler(c.createUoWFactory(), c.workflow, c.locks)
}

func (c *CompositionRoot) CreateMarkItemObsoleteCommandHandler() commands.MarkItemObsoleteCommandHandler {
	return commands.NewMarkItemObsoleteCommandHandler(c.createUoWFactory(), c.catalog, c.locks)
}

func (c *CompositionRoot) CreateFulfillReadyOrdersCommandHandler() commands.FulfillReadyOrdersCommandHandler {
	return commands.NewFulfillReadyOrdersCommandHandler(c.createUoWFactory(), c.workflow, c.locks)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.uowFactory, c.workflow)
}

func (c *CompositionRoot) CreateGetOpenOrdersQueryHandler() queries.GetOpenOrdersQueryHandler {
	return queries.NewGetOpenOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetItemHistoryQueryHandler() queries.GetItemHistoryQueryHandler {
	return queries.NewGetItemHistoryQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateCreateItemCommandHandler(),
		c.CreateAddItemToOrderCommandHandler(),
		c.CreateTriggerOrderEventCommandHandler(),
		c.CreateTriggerItemEventCommandHandler(),
		c.CreateMarkItemObsoleteCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetOpenOrdersQueryHandler(),
		c.CreateGetItemHistoryQueryHandler(),
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateFulfillReadyOrdersCommandHandler(),
		c.systemUserID,
		c.logger,
	)
}

func (c *CompositionRoot) createUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncItemUoWFactory func() commands.ItemUoW

func (f FuncItemUoWFactory) Create() commands.ItemUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
