package main

import (
	"fmt"
	"log/slog"

	"repairshop/internal/config"
	"repairshop/internal/database"
	"repairshop/internal/repository"
	"repairshop/internal/repository/memory"
)

// backend is one storage implementation of every repository.
type backend struct {
	orders        repository.WorkOrderRepository
	sequences     repository.SequenceRepository
	clients       repository.ClientRepository
	scheduled     repository.ScheduledServiceRepository
	inventory     repository.InventoryRepository
	movements     repository.InventoryMovementRepository
	transactions  repository.TransactionRepository
	audit         repository.AuditRepository
	notifications repository.NotificationRepository
	taxonomy      repository.TaxonomyRepository
	statistics    repository.StatisticsRepository
	users         repository.UserRepository
	txManager     repository.TransactionManager
	close         func() error
}

func openBackend(cfg *config.Config, logger *slog.Logger) (*backend, error) {
	switch cfg.Storage.Driver {
	case "memory":
		logger.Warn("using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		return &backend{
			orders:        store.WorkOrders(),
			sequences:     store.Sequences(),
			clients:       store.Clients(),
			scheduled:     store.ScheduledServices(),
			inventory:     store.Inventory(),
			movements:     store.Movements(),
			transactions:  store.Transactions(),
			audit:         store.Audit(),
			notifications: store.Notifications(),
			taxonomy:      store.Taxonomy(),
			statistics:    store.Statistics(),
			users:         store.Users(),
			txManager:     memory.NewTransactionManager(store),
			close:         func() error { return nil },
		}, nil
	case "postgres":
		db, err := database.NewConnection(cfg.Database.DSN(), logger)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		logger.Info("connected to PostgreSQL", slog.String("host", cfg.Database.Host), slog.String("database", cfg.Database.Name))
		return &backend{
			orders:        repository.NewWorkOrderRepository(db),
			sequences:     repository.NewSequenceRepository(db),
			clients:       repository.NewClientRepository(db),
			scheduled:     repository.NewScheduledServiceRepository(db),
			inventory:     repository.NewInventoryRepository(db),
			movements:     repository.NewInventoryMovementRepository(db),
			transactions:  repository.NewTransactionRepository(db),
			audit:         repository.NewAuditRepository(db),
			notifications: repository.NewNotificationRepository(db),
			taxonomy:      repository.NewTaxonomyRepository(db),
			statistics:    repository.NewStatisticsRepository(db),
			users:         repository.NewUserRepository(db),
			txManager:     repository.NewTransactionManager(db),
			close:         sqlDB.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
