package app

import (
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/baggolabs/baggo/config"
	"github.com/baggolabs/baggo/internal/cart"
	"github.com/baggolabs/baggo/internal/orders"
	"github.com/baggolabs/baggo/internal/store"
)

// DBProvider provides database access (cloud mode only; nil in local mode)
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// StoreProvider provides the catalog repository
type StoreProvider interface {
	Store() store.Repository
}

// OperatorProvider provides back-office operator accounts
type OperatorProvider interface {
	Oprs() OperatorStore
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines all provider interfaces for full application context
// Services should depend on specific providers or this combined interface
type AppContext interface {
	DBProvider
	ConfigProvider
	StoreProvider
	OperatorProvider
	SchedulerProvider

	// Orders returns the checkout service
	Orders() *orders.Service

	// CartLedger returns the durable ledger for one cart id
	CartLedger(cartID string) *cart.Ledger

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	DropAll()
}
