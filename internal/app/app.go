package app

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/panjf2000/ants/v2"
	"github.com/robfig/cron/v3"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"

	"github.com/baggolabs/baggo/config"
	"github.com/baggolabs/baggo/internal/cart"
	"github.com/baggolabs/baggo/internal/domain"
	"github.com/baggolabs/baggo/internal/orders"
	"github.com/baggolabs/baggo/internal/store"
)

const (
	StorageModeLocal = "local"
	StorageModeCloud = "cloud"
)

type Application struct {
	appConfig *config.AppConfig
	gormDB    *gorm.DB
	boltDB    *bolt.DB
	repo      store.Repository
	oprs      OperatorStore
	bus       EventBus.Bus
	sched     *cron.Cron
	pool      *ants.Pool
	orders    *orders.Service
	ledgers   sync.Map
}

// Ensure Application implements all interfaces
var (
	_ DBProvider        = (*Application)(nil)
	_ ConfigProvider    = (*Application)(nil)
	_ StoreProvider     = (*Application)(nil)
	_ OperatorProvider  = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) DB() *gorm.DB {
	return a.gormDB
}

// OverrideStore replaces the application's repository (used in tests).
func (a *Application) OverrideStore(repo store.Repository) {
	a.repo = repo
}

func (a *Application) Init(cfg *config.AppConfig) {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	// Initialize zap logger
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	zapConfig.OutputPaths = []string{"stdout"}
	if cfg.Logger.FileEnable {
		zapConfig.OutputPaths = append(zapConfig.OutputPaths, cfg.Logger.Filename)
	}

	// Build logger with file rotation if enabled
	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)

	a.bus = EventBus.New()
	if err := a.bus.Subscribe(store.TopicChanged, func(kind string) {
		zap.L().Debug("store changed", zap.String("kind", kind))
	}); err != nil {
		zap.S().Warn("event bus subscribe failed:", err)
	}

	a.pool, err = ants.NewPool(8, ants.WithNonblocking(false))
	if err != nil {
		zap.S().Warnf("worker pool init failed, writes run inline: %v", err)
	}

	// The embedded bolt file is always open: local mode keeps the whole
	// catalog in it, cloud mode still uses it for durable carts.
	dbfile := filepath.Join(cfg.GetDataDir(), "baggo.db")
	a.boltDB, err = bolt.Open(dbfile, 0o600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		panic(err)
	}
	zap.S().Infof("Local store opened: %s", dbfile)

	switch cfg.Storage.Mode {
	case StorageModeCloud:
		if cfg.Database.Type == "" {
			cfg.Database.Type = "postgres"
		}
		a.gormDB = getDatabase(cfg.Database)
		zap.S().Infof("Database connection successful, type: %s", cfg.Database.Type)

		if err := a.MigrateDB(false); err != nil {
			zap.S().Errorf("database migration failed: %v", err)
		}
		a.repo = store.NewGormRepository(a.gormDB, a.bus)
		a.oprs = newGormOperatorStore(a.gormDB)
	default:
		repo, err := store.NewBoltRepository(a.boltDB, a.bus)
		if err != nil {
			panic(err)
		}
		a.repo = repo
		oprs, err := newBoltOperatorStore(a.boltDB)
		if err != nil {
			panic(err)
		}
		a.oprs = oprs
	}

	a.orders = orders.NewService(a.repo, a.pool)

	// wait for storage initialization to complete
	go func() {
		time.Sleep(3 * time.Second)
		a.checkSuper()
		a.checkStoreDefaults()
	}()

	a.initJob()
}

func (a *Application) MigrateDB(track bool) (err error) {
	defer func() {
		if err1 := recover(); err1 != nil {
			if os.Getenv("GO_DEGUB_TRACE") != "" {
				debug.PrintStack()
			}
			err2, ok := err1.(error)
			if ok {
				err = err2
				zap.S().Error(err2.Error())
			}
		}
	}()
	if a.gormDB == nil {
		return nil
	}
	if track {
		if err := a.gormDB.Debug().Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	} else {
		if err := a.gormDB.Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	}
	return nil
}

func (a *Application) DropAll() {
	if a.gormDB != nil {
		_ = a.gormDB.Migrator().DropTable(domain.Tables...)
	}
}

func (a *Application) InitDb() {
	if a.gormDB == nil {
		return
	}
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
	err := a.gormDB.Migrator().AutoMigrate(domain.Tables...)
	if err != nil {
		zap.S().Error(err)
	}
}

// Store returns the active catalog repository (bolt or gorm backed).
func (a *Application) Store() store.Repository {
	return a.repo
}

// Oprs returns the operator account store.
func (a *Application) Oprs() OperatorStore {
	return a.oprs
}

// Bus returns the store change event bus.
func (a *Application) Bus() EventBus.Bus {
	return a.bus
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

// Orders returns the checkout service.
func (a *Application) Orders() *orders.Service {
	return a.orders
}

// CartLedger returns the ledger for one cart id. Ledgers are cached so
// concurrent requests on the same cart share one mutex.
func (a *Application) CartLedger(cartID string) *cart.Ledger {
	if v, ok := a.ledgers.Load(cartID); ok {
		return v.(*cart.Ledger)
	}
	l := cart.NewLedger(cart.NewBoltStore(a.boltDB, cartID))
	actual, _ := a.ledgers.LoadOrStore(cartID, l)
	return actual.(*cart.Ledger)
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.pool != nil {
		a.pool.Release()
	}
	if a.boltDB != nil {
		_ = a.boltDB.Close()
	}
	_ = zap.L().Sync()
}
