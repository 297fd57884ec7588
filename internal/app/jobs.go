package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/baggolabs/baggo/internal/catalog"
	"github.com/baggolabs/baggo/pkg/common"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

const lowStockThreshold = 3

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@hourly", func() {
		a.SchedDisableExpiredPromos()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		a.SchedLowStockReport()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		if err := a.oprs.PurgeLogs(time.Now().Add(-time.Hour * 24 * 365)); err != nil {
			zap.L().Error("opr log purge failed", zap.Error(err))
		}
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedDisableExpiredPromos flips enabled promos past their expiry to
// disabled so the admin list shows their real state.
func (a *Application) SchedDisableExpiredPromos() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	promos, err := a.repo.ListPromos(ctx)
	if err != nil {
		zap.L().Error("promo sweep failed", zap.Error(err))
		return
	}
	now := time.Now()
	for i := range promos {
		p := promos[i]
		if p.Status != common.ENABLED || p.ExpiresAt == nil || now.Before(*p.ExpiresAt) {
			continue
		}
		p.Status = common.DISABLED
		if err := a.repo.UpsertPromo(ctx, &p); err != nil {
			zap.L().Error("failed to disable expired promo",
				zap.String("code", p.Code), zap.Error(err))
			continue
		}
		zap.L().Info("disabled expired promo", zap.String("code", p.Code))
	}
}

// SchedLowStockReport logs inventory rows at or under the threshold.
func (a *Application) SchedLowStockReport() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	products, err := a.repo.ListProducts(ctx)
	if err != nil {
		zap.L().Error("low stock report failed", zap.Error(err))
		return
	}
	low := 0
	for i := range products {
		p := &products[i]
		if !p.Visible {
			continue
		}
		for _, entry := range catalog.ListEntries(p) {
			if entry.Qty > lowStockThreshold {
				continue
			}
			low++
			zap.L().Warn("low stock",
				zap.String("product", p.Name),
				zap.String("size", entry.Size),
				zap.String("variant", entry.VariantName),
				zap.Int("qty", entry.Qty))
		}
	}
	zap.L().Info("low stock report completed",
		zap.Int("products", len(products)), zap.Int("low_entries", low))
}
