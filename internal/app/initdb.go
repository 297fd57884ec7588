package app

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/baggolabs/baggo/internal/domain"
	"github.com/baggolabs/baggo/internal/store"
	"github.com/baggolabs/baggo/pkg/common"
)

func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "baggo"

	operator, err := a.oprs.Get(superUsername)
	if err != nil {
		zap.L().Error("failed to query super admin", zap.Error(err))
		return
	}

	if operator == nil {
		hashed, err := common.HashPassword(defaultPassword)
		if err != nil {
			zap.L().Error("failed to hash default password", zap.Error(err))
			return
		}
		if err := a.oprs.Save(&domain.SysOpr{
			ID:        common.UUIDint64(),
			Realname:  "administrator",
			Mobile:    "0000",
			Email:     common.NA,
			Username:  superUsername,
			Password:  hashed,
			Level:     "super",
			Status:    common.ENABLED,
			Remark:    "super",
			LastLogin: time.Now(),
			CreatedAt: time.Now(),
		}); err != nil {
			zap.L().Error("failed to create default super admin", zap.Error(err))
			return
		}
		zap.L().Info("initialized default super admin account", zap.String("username", superUsername))
		return
	}

	resetPassword := strings.TrimSpace(operator.Password) == ""
	resetLevel := !strings.EqualFold(operator.Level, "super")
	resetStatus := !strings.EqualFold(operator.Status, common.ENABLED)

	if !resetPassword && !resetLevel && !resetStatus {
		return
	}

	if resetPassword {
		hashed, err := common.HashPassword(defaultPassword)
		if err != nil {
			zap.L().Error("failed to hash default password", zap.Error(err))
			return
		}
		operator.Password = hashed
	}
	if resetLevel {
		operator.Level = "super"
	}
	if resetStatus {
		operator.Status = common.ENABLED
	}
	operator.UpdatedAt = time.Now()

	if err := a.oprs.Save(operator); err != nil {
		zap.L().Error("failed to repair super admin account", zap.Error(err))
		return
	}

	zap.L().Warn("repaired default super admin account",
		zap.String("username", superUsername),
		zap.Bool("passwordReset", resetPassword),
		zap.Bool("levelReset", resetLevel),
		zap.Bool("statusEnabled", resetStatus))
}

// checkStoreDefaults makes sure settings rows exist and, in local
// mode, seeds the demo catalog so a fresh install has something to
// show.
func (a *Application) checkStoreDefaults() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if a.appConfig.Storage.Mode != StorageModeCloud {
		if err := store.SeedDemo(ctx, a.repo); err != nil {
			zap.L().Error("failed to seed demo catalog", zap.Error(err))
		}
		return
	}

	// Cloud mode: settings rows only, the catalog belongs to the owner.
	if _, err := a.repo.GetSiteSettings(ctx); err != nil {
		zap.L().Error("failed to check site settings", zap.Error(err))
	}
	ship, err := a.repo.GetShippingSettings(ctx)
	if err != nil {
		zap.L().Error("failed to check shipping settings", zap.Error(err))
		return
	}
	if len(ship.Methods) == 0 {
		def := domain.DefaultShippingSettings()
		if err := a.repo.SaveShippingSettings(ctx, &def); err != nil {
			zap.L().Error("failed to init shipping settings", zap.Error(err))
			return
		}
		zap.L().Info("initialized default shipping methods", zap.Int("count", len(def.Methods)))
	}
}
