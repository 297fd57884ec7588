// Package adminapi is the back-office REST surface: operator login,
// catalog CRUD, homepage settings, shipping, promos and orders.
package adminapi

import (
	"net/http"
	"strconv"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/baggolabs/baggo/internal/app"
	"github.com/baggolabs/baggo/internal/domain"
	"github.com/baggolabs/baggo/internal/store"
	"github.com/baggolabs/baggo/internal/webserver"
	"github.com/baggolabs/baggo/pkg/common"
)

// InitRouter registers every admin route on the web server.
func InitRouter() {
	registerLoginRoutes()
	registerProductRoutes()
	registerCategoryRoutes()
	registerSettingsRoutes()
	registerShippingRoutes()
	registerPromoRoutes()
	registerOrderRoutes()
}

func getApp(c echo.Context) app.AppContext {
	return webserver.GetAppContext(c)
}

// GetRepo returns the active catalog repository for this request.
func GetRepo(c echo.Context) store.Repository {
	return getApp(c).Store()
}

// oprName reads the operator username out of the verified JWT.
func oprName(c echo.Context) string {
	token, ok := c.Get("user").(*jwtv5.Token)
	if !ok {
		return ""
	}
	claims, ok := token.Claims.(jwtv5.MapClaims)
	if !ok {
		return ""
	}
	return cast.ToString(claims["usr"])
}

// logOpr records a back-office mutation in the operator action log.
// Logging must never fail the request.
func logOpr(c echo.Context, action, desc string) {
	name := oprName(c)
	if name == "" {
		name = "unknown"
	}
	err := getApp(c).Oprs().Log(&domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   name,
		OprIp:     c.RealIP(),
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	})
	if err != nil {
		zap.L().Warn("failed to record operator action",
			zap.String("action", action), zap.Error(err))
	}
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code": 0,
		"data": data,
	})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"code":    code,
		"message": message,
		"detail":  detail,
	})
}

func paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code":     0,
		"data":     rows,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

func parsePagination(c echo.Context) (page, pageSize int) {
	page = 1
	pageSize = 20
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	ps := c.QueryParam("perPage")
	if ps == "" {
		ps = c.QueryParam("pageSize")
	}
	if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 500 {
		pageSize = v
	}
	return page, pageSize
}

// pageBounds slices an in-memory result set for the paged envelope.
func pageBounds(n, page, pageSize int) (lo, hi int) {
	lo = (page - 1) * pageSize
	if lo > n {
		lo = n
	}
	hi = lo + pageSize
	if hi > n {
		hi = n
	}
	return lo, hi
}
