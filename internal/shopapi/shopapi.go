// Package shopapi is the public storefront surface: catalog reads,
// per-cart ledger operations and the WhatsApp checkout.
package shopapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/baggolabs/baggo/internal/app"
	"github.com/baggolabs/baggo/internal/store"
	"github.com/baggolabs/baggo/internal/webserver"
)

// InitRouter registers every public route on the web server.
func InitRouter() {
	registerCatalogRoutes()
	registerCartRoutes()
}

func getApp(c echo.Context) app.AppContext {
	return webserver.GetAppContext(c)
}

func getRepo(c echo.Context) store.Repository {
	return getApp(c).Store()
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
