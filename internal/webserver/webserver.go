// Package webserver hosts the echo HTTP server. Admin routes sit
// behind the JWT gate, shop routes are public. Handlers reach the
// application through the request context.
package webserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/pprof"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/baggolabs/baggo/internal/app"
)

const appContextKey = "appctx"

type WebServer struct {
	root   *echo.Echo
	api    *echo.Group
	pub    *echo.Group
	appctx app.AppContext
}

var server *WebServer

func Init(appctx app.AppContext) {
	server = NewWebServer(appctx)
}

func NewWebServer(appctx app.AppContext) *WebServer {
	s := &WebServer{appctx: appctx}
	s.root = echo.New()
	s.root.HideBanner = true
	s.root.HidePort = true

	s.root.Use(middleware.Recover())
	s.root.Use(middleware.CORS())
	s.root.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(appContextKey, appctx)
			return next(c)
		}
	})

	s.root.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		message := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			message = fmt.Sprintf("%v", he.Message)
		}
		if code >= http.StatusInternalServerError {
			zap.L().Error("http error",
				zap.String("path", c.Path()),
				zap.Int("status", code),
				zap.Error(err))
		}
		_ = c.JSON(code, map[string]interface{}{
			"code":    code,
			"message": message,
		})
	}

	jwtConfig := echojwt.Config{
		SigningKey: []byte(appctx.Config().Web.Secret),
		Skipper: func(c echo.Context) bool {
			return strings.HasSuffix(c.Path(), "/login")
		},
	}

	s.api = s.root.Group("/api", echojwt.WithConfig(jwtConfig))
	s.pub = s.root.Group("/shop")

	if appctx.Config().System.Debug {
		pprof.Register(s.root)
	}
	return s
}

// GetAppContext pulls the application out of the request context.
func GetAppContext(c echo.Context) app.AppContext {
	return c.Get(appContextKey).(app.AppContext)
}

func Listen() error {
	cfg := server.appctx.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.S().Infof("Starting web server %s", addr)
	return server.root.Start(addr)
}

// Echo exposes the underlying server (used in tests).
func Echo() *echo.Echo {
	return server.root
}

func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}

func PubGET(path string, h echo.HandlerFunc) {
	server.pub.GET(path, h)
}

func PubPOST(path string, h echo.HandlerFunc) {
	server.pub.POST(path, h)
}

func PubPUT(path string, h echo.HandlerFunc) {
	server.pub.PUT(path, h)
}

func PubDELETE(path string, h echo.HandlerFunc) {
	server.pub.DELETE(path, h)
}
