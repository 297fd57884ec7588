package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/baggolabs/baggo/internal/domain"
	"github.com/baggolabs/baggo/internal/webserver"
	"github.com/baggolabs/baggo/pkg/common"
)

type loginPayload struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func registerLoginRoutes() {
	webserver.ApiPOST("/admin/login", login)
	webserver.ApiGET("/admin/oprlogs", listOprLogs)
}

// listOprLogs returns the operator action log, newest first.
func listOprLogs(c echo.Context) error {
	page, pageSize := parsePagination(c)
	rows, err := getApp(c).Oprs().ListLogs()
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query operator logs", err.Error())
	}
	lo, hi := pageBounds(len(rows), page, pageSize)
	return paged(c, rows[lo:hi], int64(len(rows)), page, pageSize)
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login", err.Error())
	}
	username := strings.TrimSpace(payload.Username)
	if username == "" || payload.Password == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Username and password are required", nil)
	}

	appctx := getApp(c)
	opr, err := appctx.Oprs().Get(username)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query operator", err.Error())
	}
	if opr == nil || !common.CheckPassword(opr.Password, payload.Password) {
		zap.L().Warn("admin login rejected",
			zap.String("username", username), zap.String("ip", c.RealIP()))
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	}
	if opr.Status != common.ENABLED {
		return fail(c, http.StatusForbidden, "ACCOUNT_DISABLED", "Operator account is disabled", nil)
	}

	claims := jwt.MapClaims{
		"usr": opr.Username,
		"lvl": opr.Level,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(appctx.Config().Web.Secret))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to sign token", err.Error())
	}

	if err := appctx.Oprs().TouchLogin(opr.Username); err != nil {
		zap.L().Warn("failed to record login time", zap.Error(err))
	}
	if err := appctx.Oprs().Log(&domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   opr.Username,
		OprIp:     c.RealIP(),
		OptAction: "login",
		OptDesc:   "operator signed in",
		OptTime:   time.Now(),
	}); err != nil {
		zap.L().Warn("failed to record operator action", zap.Error(err))
	}
	zap.L().Info("admin login",
		zap.String("username", opr.Username), zap.String("ip", c.RealIP()))

	return ok(c, map[string]interface{}{
		"token":    signed,
		"username": opr.Username,
		"level":    opr.Level,
	})
}
