package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/baggolabs/baggo/internal/domain"
	"github.com/baggolabs/baggo/internal/webserver"
)

func registerSettingsRoutes() {
	webserver.ApiGET("/admin/settings", getSiteSettings)
	webserver.ApiPUT("/admin/settings", saveSiteSettings)
}

func getSiteSettings(c echo.Context) error {
	s, err := GetRepo(c).GetSiteSettings(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query settings", err.Error())
	}
	return ok(c, s)
}

func saveSiteSettings(c echo.Context) error {
	var s domain.SiteSettings
	if err := c.Bind(&s); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse settings", err.Error())
	}
	s.SiteName = strings.TrimSpace(s.SiteName)
	if s.SiteName == "" {
		s.SiteName = domain.DefaultSiteSettings().SiteName
	}
	s.Whatsapp = strings.TrimSpace(s.Whatsapp)
	if err := GetRepo(c).SaveSiteSettings(c.Request().Context(), &s); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save settings", err.Error())
	}
	logOpr(c, "save site settings", s.SiteName)
	return ok(c, s)
}
