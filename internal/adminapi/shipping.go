package adminapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/baggolabs/baggo/internal/domain"
	"github.com/baggolabs/baggo/internal/webserver"
)

func registerShippingRoutes() {
	webserver.ApiGET("/admin/shipping", getShippingSettings)
	webserver.ApiPUT("/admin/shipping", saveShippingSettings)
}

func getShippingSettings(c echo.Context) error {
	s, err := GetRepo(c).GetShippingSettings(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query shipping settings", err.Error())
	}
	return ok(c, s)
}

func saveShippingSettings(c echo.Context) error {
	var s domain.ShippingSettings
	if err := c.Bind(&s); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse shipping settings", err.Error())
	}

	methods := make(domain.ShippingMethods, 0, len(s.Methods))
	for _, m := range s.Methods {
		m.Code = strings.TrimSpace(m.Code)
		m.Label = strings.TrimSpace(m.Label)
		if m.Code == "" || m.Label == "" {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Every method needs a code and a label", nil)
		}
		if m.Fee < 0 {
			m.Fee = 0
		}
		methods = append(methods, m)
	}
	if len(methods) == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "At least one shipping method is required", nil)
	}
	s.Methods = methods

	if s.FreeThreshold != nil && *s.FreeThreshold < 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Free shipping threshold must be >= 0", nil)
	}

	if err := GetRepo(c).SaveShippingSettings(c.Request().Context(), &s); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save shipping settings", err.Error())
	}
	logOpr(c, "save shipping settings", strconv.Itoa(len(s.Methods))+" methods")
	return ok(c, s)
}
