package adminapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/baggolabs/baggo/internal/domain"
	"github.com/baggolabs/baggo/internal/promo"
	"github.com/baggolabs/baggo/internal/webserver"
	"github.com/baggolabs/baggo/pkg/common"
)

func registerPromoRoutes() {
	webserver.ApiGET("/admin/promos", listPromos)
	webserver.ApiPOST("/admin/promos", savePromo)
	webserver.ApiPUT("/admin/promos/:id", savePromo)
	webserver.ApiDELETE("/admin/promos/:id", deletePromo)
}

func listPromos(c echo.Context) error {
	page, pageSize := parsePagination(c)
	rows, err := GetRepo(c).ListPromos(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query promos", err.Error())
	}
	lo, hi := pageBounds(len(rows), page, pageSize)
	return paged(c, rows[lo:hi], int64(len(rows)), page, pageSize)
}

func savePromo(c echo.Context) error {
	var p domain.PromoCode
	if err := c.Bind(&p); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse promo", err.Error())
	}
	if idStr := c.Param("id"); idStr != "" {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid promo ID", nil)
		}
		p.ID = id
	}

	p.Code = promo.Normalize(p.Code)
	if p.Code == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Code is required", nil)
	}
	if p.Type != domain.PromoTypeFixed && p.Type != domain.PromoTypePercent {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Type must be 'fixed' or 'percent'", nil)
	}
	if p.Value <= 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Value must be > 0", nil)
	}
	if p.Type == domain.PromoTypePercent && p.Value > 100 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Percent value must be <= 100", nil)
	}
	if p.MinSubtotal < 0 {
		p.MinSubtotal = 0
	}
	if p.Status == "" {
		p.Status = common.ENABLED
	}

	if err := GetRepo(c).UpsertPromo(c.Request().Context(), &p); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save promo", err.Error())
	}
	logOpr(c, "save promo", p.Code)
	return ok(c, p)
}

func deletePromo(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid promo ID", nil)
	}
	if err := GetRepo(c).DeletePromo(c.Request().Context(), id); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete promo", err.Error())
	}
	logOpr(c, "delete promo", strconv.FormatInt(id, 10))
	return ok(c, map[string]interface{}{"id": id})
}
