package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"

	"github.com/baggolabs/baggo/internal/domain"
	"github.com/baggolabs/baggo/internal/store"
	"github.com/baggolabs/baggo/internal/webserver"
	"github.com/baggolabs/baggo/pkg/common"
)

func registerOrderRoutes() {
	webserver.ApiGET("/admin/orders", listOrders)
	webserver.ApiGET("/admin/orders/export", exportOrders)
	webserver.ApiGET("/admin/orders/:id", getOrder)
	webserver.ApiPUT("/admin/orders/:id/status", updateOrderStatus)
	webserver.ApiDELETE("/admin/orders/:id", deleteOrder)
}

var orderStatuses = []string{
	domain.OrderStatusNew,
	domain.OrderStatusConfirmed,
	domain.OrderStatusShipped,
	domain.OrderStatusDone,
	domain.OrderStatusCancelled,
}

// parseOrderFilter reads status/from/to query params. Dates accept any
// common format; the "to" bound is pushed to end of day when it has no
// time part.
func parseOrderFilter(c echo.Context) (store.OrderFilter, error) {
	var filter store.OrderFilter
	filter.Status = strings.TrimSpace(c.QueryParam("status"))

	if v := strings.TrimSpace(c.QueryParam("from")); v != "" {
		t, err := dateparse.ParseIn(v, time.Local)
		if err != nil {
			return filter, err
		}
		filter.From = &t
	}
	if v := strings.TrimSpace(c.QueryParam("to")); v != "" {
		t, err := dateparse.ParseIn(v, time.Local)
		if err != nil {
			return filter, err
		}
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		filter.To = &t
	}
	return filter, nil
}

func listOrders(c echo.Context) error {
	filter, err := parseOrderFilter(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse date filter", err.Error())
	}
	page, pageSize := parsePagination(c)

	rows, err := GetRepo(c).ListOrders(c.Request().Context(), filter)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	lo, hi := pageBounds(len(rows), page, pageSize)
	return paged(c, rows[lo:hi], int64(len(rows)), page, pageSize)
}

func getOrder(c echo.Context) error {
	o, err := GetRepo(c).GetOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order", err.Error())
	}
	if o == nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	}
	return ok(c, o)
}

type orderStatusPayload struct {
	Status string `json:"status" form:"status"`
}

func updateOrderStatus(c echo.Context) error {
	var payload orderStatusPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse status", err.Error())
	}
	status := strings.ToLower(strings.TrimSpace(payload.Status))
	if !common.InSlice(status, orderStatuses) {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unknown order status", status)
	}

	ctx := c.Request().Context()
	repo := GetRepo(c)
	o, err := repo.GetOrder(ctx, c.Param("id"))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order", err.Error())
	}
	if o == nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	}
	if err := repo.UpdateOrderStatus(ctx, o.ID, status); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update order", err.Error())
	}
	logOpr(c, "update order status", o.ID+" -> "+status)
	return ok(c, map[string]interface{}{"id": o.ID, "status": status})
}

func deleteOrder(c echo.Context) error {
	id := c.Param("id")
	if err := GetRepo(c).DeleteOrder(c.Request().Context(), id); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete order", err.Error())
	}
	logOpr(c, "delete order", id)
	return ok(c, map[string]interface{}{"id": id})
}

type orderCsvRow struct {
	ID             string  `csv:"id"`
	Status         string  `csv:"status"`
	CustomerName   string  `csv:"customer_name"`
	CustomerPhone  string  `csv:"customer_phone"`
	Items          int     `csv:"items"`
	Subtotal       float64 `csv:"subtotal"`
	Discount       float64 `csv:"discount"`
	Shipping       float64 `csv:"shipping"`
	Total          float64 `csv:"total"`
	PromoCode      string  `csv:"promo_code"`
	DeliveryMethod string  `csv:"delivery_method"`
	CreatedAt      string  `csv:"created_at"`
}

func exportOrders(c echo.Context) error {
	filter, err := parseOrderFilter(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse date filter", err.Error())
	}

	rows, err := GetRepo(c).ListOrders(c.Request().Context(), filter)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	out := make([]orderCsvRow, 0, len(rows))
	for _, o := range rows {
		n := 0
		for _, item := range o.Items {
			n += item.Quantity
		}
		out = append(out, orderCsvRow{
			ID:             o.ID,
			Status:         o.Status,
			CustomerName:   o.Customer.Name,
			CustomerPhone:  o.Customer.Phone,
			Items:          n,
			Subtotal:       o.Subtotal,
			Discount:       o.Discount,
			Shipping:       o.Shipping,
			Total:          o.Total,
			PromoCode:      o.PromoCode,
			DeliveryMethod: o.DeliveryMethod,
			CreatedAt:      o.CreatedAt.Format(time.RFC3339),
		})
	}

	data, err := gocsv.MarshalString(&out)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to render CSV", err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="orders-`+time.Now().Format("20060102")+`.csv"`)
	return c.Blob(http.StatusOK, "text/csv", []byte(data))
}
