package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/baggolabs/baggo/internal/catalog"
	"github.com/baggolabs/baggo/internal/domain"
	"github.com/baggolabs/baggo/internal/webserver"
)

// registerProductRoutes registers product CRUD plus the inventory view
func registerProductRoutes() {
	webserver.ApiGET("/admin/products", listProducts)
	webserver.ApiGET("/admin/products/:id", getProduct)
	webserver.ApiGET("/admin/products/:id/inventory", getProductInventory)
	webserver.ApiPOST("/admin/products", createProduct)
	webserver.ApiPUT("/admin/products/:id", updateProduct)
	webserver.ApiDELETE("/admin/products/:id", deleteProduct)
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)
	q := strings.ToLower(strings.TrimSpace(c.QueryParam("q")))
	category := strings.ToLower(strings.TrimSpace(c.QueryParam("category")))

	rows, err := GetRepo(c).ListProducts(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	filtered := rows[:0]
	for _, p := range rows {
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		filtered = append(filtered, p)
	}

	lo, hi := pageBounds(len(filtered), page, pageSize)
	return paged(c, filtered[lo:hi], int64(len(filtered)), page, pageSize)
}

func getProduct(c echo.Context) error {
	p, err := GetRepo(c).GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}
	if p == nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, p)
}

// getProductInventory flattens the stock blob into per-size rows,
// one per (variant, size) pair in per-image mode.
func getProductInventory(c echo.Context) error {
	p, err := GetRepo(c).GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}
	if p == nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, map[string]interface{}{
		"entries":   catalog.ListEntries(p),
		"total":     catalog.TotalQuantity(p),
		"in_stock":  catalog.HasAnyStock(p),
		"per_image": catalog.IsPerImage(p),
	})
}

func bindProduct(c echo.Context) (*domain.Product, error) {
	var p domain.Product
	if err := c.Bind(&p); err != nil {
		return nil, err
	}
	p.Name = strings.TrimSpace(p.Name)
	return &p, nil
}

func createProduct(c echo.Context) error {
	p, err := bindProduct(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if p.Name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required", nil)
	}
	if p.Price < 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Price must be >= 0", nil)
	}
	p.ID = ""
	if err := GetRepo(c).UpsertProduct(c.Request().Context(), p); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}
	logOpr(c, "create product", p.ID+" "+p.Name)
	return ok(c, p)
}

func updateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	repo := GetRepo(c)

	existing, err := repo.GetProduct(ctx, c.Param("id"))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}
	if existing == nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}

	p, err := bindProduct(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if p.Name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required", nil)
	}
	if p.Price < 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Price must be >= 0", nil)
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt

	if err := repo.UpsertProduct(ctx, p); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}
	logOpr(c, "update product", p.ID+" "+p.Name)
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	id := c.Param("id")
	if err := GetRepo(c).DeleteProduct(c.Request().Context(), id); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", err.Error())
	}
	logOpr(c, "delete product", id)
	return ok(c, map[string]interface{}{"id": id})
}
