package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/baggolabs/baggo/internal/domain"
	"github.com/baggolabs/baggo/internal/webserver"
)

func registerCategoryRoutes() {
	webserver.ApiGET("/admin/categories", listCategories)
	webserver.ApiPOST("/admin/categories", saveCategory)
	webserver.ApiPUT("/admin/categories/:slug", saveCategory)
	webserver.ApiDELETE("/admin/categories/:slug", deleteCategory)
}

func listCategories(c echo.Context) error {
	rows, err := GetRepo(c).ListCategories(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}
	return ok(c, rows)
}

func saveCategory(c echo.Context) error {
	var cat domain.Category
	if err := c.Bind(&cat); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", err.Error())
	}
	if slug := c.Param("slug"); slug != "" {
		cat.Slug = slug
	}
	cat.Slug = strings.ToLower(strings.TrimSpace(cat.Slug))
	cat.Label = strings.TrimSpace(cat.Label)
	if cat.Slug == "" || cat.Label == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Slug and label are required", nil)
	}
	cat.CategoryType = strings.ToLower(strings.TrimSpace(cat.CategoryType))
	switch cat.CategoryType {
	case "", domain.CategoryTypeNormal:
		cat.CategoryType = domain.CategoryTypeNormal
		cat.Password = ""
	case domain.CategoryTypeSecret:
		if cat.Password == "" {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Secret category requires a password", nil)
		}
	default:
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unknown category type", cat.CategoryType)
	}
	if err := GetRepo(c).UpsertCategory(c.Request().Context(), &cat); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save category", err.Error())
	}
	logOpr(c, "save category", cat.Slug)
	return ok(c, cat)
}

// deleteCategory also removes the category's products, matching what
// the storefront admin has always done.
func deleteCategory(c echo.Context) error {
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))
	if slug == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Slug is required", nil)
	}
	if err := GetRepo(c).DeleteCategory(c.Request().Context(), slug); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete category", err.Error())
	}
	logOpr(c, "delete category", slug)
	return ok(c, map[string]interface{}{"slug": slug})
}
