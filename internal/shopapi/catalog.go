package shopapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/baggolabs/baggo/internal/catalog"
	"github.com/baggolabs/baggo/internal/domain"
	"github.com/baggolabs/baggo/internal/shipping"
	"github.com/baggolabs/baggo/internal/webserver"
)

func registerCatalogRoutes() {
	webserver.PubGET("/products", shopListProducts)
	webserver.PubGET("/products/:id", shopGetProduct)
	webserver.PubGET("/categories", shopListCategories)
	webserver.PubPOST("/categories/:slug/unlock", unlockCategory)
	webserver.PubGET("/settings", shopGetSettings)
}

// productView is a product plus the derived stock/pricing facts the
// storefront needs to render a card without re-deriving them.
type productView struct {
	domain.Product
	InStock       bool     `json:"in_stock"`
	UnitPrice     float64  `json:"unit_price"`
	DiscountPrice *float64 `json:"discount_price,omitempty"`
}

func newProductView(p domain.Product) productView {
	v := productView{
		Product:   p,
		InStock:   catalog.HasAnyStock(&p),
		UnitPrice: catalog.UnitPrice(&p),
	}
	if dp, ok := catalog.DiscountPrice(&p); ok {
		v.DiscountPrice = &dp
	}
	return v
}

func shopListProducts(c echo.Context) error {
	rows, err := getRepo(c).ListProducts(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	category := strings.ToLower(strings.TrimSpace(c.QueryParam("category")))
	featured := c.QueryParam("featured") == "true"

	out := make([]productView, 0, len(rows))
	for _, p := range rows {
		if !p.Visible {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		if featured && !p.Featured {
			continue
		}
		out = append(out, newProductView(p))
	}
	return ok(c, out)
}

func shopGetProduct(c echo.Context) error {
	p, err := getRepo(c).GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}
	if p == nil || !p.Visible {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, newProductView(*p))
}

func shopListCategories(c echo.Context) error {
	rows, err := getRepo(c).ListCategories(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}
	out := rows[:0]
	for _, cat := range rows {
		if !cat.Visible {
			continue
		}
		// the storefront may see that a collection is secret, never its password
		cat.Password = ""
		out = append(out, cat)
	}
	return ok(c, out)
}

type unlockPayload struct {
	Password string `json:"password" form:"password"`
}

// unlockCategory verifies a secret collection's password. The server
// keeps no unlock state; clients remember a successful answer.
func unlockCategory(c echo.Context) error {
	var payload unlockPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))
	if slug == "" || payload.Password == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Slug and password are required", nil)
	}

	rows, err := getRepo(c).ListCategories(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}
	for _, cat := range rows {
		if cat.Slug != slug {
			continue
		}
		// a non-secret category answers exactly like a wrong password
		if cat.IsSecret() && cat.Password == payload.Password {
			return ok(c, map[string]interface{}{"slug": slug, "unlocked": true})
		}
		return fail(c, http.StatusForbidden, "INVALID_PASSWORD", "Unable to unlock this collection", nil)
	}
	return fail(c, http.StatusNotFound, "NOT_FOUND", "Category not found", nil)
}

func shopGetSettings(c echo.Context) error {
	ctx := c.Request().Context()
	repo := getRepo(c)

	site, err := repo.GetSiteSettings(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query settings", err.Error())
	}
	ship, err := repo.GetShippingSettings(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query shipping settings", err.Error())
	}

	// Only active methods are offered at checkout.
	methods := make(domain.ShippingMethods, 0, len(ship.Methods))
	for _, m := range ship.Methods {
		if m.Active {
			methods = append(methods, m)
		}
	}
	def := ""
	if m := shipping.FirstActive(ship); m != nil {
		def = m.Code
	}

	return ok(c, map[string]interface{}{
		"site": site,
		"shipping": map[string]interface{}{
			"methods":        methods,
			"free_threshold": ship.FreeThreshold,
			"default_method": def,
		},
	})
}
