package shopapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/baggolabs/baggo/internal/cart"
	"github.com/baggolabs/baggo/internal/catalog"
	"github.com/baggolabs/baggo/internal/domain"
	"github.com/baggolabs/baggo/internal/orders"
	"github.com/baggolabs/baggo/internal/promo"
	"github.com/baggolabs/baggo/internal/webserver"
)

func registerCartRoutes() {
	webserver.PubGET("/cart/:cart", getCart)
	webserver.PubPOST("/cart/:cart/items", addCartItem)
	webserver.PubPOST("/cart/:cart/quick-add", quickAdd)
	webserver.PubPUT("/cart/:cart/items", updateCartItem)
	webserver.PubDELETE("/cart/:cart/items", removeCartItem)
	webserver.PubPOST("/cart/:cart/promo", applyCartPromo)
	webserver.PubPOST("/cart/:cart/checkout", checkout)
}

func cartID(c echo.Context) string {
	return strings.TrimSpace(c.Param("cart"))
}

func cartPayload(c echo.Context, l *cart.Ledger) map[string]interface{} {
	return map[string]interface{}{
		"items":    l.Items(),
		"count":    l.TotalQuantity(),
		"subtotal": l.Subtotal(),
	}
}

func getCart(c echo.Context) error {
	l := getApp(c).CartLedger(cartID(c))
	return ok(c, cartPayload(c, l))
}

type addItemPayload struct {
	ProductID string `json:"product_id" form:"product_id"`
	Size      string `json:"size" form:"size"`
	Image     string `json:"image" form:"image"`
	Quantity  int    `json:"quantity" form:"quantity"`
}

func addCartItem(c echo.Context) error {
	var payload addItemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse item", err.Error())
	}

	p, err := getRepo(c).GetProduct(c.Request().Context(), payload.ProductID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}
	if p == nil || !p.Visible {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}

	sel := catalog.NewSelector(p)
	if payload.Image != "" {
		sel.SetActiveImage(payload.Image)
	}
	if payload.Size != "" {
		sel.SelectSize(payload.Size)
	}
	confirmed, err := sel.Confirm()
	if err != nil {
		if errors.Is(err, catalog.ErrSizeRequired) {
			return fail(c, http.StatusBadRequest, "SIZE_REQUIRED", "Pick a size first", nil)
		}
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}
	if sel.OutOfStock() {
		return fail(c, http.StatusConflict, "OUT_OF_STOCK", "Selection is out of stock", nil)
	}

	l := getApp(c).CartLedger(cartID(c))
	l.AddItem(cart.NewItem(p, confirmed, payload.Quantity))
	return ok(c, cartPayload(c, l))
}

type quickAddPayload struct {
	ProductID string `json:"product_id" form:"product_id"`
}

// quickAdd is the one-tap add: the server picks the first in-stock
// (size, variant) pair.
func quickAdd(c echo.Context) error {
	var payload quickAddPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}

	p, err := getRepo(c).GetProduct(c.Request().Context(), payload.ProductID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}
	if p == nil || !p.Visible {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	if !catalog.HasAnyStock(p) {
		return fail(c, http.StatusConflict, "OUT_OF_STOCK", "Product is out of stock", nil)
	}

	pick := catalog.PickFirstInStock(p)
	sel := catalog.NewSelector(p)
	if pick.Image != "" {
		sel.SetActiveImage(pick.Image)
	}
	if pick.Size != "" {
		sel.SelectSize(pick.Size)
	}
	confirmed, err := sel.Confirm()
	if err != nil {
		return fail(c, http.StatusConflict, "OUT_OF_STOCK", "No in-stock selection available", nil)
	}

	l := getApp(c).CartLedger(cartID(c))
	l.AddItem(cart.NewItem(p, confirmed, 1))
	return ok(c, cartPayload(c, l))
}

type updateItemPayload struct {
	ProductID    string `json:"product_id" form:"product_id"`
	Size         string `json:"size" form:"size"`
	VariantIndex *int   `json:"variantIndex" form:"variantIndex"`
	Image        string `json:"image" form:"image"`
	Quantity     int    `json:"quantity" form:"quantity"`
}

func (p updateItemPayload) variant() int {
	if p.VariantIndex == nil {
		return catalog.NoVariant
	}
	return *p.VariantIndex
}

// updateCartItem sets a line's quantity, clamped against live stock.
// Stock may have changed since the line was added; the ledger itself
// does not re-validate, so the clamp lives here at the boundary.
func updateCartItem(c echo.Context) error {
	var payload updateItemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse item", err.Error())
	}

	qty := payload.Quantity
	if qty > 0 && payload.Size != "" {
		p, err := getRepo(c).GetProduct(c.Request().Context(), payload.ProductID)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
		}
		if p != nil {
			if max := catalog.QuantityFor(p, payload.Size, payload.variant()); qty > max {
				qty = max
			}
		}
	}

	l := getApp(c).CartLedger(cartID(c))
	l.UpdateQuantity(payload.ProductID, payload.Size, qty, payload.variant(), payload.Image)
	return ok(c, cartPayload(c, l))
}

func removeCartItem(c echo.Context) error {
	var payload updateItemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse item", err.Error())
	}
	l := getApp(c).CartLedger(cartID(c))
	l.RemoveItem(payload.ProductID, payload.Size, payload.variant(), payload.Image)
	return ok(c, cartPayload(c, l))
}

type promoPayload struct {
	Code string `json:"code" form:"code"`
}

// applyCartPromo validates a code against the cart's current subtotal
// and returns the would-be totals. Nothing is stored; the storefront
// passes the code again at checkout.
func applyCartPromo(c echo.Context) error {
	var payload promoPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse code", err.Error())
	}

	appctx := getApp(c)
	l := appctx.CartLedger(cartID(c))
	subtotal := l.Subtotal()

	p, err := appctx.Orders().ApplyPromo(c.Request().Context(), payload.Code, subtotal)
	if err != nil {
		return fail(c, http.StatusUnprocessableEntity, "INVALID_PROMO", err.Error(), nil)
	}
	if p == nil {
		return ok(c, map[string]interface{}{"subtotal": subtotal, "discount": 0})
	}
	return ok(c, map[string]interface{}{
		"code":     p.Code,
		"type":     p.Type,
		"value":    p.Value,
		"subtotal": subtotal,
		"discount": promo.Discount(p, subtotal),
	})
}

type checkoutPayload struct {
	Customer       domain.Customer `json:"customer"`
	PromoCode      string          `json:"promo_code" form:"promo_code"`
	DeliveryMethod string          `json:"delivery_method" form:"delivery_method"`
}

// checkout snapshots the cart into an order and returns the wa.me
// link. The cart is cleared only after the order is built.
func checkout(c echo.Context) error {
	var payload checkoutPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse checkout", err.Error())
	}

	appctx := getApp(c)
	l := appctx.CartLedger(cartID(c))
	items := l.Items()
	if len(items) == 0 {
		return fail(c, http.StatusBadRequest, "EMPTY_CART", "Cart is empty", nil)
	}

	ctx := c.Request().Context()
	var applied *domain.PromoCode
	if payload.PromoCode != "" {
		p, err := appctx.Orders().ApplyPromo(ctx, payload.PromoCode, l.Subtotal())
		if err != nil {
			return fail(c, http.StatusUnprocessableEntity, "INVALID_PROMO", err.Error(), nil)
		}
		applied = p
	}

	rec, err := appctx.Orders().Checkout(ctx, orders.CheckoutInput{
		Items:          items,
		Customer:       payload.Customer,
		Promo:          applied,
		DeliveryMethod: payload.DeliveryMethod,
	})
	if err != nil {
		if errors.Is(err, orders.ErrNoWhatsApp) {
			return fail(c, http.StatusServiceUnavailable, "NO_WHATSAPP", "WhatsApp number is not set", nil)
		}
		return fail(c, http.StatusInternalServerError, "CHECKOUT_ERROR", "Checkout failed", err.Error())
	}
	l.Clear()

	return ok(c, rec)
}
