package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/baggolabs/baggo/internal/cart"
	"github.com/baggolabs/baggo/internal/domain"
	"github.com/baggolabs/baggo/internal/promo"
	"github.com/baggolabs/baggo/internal/shipping"
	"github.com/baggolabs/baggo/internal/store"
	"github.com/baggolabs/baggo/pkg/common"
)

// Totals is the checkout money breakdown. Discount is already clamped
// to [0, Subtotal], so Total never goes negative.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// ComputeTotals applies the promo against the subtotal first, then
// judges the free-shipping threshold on the discounted base total.
func ComputeTotals(subtotal float64, p *domain.PromoCode, ship *domain.ShippingSettings, methodCode string) Totals {
	discount := promo.Discount(p, subtotal)
	baseTotal := subtotal - discount
	if baseTotal < 0 {
		baseTotal = 0
	}
	fee := shipping.Fee(ship, methodCode, baseTotal)
	total := baseTotal + fee
	if total < 0 {
		total = 0
	}
	return Totals{Subtotal: subtotal, Discount: discount, Shipping: fee, Total: total}
}

// Service turns a cart into a stored order plus a pre-filled
// WhatsApp checkout link.
type Service struct {
	repo store.Repository
	pool *ants.Pool
}

func NewService(repo store.Repository, pool *ants.Pool) *Service {
	return &Service{repo: repo, pool: pool}
}

// ApplyPromo validates a code against the current subtotal. An empty
// code clears the applied promo without error.
func (s *Service) ApplyPromo(ctx context.Context, code string, subtotal float64) (*domain.PromoCode, error) {
	code = promo.Normalize(code)
	if code == "" {
		return nil, nil
	}
	p, err := s.repo.GetPromoByCode(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "lookup promo")
	}
	if err := promo.Check(p, subtotal, time.Now()); err != nil {
		return nil, err
	}
	return p, nil
}

// CheckoutInput carries everything the cart screen knows at the moment
// the buyer taps checkout.
type CheckoutInput struct {
	Items          []cart.Item
	Customer       domain.Customer
	Promo          *domain.PromoCode
	DeliveryMethod string
}

// Receipt is what the storefront shows on the order-success screen.
type Receipt struct {
	Order       *domain.Order `json:"order"`
	WhatsAppURL string        `json:"whatsapp_url"`
}

// Checkout builds the order snapshot, persists it, and returns the
// wa.me link. The order id is generated up front so the link can carry
// it without reading the insert back. A failed insert is logged and
// the checkout still proceeds to WhatsApp.
func (s *Service) Checkout(ctx context.Context, in CheckoutInput) (*Receipt, error) {
	if len(in.Items) == 0 {
		return nil, errors.New("cart is empty")
	}

	site, err := s.repo.GetSiteSettings(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load site settings")
	}
	phone := common.DigitsOnly(site.Whatsapp)
	if phone == "" {
		return nil, ErrNoWhatsApp
	}

	ship, err := s.repo.GetShippingSettings(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load shipping settings")
	}
	method := in.DeliveryMethod
	if method == "" {
		if m := shipping.FirstActive(ship); m != nil {
			method = m.Code
		}
	}

	subtotal := 0.0
	lines := make(domain.OrderItems, 0, len(in.Items))
	for _, it := range in.Items {
		subtotal += it.UnitPrice() * float64(it.Quantity)
		lines = append(lines, domain.OrderItem{
			ProductID:    it.ProductID,
			Name:         it.Name,
			Price:        it.UnitPrice(),
			Quantity:     it.Quantity,
			Size:         it.Size,
			VariantIndex: it.VariantIndex,
			Image:        it.Image,
		})
	}
	totals := ComputeTotals(subtotal, in.Promo, ship, method)

	order := &domain.Order{
		ID:             uuid.NewString(),
		Status:         domain.OrderStatusNew,
		Customer:       in.Customer,
		Items:          lines,
		DeliveryMethod: method,
		Notes:          in.Customer.Notes,
		Subtotal:       totals.Subtotal,
		Discount:       totals.Discount,
		Shipping:       totals.Shipping,
		Total:          totals.Total,
		CreatedAt:      time.Now(),
	}
	if in.Promo != nil {
		order.PromoCode = in.Promo.Code
	}
	s.persist(order)

	methodLabel := method
	if m := shipping.FindMethod(ship, method); m != nil {
		methodLabel = m.Label
	}
	msg := BuildMessage(MessageInput{
		StoreName:   site.SiteName,
		OrderID:     order.ID,
		Customer:    in.Customer,
		Items:       in.Items,
		PromoCode:   order.PromoCode,
		MethodLabel: methodLabel,
		Totals:      totals,
	})
	return &Receipt{Order: order, WhatsAppURL: WhatsAppURL(phone, msg)}, nil
}

// persist writes the order through the worker pool when one is
// attached, falling back to an inline write.
func (s *Service) persist(order *domain.Order) {
	save := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.repo.CreateOrder(ctx, order); err != nil {
			zap.L().Warn("order insert failed",
				zap.String("order_id", order.ID), zap.Error(err))
		}
	}
	if s.pool != nil {
		if err := s.pool.Submit(save); err == nil {
			return
		}
	}
	save()
}
