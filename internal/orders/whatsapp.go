package orders

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/baggolabs/baggo/internal/cart"
	"github.com/baggolabs/baggo/internal/catalog"
	"github.com/baggolabs/baggo/internal/domain"
	"github.com/pkg/errors"
)

// ErrNoWhatsApp means the store owner has not configured a WhatsApp
// number yet, so there is nowhere to send the order message.
var ErrNoWhatsApp = errors.New("whatsapp number is not set")

// money renders amounts the way the storefront does: no trailing
// zeros, so $29 stays $29 and $29.5 stays $29.5.
func money(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type MessageInput struct {
	StoreName   string
	OrderID     string
	Customer    domain.Customer
	Items       []cart.Item
	PromoCode   string
	MethodLabel string
	Totals      Totals
}

// BuildMessage renders the pre-filled order text. Lines carry the
// resolved unit price and, for discounted items, the crossed-out base
// price. Variant lines show a human 1-based marker like (v2).
func BuildMessage(in MessageInput) string {
	var b strings.Builder

	b.WriteString("🛍️ *New Order — ")
	b.WriteString(in.StoreName)
	b.WriteString("*")
	if in.OrderID != "" {
		b.WriteString("\nOrder ID: *")
		b.WriteString(in.OrderID)
		b.WriteString("*")
	}
	b.WriteString("\n\n")

	var contact []string
	if in.Customer.Name != "" {
		contact = append(contact, "Name: *"+in.Customer.Name+"*")
	}
	if in.Customer.Phone != "" {
		contact = append(contact, "Phone: *"+in.Customer.Phone+"*")
	}
	if in.Customer.Address != "" {
		contact = append(contact, "Address: *"+in.Customer.Address+"*")
	}
	if in.Customer.Notes != "" {
		contact = append(contact, "Notes: "+in.Customer.Notes)
	}
	if len(contact) > 0 {
		b.WriteString(strings.Join(contact, "\n"))
		b.WriteString("\n\n")
	}

	for i, it := range in.Items {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("• ")
		b.WriteString(it.Name)
		if it.Size != "" {
			fmt.Fprintf(&b, " (%s)", it.Size)
		}
		if it.VariantIndex != catalog.NoVariant {
			fmt.Fprintf(&b, " (v%d)", it.VariantIndex+1)
		}
		unit := it.UnitPrice()
		lineTotal := unit * float64(it.Quantity)
		if it.HasDiscount() {
			fmt.Fprintf(&b, "\n  Qty: %d × $%s (was $%s) = $%s",
				it.Quantity, money(unit), money(it.BasePrice), money(lineTotal))
		} else {
			fmt.Fprintf(&b, "\n  Qty: %d × $%s = $%s",
				it.Quantity, money(unit), money(lineTotal))
		}
	}

	b.WriteString("\n\n——————————\n")
	fmt.Fprintf(&b, "Subtotal: *$%s*", money(in.Totals.Subtotal))
	if in.PromoCode != "" {
		fmt.Fprintf(&b, "\nPromo: *%s* (-$%s)", in.PromoCode, money(in.Totals.Discount))
	}
	label := in.MethodLabel
	if label == "" {
		label = "Delivery"
	}
	fmt.Fprintf(&b, "\nDelivery: *%s* (+$%s)", label, money(in.Totals.Shipping))
	fmt.Fprintf(&b, "\nTotal: *$%s*", money(in.Totals.Total))
	b.WriteString("\n——————————\n\nPlease confirm availability.")

	return b.String()
}

// WhatsAppURL builds the wa.me deep link for an already-sanitized
// digits-only phone number.
func WhatsAppURL(phone, message string) string {
	q := url.Values{"text": {message}}
	return "https://wa.me/" + phone + "?" + q.Encode()
}
