package cart

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/minaato/minaato-backend/internal/orders"
)

// CheckoutDetails are the customer fields rendered into handoff messages.
type CheckoutDetails struct {
	Name           string
	Phone          string
	Address        string
	DeliveryOption string
	Notes          string
}

// FormatAmount renders a GHS amount with two decimals, e.g. "GHS 20.50".
func FormatAmount(amount decimal.Decimal) string {
	return "GHS " + amount.StringFixed(2)
}

// OrderMessage renders the order summary sent over WhatsApp or email.
func OrderMessage(lines []orders.CartLine, total decimal.Decimal, d CheckoutDetails) string {
	items := make([]string, 0, len(lines))
	for _, l := range lines {
		items = append(items, fmt.Sprintf("%s x %d", l.Name, l.Qty))
	}
	return fmt.Sprintf("Order from %s\nPhone: %s\nOption: %s\nAddress: %s\nItems: %s\nTotal: %s\nNotes: %s",
		d.Name, d.Phone, d.DeliveryOption, d.Address, strings.Join(items, ", "), FormatAmount(total), d.Notes)
}

// WhatsAppURL builds a wa.me link that opens a chat with the message
// prefilled. number is digits only, no leading plus.
func WhatsAppURL(number, message string) string {
	return "https://wa.me/" + number + "?text=" + escape(message)
}

// MailtoURL builds a mailto link with subject and body prefilled.
func MailtoURL(email, subject, body string) string {
	return "mailto:" + email + "?subject=" + escape(subject) + "&body=" + escape(body)
}

// escape percent-encodes for a URL query, with spaces as %20 rather than
// '+' so the links work in chat apps and mail clients alike.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
