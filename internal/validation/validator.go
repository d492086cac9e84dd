package validation

import (
	"encoding/json"
	"math"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/minaato/minaato-backend/internal/orders"
)

const defaultDeliveryOption = "pickup"

// Validator turns untrusted checkout payloads into sanitized order drafts.
type Validator struct {
	v *validatorv10.Validate
}

// New returns a configured validator with the whole-number rule registered.
func New() *Validator {
	v := validatorv10.New()

	// qty arrives as a JSON number; reject fractional quantities.
	_ = v.RegisterValidation("whole", func(fl validatorv10.FieldLevel) bool {
		f := fl.Field().Float()
		return f == math.Trunc(f)
	})

	return &Validator{v: v}
}

// Validate evaluates every rule independently and returns the sanitized
// draft alongside the collected violations. The draft is always returned;
// callers must only trust it when the error list is empty.
func (val *Validator) Validate(payload CheckoutPayload) (orders.OrderDraft, []FieldError) {
	items := parseItems(payload.Items)

	draft := orders.OrderDraft{
		Name:           strings.TrimSpace(payload.Name),
		Phone:          strings.TrimSpace(payload.Phone),
		Address:        strings.TrimSpace(payload.Address),
		DeliveryOption: strings.TrimSpace(payload.DeliveryOption),
		Items:          sanitizedLines(items),
	}
	if draft.DeliveryOption == "" {
		draft.DeliveryOption = defaultDeliveryOption
	}

	req := checkoutRequest{
		Name:  draft.Name,
		Phone: draft.Phone,
		Items: items,
	}

	var fieldErrors []FieldError
	if err := val.v.Struct(req); err != nil {
		fieldErrors = translate(err)
	}
	return draft, fieldErrors
}

// parseItems decodes the raw items value. A missing or non-array value is
// an empty list; an element that is not a well-formed item contributes an
// empty entry whose required checks then fail at that index.
func parseItems(raw json.RawMessage) []itemRequest {
	if len(raw) == 0 {
		return nil
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil
	}

	items := make([]itemRequest, len(elements))
	for i, el := range elements {
		var fields map[string]any
		if err := json.Unmarshal(el, &fields); err != nil {
			continue
		}
		if s, ok := fields["id"].(string); ok {
			items[i].ID = strings.TrimSpace(s)
		}
		if s, ok := fields["name"].(string); ok {
			items[i].Name = strings.TrimSpace(s)
		}
		if f, ok := fields["price"].(float64); ok {
			price := f
			items[i].Price = &price
		}
		if f, ok := fields["qty"].(float64); ok {
			qty := f
			items[i].Qty = &qty
		}
	}
	return items
}

func sanitizedLines(items []itemRequest) []orders.CartLine {
	if len(items) == 0 {
		return []orders.CartLine{}
	}
	lines := make([]orders.CartLine, len(items))
	for i, it := range items {
		lines[i] = orders.CartLine{ID: it.ID, Name: it.Name}
		if it.Price != nil {
			lines[i].Price = *it.Price
		}
		if it.Qty != nil {
			lines[i].Qty = int(*it.Qty)
		}
	}
	return lines
}

// translate maps validator namespaces like "checkoutRequest.Items[0].ID"
// onto the public field addresses ("items[0].id") and their messages.
func translate(err error) []FieldError {
	ve, ok := err.(validatorv10.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "payload", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(ve))
	for _, fe := range ve {
		ns := fe.StructNamespace()
		field := strings.ToLower(strings.TrimPrefix(ns, "checkoutRequest."))
		out = append(out, FieldError{Field: field, Message: messageFor(field)})
	}
	return out
}

func messageFor(field string) string {
	switch {
	case field == "name":
		return "Name is required"
	case field == "phone":
		return "Phone is required"
	case field == "items":
		return "At least one item is required"
	case strings.HasSuffix(field, ".id"):
		return "Item id is required"
	case strings.HasSuffix(field, ".name"):
		return "Item name is required"
	case strings.HasSuffix(field, ".price"):
		return "Price must be a non-negative number"
	case strings.HasSuffix(field, ".qty"):
		return "Quantity must be a positive integer"
	default:
		return "Invalid value"
	}
}
