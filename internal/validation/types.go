package validation

import "encoding/json"

// FieldError addresses one invalid field of a checkout payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CheckoutPayload is the raw POST /orders body. Items stays raw so a
// missing or non-array value degrades to an empty item list instead of a
// bind failure; per-field junk inside an item degrades per item.
type CheckoutPayload struct {
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	Address        string          `json:"address"`
	DeliveryOption string          `json:"deliveryOption"`
	Items          json.RawMessage `json:"items"`
}

// checkoutRequest is the typed form the validator runs over. Pointer
// fields distinguish absent from zero where the distinction matters.
type checkoutRequest struct {
	Name  string        `validate:"required"`
	Phone string        `validate:"required"`
	Items []itemRequest `validate:"min=1,dive"`
}

// Qty is capped at MaxInt32 so the float value always survives the
// conversion to int in the sanitized draft.
type itemRequest struct {
	ID    string   `validate:"required"`
	Name  string   `validate:"required"`
	Price *float64 `validate:"required,gte=0"`
	Qty   *float64 `validate:"required,whole,gte=1,lte=2147483647"`
}
