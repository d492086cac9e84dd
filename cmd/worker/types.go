package main

// Notification is one merchant-facing message produced from an order
// event. Channel is "whatsapp" or "email"; Target is the number or
// address the message is for.
type Notification struct {
	Channel string `json:"channel"`
	Target  string `json:"target"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
}
