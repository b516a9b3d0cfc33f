package domain

import "time"

// STB is a set-top box assigned to a customer. Assignment bills the customer
// once: every STB has exactly one linked Charge transaction carrying the
// negated amount.
type STB struct {
	ID           string    `json:"id"`
	DeviceID     string    `json:"stb_id"`
	CustomerID   string    `json:"customer_id"`
	CustomerCode string    `json:"customer_code,omitempty"`
	Amount       float64   `json:"amount"`
	Note         string    `json:"note,omitempty"`
	AddedBy      string    `json:"added_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`

	// Display names populated on read paths. Never persisted.
	AddedByName  string `json:"added_by_name,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
}
