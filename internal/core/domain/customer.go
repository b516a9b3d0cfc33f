package domain

import "time"

// Customer is a subscriber of the cable service. STBs and transactions
// reference the customer by ID; the customer document itself holds nothing
// derived, balance and device counts are always computed from the ledger.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	AddedBy   string    `json:"added_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// AddedByName is populated from the users collection on read paths that
	// display the creator. Never persisted.
	AddedByName string `json:"added_by_name,omitempty"`
}
