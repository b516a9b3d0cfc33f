package domain

import (
	"math"
	"time"
)

// TransactionType distinguishes the two ledger entry kinds.
type TransactionType string

const (
	// TxCharge is money owed by the customer. Stored with a negative amount.
	TxCharge TransactionType = "Charge"
	// TxAddFund is a deposit from the customer. Stored with a positive amount.
	TxAddFund TransactionType = "AddFund"
)

// Transaction is a single signed ledger entry for a customer. A customer's
// balance is the sum of their transactions' amounts; there is no stored
// balance anywhere.
type Transaction struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer_id"`
	// STBID links a Charge created by an STB assignment to its device.
	// Such charges are locked: they can only change through the STB.
	STBID     string          `json:"stb_id,omitempty"`
	Type      TransactionType `json:"type"`
	Amount    float64         `json:"amount"`
	Note      string          `json:"note,omitempty"`
	AddedBy   string          `json:"added_by,omitempty"`
	CreatedAt time.Time       `json:"created_at"`

	AddedByName  string `json:"added_by_name,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
}

// Locked reports whether the transaction is an STB-linked charge, which must
// be edited or deleted through the STB instead.
func (t *Transaction) Locked() bool {
	return t.Type == TxCharge && t.STBID != ""
}

// ChargeAmount normalizes a into the stored sign for a Charge entry.
func ChargeAmount(a float64) float64 { return -math.Abs(a) }

// FundAmount normalizes a into the stored sign for an AddFund entry.
func FundAmount(a float64) float64 { return math.Abs(a) }
