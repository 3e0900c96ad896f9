package settlement

import (
	"time"

	"github.com/yassirh/fairsplit/internal/money"
)

// SettlementStatus represents the lifecycle state of a settlement
type SettlementStatus string

const (
	SettlementStatusPending   SettlementStatus = "PENDING"
	SettlementStatusPaid      SettlementStatus = "PAID"
	SettlementStatusConfirmed SettlementStatus = "CONFIRMED"
	SettlementStatusRejected  SettlementStatus = "REJECTED"
)

// Settlement represents a bulk payment clearing the open splits between
// two users
type Settlement struct {
	ID           int64            `json:"id"`
	PayerID      int64            `json:"payer_id"`
	ReceiverID   int64            `json:"receiver_id"`
	Amount       money.Cents      `json:"amount"`
	CurrencyCode string           `json:"currency_code"`
	Status       SettlementStatus `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`

	// Populated via JOIN
	PayerUsername    string `json:"payer_username,omitempty"`
	ReceiverUsername string `json:"receiver_username,omitempty"`
}

// NetBalance is the open pairwise debt against one other user.
// Positive means the viewer owes them.
type NetBalance struct {
	UserID   int64
	Username string
	Amount   money.Cents
}
