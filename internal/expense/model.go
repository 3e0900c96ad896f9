package expense

import (
	"time"

	"github.com/yassirh/fairsplit/internal/money"
)

// SplitStatus represents the lifecycle state of a split
type SplitStatus string

const (
	SplitStatusPending   SplitStatus = "PENDING"
	SplitStatusPaid      SplitStatus = "PAID"
	SplitStatusConfirmed SplitStatus = "CONFIRMED"
	SplitStatusDisputed  SplitStatus = "DISPUTED"
)

// Expense represents a shared expense in a group
type Expense struct {
	ID          int64       `json:"id"`
	GroupID     int64       `json:"group_id"`
	PayerID     int64       `json:"payer_id"`
	CreatedBy   int64       `json:"created_by"`
	Description string      `json:"description"`
	Amount      money.Cents `json:"amount"`
	CreatedAt   time.Time   `json:"created_at"`

	// Populated via JOIN
	PayerUsername string `json:"payer_username,omitempty"`

	// Populated separately
	Splits []*Split `json:"splits,omitempty"`
}

// Split is one participant's share of an expense. The payer gets a split
// row like everyone else; it records their own share, not a debt.
type Split struct {
	ID            int64       `json:"id"`
	ExpenseID     int64       `json:"expense_id"`
	UserID        int64       `json:"user_id"`
	Amount        money.Cents `json:"amount"`
	Status        SplitStatus `json:"status"`
	DisputeReason *string     `json:"dispute_reason,omitempty"`
	SettlementID  *int64      `json:"settlement_id,omitempty"`
	UpdatedAt     time.Time   `json:"updated_at"`

	// Populated via JOIN
	Username string `json:"username,omitempty"`
}
