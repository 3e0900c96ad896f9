package expense

import "github.com/yassirh/fairsplit/internal/money"

// CustomSplitAmount is a caller-specified share for one participant
type CustomSplitAmount struct {
	UserID int64   `json:"user_id" validate:"required"`
	Amount float64 `json:"amount" validate:"gte=0"`
}

// CreateExpenseRequest represents the request to create an expense. The
// amount may be sent as a number or as a decimal string ("42.50", "42,50").
type CreateExpenseRequest struct {
	GroupID      int64               `json:"group_id" validate:"required"`
	Description  string              `json:"description" validate:"required,min=1,max=255"`
	Amount       money.Cents         `json:"amount" validate:"required,gt=0" swaggertype:"number"`
	PaidBy       *int64              `json:"paid_by,omitempty"`
	Participants []int64             `json:"participants" validate:"required,min=1"`
	Splits       []CustomSplitAmount `json:"splits,omitempty"`
}

// UpdateExpenseRequest represents the request to edit an expense.
// Omitted fields keep their current values; participants default to the
// current participant set. Splits are regenerated from scratch either way.
type UpdateExpenseRequest struct {
	Description  *string             `json:"description,omitempty" validate:"omitempty,min=1,max=255"`
	Amount       *money.Cents        `json:"amount,omitempty" validate:"omitempty,gt=0" swaggertype:"number"`
	PaidBy       *int64              `json:"paid_by,omitempty"`
	Participants []int64             `json:"participants,omitempty"`
	Splits       []CustomSplitAmount `json:"splits,omitempty"`
}

// DisputeSplitRequest represents the request to dispute a split
type DisputeSplitRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=500"`
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID            int64            `json:"id"`
	GroupID       int64            `json:"group_id"`
	PayerID       int64            `json:"payer_id"`
	PayerUsername string           `json:"payer_username,omitempty"`
	CreatedBy     int64            `json:"created_by"`
	Description   string           `json:"description"`
	Amount        float64          `json:"amount"`
	CreatedAt     string           `json:"created_at"`
	Splits        []*SplitResponse `json:"splits,omitempty"`
}

// SplitResponse represents the response for a split
type SplitResponse struct {
	ID            int64       `json:"id"`
	ExpenseID     int64       `json:"expense_id"`
	UserID        int64       `json:"user_id"`
	Username      string      `json:"username,omitempty"`
	Amount        float64     `json:"amount"`
	Status        SplitStatus `json:"status"`
	DisputeReason *string     `json:"dispute_reason,omitempty"`
	SettlementID  *int64      `json:"settlement_id,omitempty"`
	UpdatedAt     string      `json:"updated_at"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	resp := &ExpenseResponse{
		ID:            e.ID,
		GroupID:       e.GroupID,
		PayerID:       e.PayerID,
		PayerUsername: e.PayerUsername,
		CreatedBy:     e.CreatedBy,
		Description:   e.Description,
		Amount:        e.Amount.Float(),
		CreatedAt:     e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if len(e.Splits) > 0 {
		resp.Splits = make([]*SplitResponse, len(e.Splits))
		for i, s := range e.Splits {
			resp.Splits[i] = s.ToResponse()
		}
	}
	return resp
}

// ToResponse converts a Split model to a SplitResponse DTO
func (s *Split) ToResponse() *SplitResponse {
	return &SplitResponse{
		ID:            s.ID,
		ExpenseID:     s.ExpenseID,
		UserID:        s.UserID,
		Username:      s.Username,
		Amount:        s.Amount.Float(),
		Status:        s.Status,
		DisputeReason: s.DisputeReason,
		SettlementID:  s.SettlementID,
		UpdatedAt:     s.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
