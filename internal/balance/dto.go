package balance

// CounterpartyResponse is the viewer's position against one member
type CounterpartyResponse struct {
	UserID     int64   `json:"user_id"`
	Username   string  `json:"username,omitempty"`
	Owe        float64 `json:"owe"`
	Lent       float64 `json:"lent"`
	NetBalance float64 `json:"net_balance"`
	Status     Status  `json:"status"`
}

// GroupBalanceResponse is the viewer's full position within one group
type GroupBalanceResponse struct {
	GroupID        int64                   `json:"group_id"`
	GroupName      string                  `json:"group_name,omitempty"`
	Counterparties []*CounterpartyResponse `json:"balances"`
	TotalOwed      float64                 `json:"total_owed"`
	TotalLent      float64                 `json:"total_lent"`
	NetBalance     float64                 `json:"net_balance"`
	Status         Status                  `json:"status"`
}

// GroupSummaryResponse is one group's line in the account summary
type GroupSummaryResponse struct {
	GroupID    int64   `json:"group_id"`
	GroupName  string  `json:"group_name"`
	NetBalance float64 `json:"net_balance"`
	Status     Status  `json:"status"`
}

// AccountSummaryResponse aggregates the viewer's balances across all groups
type AccountSummaryResponse struct {
	Groups     []*GroupSummaryResponse `json:"groups"`
	TotalOwed  float64                 `json:"total_owed"`
	TotalLent  float64                 `json:"total_lent"`
	NetBalance float64                 `json:"net_balance"`
	Status     Status                  `json:"status"`
}

// ParticipantResponse is one participant's share within an expense view
type ParticipantResponse struct {
	UserID    int64   `json:"user_id"`
	Username  string  `json:"username,omitempty"`
	Email     string  `json:"email,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Amount    float64 `json:"amount"`
}

// ExpenseViewResponse is one expense seen from the viewer's side
type ExpenseViewResponse struct {
	ExpenseID      int64                  `json:"expense_id"`
	Description    string                 `json:"description"`
	Amount         float64                `json:"amount"`
	PaidBy         int64                  `json:"paid_by"`
	PaidByUsername string                 `json:"paid_by_username,omitempty"`
	Participants   []*ParticipantResponse `json:"participants"`
	Status         Status                 `json:"status"`
	AmountInView   float64                `json:"amount_in_view"`
	CreatedAt      string                 `json:"created_at"`
}
