package balance

import "github.com/yassirh/fairsplit/internal/money"

// ExpenseView is one expense seen through a viewer's eyes: did they lend,
// owe, or sit this one out, and for how much. AmountInView is always
// non-negative; Status carries the direction. Participants lists every
// split holder with their share, in split order.
type ExpenseView struct {
	ExpenseID    int64
	Status       Status
	AmountInView money.Cents
	Participants []Split
}

// ViewExpense computes the viewer's position on a single expense.
//
// The viewer's owed amount is their split (zero when they are not a
// participant); the viewer's paid amount is the full expense total when they
// are the payer. The net of the two decides the status: a payer whose share
// is smaller than what they fronted has lent the difference, a participant
// who paid nothing owes their share, and anyone whose net is exactly zero
// (including non-participants) gets StatusNone.
func ViewExpense(exp Expense, viewerID int64) ExpenseView {
	var owed money.Cents
	for _, s := range exp.Splits {
		if s.UserID == viewerID {
			owed = s.Amount
			break
		}
	}

	var paid money.Cents
	if exp.PaidBy == viewerID {
		paid = exp.Amount
	}

	view := ExpenseView{ExpenseID: exp.ID, Status: StatusNone, Participants: exp.Splits}
	switch net := paid - owed; {
	case net > 0:
		view.Status = StatusLent
		view.AmountInView = net
	case net < 0:
		view.Status = StatusOwe
		view.AmountInView = -net
	}
	return view
}

// ViewExpenses maps ViewExpense over a list, preserving input order.
func ViewExpenses(expenses []Expense, viewerID int64) []ExpenseView {
	views := make([]ExpenseView, len(expenses))
	for i, exp := range expenses {
		views[i] = ViewExpense(exp, viewerID)
	}
	return views
}
