package balance

import (
	"testing"

	"github.com/yassirh/fairsplit/internal/money"
)

func TestViewExpense(t *testing.T) {
	// A paid 50.00 with custom splits A:0, B:25, C:25.
	custom := Expense{
		ID: 7, Amount: 5000, PaidBy: 1,
		Splits: []Split{{UserID: 1, Amount: 0}, {UserID: 2, Amount: 2500}, {UserID: 3, Amount: 2500}},
	}
	// B paid 100.00 split equally three ways.
	equal := Expense{
		ID: 8, Amount: 10000, PaidBy: 2,
		Splits: []Split{{UserID: 1, Amount: 3334}, {UserID: 2, Amount: 3333}, {UserID: 3, Amount: 3333}},
	}

	tests := []struct {
		name       string
		exp        Expense
		viewerID   int64
		wantStatus Status
		wantAmount money.Cents
	}{
		{"payer with zero share lent the full amount", custom, 1, StatusLent, 5000},
		{"participant owes their share", custom, 2, StatusOwe, 2500},
		{"non-participant sees nothing", custom, 9, StatusNone, 0},
		{"payer lent total minus own share", equal, 2, StatusLent, 6667},
		{"equal-split participant owes the absorbed share", equal, 1, StatusOwe, 3334},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ViewExpense(tt.exp, tt.viewerID)
			if v.ExpenseID != tt.exp.ID {
				t.Errorf("ExpenseID = %d, want %d", v.ExpenseID, tt.exp.ID)
			}
			if v.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", v.Status, tt.wantStatus)
			}
			if v.AmountInView != tt.wantAmount {
				t.Errorf("AmountInView = %d, want %d", v.AmountInView, tt.wantAmount)
			}
			if v.AmountInView < 0 {
				t.Errorf("AmountInView must be non-negative, got %d", v.AmountInView)
			}
		})
	}
}

// Every split holder appears in the view's participant list with their
// share, in split order, regardless of who is looking.
func TestViewExpenseCarriesParticipants(t *testing.T) {
	exp := Expense{
		ID: 4, Amount: 10000, PaidBy: 2,
		Splits: []Split{{UserID: 1, Amount: 3334}, {UserID: 2, Amount: 3333}, {UserID: 3, Amount: 3333}},
	}

	for _, viewerID := range []int64{1, 2, 9} {
		v := ViewExpense(exp, viewerID)
		if len(v.Participants) != len(exp.Splits) {
			t.Fatalf("viewer %d: got %d participants, want %d", viewerID, len(v.Participants), len(exp.Splits))
		}
		for i, p := range v.Participants {
			if p != exp.Splits[i] {
				t.Errorf("viewer %d: Participants[%d] = %+v, want %+v", viewerID, i, p, exp.Splits[i])
			}
		}
	}
}

// A payer whose own share equals the total nets to zero.
func TestViewExpensePayerCoversOwnShare(t *testing.T) {
	exp := Expense{
		ID: 1, Amount: 1500, PaidBy: 1,
		Splits: []Split{{UserID: 1, Amount: 1500}},
	}
	v := ViewExpense(exp, 1)
	if v.Status != StatusNone || v.AmountInView != 0 {
		t.Errorf("got %+v, want none/0", v)
	}
}

func TestViewExpensesPreservesOrder(t *testing.T) {
	expenses := []Expense{
		{ID: 3, Amount: 100, PaidBy: 1, Splits: []Split{{UserID: 2, Amount: 100}}},
		{ID: 1, Amount: 200, PaidBy: 2, Splits: []Split{{UserID: 1, Amount: 200}}},
		{ID: 2, Amount: 300, PaidBy: 3, Splits: []Split{{UserID: 3, Amount: 300}}},
	}

	views := ViewExpenses(expenses, 1)
	if len(views) != 3 {
		t.Fatalf("got %d views, want 3", len(views))
	}
	wantIDs := []int64{3, 1, 2}
	wantStatus := []Status{StatusLent, StatusOwe, StatusNone}
	for i := range views {
		if views[i].ExpenseID != wantIDs[i] {
			t.Errorf("views[%d].ExpenseID = %d, want %d", i, views[i].ExpenseID, wantIDs[i])
		}
		if views[i].Status != wantStatus[i] {
			t.Errorf("views[%d].Status = %q, want %q", i, views[i].Status, wantStatus[i])
		}
	}
}
