package balance

import "testing"

func findCounterparty(t *testing.T, gb GroupBalance, userID int64) CounterpartyBalance {
	t.Helper()
	for _, c := range gb.PerCounterparty {
		if c.UserID == userID {
			return c
		}
	}
	t.Fatalf("no entry for counterparty %d in %+v", userID, gb.PerCounterparty)
	return CounterpartyBalance{}
}

func TestComputeGroupEmptyExpenses(t *testing.T) {
	gb := ComputeGroup(1, []int64{1, 2, 3}, nil)

	if len(gb.PerCounterparty) != 2 {
		t.Fatalf("got %d counterparties, want 2 (viewer excluded)", len(gb.PerCounterparty))
	}
	for _, c := range gb.PerCounterparty {
		if c.UserID == 1 {
			t.Errorf("viewer must not appear as a counterparty")
		}
		if c.Owe != 0 || c.Lent != 0 || c.NetBalance != 0 {
			t.Errorf("counterparty %d not zero-valued: %+v", c.UserID, c)
		}
		if c.Status != StatusSettled {
			t.Errorf("counterparty %d status = %q, want settled", c.UserID, c.Status)
		}
	}
	if gb.TotalOwed != 0 || gb.TotalLent != 0 || gb.NetBalance != 0 || gb.Status != StatusSettled {
		t.Errorf("group totals not zero/settled: %+v", gb)
	}
}

// One expense, A paid, B's share is s: A sees {B: lent s}, B sees {A: owe s}.
func TestComputeGroupSymmetry(t *testing.T) {
	expenses := []Expense{{
		ID:     1,
		Amount: 5000,
		PaidBy: 1,
		Splits: []Split{{UserID: 1, Amount: 2500}, {UserID: 2, Amount: 2500}},
	}}
	members := []int64{1, 2}

	fromA := ComputeGroup(1, members, expenses)
	b := findCounterparty(t, fromA, 2)
	if b.Lent != 2500 || b.Owe != 0 || b.Status != StatusLent || b.NetBalance != 2500 {
		t.Errorf("A's view of B = %+v, want lent 2500", b)
	}
	if fromA.TotalLent != 2500 || fromA.TotalOwed != 0 || fromA.NetBalance != -2500 || fromA.Status != StatusLent {
		t.Errorf("A's totals = %+v", fromA)
	}

	fromB := ComputeGroup(2, members, expenses)
	a := findCounterparty(t, fromB, 1)
	if a.Owe != 2500 || a.Lent != 0 || a.Status != StatusOwe || a.NetBalance != 2500 {
		t.Errorf("B's view of A = %+v, want owe 2500", a)
	}
	if fromB.TotalOwed != 2500 || fromB.NetBalance != 2500 || fromB.Status != StatusOwe {
		t.Errorf("B's totals = %+v", fromB)
	}
}

func TestComputeGroupMutualDebtsNetOut(t *testing.T) {
	expenses := []Expense{
		{
			ID: 1, Amount: 4000, PaidBy: 1,
			Splits: []Split{{UserID: 1, Amount: 2000}, {UserID: 2, Amount: 2000}},
		},
		{
			ID: 2, Amount: 4000, PaidBy: 2,
			Splits: []Split{{UserID: 1, Amount: 2000}, {UserID: 2, Amount: 2000}},
		},
	}

	gb := ComputeGroup(1, []int64{1, 2}, expenses)
	c := findCounterparty(t, gb, 2)
	if c.Owe != 2000 || c.Lent != 2000 {
		t.Errorf("counterparty accumulation = %+v, want owe 2000 lent 2000", c)
	}
	if c.NetBalance != 0 || c.Status != StatusSettled {
		t.Errorf("mutual debts should settle, got %+v", c)
	}
	if gb.NetBalance != 0 || gb.Status != StatusSettled {
		t.Errorf("group should be settled, got %+v", gb)
	}
}

// Splits between two non-viewers stay out of the viewer's table.
func TestComputeGroupIgnoresUnrelatedSplits(t *testing.T) {
	expenses := []Expense{{
		ID: 1, Amount: 6000, PaidBy: 2,
		Splits: []Split{{UserID: 2, Amount: 3000}, {UserID: 3, Amount: 3000}},
	}}

	gb := ComputeGroup(1, []int64{1, 2, 3}, expenses)
	for _, c := range gb.PerCounterparty {
		if c.Owe != 0 || c.Lent != 0 || c.Status != StatusSettled {
			t.Errorf("counterparty %d should be untouched: %+v", c.UserID, c)
		}
	}
	if gb.TotalOwed != 0 || gb.TotalLent != 0 {
		t.Errorf("totals should be zero, got %+v", gb)
	}
}

// A payer who is no longer in the member list still gets an entry.
func TestComputeGroupUnknownPayerDegradesToEntry(t *testing.T) {
	expenses := []Expense{{
		ID: 1, Amount: 3000, PaidBy: 9,
		Splits: []Split{{UserID: 1, Amount: 3000}},
	}}

	gb := ComputeGroup(1, []int64{1, 2}, expenses)
	c := findCounterparty(t, gb, 9)
	if c.Owe != 3000 || c.Status != StatusOwe {
		t.Errorf("unknown payer entry = %+v, want owe 3000", c)
	}
}

func TestComputeGroupPayerShareIsNotADebt(t *testing.T) {
	// A paid 50 with custom splits A:0, B:25, C:25.
	expenses := []Expense{{
		ID: 1, Amount: 5000, PaidBy: 1,
		Splits: []Split{{UserID: 1, Amount: 0}, {UserID: 2, Amount: 2500}, {UserID: 3, Amount: 2500}},
	}}

	gb := ComputeGroup(1, []int64{1, 2, 3}, expenses)
	if gb.TotalLent != 5000 {
		t.Errorf("TotalLent = %d, want 5000", gb.TotalLent)
	}
	if gb.TotalOwed != 0 {
		t.Errorf("TotalOwed = %d, want 0", gb.TotalOwed)
	}
	for _, id := range []int64{2, 3} {
		if c := findCounterparty(t, gb, id); c.Lent != 2500 || c.Status != StatusLent {
			t.Errorf("counterparty %d = %+v, want lent 2500", id, c)
		}
	}
}

func TestComputeGroupCounterpartyOrderFollowsMembers(t *testing.T) {
	gb := ComputeGroup(2, []int64{5, 2, 9, 1}, nil)
	want := []int64{5, 9, 1}
	if len(gb.PerCounterparty) != len(want) {
		t.Fatalf("got %d counterparties, want %d", len(gb.PerCounterparty), len(want))
	}
	for i, id := range want {
		if gb.PerCounterparty[i].UserID != id {
			t.Errorf("PerCounterparty[%d].UserID = %d, want %d", i, gb.PerCounterparty[i].UserID, id)
		}
	}
}

func TestSummarizeAccount(t *testing.T) {
	groups := []GroupBalance{
		{TotalOwed: 3334, TotalLent: 0},
		{TotalOwed: 0, TotalLent: 5000},
		{TotalOwed: 1000, TotalLent: 1000},
	}

	s := SummarizeAccount(groups)
	if s.Groups != 3 {
		t.Errorf("Groups = %d, want 3", s.Groups)
	}
	if s.TotalOwed != 4334 || s.TotalLent != 6000 {
		t.Errorf("totals = owed %d lent %d, want 4334/6000", s.TotalOwed, s.TotalLent)
	}
	if s.NetBalance != -1666 || s.Status != StatusLent {
		t.Errorf("net = %d status %q, want -1666 lent", s.NetBalance, s.Status)
	}

	empty := SummarizeAccount(nil)
	if empty.Groups != 0 || empty.NetBalance != 0 || empty.Status != StatusSettled {
		t.Errorf("empty summary = %+v, want settled zeros", empty)
	}
}

func TestGroupAndAccountViewsAgree(t *testing.T) {
	g1 := ComputeGroup(1, []int64{1, 2, 3}, []Expense{{
		ID: 1, Amount: 10000, PaidBy: 2,
		Splits: []Split{{UserID: 1, Amount: 3334}, {UserID: 2, Amount: 3333}, {UserID: 3, Amount: 3333}},
	}})
	g2 := ComputeGroup(1, []int64{1, 4}, []Expense{{
		ID: 2, Amount: 2000, PaidBy: 1,
		Splits: []Split{{UserID: 1, Amount: 1000}, {UserID: 4, Amount: 1000}},
	}})

	s := SummarizeAccount([]GroupBalance{g1, g2})
	if s.TotalOwed != g1.TotalOwed+g2.TotalOwed {
		t.Errorf("TotalOwed = %d, want %d", s.TotalOwed, g1.TotalOwed+g2.TotalOwed)
	}
	if s.TotalLent != g1.TotalLent+g2.TotalLent {
		t.Errorf("TotalLent = %d, want %d", s.TotalLent, g1.TotalLent+g2.TotalLent)
	}
	if s.NetBalance != 3334-1000 || s.Status != StatusOwe {
		t.Errorf("net = %d status %q, want 2334 owe", s.NetBalance, s.Status)
	}
}
