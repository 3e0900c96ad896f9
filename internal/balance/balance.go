// Package balance derives who-owes-whom summaries from a group's expenses.
//
// Everything in this file is pure computation over in-memory snapshots: the
// caller fetches the expenses, the functions here reduce them. Accounting is
// strictly pairwise between the viewer and each counterparty; debts are never
// netted transitively across three or more people.
package balance

import (
	"time"

	"github.com/yassirh/fairsplit/internal/money"
)

// Status classifies a balance or an expense from the viewer's perspective.
type Status string

const (
	StatusOwe     Status = "owe"     // viewer owes the counterparty
	StatusLent    Status = "lent"    // counterparty owes the viewer
	StatusSettled Status = "settled" // net balance is zero
	StatusNone    Status = "none"    // expense does not involve the viewer
)

// Split is one participant's share of an expense.
type Split struct {
	UserID int64
	Amount money.Cents
}

// Expense is the minimal expense snapshot the aggregator needs.
type Expense struct {
	ID          int64
	Description string
	Amount      money.Cents
	PaidBy      int64
	Splits      []Split
	CreatedAt   time.Time
}

// CounterpartyBalance is the viewer's position against one other member.
// Owe and Lent accumulate independently; NetBalance is their non-negative
// difference with Status giving the direction.
type CounterpartyBalance struct {
	UserID     int64
	Owe        money.Cents
	Lent       money.Cents
	NetBalance money.Cents
	Status     Status
}

// GroupBalance is the viewer's full position within one group.
// NetBalance is signed: positive means the viewer owes overall.
type GroupBalance struct {
	PerCounterparty []CounterpartyBalance
	TotalOwed       money.Cents
	TotalLent       money.Cents
	NetBalance      money.Cents
	Status          Status
}

// AccountSummary aggregates the viewer's group balances across all groups.
type AccountSummary struct {
	Groups     int
	TotalOwed  money.Cents
	TotalLent  money.Cents
	NetBalance money.Cents
	Status     Status
}

func classify(net money.Cents) Status {
	switch {
	case net > 0:
		return StatusOwe
	case net < 0:
		return StatusLent
	default:
		return StatusSettled
	}
}

// ComputeGroup reduces a group's expenses into the viewer's per-counterparty
// balances. Every member except the viewer gets an entry, zero-valued and
// settled when no expense links them to the viewer. Split lines that involve
// neither side of the viewer relation are ignored; a payer appearing in a
// split but missing from memberIDs still gets an entry rather than an error.
func ComputeGroup(viewerID int64, memberIDs []int64, expenses []Expense) GroupBalance {
	entries := make(map[int64]*CounterpartyBalance, len(memberIDs))
	order := make([]int64, 0, len(memberIDs))

	track := func(userID int64) *CounterpartyBalance {
		if e, ok := entries[userID]; ok {
			return e
		}
		e := &CounterpartyBalance{UserID: userID}
		entries[userID] = e
		order = append(order, userID)
		return e
	}

	for _, id := range memberIDs {
		if id != viewerID {
			track(id)
		}
	}

	var totalOwed, totalLent money.Cents
	for _, exp := range expenses {
		for _, s := range exp.Splits {
			if s.UserID == exp.PaidBy {
				continue // the payer's own share is not a debt
			}
			switch {
			case s.UserID == viewerID && exp.PaidBy != viewerID:
				track(exp.PaidBy).Owe += s.Amount
				totalOwed += s.Amount
			case exp.PaidBy == viewerID:
				track(s.UserID).Lent += s.Amount
				totalLent += s.Amount
			}
		}
	}

	perCounterparty := make([]CounterpartyBalance, 0, len(order))
	for _, id := range order {
		e := entries[id]
		net := e.Owe - e.Lent
		e.Status = classify(net)
		e.NetBalance = net.Abs()
		perCounterparty = append(perCounterparty, *e)
	}

	net := totalOwed - totalLent
	return GroupBalance{
		PerCounterparty: perCounterparty,
		TotalOwed:       totalOwed,
		TotalLent:       totalLent,
		NetBalance:      net,
		Status:          classify(net),
	}
}

// SummarizeAccount folds per-group balances into one account-wide summary.
// It sums the already-derived group totals instead of re-walking the raw
// expenses, so the account view always agrees with the group views.
func SummarizeAccount(groups []GroupBalance) AccountSummary {
	var s AccountSummary
	s.Groups = len(groups)
	for _, g := range groups {
		s.TotalOwed += g.TotalOwed
		s.TotalLent += g.TotalLent
	}
	s.NetBalance = s.TotalOwed - s.TotalLent
	s.Status = classify(s.NetBalance)
	return s
}
