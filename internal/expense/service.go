package expense

import (
	"context"
	"errors"

	"github.com/yassirh/fairsplit/internal/expense/split"
	"github.com/yassirh/fairsplit/internal/group"
	"github.com/yassirh/fairsplit/internal/money"
	"github.com/yassirh/fairsplit/internal/notification"
)

// Common errors
var (
	ErrExpenseNotFound     = errors.New("expense not found")
	ErrSplitNotFound       = errors.New("split not found")
	ErrSplitLocked         = errors.New("split is locked to a settlement")
	ErrExpenseLocked       = errors.New("expense has splits that are paid, confirmed, or settling")
	ErrNotBorrower         = errors.New("only the borrower can do this")
	ErrNotPayer            = errors.New("only the payer can confirm payment")
	ErrNotOwner            = errors.New("only the payer or creator can modify this expense")
	ErrInvalidStatusChange = errors.New("invalid status change")
	ErrNotGroupMember      = errors.New("user is not a member of this group")
)

// Service handles expense business logic
type Service struct {
	repo          *Repository
	groups        *group.Service
	notifications *notification.Service
}

// NewService creates a new expense service
func NewService(repo *Repository, groups *group.Service, notifications *notification.Service) *Service {
	return &Service{repo: repo, groups: groups, notifications: notifications}
}

// Create records a new expense and generates its splits. The split set
// always includes the payer's own share. Every participant, the payer, and
// the caller must be joined members of the group.
func (s *Service) Create(ctx context.Context, callerID int64, req *CreateExpenseRequest) (*Expense, error) {
	amount := req.Amount

	payerID := callerID
	if req.PaidBy != nil {
		payerID = *req.PaidBy
	}

	if err := s.requireMembers(ctx, req.GroupID, callerID, payerID, req.Participants); err != nil {
		return nil, err
	}

	shares, err := split.Generate(amount, req.Participants, customShares(req.Splits))
	if err != nil {
		return nil, err
	}

	expense, err := s.repo.CreateExpense(ctx, req.GroupID, payerID, callerID, req.Description, amount, shares)
	if err != nil {
		return nil, err
	}

	// Re-read for the payer username join before notifying.
	if full, err := s.repo.GetExpenseByID(ctx, expense.ID); err == nil && full != nil {
		expense.PayerUsername = full.PayerUsername
	}

	for _, sp := range expense.Splits {
		if sp.UserID == payerID {
			continue
		}
		s.notifications.NotifyExpenseAdded(ctx, sp.UserID, expense.PayerUsername, sp.Amount, expense.ID)
	}

	return expense, nil
}

// Update edits an expense and regenerates its splits from scratch. Omitted
// fields keep their current values; omitted participants keep the current
// participant set in its stored order, so the rounding remainder stays on
// the same first participant. Refused once any split has moved past PENDING
// or is locked to a settlement.
func (s *Service) Update(ctx context.Context, id, callerID int64, req *UpdateExpenseRequest) (*Expense, error) {
	expense, err := s.getWithSplits(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense.PayerID != callerID && expense.CreatedBy != callerID {
		return nil, ErrNotOwner
	}
	for _, sp := range expense.Splits {
		if sp.Status != SplitStatusPending || sp.SettlementID != nil {
			return nil, ErrExpenseLocked
		}
	}

	description := expense.Description
	if req.Description != nil {
		description = *req.Description
	}
	amount := expense.Amount
	if req.Amount != nil {
		amount = *req.Amount
	}
	payerID := expense.PayerID
	if req.PaidBy != nil {
		payerID = *req.PaidBy
	}
	participants := req.Participants
	if len(participants) == 0 {
		participants = make([]int64, len(expense.Splits))
		for i, sp := range expense.Splits {
			participants[i] = sp.UserID
		}
	}

	if err := s.requireMembers(ctx, expense.GroupID, callerID, payerID, participants); err != nil {
		return nil, err
	}

	shares, err := split.Generate(amount, participants, customShares(req.Splits))
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateExpense(ctx, id, payerID, description, amount, shares)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrExpenseNotFound
	}
	return updated, nil
}

// GetByID retrieves an expense with its splits; the caller must be a member
// of the expense's group.
func (s *Service) GetByID(ctx context.Context, id, callerID int64) (*Expense, error) {
	expense, err := s.getWithSplits(ctx, id)
	if err != nil {
		return nil, err
	}

	joined, err := s.groups.IsJoinedMember(ctx, expense.GroupID, callerID)
	if err != nil {
		return nil, err
	}
	if !joined {
		return nil, ErrNotGroupMember
	}

	return expense, nil
}

// ListByGroupID retrieves a page of a group's expenses
func (s *Service) ListByGroupID(ctx context.Context, groupID, callerID int64, page, perPage int) ([]*Expense, int, error) {
	joined, err := s.groups.IsJoinedMember(ctx, groupID, callerID)
	if err != nil {
		return nil, 0, err
	}
	if !joined {
		return nil, 0, ErrNotGroupMember
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListExpensesByGroupID(ctx, groupID, perPage, offset)
}

// Delete removes an expense while no split has been paid or confirmed.
// Only the payer or the creator may delete.
func (s *Service) Delete(ctx context.Context, id, callerID int64) error {
	expense, err := s.getWithSplits(ctx, id)
	if err != nil {
		return err
	}
	if expense.PayerID != callerID && expense.CreatedBy != callerID {
		return ErrNotOwner
	}
	for _, sp := range expense.Splits {
		if sp.Status == SplitStatusPaid || sp.Status == SplitStatusConfirmed || sp.SettlementID != nil {
			return ErrExpenseLocked
		}
	}

	return s.repo.DeleteExpense(ctx, id)
}

// MarkSplitAsPaid lets the borrower mark their split as paid, which asks the
// payer to confirm.
func (s *Service) MarkSplitAsPaid(ctx context.Context, splitID, callerID int64) (*Split, error) {
	sp, err := s.repo.GetSplitByID(ctx, splitID)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, ErrSplitNotFound
	}
	if sp.UserID != callerID {
		return nil, ErrNotBorrower
	}
	if sp.SettlementID != nil {
		return nil, ErrSplitLocked
	}
	if sp.Status != SplitStatusPending {
		return nil, ErrInvalidStatusChange
	}

	updated, err := s.repo.UpdateSplitStatus(ctx, splitID, SplitStatusPaid, nil)
	if err != nil {
		return nil, err
	}

	if expense, err := s.repo.GetExpenseByID(ctx, sp.ExpenseID); err == nil && expense != nil {
		s.notifications.NotifySplitPaid(ctx, expense.PayerID, sp.Username, splitID)
	}

	return updated, nil
}

// ConfirmSplitPayment lets the payer confirm they received a payment
func (s *Service) ConfirmSplitPayment(ctx context.Context, splitID, callerID int64) (*Split, error) {
	sp, err := s.repo.GetSplitByID(ctx, splitID)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, ErrSplitNotFound
	}

	expense, err := s.repo.GetExpenseByID(ctx, sp.ExpenseID)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}
	if expense.PayerID != callerID {
		return nil, ErrNotPayer
	}
	if sp.SettlementID != nil {
		return nil, ErrSplitLocked
	}
	if sp.Status != SplitStatusPaid {
		return nil, ErrInvalidStatusChange
	}

	return s.repo.UpdateSplitStatus(ctx, splitID, SplitStatusConfirmed, nil)
}

// DisputeSplit lets the borrower dispute their split
func (s *Service) DisputeSplit(ctx context.Context, splitID, callerID int64, reason string) (*Split, error) {
	sp, err := s.repo.GetSplitByID(ctx, splitID)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, ErrSplitNotFound
	}
	if sp.UserID != callerID {
		return nil, ErrNotBorrower
	}
	if sp.SettlementID != nil {
		return nil, ErrSplitLocked
	}
	if sp.Status != SplitStatusPending && sp.Status != SplitStatusPaid {
		return nil, ErrInvalidStatusChange
	}

	return s.repo.UpdateSplitStatus(ctx, splitID, SplitStatusDisputed, &reason)
}

func (s *Service) getWithSplits(ctx context.Context, id int64) (*Expense, error) {
	expense, err := s.repo.GetExpenseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}

	expense.Splits, err = s.repo.GetSplitsByExpenseID(ctx, id)
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// requireMembers verifies the caller, the payer, and every participant are
// joined members of the group, with a single membership query.
func (s *Service) requireMembers(ctx context.Context, groupID, callerID, payerID int64, participants []int64) error {
	memberIDs, err := s.groups.MemberIDs(ctx, groupID)
	if err != nil {
		return err
	}
	if len(memberIDs) == 0 {
		return group.ErrGroupNotFound
	}

	members := make(map[int64]bool, len(memberIDs))
	for _, id := range memberIDs {
		members[id] = true
	}

	if !members[callerID] || !members[payerID] {
		return ErrNotGroupMember
	}
	for _, id := range participants {
		if !members[id] {
			return ErrNotGroupMember
		}
	}
	return nil
}

func customShares(in []CustomSplitAmount) []split.CustomSplit {
	if len(in) == 0 {
		return nil
	}
	out := make([]split.CustomSplit, len(in))
	for i, c := range in {
		out[i] = split.CustomSplit{UserID: c.UserID, Amount: money.FromFloat(c.Amount)}
	}
	return out
}
