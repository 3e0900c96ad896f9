package settlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/yassirh/fairsplit/internal/expense"
	"github.com/yassirh/fairsplit/internal/money"
	"github.com/yassirh/fairsplit/internal/notification"
)

// Common errors
var (
	ErrSettlementNotFound  = errors.New("settlement not found")
	ErrAlreadySettled      = errors.New("already settled up, no open debts")
	ErrNotPayer            = errors.New("only the payer can mark as paid")
	ErrNotReceiver         = errors.New("only the receiver can confirm or reject")
	ErrInvalidStatusChange = errors.New("invalid status change")
	ErrCannotSettleSelf    = errors.New("cannot create a settlement with yourself")
)

// Service handles settlement business logic
type Service struct {
	repo          *Repository
	expenses      *expense.Repository
	notifications *notification.Service
}

// NewService creates a new settlement service
func NewService(repo *Repository, expenses *expense.Repository, notifications *notification.Service) *Service {
	return &Service{repo: repo, expenses: expenses, notifications: notifications}
}

// Create opens a settlement between the initiator and another user. The net
// of the open splits in both directions decides who pays whom; a zero net
// over existing mutual debts still produces a settlement so confirmation can
// clear them. All open splits between the pair are locked to the settlement.
func (s *Service) Create(ctx context.Context, initiatorID int64, req *CreateSettlementRequest) (*Settlement, error) {
	otherUserID := req.OtherUserID
	if initiatorID == otherUserID {
		return nil, ErrCannotSettleSelf
	}

	net, err := s.repo.GetNetBalanceBetweenUsers(ctx, initiatorID, otherUserID)
	if err != nil {
		return nil, err
	}

	initiatorOwes, err := s.expenses.GetOpenSplitsBetweenUsers(ctx, initiatorID, otherUserID)
	if err != nil {
		return nil, err
	}
	otherOwes, err := s.expenses.GetOpenSplitsBetweenUsers(ctx, otherUserID, initiatorID)
	if err != nil {
		return nil, err
	}

	var payerID, receiverID int64
	var amount money.Cents
	switch {
	case net > 0:
		payerID, receiverID, amount = initiatorID, otherUserID, net
	case net < 0:
		payerID, receiverID, amount = otherUserID, initiatorID, -net
	default:
		if len(initiatorOwes) == 0 && len(otherOwes) == 0 {
			return nil, ErrAlreadySettled
		}
		// Mutual debts cancel out; a zero settlement clears them on confirm.
		payerID, receiverID = initiatorID, otherUserID
	}

	settlement, err := s.repo.Create(ctx, payerID, receiverID, amount)
	if err != nil {
		return nil, err
	}

	splitIDs := make([]int64, 0, len(initiatorOwes)+len(otherOwes))
	for _, sp := range initiatorOwes {
		splitIDs = append(splitIDs, sp.ID)
	}
	for _, sp := range otherOwes {
		splitIDs = append(splitIDs, sp.ID)
	}
	if len(splitIDs) > 0 {
		if err := s.expenses.LockSplitsToSettlement(ctx, splitIDs, settlement.ID); err != nil {
			return nil, err
		}
	}

	full, err := s.repo.GetByID(ctx, settlement.ID)
	if err != nil {
		return nil, err
	}

	counterparty := otherUserID
	initiatorName := full.PayerUsername
	if full.ReceiverID == initiatorID {
		initiatorName = full.ReceiverUsername
	}
	s.notifications.NotifySettlementCreated(ctx, counterparty, initiatorName, full.Amount, full.ID)

	return full, nil
}

// GetByID retrieves a settlement by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Settlement, error) {
	settlement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if settlement == nil {
		return nil, ErrSettlementNotFound
	}
	return settlement, nil
}

// ListByUserID retrieves settlements involving a user
func (s *Service) ListByUserID(ctx context.Context, userID int64, page, perPage int) ([]*Settlement, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByUserID(ctx, userID, perPage, offset)
}

// MarkAsPaid lets the payer declare the settlement amount transferred
func (s *Service) MarkAsPaid(ctx context.Context, settlementID, userID int64) (*Settlement, error) {
	settlement, err := s.GetByID(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if settlement.PayerID != userID {
		return nil, ErrNotPayer
	}
	if settlement.Status != SettlementStatusPending {
		return nil, ErrInvalidStatusChange
	}

	return s.repo.UpdateStatus(ctx, settlementID, SettlementStatusPaid)
}

// Confirm lets the receiver acknowledge the payment; every locked split
// becomes confirmed.
func (s *Service) Confirm(ctx context.Context, settlementID, userID int64) (*Settlement, error) {
	settlement, err := s.GetByID(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if settlement.ReceiverID != userID {
		return nil, ErrNotReceiver
	}
	if settlement.Status != SettlementStatusPaid {
		return nil, ErrInvalidStatusChange
	}

	settlement, err = s.repo.UpdateStatus(ctx, settlementID, SettlementStatusConfirmed)
	if err != nil {
		return nil, err
	}

	if err := s.expenses.ConfirmSplitsBySettlement(ctx, settlementID); err != nil {
		return nil, err
	}

	return settlement, nil
}

// Reject lets the receiver refuse the settlement; the locked splits are
// released back to their previous open state.
func (s *Service) Reject(ctx context.Context, settlementID, userID int64) (*Settlement, error) {
	settlement, err := s.GetByID(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if settlement.ReceiverID != userID {
		return nil, ErrNotReceiver
	}
	if settlement.Status != SettlementStatusPending && settlement.Status != SettlementStatusPaid {
		return nil, ErrInvalidStatusChange
	}

	settlement, err = s.repo.UpdateStatus(ctx, settlementID, SettlementStatusRejected)
	if err != nil {
		return nil, err
	}

	if err := s.expenses.UnlockSplitsFromSettlement(ctx, settlementID); err != nil {
		return nil, err
	}

	return settlement, nil
}

// GetNetBalances returns the user's open pairwise balances with messages
func (s *Service) GetNetBalances(ctx context.Context, userID int64) ([]*NetBalanceResponse, error) {
	balances, err := s.repo.GetNetBalancesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*NetBalanceResponse, len(balances))
	for i, b := range balances {
		var message string
		if b.Amount > 0 {
			message = fmt.Sprintf("You owe %s %s", b.Username, b.Amount)
		} else {
			message = fmt.Sprintf("%s owes you %s", b.Username, -b.Amount)
		}
		responses[i] = &NetBalanceResponse{
			UserID:   b.UserID,
			Username: b.Username,
			Amount:   b.Amount.Float(),
			Message:  message,
		}
	}

	return responses, nil
}
