package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yassirh/fairsplit/internal/money"
)

// Common errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotRecipient         = errors.New("not the recipient of this notification")
)

// Service handles notification business logic
type Service struct {
	repo *Repository
}

// NewService creates a new notification service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// ListByRecipientID retrieves notifications for a user
func (s *Service) ListByRecipientID(ctx context.Context, recipientID int64, page, perPage int, unreadOnly bool) ([]*Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByRecipientID(ctx, recipientID, perPage, offset, unreadOnly)
}

// MarkAsRead marks a notification as read; only the recipient may do this
func (s *Service) MarkAsRead(ctx context.Context, id, userID int64) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n == nil {
		return ErrNotificationNotFound
	}
	if n.RecipientID != userID {
		return ErrNotRecipient
	}

	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead marks all of a user's notifications as read
func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// GetUnreadCount returns the count of unread notifications
func (s *Service) GetUnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

// Notification failures never fail the operation that triggered them;
// they are logged and dropped.

// NotifyGroupInvite tells a user they were invited to a group
func (s *Service) NotifyGroupInvite(ctx context.Context, recipientID int64, groupName string, groupID int64) {
	s.notify(ctx, recipientID, "You have been invited to join group: "+groupName, EntityTypeGroup, groupID)
}

// NotifyInvitationAccepted tells the inviter their invitation was accepted
func (s *Service) NotifyInvitationAccepted(ctx context.Context, recipientID int64, username, groupName string, groupID int64) {
	s.notify(ctx, recipientID, fmt.Sprintf("%s accepted your invitation to %s", username, groupName), EntityTypeGroup, groupID)
}

// NotifyExpenseAdded tells a participant a new expense includes them
func (s *Service) NotifyExpenseAdded(ctx context.Context, recipientID int64, payerName string, share money.Cents, expenseID int64) {
	s.notify(ctx, recipientID, fmt.Sprintf("%s added an expense; your share is %s", payerName, share), EntityTypeExpense, expenseID)
}

// NotifySplitPaid asks the payer to confirm a split marked paid
func (s *Service) NotifySplitPaid(ctx context.Context, recipientID int64, borrowerName string, splitID int64) {
	s.notify(ctx, recipientID, borrowerName+" says they paid you. Please confirm.", EntityTypeSplit, splitID)
}

// NotifySettlementCreated tells a user someone wants to settle up
func (s *Service) NotifySettlementCreated(ctx context.Context, recipientID int64, payerName string, amount money.Cents, settlementID int64) {
	s.notify(ctx, recipientID, fmt.Sprintf("%s wants to settle up %s with you", payerName, amount), EntityTypeSettlement, settlementID)
}

func (s *Service) notify(ctx context.Context, recipientID int64, message string, entityType EntityType, entityID int64) {
	if _, err := s.repo.Create(ctx, recipientID, message, &entityType, &entityID); err != nil {
		slog.Error("failed to create notification", "error", err, "recipient_id", recipientID)
	}
}
