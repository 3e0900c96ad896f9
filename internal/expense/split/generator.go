// Package split generates the per-participant shares of an expense.
//
// An expense is divided either equally among its participants or according
// to caller-supplied custom amounts. In both cases the generated shares sum
// exactly to the expense total; equal splits assign any rounding remainder
// to the first listed participant.
package split

import (
	"errors"
	"fmt"

	"github.com/yassirh/fairsplit/internal/money"
)

var (
	ErrNoParticipants          = errors.New("at least one participant is required")
	ErrNonPositiveAmount       = errors.New("amount must be positive")
	ErrDuplicateParticipant    = errors.New("participants must be unique")
	ErrNegativeSplitAmount     = errors.New("split amounts cannot be negative")
	ErrSplitUserNotParticipant = errors.New("custom split user is not in participants")
	ErrSplitTotalMismatch      = errors.New("custom split total must match the expense amount")
)

// ValidationError reports caller-supplied data that violates a precondition.
// It wraps one of the sentinel errors above and carries a human-readable
// reason suitable for a 4xx response.
type ValidationError struct {
	Reason string
	cause  error
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Unwrap() error { return e.cause }

func invalid(cause error, format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...), cause: cause}
}

// CustomSplit is a caller-specified share for one participant.
type CustomSplit struct {
	UserID int64       `json:"user_id"`
	Amount money.Cents `json:"amount"`
}

// Split is the generated share owed by one participant. The payer receives
// a split like everyone else; it represents their own share of the total.
type Split struct {
	UserID int64
	Amount money.Cents
}

// Generate produces one split per participant, summing exactly to amount.
//
// When custom is empty the amount is divided equally and the first listed
// participant absorbs the rounding remainder. This is deliberate and
// order-dependent: the remainder always lands on participantIDs[0], and is
// not re-balanced if the participant order changes on a later edit.
//
// When custom is non-empty it is validated (every user a participant, total
// matching amount) and returned in the given order.
func Generate(amount money.Cents, participantIDs []int64, custom []CustomSplit) ([]Split, error) {
	if amount <= 0 {
		return nil, invalid(ErrNonPositiveAmount, "amount must be positive, got %s", amount)
	}
	if len(participantIDs) == 0 {
		return nil, invalid(ErrNoParticipants, "at least one participant is required")
	}
	seen := make(map[int64]bool, len(participantIDs))
	for _, id := range participantIDs {
		if seen[id] {
			return nil, invalid(ErrDuplicateParticipant, "participant %d listed more than once", id)
		}
		seen[id] = true
	}

	if len(custom) > 0 {
		return generateCustom(amount, seen, custom)
	}
	return generateEqual(amount, participantIDs), nil
}
