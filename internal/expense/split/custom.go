package split

import "github.com/yassirh/fairsplit/internal/money"

// generateCustom validates caller-specified shares and returns them in the
// given order. Every custom user must be a participant and the shares must
// sum exactly to amount; zero shares are allowed (e.g. a payer who is listed
// as a participant but owes nothing).
func generateCustom(amount money.Cents, participants map[int64]bool, custom []CustomSplit) ([]Split, error) {
	var total money.Cents
	for _, c := range custom {
		if !participants[c.UserID] {
			return nil, invalid(ErrSplitUserNotParticipant, "user %d in custom split is not in participants", c.UserID)
		}
		if c.Amount < 0 {
			return nil, invalid(ErrNegativeSplitAmount, "split amount for user %d cannot be negative", c.UserID)
		}
		total += c.Amount
	}
	if total != amount {
		return nil, invalid(ErrSplitTotalMismatch, "custom split total %s does not match expense amount %s", total, amount)
	}

	splits := make([]Split, len(custom))
	for i, c := range custom {
		splits[i] = Split{UserID: c.UserID, Amount: c.Amount}
	}
	return splits, nil
}
