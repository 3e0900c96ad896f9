package split

import "github.com/yassirh/fairsplit/internal/money"

// generateEqual divides amount evenly among the participants.
//
// The per-person share is amount/count rounded half up to the cent. Because
// the rounded share times count rarely equals the total exactly, the
// difference (positive or negative, at most a few cents) is added to the
// first participant's share so the splits still sum to amount.
func generateEqual(amount money.Cents, participantIDs []int64) []Split {
	count := money.Cents(len(participantIDs))

	share := amount / count
	if 2*(amount%count) >= count {
		share++
	}
	adjustment := amount - share*count

	splits := make([]Split, len(participantIDs))
	for i, id := range participantIDs {
		splits[i] = Split{UserID: id, Amount: share}
	}
	splits[0].Amount += adjustment
	return splits
}
