package split

import (
	"errors"
	"testing"

	"github.com/yassirh/fairsplit/internal/money"
)

func sum(splits []Split) money.Cents {
	var total money.Cents
	for _, s := range splits {
		total += s.Amount
	}
	return total
}

func TestGenerateEqual(t *testing.T) {
	tests := []struct {
		name         string
		amount       money.Cents
		participants []int64
		want         []money.Cents
	}{
		{
			name:         "100 among three, first absorbs the extra cent",
			amount:       10000,
			participants: []int64{1, 2, 3},
			want:         []money.Cents{3334, 3333, 3333},
		},
		{
			name:         "exact division leaves no adjustment",
			amount:       9000,
			participants: []int64{1, 2, 3},
			want:         []money.Cents{3000, 3000, 3000},
		},
		{
			name:         "share rounds up, first absorbs negative remainder",
			amount:       10000,
			participants: []int64{1, 2, 3, 4, 5, 6},
			want:         []money.Cents{1665, 1667, 1667, 1667, 1667, 1667},
		},
		{
			name:         "single participant gets everything",
			amount:       4242,
			participants: []int64{7},
			want:         []money.Cents{4242},
		},
		{
			name:         "one cent between two",
			amount:       1,
			participants: []int64{1, 2},
			want:         []money.Cents{0, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splits, err := Generate(tt.amount, tt.participants, nil)
			if err != nil {
				t.Fatalf("Generate() error: %v", err)
			}
			if len(splits) != len(tt.participants) {
				t.Fatalf("got %d splits, want %d", len(splits), len(tt.participants))
			}
			for i, s := range splits {
				if s.UserID != tt.participants[i] {
					t.Errorf("splits[%d].UserID = %d, want %d (input order must be preserved)", i, s.UserID, tt.participants[i])
				}
				if s.Amount != tt.want[i] {
					t.Errorf("splits[%d].Amount = %d, want %d", i, s.Amount, tt.want[i])
				}
			}
			if got := sum(splits); got != tt.amount {
				t.Errorf("splits sum to %d, want %d", got, tt.amount)
			}
		})
	}
}

// The equal split is order-dependent: the remainder always lands on the
// first listed participant, whoever that is.
func TestGenerateEqualRemainderFollowsFirstParticipant(t *testing.T) {
	a, err := Generate(10000, []int64{1, 2, 3}, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(10000, []int64{3, 2, 1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if a[0].UserID != 1 || a[0].Amount != 3334 {
		t.Errorf("first order: got %+v, want user 1 with 3334", a[0])
	}
	if b[0].UserID != 3 || b[0].Amount != 3334 {
		t.Errorf("reversed order: got %+v, want user 3 with 3334", b[0])
	}
}

func TestGenerateEqualAlwaysSumsToTotal(t *testing.T) {
	participants := []int64{1, 2, 3, 4, 5, 6, 7}
	for amount := money.Cents(1); amount <= 1000; amount++ {
		splits, err := Generate(amount, participants, nil)
		if err != nil {
			t.Fatalf("Generate(%d) error: %v", amount, err)
		}
		if got := sum(splits); got != amount {
			t.Fatalf("Generate(%d): splits sum to %d", amount, got)
		}
		for i := 2; i < len(splits); i++ {
			if splits[i].Amount != splits[1].Amount {
				t.Fatalf("Generate(%d): non-first shares differ: %v", amount, splits)
			}
		}
	}
}

func TestGenerateCustom(t *testing.T) {
	tests := []struct {
		name         string
		amount       money.Cents
		participants []int64
		custom       []CustomSplit
		want         []Split
		wantErr      error
	}{
		{
			name:         "payer excluded from owing via zero share",
			amount:       5000,
			participants: []int64{1, 2, 3},
			custom: []CustomSplit{
				{UserID: 1, Amount: 0},
				{UserID: 2, Amount: 2500},
				{UserID: 3, Amount: 2500},
			},
			want: []Split{{1, 0}, {2, 2500}, {3, 2500}},
		},
		{
			name:         "uneven custom shares",
			amount:       10000,
			participants: []int64{1, 2},
			custom: []CustomSplit{
				{UserID: 2, Amount: 7000},
				{UserID: 1, Amount: 3000},
			},
			want: []Split{{2, 7000}, {1, 3000}},
		},
		{
			name:         "total mismatch rejected",
			amount:       10000,
			participants: []int64{1, 2},
			custom: []CustomSplit{
				{UserID: 1, Amount: 5000},
				{UserID: 2, Amount: 4999},
			},
			wantErr: ErrSplitTotalMismatch,
		},
		{
			name:         "user outside participants rejected",
			amount:       5000,
			participants: []int64{1, 2},
			custom: []CustomSplit{
				{UserID: 1, Amount: 2500},
				{UserID: 9, Amount: 2500},
			},
			wantErr: ErrSplitUserNotParticipant,
		},
		{
			name:         "negative share rejected",
			amount:       5000,
			participants: []int64{1, 2},
			custom: []CustomSplit{
				{UserID: 1, Amount: -1000},
				{UserID: 2, Amount: 6000},
			},
			wantErr: ErrNegativeSplitAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splits, err := Generate(tt.amount, tt.participants, tt.custom)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Generate() error = %v, want %v", err, tt.wantErr)
				}
				var verr *ValidationError
				if !errors.As(err, &verr) || verr.Reason == "" {
					t.Errorf("error should be a ValidationError with a reason, got %#v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Generate() error: %v", err)
			}
			if len(splits) != len(tt.want) {
				t.Fatalf("got %d splits, want %d", len(splits), len(tt.want))
			}
			for i := range splits {
				if splits[i] != tt.want[i] {
					t.Errorf("splits[%d] = %+v, want %+v", i, splits[i], tt.want[i])
				}
			}
		})
	}
}

func TestGenerateInputValidation(t *testing.T) {
	tests := []struct {
		name         string
		amount       money.Cents
		participants []int64
		wantErr      error
	}{
		{"zero amount", 0, []int64{1}, ErrNonPositiveAmount},
		{"negative amount", -100, []int64{1}, ErrNonPositiveAmount},
		{"no participants", 100, nil, ErrNoParticipants},
		{"duplicate participant", 100, []int64{1, 2, 1}, ErrDuplicateParticipant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Generate(tt.amount, tt.participants, nil); !errors.Is(err, tt.wantErr) {
				t.Errorf("Generate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
