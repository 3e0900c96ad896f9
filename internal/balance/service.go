package balance

import (
	"context"

	"github.com/yassirh/fairsplit/internal/expense"
	"github.com/yassirh/fairsplit/internal/group"
	"github.com/yassirh/fairsplit/internal/user"
)

// Service assembles balance screens from stored groups and expenses
type Service struct {
	groups   *group.Service
	expenses *expense.Repository
	users    *user.Repository
}

// NewService creates a new balance service
func NewService(groups *group.Service, expenses *expense.Repository, users *user.Repository) *Service {
	return &Service{groups: groups, expenses: expenses, users: users}
}

// GroupBalance computes the viewer's balance screen for one group
func (s *Service) GroupBalance(ctx context.Context, viewerID, groupID int64) (*GroupBalanceResponse, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, groupID, viewerID); err != nil {
		return nil, err
	}

	gb, err := s.computeGroup(ctx, viewerID, groupID)
	if err != nil {
		return nil, err
	}

	resp := &GroupBalanceResponse{
		GroupID:        groupID,
		GroupName:      g.Name,
		Counterparties: make([]*CounterpartyResponse, 0, len(gb.PerCounterparty)),
		TotalOwed:      gb.TotalOwed.Float(),
		TotalLent:      gb.TotalLent.Float(),
		NetBalance:     gb.NetBalance.Float(),
		Status:         gb.Status,
	}

	ids := make([]int64, len(gb.PerCounterparty))
	for i, c := range gb.PerCounterparty {
		ids[i] = c.UserID
	}
	names, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, c := range gb.PerCounterparty {
		cr := &CounterpartyResponse{
			UserID:     c.UserID,
			Owe:        c.Owe.Float(),
			Lent:       c.Lent.Float(),
			NetBalance: c.NetBalance.Float(),
			Status:     c.Status,
		}
		if u, ok := names[c.UserID]; ok {
			cr.Username = u.Username
		}
		resp.Counterparties = append(resp.Counterparties, cr)
	}

	return resp, nil
}

// AccountSummary computes the viewer's position across every joined group
func (s *Service) AccountSummary(ctx context.Context, viewerID int64) (*AccountSummaryResponse, error) {
	groups, err := s.groups.ListAllByUserID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	perGroup := make([]GroupBalance, 0, len(groups))
	lines := make([]*GroupSummaryResponse, 0, len(groups))
	for _, g := range groups {
		gb, err := s.computeGroup(ctx, viewerID, g.ID)
		if err != nil {
			return nil, err
		}
		perGroup = append(perGroup, gb)
		lines = append(lines, &GroupSummaryResponse{
			GroupID:    g.ID,
			GroupName:  g.Name,
			NetBalance: gb.NetBalance.Float(),
			Status:     gb.Status,
		})
	}

	summary := SummarizeAccount(perGroup)
	return &AccountSummaryResponse{
		Groups:     lines,
		TotalOwed:  summary.TotalOwed.Float(),
		TotalLent:  summary.TotalLent.Float(),
		NetBalance: summary.NetBalance.Float(),
		Status:     summary.Status,
	}, nil
}

// ExpenseViews computes the viewer's per-expense positions for a group,
// newest expense first.
func (s *Service) ExpenseViews(ctx context.Context, viewerID, groupID int64) ([]*ExpenseViewResponse, error) {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, groupID, viewerID); err != nil {
		return nil, err
	}

	stored, err := s.expenses.ListExpensesWithSplitsByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	snapshots := toSnapshots(stored)
	views := ViewExpenses(snapshots, viewerID)

	ids := make([]int64, 0, len(stored))
	for _, e := range stored {
		ids = append(ids, e.PayerID)
		for _, sp := range e.Splits {
			ids = append(ids, sp.UserID)
		}
	}
	names, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*ExpenseViewResponse, len(views))
	for i, v := range views {
		resp := &ExpenseViewResponse{
			ExpenseID:    v.ExpenseID,
			Description:  snapshots[i].Description,
			Amount:       snapshots[i].Amount.Float(),
			PaidBy:       snapshots[i].PaidBy,
			Participants: make([]*ParticipantResponse, len(v.Participants)),
			Status:       v.Status,
			AmountInView: v.AmountInView.Float(),
			CreatedAt:    snapshots[i].CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
		if u, ok := names[snapshots[i].PaidBy]; ok {
			resp.PaidByUsername = u.Username
		}
		for j, p := range v.Participants {
			pr := &ParticipantResponse{UserID: p.UserID, Amount: p.Amount.Float()}
			if u, ok := names[p.UserID]; ok {
				pr.Username = u.Username
				pr.Email = u.Email
				pr.AvatarURL = u.AvatarURL
			}
			resp.Participants[j] = pr
		}
		out[len(views)-1-i] = resp
	}
	return out, nil
}

func (s *Service) computeGroup(ctx context.Context, viewerID, groupID int64) (GroupBalance, error) {
	memberIDs, err := s.groups.MemberIDs(ctx, groupID)
	if err != nil {
		return GroupBalance{}, err
	}

	stored, err := s.expenses.ListExpensesWithSplitsByGroup(ctx, groupID)
	if err != nil {
		return GroupBalance{}, err
	}

	return ComputeGroup(viewerID, memberIDs, toSnapshots(stored)), nil
}

func (s *Service) requireMember(ctx context.Context, groupID, viewerID int64) error {
	joined, err := s.groups.IsJoinedMember(ctx, groupID, viewerID)
	if err != nil {
		return err
	}
	if !joined {
		return group.ErrNotAuthorized
	}
	return nil
}

// toSnapshots strips stored expenses down to the pure aggregation inputs
func toSnapshots(stored []*expense.Expense) []Expense {
	out := make([]Expense, len(stored))
	for i, e := range stored {
		snap := Expense{
			ID:          e.ID,
			Description: e.Description,
			Amount:      e.Amount,
			PaidBy:      e.PayerID,
			CreatedAt:   e.CreatedAt,
			Splits:      make([]Split, len(e.Splits)),
		}
		for j, sp := range e.Splits {
			snap.Splits[j] = Split{UserID: sp.UserID, Amount: sp.Amount}
		}
		out[i] = snap
	}
	return out
}
