package group

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/yassirh/fairsplit/internal/notification"
	"github.com/yassirh/fairsplit/internal/user"
)

// Common errors
var (
	ErrGroupNotFound       = errors.New("group not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberAlreadyExists = errors.New("user is already a member of this group")
	ErrNotAuthorized       = errors.New("not authorized to perform this action")
	ErrInvitationNotFound  = errors.New("invitation not found")
	ErrInvitationResolved  = errors.New("invitation has already been resolved")
	ErrInvitationNotYours  = errors.New("invitation is addressed to a different email")
	ErrAlreadyInvited      = errors.New("a pending invitation for this email already exists")
)

// Service handles group business logic
type Service struct {
	repo          *Repository
	users         *user.Repository
	notifications *notification.Service
}

// NewService creates a new group service
func NewService(repo *Repository, users *user.Repository, notifications *notification.Service) *Service {
	return &Service{repo: repo, users: users, notifications: notifications}
}

// Create creates a new group and adds the creator as a joined admin
func (s *Service) Create(ctx context.Context, creatorID int64, req *CreateGroupRequest) (*Group, error) {
	group, err := s.repo.Create(ctx, creatorID, req)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.AddMember(ctx, group.ID, creatorID, MemberRoleAdmin, MemberStatusJoined); err != nil {
		return nil, err
	}

	return group, nil
}

// GetByID retrieves a group by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Group, error) {
	group, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

// GetByIDWithMembers retrieves a group with all its members
func (s *Service) GetByIDWithMembers(ctx context.Context, id int64) (*Group, []*GroupMember, error) {
	group, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.repo.GetMembers(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return group, members, nil
}

// ListByUserID retrieves all groups for a user
func (s *Service) ListByUserID(ctx context.Context, userID int64, page, perPage int) ([]*Group, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByUserID(ctx, userID, perPage, offset)
}

// Update modifies an existing group; only members may update it
func (s *Service) Update(ctx context.Context, id, callerID int64, req *UpdateGroupRequest) (*Group, error) {
	if err := s.requireJoinedMember(ctx, id, callerID); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, req)
}

// Delete removes a group; only the creator may delete it
func (s *Service) Delete(ctx context.Context, id, callerID int64) error {
	group, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if group.CreatedBy != callerID {
		return ErrNotAuthorized
	}
	return s.repo.Delete(ctx, id)
}

// AddMember adds an existing user directly to a group
func (s *Service) AddMember(ctx context.Context, groupID, callerID int64, req *AddMemberRequest) (*GroupMember, error) {
	if err := s.requireJoinedMember(ctx, groupID, callerID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetMember(ctx, groupID, req.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrMemberAlreadyExists
	}

	role := req.Role
	if role == "" {
		role = MemberRoleMember
	}
	return s.repo.AddMember(ctx, groupID, req.UserID, role, MemberStatusJoined)
}

// RemoveMember removes a user from a group. Members can remove themselves;
// admins can remove anyone.
func (s *Service) RemoveMember(ctx context.Context, groupID, callerID, userID int64) error {
	caller, err := s.repo.GetMember(ctx, groupID, callerID)
	if err != nil {
		return err
	}
	if caller == nil {
		return ErrNotAuthorized
	}
	if callerID != userID && caller.Role != MemberRoleAdmin {
		return ErrNotAuthorized
	}

	member, err := s.repo.GetMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrMemberNotFound
	}

	return s.repo.RemoveMember(ctx, groupID, userID)
}

// ListAllByUserID retrieves every group a user has joined, without paging
func (s *Service) ListAllByUserID(ctx context.Context, userID int64) ([]*Group, error) {
	return s.repo.ListAllByUserID(ctx, userID)
}

// MemberIDs returns the user IDs of all joined members, in join order
func (s *Service) MemberIDs(ctx context.Context, groupID int64) ([]int64, error) {
	return s.repo.MemberIDs(ctx, groupID)
}

// IsJoinedMember reports whether the user has joined the group
func (s *Service) IsJoinedMember(ctx context.Context, groupID, userID int64) (bool, error) {
	member, err := s.repo.GetMember(ctx, groupID, userID)
	if err != nil {
		return false, err
	}
	return member != nil && member.Status == MemberStatusJoined, nil
}

// Invite creates an email invitation into the group and notifies the
// invitee when they already have an account.
func (s *Service) Invite(ctx context.Context, groupID, inviterID int64, req *InviteRequest) (*Invitation, error) {
	if err := s.requireJoinedMember(ctx, groupID, inviterID); err != nil {
		return nil, err
	}

	group, err := s.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// An account holder who is already a member needs no invitation.
	if invitee, err := s.users.GetByEmail(ctx, email); err != nil {
		return nil, err
	} else if invitee != nil {
		member, err := s.repo.GetMember(ctx, groupID, invitee.ID)
		if err != nil {
			return nil, err
		}
		if member != nil {
			return nil, ErrMemberAlreadyExists
		}
	}

	pending, err := s.repo.GetPendingInvitation(ctx, groupID, email)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, ErrAlreadyInvited
	}

	inv, err := s.repo.CreateInvitation(ctx, groupID, email, uuid.NewString(), inviterID)
	if err != nil {
		return nil, err
	}

	if invitee, err := s.users.GetByEmail(ctx, email); err == nil && invitee != nil {
		s.notifications.NotifyGroupInvite(ctx, invitee.ID, group.Name, group.ID)
	}

	return inv, nil
}

// ListInvitations retrieves pending invitations addressed to the caller
func (s *Service) ListInvitations(ctx context.Context, callerID int64) ([]*Invitation, error) {
	caller, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if caller == nil {
		return nil, user.ErrUserNotFound
	}
	return s.repo.ListInvitationsByEmail(ctx, caller.Email)
}

// AcceptInvitation redeems an invitation token: the caller joins the group
// and the inviter is notified.
func (s *Service) AcceptInvitation(ctx context.Context, callerID int64, token string) (*Group, error) {
	inv, caller, err := s.resolveInvitation(ctx, callerID, token)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetMember(ctx, inv.GroupID, callerID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		if _, err := s.repo.AddMember(ctx, inv.GroupID, callerID, MemberRoleMember, MemberStatusJoined); err != nil {
			return nil, err
		}
	} else if existing.Status != MemberStatusJoined {
		if err := s.repo.UpdateMemberStatus(ctx, inv.GroupID, callerID, MemberStatusJoined); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateInvitationStatus(ctx, inv.ID, InvitationStatusAccepted); err != nil {
		return nil, err
	}

	s.notifications.NotifyInvitationAccepted(ctx, inv.InvitedBy, caller.Username, inv.GroupName, inv.GroupID)

	return s.GetByID(ctx, inv.GroupID)
}

// DeclineInvitation marks an invitation declined without joining
func (s *Service) DeclineInvitation(ctx context.Context, callerID int64, token string) error {
	inv, _, err := s.resolveInvitation(ctx, callerID, token)
	if err != nil {
		return err
	}
	return s.repo.UpdateInvitationStatus(ctx, inv.ID, InvitationStatusDeclined)
}

func (s *Service) resolveInvitation(ctx context.Context, callerID int64, token string) (*Invitation, *user.User, error) {
	inv, err := s.repo.GetInvitationByToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	if inv == nil {
		return nil, nil, ErrInvitationNotFound
	}
	if inv.Status != InvitationStatusPending {
		return nil, nil, ErrInvitationResolved
	}

	caller, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, nil, err
	}
	if caller == nil {
		return nil, nil, user.ErrUserNotFound
	}
	if !strings.EqualFold(caller.Email, inv.Email) {
		return nil, nil, ErrInvitationNotYours
	}

	return inv, caller, nil
}

func (s *Service) requireJoinedMember(ctx context.Context, groupID, userID int64) error {
	joined, err := s.IsJoinedMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !joined {
		// Distinguish a missing group from a non-member caller.
		group, err := s.repo.GetByID(ctx, groupID)
		if err != nil {
			return err
		}
		if group == nil {
			return ErrGroupNotFound
		}
		return ErrNotAuthorized
	}
	return nil
}
