package group

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles group data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new group repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new group into the database
func (r *Repository) Create(ctx context.Context, creatorID int64, req *CreateGroupRequest) (*Group, error) {
	query := `
		INSERT INTO groups (name, description, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, created_by, created_at
	`

	group := &Group{}
	err := r.db.QueryRowContext(ctx, query, req.Name, req.Description, creatorID).Scan(
		&group.ID,
		&group.Name,
		&group.Description,
		&group.CreatedBy,
		&group.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return group, nil
}

// GetByID retrieves a group by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Group, error) {
	query := `
		SELECT id, name, description, created_by, created_at
		FROM groups
		WHERE id = $1
	`

	group := &Group{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&group.ID,
		&group.Name,
		&group.Description,
		&group.CreatedBy,
		&group.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	return group, nil
}

// ListByUserID retrieves all groups a user belongs to, with pagination
func (r *Repository) ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*Group, int, error) {
	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = $1 AND gm.status = 'JOINED'
	`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count groups: %w", err)
	}

	query := `
		SELECT g.id, g.name, g.description, g.created_by, g.created_at
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = $1 AND gm.status = 'JOINED'
		ORDER BY g.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		group := &Group{}
		if err := rows.Scan(
			&group.ID,
			&group.Name,
			&group.Description,
			&group.CreatedBy,
			&group.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}

	return groups, total, nil
}

// ListAllByUserID retrieves every group a user belongs to, without pagination.
// Used by the account-wide balance summary.
func (r *Repository) ListAllByUserID(ctx context.Context, userID int64) ([]*Group, error) {
	query := `
		SELECT g.id, g.name, g.description, g.created_by, g.created_at
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = $1 AND gm.status = 'JOINED'
		ORDER BY g.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		group := &Group{}
		if err := rows.Scan(
			&group.ID,
			&group.Name,
			&group.Description,
			&group.CreatedBy,
			&group.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}

	return groups, rows.Err()
}

// Update modifies an existing group
func (r *Repository) Update(ctx context.Context, id int64, req *UpdateGroupRequest) (*Group, error) {
	query := `
		UPDATE groups
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description)
		WHERE id = $1
		RETURNING id, name, description, created_by, created_at
	`

	group := &Group{}
	err := r.db.QueryRowContext(ctx, query, id, req.Name, req.Description).Scan(
		&group.ID,
		&group.Name,
		&group.Description,
		&group.CreatedBy,
		&group.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update group: %w", err)
	}

	return group, nil
}

// Delete removes a group
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("group not found")
	}
	return nil
}

// AddMember inserts a membership row
func (r *Repository) AddMember(ctx context.Context, groupID, userID int64, role MemberRole, status MemberStatus) (*GroupMember, error) {
	query := `
		INSERT INTO group_members (group_id, user_id, role, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, group_id, user_id, status, role, joined_at
	`

	member := &GroupMember{}
	err := r.db.QueryRowContext(ctx, query, groupID, userID, role, status).Scan(
		&member.ID,
		&member.GroupID,
		&member.UserID,
		&member.Status,
		&member.Role,
		&member.JoinedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return member, nil
}

// GetMember retrieves one membership row
func (r *Repository) GetMember(ctx context.Context, groupID, userID int64) (*GroupMember, error) {
	query := `
		SELECT id, group_id, user_id, status, role, joined_at
		FROM group_members
		WHERE group_id = $1 AND user_id = $2
	`

	member := &GroupMember{}
	err := r.db.QueryRowContext(ctx, query, groupID, userID).Scan(
		&member.ID,
		&member.GroupID,
		&member.UserID,
		&member.Status,
		&member.Role,
		&member.JoinedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return member, nil
}

// GetMembers retrieves all members of a group with display fields
func (r *Repository) GetMembers(ctx context.Context, groupID int64) ([]*GroupMember, error) {
	query := `
		SELECT gm.id, gm.group_id, gm.user_id, gm.status, gm.role, gm.joined_at, u.username, u.email
		FROM group_members gm
		JOIN users u ON gm.user_id = u.id
		WHERE gm.group_id = $1
		ORDER BY gm.joined_at
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []*GroupMember
	for rows.Next() {
		member := &GroupMember{}
		if err := rows.Scan(
			&member.ID,
			&member.GroupID,
			&member.UserID,
			&member.Status,
			&member.Role,
			&member.JoinedAt,
			&member.Username,
			&member.Email,
		); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}

	return members, rows.Err()
}

// MemberIDs retrieves the user IDs of all joined members, in join order.
// This ordering is what balance tables are keyed on.
func (r *Repository) MemberIDs(ctx context.Context, groupID int64) ([]int64, error) {
	query := `
		SELECT user_id
		FROM group_members
		WHERE group_id = $1 AND status = 'JOINED'
		ORDER BY joined_at
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan member id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// UpdateMemberStatus changes a member's status
func (r *Repository) UpdateMemberStatus(ctx context.Context, groupID, userID int64, status MemberStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE group_members SET status = $3 WHERE group_id = $1 AND user_id = $2`,
		groupID, userID, status)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("member not found")
	}
	return nil
}

// RemoveMember deletes a membership row
func (r *Repository) RemoveMember(ctx context.Context, groupID, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`,
		groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("member not found")
	}
	return nil
}

// CreateInvitation inserts a new invitation
func (r *Repository) CreateInvitation(ctx context.Context, groupID int64, email, token string, invitedBy int64) (*Invitation, error) {
	query := `
		INSERT INTO group_invitations (group_id, email, token, invited_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, group_id, email, token, invited_by, status, created_at, accepted_at
	`

	inv := &Invitation{}
	err := r.db.QueryRowContext(ctx, query, groupID, email, token, invitedBy).Scan(
		&inv.ID,
		&inv.GroupID,
		&inv.Email,
		&inv.Token,
		&inv.InvitedBy,
		&inv.Status,
		&inv.CreatedAt,
		&inv.AcceptedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	return inv, nil
}

// GetInvitationByToken retrieves an invitation by its token
func (r *Repository) GetInvitationByToken(ctx context.Context, token string) (*Invitation, error) {
	query := `
		SELECT i.id, i.group_id, i.email, i.token, i.invited_by, i.status, i.created_at, i.accepted_at,
		       g.name, u.username
		FROM group_invitations i
		JOIN groups g ON i.group_id = g.id
		JOIN users u ON i.invited_by = u.id
		WHERE i.token = $1
	`

	inv := &Invitation{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&inv.ID,
		&inv.GroupID,
		&inv.Email,
		&inv.Token,
		&inv.InvitedBy,
		&inv.Status,
		&inv.CreatedAt,
		&inv.AcceptedAt,
		&inv.GroupName,
		&inv.InviterUsername,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}

	return inv, nil
}

// GetPendingInvitation retrieves an open invitation for an email in a group
func (r *Repository) GetPendingInvitation(ctx context.Context, groupID int64, email string) (*Invitation, error) {
	query := `
		SELECT id, group_id, email, token, invited_by, status, created_at, accepted_at
		FROM group_invitations
		WHERE group_id = $1 AND LOWER(email) = LOWER($2) AND status = 'PENDING'
	`

	inv := &Invitation{}
	err := r.db.QueryRowContext(ctx, query, groupID, email).Scan(
		&inv.ID,
		&inv.GroupID,
		&inv.Email,
		&inv.Token,
		&inv.InvitedBy,
		&inv.Status,
		&inv.CreatedAt,
		&inv.AcceptedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}

	return inv, nil
}

// ListInvitationsByEmail retrieves pending invitations addressed to an email
func (r *Repository) ListInvitationsByEmail(ctx context.Context, email string) ([]*Invitation, error) {
	query := `
		SELECT i.id, i.group_id, i.email, i.token, i.invited_by, i.status, i.created_at, i.accepted_at,
		       g.name, u.username
		FROM group_invitations i
		JOIN groups g ON i.group_id = g.id
		JOIN users u ON i.invited_by = u.id
		WHERE LOWER(i.email) = LOWER($1) AND i.status = 'PENDING'
		ORDER BY i.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	var invitations []*Invitation
	for rows.Next() {
		inv := &Invitation{}
		if err := rows.Scan(
			&inv.ID,
			&inv.GroupID,
			&inv.Email,
			&inv.Token,
			&inv.InvitedBy,
			&inv.Status,
			&inv.CreatedAt,
			&inv.AcceptedAt,
			&inv.GroupName,
			&inv.InviterUsername,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		invitations = append(invitations, inv)
	}

	return invitations, rows.Err()
}

// UpdateInvitationStatus resolves an invitation
func (r *Repository) UpdateInvitationStatus(ctx context.Context, id int64, status InvitationStatus) error {
	query := `
		UPDATE group_invitations
		SET status = $2,
		    accepted_at = CASE WHEN $2 = 'ACCEPTED' THEN NOW() ELSE accepted_at END
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update invitation: %w", err)
	}
	return nil
}
