package repository

import (
	"context"
	"fmt"

	"moment-admin-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// BetaGroupRepository handles database reads for beta groups
type BetaGroupRepository struct {
	db *pgxpool.Pool
}

// NewBetaGroupRepository creates a new beta group repository
func NewBetaGroupRepository(db *pgxpool.Pool) *BetaGroupRepository {
	return &BetaGroupRepository{db: db}
}

// List retrieves every beta group, newest first
func (r *BetaGroupRepository) List(ctx context.Context) ([]models.BetaGroup, error) {
	query := `
		SELECT id, name, created_at
		FROM beta_groups
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list beta groups: %w", err)
	}
	defer rows.Close()

	groups := []models.BetaGroup{}
	for rows.Next() {
		var g models.BetaGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan beta group: %w", err)
		}
		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating beta groups: %w", err)
	}

	return groups, nil
}

// ListMembers retrieves the joined members of a beta group with their
// profile, in join order
func (r *BetaGroupRepository) ListMembers(ctx context.Context, groupID string) ([]models.BetaGroupMember, error) {
	query := `
		SELECT m.group_id, m.user_id, m.joined_at,
			p.id IS NOT NULL, COALESCE(p.first_name, ''), p.last_name, p.avatar_url
		FROM beta_group_members m
		LEFT JOIN profiles p ON p.id = m.user_id
		WHERE m.group_id = $1
		ORDER BY m.joined_at ASC
	`
	rows, err := r.db.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get beta group members: %w", err)
	}
	defer rows.Close()

	members := []models.BetaGroupMember{}
	for rows.Next() {
		var (
			m          models.BetaGroupMember
			hasProfile bool
			profile    models.MemberProfile
		)
		err := rows.Scan(
			&m.GroupID, &m.UserID, &m.JoinedAt,
			&hasProfile, &profile.FirstName, &profile.LastName, &profile.AvatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan beta group member: %w", err)
		}
		if hasProfile {
			m.Profile = &profile
		}
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating beta group members: %w", err)
	}

	return members, nil
}

// ListPending retrieves the pending members of a beta group in the order
// they were added
func (r *BetaGroupRepository) ListPending(ctx context.Context, groupID string) ([]models.BetaGroupPendingMember, error) {
	query := `
		SELECT group_id, phone, name, added_at
		FROM beta_group_pending_members
		WHERE group_id = $1
		ORDER BY added_at ASC
	`
	rows, err := r.db.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending members: %w", err)
	}
	defer rows.Close()

	pending := []models.BetaGroupPendingMember{}
	for rows.Next() {
		var p models.BetaGroupPendingMember
		if err := rows.Scan(&p.GroupID, &p.Phone, &p.Name, &p.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pending member: %w", err)
		}
		pending = append(pending, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending members: %w", err)
	}

	return pending, nil
}
