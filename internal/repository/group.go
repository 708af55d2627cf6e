package repository

import (
	"context"
	"fmt"
	"time"

	"moment-admin-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// GroupRepository handles database reads for groups and their members
type GroupRepository struct {
	db *pgxpool.Pool
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{db: db}
}

// CountByUser counts the group memberships of a user
func (r *GroupRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM group_members WHERE user_id = $1`
	var count int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count group memberships: %w", err)
	}
	return count, nil
}

// CountMembers counts the members of a group
func (r *GroupRepository) CountMembers(ctx context.Context, groupID string) (int, error) {
	query := `SELECT COUNT(*) FROM group_members WHERE group_id = $1`
	var count int
	if err := r.db.QueryRow(ctx, query, groupID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count group members: %w", err)
	}
	return count, nil
}

// ListMemberships retrieves the memberships of a user joined with their
// group. Memberships whose group row is gone come back with a nil Group.
func (r *GroupRepository) ListMemberships(ctx context.Context, userID string) ([]models.GroupMembership, error) {
	query := `
		SELECT gm.group_id, g.id, g.name, g.created_at
		FROM group_members gm
		LEFT JOIN groups g ON g.id = gm.group_id
		WHERE gm.user_id = $1
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group memberships: %w", err)
	}
	defer rows.Close()

	memberships := []models.GroupMembership{}
	for rows.Next() {
		var (
			m         models.GroupMembership
			id        *string
			name      *string
			createdAt *time.Time
		)
		if err := rows.Scan(&m.GroupID, &id, &name, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan group membership: %w", err)
		}
		if id != nil {
			g := &models.GroupRecord{ID: *id, Name: name}
			if createdAt != nil {
				g.CreatedAt = *createdAt
			}
			m.Group = g
		}
		memberships = append(memberships, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group memberships: %w", err)
	}

	return memberships, nil
}
